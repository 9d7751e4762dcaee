// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/stakepact/pact/log"
)

const namespace = "pact"

var logger = log.WithContext("pkg", "metrics")

// InitializePrometheusMetrics installs the prometheus provider on the default registry.
// Calling it again keeps the installed provider and its meters.
func InitializePrometheusMetrics() {
	if _, ok := provider.(*promProvider); !ok {
		provider = &promProvider{meters: xsync.NewMap[string, any]()}
	}
}

type promProvider struct {
	meters *xsync.Map[string, any]
}

// register returns the meter known as kind/name, creating and registering it once.
func register[T any](p *promProvider, kind, name string, create func() (prometheus.Collector, T)) T {
	var meter any
	p.meters.Compute(kind+"/"+name, func(old any, loaded bool) (any, xsync.ComputeOp) {
		if loaded {
			meter = old
			return old, xsync.CancelOp
		}
		collector, m := create()
		if err := prometheus.Register(collector); err != nil {
			logger.Warn("metric not registered", "name", name, "err", err)
		}
		meter = m
		return m, xsync.UpdateOp
	})
	return meter.(T)
}

func (p *promProvider) Handler() http.Handler {
	return promhttp.Handler()
}

func (p *promProvider) CounterVec(name string, labels []string) CounterVecMeter {
	return register(p, "counter", name, func() (prometheus.Collector, CounterVecMeter) {
		vec := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: name}, labels)
		return vec, counterVec{vec}
	})
}

func (p *promProvider) GaugeVec(name string, labels []string) GaugeVecMeter {
	return register(p, "gauge", name, func() (prometheus.Collector, GaugeVecMeter) {
		vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: namespace, Name: name}, labels)
		return vec, gaugeVec{vec}
	})
}

func (p *promProvider) HistogramVec(name string, labels []string, buckets []int64) HistogramVecMeter {
	return register(p, "histogram", name, func() (prometheus.Collector, HistogramVecMeter) {
		bounds := make([]float64, len(buckets))
		for i, b := range buckets {
			bounds[i] = float64(b)
		}
		vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Buckets:   bounds,
		}, labels)
		return vec, histogramVec{vec}
	})
}

type counterVec struct{ *prometheus.CounterVec }

func (c counterVec) AddWithLabel(n int64, labels map[string]string) {
	c.With(labels).Add(float64(n))
}

type gaugeVec struct{ *prometheus.GaugeVec }

func (g gaugeVec) AddWithLabel(n int64, labels map[string]string) {
	g.With(labels).Add(float64(n))
}

func (g gaugeVec) SetWithLabel(n int64, labels map[string]string) {
	g.With(labels).Set(float64(n))
}

type histogramVec struct{ *prometheus.HistogramVec }

func (h histogramVec) ObserveWithLabels(n int64, labels map[string]string) {
	h.With(labels).Observe(float64(n))
}
