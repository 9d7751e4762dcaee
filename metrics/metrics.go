// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metrics is a thin labelled-meter facade. Meters are no-ops until
// InitializePrometheusMetrics installs the prometheus provider.
package metrics

import (
	"net/http"
	"sync"
)

var provider Provider = noopProvider{}

// Provider creates named meters. Asking twice for the same name returns the same meter.
type Provider interface {
	CounterVec(name string, labels []string) CounterVecMeter
	GaugeVec(name string, labels []string) GaugeVecMeter
	HistogramVec(name string, labels []string, buckets []int64) HistogramVecMeter
	Handler() http.Handler
}

// HTTPHandler serves the collected metrics, nil when metrics are disabled.
func HTTPHandler() http.Handler {
	return provider.Handler()
}

var (
	// BucketExecMicros spans instruction execution times in microseconds.
	BucketExecMicros = []int64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10_000, 50_000, 100_000}
	// BucketHTTPReqs spans request durations in milliseconds.
	BucketHTTPReqs = []int64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10_000}
	// BucketSlots spans storage slot accesses per instruction.
	BucketSlots = []int64{1, 2, 4, 8, 16, 32, 64, 128, 256, 512}
)

type CounterVecMeter interface {
	AddWithLabel(int64, map[string]string)
}

type GaugeVecMeter interface {
	AddWithLabel(int64, map[string]string)
	SetWithLabel(int64, map[string]string)
}

type HistogramVecMeter interface {
	ObserveWithLabels(int64, map[string]string)
}

// lazy resolves a meter on first use, so package level meters declared at
// init time bind to the provider installed later by main.
func lazy[T any](create func() T) func() T {
	return sync.OnceValue(create)
}

func LazyLoadCounterVec(name string, labels []string) func() CounterVecMeter {
	return lazy(func() CounterVecMeter { return provider.CounterVec(name, labels) })
}

func LazyLoadGaugeVec(name string, labels []string) func() GaugeVecMeter {
	return lazy(func() GaugeVecMeter { return provider.GaugeVec(name, labels) })
}

func LazyLoadHistogramVec(name string, labels []string, buckets []int64) func() HistogramVecMeter {
	return lazy(func() HistogramVecMeter { return provider.HistogramVec(name, labels, buckets) })
}
