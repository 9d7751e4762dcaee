// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func family(t *testing.T, name string) *dto.MetricFamily {
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	require.FailNow(t, "metric not gathered", name)
	return nil
}

func TestPrometheusProvider(t *testing.T) {
	InitializePrometheusMetrics()

	instructions := provider.CounterVec("test_instructions", []string{"outcome"})
	vaults := provider.GaugeVec("test_vault_balance", []string{"pool"})
	latency := provider.HistogramVec("test_exec_micros", []string{"kind"}, BucketExecMicros)

	assert.Same(t, instructions.(counterVec).CounterVec, provider.CounterVec("test_instructions", nil).(counterVec).CounterVec)

	for i := range int64(4) {
		outcome := "ok"
		if i%2 == 1 {
			outcome = "PoolFull"
		}
		instructions.AddWithLabel(1, map[string]string{"outcome": outcome})
		latency.ObserveWithLabels(100*i, map[string]string{"kind": "join"})
	}
	vaults.SetWithLabel(30, map[string]string{"pool": "1"})
	vaults.AddWithLabel(-10, map[string]string{"pool": "1"})

	var total float64
	for _, m := range family(t, "pact_test_instructions").Metric {
		total += m.GetCounter().GetValue()
	}
	assert.Equal(t, float64(4), total)
	assert.Equal(t, float64(20), family(t, "pact_test_vault_balance").Metric[0].GetGauge().GetValue())

	hist := family(t, "pact_test_exec_micros").Metric[0].GetHistogram()
	assert.Equal(t, uint64(4), hist.GetSampleCount())
	assert.Equal(t, float64(600), hist.GetSampleSum())

	assert.NotNil(t, HTTPHandler())
}

func TestLazyLoad(t *testing.T) {
	provider = noopProvider{}
	assert.Nil(t, HTTPHandler())
	assert.IsType(t, noopMeter{}, provider.CounterVec("noop", nil))

	counter := LazyLoadCounterVec("lazy_counter", nil)
	gauge := LazyLoadGaugeVec("lazy_gauge", nil)
	hist := LazyLoadHistogramVec("lazy_hist", nil, BucketSlots)

	// meters bind to the provider installed before their first use
	InitializePrometheusMetrics()

	assert.IsType(t, counterVec{}, counter())
	assert.IsType(t, gaugeVec{}, gauge())
	assert.IsType(t, histogramVec{}, hist())
	assert.Equal(t, counter(), counter())
}
