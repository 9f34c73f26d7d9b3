// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	dto "github.com/prometheus/client_model/go"
)

func gather(t *testing.T) map[string]*dto.MetricFamily {
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	out := make(map[string]*dto.MetricFamily)
	for _, mf := range families {
		out[mf.GetName()] = mf
	}
	return out
}

func TestPromMetrics(t *testing.T) {
	InitializePrometheusMetrics()

	count := Counter("prom_count")
	countVec := CounterVec("prom_count_vec", []string{"parity"})
	gauge := Gauge("prom_gauge")
	hist := Histogram("prom_hist", BucketNodes)
	histVec := HistogramVec("prom_hist_vec", []string{"parity"}, nil)

	count.Add(1)
	Counter("prom_count").Add(2)

	total := 0
	for i := range 10 {
		labels := map[string]string{"parity": strconv.Itoa(i % 2)}
		countVec.AddWithLabel(int64(i), labels)
		histVec.ObserveWithLabels(int64(i), labels)
		hist.Observe(int64(i))
		total += i
	}
	gauge.Set(5)
	gauge.Add(-2)

	families := gather(t)
	require.Equal(t, float64(3), families["sybilguard_prom_count"].Metric[0].GetCounter().GetValue())
	require.Equal(t, float64(3), families["sybilguard_prom_gauge"].Metric[0].GetGauge().GetValue())
	require.Equal(t, float64(total), families["sybilguard_prom_hist"].Metric[0].GetHistogram().GetSampleSum())

	vec := families["sybilguard_prom_count_vec"]
	require.Len(t, vec.Metric, 2)
	require.Equal(t, float64(total), vec.Metric[0].GetCounter().GetValue()+vec.Metric[1].GetCounter().GetValue())

	hv := families["sybilguard_prom_hist_vec"]
	require.Equal(t, float64(total), hv.Metric[0].GetHistogram().GetSampleSum()+hv.Metric[1].GetHistogram().GetSampleSum())
}

func TestLazyLoading(t *testing.T) {
	metrics = defaultNoopMetrics()

	for _, a := range []any{
		Gauge("noopGauge"),
		Counter("noopCounter"),
		CounterVec("noopCounter", nil),
		Histogram("noopHist", nil),
		HistogramVec("noopHist", nil, nil),
	} {
		require.IsType(t, &noopMeters{}, a)
	}

	lazyGauge := LazyLoadGauge("lazyGauge")
	lazyCounter := LazyLoadCounter("lazyCounter")
	lazyCounterVec := LazyLoadCounterVec("lazyCounterVec", nil)
	lazyHistogram := LazyLoadHistogram("lazyHistogram", nil)
	lazyHistogramVec := LazyLoadHistogramVec("lazyHistogramVec", nil, nil)

	InitializePrometheusMetrics()

	require.IsType(t, &promGaugeMeter{}, lazyGauge())
	require.IsType(t, &promCountMeter{}, lazyCounter())
	require.IsType(t, &promCountVecMeter{}, lazyCounterVec())
	require.IsType(t, &promHistogramMeter{}, lazyHistogram())
	require.IsType(t, &promHistogramVecMeter{}, lazyHistogramVec())
}
