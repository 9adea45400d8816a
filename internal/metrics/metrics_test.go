package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncrementCounter(t *testing.T) {
	r := NewRegistry()

	r.IncrementCounter("requests_total", nil, "Total requests")
	r.IncrementCounter("requests_total", nil, "Total requests")
	r.IncrementCounter("requests_total", nil, "Total requests")

	snap := r.GetAll()
	require.Contains(t, snap.Counters, "requests_total")
	assert.Equal(t, float64(3), snap.Counters["requests_total"].Value)
	assert.Equal(t, Counter, snap.Counters["requests_total"].Type)
}

func TestAddToCounter(t *testing.T) {
	r := NewRegistry()

	r.AddToCounter("messages_ingested_total", 5, nil, "Messages ingested")
	r.AddToCounter("messages_ingested_total", 7, nil, "Messages ingested")

	snap := r.GetAll()
	assert.Equal(t, float64(12), snap.Counters["messages_ingested_total"].Value)
}

func TestCounterLabels(t *testing.T) {
	r := NewRegistry()

	r.IncrementCounter("scrapes_total", map[string]string{"channel": "news"}, "")
	r.IncrementCounter("scrapes_total", map[string]string{"channel": "alerts"}, "")
	r.IncrementCounter("scrapes_total", map[string]string{"channel": "news"}, "")

	snap := r.GetAll()
	require.Contains(t, snap.Counters, "scrapes_total{channel=news}")
	require.Contains(t, snap.Counters, "scrapes_total{channel=alerts}")
	assert.Equal(t, float64(2), snap.Counters["scrapes_total{channel=news}"].Value)
	assert.Equal(t, float64(1), snap.Counters["scrapes_total{channel=alerts}"].Value)
}

func TestMetricKeyLabelOrderStable(t *testing.T) {
	a := metricKey("m", map[string]string{"x": "1", "y": "2"})
	b := metricKey("m", map[string]string{"y": "2", "x": "1"})
	assert.Equal(t, a, b)
	assert.Equal(t, "m{x=1}{y=2}", a)
}

func TestSetGauge(t *testing.T) {
	r := NewRegistry()

	r.SetGauge("channels_configured", 3, nil, "Configured channels")
	r.SetGauge("channels_configured", 5, nil, "Configured channels")

	snap := r.GetAll()
	assert.Equal(t, float64(5), snap.Gauges["channels_configured"].Value)
	assert.Equal(t, Gauge, snap.Gauges["channels_configured"].Type)
}

func TestRecordTimer(t *testing.T) {
	r := NewRegistry()

	r.RecordTimer("scrape_duration", 100*time.Millisecond, nil, "")
	r.RecordTimer("scrape_duration", 300*time.Millisecond, nil, "")

	snap := r.GetAll()
	timer := snap.Timers["scrape_duration"]
	require.NotNil(t, timer)
	assert.Equal(t, int64(2), timer.Count)
	assert.InDelta(t, 400, timer.Sum, 1)
	assert.InDelta(t, 100, timer.Min, 1)
	assert.InDelta(t, 300, timer.Max, 1)
	assert.InDelta(t, 200, timer.Average, 1)
}

func TestGetAllReturnsCopies(t *testing.T) {
	r := NewRegistry()
	r.IncrementCounter("c", nil, "")

	snap := r.GetAll()
	snap.Counters["c"].Value = 999

	assert.Equal(t, float64(1), r.GetAll().Counters["c"].Value)
}

func TestReset(t *testing.T) {
	r := NewRegistry()
	r.IncrementCounter("c", nil, "")
	r.SetGauge("g", 1, nil, "")
	r.RecordTimer("t", time.Millisecond, nil, "")

	r.Reset()

	snap := r.GetAll()
	assert.Empty(t, snap.Counters)
	assert.Empty(t, snap.Gauges)
	assert.Empty(t, snap.Timers)
}

func TestGlobalRegistry(t *testing.T) {
	GetRegistry().Reset()
	defer GetRegistry().Reset()

	IncrementCounter("global_counter", nil, "")
	AddToCounter("global_counter", 2, nil, "")
	SetGauge("global_gauge", 7, nil, "")
	RecordTimer("global_timer", time.Millisecond, nil, "")

	snap := GetAllMetrics()
	assert.Equal(t, float64(3), snap.Counters["global_counter"].Value)
	assert.Equal(t, float64(7), snap.Gauges["global_gauge"].Value)
	assert.Equal(t, int64(1), snap.Timers["global_timer"].Count)
	assert.GreaterOrEqual(t, snap.UptimeSeconds, 0.0)
}
