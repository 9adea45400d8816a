package metrics

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// MetricType represents the type of metric
type MetricType string

const (
	Counter MetricType = "counter"
	Timer   MetricType = "timer"
	Gauge   MetricType = "gauge"
)

// Metric represents a single metric with its metadata
type Metric struct {
	Name        string            `json:"name"`
	Type        MetricType        `json:"type"`
	Value       float64           `json:"value"`
	Labels      map[string]string `json:"labels,omitempty"`
	Description string            `json:"description,omitempty"`
	LastUpdate  time.Time         `json:"last_update"`
}

// TimerMetric stores timing information
type TimerMetric struct {
	Count   int64   `json:"count"`
	Sum     float64 `json:"sum_ms"`
	Min     float64 `json:"min_ms"`
	Max     float64 `json:"max_ms"`
	Average float64 `json:"avg_ms"`
}

// Registry manages all metrics in memory
type Registry struct {
	mu        sync.RWMutex
	counters  map[string]*Metric
	timers    map[string]*TimerMetric
	gauges    map[string]*Metric
	startTime time.Time
}

// NewRegistry creates a new metrics registry
func NewRegistry() *Registry {
	return &Registry{
		counters:  make(map[string]*Metric),
		timers:    make(map[string]*TimerMetric),
		gauges:    make(map[string]*Metric),
		startTime: time.Now(),
	}
}

var globalRegistry = NewRegistry()

// GetRegistry returns the global registry instance
func GetRegistry() *Registry {
	return globalRegistry
}

// metricKey builds a stable key from a metric name and its labels
func metricKey(name string, labels map[string]string) string {
	if len(labels) == 0 {
		return name
	}

	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	key := name
	for _, k := range keys {
		key += fmt.Sprintf("{%s=%s}", k, labels[k])
	}
	return key
}

// IncrementCounter increments a counter metric
func (r *Registry) IncrementCounter(name string, labels map[string]string, description string) {
	r.AddToCounter(name, 1, labels, description)
}

// AddToCounter adds a delta to a counter metric
func (r *Registry) AddToCounter(name string, delta float64, labels map[string]string, description string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := metricKey(name, labels)
	metric, ok := r.counters[key]
	if !ok {
		metric = &Metric{
			Name:        name,
			Type:        Counter,
			Labels:      labels,
			Description: description,
		}
		r.counters[key] = metric
	}

	metric.Value += delta
	metric.LastUpdate = time.Now()
}

// SetGauge sets a gauge metric to an absolute value
func (r *Registry) SetGauge(name string, value float64, labels map[string]string, description string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := metricKey(name, labels)
	metric, ok := r.gauges[key]
	if !ok {
		metric = &Metric{
			Name:        name,
			Type:        Gauge,
			Labels:      labels,
			Description: description,
		}
		r.gauges[key] = metric
	}

	metric.Value = value
	metric.LastUpdate = time.Now()
}

// RecordTimer records a duration measurement
func (r *Registry) RecordTimer(name string, duration time.Duration, labels map[string]string, description string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := metricKey(name, labels)
	timer, ok := r.timers[key]
	if !ok {
		timer = &TimerMetric{}
		r.timers[key] = timer
	}

	ms := float64(duration.Microseconds()) / 1000.0
	timer.Count++
	timer.Sum += ms
	if timer.Count == 1 || ms < timer.Min {
		timer.Min = ms
	}
	if ms > timer.Max {
		timer.Max = ms
	}
	timer.Average = timer.Sum / float64(timer.Count)
}

// Snapshot contains all current metrics plus process uptime
type Snapshot struct {
	Counters      map[string]*Metric      `json:"counters"`
	Timers        map[string]*TimerMetric `json:"timers"`
	Gauges        map[string]*Metric      `json:"gauges"`
	UptimeSeconds float64                 `json:"uptime_seconds"`
}

// GetAll returns a copy of all metrics in the registry
func (r *Registry) GetAll() *Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := &Snapshot{
		Counters:      make(map[string]*Metric, len(r.counters)),
		Timers:        make(map[string]*TimerMetric, len(r.timers)),
		Gauges:        make(map[string]*Metric, len(r.gauges)),
		UptimeSeconds: time.Since(r.startTime).Seconds(),
	}

	for k, v := range r.counters {
		copied := *v
		snap.Counters[k] = &copied
	}
	for k, v := range r.timers {
		copied := *v
		snap.Timers[k] = &copied
	}
	for k, v := range r.gauges {
		copied := *v
		snap.Gauges[k] = &copied
	}

	return snap
}

// Reset clears all metrics (used by tests)
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.counters = make(map[string]*Metric)
	r.timers = make(map[string]*TimerMetric)
	r.gauges = make(map[string]*Metric)
	r.startTime = time.Now()
}

// Package-level helpers operating on the global registry

func IncrementCounter(name string, labels map[string]string, description string) {
	globalRegistry.IncrementCounter(name, labels, description)
}

func AddToCounter(name string, delta float64, labels map[string]string, description string) {
	globalRegistry.AddToCounter(name, delta, labels, description)
}

func SetGauge(name string, value float64, labels map[string]string, description string) {
	globalRegistry.SetGauge(name, value, labels, description)
}

func RecordTimer(name string, duration time.Duration, labels map[string]string, description string) {
	globalRegistry.RecordTimer(name, duration, labels, description)
}

func GetAllMetrics() *Snapshot {
	return globalRegistry.GetAll()
}
