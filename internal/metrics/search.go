// Package metrics exports search progress and process health as Prometheus
// metrics.
package metrics

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/agbru/cassels/internal/discard"
	"github.com/agbru/cassels/internal/search"
	"github.com/agbru/cassels/internal/sysmon"
)

// Namespace prefixes every metric name.
const Namespace = "cassels"

// SearchMetrics implements search.Recorder on top of Prometheus collectors.
// Each completed wave adds its tuple counts, records its duration and takes
// a memory and system-load sample.
type SearchMetrics struct {
	tuples       *prometheus.CounterVec
	units        prometheus.Counter
	waves        prometheus.Counter
	waveDuration *prometheus.HistogramVec
	heapAlloc    prometheus.Gauge
	systemCPU    prometheus.Gauge
	systemMem    prometheus.Gauge

	memory *MemoryCollector
	sample func(context.Context) sysmon.Stats
}

var _ search.Recorder = (*SearchMetrics)(nil)

// NewSearchMetrics creates the search collectors and registers them with
// reg.
func NewSearchMetrics(reg prometheus.Registerer) (*SearchMetrics, error) {
	m := &SearchMetrics{
		tuples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "tuples_examined_total",
			Help:      "Exponent tuples examined, by the discard rule that fired (keep for survivors).",
		}, []string{"rule"}),
		units: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "units_total",
			Help:      "Search units completed.",
		}),
		waves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "waves_total",
			Help:      "Search waves completed.",
		}),
		waveDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "wave_duration_seconds",
			Help:      "Wall time of one wave.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"modulus"}),
		heapAlloc: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "heap_alloc_bytes",
			Help:      "Live heap bytes after the last wave.",
		}),
		systemCPU: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "system_cpu_percent",
			Help:      "System-wide CPU usage over the last wave.",
		}),
		systemMem: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "system_memory_percent",
			Help:      "System-wide memory usage after the last wave.",
		}),
		memory: NewMemoryCollector(),
		sample: sysmon.Sample,
	}
	for _, c := range []prometheus.Collector{m.tuples, m.units, m.waves, m.waveDuration, m.heapAlloc, m.systemCPU, m.systemMem} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	// Expose every rule from the start, even before it fires.
	for _, r := range discard.Rules() {
		m.tuples.WithLabelValues(r.String())
	}
	return m, nil
}

// ObserveWave records one completed wave.
func (m *SearchMetrics) ObserveWave(report search.WaveReport) {
	for _, r := range discard.Rules() {
		if n := report.Stats.ByRule[r]; n > 0 {
			m.tuples.WithLabelValues(r.String()).Add(float64(n))
		}
	}
	m.units.Add(float64(report.Units))
	m.waves.Inc()
	m.waveDuration.WithLabelValues(strconv.Itoa(report.Modulus)).Observe(report.Elapsed.Seconds())

	m.heapAlloc.Set(float64(m.memory.Snapshot().HeapAlloc))
	sys := m.sample(context.Background())
	m.systemCPU.Set(sys.CPUPercent)
	m.systemMem.Set(sys.MemPercent)
}
