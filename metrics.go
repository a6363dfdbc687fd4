package hgraph

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems.
type MetricsCollector interface {
	// RecordAdd is called after each Add call. count is the number of
	// inputs attempted, failed is the number rejected as duplicate
	// labels, duration is the total time taken.
	RecordAdd(count, failed int, duration time.Duration)

	// RecordSearch is called after each KnnSearch/RangeSearch call.
	RecordSearch(k int, duration time.Duration, err error)

	// RecordSerialize is called after each Serialize/Deserialize call.
	RecordSerialize(bytes int, duration time.Duration, err error)
}

// NoopMetricsCollector discards everything. It is the default.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAdd(int, int, time.Duration)          {}
func (NoopMetricsCollector) RecordSearch(int, time.Duration, error)     {}
func (NoopMetricsCollector) RecordSerialize(int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection,
// useful for debugging without a monitoring backend.
type BasicMetricsCollector struct {
	AddCount         atomic.Int64
	AddItems         atomic.Int64
	AddFailed        atomic.Int64
	SearchCount      atomic.Int64
	SearchErrors     atomic.Int64
	SearchTotalNanos atomic.Int64
	SerializeCount   atomic.Int64
	SerializeErrors  atomic.Int64
	SerializeBytes   atomic.Int64
}

var _ MetricsCollector = (*BasicMetricsCollector)(nil)

func (b *BasicMetricsCollector) RecordAdd(count, failed int, _ time.Duration) {
	b.AddCount.Add(1)
	b.AddItems.Add(int64(count))
	b.AddFailed.Add(int64(failed))
}

func (b *BasicMetricsCollector) RecordSearch(_ int, duration time.Duration, err error) {
	b.SearchCount.Add(1)
	b.SearchTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SearchErrors.Add(1)
	}
}

func (b *BasicMetricsCollector) RecordSerialize(bytes int, _ time.Duration, err error) {
	b.SerializeCount.Add(1)
	b.SerializeBytes.Add(int64(bytes))
	if err != nil {
		b.SerializeErrors.Add(1)
	}
}

// PrometheusCollector implements MetricsCollector against client_golang:
// counters for Add calls and rejected duplicate labels, a counter and a
// latency histogram for searches, and a counter and a size histogram for
// Serialize/Deserialize.
type PrometheusCollector struct {
	addTotal       prometheus.Counter
	addFailedTotal prometheus.Counter
	searchTotal    *prometheus.CounterVec
	searchDuration prometheus.Histogram
	serializeBytes prometheus.Histogram
	serializeTotal *prometheus.CounterVec
}

var _ MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheusCollector registers hgraph's metrics against reg and
// returns a ready-to-use collector. Pass prometheus.DefaultRegisterer to
// use the global registry.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	p := &PrometheusCollector{
		addTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hgraph_add_total",
			Help: "Total number of Add calls.",
		}),
		addFailedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hgraph_add_duplicate_labels_total",
			Help: "Total number of inputs rejected as duplicate labels.",
		}),
		searchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hgraph_search_total",
			Help: "Total number of KnnSearch/RangeSearch calls, by outcome.",
		}, []string{"outcome"}),
		searchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "hgraph_search_duration_seconds",
			Help:    "KnnSearch/RangeSearch latency.",
			Buckets: prometheus.DefBuckets,
		}),
		serializeBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "hgraph_serialize_bytes",
			Help:    "Size of the byte stream produced by Serialize.",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
		}),
		serializeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hgraph_serialize_total",
			Help: "Total number of Serialize/Deserialize calls, by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(p.addTotal, p.addFailedTotal, p.searchTotal, p.searchDuration, p.serializeBytes, p.serializeTotal)
	return p
}

func (p *PrometheusCollector) RecordAdd(count, failed int, _ time.Duration) {
	p.addTotal.Inc()
	p.addFailedTotal.Add(float64(failed))
}

func (p *PrometheusCollector) RecordSearch(_ int, duration time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	p.searchTotal.WithLabelValues(outcome).Inc()
	p.searchDuration.Observe(duration.Seconds())
}

func (p *PrometheusCollector) RecordSerialize(bytes int, _ time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	p.serializeTotal.WithLabelValues(outcome).Inc()
	if err == nil {
		p.serializeBytes.Observe(float64(bytes))
	}
}
