// This file implements a fluent builder API for constructing an HGraph.
// Builders are immutable - each method returns a new builder with the
// updated configuration, mirroring the teacher's HNSWBuilder[T] pattern
// adapted to this module's single index type.
package hgraph

import (
	"log/slog"

	"github.com/vectorshelf/hgraph/distance"
)

// NewBuilder creates a new fluent HGraph builder for the given dimension.
//
// The builder is immutable - each method returns a new builder with the
// updated configuration. This ensures thread-safety and prevents
// accidental state sharing.
//
// Example:
//
//	g, err := hgraph.NewBuilder(128).
//	    Cosine().
//	    MaxDegree(32).
//	    EfConstruction(200).
//	    Reorder(true).
//	    Build()
func NewBuilder(dimension int) Builder {
	return Builder{
		dimension:      dimension,
		metric:         distance.MetricL2,
		maxDegree:      defaultMaxDegree,
		efConstruction: defaultEfConstruction,
		efSearch:       defaultEfSearch,
		buildThreads:   defaultBuildThreadCount,
	}
}

// Builder is an immutable fluent builder for constructing an HGraph.
// Each method returns a new builder with the updated configuration.
type Builder struct {
	dimension      int
	metric         distance.Metric
	maxDegree      int
	efConstruction int
	efSearch       int
	buildThreads   int
	useReorder     bool
	extraInfoSize  int
	seed           int64
	seedSet        bool
	compress       bool
	logger         *Logger
	metrics        MetricsCollector
}

// SquaredL2 sets the distance metric to squared Euclidean distance.
func (b Builder) SquaredL2() Builder {
	b.metric = distance.MetricL2
	return b
}

// Cosine sets the distance metric to cosine distance (normalized vectors).
func (b Builder) Cosine() Builder {
	b.metric = distance.MetricCosine
	return b
}

// DotProduct sets the distance metric to negative inner product.
func (b Builder) DotProduct() Builder {
	b.metric = distance.MetricDot
	return b
}

// MaxDegree sets M, the bottom layer's per-node neighbor cap.
// Default: 16. Recommended range: 12-64.
func (b Builder) MaxDegree(m int) Builder {
	b.maxDegree = m
	return b
}

// EfConstruction sets the beam width used while building the graph.
// Default: 200. Recommended range: 100-500.
func (b Builder) EfConstruction(ef int) Builder {
	b.efConstruction = ef
	return b
}

// EfSearch sets the default beam width for KnnSearch/RangeSearch calls
// that don't override it per-call. Default: 50.
func (b Builder) EfSearch(ef int) Builder {
	b.efSearch = ef
	return b
}

// BuildThreadCount sets the bounded worker pool size for Add's graph
// construction phase. Default: 1.
func (b Builder) BuildThreadCount(n int) Builder {
	b.buildThreads = n
	return b
}

// Reorder enables the optional two-stage reorder: a full-precision codec
// rescoring KnnSearch/RangeSearch candidates.
func (b Builder) Reorder(enabled bool) Builder {
	b.useReorder = enabled
	return b
}

// ExtraInfoSize configures a fixed-width blob stored per inner id.
func (b Builder) ExtraInfoSize(size int) Builder {
	b.extraInfoSize = size
	return b
}

// Seed sets the level-assignment RNG seed, for reproducible builds.
func (b Builder) Seed(seed int64) Builder {
	b.seed = seed
	b.seedSet = true
	return b
}

// Compression enables zstd framing around the serialized byte stream.
func (b Builder) Compression(enabled bool) Builder {
	b.compress = enabled
	return b
}

// Logger sets the structured logger for operation tracing.
func (b Builder) Logger(l *Logger) Builder {
	b.logger = l
	return b
}

// LogLevel creates a text logger at the given level and sets it.
func (b Builder) LogLevel(level slog.Level) Builder {
	b.logger = NewTextLogger(level)
	return b
}

// Metrics sets the metrics collector for monitoring.
func (b Builder) Metrics(mc MetricsCollector) Builder {
	b.metrics = mc
	return b
}

// Build creates the HGraph with the accumulated configuration.
func (b Builder) Build() (*HGraph, error) {
	opts := []Option{
		WithMetric(b.metric),
		WithMaxDegree(b.maxDegree),
		WithEfConstruction(b.efConstruction),
		WithEfSearch(b.efSearch),
		WithBuildThreadCount(b.buildThreads),
		WithReorder(b.useReorder),
		WithExtraInfoSize(b.extraInfoSize),
		WithCompression(b.compress),
	}
	if b.seedSet {
		opts = append(opts, WithSeed(b.seed))
	}
	if b.logger != nil {
		opts = append(opts, WithLogger(b.logger))
	}
	if b.metrics != nil {
		opts = append(opts, WithMetricsCollector(b.metrics))
	}
	return New(b.dimension, opts...)
}

// MustBuild creates the HGraph, panicking on error.
func (b Builder) MustBuild() *HGraph {
	g, err := b.Build()
	if err != nil {
		panic(err)
	}
	return g
}
