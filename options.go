package hgraph

import (
	"log/slog"

	"github.com/vectorshelf/hgraph/distance"
)

type options struct {
	dim              int
	metric           distance.Metric
	maxDegree        int
	efConstruction   int
	buildThreadCount int
	useReorder       bool
	extraInfoSize    int
	efSearch         int
	seed             int64
	compress         bool
	metricsCollector MetricsCollector
	logger           *Logger
}

const (
	defaultMaxDegree        = 16
	defaultEfConstruction   = 200
	defaultEfSearch         = 50
	defaultBuildThreadCount = 1
)

// Option configures HGraph construction.
type Option func(*options)

// WithMetric sets the distance metric. Default: MetricL2.
func WithMetric(m distance.Metric) Option {
	return func(o *options) { o.metric = m }
}

// WithMaxDegree sets M, the bottom layer's per-node neighbor cap. Upper
// layers use M/2 (spec §3). Default: 16.
func WithMaxDegree(m int) Option {
	return func(o *options) { o.maxDegree = m }
}

// WithEfConstruction sets the beam width used while building the graph.
// Default: 200.
func WithEfConstruction(ef int) Option {
	return func(o *options) { o.efConstruction = ef }
}

// WithEfSearch sets the default beam width used by KnnSearch/RangeSearch
// when the caller's Params.EfSearch is zero. Default: 50.
func WithEfSearch(ef int) Option {
	return func(o *options) { o.efSearch = ef }
}

// WithBuildThreadCount sets the bounded worker pool size for AddBatch.
// Default: 1.
func WithBuildThreadCount(n int) Option {
	return func(o *options) { o.buildThreadCount = n }
}

// WithReorder enables the optional two-stage reorder: a second, full
// precision codec rescoring KnnSearch/RangeSearch candidates.
func WithReorder(enabled bool) Option {
	return func(o *options) { o.useReorder = enabled }
}

// WithExtraInfoSize configures a fixed-width blob stored per inner id,
// retrievable alongside search results. 0 disables extra info.
func WithExtraInfoSize(size int) Option {
	return func(o *options) { o.extraInfoSize = size }
}

// WithSeed seeds the level-assignment RNG, for reproducible builds.
func WithSeed(seed int64) Option {
	return func(o *options) { o.seed = seed }
}

// WithCompression enables zstd framing around the serialized byte stream
// (SPEC_FULL §11); the field order inside the decompressed stream is
// unchanged.
func WithCompression(enabled bool) Option {
	return func(o *options) { o.compress = enabled }
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) { o.metricsCollector = mc }
}

// WithLogger configures structured logging for operations. Pass nil to
// disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithLogLevel creates a text logger with the specified level and sets it.
func WithLogLevel(level slog.Level) Option {
	return func(o *options) { o.logger = NewTextLogger(level) }
}

func applyOptions(dim int, optFns []Option) options {
	o := options{
		dim:              dim,
		metric:           distance.MetricL2,
		maxDegree:        defaultMaxDegree,
		efConstruction:   defaultEfConstruction,
		efSearch:         defaultEfSearch,
		buildThreadCount: defaultBuildThreadCount,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	return o
}
