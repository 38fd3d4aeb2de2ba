package exprset

import (
	"log/slog"

	"github.com/hupe1980/exprset/frame"
)

type options struct {
	pheno            *frame.Frame
	features         *frame.Frame
	study            *Study
	strictLabels     bool
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures Set construction.
type Option func(*options)

// WithPheno binds a sample annotation table. Its row identifiers must match
// the matrix column identifiers as a set; rows are reordered to matrix
// column order during construction.
func WithPheno(f *frame.Frame) Option {
	return func(o *options) {
		o.pheno = f
	}
}

// WithFeatures binds a feature annotation table. Its row identifiers must
// match the matrix row identifiers as a set; rows are reordered to matrix
// row order during construction.
func WithFeatures(f *frame.Frame) Option {
	return func(o *options) {
		o.features = f
	}
}

// WithStudy binds an experiment description record. The record is copied
// during construction; later changes to the argument do not affect the Set.
func WithStudy(s Study) Option {
	return func(o *options) {
		o.study = &s
	}
}

// WithStrictLabels makes construction fail when a bound table has a column
// without a human-readable label. By default missing labels fall back to
// the column name.
func WithStrictLabels() Option {
	return func(o *options) {
		o.strictLabels = true
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &exprset.BasicMetricsCollector{}
//	es, _ := exprset.New(m, exprset.WithMetricsCollector(metrics))
//	// ... use es ...
//	stats := metrics.GetStats()
//	fmt.Printf("Constructs: %d, Avg latency: %dns\n", stats.ConstructCount, stats.ConstructAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := exprset.NewJSONLogger(slog.LevelInfo)
//	es, _ := exprset.New(m, exprset.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
