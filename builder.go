// This file implements a fluent builder API for assembling Set instances.
// The builder is immutable - each method returns a new builder with the
// updated configuration.
package exprset

import (
	"github.com/hupe1980/exprset/frame"
	"github.com/hupe1980/exprset/matrix"
)

// From creates a new builder around an expression matrix.
//
// The builder is immutable - each method returns a new builder with the
// updated configuration. This ensures thread-safety and prevents accidental
// state sharing.
//
// Example:
//
//	es, err := exprset.From(m).
//	    Pheno(covariates).
//	    Features(annotations).
//	    Study(exprset.Study{Lab: "CBU"}).
//	    StrictLabels().
//	    Build()
func From(m *matrix.Dense) Builder {
	return Builder{m: m}
}

// Builder is an immutable fluent builder for creating Set instances.
// Each method returns a new builder with the updated configuration.
type Builder struct {
	m            *matrix.Dense
	pheno        *frame.Frame
	features     *frame.Frame
	study        *Study
	strictLabels bool
	logger       *Logger
	metrics      MetricsCollector
}

// Pheno binds a sample annotation table.
func (b Builder) Pheno(f *frame.Frame) Builder {
	b.pheno = f
	return b
}

// Features binds a feature annotation table.
func (b Builder) Features(f *frame.Frame) Builder {
	b.features = f
	return b
}

// Study binds an experiment description record.
func (b Builder) Study(s Study) Builder {
	b.study = &s
	return b
}

// StrictLabels makes Build fail when a bound table has an unlabeled column.
func (b Builder) StrictLabels() Builder {
	b.strictLabels = true
	return b
}

// Logger sets the structured logger for operation tracing.
func (b Builder) Logger(l *Logger) Builder {
	b.logger = l
	return b
}

// Metrics sets the metrics collector for monitoring.
func (b Builder) Metrics(mc MetricsCollector) Builder {
	b.metrics = mc
	return b
}

// Build creates the Set, running full validation.
func (b Builder) Build() (*Set, error) {
	var optFns []Option

	if b.pheno != nil {
		optFns = append(optFns, WithPheno(b.pheno))
	}
	if b.features != nil {
		optFns = append(optFns, WithFeatures(b.features))
	}
	if b.study != nil {
		optFns = append(optFns, WithStudy(*b.study))
	}
	if b.strictLabels {
		optFns = append(optFns, WithStrictLabels())
	}
	if b.logger != nil {
		optFns = append(optFns, WithLogger(b.logger))
	}
	if b.metrics != nil {
		optFns = append(optFns, WithMetricsCollector(b.metrics))
	}

	return New(b.m, optFns...)
}

// MustBuild creates the Set, panicking on error.
func (b Builder) MustBuild() *Set {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}
