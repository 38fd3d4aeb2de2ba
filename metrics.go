package exprset

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    constructCounter  prometheus.Counter
//	    subsetHistogram   prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordConstruct(duration time.Duration, err error) {
//	    p.constructCounter.Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordConstruct is called after each container construction.
	// duration is the total validation time, err is nil if successful.
	RecordConstruct(duration time.Duration, err error)

	// RecordSubset is called after each subset operation.
	RecordSubset(duration time.Duration, err error)

	// RecordSave is called after a dataset file is written.
	// bytes is the encoded size on success.
	RecordSave(bytes int64, duration time.Duration, err error)

	// RecordLoad is called after a dataset file is read.
	// bytes is the file size on success.
	RecordLoad(bytes int64, duration time.Duration, err error)

	// RecordFetch is called after a repository fetch completes.
	RecordFetch(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordConstruct(time.Duration, error)   {}
func (NoopMetricsCollector) RecordSubset(time.Duration, error)      {}
func (NoopMetricsCollector) RecordSave(int64, time.Duration, error) {}
func (NoopMetricsCollector) RecordLoad(int64, time.Duration, error) {}
func (NoopMetricsCollector) RecordFetch(time.Duration, error)       {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	ConstructCount      atomic.Int64
	ConstructErrors     atomic.Int64
	ConstructTotalNanos atomic.Int64
	SubsetCount         atomic.Int64
	SubsetErrors        atomic.Int64
	SubsetTotalNanos    atomic.Int64
	SaveCount           atomic.Int64
	SaveErrors          atomic.Int64
	SaveBytes           atomic.Int64
	LoadCount           atomic.Int64
	LoadErrors          atomic.Int64
	LoadBytes           atomic.Int64
	FetchCount          atomic.Int64
	FetchErrors         atomic.Int64
}

// RecordConstruct implements MetricsCollector.
func (b *BasicMetricsCollector) RecordConstruct(duration time.Duration, err error) {
	b.ConstructCount.Add(1)
	b.ConstructTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ConstructErrors.Add(1)
	}
}

// RecordSubset implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSubset(duration time.Duration, err error) {
	b.SubsetCount.Add(1)
	b.SubsetTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SubsetErrors.Add(1)
	}
}

// RecordSave implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSave(bytes int64, duration time.Duration, err error) {
	b.SaveCount.Add(1)
	if err != nil {
		b.SaveErrors.Add(1)
		return
	}
	b.SaveBytes.Add(bytes)
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(bytes int64, duration time.Duration, err error) {
	b.LoadCount.Add(1)
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.LoadBytes.Add(bytes)
}

// RecordFetch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFetch(duration time.Duration, err error) {
	b.FetchCount.Add(1)
	if err != nil {
		b.FetchErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		ConstructCount:    b.ConstructCount.Load(),
		ConstructErrors:   b.ConstructErrors.Load(),
		ConstructAvgNanos: b.getAvgConstructNanos(),
		SubsetCount:       b.SubsetCount.Load(),
		SubsetErrors:      b.SubsetErrors.Load(),
		SubsetAvgNanos:    b.getAvgSubsetNanos(),
		SaveCount:         b.SaveCount.Load(),
		SaveErrors:        b.SaveErrors.Load(),
		SaveBytes:         b.SaveBytes.Load(),
		LoadCount:         b.LoadCount.Load(),
		LoadErrors:        b.LoadErrors.Load(),
		LoadBytes:         b.LoadBytes.Load(),
		FetchCount:        b.FetchCount.Load(),
		FetchErrors:       b.FetchErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgConstructNanos() int64 {
	count := b.ConstructCount.Load()
	if count == 0 {
		return 0
	}
	return b.ConstructTotalNanos.Load() / count
}

func (b *BasicMetricsCollector) getAvgSubsetNanos() int64 {
	count := b.SubsetCount.Load()
	if count == 0 {
		return 0
	}
	return b.SubsetTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	ConstructCount    int64
	ConstructErrors   int64
	ConstructAvgNanos int64
	SubsetCount       int64
	SubsetErrors      int64
	SubsetAvgNanos    int64
	SaveCount         int64
	SaveErrors        int64
	SaveBytes         int64
	LoadCount         int64
	LoadErrors        int64
	LoadBytes         int64
	FetchCount        int64
	FetchErrors       int64
}
