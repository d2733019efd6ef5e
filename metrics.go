package resredis

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the
// promcollector package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordGet is called after each Get.
	RecordGet(duration time.Duration, err error)

	// RecordSave is called after each Save.
	RecordSave(duration time.Duration, err error)

	// RecordUpdate is called after each Update.
	RecordUpdate(duration time.Duration, err error)

	// RecordDestroy is called after each Destroy.
	RecordDestroy(duration time.Duration, err error)

	// RecordScan is called after each Filter, Find or All.
	// scanned is the number of index entries fetched, matched the number
	// of records returned.
	RecordScan(scanned, matched int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordGet(time.Duration, error)            {}
func (NoopMetricsCollector) RecordSave(time.Duration, error)           {}
func (NoopMetricsCollector) RecordUpdate(time.Duration, error)         {}
func (NoopMetricsCollector) RecordDestroy(time.Duration, error)        {}
func (NoopMetricsCollector) RecordScan(int, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	GetCount       atomic.Int64
	GetErrors      atomic.Int64
	GetTotalNanos  atomic.Int64
	SaveCount      atomic.Int64
	SaveErrors     atomic.Int64
	SaveTotalNanos atomic.Int64
	UpdateCount    atomic.Int64
	UpdateErrors   atomic.Int64
	DestroyCount   atomic.Int64
	DestroyErrors  atomic.Int64
	ScanCount      atomic.Int64
	ScanErrors     atomic.Int64
	ScannedRecords atomic.Int64
	MatchedRecords atomic.Int64
}

// RecordGet implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGet(duration time.Duration, err error) {
	b.GetCount.Add(1)
	b.GetTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.GetErrors.Add(1)
	}
}

// RecordSave implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSave(duration time.Duration, err error) {
	b.SaveCount.Add(1)
	b.SaveTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SaveErrors.Add(1)
	}
}

// RecordUpdate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordUpdate(duration time.Duration, err error) {
	b.UpdateCount.Add(1)
	if err != nil {
		b.UpdateErrors.Add(1)
	}
}

// RecordDestroy implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDestroy(duration time.Duration, err error) {
	b.DestroyCount.Add(1)
	if err != nil {
		b.DestroyErrors.Add(1)
	}
}

// RecordScan implements MetricsCollector.
func (b *BasicMetricsCollector) RecordScan(scanned, matched int, duration time.Duration, err error) {
	b.ScanCount.Add(1)
	b.ScannedRecords.Add(int64(scanned))
	b.MatchedRecords.Add(int64(matched))
	if err != nil {
		b.ScanErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		GetCount:       b.GetCount.Load(),
		GetErrors:      b.GetErrors.Load(),
		GetAvgNanos:    avg(b.GetTotalNanos.Load(), b.GetCount.Load()),
		SaveCount:      b.SaveCount.Load(),
		SaveErrors:     b.SaveErrors.Load(),
		SaveAvgNanos:   avg(b.SaveTotalNanos.Load(), b.SaveCount.Load()),
		UpdateCount:    b.UpdateCount.Load(),
		UpdateErrors:   b.UpdateErrors.Load(),
		DestroyCount:   b.DestroyCount.Load(),
		DestroyErrors:  b.DestroyErrors.Load(),
		ScanCount:      b.ScanCount.Load(),
		ScanErrors:     b.ScanErrors.Load(),
		ScannedRecords: b.ScannedRecords.Load(),
		MatchedRecords: b.MatchedRecords.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	GetCount       int64
	GetErrors      int64
	GetAvgNanos    int64
	SaveCount      int64
	SaveErrors     int64
	SaveAvgNanos   int64
	UpdateCount    int64
	UpdateErrors   int64
	DestroyCount   int64
	DestroyErrors  int64
	ScanCount      int64
	ScanErrors     int64
	ScannedRecords int64
	MatchedRecords int64
}
