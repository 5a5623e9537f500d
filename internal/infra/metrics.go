package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	namesResolved   atomic.Uint64
	namesUnresolved atomic.Uint64
	pagesFetched    atomic.Uint64
	retries         atomic.Uint64
	cacheHits       atomic.Uint64
	cacheMisses     atomic.Uint64
	itemsSkipped    atomic.Uint64
	itemsRanked     atomic.Uint64
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordResolved records resolved and unresolved name counts from one lookup.
func (m *Metrics) RecordResolved(resolved, unresolved int) {
	m.namesResolved.Add(uint64(resolved))
	m.namesUnresolved.Add(uint64(unresolved))
}

// RecordPage records one order-book page fetched.
func (m *Metrics) RecordPage() {
	m.pagesFetched.Add(1)
}

// RecordRetry records one transient-failure retry.
func (m *Metrics) RecordRetry() {
	m.retries.Add(1)
}

// RecordCacheHit records a best-order cache hit.
func (m *Metrics) RecordCacheHit() {
	m.cacheHits.Add(1)
}

// RecordCacheMiss records a best-order cache miss (a network fetch).
func (m *Metrics) RecordCacheMiss() {
	m.cacheMisses.Add(1)
}

// RecordSkip records one finished item discarded from the run.
func (m *Metrics) RecordSkip() {
	m.itemsSkipped.Add(1)
}

// RecordRanked records one finished item that made it into the report.
func (m *Metrics) RecordRanked() {
	m.itemsRanked.Add(1)
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	NamesResolved   uint64
	NamesUnresolved uint64
	PagesFetched    uint64
	Retries         uint64
	CacheHits       uint64
	CacheMisses     uint64
	ItemsSkipped    uint64
	ItemsRanked     uint64
	Timestamp       time.Time
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		NamesResolved:   m.namesResolved.Load(),
		NamesUnresolved: m.namesUnresolved.Load(),
		PagesFetched:    m.pagesFetched.Load(),
		Retries:         m.retries.Load(),
		CacheHits:       m.cacheHits.Load(),
		CacheMisses:     m.cacheMisses.Load(),
		ItemsSkipped:    m.itemsSkipped.Load(),
		ItemsRanked:     m.itemsRanked.Load(),
		Timestamp:       time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.namesResolved.Store(0)
	m.namesUnresolved.Store(0)
	m.pagesFetched.Store(0)
	m.retries.Store(0)
	m.cacheHits.Store(0)
	m.cacheMisses.Store(0)
	m.itemsSkipped.Store(0)
	m.itemsRanked.Store(0)
}
