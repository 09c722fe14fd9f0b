package authcore

import "sync/atomic"

// MetricID identifies one counter in the in-process metrics system.
type MetricID uint16

const (
	// MetricAuthSuccess counts successful authentications.
	MetricAuthSuccess MetricID = iota
	// MetricAuthFailure counts verification failures (malformed, bad
	// signature, expired, wrong type).
	MetricAuthFailure
	// MetricAuthRevoked counts authentications rejected by the revocation
	// store.
	MetricAuthRevoked
	// MetricPairsIssued counts issued access/refresh pairs.
	MetricPairsIssued
	// MetricRefreshSuccess counts successful refresh exchanges.
	MetricRefreshSuccess
	// MetricRefreshFailure counts rejected refresh exchanges.
	MetricRefreshFailure
	// MetricRevocations counts single-token revocations.
	MetricRevocations
	// MetricSubjectRevocations counts revoke-all operations.
	MetricSubjectRevocations
	// MetricSweepRemoved counts entries removed by sweeps.
	MetricSweepRemoved
	// MetricResetRequested counts issued password-reset tickets.
	MetricResetRequested
	// MetricResetCompleted counts completed password resets.
	MetricResetCompleted
	// MetricResetRejected counts rejected password resets.
	MetricResetRejected

	metricIDCount
)

const cacheLineSize = 64

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics holds lock-free counters. When disabled every operation is a
// no-op, so the engine increments unconditionally.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]paddedCounter
}

// NewMetrics creates a Metrics instance from cfg.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Inc adds one to the counter.
func (m *Metrics) Inc(id MetricID) {
	m.Add(id, 1)
}

// Add adds n to the counter.
func (m *Metrics) Add(id MetricID, n uint64) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, n)
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	counters [metricIDCount]uint64
}

// Get returns the snapshotted value for id.
func (s MetricsSnapshot) Get(id MetricID) uint64 {
	if id >= metricIDCount {
		return 0
	}
	return s.counters[id]
}

// Snapshot copies every counter atomically (per counter, not across
// counters).
func (m *Metrics) Snapshot() MetricsSnapshot {
	var snap MetricsSnapshot
	if m == nil || !m.enabled {
		return snap
	}
	for i := range m.counters {
		snap.counters[i] = atomic.LoadUint64(&m.counters[i].value)
	}
	return snap
}
