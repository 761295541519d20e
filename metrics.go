package authgate

import "sync/atomic"

// MetricID selects one gateway counter.
type MetricID uint8

const (
	// MetricIssued counts credentials released to callers.
	MetricIssued MetricID = iota
	// MetricIssueFailed counts issuance attempts that returned an error.
	MetricIssueFailed
	// MetricAuthenticated counts accepted authentications, cache hits included.
	MetricAuthenticated
	// MetricAuthCacheHit counts authentications served from the decoded-identity cache.
	MetricAuthCacheHit
	// MetricAuthRejected counts authentications collapsed to false.
	MetricAuthRejected
	// MetricStoreError counts rejections caused by backend unavailability.
	MetricStoreError
	// MetricRevoked counts single-session revocations.
	MetricRevoked
	// MetricRevokedAll counts whole-user revocations.
	MetricRevokedAll

	metricIDCount
)

// Metrics is a fixed set of in-process counters. Increments are lock-free;
// Snapshot is a point-in-time copy, not a consistent cut.
type Metrics struct {
	counters [metricIDCount]atomic.Uint64
}

func (m *Metrics) inc(id MetricID) {
	if m == nil {
		return
	}
	m.counters[id].Add(1)
}

// Snapshot returns the current counter values.
func (m *Metrics) Snapshot() map[MetricID]uint64 {
	out := make(map[MetricID]uint64, metricIDCount)
	if m == nil {
		return out
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		out[id] = m.counters[id].Load()
	}
	return out
}
