package handletable

import "sync/atomic"

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    acquireCounter prometheus.Counter
//	    resolveMisses  prometheus.Counter
//	}
//
//	func (p *PrometheusCollector) RecordAcquire() {
//	    p.acquireCounter.Inc()
//	}
type MetricsCollector interface {
	// RecordAcquire is called after each successful acquisition.
	RecordAcquire()

	// RecordRelease is called after each release.
	RecordRelease()

	// RecordResolve is called after each dereference. hit is false when the
	// handle was stale and the lookup yielded nothing.
	RecordResolve(hit bool)

	// RecordGrow is called after each growth step with the old and new table
	// lengths in slots.
	RecordGrow(oldLen, newLen int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed; it is the table default.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAcquire()      {}
func (NoopMetricsCollector) RecordRelease()      {}
func (NoopMetricsCollector) RecordResolve(bool)  {}
func (NoopMetricsCollector) RecordGrow(int, int) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
//
// The counters are atomic so the collector may be read from another
// goroutine, even though the table itself must stay single-threaded.
type BasicMetricsCollector struct {
	AcquireCount  atomic.Int64
	ReleaseCount  atomic.Int64
	ResolveCount  atomic.Int64
	ResolveMisses atomic.Int64
	GrowCount     atomic.Int64
	Slots         atomic.Int64
}

// RecordAcquire implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAcquire() {
	b.AcquireCount.Add(1)
}

// RecordRelease implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRelease() {
	b.ReleaseCount.Add(1)
}

// RecordResolve implements MetricsCollector.
func (b *BasicMetricsCollector) RecordResolve(hit bool) {
	b.ResolveCount.Add(1)
	if !hit {
		b.ResolveMisses.Add(1)
	}
}

// RecordGrow implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGrow(_, newLen int) {
	b.GrowCount.Add(1)
	b.Slots.Store(int64(newLen))
}
