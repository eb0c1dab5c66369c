package carbonapi

import (
	"sync/atomic"
	"time"
)

// Metrics tracks backend call counters.
type Metrics struct {
	Calls        int64 `json:"calls"`
	Errors       int64 `json:"errors"`
	LatencyNanos int64 `json:"latency_nanos"`
}

// AvgLatency is the mean call latency.
func (m Metrics) AvgLatency() time.Duration {
	if m.Calls == 0 {
		return 0
	}
	return time.Duration(m.LatencyNanos / m.Calls)
}

var globalMetrics = &Metrics{}

// GetMetrics returns the current metrics snapshot
func GetMetrics() Metrics {
	return Metrics{
		Calls:        atomic.LoadInt64(&globalMetrics.Calls),
		Errors:       atomic.LoadInt64(&globalMetrics.Errors),
		LatencyNanos: atomic.LoadInt64(&globalMetrics.LatencyNanos),
	}
}

// ResetMetrics resets all metrics (useful for testing)
func ResetMetrics() {
	atomic.StoreInt64(&globalMetrics.Calls, 0)
	atomic.StoreInt64(&globalMetrics.Errors, 0)
	atomic.StoreInt64(&globalMetrics.LatencyNanos, 0)
}

func recordUpstreamCall(duration time.Duration, err error) {
	atomic.AddInt64(&globalMetrics.Calls, 1)
	atomic.AddInt64(&globalMetrics.LatencyNanos, duration.Nanoseconds())
	if err != nil {
		atomic.AddInt64(&globalMetrics.Errors, 1)
	}
}
