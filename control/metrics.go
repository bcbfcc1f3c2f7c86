// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics collector for scheduler and reactor monitoring.
// Exposes counters in a thread-safe map with dynamic registration.

package control

import (
	"sync"
	"time"
)

// MetricsRegistry holds mutable and read-only metrics.
// A nil *MetricsRegistry is valid and discards all updates.
type MetricsRegistry struct {
	mu      sync.RWMutex
	metrics map[string]any
	updated time.Time
}

// NewMetricsRegistry creates an empty registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		metrics: make(map[string]any),
	}
}

// Set sets or updates a metric key.
func (mr *MetricsRegistry) Set(key string, value any) {
	if mr == nil {
		return
	}
	mr.mu.Lock()
	mr.metrics[key] = value
	mr.updated = time.Now()
	mr.mu.Unlock()
}

// Add increments an int64 counter by delta, creating it when missing.
// Keys previously Set to a non-int64 value are overwritten.
func (mr *MetricsRegistry) Add(key string, delta int64) {
	if mr == nil {
		return
	}
	mr.mu.Lock()
	cur, _ := mr.metrics[key].(int64)
	mr.metrics[key] = cur + delta
	mr.updated = time.Now()
	mr.mu.Unlock()
}

// Counter returns the int64 value stored under key, or 0.
func (mr *MetricsRegistry) Counter(key string) int64 {
	if mr == nil {
		return 0
	}
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	v, _ := mr.metrics[key].(int64)
	return v
}

// GetSnapshot returns the latest metrics.
func (mr *MetricsRegistry) GetSnapshot() map[string]any {
	if mr == nil {
		return map[string]any{}
	}
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	out := make(map[string]any, len(mr.metrics))
	for k, v := range mr.metrics {
		out[k] = v
	}
	return out
}

// Updated returns the time of the last mutation.
func (mr *MetricsRegistry) Updated() time.Time {
	if mr == nil {
		return time.Time{}
	}
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	return mr.updated
}
