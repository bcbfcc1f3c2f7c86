// File: reactor/options.go
// Author: momentics <momentics@gmail.com>

package reactor

import (
	"github.com/rs/zerolog"

	"github.com/momentics/hioload-rt/control"
)

// Option configures a Reactor.
type Option func(*Reactor)

// WithLogger sets the reactor logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Reactor) { r.log = l }
}

// WithMetrics attaches a metrics registry.
func WithMetrics(m *control.MetricsRegistry) Option {
	return func(r *Reactor) { r.metrics = m }
}

// WithEventsCapacity sets how many events one Wait may return.
func WithEventsCapacity(n int) Option {
	return func(r *Reactor) {
		if n > 0 {
			r.eventsCap = n
		}
	}
}

// WithCPU pins the observer thread to cpu. Negative disables pinning.
func WithCPU(cpu int) Option {
	return func(r *Reactor) { r.cpu = cpu }
}
