// File: core/concurrency/options.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

import (
	"github.com/rs/zerolog"

	"github.com/momentics/hioload-rt/control"
)

// Option configures NewExecutor.
type Option func(*options)

type options struct {
	capacity int
	log      zerolog.Logger
	metrics  *control.MetricsRegistry
}

func defaultOptions() options {
	return options{
		capacity: control.DefaultQueueCapacity,
		log:      zerolog.Nop(),
	}
}

// WithQueueCapacity bounds the ready queue. Non-positive values are ignored.
func WithQueueCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// WithLogger sets the executor logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithMetrics attaches a metrics registry.
func WithMetrics(m *control.MetricsRegistry) Option {
	return func(o *options) { o.metrics = m }
}

// WithConfig applies the executor part of cfg.
func WithConfig(cfg control.Config) Option {
	return WithQueueCapacity(cfg.QueueCapacity)
}
