// File: core/concurrency/executor.go
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Executor is the single consumer of the ready queue. It polls one task at a
// time, each by exactly one step, and discards the poll result: completion
// values are never observable here.
//

package concurrency

import (
	"sync/atomic"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/control"
)

// Executor runs tasks spawned through its Spawner handles.
type Executor struct {
	sh      *shared
	running atomic.Bool
}

// NewExecutor creates an executor and the first spawner handle feeding it.
func NewExecutor(opts ...Option) (*Executor, *Spawner) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	q := newReadyQueue(o.capacity)
	q.senders = 1
	sh := &shared{q: q, log: o.log, metrics: o.metrics}
	return &Executor{sh: sh}, &Spawner{sh: sh}
}

// Run polls queued tasks until every spawner handle is closed and the queue
// is drained. Handles held by suspended tasks count, so Run keeps waiting for
// any task that can still be woken.
//
// A panic raised by a computation is not recovered.
func (e *Executor) Run() error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrExecutorRunning
	}
	defer e.running.Store(false)

	e.sh.log.Debug().Msg("executor started")
	for {
		t, ok := e.sh.q.pop()
		if !ok {
			break
		}
		e.pollTask(t)
	}
	e.sh.log.Debug().Msg("executor drained")
	return nil
}

// pollTask consumes the queue's ownership unit of t.
func (e *Executor) pollTask(t *Task) {
	t.acquire()
	w := t.waker()

	res, polled := t.poll(api.NewContext(w))
	if polled {
		e.sh.metrics.Add("executor.polls", 1)
		if res == api.Ready {
			e.sh.metrics.Add("executor.completed", 1)
			e.sh.log.Debug().Uint64("task", t.id).Msg("task completed")
		}
	}

	w.Drop()
	t.release()
}

// Queued returns the number of tasks waiting in the ready queue.
func (e *Executor) Queued() int {
	return e.sh.q.len()
}

// Capacity returns the ready queue bound.
func (e *Executor) Capacity() int {
	return e.sh.q.capacity
}

// RegisterProbes exposes executor state through dp.
func (e *Executor) RegisterProbes(dp *control.DebugProbes) {
	dp.RegisterProbe("executor.queued", func() any { return e.Queued() })
	dp.RegisterProbe("executor.senders", func() any { return e.sh.q.liveSenders() })
}
