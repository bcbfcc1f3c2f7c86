// File: core/concurrency/spawner.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Spawner is the producer side of the ready queue.

package concurrency

import (
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/control"
)

// shared is the state common to an executor and all of its spawner handles.
type shared struct {
	q       *readyQueue
	log     zerolog.Logger
	metrics *control.MetricsRegistry
	nextID  atomic.Uint64
}

// Spawner is one sender handle of the ready queue. The executor keeps
// running while any handle is open; every live task holds its own handle.
//
// A Spawner is safe for concurrent use, but each handle must be closed
// exactly once by its owner.
type Spawner struct {
	sh     *shared
	closed atomic.Bool
}

var _ api.Spawner = (*Spawner)(nil)

// Clone returns a new, independently closable handle.
func (s *Spawner) Clone() *Spawner {
	if !s.sh.q.cloneSender(&s.closed) {
		panic(ErrSpawnerClosed)
	}
	return &Spawner{sh: s.sh}
}

// Close releases this handle. Further calls are no-ops.
func (s *Spawner) Close() {
	s.sh.q.closeSender(&s.closed)
}

// Spawn wraps f into a new task and enqueues it.
// It panics with ErrQueueOverflow if the ready queue is full.
func (s *Spawner) Spawn(f api.Future) {
	if f == nil {
		panic("concurrency: Spawn(nil)")
	}
	if s.closed.Load() {
		panic(ErrSpawnerClosed)
	}

	t := newTask(s.sh.nextID.Add(1), f, s.Clone())
	s.sh.metrics.Add("executor.spawned", 1)
	s.sh.metrics.Add("executor.tasks_live", 1)
	s.sh.log.Debug().Uint64("task", t.id).Msg("task spawned")

	s.spawnTask(t)
}

// SpawnFunc is Spawn for a plain function.
func (s *Spawner) SpawnFunc(fn func(cx *api.Context) api.Poll) {
	s.Spawn(api.FutureFunc(fn))
}

// spawnTask enqueues an existing task; the caller's ownership unit moves
// into the queue.
func (s *Spawner) spawnTask(t *Task) {
	if err := s.sh.q.push(t); err != nil {
		s.sh.log.Error().
			Err(err).
			Uint64("task", t.id).
			Int("capacity", s.sh.q.capacity).
			Msg("ready queue overflow")
		panic(fmt.Errorf("enqueue task %d: %w", t.id, err))
	}
}

// taskDestroyed runs once the last ownership unit of t is gone.
func (s *Spawner) taskDestroyed(t *Task, pending bool) {
	s.sh.metrics.Add("executor.tasks_live", -1)
	if pending {
		s.sh.log.Debug().Uint64("task", t.id).Msg("pending task dropped")
	}
	s.Close()
}
