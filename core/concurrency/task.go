// File: core/concurrency/task.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Task is the schedulable unit: one computation plus the spawner handle used
// to re-enqueue it. Ownership is counted explicitly so that queue entries,
// wakers and the executor's in-flight handle all keep the task alive, and the
// task releases its spawner handle exactly when the last unit goes away.

package concurrency

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/momentics/hioload-rt/api"
)

// Task owns one computation. Only the executor polls it.
type Task struct {
	id uint64

	// mu is held for exactly one Poll call, never across suspension.
	mu     sync.Mutex
	future api.Future // nil once the computation completed or the task died

	spawner *Spawner
	refs    atomic.Int64
}

func newTask(id uint64, f api.Future, s *Spawner) *Task {
	t := &Task{id: id, future: f, spawner: s}
	t.refs.Store(1)
	return t
}

// ID returns the task identifier, unique per executor.
func (t *Task) ID() uint64 {
	return t.id
}

func (t *Task) acquire() {
	t.refs.Add(1)
}

// release drops one ownership unit; dropping the last one destroys the task.
func (t *Task) release() {
	n := t.refs.Add(-1)
	switch {
	case n > 0:
		return
	case n < 0:
		panic(fmt.Errorf("task %d: %w", t.id, ErrTaskReleased))
	}

	t.mu.Lock()
	pending := t.future != nil
	t.future = nil
	t.mu.Unlock()

	t.spawner.taskDestroyed(t, pending)
}

// waker turns one ownership unit already held by the caller into a Waker.
func (t *Task) waker() api.Waker {
	return &taskWaker{task: t}
}

// poll advances the computation one step. polled is false if the task had
// already completed, in which case the future is not touched.
func (t *Task) poll(cx *api.Context) (res api.Poll, polled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.future == nil {
		return api.Ready, false
	}
	res = t.future.Poll(cx)
	if res == api.Ready {
		t.future = nil
	}
	return res, true
}

// taskWaker holds exactly one ownership unit of task until Wake or Drop.
type taskWaker struct {
	task     *Task
	released atomic.Bool
}

var _ api.Waker = (*taskWaker)(nil)

func (w *taskWaker) live() *Task {
	if w.released.Load() {
		panic(fmt.Errorf("task %d: %w", w.task.id, ErrWakerReleased))
	}
	return w.task
}

func (w *taskWaker) take() *Task {
	if !w.released.CompareAndSwap(false, true) {
		panic(fmt.Errorf("task %d: %w", w.task.id, ErrWakerReleased))
	}
	return w.task
}

// Clone implements api.Waker.
func (w *taskWaker) Clone() api.Waker {
	t := w.live()
	t.acquire()
	return t.waker()
}

// Wake implements api.Waker. The unit moves into the ready queue.
func (w *taskWaker) Wake() {
	t := w.take()
	t.spawner.spawnTask(t)
}

// WakeByRef implements api.Waker. A fresh unit goes into the ready queue.
func (w *taskWaker) WakeByRef() {
	t := w.live()
	t.acquire()
	t.spawner.spawnTask(t)
}

// Drop implements api.Waker.
func (w *taskWaker) Drop() {
	w.take().release()
}

// WillWake implements api.Waker.
func (w *taskWaker) WillWake(other api.Waker) bool {
	o, ok := other.(*taskWaker)
	return ok && o.task == w.task
}
