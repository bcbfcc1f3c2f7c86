// File: core/concurrency/ready_queue.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Bounded multi-producer, single-consumer FIFO of runnable tasks.

package concurrency

import (
	"sync"
	"sync/atomic"

	"github.com/eapache/queue"
)

// readyQueue is closed implicitly: once no sender handle is alive and the
// queue is drained, pop reports false.
type readyQueue struct {
	mu       sync.Mutex
	cond     *sync.Cond
	items    *queue.Queue
	capacity int
	senders  int
}

func newReadyQueue(capacity int) *readyQueue {
	q := &readyQueue{
		items:    queue.New(),
		capacity: capacity,
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push appends t; returns ErrQueueOverflow when the queue is full.
func (q *readyQueue) push(t *Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.items.Length() >= q.capacity {
		return ErrQueueOverflow
	}
	q.items.Add(t)
	q.cond.Signal()
	return nil
}

// pop blocks until a task is available. ok is false once the queue is empty
// and every sender handle has been released.
func (q *readyQueue) pop() (t *Task, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.items.Length() == 0 {
		if q.senders == 0 {
			return nil, false
		}
		q.cond.Wait()
	}
	return q.items.Remove().(*Task), true
}

func (q *readyQueue) addSender() {
	q.mu.Lock()
	q.senders++
	q.mu.Unlock()
}

func (q *readyQueue) removeSender() {
	q.mu.Lock()
	q.senders--
	if q.senders == 0 {
		q.cond.Broadcast()
	}
	q.mu.Unlock()
}

// cloneSender adds a sender on behalf of a handle unless the handle is
// closed. The check and the increment are atomic with closeSender.
func (q *readyQueue) cloneSender(closed *atomic.Bool) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if closed.Load() {
		return false
	}
	q.senders++
	return true
}

// closeSender marks a handle closed and drops its sender, once.
func (q *readyQueue) closeSender(closed *atomic.Bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if closed.Swap(true) {
		return
	}
	q.senders--
	if q.senders == 0 {
		q.cond.Broadcast()
	}
}

func (q *readyQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Length()
}

func (q *readyQueue) liveSenders() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.senders
}
