// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Error definitions for concurrency module.

package concurrency

import "errors"

var (
	// ErrQueueOverflow indicates the bounded ready queue is full. It is
	// raised as a panic: there is no backpressure path.
	ErrQueueOverflow = errors.New("too many tasks queued")

	// ErrSpawnerClosed indicates a spawner handle was used after Close.
	ErrSpawnerClosed = errors.New("spawner is closed")

	// ErrWakerReleased indicates a waker was used after Wake or Drop.
	ErrWakerReleased = errors.New("waker already released")

	// ErrTaskReleased indicates more ownership units were released than held.
	ErrTaskReleased = errors.New("task ownership released twice")

	// ErrExecutorRunning indicates Run was called while already running.
	ErrExecutorRunning = errors.New("executor is already running")
)
