// File: api/executor.go
// Package api
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Waker and spawner contracts shared by the executor and I/O collaborators.

package api

// Waker is a transferable capability to re-schedule one specific task.
//
// Every Waker value holds exactly one ownership unit of its task. A value
// must be released exactly once, either by Wake or by Drop.
type Waker interface {
	// Clone returns a new Waker holding a fresh ownership unit of the same task.
	Clone() Waker

	// Wake re-enqueues the task and consumes this Waker's ownership unit.
	Wake()

	// WakeByRef re-enqueues the task without consuming this Waker.
	WakeByRef()

	// Drop releases this Waker's ownership unit without waking the task.
	Drop()

	// WillWake reports whether w and other wake the same task.
	WillWake(other Waker) bool
}

// Spawner accepts new computations for execution.
type Spawner interface {
	// Spawn wraps f into a task and enqueues it.
	Spawn(f Future)
}
