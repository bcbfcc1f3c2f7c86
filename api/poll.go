// File: api/poll.go
// Package api
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Poll-mode computation contract: a Future is advanced one step at a time by
// an executor and reports either completion or "not yet".

package api

// Poll is the outcome of one attempt to advance a computation.
type Poll uint8

const (
	// Pending means the computation could not finish and has arranged for
	// the Waker in its Context to be invoked once progress is possible.
	Pending Poll = iota
	// Ready means the computation has completed. It must not be polled again.
	Ready
)

func (p Poll) String() string {
	switch p {
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Future is a suspendable computation.
//
// Poll must never block. When it returns Pending it must have stored a
// Clone of cx.Waker() somewhere that will wake it later, otherwise the
// computation is never resumed. cx.Waker() itself is only borrowed for the
// duration of the call.
type Future interface {
	Poll(cx *Context) Poll
}

// FutureFunc adapts an ordinary function to the Future interface.
type FutureFunc func(cx *Context) Poll

// Poll implements Future.
func (f FutureFunc) Poll(cx *Context) Poll {
	return f(cx)
}
