// File: api/context.go
// Package api
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Polling context handed to a Future for the duration of a single Poll call.

package api

// Context carries the Waker of the task currently being polled.
// It is only valid during the Poll call it was passed to; computations that
// need to be woken later must keep a Clone of the Waker, not the Context.
type Context struct {
	waker Waker
}

// NewContext builds a polling context around w.
func NewContext(w Waker) *Context {
	return &Context{waker: w}
}

// Waker returns the waker of the task being polled. The returned value is
// borrowed: call Clone to keep it beyond the current Poll.
func (c *Context) Waker() Waker {
	return c.waker
}
