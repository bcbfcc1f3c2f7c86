// File: api/reactor.go
// Author: momentics <momentics@gmail.com>
//
// Defines the registry contract through which pollable I/O sources subscribe
// a token to OS-level readiness.

package api

// Token identifies one pending interest registered with the OS multiplexer.
type Token uint64

// Interest is a bit set of readiness kinds.
type Interest uint8

const (
	Readable Interest = 1 << iota
	Writable
)

func (i Interest) IsReadable() bool { return i&Readable != 0 }
func (i Interest) IsWritable() bool { return i&Writable != 0 }

// Registry subscribes file descriptors to readiness notifications.
// Readiness for fd is reported with the token given at (re)registration.
type Registry interface {
	// Register must associate fd with token for the given interest.
	Register(fd int, token Token, interest Interest) error

	// Reregister replaces token and interest of an already registered fd.
	Reregister(fd int, token Token, interest Interest) error

	// Deregister removes fd from the multiplexer.
	Deregister(fd int) error
}
