//go:build linux
// +build linux

// File: transport/notify/notify_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// eventfd counter awaited through the reactor and signalled from any goroutine.

package notify

import (
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/reactor"
	"github.com/momentics/hioload-rt/transport"
)

// Event is a counter that tasks can await. Signals issued before a Wait is
// polled are not lost: the next Wait consumes all of them at once.
type Event struct {
	src *transport.Source
}

// New creates a non-blocking eventfd bound to r.
func New(r *reactor.Reactor) (*Event, error) {
	fd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("notify: eventfd: %w", err)
	}
	return &Event{src: transport.NewSource(r, fd)}, nil
}

// Signal adds one to the counter. Safe from any goroutine.
func (e *Event) Signal() error {
	var b [8]byte
	binary.NativeEndian.PutUint64(b[:], 1)
	for {
		_, err := unix.Write(e.src.Fd(), b[:])
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return fmt.Errorf("notify: signal: %w", err)
		}
		return nil
	}
}

// Wait returns a future that completes once the counter is non-zero, and
// resets it.
func (e *Event) Wait() *Wait {
	return &Wait{e: e}
}

// Close releases the eventfd.
func (e *Event) Close() error {
	return e.src.Close()
}

// Wait is the future returned by Event.Wait.
type Wait struct {
	e     *Event
	done  bool
	count uint64
	err   error
}

var _ api.Future = (*Wait)(nil)

// Poll implements api.Future.
func (w *Wait) Poll(cx *api.Context) api.Poll {
	if w.done {
		return api.Ready
	}
	res, err := w.e.src.Poll(cx, api.Readable, func() error {
		var b [8]byte
		if _, err := unix.Read(w.e.src.Fd(), b[:]); err != nil {
			return err
		}
		w.count = binary.NativeEndian.Uint64(b[:])
		return nil
	})
	if res == api.Pending {
		return api.Pending
	}
	w.done = true
	if err != nil {
		w.err = fmt.Errorf("notify: wait: %w", err)
	}
	return api.Ready
}

// Result returns the number of signals consumed. Valid once Poll returned
// Ready.
func (w *Wait) Result() (uint64, error) {
	return w.count, w.err
}
