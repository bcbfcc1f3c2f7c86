//go:build linux
// +build linux

// File: transport/source_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Readiness-driven retry loop for one non-blocking descriptor.

package transport

import (
	"errors"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/reactor"
)

// Source drives one descriptor. At most one operation may be outstanding on
// a Source at a time, since the descriptor carries a single registration.
type Source struct {
	fd int
	r  *reactor.Reactor

	mu         sync.Mutex
	registered bool
	armed      bool
	token      api.Token
	closed     bool
}

// NewSource wraps a non-blocking descriptor. The Source takes ownership of fd.
func NewSource(r *reactor.Reactor, fd int) *Source {
	return &Source{fd: fd, r: r}
}

// Fd returns the descriptor.
func (s *Source) Fd() int {
	return s.fd
}

// Reactor returns the reactor the source registers with.
func (s *Source) Reactor() *reactor.Reactor {
	return s.r
}

// Poll runs attempt until it returns something other than EAGAIN/EINTR.
// While the descriptor is not ready it registers a fresh token for interest
// and returns Pending with the task's waker parked in the reactor.
// When Ready is returned, err is the final result of attempt.
func (s *Source) Poll(cx *api.Context, interest api.Interest, attempt func() error) (api.Poll, error) {
	for {
		if tok, ok := s.armedToken(); ok {
			if s.r.Poll(tok, cx) == api.Pending {
				return api.Pending, nil
			}
			s.consumed(tok)
		}

		err := attempt()
		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case errors.Is(err, unix.EAGAIN):
			if aerr := s.arm(interest); aerr != nil {
				s.disarm()
				return api.Ready, aerr
			}
			continue
		}
		s.disarm()
		return api.Ready, err
	}
}

func (s *Source) armedToken() (api.Token, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.armed
}

func (s *Source) consumed(tok api.Token) {
	s.mu.Lock()
	if s.armed && s.token == tok {
		s.armed = false
	}
	s.mu.Unlock()
}

// arm subscribes the descriptor under a new token. The token it replaces
// is retired in the reactor once the descriptor no longer carries it.
func (s *Source) arm(interest api.Interest) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return unix.EBADF
	}

	tok := s.r.UniqueToken()
	reg := s.r.Registry()
	prev, rearm := s.token, s.registered
	var err error
	if rearm {
		err = reg.Reregister(s.fd, tok, interest)
	} else {
		err = reg.Register(s.fd, tok, interest)
	}
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.registered = true
	s.armed = true
	s.token = tok
	s.mu.Unlock()

	if rearm {
		s.r.Forget(prev)
	}
	return nil
}

// disarm deregisters the descriptor and retires the last token.
func (s *Source) disarm() {
	s.mu.Lock()
	registered, armed, tok := s.registered, s.armed, s.token
	s.registered, s.armed = false, false
	s.mu.Unlock()

	if registered {
		if err := s.r.Registry().Deregister(s.fd); err != nil {
			log := s.r.Logger()
			log.Debug().Err(err).Int("fd", s.fd).Uint64("token", uint64(tok)).Msg("deregister failed")
		}
	}
	if registered || armed {
		s.r.Forget(tok)
	}
}

// Close deregisters and closes the descriptor. A task parked on the source
// is released rather than woken.
func (s *Source) Close() error {
	s.disarm()
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()
	return unix.Close(s.fd)
}
