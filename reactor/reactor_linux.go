//go:build linux
// +build linux

// File: reactor/reactor_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux epoll(7)-based poller implementation and factory.

package reactor

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-rt/api"
)

// epollPoller registers descriptors edge-triggered and carries the token in
// the 64-bit user data of each epoll event.
type epollPoller struct {
	epfd int
	raw  []unix.EpollEvent // only touched by the observer thread
}

// NewPoller constructs the platform multiplexer for Linux.
func NewPoller() (Poller, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("epoll create: %w", err)
	}
	return &epollPoller{epfd: epfd}, nil
}

func toEpollEvent(token api.Token, interest api.Interest) unix.EpollEvent {
	ev := unix.EpollEvent{Events: unix.EPOLLET}
	if interest.IsReadable() {
		ev.Events |= unix.EPOLLIN | unix.EPOLLRDHUP
	}
	if interest.IsWritable() {
		ev.Events |= unix.EPOLLOUT
	}
	ev.Fd = int32(uint32(token))
	ev.Pad = int32(uint32(uint64(token) >> 32))
	return ev
}

func fromEpollEvent(ev *unix.EpollEvent) Event {
	out := Event{
		Token: api.Token(uint64(uint32(ev.Fd)) | uint64(uint32(ev.Pad))<<32),
	}
	if ev.Events&(unix.EPOLLIN|unix.EPOLLRDHUP) != 0 {
		out.Interest |= api.Readable
	}
	if ev.Events&unix.EPOLLOUT != 0 {
		out.Interest |= api.Writable
	}
	if ev.Events&(unix.EPOLLERR|unix.EPOLLHUP) != 0 {
		out.Closed = true
	}
	return out
}

// Register adds fd to the epoll interest list.
func (p *epollPoller) Register(fd int, token api.Token, interest api.Interest) error {
	ev := toEpollEvent(token, interest)
	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return fmt.Errorf("epoll ctl add: %w", err)
	}
	return nil
}

// Reregister rearms fd with a new token. Readiness that is already present
// is reported again.
func (p *epollPoller) Reregister(fd int, token api.Token, interest api.Interest) error {
	ev := toEpollEvent(token, interest)
	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_MOD, fd, &ev); err != nil {
		return fmt.Errorf("epoll ctl mod: %w", err)
	}
	return nil
}

// Deregister removes fd from the epoll interest list.
func (p *epollPoller) Deregister(fd int) error {
	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, nil); err != nil {
		return fmt.Errorf("epoll ctl del: %w", err)
	}
	return nil
}

// Wait blocks without timeout. EINTR is retried.
func (p *epollPoller) Wait(events []Event) (int, error) {
	if len(events) == 0 {
		return 0, errors.New("epoll wait: empty event buffer")
	}
	if cap(p.raw) < len(events) {
		p.raw = make([]unix.EpollEvent, len(events))
	}
	raw := p.raw[:len(events)]

	for {
		n, err := unix.EpollWait(p.epfd, raw, -1)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return 0, fmt.Errorf("epoll wait: %w", err)
		}
		for i := 0; i < n; i++ {
			events[i] = fromEpollEvent(&raw[i])
		}
		return n, nil
	}
}

// Close closes the epoll instance.
func (p *epollPoller) Close() error {
	return unix.Close(p.epfd)
}
