//go:build linux
// +build linux

// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>
//
// Non-blocking listening socket and the Accept future.

package tcp

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/reactor"
	"github.com/momentics/hioload-rt/transport"
)

// DefaultBacklog is the listen(2) backlog used by Listen.
const DefaultBacklog = 128

// Listener accepts stream connections. Only one Accept may be outstanding
// at a time.
type Listener struct {
	r     *reactor.Reactor
	src   *transport.Source
	local *net.TCPAddr
}

// Listen binds a non-blocking TCP socket to addr ("host:port") and starts
// listening. SO_REUSEADDR is set.
func Listen(r *reactor.Reactor, addr string) (*Listener, error) {
	ta, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("tcp: resolve %q: %w", addr, err)
	}
	family, sa, err := transport.Sockaddr(ta.IP, ta.Port, ta.Zone)
	if err != nil {
		return nil, fmt.Errorf("tcp: %w", err)
	}

	fd, err := unix.Socket(family, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, unix.IPPROTO_TCP)
	if err != nil {
		return nil, fmt.Errorf("tcp: socket create: %w", err)
	}
	fail := func(op string, err error) (*Listener, error) {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("tcp: %s %s: %w", op, ta, err)
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		return fail("setsockopt", err)
	}
	if err := unix.Bind(fd, sa); err != nil {
		return fail("bind", err)
	}
	if err := unix.Listen(fd, DefaultBacklog); err != nil {
		return fail("listen", err)
	}
	lsa, err := unix.Getsockname(fd)
	if err != nil {
		return fail("getsockname", err)
	}

	return &Listener{
		r:     r,
		src:   transport.NewSource(r, fd),
		local: toTCPAddr(lsa),
	}, nil
}

// Addr returns the bound address.
func (l *Listener) Addr() *net.TCPAddr {
	return l.local
}

// Close stops listening. A task parked in Accept is released, not woken.
func (l *Listener) Close() error {
	return l.src.Close()
}

// Accept returns a future yielding the next inbound connection.
func (l *Listener) Accept() *Accept {
	return &Accept{l: l}
}

// Accept is the future returned by Listener.Accept.
type Accept struct {
	l    *Listener
	done bool
	conn *Conn
	err  error
}

var _ api.Future = (*Accept)(nil)

// Poll implements api.Future.
func (a *Accept) Poll(cx *api.Context) api.Poll {
	if a.done {
		return api.Ready
	}
	var (
		nfd int
		rsa unix.Sockaddr
	)
	res, err := a.l.src.Poll(cx, api.Readable, func() error {
		var err error
		nfd, rsa, err = unix.Accept4(a.l.src.Fd(), unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC)
		return err
	})
	if res == api.Pending {
		return api.Pending
	}
	a.done = true
	if err != nil {
		a.err = fmt.Errorf("tcp: accept: %w", err)
		return api.Ready
	}
	a.conn = newConn(a.l.r, nfd, toTCPAddr(rsa))
	return api.Ready
}

// Result returns the accepted connection. Valid once Poll returned Ready.
func (a *Accept) Result() (*Conn, error) {
	return a.conn, a.err
}

func toTCPAddr(sa unix.Sockaddr) *net.TCPAddr {
	ip, port, zone, ok := transport.IPPort(sa)
	if !ok {
		return nil
	}
	return &net.TCPAddr{IP: ip, Port: port, Zone: zone}
}
