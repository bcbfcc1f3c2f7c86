//go:build linux
// +build linux

// File: transport/udp/udp_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Non-blocking UDP socket registered with the reactor on demand.

package udp

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/reactor"
	"github.com/momentics/hioload-rt/transport"
)

// Socket is a bound UDP socket. Only one RecvFrom or SendTo may be
// outstanding at a time.
type Socket struct {
	src   *transport.Source
	local *net.UDPAddr
}

// Bind creates a non-blocking UDP socket bound to addr ("host:port").
func Bind(r *reactor.Reactor, addr string) (*Socket, error) {
	ua, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("udp: resolve %q: %w", addr, err)
	}
	family, sa, err := toSockaddr(ua)
	if err != nil {
		return nil, err
	}

	fd, err := unix.Socket(family, unix.SOCK_DGRAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, unix.IPPROTO_UDP)
	if err != nil {
		return nil, fmt.Errorf("udp: socket create: %w", err)
	}
	if err := unix.Bind(fd, sa); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("udp: bind %s: %w", ua, err)
	}
	lsa, err := unix.Getsockname(fd)
	if err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("udp: getsockname: %w", err)
	}

	return &Socket{
		src:   transport.NewSource(r, fd),
		local: fromSockaddr(lsa),
	}, nil
}

// LocalAddr returns the bound address, with the kernel-chosen port if 0 was
// requested.
func (s *Socket) LocalAddr() *net.UDPAddr {
	return s.local
}

// Close deregisters and closes the socket.
func (s *Socket) Close() error {
	return s.src.Close()
}

// RecvFrom returns a future receiving one datagram into buf.
func (s *Socket) RecvFrom(buf []byte) *RecvFrom {
	return &RecvFrom{s: s, buf: buf}
}

// SendTo returns a future sending buf as one datagram to addr.
func (s *Socket) SendTo(buf []byte, addr *net.UDPAddr) *SendTo {
	return &SendTo{s: s, buf: buf, addr: addr}
}

// RecvFrom is the future returned by Socket.RecvFrom.
type RecvFrom struct {
	s    *Socket
	buf  []byte
	done bool

	n    int
	from *net.UDPAddr
	err  error
}

var _ api.Future = (*RecvFrom)(nil)

// Poll implements api.Future.
func (f *RecvFrom) Poll(cx *api.Context) api.Poll {
	if f.done {
		return api.Ready
	}
	res, err := f.s.src.Poll(cx, api.Readable, func() error {
		n, sa, err := unix.Recvfrom(f.s.src.Fd(), f.buf, 0)
		if err != nil {
			return err
		}
		f.n, f.from = n, fromSockaddr(sa)
		return nil
	})
	if res == api.Pending {
		return api.Pending
	}
	f.done = true
	if err != nil {
		f.err = fmt.Errorf("udp: recvfrom: %w", err)
	}
	return api.Ready
}

// Result returns the number of bytes received and the sender. Valid once
// Poll returned Ready.
func (f *RecvFrom) Result() (int, *net.UDPAddr, error) {
	return f.n, f.from, f.err
}

// SendTo is the future returned by Socket.SendTo.
type SendTo struct {
	s    *Socket
	buf  []byte
	addr *net.UDPAddr
	done bool

	n   int
	err error
}

var _ api.Future = (*SendTo)(nil)

// Poll implements api.Future.
func (f *SendTo) Poll(cx *api.Context) api.Poll {
	if f.done {
		return api.Ready
	}
	_, sa, err := toSockaddr(f.addr)
	if err != nil {
		f.done, f.err = true, err
		return api.Ready
	}
	res, err := f.s.src.Poll(cx, api.Writable, func() error {
		if err := unix.Sendto(f.s.src.Fd(), f.buf, 0, sa); err != nil {
			return err
		}
		f.n = len(f.buf)
		return nil
	})
	if res == api.Pending {
		return api.Pending
	}
	f.done = true
	if err != nil {
		f.err = fmt.Errorf("udp: sendto %s: %w", f.addr, err)
	}
	return api.Ready
}

// Result returns the number of bytes sent. Valid once Poll returned Ready.
func (f *SendTo) Result() (int, error) {
	return f.n, f.err
}
