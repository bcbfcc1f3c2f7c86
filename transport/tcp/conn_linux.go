//go:build linux
// +build linux

// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>
//
// Accepted stream connection with Read and Write futures.

package tcp

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/reactor"
	"github.com/momentics/hioload-rt/transport"
)

// Conn is an accepted stream connection. Reads and writes are serialized:
// only one operation may be outstanding at a time.
type Conn struct {
	src    *transport.Source
	remote *net.TCPAddr
}

func newConn(r *reactor.Reactor, fd int, remote *net.TCPAddr) *Conn {
	return &Conn{src: transport.NewSource(r, fd), remote: remote}
}

// RemoteAddr returns the peer address.
func (c *Conn) RemoteAddr() *net.TCPAddr {
	return c.remote
}

// Close deregisters and closes the connection.
func (c *Conn) Close() error {
	return c.src.Close()
}

// Read returns a future reading at most len(buf) bytes. A zero count with a
// nil error means the peer closed its side.
func (c *Conn) Read(buf []byte) *Read {
	return &Read{c: c, buf: buf}
}

// Write returns a future writing all of buf.
func (c *Conn) Write(buf []byte) *Write {
	return &Write{c: c, buf: buf}
}

// Read is the future returned by Conn.Read.
type Read struct {
	c    *Conn
	buf  []byte
	done bool
	n    int
	err  error
}

var _ api.Future = (*Read)(nil)

// Poll implements api.Future.
func (f *Read) Poll(cx *api.Context) api.Poll {
	if f.done {
		return api.Ready
	}
	res, err := f.c.src.Poll(cx, api.Readable, func() error {
		n, err := unix.Read(f.c.src.Fd(), f.buf)
		if err != nil {
			return err
		}
		f.n = n
		return nil
	})
	if res == api.Pending {
		return api.Pending
	}
	f.done = true
	if err != nil {
		f.err = fmt.Errorf("tcp: read: %w", err)
	}
	return api.Ready
}

// Result returns the number of bytes read. Valid once Poll returned Ready.
func (f *Read) Result() (int, error) {
	return f.n, f.err
}

// Write is the future returned by Conn.Write.
type Write struct {
	c    *Conn
	buf  []byte
	done bool
	n    int
	err  error
}

var _ api.Future = (*Write)(nil)

// Poll implements api.Future. Short writes continue from where they stopped.
func (f *Write) Poll(cx *api.Context) api.Poll {
	if f.done {
		return api.Ready
	}
	res, err := f.c.src.Poll(cx, api.Writable, func() error {
		for f.n < len(f.buf) {
			n, err := unix.Write(f.c.src.Fd(), f.buf[f.n:])
			if err != nil {
				return err
			}
			f.n += n
		}
		return nil
	})
	if res == api.Pending {
		return api.Pending
	}
	f.done = true
	if err != nil {
		f.err = fmt.Errorf("tcp: write: %w", err)
	}
	return api.Ready
}

// Result returns the number of bytes written. Valid once Poll returned Ready.
func (f *Write) Result() (int, error) {
	return f.n, f.err
}
