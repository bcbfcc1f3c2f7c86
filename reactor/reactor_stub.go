//go:build !linux
// +build !linux

// File: reactor/reactor_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub implementation for unsupported platforms.

package reactor

// NewPoller returns an error for unsupported platforms.
func NewPoller() (Poller, error) {
	return nil, ErrNotSupported
}
