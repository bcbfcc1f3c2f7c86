// File: reactor/poller.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral multiplexer interface for cross-platform IO readiness.

package reactor

import "github.com/momentics/hioload-rt/api"

// Event contains event information returned by Wait call.
type Event struct {
	Token    api.Token
	Interest api.Interest
	// Closed is set on error or hang-up conditions.
	Closed bool
}

// Poller is the OS multiplexer behind a Reactor.
type Poller interface {
	api.Registry

	// Wait blocks until events are available and writes into the output slice.
	// Returns number of events written or an error. It has no timeout.
	Wait(events []Event) (n int, err error)

	// Close cleans up resources (handle/epfd).
	Close() error
}
