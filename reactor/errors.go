// File: reactor/errors.go
// Author: momentics <momentics@gmail.com>

package reactor

import "errors"

var (
	// ErrMultiplexerFailure wraps the error that stopped the observer thread.
	ErrMultiplexerFailure = errors.New("reactor: multiplexer wait failed")

	// ErrTokenSpaceExhausted is raised as a panic when the token counter
	// would wrap around.
	ErrTokenSpaceExhausted = errors.New("reactor: token space exhausted")

	// ErrNotSupported is returned by NewPoller on platforms without a backend.
	ErrNotSupported = errors.New("reactor: this platform is not supported")
)
