// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package tcp provides a non-blocking TCP listener and stream connections
// whose accept, read and write operations are futures driven by the reactor.
package tcp
