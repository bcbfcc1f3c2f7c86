// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package reactor translates OS readiness events into task wake-ups.
//
// A Reactor owns a token-indexed status table and one dedicated observer
// thread blocked on the OS multiplexer (epoll on Linux). Pollable I/O sources
// obtain a fresh token per pending operation, register it through Registry,
// then call Poll from their own Future.Poll. Whichever of "event observed"
// and "poll registered" happens first, the other side finds the entry and
// completes the hand-off under one mutex.
package reactor
