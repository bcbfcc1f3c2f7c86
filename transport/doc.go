// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package transport adapts non-blocking descriptors to the reactor: a Source
// retries a system call until it stops reporting EAGAIN, arming a fresh
// reactor token and suspending the calling task in between.
// Concrete sources live in the udp, tcp and notify subpackages.
package transport
