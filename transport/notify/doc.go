// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package notify provides a cross-goroutine wake-up source backed by a Linux
// eventfd: any goroutine may Signal it, and a task awaiting it through the
// reactor is resumed once the signal is observed.
package notify
