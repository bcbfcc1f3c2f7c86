// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package udp provides a reactor-driven, non-blocking UDP socket whose
// receive and send operations are futures polled by the executor.
package udp
