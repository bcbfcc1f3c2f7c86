// File: core/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package concurrency implements a cooperative, single-consumer task
// executor. Computations (api.Future) are wrapped into Tasks, pushed onto a
// bounded multi-producer ready queue by a Spawner and polled one step at a
// time by the Executor. A suspended task is re-enqueued by its api.Waker,
// which any goroutine may invoke.
package concurrency
