// File: reactor/reactor.go
// Author: momentics <momentics@gmail.com>
//
// Status table and observer loop bridging readiness events to wakers.

package reactor

import (
	"fmt"
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/momentics/hioload-rt/affinity"
	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/control"
)

type state uint8

const (
	awaited state = iota + 1
	happened
)

// status is the wait state of one token. waker is set only while awaited.
type status struct {
	state state
	waker api.Waker
}

// Reactor is meant to exist once per process: construct it in the
// composition root and hand it to every I/O source explicitly.
type Reactor struct {
	poller Poller

	mu       sync.Mutex
	statuses map[api.Token]status
	// retired maps forgotten tokens to the batch count at the time they
	// were forgotten. An event for a retired token is discarded.
	retired  map[api.Token]uint64
	batches  uint64

	next atomic.Uint64

	start   sync.Once
	done    chan struct{}
	errMu   sync.Mutex
	loopErr error

	log       zerolog.Logger
	metrics   *control.MetricsRegistry
	eventsCap int
	cpu       int
}

// New wraps p. The observer thread is not started until Start.
func New(p Poller, opts ...Option) *Reactor {
	r := &Reactor{
		poller:    p,
		statuses:  make(map[api.Token]status),
		retired:   make(map[api.Token]uint64),
		done:      make(chan struct{}),
		log:       zerolog.Nop(),
		eventsCap: control.DefaultEventsCapacity,
		cpu:       -1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Open creates the platform poller, builds a Reactor from cfg and starts it.
func Open(cfg control.Config, opts ...Option) (*Reactor, error) {
	p, err := NewPoller()
	if err != nil {
		return nil, err
	}
	base := []Option{WithEventsCapacity(cfg.EventsCapacity), WithCPU(cfg.ReactorCPU)}
	r := New(p, append(base, opts...)...)
	r.Start()
	return r, nil
}

// Start launches the observer thread. Only the first call has an effect.
func (r *Reactor) Start() {
	r.start.Do(func() {
		r.log.Info().Int("events_capacity", r.eventsCap).Int("cpu", r.cpu).Msg("reactor started")
		go r.run()
	})
}

// Registry returns the handle I/O sources use to subscribe tokens.
func (r *Reactor) Registry() api.Registry {
	return r.poller
}

// Poll is the suspension point of a pollable I/O operation.
//
// The first call for a token stores a clone of the current waker and returns
// Pending. Later calls while still waiting replace the stored waker only if
// it would wake a different task. Once the observer has seen the token's
// event, Poll removes the entry and returns Ready.
func (r *Reactor) Poll(token api.Token, cx *api.Context) api.Poll {
	var stale api.Waker

	r.mu.Lock()
	st, ok := r.statuses[token]
	switch {
	case !ok:
		r.statuses[token] = status{state: awaited, waker: cx.Waker().Clone()}
	case st.state == awaited:
		if !st.waker.WillWake(cx.Waker()) {
			stale = st.waker
			r.statuses[token] = status{state: awaited, waker: cx.Waker().Clone()}
		}
	default:
		delete(r.statuses, token)
		r.mu.Unlock()
		r.metrics.Add("reactor.ready", 1)
		return api.Ready
	}
	r.mu.Unlock()

	if stale != nil {
		stale.Drop()
	}
	return api.Pending
}

// Forget removes any status kept for token, dropping a stored waker.
// Sources call it once token no longer identifies their descriptor in the
// multiplexer (after DEL or a MOD to a new token); discarding a pending
// future does not do it implicitly.
//
// Events for token that the observer harvested before that point are
// discarded when they are dispatched.
func (r *Reactor) Forget(token api.Token) {
	r.mu.Lock()
	st, ok := r.statuses[token]
	delete(r.statuses, token)
	r.retired[token] = r.batches
	r.mu.Unlock()

	if ok && st.state == awaited {
		st.waker.Drop()
	}
}

// UniqueToken returns a token never handed out before by this reactor.
// It panics with ErrTokenSpaceExhausted instead of wrapping around.
func (r *Reactor) UniqueToken() api.Token {
	for {
		cur := r.next.Load()
		if cur == math.MaxUint64 {
			panic(ErrTokenSpaceExhausted)
		}
		if r.next.CompareAndSwap(cur, cur+1) {
			return api.Token(cur)
		}
	}
}

// Pending returns the number of entries in the status table.
func (r *Reactor) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.statuses)
}

// Done is closed when the observer thread has exited.
func (r *Reactor) Done() <-chan struct{} {
	return r.done
}

// Err returns the error that stopped the observer thread, if any.
func (r *Reactor) Err() error {
	r.errMu.Lock()
	defer r.errMu.Unlock()
	return r.loopErr
}

// Retired returns the number of forgotten tokens still screened against
// in-flight events.
func (r *Reactor) Retired() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.retired)
}

// Logger returns the reactor logger, for sources bound to it.
func (r *Reactor) Logger() zerolog.Logger {
	return r.log
}

// RegisterProbes exposes reactor state through dp.
func (r *Reactor) RegisterProbes(dp *control.DebugProbes) {
	dp.RegisterProbe("reactor.statuses", func() any { return r.Pending() })
	dp.RegisterProbe("reactor.retired", func() any { return r.Retired() })
}

// run is the body of the observer thread. It never polls computations.
func (r *Reactor) run() {
	runtime.LockOSThread()
	defer close(r.done)

	if r.cpu >= 0 {
		if err := affinity.SetAffinity(r.cpu); err != nil {
			r.log.Warn().Err(err).Int("cpu", r.cpu).Msg("reactor thread not pinned")
		}
	}

	events := make([]Event, r.eventsCap)
	for {
		n, err := r.poller.Wait(events)
		if err != nil {
			r.fail(err)
			return
		}
		r.metrics.Add("reactor.events", int64(n))
		r.nextBatch()
		for i := 0; i < n; i++ {
			r.dispatch(events[i].Token)
		}
	}
}

// nextBatch counts a harvested batch and ends the screening of tokens
// retired before the previous one. Batch n may have been harvested before a
// Forget stamped n-1, but the wait that produced batch n+1 started after
// batch n was counted, so it cannot report a token deregistered earlier.
func (r *Reactor) nextBatch() {
	r.mu.Lock()
	r.batches++
	for tok, stamp := range r.retired {
		if stamp+2 <= r.batches {
			delete(r.retired, tok)
		}
	}
	r.mu.Unlock()
}

// dispatch marks token as happened and wakes a waiter, outside the lock.
func (r *Reactor) dispatch(token api.Token) {
	r.mu.Lock()
	if _, gone := r.retired[token]; gone {
		r.mu.Unlock()
		r.metrics.Add("reactor.discarded", 1)
		return
	}
	prev, ok := r.statuses[token]
	r.statuses[token] = status{state: happened}
	r.mu.Unlock()

	if ok && prev.state == awaited {
		r.metrics.Add("reactor.wakes", 1)
		prev.waker.Wake()
	}
}

// fail records a multiplexer error. The observer is not restarted: from now
// on no readiness event reaches any waiter.
func (r *Reactor) fail(err error) {
	err = fmt.Errorf("%w: %w", ErrMultiplexerFailure, err)
	r.errMu.Lock()
	r.loopErr = err
	r.errMu.Unlock()
	r.log.Error().Err(err).Msg("reactor observer stopped")
}
