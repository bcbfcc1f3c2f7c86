// control/debug.go
// Author: momentics <momentics@gmail.com>
//
// Runtime debug handler and probe reflector for internal inspection.

package control

import "sync"

// DebugProbes holds registered probe functions.
type DebugProbes struct {
	mu     sync.RWMutex
	probes map[string]func() any
}

// NewDebugProbes creates a probe registry.
func NewDebugProbes() *DebugProbes {
	return &DebugProbes{
		probes: make(map[string]func() any),
	}
}

// RegisterProbe inserts a named debug hook. A later registration under the
// same name replaces the earlier one.
func (dp *DebugProbes) RegisterProbe(name string, fn func() any) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.probes[name] = fn
}

// DumpState returns output of all probes.
// Probes run outside the registry lock so they may take their own locks.
func (dp *DebugProbes) DumpState() map[string]any {
	dp.mu.RLock()
	probes := make(map[string]func() any, len(dp.probes))
	for k, fn := range dp.probes {
		probes[k] = fn
	}
	dp.mu.RUnlock()

	out := make(map[string]any, len(probes))
	for k, fn := range probes {
		out[k] = fn()
	}
	return out
}
