//go:build !linux
// +build !linux

// control/platform_other.go
// Author: momentics <momentics@gmail.com>
//
// Platform probes for systems without a reactor backend.

package control

import (
	"runtime"
)

// RegisterPlatformProbes sets generic debug probes.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
	dp.RegisterProbe("platform.poller", func() any {
		return "unsupported"
	})
}
