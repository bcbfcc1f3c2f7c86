//go:build linux
// +build linux

// File: affinity/affinity_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux-specific implementation for setting thread CPU affinity.

package affinity

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// setAffinityPlatform pins the calling OS thread. The caller must have
// locked its goroutine to the thread beforehand.
func setAffinityPlatform(cpuID int) error {
	if cpuID < 0 {
		return fmt.Errorf("affinity: invalid cpu %d", cpuID)
	}
	var set unix.CPUSet
	set.Zero()
	set.Set(cpuID)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("affinity: sched_setaffinity cpu %d: %w", cpuID, err)
	}
	return nil
}
