// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Thread pinning for the reactor observer. Platform code lives in
// affinity_linux.go and affinity_stub.go.

package affinity

// SetAffinity pins the calling OS thread to logical CPU cpuID. Callers lock
// the goroutine to its thread first; otherwise the pin may land on a thread
// the goroutine later leaves.
func SetAffinity(cpuID int) error {
	return setAffinityPlatform(cpuID)
}
