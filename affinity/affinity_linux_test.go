//go:build linux

package affinity

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestSetAffinity_RejectsNegativeCPU(t *testing.T) {
	assert.Error(t, SetAffinity(-1))
}

func TestSetAffinity_PinsCurrentThread(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var orig unix.CPUSet
	if err := unix.SchedGetaffinity(0, &orig); err != nil {
		t.Skipf("sched_getaffinity: %v", err)
	}
	defer unix.SchedSetaffinity(0, &orig)

	cpu := -1
	for i := 0; i < 1024; i++ {
		if orig.IsSet(i) {
			cpu = i
			break
		}
	}
	if cpu < 0 {
		t.Skip("no cpu in affinity mask")
	}

	assert.NoError(t, SetAffinity(cpu))
	var got unix.CPUSet
	assert.NoError(t, unix.SchedGetaffinity(0, &got))
	assert.Equal(t, 1, got.Count())
	assert.True(t, got.IsSet(cpu))
}
