//go:build linux

package reactor

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/control"
)

func newEventFD(t *testing.T) int {
	t.Helper()
	fd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	require.NoError(t, err)
	t.Cleanup(func() { unix.Close(fd) })
	return fd
}

func signalFD(t *testing.T, fd int) {
	t.Helper()
	var buf [8]byte
	binary.NativeEndian.PutUint64(buf[:], 1)
	_, err := unix.Write(fd, buf[:])
	require.NoError(t, err)
}

func TestEpollPoller_TokenRoundTrip(t *testing.T) {
	p, err := NewPoller()
	require.NoError(t, err)
	defer p.Close()

	fd := newEventFD(t)
	tok := api.Token(0xdeadbeef_00c0ffee)
	require.NoError(t, p.Register(fd, tok, api.Readable))
	signalFD(t, fd)

	events := make([]Event, 4)
	n, err := p.Wait(events)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	assert.Equal(t, tok, events[0].Token)
	assert.True(t, events[0].Interest.IsReadable())
	assert.False(t, events[0].Closed)
}

func TestEpollPoller_ReregisterReportsReadinessAgain(t *testing.T) {
	p, err := NewPoller()
	require.NoError(t, err)
	defer p.Close()

	fd := newEventFD(t)
	require.NoError(t, p.Register(fd, 1, api.Readable))
	signalFD(t, fd)

	events := make([]Event, 4)
	n, err := p.Wait(events)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	// Still readable; MOD rearms the edge under the new token.
	require.NoError(t, p.Reregister(fd, 2, api.Readable))
	n, err = p.Wait(events)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	assert.Equal(t, api.Token(2), events[0].Token)

	require.NoError(t, p.Deregister(fd))
	assert.Error(t, p.Deregister(fd))
	assert.Error(t, p.Reregister(fd, 3, api.Readable))
}

func TestEpollPoller_EmptyBuffer(t *testing.T) {
	p, err := NewPoller()
	require.NoError(t, err)
	defer p.Close()

	_, err = p.Wait(nil)
	assert.Error(t, err)
}

func TestEpollEvent_Conversion(t *testing.T) {
	ev := toEpollEvent(api.Token(1<<40|7), api.Readable|api.Writable)
	assert.NotZero(t, ev.Events&unix.EPOLLET)
	assert.NotZero(t, ev.Events&unix.EPOLLIN)
	assert.NotZero(t, ev.Events&unix.EPOLLOUT)

	ev.Events |= unix.EPOLLHUP
	got := fromEpollEvent(&ev)
	assert.Equal(t, api.Token(1<<40|7), got.Token)
	assert.True(t, got.Interest.IsReadable())
	assert.True(t, got.Interest.IsWritable())
	assert.True(t, got.Closed)
}

func TestOpen_WakesWaiter(t *testing.T) {
	cfg := control.DefaultConfig()
	cfg.EventsCapacity = 8
	r, err := Open(cfg)
	require.NoError(t, err)

	fd := newEventFD(t)
	task := &testTask{}
	tok := r.UniqueToken()
	require.NoError(t, r.Registry().Register(fd, tok, api.Readable))
	require.Equal(t, api.Pending, r.Poll(tok, cxFor(task)))

	signalFD(t, fd)
	require.Eventually(t, func() bool { return task.wakes.Load() == 1 }, 5*time.Second, time.Millisecond)
	assert.Equal(t, api.Ready, r.Poll(tok, cxFor(task)))
	assert.NoError(t, r.Err())
}
