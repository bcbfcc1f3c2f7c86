package concurrency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-rt/api"
)

// popTask takes the next queued task, and with it the queue's ownership unit.
func popTask(t *testing.T, exec *Executor) *Task {
	t.Helper()
	task, ok := exec.sh.q.pop()
	require.True(t, ok)
	return task
}

func TestWaker_OwnershipUnits(t *testing.T) {
	exec, sp := NewExecutor(WithQueueCapacity(8))
	sp.SpawnFunc(func(*api.Context) api.Poll { return api.Pending })

	task := popTask(t, exec)
	assert.EqualValues(t, 1, task.refs.Load())

	task.acquire()
	w := task.waker()
	assert.EqualValues(t, 2, task.refs.Load())

	c := w.Clone()
	assert.EqualValues(t, 3, task.refs.Load())
	assert.True(t, w.WillWake(c))
	assert.True(t, c.WillWake(w))

	c.Drop()
	assert.EqualValues(t, 2, task.refs.Load())
	assert.ErrorIs(t, recoverError(c.Drop), ErrWakerReleased)
	assert.ErrorIs(t, recoverError(func() { c.Clone() }), ErrWakerReleased)
	assert.EqualValues(t, 2, task.refs.Load())

	// WakeByRef leaves the caller's unit and queues a new one.
	w.WakeByRef()
	assert.EqualValues(t, 3, task.refs.Load())
	assert.Equal(t, 1, exec.Queued())

	// Wake moves the unit into the queue.
	w.Wake()
	assert.EqualValues(t, 3, task.refs.Load())
	assert.Equal(t, 2, exec.Queued())
	assert.ErrorIs(t, recoverError(w.WakeByRef), ErrWakerReleased)
	assert.ErrorIs(t, recoverError(w.Wake), ErrWakerReleased)

	assert.Same(t, task, popTask(t, exec))
	assert.Same(t, task, popTask(t, exec))
	task.release()
	task.release()
	assert.Equal(t, 2, exec.sh.q.liveSenders())

	task.release()
	assert.EqualValues(t, 0, task.refs.Load())
	assert.Equal(t, 1, exec.sh.q.liveSenders())
	assert.ErrorIs(t, recoverError(task.release), ErrTaskReleased)

	sp.Close()
	require.NoError(t, exec.Run())
}

func TestWaker_WillWakeDistinguishesTasks(t *testing.T) {
	exec, sp := NewExecutor(WithQueueCapacity(8))
	sp.SpawnFunc(ready)
	sp.SpawnFunc(ready)

	a, b := popTask(t, exec), popTask(t, exec)
	wa, wb := a.waker(), b.waker()
	assert.False(t, wa.WillWake(wb))
	assert.False(t, wa.WillWake(nil))
	assert.True(t, wa.WillWake(wa))

	wa.Drop()
	wb.Drop()
	sp.Close()
	require.NoError(t, exec.Run())
}

func TestTask_CompletedTaskIsNotPolledAgain(t *testing.T) {
	exec, sp := NewExecutor(WithQueueCapacity(8))

	polls := 0
	sp.SpawnFunc(func(cx *api.Context) api.Poll {
		polls++
		// Queue two extra wake-ups before completing.
		cx.Waker().WakeByRef()
		cx.Waker().WakeByRef()
		return api.Ready
	})
	sp.Close()

	require.NoError(t, exec.Run())
	assert.Equal(t, 1, polls)
}

func TestSpawner_Overflow(t *testing.T) {
	exec, sp := NewExecutor(WithQueueCapacity(4))
	for i := 0; i < 4; i++ {
		sp.SpawnFunc(ready)
	}

	err := recoverError(func() { sp.SpawnFunc(ready) })
	require.ErrorIs(t, err, ErrQueueOverflow)
	assert.Equal(t, 4, exec.Queued())
}

func TestSpawner_ClosedHandle(t *testing.T) {
	exec, sp := NewExecutor()
	h := sp.Clone()
	h.Close()
	h.Close()

	assert.ErrorIs(t, recoverError(func() { h.SpawnFunc(ready) }), ErrSpawnerClosed)
	assert.ErrorIs(t, recoverError(func() { h.Clone() }), ErrSpawnerClosed)
	assert.Panics(t, func() { sp.Spawn(nil) })

	sp.Close()
	require.NoError(t, exec.Run())
}

func TestSpawner_CloneRacingClose(t *testing.T) {
	exec, sp := NewExecutor()

	for i := 0; i < 500; i++ {
		h := sp.Clone()
		start := make(chan struct{})
		var clone *Spawner
		cloned := make(chan error, 1)
		go func() {
			<-start
			cloned <- recoverError(func() { clone = h.Clone() })
		}()
		close(start)
		h.Close()

		if err := <-cloned; err != nil {
			require.ErrorIs(t, err, ErrSpawnerClosed)
			continue
		}
		// A successful clone was taken while h was still open.
		assert.Equal(t, 2, exec.sh.q.liveSenders())
		clone.Close()
	}

	assert.Equal(t, 1, exec.sh.q.liveSenders())
	sp.Close()
	assert.Equal(t, 0, exec.sh.q.liveSenders())
	require.NoError(t, exec.Run())
}
