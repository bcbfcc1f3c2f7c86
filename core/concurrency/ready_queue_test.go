package concurrency

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadyQueue_FIFOAndBound(t *testing.T) {
	q := newReadyQueue(2)
	q.addSender()

	a, b, c := &Task{id: 1}, &Task{id: 2}, &Task{id: 3}
	require.NoError(t, q.push(a))
	require.NoError(t, q.push(b))
	assert.ErrorIs(t, q.push(c), ErrQueueOverflow)
	assert.Equal(t, 2, q.len())

	got, ok := q.pop()
	require.True(t, ok)
	assert.Same(t, a, got)
	require.NoError(t, q.push(c))

	got, _ = q.pop()
	assert.Same(t, b, got)
	got, _ = q.pop()
	assert.Same(t, c, got)
}

func TestReadyQueue_DrainsBeforeClosing(t *testing.T) {
	q := newReadyQueue(4)
	q.addSender()
	require.NoError(t, q.push(&Task{id: 1}))
	q.removeSender()

	_, ok := q.pop()
	assert.True(t, ok)
	_, ok = q.pop()
	assert.False(t, ok)
}

func TestReadyQueue_PopWakesOnLastSender(t *testing.T) {
	q := newReadyQueue(4)
	q.addSender()

	done := make(chan bool, 1)
	go func() {
		_, ok := q.pop()
		done <- ok
	}()

	time.Sleep(10 * time.Millisecond)
	q.removeSender()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("pop did not return")
	}
}
