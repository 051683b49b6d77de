package sched

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpinLatch_SetProbe(t *testing.T) {
	l := NewSpinLatch()
	assert.False(t, l.Probe())

	l.Set()
	assert.True(t, l.Probe())

	// idempotent
	l.Set()
	assert.True(t, l.Probe())
}

func TestLockLatch_WaitAcrossGoroutines(t *testing.T) {
	l := NewLockLatch()
	assert.False(t, l.Probe())

	done := make(chan struct{})
	go func() {
		l.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Wait returned before Set")
	case <-time.After(50 * time.Millisecond):
	}

	l.Set()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after Set")
	}
	assert.True(t, l.Probe())
}

func TestLockLatch_WaitAfterSetReturnsImmediately(t *testing.T) {
	l := NewLockLatch()
	l.Set()
	l.Wait() // must not block
	assert.True(t, l.Probe())
}

func TestCountLatch_Balance(t *testing.T) {
	l := NewCountLatch()
	require.False(t, l.Probe(), "fresh count latch starts at 1")

	l.Increment()
	l.Increment()
	l.Set()
	assert.False(t, l.Probe())
	l.Set()
	assert.False(t, l.Probe())

	// release the initial count
	l.Set()
	assert.True(t, l.Probe())
}
