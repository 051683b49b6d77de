package sched

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWatcher_WaitTimesOut(t *testing.T) {
	w := newWatcher(2)
	start := time.Now()
	w.wait(20 * time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
}

func TestWatcher_NotifyBeforeWaitIsNotLost(t *testing.T) {
	w := newWatcher(2)
	// notify first: the token is buffered, so a later wait returns
	// immediately instead of sleeping out the timeout
	w.notifyOne()

	start := time.Now()
	w.wait(500 * time.Millisecond)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestWatcher_NotifyOneWakesParkedWaiter(t *testing.T) {
	w := newWatcher(1)
	done := make(chan struct{})
	go func() {
		w.wait(5 * time.Second)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	w.notifyOne()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("parked waiter was not woken")
	}
}

func TestWatcher_NotifyAllWakesEveryWaiter(t *testing.T) {
	const n = 4
	w := newWatcher(n)
	done := make(chan struct{}, n)
	for i := 0; i < n; i++ {
		go func() {
			w.wait(5 * time.Second)
			done <- struct{}{}
		}()
	}

	time.Sleep(10 * time.Millisecond)
	w.notifyAll()

	for i := 0; i < n; i++ {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatalf("only %d of %d waiters woke", i, n)
		}
	}
}
