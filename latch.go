package sched

import (
	"sync"
	"sync/atomic"
)

// Latch is a one-shot signaling primitive. A latch starts unset; eventually
// someone calls Set and it becomes set. Probe reports whether that happened.
// Set is idempotent and may be called from any goroutine.
type Latch interface {
	Set()
	Probe() bool
}

// SpinLatch is the simplest latch: a single atomic flag. It does not support
// a blocking wait; poll Probe (typically from a worker's steal loop).
type SpinLatch struct {
	b atomic.Bool
}

// NewSpinLatch returns an unset SpinLatch.
func NewSpinLatch() *SpinLatch { return &SpinLatch{} }

func (l *SpinLatch) Set() { l.b.Store(true) }

func (l *SpinLatch) Probe() bool { return l.b.Load() }

// LockLatch is a latch with a blocking Wait, used to deliver readiness to a
// goroutine that has nothing better to do than sleep (e.g. a non-worker
// caller blocked on an injected job).
type LockLatch struct {
	mu   sync.Mutex
	cond *sync.Cond
	set  bool
}

// NewLockLatch returns an unset LockLatch.
func NewLockLatch() *LockLatch {
	l := &LockLatch{}
	l.cond = sync.NewCond(&l.mu)
	return l
}

func (l *LockLatch) Set() {
	l.mu.Lock()
	l.set = true
	l.mu.Unlock()
	l.cond.Broadcast()
}

func (l *LockLatch) Probe() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.set
}

// Wait blocks until the latch is set.
func (l *LockLatch) Wait() {
	l.mu.Lock()
	for !l.set {
		l.cond.Wait()
	}
	l.mu.Unlock()
}

// CountLatch tracks a counter that starts at 1. Unlike the other latches,
// Set does not necessarily make the latch set; it decrements the counter,
// and the latch only probes set once the counter reaches zero. Increment
// before starting nested work and Set when it finishes to delay observers;
// every Increment must be balanced by exactly one Set.
type CountLatch struct {
	n atomic.Int64
}

// NewCountLatch returns a CountLatch with a count of 1.
func NewCountLatch() *CountLatch {
	l := &CountLatch{}
	l.n.Store(1)
	return l
}

func (l *CountLatch) Increment() { l.n.Add(1) }

func (l *CountLatch) Set() { l.n.Add(-1) }

func (l *CountLatch) Probe() bool { return l.n.Load() == 0 }
