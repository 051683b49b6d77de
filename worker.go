package sched

import (
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Worker is the per-goroutine state of one pool member: the owning end of a
// local deque, a back-reference to the Scheduler, its slot index, and a
// victim-selection PRNG. Exactly one Worker exists per pool goroutine for
// that goroutine's lifetime.
//
// There is no ambient way to discover "the current worker" in Go, so job
// bodies receive the executing *Worker explicitly and thread it through
// nested submissions. A Worker must only be used from closures it was passed
// into; handing it to another goroutine breaks the local-queue ownership
// assumption (the queues themselves stay safe, only locality is lost).
type Worker struct {
	sched *Scheduler
	index int
	local *deque
	rnd   *xorShift64Star
}

func newWorker(s *Scheduler, index int, local *deque) *Worker {
	return &Worker{
		sched: s,
		index: index,
		local: local,
		rnd:   newXorShift64Star(),
	}
}

// parkBackOff returns a fresh park timer: doubling intervals from the
// configured initial bound up to the cap, without jitter.
func (w *Worker) parkBackOff() *backoff.ExponentialBackOff {
	return &backoff.ExponentialBackOff{
		InitialInterval:     w.sched.parkInitial,
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         w.sched.parkMax,
	}
}

// Index returns the worker's slot among the pool's workers,
// in [0, Scheduler.NumWorkers()).
func (w *Worker) Index() int { return w.index }

// Spawn pushes fn onto the worker's own local queue for asynchronous
// execution and wakes one peer. This is the hot path for jobs spawned from
// within already-running jobs; it avoids the shared injector entirely.
func (w *Worker) Spawn(fn func(*Worker)) {
	w.sched.spawn(w, fn)
}

// stealPeer tries to steal one job from a peer's queue, scanning peers from
// a pseudo-random start index and wrapping around, skipping self.
func (w *Worker) stealPeer() (job, bool) {
	n := len(w.sched.threads)
	if n <= 1 {
		return nil, false
	}
	start := w.rnd.intn(n)
	for i := 0; i < n; i++ {
		victim := (start + i) % n
		if victim == w.index {
			continue
		}
		if j, ok := w.sched.threads[victim].stealer.steal(); ok {
			w.sched.stolen.Add(1)
			return j, true
		}
	}
	return nil, false
}

// stealInjector pulls from the shared injector queue, the last-resort
// source of work.
func (w *Worker) stealInjector() (job, bool) {
	j, ok := w.sched.injector.steal()
	if ok {
		w.sched.pending.Add(-1)
	}
	return j, ok
}

// WaitUntil keeps the worker busy until latch is set: pop the local queue,
// steal from a random peer, drain the injector, and otherwise park on the
// shared watcher with an exponentially growing timeout. Every executed job
// notifies all peers (it may have pushed children) and resets the park
// timer. Worker main loops run this against the scheduler's terminator;
// scopes run it against their own count latch, which is what makes nested
// blocking submission deadlock-free (a waiting worker executes other jobs,
// including its own children, instead of sleeping).
func (w *Worker) WaitUntil(latch Latch) {
	park := w.parkBackOff()
	for !latch.Probe() {
		j, ok := w.local.pop()
		if !ok {
			j, ok = w.stealPeer()
		}
		if !ok {
			j, ok = w.stealInjector()
		}
		if ok {
			j.execute(w)
			w.sched.executed.Add(1)
			w.sched.watcher.notifyAll()
			park = w.parkBackOff()
			continue
		}
		w.sched.parks.Add(1)
		start := time.Now()
		w.sched.watcher.wait(park.NextBackOff())
		w.sched.parkTime.Record(time.Since(start).Seconds())
	}
}
