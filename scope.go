package sched

import "sync/atomic"

// Scope is a fork-join region. Jobs spawned into a scope may themselves
// spawn further jobs into it; the scope completes once every spawned job has
// finished. The first panic raised by any job in the scope is captured and
// re-raised to the goroutine blocked in InScope; later panics from the same
// scope are dropped.
type Scope struct {
	sched *Scheduler

	// latch counts the root closure plus every outstanding child.
	latch *CountLatch

	panicked atomic.Pointer[any]
}

func newScope(s *Scheduler) *Scope {
	return &Scope{sched: s, latch: NewCountLatch()}
}

// Spawn submits fn as a child of the scope. w must be the caller's own
// Worker, or nil when spawning from outside the pool. The child may keep
// spawning into the scope through the *Scope it receives.
func (sc *Scope) Spawn(w *Worker, fn func(*Worker, *Scope)) {
	sc.latch.Increment()
	sc.sched.injectOrPush(w, funcJob(func(cw *Worker) {
		sc.execute(cw, fn)
	}))
}

// execute runs fn, balancing the scope latch and capturing the first panic.
func (sc *Scope) execute(w *Worker, fn func(*Worker, *Scope)) {
	defer sc.latch.Set()
	defer func() {
		if r := recover(); r != nil {
			v := r
			sc.panicked.CompareAndSwap(nil, &v)
		}
	}()
	fn(w, sc)
}

// waitUntilCompleted keeps the worker busy until the scope's job counter
// reaches zero, then re-raises the first captured panic, if any. At that
// point no scope job is outstanding, so the swap cannot race a writer.
func (sc *Scope) waitUntilCompleted(w *Worker) {
	w.WaitUntil(sc.latch)
	if p := sc.panicked.Swap(nil); p != nil {
		panic(*p)
	}
}

// InScope creates a fork-join scope, runs fn in it, and blocks until fn and
// every job transitively spawned into the scope have completed, returning
// fn's value. w follows the InWorker convention: the caller's own Worker,
// or nil from outside the pool. Scopes nest; a scope job may open its own
// scope on the worker it receives.
func InScope[T any](s *Scheduler, w *Worker, fn func(*Worker, *Scope) T) T {
	return InWorker(s, w, func(cw *Worker, _ bool) T {
		sc := newScope(s)
		var result T
		sc.execute(cw, func(ew *Worker, esc *Scope) {
			result = fn(ew, esc)
		})
		sc.waitUntilCompleted(cw)
		return result
	})
}
