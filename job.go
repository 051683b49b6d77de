package sched

// job is a type-erased, single-use unit of work. execute is called exactly
// once, on whichever worker pulled the job out of a queue; a job must never
// be re-queued after execution.
type job interface {
	execute(w *Worker)
}

// funcJob adapts a closure into a job. Heap-allocated jobs (Spawn, scope
// children) are funcJob values whose closure carries panic routing and
// termination accounting.
type funcJob func(*Worker)

func (f funcJob) execute(w *Worker) { f(w) }

// stackJob couples a closure with a LockLatch and a slot for the closure's
// return value. It backs the blocking InWorker path: the constructing
// goroutine blocks on the latch, which guarantees the stackJob is still
// reachable when some worker eventually executes it. intoResult must only be
// called after the latch wait.
type stackJob[T any] struct {
	latch    *LockLatch
	op       func(w *Worker, injected bool) T
	result   T
	panicked any
}

func newStackJob[T any](op func(w *Worker, injected bool) T) *stackJob[T] {
	return &stackJob[T]{latch: NewLockLatch(), op: op}
}

func (j *stackJob[T]) execute(w *Worker) {
	// Latch is set last so the blocked caller observes result/panicked
	// writes before waking.
	defer j.latch.Set()
	defer func() {
		if r := recover(); r != nil {
			j.panicked = r
		}
	}()
	j.result = j.op(w, true)
}

// intoResult returns the closure's value, re-raising any panic it captured
// on the calling goroutine.
func (j *stackJob[T]) intoResult() T {
	if j.panicked != nil {
		panic(j.panicked)
	}
	return j.result
}
