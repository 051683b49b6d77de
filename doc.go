// Package sched implements a work-stealing job scheduler: a fixed pool of
// worker goroutines cooperatively executing short-lived units of work with
// automatic load balancing, blocking and fire-and-forget submission, and a
// best-effort termination protocol.
//
// Each worker owns a local double-ended queue. Jobs spawned from within a
// running job are pushed onto the spawning worker's queue (cheap,
// uncontended); jobs submitted from outside the pool land in a shared
// injector queue. Idle workers pop their own queue first, then steal from a
// randomly chosen peer, then fall back to the injector, and finally park on
// the shared watcher with an exponentially growing timeout.
//
// Submission surface
//   - Scheduler.Spawn / Worker.Spawn: fire-and-forget execution.
//   - InWorker: run a closure and block for its result. Called with the
//     caller's own Worker it executes inline; called with a nil Worker it is
//     injected and the caller blocks on a latch.
//   - InScope: fork-join scope supporting reentrant child spawns; blocks
//     until the closure and all of its children complete.
//
// Worker identity is explicit. Job bodies receive the executing *Worker and
// thread it through nested submissions; callers outside the pool pass nil.
//
// Termination is advisory and caller-driven. Every Spawn holds the
// termination latch for the lifetime of its job; callers release the hold
// taken at construction with Terminate (or Close), after which
// WaitUntilTerminated returns once every worker has exited. Unbalanced
// TerminateInc calls make WaitUntilTerminated block forever; that contract
// is not runtime-checked.
//
// Job panics are never swallowed: they are routed to the configured panic
// handler, or re-raised on the worker goroutine (terminating the process)
// when no handler is set. Panics inside blocking InWorker calls are
// re-raised on the calling goroutine instead.
package sched
