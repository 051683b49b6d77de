package sched

import (
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/sched/metrics"
)

// threadInfo is the scheduler-side view of one worker: the stealer end of
// its local queue and its lifecycle latches.
type threadInfo struct {
	stealer *deque

	// primed is set once the worker has registered and entered its steal
	// loop; New blocks until every worker is primed.
	primed *LockLatch

	// terminated is set when the worker's main loop has observed the
	// terminator and exited.
	terminated *LockLatch
}

// Scheduler is the shared pool state: one injector queue, the stealer end of
// every worker's local queue, the termination latch, the park/wake watcher,
// and the panic handler. A Scheduler is safe for concurrent use from any
// number of goroutines.
type Scheduler struct {
	threads  []*threadInfo
	injector *deque

	// terminator gates shutdown. It starts with a count of 1 (the
	// construction hold, released by Terminate/Close); every in-flight
	// Spawn holds it too. Workers exit once it reaches zero.
	terminator *CountLatch

	watcher *watcher

	panicHandler PanicHandler
	logger       *zap.Logger

	parkInitial time.Duration
	parkMax     time.Duration

	executed metrics.Counter
	stolen   metrics.Counter
	injected metrics.Counter
	parks    metrics.Counter
	pending  metrics.UpDownCounter
	parkTime metrics.Histogram

	closeOnce sync.Once
}

// New constructs the pool, spawns every worker goroutine, and blocks until
// each one has registered and is actively looking for work. After New
// returns no job can be lost between construction and first submission.
func New(opts ...Option) (*Scheduler, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	n := int(cfg.Workers)
	s := &Scheduler{
		injector:     &deque{},
		terminator:   NewCountLatch(),
		watcher:      newWatcher(n),
		panicHandler: cfg.PanicHandler,
		logger:       cfg.Logger,
		parkInitial:  cfg.ParkInitial,
		parkMax:      cfg.ParkMax,
		executed:     cfg.Metrics.Counter("sched.jobs.executed", metrics.WithUnit("1")),
		stolen:       cfg.Metrics.Counter("sched.jobs.stolen", metrics.WithUnit("1")),
		injected:     cfg.Metrics.Counter("sched.jobs.injected", metrics.WithUnit("1")),
		parks:        cfg.Metrics.Counter("sched.worker.parks", metrics.WithUnit("1")),
		pending:      cfg.Metrics.UpDownCounter("sched.injector.depth", metrics.WithUnit("1")),
		parkTime:     cfg.Metrics.Histogram("sched.worker.park.seconds", metrics.WithUnit("seconds")),
	}

	for i := 0; i < n; i++ {
		s.threads = append(s.threads, &threadInfo{
			stealer:    &deque{},
			primed:     NewLockLatch(),
			terminated: NewLockLatch(),
		})
	}
	for i := range s.threads {
		go s.runWorker(i)
	}
	for _, t := range s.threads {
		t.primed.Wait()
	}

	s.logger.Info("scheduler started",
		zap.Int("workers", n),
		zap.Uint("stack_size_hint", cfg.StackSize),
	)
	return s, nil
}

// runWorker is a pool goroutine's main function. The Worker lives on this
// goroutine's stack frame for the goroutine's whole lifetime.
func (s *Scheduler) runWorker(index int) {
	w := newWorker(s, index, s.threads[index].stealer)
	s.logger.Debug("worker primed", zap.Int("worker", index))
	s.threads[index].primed.Set()

	w.WaitUntil(s.terminator)

	s.threads[index].terminated.Set()
	s.logger.Debug("worker terminated", zap.Int("worker", index))
}

// NumWorkers returns the fixed number of workers in the pool.
func (s *Scheduler) NumWorkers() int { return len(s.threads) }

// inject appends a job to the shared injector queue and wakes one parked
// worker. Used for submissions from outside the pool, and as the fallback
// queue workers drain last.
func (s *Scheduler) inject(j job) {
	s.injector.push(j)
	s.injected.Add(1)
	s.pending.Add(1)
	s.watcher.notifyOne()
}

// injectOrPush routes a job to the submitting worker's own local queue when
// the submitter is a pool worker, avoiding injector contention, and falls
// back to inject otherwise.
func (s *Scheduler) injectOrPush(w *Worker, j job) {
	if w == nil {
		s.inject(j)
		return
	}
	w.local.push(j)
	s.watcher.notifyOne()
}

// Spawn submits fn for asynchronous, fire-and-forget execution on the pool.
// The scheduler cannot terminate until fn has executed. If fn panics, the
// panic is routed to the configured panic handler.
func (s *Scheduler) Spawn(fn func(*Worker)) {
	s.spawn(nil, fn)
}

// SpawnMany submits a batch of jobs under a single injector lock hold and
// wakes all parked workers.
func (s *Scheduler) SpawnMany(fns ...func(*Worker)) {
	if len(fns) == 0 {
		return
	}
	js := make([]job, 0, len(fns))
	for _, fn := range fns {
		js = append(js, s.wrapSpawn(fn))
	}
	s.injector.pushAll(js)
	s.injected.Add(int64(len(js)))
	s.pending.Add(int64(len(js)))
	s.watcher.notifyAll()
}

func (s *Scheduler) spawn(w *Worker, fn func(*Worker)) {
	s.injectOrPush(w, s.wrapSpawn(fn))
}

// wrapSpawn brackets a fire-and-forget job with the terminator hold and
// panic routing. The hold is taken before the job is visible to any queue so
// termination can never race past a queued job.
func (s *Scheduler) wrapSpawn(fn func(*Worker)) job {
	s.TerminateInc()
	return funcJob(func(w *Worker) {
		defer s.TerminateDec()
		defer func() {
			if r := recover(); r != nil {
				s.handlePanic(r)
			}
		}()
		fn(w)
	})
}

// InWorker runs op and blocks until it completes, returning its value.
//
// Called with the caller's own Worker, op executes immediately, inline on
// the calling goroutine; it is never queued. This avoids both a needless
// hop and the classic self-deadlock of a worker sleeping on work it could
// run itself. Called with a nil Worker (from outside the pool), op is
// wrapped in a stack job, injected, and the caller blocks on a latch until
// some worker has run it. Either way a panic inside op re-raises on the
// calling goroutine.
//
// op receives the worker that is executing it and whether it was injected.
func InWorker[T any](s *Scheduler, w *Worker, op func(w *Worker, injected bool) T) T {
	if w != nil {
		return op(w, false)
	}
	j := newStackJob(op)
	s.inject(j)
	j.latch.Wait()
	return j.intoResult()
}

// handlePanic routes a recovered job panic. With no handler configured the
// value is re-raised on the worker goroutine, which terminates the process:
// panics are never silently swallowed. A handler that itself panics
// escalates to process exit.
func (s *Scheduler) handlePanic(v any) {
	if s.panicHandler == nil {
		s.logger.Error("job panicked with no handler configured", zap.Any("panic", v))
		panic(v)
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Fatal("panic handler panicked", zap.Any("panic", r))
		}
	}()
	s.logger.Error("job panicked", zap.Any("panic", v))
	s.panicHandler(v)
}

// TerminateInc delays termination until a matching TerminateDec. Every
// increment must be balanced, otherwise WaitUntilTerminated never returns.
func (s *Scheduler) TerminateInc() { s.terminator.Increment() }

// TerminateDec releases one termination hold.
func (s *Scheduler) TerminateDec() { s.terminator.Set() }

// Terminate releases the hold taken at construction. Workers exit once all
// remaining holds (one per in-flight Spawn) are released too. Termination
// is advisory: nothing checks that queues have drained beyond the holds the
// submission paths themselves maintain.
func (s *Scheduler) Terminate() { s.terminator.Set() }

// WaitUntilTerminated blocks until every worker has observed termination
// and exited its main loop. It repeatedly wakes all parked workers and
// yields rather than blocking on a condition variable, so it burns CPU
// while waiting; it is a coarse shutdown join, not a general-purpose wait.
func (s *Scheduler) WaitUntilTerminated() {
	for {
		done := true
		for _, t := range s.threads {
			if !t.terminated.Probe() {
				done = false
				break
			}
		}
		if done {
			break
		}
		s.watcher.notifyAll()
		runtime.Gosched()
	}
	s.logger.Info("scheduler terminated")
}

// Close releases the construction hold and joins the workers. It is
// idempotent. Callers that manage termination holds manually should use
// Terminate and WaitUntilTerminated directly instead.
func (s *Scheduler) Close() {
	s.closeOnce.Do(func() {
		s.Terminate()
		s.WaitUntilTerminated()
	})
}
