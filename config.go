package sched

import (
	"runtime"
	"time"

	"github.com/ygrebnov/errorc"
	"go.uber.org/zap"

	"github.com/example/sched/metrics"
)

// PanicHandler is invoked with the recovered value when a fire-and-forget
// job panics. The same handler may be invoked concurrently from several
// workers. If the handler itself panics, the process exits.
type PanicHandler func(v any)

// config holds Scheduler configuration.
type config struct {
	// Workers defines the number of worker goroutines in the pool.
	// Default: runtime.GOMAXPROCS(0).
	Workers uint

	// StackSize is an advisory per-worker stack size hint. Goroutine stacks
	// are sized by the Go runtime; the value is recorded and logged only.
	// Default: 0 (no hint).
	StackSize uint

	// PanicHandler receives recovered values from panicking jobs.
	// Default: nil (a job panic is re-raised on the worker goroutine,
	// terminating the process).
	PanicHandler PanicHandler

	// Logger receives lifecycle and panic events.
	// Default: zap.NewNop().
	Logger *zap.Logger

	// Metrics constructs the scheduler's instruments.
	// Default: metrics.NoopProvider.
	Metrics metrics.Provider

	// ParkInitial is the first park timeout used by an idle worker.
	// Default: 1ms.
	ParkInitial time.Duration

	// ParkMax caps the park timeout as it doubles.
	// Default: 48ms.
	ParkMax time.Duration
}

// defaultConfig centralizes default values for config.
func defaultConfig() config {
	return config{
		Workers:     uint(runtime.GOMAXPROCS(0)),
		StackSize:   0,
		Logger:      zap.NewNop(),
		Metrics:     metrics.NewNoopProvider(),
		ParkInitial: time.Millisecond,
		ParkMax:     48 * time.Millisecond,
	}
}

// validateConfig checks cross-field invariants after options are applied.
func validateConfig(cfg *config) error {
	if cfg.Workers == 0 {
		return errorc.With(ErrInvalidConfig, errorc.String("", "worker count must be > 0"))
	}
	if cfg.ParkInitial <= 0 || cfg.ParkMax < cfg.ParkInitial {
		return errorc.With(ErrInvalidConfig, errorc.String("", "park backoff bounds must satisfy 0 < initial <= max"))
	}
	return nil
}

// Option configures a Scheduler. Use New(opts...) to construct one.
type Option func(*config) error

// WithWorkers sets the number of worker goroutines (must be > 0).
func WithWorkers(n uint) Option {
	return func(cfg *config) error {
		if n == 0 {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithWorkers requires n > 0"))
		}
		cfg.Workers = n
		return nil
	}
}

// WithStackSize records an advisory per-worker stack size hint.
func WithStackSize(n uint) Option {
	return func(cfg *config) error { cfg.StackSize = n; return nil }
}

// WithPanicHandler installs a handler for recovered job panics.
func WithPanicHandler(h PanicHandler) Option {
	return func(cfg *config) error {
		if h == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithPanicHandler requires a non-nil handler"))
		}
		cfg.PanicHandler = h
		return nil
	}
}

// WithLogger sets the logger used for lifecycle and panic events.
func WithLogger(l *zap.Logger) Option {
	return func(cfg *config) error {
		if l == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithLogger requires a non-nil logger"))
		}
		cfg.Logger = l
		return nil
	}
}

// WithMetricsProvider sets the provider used to build the scheduler's
// instruments (jobs executed/stolen/injected, parks, injector depth).
func WithMetricsProvider(p metrics.Provider) Option {
	return func(cfg *config) error {
		if p == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithMetricsProvider requires a non-nil provider"))
		}
		cfg.Metrics = p
		return nil
	}
}

// WithParkBackoff overrides the idle-worker park timeout bounds.
func WithParkBackoff(initial, max time.Duration) Option {
	return func(cfg *config) error {
		if initial <= 0 || max < initial {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithParkBackoff requires 0 < initial <= max"))
		}
		cfg.ParkInitial = initial
		cfg.ParkMax = max
		return nil
	}
}
