// Package metrics defines the instrument surface the scheduler records
// into, with an in-memory implementation for tests and lightweight apps and
// a no-op default. Implementations must be safe for concurrent use; the
// scheduler calls instruments from every worker.
package metrics

// Provider constructs instruments by name. Asking for the same name twice
// must return the same instrument.
type Provider interface {
	Counter(name string, opts ...InstrumentOption) Counter
	UpDownCounter(name string, opts ...InstrumentOption) UpDownCounter
	Histogram(name string, opts ...InstrumentOption) Histogram
}

// Counter records monotonic counts (jobs executed, steals, parks).
type Counter interface {
	Add(n int64)
}

// UpDownCounter records values that move both ways (injector depth).
type UpDownCounter interface {
	Add(n int64)
}

// Histogram records a distribution of float64 measurements (park durations
// in seconds).
type Histogram interface {
	Record(v float64)
}

// InstrumentConfig carries advisory instrument metadata.
type InstrumentConfig struct {
	Description string
	Unit        string
}

// InstrumentOption mutates InstrumentConfig.
type InstrumentOption func(*InstrumentConfig)

// WithDescription sets an advisory description for the instrument.
func WithDescription(desc string) InstrumentOption {
	return func(c *InstrumentConfig) { c.Description = desc }
}

// WithUnit sets an advisory unit for the instrument (e.g. "1", "seconds").
func WithUnit(unit string) InstrumentOption {
	return func(c *InstrumentConfig) { c.Unit = unit }
}
