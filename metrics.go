package texcache

// Metrics exposes loader-level observability hooks. All methods may be
// called concurrently. A NoopMetrics implementation is provided and used
// by default; see metrics/prom for a Prometheus adapter.
type Metrics interface {
	// Hit is called when Request finds an existing entry.
	Hit()
	// Miss is called when Request creates a new entry.
	Miss()
	// Registration is called when a new entry is queued for decoding.
	Registration()
	// Forget is called for each entry removed by Forget or ForgetAll.
	Forget()
	// NotSupported is called when Request rejects a foreign URI.
	NotSupported()
}

// NoopMetrics is a drop-in Metrics implementation that does nothing.
type NoopMetrics struct{}

func (NoopMetrics) Hit()          {}
func (NoopMetrics) Miss()         {}
func (NoopMetrics) Registration() {}
func (NoopMetrics) Forget()       {}
func (NoopMetrics) NotSupported() {}

// Ensure NoopMetrics implements the Metrics interface at compile time.
var _ Metrics = NoopMetrics{}

// Stats is a point-in-time snapshot of loader counters.
type Stats struct {
	// Entries is the number of resident entries.
	Entries int

	// Hits counts requests that found an existing entry.
	Hits uint64

	// Misses counts requests that created a new entry.
	Misses uint64

	// Forgets counts entries removed by Forget and ForgetAll.
	Forgets uint64

	// Rejected counts requests that failed with ErrNotSupported.
	Rejected uint64
}
