// Package prom exports texcache loader metrics to Prometheus.
package prom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gogpu/texcache"
)

// Adapter implements texcache.Metrics and exports Prometheus counters.
// Safe for concurrent use; all Prometheus metric types are goroutine-safe.
type Adapter struct {
	hits          prometheus.Counter
	misses        prometheus.Counter
	registrations prometheus.Counter
	forgets       prometheus.Counter
	notSupported  prometheus.Counter
}

// New constructs a Prometheus metrics adapter.
//   - reg:         registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:     Prometheus namespace and subsystem
//   - constLabels: static labels applied to all metrics (may be nil)
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	a := &Adapter{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "hits_total",
			Help:        "Requests that found an existing entry",
			ConstLabels: constLabels,
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "misses_total",
			Help:        "Requests that created a new entry",
			ConstLabels: constLabels,
		}),
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "registrations_total",
			Help:        "Assets queued for decoding",
			ConstLabels: constLabels,
		}),
		forgets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "forgets_total",
			Help:        "Entries removed by Forget and ForgetAll",
			ConstLabels: constLabels,
		}),
		notSupported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "not_supported_total",
			Help:        "Requests rejected for a foreign URI scheme",
			ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(a.hits, a.misses, a.registrations, a.forgets, a.notSupported)
	return a
}

// Hit increments the hit counter.
func (a *Adapter) Hit() { a.hits.Inc() }

// Miss increments the miss counter.
func (a *Adapter) Miss() { a.misses.Inc() }

// Registration increments the registration counter.
func (a *Adapter) Registration() { a.registrations.Inc() }

// Forget increments the forget counter.
func (a *Adapter) Forget() { a.forgets.Inc() }

// NotSupported increments the rejected-URI counter.
func (a *Adapter) NotSupported() { a.notSupported.Inc() }

// Ensure Adapter implements the Metrics interface at compile time.
var _ texcache.Metrics = (*Adapter)(nil)
