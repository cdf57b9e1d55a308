package texcache

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

// Size is the pixel dimensions of a decoded asset.
type Size struct {
	Width  uint32
	Height uint32
}

// PollState reports where an asset is in its pending-to-ready lifecycle.
type PollState int

const (
	// Pending means the asset has been registered but its size is not yet
	// known. The UI should retry on the next draw pass.
	Pending PollState = iota

	// Ready means the handle is drawable and Size is valid.
	Ready
)

// String returns the poll state name.
func (s PollState) String() string {
	switch s {
	case Pending:
		return "Pending"
	case Ready:
		return "Ready"
	default:
		return "Unknown"
	}
}

// Poll is the result of a successful Request. Handle is valid in both
// states; Size only when State is Ready.
type Poll struct {
	State  PollState
	Handle Handle
	Size   Size
}

// Registration is a newly seen asset awaiting the external decode step.
type Registration struct {
	Key   string
	Asset AssetID
}

// Variant is one (asset, handle, options) triple the decode backend must
// materialize a sampled texture for.
type Variant struct {
	Asset  AssetID
	Handle Handle
	Index  VariantIndex
}

// entry is the per-asset record. Owned exclusively by the Loader.
type entry struct {
	// handles holds one lazily allocated slot per variant index.
	// A fixed array keeps the finite option space explicit: no hashing,
	// no allocation on the variant lookup path.
	handles [NumVariants]*Handle

	// asset is immutable after insertion.
	asset AssetID

	// size is nil until the decode backend calls Resolve.
	size *Size
}

// Options configures a Loader. The zero value is valid: nil Metrics means
// NoopMetrics.
type Options struct {
	// Metrics receives observability callbacks. Callbacks run outside the
	// loader's locks but on the request path; keep them lightweight.
	Metrics Metrics
}

// Loader is a concurrent, idempotent, variant-aware handle cache.
//
// The registry map and the registration queue sit behind independent
// locks so DrainRegistrations never blocks concurrent Requests that only
// touch the registry. No operation holds both locks at once. Handle
// minting is a separate lock-free atomic.
//
// All methods are safe for concurrent use and none of them blocks on I/O;
// every critical section is short and bounded.
type Loader struct {
	mu      sync.Mutex
	entries map[string]*entry

	regMu   sync.Mutex
	pending []Registration

	metrics Metrics

	// Counters (atomic for lock-free Stats).
	hits     atomic.Uint64
	misses   atomic.Uint64
	forgets  atomic.Uint64
	rejected atomic.Uint64
}

// NewLoader creates a Loader with default options.
func NewLoader() *Loader {
	return NewLoaderWithOptions(Options{})
}

// NewLoaderWithOptions creates a Loader with the given options.
func NewLoaderWithOptions(o Options) *Loader {
	m := o.Metrics
	if m == nil {
		m = NoopMetrics{}
	}
	return &Loader{
		entries: make(map[string]*entry),
		metrics: m,
	}
}

// Request looks up (or creates) the handle for uri sampled with opts.
//
// URIs outside the asset:// scheme fail with ErrNotSupported and no side
// effects. Otherwise the variant slot for opts is filled on first demand,
// repeated requests with the same options return the same handle, and
// the result is Ready once the asset's size has been resolved.
//
// The first request for a previously unseen uri creates the entry and
// appends exactly one Registration for the decode backend, regardless of
// how many variants are requested before the asset resolves. The
// check-and-insert into the registry is the single point of truth for
// "is this key new": only the goroutine that performed the insert
// enqueues, so concurrent first requests cannot double-register.
func (l *Loader) Request(uri string, opts TextureOptions) (Poll, error) {
	if !strings.HasPrefix(uri, Scheme) {
		l.rejected.Add(1)
		l.metrics.NotSupported()
		return Poll{}, fmt.Errorf("%w: %q lacks %q prefix", ErrNotSupported, uri, Scheme)
	}
	slot := opts.Variant()

	l.mu.Lock()
	if e, ok := l.entries[uri]; ok {
		h := e.handles[slot]
		if h == nil {
			h = new(Handle)
			*h = nextHandle()
			e.handles[slot] = h
		}
		poll := Poll{State: Pending, Handle: *h}
		if e.size != nil {
			// A fresh variant on an already resolved asset is Ready
			// immediately: the size check comes after the slot fill.
			poll.State = Ready
			poll.Size = *e.size
		}
		l.mu.Unlock()

		l.hits.Add(1)
		l.metrics.Hit()
		return poll, nil
	}
	l.mu.Unlock()

	asset, err := ParseKey(uri)
	if err != nil {
		l.rejected.Add(1)
		l.metrics.NotSupported()
		return Poll{}, err
	}

	l.mu.Lock()
	// Re-check: another goroutine may have inserted while we parsed.
	if e, ok := l.entries[uri]; ok {
		h := e.handles[slot]
		if h == nil {
			h = new(Handle)
			*h = nextHandle()
			e.handles[slot] = h
		}
		poll := Poll{State: Pending, Handle: *h}
		if e.size != nil {
			poll.State = Ready
			poll.Size = *e.size
		}
		l.mu.Unlock()

		l.hits.Add(1)
		l.metrics.Hit()
		return poll, nil
	}

	h := new(Handle)
	*h = nextHandle()
	e := &entry{asset: asset}
	e.handles[slot] = h
	l.entries[uri] = e
	l.mu.Unlock()

	// Only the inserting goroutine reaches this point for a given key,
	// so the queue sees exactly one record per distinct key. The two
	// locks are never held together.
	l.regMu.Lock()
	l.pending = append(l.pending, Registration{Key: uri, Asset: asset})
	l.regMu.Unlock()

	l.misses.Add(1)
	l.metrics.Miss()
	l.metrics.Registration()
	return Poll{State: Pending, Handle: *h}, nil
}

// Resolve records the decoded size for uri. It is called by the decode
// backend, not the UI. If the entry was forgotten in the meantime the
// resolution is silently dropped: the most recent Forget wins over a
// stale Resolve.
func (l *Loader) Resolve(uri string, size Size) {
	l.mu.Lock()
	if e, ok := l.entries[uri]; ok {
		s := size
		e.size = &s
	}
	l.mu.Unlock()
}

// Forget removes the entry for uri, if present. Handles already minted
// for it are not reclaimed.
func (l *Loader) Forget(uri string) {
	l.mu.Lock()
	_, ok := l.entries[uri]
	if ok {
		delete(l.entries, uri)
	}
	l.mu.Unlock()

	if ok {
		l.forgets.Add(1)
		l.metrics.Forget()
	}
}

// ForgetAll removes every entry. The handle counter is not reset.
func (l *Loader) ForgetAll() {
	l.mu.Lock()
	n := len(l.entries)
	l.entries = make(map[string]*entry)
	l.mu.Unlock()

	l.forgets.Add(uint64(n))
	for range n {
		l.metrics.Forget()
	}
}

// DrainRegistrations atomically empties and returns the registration
// queue. Each record is delivered to exactly one caller, at most once
// ever. Draining does not block concurrent Requests that hit existing
// entries.
func (l *Loader) DrainRegistrations() []Registration {
	l.regMu.Lock()
	drained := l.pending
	l.pending = nil
	l.regMu.Unlock()
	return drained
}

// Variants returns one record per populated variant slot of uri, in
// increasing variant-index order. The decode backend uses this to learn
// which sampled textures to build once pixels are available. The result
// is a snapshot recomputed from current state on every call; nil means
// the key is unknown. A backend seeing nil for a key it drained should
// cancel any in-flight decode work, the key was forgotten.
func (l *Loader) Variants(uri string) []Variant {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[uri]
	if !ok {
		return nil
	}
	var out []Variant
	for i, h := range e.handles {
		if h != nil {
			out = append(out, Variant{Asset: e.asset, Handle: *h, Index: VariantIndex(i)})
		}
	}
	return out
}

// Contains reports whether uri currently has an entry. Decode backends
// can use this to cancel work for assets forgotten mid-decode.
func (l *Loader) Contains(uri string) bool {
	l.mu.Lock()
	_, ok := l.entries[uri]
	l.mu.Unlock()
	return ok
}

// Keys returns a snapshot of all resident entry keys. Order is not
// specified.
func (l *Loader) Keys() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	keys := make([]string, 0, len(l.entries))
	for k := range l.entries {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of resident entries.
func (l *Loader) Len() int {
	l.mu.Lock()
	n := len(l.entries)
	l.mu.Unlock()
	return n
}

// Stats returns current loader statistics. Counter reads are lock-free.
func (l *Loader) Stats() Stats {
	return Stats{
		Entries:  l.Len(),
		Hits:     l.hits.Load(),
		Misses:   l.misses.Load(),
		Forgets:  l.forgets.Load(),
		Rejected: l.rejected.Load(),
	}
}
