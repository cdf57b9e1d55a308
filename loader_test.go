package texcache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
)

const testUUIDKey = "asset://uuid/550e8400-e29b-41d4-a716-446655440000"

func TestRequestForeignScheme(t *testing.T) {
	l := NewLoader()

	_, err := l.Request("http://example.com/cat.png", TextureOptions{})
	if !errors.Is(err, ErrNotSupported) {
		t.Fatalf("Request() = %v, want ErrNotSupported", err)
	}
	if l.Len() != 0 {
		t.Error("foreign URI must not create an entry")
	}
	if regs := l.DrainRegistrations(); len(regs) != 0 {
		t.Errorf("foreign URI enqueued %d registrations", len(regs))
	}
}

func TestRequestMalformedPayload(t *testing.T) {
	l := NewLoader()

	// Scheme matches but the payload does not parse: still ErrNotSupported,
	// still no side effects.
	_, err := l.Request("asset://index/notanumber", TextureOptions{})
	if !errors.Is(err, ErrNotSupported) {
		t.Fatalf("Request() = %v, want ErrNotSupported", err)
	}
	if l.Len() != 0 {
		t.Error("malformed URI must not create an entry")
	}
	if regs := l.DrainRegistrations(); len(regs) != 0 {
		t.Errorf("malformed URI enqueued %d registrations", len(regs))
	}
}

func TestRequestNewKeyPendingAndRegistered(t *testing.T) {
	l := NewLoader()

	poll, err := l.Request(testUUIDKey, TextureOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if poll.State != Pending {
		t.Errorf("first request State = %v, want Pending", poll.State)
	}

	regs := l.DrainRegistrations()
	if len(regs) != 1 {
		t.Fatalf("got %d registrations, want 1", len(regs))
	}
	if regs[0].Key != testUUIDKey {
		t.Errorf("registration key = %q, want %q", regs[0].Key, testUUIDKey)
	}
	want := UUIDID(uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"))
	if regs[0].Asset != want {
		t.Errorf("registration asset = %+v, want %+v", regs[0].Asset, want)
	}

	// Drain delivers each record at most once.
	if regs := l.DrainRegistrations(); len(regs) != 0 {
		t.Errorf("second drain returned %d records", len(regs))
	}
}

func TestRequestIdempotentHandle(t *testing.T) {
	l := NewLoader()
	opts := TextureOptions{MagFilter: FilterLinear}

	first, err := l.Request(testUUIDKey, opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := l.Request(testUUIDKey, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.Handle != second.Handle {
		t.Errorf("same (key, options) produced handles %d and %d", first.Handle, second.Handle)
	}
}

func TestDistinctOptionsDistinctHandles(t *testing.T) {
	l := NewLoader()

	seen := make(map[Handle]VariantIndex)
	for i := VariantIndex(0); i < NumVariants; i++ {
		opts, err := VariantFromIndex(i)
		if err != nil {
			t.Fatal(err)
		}
		poll, err := l.Request(testUUIDKey, opts)
		if err != nil {
			t.Fatal(err)
		}
		if prev, dup := seen[poll.Handle]; dup {
			t.Fatalf("variants %d and %d share handle %d", prev, i, poll.Handle)
		}
		seen[poll.Handle] = i
	}
}

func TestSingleRegistrationAcrossVariants(t *testing.T) {
	l := NewLoader()

	// Several distinct options before any resolve: still one registration.
	for _, opts := range []TextureOptions{
		{},
		{MagFilter: FilterLinear},
		{Wrap: WrapRepeat},
		{MinFilter: FilterLinear, Wrap: WrapMirrorRepeat},
	} {
		if _, err := l.Request(testUUIDKey, opts); err != nil {
			t.Fatal(err)
		}
	}
	if regs := l.DrainRegistrations(); len(regs) != 1 {
		t.Errorf("got %d registrations, want 1", len(regs))
	}
}

func TestResolveMakesReady(t *testing.T) {
	l := NewLoader()
	opts := TextureOptions{}

	pending, err := l.Request(testUUIDKey, opts)
	if err != nil {
		t.Fatal(err)
	}
	if pending.State != Pending {
		t.Fatalf("State = %v, want Pending", pending.State)
	}

	size := Size{Width: 256, Height: 256}
	l.Resolve(testUUIDKey, size)

	ready, err := l.Request(testUUIDKey, opts)
	if err != nil {
		t.Fatal(err)
	}
	if ready.State != Ready {
		t.Fatalf("State after Resolve = %v, want Ready", ready.State)
	}
	if ready.Size != size {
		t.Errorf("Size = %+v, want %+v", ready.Size, size)
	}
	if ready.Handle != pending.Handle {
		t.Errorf("handle changed across Resolve: %d != %d", ready.Handle, pending.Handle)
	}
}

func TestFreshVariantOnResolvedKeyIsReady(t *testing.T) {
	l := NewLoader()

	base, err := l.Request(testUUIDKey, TextureOptions{})
	if err != nil {
		t.Fatal(err)
	}
	size := Size{Width: 256, Height: 256}
	l.Resolve(testUUIDKey, size)

	// A variant never requested before: the slot is filled and the size
	// check happens afterwards, so it is Ready on its very first request.
	poll, err := l.Request(testUUIDKey, TextureOptions{Wrap: WrapRepeat})
	if err != nil {
		t.Fatal(err)
	}
	if poll.State != Ready {
		t.Errorf("fresh variant State = %v, want Ready", poll.State)
	}
	if poll.Size != size {
		t.Errorf("fresh variant Size = %+v, want %+v", poll.Size, size)
	}
	if poll.Handle == base.Handle {
		t.Error("fresh variant reused the base variant's handle")
	}
}

func TestForgetWinsOverLateResolve(t *testing.T) {
	l := NewLoader()

	if _, err := l.Request(testUUIDKey, TextureOptions{}); err != nil {
		t.Fatal(err)
	}
	l.DrainRegistrations()

	l.Forget(testUUIDKey)
	l.Resolve(testUUIDKey, Size{Width: 64, Height: 64}) // dropped silently

	if l.Len() != 0 {
		t.Fatal("Resolve after Forget resurrected the entry")
	}

	// The key now behaves as never seen: pending again, re-registered.
	poll, err := l.Request(testUUIDKey, TextureOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if poll.State != Pending {
		t.Errorf("State = %v, want Pending", poll.State)
	}
	if regs := l.DrainRegistrations(); len(regs) != 1 {
		t.Errorf("got %d registrations after re-request, want 1", len(regs))
	}
}

func TestForgetUnknownKeyNoop(t *testing.T) {
	l := NewLoader()
	l.Forget("asset://index/1") // must not panic or miscount
	if got := l.Stats().Forgets; got != 0 {
		t.Errorf("Forgets = %d, want 0", got)
	}
}

func TestForgetAllClearsWithoutReissuingHandles(t *testing.T) {
	l := NewLoader()

	a, err := l.Request("asset://index/1", TextureOptions{})
	if err != nil {
		t.Fatal(err)
	}
	b, err := l.Request("asset://index/2", TextureOptions{})
	if err != nil {
		t.Fatal(err)
	}

	l.ForgetAll()
	if l.Len() != 0 {
		t.Fatalf("Len() = %d after ForgetAll, want 0", l.Len())
	}

	c, err := l.Request("asset://index/1", TextureOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if c.Handle == a.Handle || c.Handle == b.Handle {
		t.Errorf("handle %d reissued after ForgetAll", c.Handle)
	}
}

func TestVariantsSnapshotOrder(t *testing.T) {
	l := NewLoader()

	// Populate slots out of order; the snapshot must come back sorted by
	// variant index.
	mirror := TextureOptions{Wrap: WrapMirrorRepeat} // index 8
	base := TextureOptions{MagFilter: FilterLinear} // index 1

	pm, err := l.Request(testUUIDKey, mirror)
	if err != nil {
		t.Fatal(err)
	}
	pb, err := l.Request(testUUIDKey, base)
	if err != nil {
		t.Fatal(err)
	}

	vars := l.Variants(testUUIDKey)
	if len(vars) != 2 {
		t.Fatalf("got %d variants, want 2", len(vars))
	}
	if vars[0].Index != 1 || vars[1].Index != 8 {
		t.Errorf("variant order = [%d, %d], want [1, 8]", vars[0].Index, vars[1].Index)
	}
	if vars[0].Handle != pb.Handle || vars[1].Handle != pm.Handle {
		t.Error("variant handles do not match the polled handles")
	}
	want := UUIDID(uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"))
	for _, v := range vars {
		if v.Asset != want {
			t.Errorf("variant asset = %+v, want %+v", v.Asset, want)
		}
	}
}

func TestVariantsUnknownKey(t *testing.T) {
	l := NewLoader()
	if vars := l.Variants("asset://index/404"); vars != nil {
		t.Errorf("Variants of unknown key = %v, want nil", vars)
	}
}

func TestContainsAndKeys(t *testing.T) {
	l := NewLoader()
	if l.Contains(testUUIDKey) {
		t.Error("Contains() = true on empty loader")
	}
	if _, err := l.Request(testUUIDKey, TextureOptions{}); err != nil {
		t.Fatal(err)
	}
	if !l.Contains(testUUIDKey) {
		t.Error("Contains() = false after Request")
	}
	keys := l.Keys()
	if len(keys) != 1 || keys[0] != testUUIDKey {
		t.Errorf("Keys() = %v, want [%q]", keys, testUUIDKey)
	}
}

func TestStatsCounters(t *testing.T) {
	l := NewLoader()

	_, _ = l.Request("http://nope", TextureOptions{})
	_, _ = l.Request(testUUIDKey, TextureOptions{})              // miss
	_, _ = l.Request(testUUIDKey, TextureOptions{})              // hit
	_, _ = l.Request(testUUIDKey, TextureOptions{Wrap: WrapRepeat}) // hit, new slot
	l.Forget(testUUIDKey)

	s := l.Stats()
	if s.Rejected != 1 {
		t.Errorf("Rejected = %d, want 1", s.Rejected)
	}
	if s.Misses != 1 {
		t.Errorf("Misses = %d, want 1", s.Misses)
	}
	if s.Hits != 2 {
		t.Errorf("Hits = %d, want 2", s.Hits)
	}
	if s.Forgets != 1 {
		t.Errorf("Forgets = %d, want 1", s.Forgets)
	}
	if s.Entries != 0 {
		t.Errorf("Entries = %d, want 0", s.Entries)
	}
}

// countingMetrics counts callback invocations for metrics wiring tests.
type countingMetrics struct {
	hits, misses, regs, forgets, rejects atomic.Uint64
}

func (m *countingMetrics) Hit()          { m.hits.Add(1) }
func (m *countingMetrics) Miss()         { m.misses.Add(1) }
func (m *countingMetrics) Registration() { m.regs.Add(1) }
func (m *countingMetrics) Forget()       { m.forgets.Add(1) }
func (m *countingMetrics) NotSupported() { m.rejects.Add(1) }

func TestMetricsCallbacks(t *testing.T) {
	m := &countingMetrics{}
	l := NewLoaderWithOptions(Options{Metrics: m})

	_, _ = l.Request("bogus://x", TextureOptions{})
	_, _ = l.Request(testUUIDKey, TextureOptions{})
	_, _ = l.Request(testUUIDKey, TextureOptions{})
	_, _ = l.Request("asset://index/9", TextureOptions{})
	l.ForgetAll()

	if got := m.rejects.Load(); got != 1 {
		t.Errorf("NotSupported calls = %d, want 1", got)
	}
	if got := m.misses.Load(); got != 2 {
		t.Errorf("Miss calls = %d, want 2", got)
	}
	if got := m.regs.Load(); got != 2 {
		t.Errorf("Registration calls = %d, want 2", got)
	}
	if got := m.hits.Load(); got != 1 {
		t.Errorf("Hit calls = %d, want 1", got)
	}
	if got := m.forgets.Load(); got != 2 {
		t.Errorf("Forget calls = %d, want 2", got)
	}
}

func TestConcurrentFirstRequestSingleRegistration(t *testing.T) {
	l := NewLoader()
	const goroutines = 32

	var start sync.WaitGroup
	var done sync.WaitGroup
	start.Add(1)
	handles := make([]Handle, goroutines)

	for g := range goroutines {
		done.Add(1)
		go func() {
			defer done.Done()
			start.Wait()
			poll, err := l.Request(testUUIDKey, TextureOptions{})
			if err != nil {
				t.Error(err)
				return
			}
			handles[g] = poll.Handle
		}()
	}
	start.Done()
	done.Wait()

	if regs := l.DrainRegistrations(); len(regs) != 1 {
		t.Errorf("concurrent first requests enqueued %d registrations, want 1", len(regs))
	}
	for _, h := range handles[1:] {
		if h != handles[0] {
			t.Fatalf("concurrent requests for one (key, options) got handles %d and %d", handles[0], h)
		}
	}
}

func TestConcurrentMixedOperations(t *testing.T) {
	l := NewLoader()
	keys := []string{
		"asset://index/1",
		"asset://index/2",
		"asset://uuid/550e8400-e29b-41d4-a716-446655440000",
		"asset://index/4294967297",
	}

	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				key := keys[(w+i)%len(keys)]
				opts, _ := VariantFromIndex(VariantIndex((w + i) % NumVariants))
				switch i % 7 {
				case 0, 1, 2, 3:
					_, _ = l.Request(key, opts)
				case 4:
					l.Resolve(key, Size{Width: 16, Height: 16})
				case 5:
					if i%35 == 5 {
						l.Forget(key)
					}
					_ = l.Variants(key)
				case 6:
					_ = l.DrainRegistrations()
				}
			}
		}()
	}
	wg.Wait()

	// State must still be coherent: every surviving variant handle unique.
	seen := make(map[Handle]struct{})
	for _, key := range keys {
		for _, v := range l.Variants(key) {
			if _, dup := seen[v.Handle]; dup {
				t.Fatalf("duplicate handle %d across variants", v.Handle)
			}
			seen[v.Handle] = struct{}{}
		}
	}
}
