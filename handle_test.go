package texcache

import (
	"sync"
	"testing"
)

func TestNextHandleMonotonic(t *testing.T) {
	a := nextHandle()
	b := nextHandle()
	if b <= a {
		t.Errorf("handles not monotonic: %d then %d", a, b)
	}
}

func TestNextHandleConcurrentUnique(t *testing.T) {
	const goroutines = 16
	const perGoroutine = 1000

	var wg sync.WaitGroup
	results := make([][]Handle, goroutines)
	for g := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out := make([]Handle, 0, perGoroutine)
			for range perGoroutine {
				out = append(out, nextHandle())
			}
			results[g] = out
		}()
	}
	wg.Wait()

	seen := make(map[Handle]struct{}, goroutines*perGoroutine)
	for _, out := range results {
		for _, h := range out {
			if _, dup := seen[h]; dup {
				t.Fatalf("duplicate handle %d", h)
			}
			seen[h] = struct{}{}
		}
	}
}
