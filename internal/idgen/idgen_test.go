package idgen_test

import (
	"strconv"
	"sync"
	"testing"

	"github.com/xenzys-api/internal/idgen"
)

func TestClockGenerator_UniqueUnderRapidCalls(t *testing.T) {
	gen := idgen.NewClock()

	seen := make(map[string]bool)
	for i := 0; i < 10000; i++ {
		id := gen.NextID()
		if seen[id] {
			t.Fatalf("Duplicate id %q at iteration %d", id, i)
		}
		seen[id] = true
	}
}

func TestClockGenerator_Monotonic(t *testing.T) {
	gen := idgen.NewClock()

	prev := int64(0)
	for i := 0; i < 1000; i++ {
		id, err := strconv.ParseInt(gen.NextID(), 10, 64)
		if err != nil {
			t.Fatalf("Non-numeric id: %v", err)
		}
		if id <= prev {
			t.Fatalf("IDs not strictly increasing: %d after %d", id, prev)
		}
		prev = id
	}
}

func TestClockGenerator_ConcurrentUnique(t *testing.T) {
	gen := idgen.NewClock()

	const workers = 8
	const perWorker = 500

	var mu sync.Mutex
	seen := make(map[string]bool)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id := gen.NextID()
				mu.Lock()
				if seen[id] {
					t.Errorf("Duplicate id %q", id)
				}
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != workers*perWorker {
		t.Errorf("Expected %d unique ids, got %d", workers*perWorker, len(seen))
	}
}
