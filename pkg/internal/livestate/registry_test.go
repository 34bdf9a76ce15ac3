package livestate

import (
	"fmt"
	"sync"
	"testing"

	"github.com/livepoll-dev/server/pkg/internal/models"
)

func TestRegistryLifecycle(t *testing.T) {
	registry := NewRegistry()

	if _, ok := registry.Get("ABCD", 1); ok {
		t.Fatal("expected empty registry")
	}

	registry.Ensure("ABCD")
	if _, ok := registry.Get("ABCD", 1); ok {
		t.Fatal("ensure should not create poll entries")
	}

	poll := LivePoll{
		Question: "Pick one",
		Options:  []string{"X", "Y"},
		Metric:   models.PollMetric{ByOption: map[int]int64{0: 0, 1: 0}},
		IsActive: true,
	}
	registry.Hydrate("ABCD", 1, poll)

	got, ok := registry.Get("ABCD", 1)
	if !ok {
		t.Fatal("hydrated poll not found")
	}
	if got.Question != "Pick one" || !got.IsActive {
		t.Errorf("unexpected live poll: %+v", got)
	}

	// Overwrite reflects the latest known-good state.
	poll.IsActive = false
	registry.Hydrate("ABCD", 1, poll)
	if got, _ := registry.Get("ABCD", 1); got.IsActive {
		t.Error("hydrate should overwrite the previous projection")
	}

	if code, ok := registry.SessionFor(1); !ok || code != "ABCD" {
		t.Errorf("SessionFor = %q, %v; want ABCD, true", code, ok)
	}

	registry.Remove("ABCD")
	if _, ok := registry.Get("ABCD", 1); ok {
		t.Error("remove should drop the session projection")
	}

	// Safe on codes with no entry.
	registry.Remove("NOPE")
}

func TestRegistryHydrateWithoutEnsure(t *testing.T) {
	registry := NewRegistry()
	registry.Hydrate("WXYZ", 7, LivePoll{Question: "q", IsActive: true})

	if _, ok := registry.Get("WXYZ", 7); !ok {
		t.Fatal("hydrate should create the session entry on demand")
	}
}

func TestRegistryConcurrentHydrate(t *testing.T) {
	registry := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			code := fmt.Sprintf("S%d", n%5)
			registry.Hydrate(code, uint(n), LivePoll{Question: "q", IsActive: true})
			registry.Get(code, uint(n))
		}(i)
	}
	wg.Wait()

	for i := 0; i < 50; i++ {
		code := fmt.Sprintf("S%d", i%5)
		if _, ok := registry.Get(code, uint(i)); !ok {
			t.Errorf("poll %d missing after concurrent hydrate", i)
		}
	}
}
