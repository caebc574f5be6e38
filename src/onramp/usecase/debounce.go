package usecase

import (
	"context"
	"sync"
	"time"
)

// debouncer coalesces bursts of per-key calls so only the most recent one
// proceeds. Each call bumps the key's generation, waits out the debounce
// window and then checks whether a newer call superseded it. Superseded
// callers report false without any upstream work having happened.
type debouncer struct {
	mu       sync.Mutex
	interval time.Duration
	gens     map[string]uint64
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{
		interval: interval,
		gens:     make(map[string]uint64),
	}
}

// wait blocks for the debounce window and reports whether this call is
// still the latest one registered for the key.
func (d *debouncer) wait(ctx context.Context, key string) bool {
	d.mu.Lock()
	d.gens[key]++
	gen := d.gens[key]
	d.mu.Unlock()

	t := time.NewTimer(d.interval)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gens[key] == gen
}
