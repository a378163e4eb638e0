package poller

import (
	"context"
	"sync"
	"time"

	"jengamart/internal/pkg/logger"

	"github.com/panjf2000/ants/v2"
)

// Task runs once per tick. Returning true stops the poll loop.
type Task func(ctx context.Context) bool

type entry struct {
	cancel context.CancelFunc
}

// Registry runs at most one polling loop per key on a shared worker pool.
// Starting a new loop under an existing key tears the old one down first.
type Registry struct {
	pool    *ants.Pool
	mu      sync.Mutex
	entries map[string]*entry
}

func NewRegistry(size int) (*Registry, error) {
	pool, err := ants.NewPool(size, ants.WithPanicHandler(func(i interface{}) {
		logger.Error.Printf("Poller panic: %v", i)
	}))
	if err != nil {
		return nil, err
	}

	return &Registry{
		pool:    pool,
		entries: make(map[string]*entry),
	}, nil
}

func (r *Registry) Start(ctx context.Context, key string, interval time.Duration, task Task) error {
	ctx, cancel := context.WithCancel(ctx)
	e := &entry{cancel: cancel}

	r.mu.Lock()
	if prev, ok := r.entries[key]; ok {
		prev.cancel()
	}
	r.entries[key] = e
	r.mu.Unlock()

	err := r.pool.Submit(func() {
		defer r.remove(key, e)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if task(ctx) {
					return
				}
			}
		}
	})
	if err != nil {
		r.remove(key, e)
		cancel()
	}
	return err
}

// Stop cancels the loop registered under key, if any.
func (r *Registry) Stop(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[key]; ok {
		e.cancel()
		delete(r.entries, key)
	}
}

func (r *Registry) remove(key string, e *entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.entries[key]; ok && cur == e {
		delete(r.entries, key)
	}
}

func (r *Registry) Release() {
	r.mu.Lock()
	for key, e := range r.entries {
		e.cancel()
		delete(r.entries, key)
	}
	r.mu.Unlock()
	r.pool.Release()
}
