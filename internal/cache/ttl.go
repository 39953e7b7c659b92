// Package cache provides a small generic TTL cache with periodic
// cleanup, used to back the in-memory conversation state.
package cache

import (
	"sync"
	"time"
)

type entry[T any] struct {
	data      T
	expiresAt time.Time
}

// TTL is a mutex-guarded map whose entries expire after a fixed
// duration. Expired entries are dropped lazily on Get and swept by
// CleanExpired.
type TTL[T any] struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]entry[T]
}

func NewTTL[T any](ttl time.Duration) *TTL[T] {
	return &TTL[T]{ttl: ttl, items: make(map[string]entry[T])}
}

func (c *TTL[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	e, ok := c.items[key]
	if !ok {
		return zero, false
	}
	if time.Now().After(e.expiresAt) {
		delete(c.items, key)
		return zero, false
	}
	return e.data, true
}

func (c *TTL[T]) Set(key string, data T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = entry[T]{data: data, expiresAt: time.Now().Add(c.ttl)}
}

func (c *TTL[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

func (c *TTL[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// CleanExpired removes every expired entry and reports how many were
// dropped.
func (c *TTL[T]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for k, e := range c.items {
		if now.After(e.expiresAt) {
			delete(c.items, k)
			removed++
		}
	}
	return removed
}

// Cleaner is implemented by caches that support periodic sweeping.
type Cleaner interface {
	CleanExpired() int
}

// Janitor sweeps registered caches on a fixed interval until Stop is
// called.
type Janitor struct {
	caches      []Cleaner
	stopCleanup chan struct{}
	cleanupDone chan struct{}
	once        sync.Once
}

func NewJanitor(caches ...Cleaner) *Janitor {
	return &Janitor{
		caches:      caches,
		stopCleanup: make(chan struct{}),
		cleanupDone: make(chan struct{}),
	}
}

func (j *Janitor) Start(interval time.Duration) {
	go func() {
		defer close(j.cleanupDone)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				for _, c := range j.caches {
					c.CleanExpired()
				}
			case <-j.stopCleanup:
				return
			}
		}
	}()
}

func (j *Janitor) Stop() {
	j.once.Do(func() {
		close(j.stopCleanup)
		<-j.cleanupDone
	})
}
