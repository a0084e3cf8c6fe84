/*
	kvcache package implements a small expiring key-value store with an
	explicit eviction sweep. It backs ephemeral state such as the
	suggestion candidate windows; entries always carry a TTL so the store
	can never grow without bound.
*/

package kvcache

import (
	"context"
	"sync"
	"time"

	"github.com/juju/clock"
)

// Cache is an in-memory key-value store whose entries expire after their
// TTL. Expired entries are dropped lazily on read and eagerly by Sweep.
// Safe for concurrent use.
type Cache struct {
	clock clock.Clock

	mu      sync.Mutex
	entries map[string]entry
}

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// New returns an empty cache driven by the provided clock. A nil clock
// selects the wall clock.
func New(clk clock.Clock) *Cache {
	if clk == nil {
		clk = clock.WallClock
	}

	return &Cache{
		clock:   clk,
		entries: make(map[string]entry),
	}
}

// Set stores value under key for the provided TTL. A non-positive TTL
// removes the key.
func (c *Cache) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ttl <= 0 {
		delete(c.entries, key)

		return
	}

	c.entries[key] = entry{
		value:     value,
		expiresAt: c.clock.Now().Add(ttl),
	}
}

// Get returns the live value stored under key. Expired entries are removed
// on access and reported as absent.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, exists := c.entries[key]
	if !exists {
		return nil, false
	}

	if !c.clock.Now().Before(e.expiresAt) {
		delete(c.entries, key)

		return nil, false
	}

	return e.value, true
}

// Len returns the number of entries currently held, including any expired
// entries that have not been swept yet.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Sweep runs the eviction loop, dropping expired entries every interval
// until the context gets cancelled.
func (c *Cache) Sweep(ctx context.Context, interval time.Duration) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.clock.After(interval):
			c.evictExpired()
		}
	}
}

func (c *Cache) evictExpired() {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}
