package controller

import "sync"

// cache memoizes derived computations keyed by their full parameter tuple.
// Entries never expire; a full rebuild replaces the controller's caches.
type cache[K comparable, V any] struct {
	mu sync.Mutex
	m  map[K]V
}

func newCache[K comparable, V any]() *cache[K, V] {
	return &cache[K, V]{m: make(map[K]V)}
}

func (c *cache[K, V]) get(k K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[k]
	return v, ok
}

func (c *cache[K, V]) put(k K, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[k] = v
}

func (c *cache[K, V]) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m = make(map[K]V)
}

type byeWeekKey struct {
	leagueID string
	playerID string
	season   string
}

type benchmarkKey struct {
	rootLeagueID string
	pos          string
	season       string
	week         int
}
