// Package chunkcache holds generated chunks in a bounded store.
//
// Eviction is first-in first-out over insertion order, where a cache hit
// moves the key to the back again. This approximates LRU but is not LRU:
// only GetOrGenerate hits refresh; Get and Contains do not.
package chunkcache

import (
	"container/list"
	"fmt"

	"github.com/lawnchairsociety/overworld/internal/terrain"
)

// Generator produces the value for a missing coordinate
type Generator[V any] func(coord terrain.Coord) (V, error)

// Stats counts cache activity since creation or the last Clear
type Stats struct {
	Hits      int `json:"hits"`
	Misses    int `json:"misses"`
	Evictions int `json:"evictions"`
	Entries   int `json:"entries"`
	Capacity  int `json:"capacity"`
}

type entry[V any] struct {
	coord terrain.Coord
	value V
}

// Cache maps chunk coordinates to generated values. It is not safe for
// concurrent use; callers must serialize access.
type Cache[V any] struct {
	maxEntries int
	order      *list.List // front is evicted first
	entries    map[terrain.Coord]*list.Element
	stats      Stats
}

// New creates a cache holding at most maxEntries values.
// Values below 1 are treated as 1.
func New[V any](maxEntries int) *Cache[V] {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &Cache[V]{
		maxEntries: maxEntries,
		order:      list.New(),
		entries:    make(map[terrain.Coord]*list.Element),
	}
}

// GetOrGenerate returns the cached value for coord, refreshing its position
// in the eviction order. On a miss it calls generate, stores the result and
// evicts the oldest entries beyond capacity. Generator errors are returned
// and nothing is stored.
func (c *Cache[V]) GetOrGenerate(coord terrain.Coord, generate Generator[V]) (V, error) {
	if el, ok := c.entries[coord]; ok {
		c.stats.Hits++
		c.order.MoveToBack(el)
		return el.Value.(*entry[V]).value, nil
	}

	c.stats.Misses++
	value, err := generate(coord)
	if err != nil {
		var zero V
		return zero, err
	}

	c.entries[coord] = c.order.PushBack(&entry[V]{coord: coord, value: value})
	c.evict()
	return value, nil
}

// evict drops entries from the front until the cache is within capacity
func (c *Cache[V]) evict() {
	for len(c.entries) > c.maxEntries {
		front := c.order.Front()
		if front == nil {
			panic(fmt.Sprintf("chunkcache: eviction order empty with %d entries stored", len(c.entries)))
		}
		e := c.order.Remove(front).(*entry[V])
		delete(c.entries, e.coord)
		c.stats.Evictions++
	}
}

// Get returns the cached value without generating or refreshing
func (c *Cache[V]) Get(coord terrain.Coord) (V, bool) {
	if el, ok := c.entries[coord]; ok {
		return el.Value.(*entry[V]).value, true
	}
	var zero V
	return zero, false
}

// Contains reports whether coord is cached
func (c *Cache[V]) Contains(coord terrain.Coord) bool {
	_, ok := c.entries[coord]
	return ok
}

// Invalidate removes coord from the cache. Returns true if it was present.
func (c *Cache[V]) Invalidate(coord terrain.Coord) bool {
	el, ok := c.entries[coord]
	if !ok {
		return false
	}
	c.order.Remove(el)
	delete(c.entries, coord)
	return true
}

// Clear removes every entry and resets the statistics
func (c *Cache[V]) Clear() {
	c.order.Init()
	c.entries = make(map[terrain.Coord]*list.Element)
	c.stats = Stats{}
}

// Len returns the number of cached entries
func (c *Cache[V]) Len() int {
	return len(c.entries)
}

// Capacity returns the maximum number of entries
func (c *Cache[V]) Capacity() int {
	return c.maxEntries
}

// Keys returns the cached coordinates in eviction order, oldest first
func (c *Cache[V]) Keys() []terrain.Coord {
	keys := make([]terrain.Coord, 0, c.order.Len())
	for el := c.order.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*entry[V]).coord)
	}
	return keys
}

// Stats returns a snapshot of the cache counters
func (c *Cache[V]) Stats() Stats {
	s := c.stats
	s.Entries = len(c.entries)
	s.Capacity = c.maxEntries
	return s
}
