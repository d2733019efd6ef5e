package cache

import (
	"container/list"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/resredis/record"
)

// DefaultCapacity is the entry capacity used when none is given.
const DefaultCapacity = 1024

// LRU implements a simple LRU Cache bounded by entry count.
type LRU struct {
	mu        sync.Mutex
	capacity  int
	items     map[string]*list.Element
	evictList *list.List

	hits   atomic.Int64
	misses atomic.Int64
}

type entry struct {
	id  string
	rec record.Record
}

// NewLRU creates a new LRU holding at most capacity records.
// A capacity <= 0 uses DefaultCapacity.
func NewLRU(capacity int) *LRU {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &LRU{
		capacity:  capacity,
		items:     make(map[string]*list.Element),
		evictList: list.New(),
	}
}

// Get returns a copy of the cached record.
func (c *LRU) Get(id string) (record.Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[id]; ok {
		c.hits.Add(1)
		c.evictList.MoveToFront(ent)
		return ent.Value.(*entry).rec.Clone(), true
	}
	c.misses.Add(1)
	return nil, false
}

// Put caches a copy of rec.
func (c *LRU) Put(id string, rec record.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[id]; ok {
		c.evictList.MoveToFront(ent)
		ent.Value.(*entry).rec = rec.Clone()
		return
	}

	for c.evictList.Len() >= c.capacity {
		ent := c.evictList.Back()
		if ent == nil {
			break
		}
		c.removeElement(ent)
	}

	element := c.evictList.PushFront(&entry{id: id, rec: rec.Clone()})
	c.items[id] = element
}

// Delete removes id from the cache.
func (c *LRU) Delete(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[id]; ok {
		c.removeElement(ent)
	}
}

// Invalidate removes entries whose id matches the predicate.
func (c *LRU) Invalidate(predicate func(id string) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var toRemove []*list.Element
	for id, element := range c.items {
		if predicate(id) {
			toRemove = append(toRemove, element)
		}
	}

	for _, e := range toRemove {
		c.removeElement(e)
	}
}

// Len returns the number of cached records.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictList.Len()
}

// Stats returns hit and miss counts.
func (c *LRU) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *LRU) removeElement(e *list.Element) {
	c.evictList.Remove(e)
	delete(c.items, e.Value.(*entry).id)
}
