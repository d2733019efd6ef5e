// Package cache provides the engine's in-process read cache.
//
// The cache maps record ids to the last value written through the engine. It
// is advisory: entries are populated on Save and Update, dropped on a local
// Destroy or on eviction, and never invalidated by writes made by other
// processes. Readers must treat a hit as possibly stale.
//
// # Implementations
//
//   - LRU: a single mutex-guarded LRU bounded by entry count
//   - Sharded: 64 LRU shards selected by hashing the id, for parallel callers
//   - Nop: caches nothing
package cache

import "github.com/hupe1980/resredis/record"

// Cache is an id to record memo. Implementations must be safe for concurrent
// use and must copy records on the way in and out.
type Cache interface {
	// Get returns the cached record. ok=false if missing.
	Get(id string) (rec record.Record, ok bool)
	// Put caches rec under id, replacing any previous entry.
	Put(id string, rec record.Record)
	// Delete removes the entry for id, if any.
	Delete(id string)
	// Invalidate removes every entry whose id matches predicate.
	Invalidate(predicate func(id string) bool)
	// Len returns the number of cached entries.
	Len() int
	// Stats returns hit and miss counts of Get.
	Stats() (hits, misses int64)
}

// Nop is a Cache that stores nothing.
type Nop struct{}

func (Nop) Get(string) (record.Record, bool) { return nil, false }
func (Nop) Put(string, record.Record)        {}
func (Nop) Delete(string)                    {}
func (Nop) Invalidate(func(string) bool)     {}
func (Nop) Len() int                         { return 0 }
func (Nop) Stats() (hits, misses int64)      { return 0, 0 }
