package cache

import (
	"hash/maphash"

	"github.com/hupe1980/resredis/record"
)

const numShards = 64

// Sharded is a sharded LRU cache for high-concurrency workloads.
// It distributes entries across 64 shards to reduce lock contention.
type Sharded struct {
	shards [numShards]*LRU
	seed   maphash.Seed
}

// NewSharded creates a new sharded cache.
// The capacity is divided evenly across all shards.
func NewSharded(capacity int) *Sharded {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	shardCapacity := capacity / numShards
	if shardCapacity < 1 {
		shardCapacity = 1
	}

	s := &Sharded{seed: maphash.MakeSeed()}
	for i := range numShards {
		s.shards[i] = NewLRU(shardCapacity)
	}
	return s
}

func (s *Sharded) shard(id string) *LRU {
	return s.shards[maphash.String(s.seed, id)%numShards]
}

// Get returns a cached record.
func (s *Sharded) Get(id string) (record.Record, bool) {
	return s.shard(id).Get(id)
}

// Put caches a record.
func (s *Sharded) Put(id string, rec record.Record) {
	s.shard(id).Put(id, rec)
}

// Delete removes id from its shard.
func (s *Sharded) Delete(id string) {
	s.shard(id).Delete(id)
}

// Invalidate removes entries matching the predicate from every shard.
func (s *Sharded) Invalidate(predicate func(id string) bool) {
	for i := range numShards {
		s.shards[i].Invalidate(predicate)
	}
}

// Len returns the total number of entries across all shards.
func (s *Sharded) Len() int {
	total := 0
	for i := range numShards {
		total += s.shards[i].Len()
	}
	return total
}

// Stats returns aggregated hit/miss statistics.
func (s *Sharded) Stats() (hits, misses int64) {
	for i := range numShards {
		h, m := s.shards[i].Stats()
		hits += h
		misses += m
	}
	return hits, misses
}
