package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/hupe1980/resredis/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRU(t *testing.T) {
	c := NewLRU(2)

	c.Put("1", record.Record{"name": "Bob"})
	c.Put("2", record.Record{"name": "Steve"})
	assert.Equal(t, 2, c.Len())

	// Touch 1 so 2 becomes least recently used.
	_, ok := c.Get("1")
	require.True(t, ok)

	c.Put("3", record.Record{"name": "Joe"})
	assert.Equal(t, 2, c.Len())

	_, ok = c.Get("2")
	assert.False(t, ok, "2 should be evicted")

	rec, ok := c.Get("3")
	assert.True(t, ok)
	assert.Equal(t, "Joe", rec["name"])

	hits, misses := c.Stats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(1), misses)
}

func TestLRU_Overwrite(t *testing.T) {
	c := NewLRU(2)

	c.Put("1", record.Record{"age": "21"})
	c.Put("1", record.Record{"age": "22"})
	assert.Equal(t, 1, c.Len())

	rec, ok := c.Get("1")
	require.True(t, ok)
	assert.Equal(t, "22", rec["age"])
}

func TestLRU_CopiesValues(t *testing.T) {
	c := NewLRU(4)

	src := record.Record{"name": "Bob"}
	c.Put("1", src)
	src["name"] = "mutated"

	got, ok := c.Get("1")
	require.True(t, ok)
	assert.Equal(t, "Bob", got["name"])

	got["name"] = "mutated again"
	again, _ := c.Get("1")
	assert.Equal(t, "Bob", again["name"])
}

func TestLRU_DeleteAndInvalidate(t *testing.T) {
	c := NewLRU(0)

	for i := 0; i < 10; i++ {
		c.Put(fmt.Sprint(i), record.Record{"n": fmt.Sprint(i)})
	}

	c.Delete("0")
	c.Delete("missing")
	assert.Equal(t, 9, c.Len())

	c.Invalidate(func(id string) bool { return id < "5" })
	assert.Equal(t, 5, c.Len())

	_, ok := c.Get("4")
	assert.False(t, ok)
	_, ok = c.Get("5")
	assert.True(t, ok)
}

func TestSharded(t *testing.T) {
	c := NewSharded(numShards * 4)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 16; i++ {
				id := fmt.Sprintf("%d-%d", g, i)
				c.Put(id, record.Record{record.IDField: id})
				_, _ = c.Get(id)
			}
		}(g)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), numShards*4)
	assert.Positive(t, c.Len())

	c.Put("x", record.Record{"v": "1"})
	rec, ok := c.Get("x")
	require.True(t, ok)
	assert.Equal(t, "1", rec["v"])

	c.Delete("x")
	_, ok = c.Get("x")
	assert.False(t, ok)

	c.Invalidate(func(string) bool { return true })
	assert.Equal(t, 0, c.Len())

	hits, misses := c.Stats()
	assert.Positive(t, hits)
	assert.Positive(t, misses)
}

func TestNop(t *testing.T) {
	var c Cache = Nop{}

	c.Put("1", record.Record{"a": "b"})
	_, ok := c.Get("1")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

var (
	_ Cache = (*LRU)(nil)
	_ Cache = (*Sharded)(nil)
	_ Cache = Nop{}
)
