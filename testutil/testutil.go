package testutil

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// NewRedis starts a miniredis server and a client connected to it.
// Both are shut down when the test ends.
func NewRedis(t testing.TB) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

var (
	firstNames = []string{"Bob", "Tim", "Ann", "Joe", "Eve", "Max", "Zoe", "Ida"}
	cities     = []string{"Oslo", "Lima", "Kyiv", "Rome", "Bonn"}
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Person returns one record with name, age and city fields.
// Some records omit the city so that missing-field matching is exercised.
func (r *RNG) Person() map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := map[string]any{
		"name": firstNames[r.rand.Intn(len(firstNames))],
		"age":  18 + r.rand.Intn(50),
	}
	if r.rand.Intn(4) > 0 {
		p["city"] = cities[r.rand.Intn(len(cities))]
	}
	return p
}

// People returns n records generated by Person.
func (r *RNG) People(n int) []map[string]any {
	out := make([]map[string]any, n)
	for i := range out {
		out[i] = r.Person()
	}
	return out
}
