package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/hupe1980/resredis/store"
)

// ErrInjected is the default error of a Fault.
var ErrInjected = errors.New("injected fault error")

// Fault defines the failure behavior of one command.
type Fault struct {
	After int   // Succeed this many calls before failing. 0 fails at once.
	Err   error // Defaults to ErrInjected.
}

// FaultyStore is a store.Store wrapper that can inject errors per command.
// Injected errors are *store.Error values, as the Redis store returns them.
type FaultyStore struct {
	store.Store

	mu    sync.Mutex
	rules map[string]Fault // command name -> fault
	calls map[string]int

	// OnCall, if set, runs after every successful delegated command.
	OnCall func(op string)
}

// NewFaultyStore wraps s.
func NewFaultyStore(s store.Store) *FaultyStore {
	return &FaultyStore{
		Store: s,
		rules: make(map[string]Fault),
		calls: make(map[string]int),
	}
}

// AddRule makes op fail according to fault. op is the upper-case command name
// (HGETALL, HSET, REPLACE, INCR, ZADD, ZRANGE, ZREM, DEL, FLUSHALL).
func (f *FaultyStore) AddRule(op string, fault Fault) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules[op] = fault
}

// Clear removes all rules.
func (f *FaultyStore) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	clear(f.rules)
}

// Calls returns how often op was attempted.
func (f *FaultyStore) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *FaultyStore) check(op, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := f.calls[op]
	f.calls[op]++

	fault, ok := f.rules[op]
	if !ok || n < fault.After {
		return nil
	}
	err := fault.Err
	if err == nil {
		err = ErrInjected
	}
	return &store.Error{Op: op, Key: key, Err: err}
}

func (f *FaultyStore) done(op string) {
	if f.OnCall != nil {
		f.OnCall(op)
	}
}

func (f *FaultyStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if err := f.check("HGETALL", key); err != nil {
		return nil, err
	}
	defer f.done("HGETALL")
	return f.Store.HGetAll(ctx, key)
}

func (f *FaultyStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if err := f.check("HSET", key); err != nil {
		return err
	}
	defer f.done("HSET")
	return f.Store.HSet(ctx, key, fields)
}

func (f *FaultyStore) Replace(ctx context.Context, key string, fields map[string]string) error {
	if err := f.check("REPLACE", key); err != nil {
		return err
	}
	defer f.done("REPLACE")
	return f.Store.Replace(ctx, key, fields)
}

func (f *FaultyStore) Incr(ctx context.Context, key string) (int64, error) {
	if err := f.check("INCR", key); err != nil {
		return 0, err
	}
	defer f.done("INCR")
	return f.Store.Incr(ctx, key)
}

func (f *FaultyStore) ZAddNX(ctx context.Context, key string, score float64, member string) (bool, error) {
	if err := f.check("ZADD", key); err != nil {
		return false, err
	}
	defer f.done("ZADD")
	return f.Store.ZAddNX(ctx, key, score, member)
}

func (f *FaultyStore) ZRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	if err := f.check("ZRANGE", key); err != nil {
		return nil, err
	}
	defer f.done("ZRANGE")
	return f.Store.ZRange(ctx, key, start, stop)
}

func (f *FaultyStore) ZRem(ctx context.Context, key, member string) (bool, error) {
	if err := f.check("ZREM", key); err != nil {
		return false, err
	}
	defer f.done("ZREM")
	return f.Store.ZRem(ctx, key, member)
}

func (f *FaultyStore) Del(ctx context.Context, key string) (bool, error) {
	if err := f.check("DEL", key); err != nil {
		return false, err
	}
	defer f.done("DEL")
	return f.Store.Del(ctx, key)
}

func (f *FaultyStore) FlushAll(ctx context.Context) error {
	if err := f.check("FLUSHALL", ""); err != nil {
		return err
	}
	defer f.done("FLUSHALL")
	return f.Store.FlushAll(ctx)
}
