// Package store is the narrow Redis command surface used by the engine.
//
// The engine needs exactly these primitives: hash get-all and multi-set,
// atomic increment, sorted-set add, range and remove, key delete, and
// flush-all for test teardown. Keeping them behind Store lets the engine be
// exercised against any implementation of that surface.
package store

import (
	"context"
	"fmt"
)

// Store is the command surface consumed by the engine.
// Implementations must be safe for concurrent use.
type Store interface {
	// HGetAll returns all fields of a hash. A missing key yields an empty map.
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	// HSet writes fields into a hash, leaving other fields untouched.
	HSet(ctx context.Context, key string, fields map[string]string) error
	// Replace atomically deletes key and writes fields as its new content.
	Replace(ctx context.Context, key string, fields map[string]string) error
	// Incr atomically increments an integer key and returns the new value.
	Incr(ctx context.Context, key string) (int64, error)
	// ZAddNX adds member with score unless it is already present.
	// It reports whether the member was added.
	ZAddNX(ctx context.Context, key string, score float64, member string) (bool, error)
	// ZRange returns members ordered by score between start and stop (inclusive,
	// negative indexes count from the end).
	ZRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	// ZRem removes member and reports whether it was present.
	ZRem(ctx context.Context, key, member string) (bool, error)
	// Del deletes key and reports whether it existed.
	Del(ctx context.Context, key string) (bool, error)
	// FlushAll removes every key of the server.
	FlushAll(ctx context.Context) error
}

// Error describes a failed store command.
//
// The underlying transport error can be accessed via errors.Unwrap.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("store %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrap(op, key string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Key: key, Err: err}
}
