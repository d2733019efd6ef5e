package store

import (
	"context"

	"github.com/hupe1980/resredis/internal/resource"
	"github.com/redis/go-redis/v9"
)

// Redis implements Store on top of a go-redis client.
type Redis struct {
	client redis.UniversalClient
	rc     *resource.Controller
}

// NewRedis wraps client. If rc is non-nil every command is gated by it.
func NewRedis(client redis.UniversalClient, rc *resource.Controller) *Redis {
	return &Redis{client: client, rc: rc}
}

// Client returns the wrapped client.
func (r *Redis) Client() redis.UniversalClient {
	return r.client
}

func (r *Redis) gate(ctx context.Context, op, key string) (func(), error) {
	if err := r.rc.Acquire(ctx); err != nil {
		return nil, wrap(op, key, err)
	}
	return r.rc.Release, nil
}

// HGetAll implements Store.
func (r *Redis) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	release, err := r.gate(ctx, "HGETALL", key)
	if err != nil {
		return nil, err
	}
	defer release()

	fields, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, wrap("HGETALL", key, err)
	}
	return fields, nil
}

// HSet implements Store.
func (r *Redis) HSet(ctx context.Context, key string, fields map[string]string) error {
	release, err := r.gate(ctx, "HSET", key)
	if err != nil {
		return err
	}
	defer release()

	return wrap("HSET", key, r.client.HSet(ctx, key, pairs(fields)...).Err())
}

// Replace implements Store using a MULTI/EXEC transaction of DEL and HSET.
func (r *Redis) Replace(ctx context.Context, key string, fields map[string]string) error {
	release, err := r.gate(ctx, "REPLACE", key)
	if err != nil {
		return err
	}
	defer release()

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, pairs(fields)...)
		return nil
	})
	return wrap("REPLACE", key, err)
}

// Incr implements Store.
func (r *Redis) Incr(ctx context.Context, key string) (int64, error) {
	release, err := r.gate(ctx, "INCR", key)
	if err != nil {
		return 0, err
	}
	defer release()

	n, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, wrap("INCR", key, err)
	}
	return n, nil
}

// ZAddNX implements Store.
func (r *Redis) ZAddNX(ctx context.Context, key string, score float64, member string) (bool, error) {
	release, err := r.gate(ctx, "ZADD", key)
	if err != nil {
		return false, err
	}
	defer release()

	n, err := r.client.ZAddNX(ctx, key, redis.Z{Score: score, Member: member}).Result()
	if err != nil {
		return false, wrap("ZADD", key, err)
	}
	return n > 0, nil
}

// ZRange implements Store.
func (r *Redis) ZRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	release, err := r.gate(ctx, "ZRANGE", key)
	if err != nil {
		return nil, err
	}
	defer release()

	members, err := r.client.ZRange(ctx, key, start, stop).Result()
	if err != nil {
		return nil, wrap("ZRANGE", key, err)
	}
	return members, nil
}

// ZRem implements Store.
func (r *Redis) ZRem(ctx context.Context, key, member string) (bool, error) {
	release, err := r.gate(ctx, "ZREM", key)
	if err != nil {
		return false, err
	}
	defer release()

	n, err := r.client.ZRem(ctx, key, member).Result()
	if err != nil {
		return false, wrap("ZREM", key, err)
	}
	return n > 0, nil
}

// Del implements Store.
func (r *Redis) Del(ctx context.Context, key string) (bool, error) {
	release, err := r.gate(ctx, "DEL", key)
	if err != nil {
		return false, err
	}
	defer release()

	n, err := r.client.Del(ctx, key).Result()
	if err != nil {
		return false, wrap("DEL", key, err)
	}
	return n > 0, nil
}

// FlushAll implements Store.
func (r *Redis) FlushAll(ctx context.Context) error {
	release, err := r.gate(ctx, "FLUSHALL", "")
	if err != nil {
		return err
	}
	defer release()

	return wrap("FLUSHALL", "", r.client.FlushAll(ctx).Err())
}

func pairs(fields map[string]string) []any {
	args := make([]any, 0, 2*len(fields))
	for k, v := range fields {
		args = append(args, k, v)
	}
	return args
}
