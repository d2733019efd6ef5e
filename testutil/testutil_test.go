package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/resredis/store"
)

func TestRNG_Deterministic(t *testing.T) {
	a := NewRNG(7).People(20)
	b := NewRNG(7).People(20)
	assert.Equal(t, a, b)
	assert.Equal(t, int64(7), NewRNG(7).Seed())

	for _, p := range a {
		assert.Contains(t, p, "name")
		assert.GreaterOrEqual(t, p["age"].(int), 18)
	}
}

func TestFaultyStore(t *testing.T) {
	client, _ := NewRedis(t)
	fs := NewFaultyStore(store.NewRedis(client, nil))
	ctx := context.Background()

	var seen []string
	fs.OnCall = func(op string) { seen = append(seen, op) }

	fs.AddRule("INCR", Fault{After: 2})
	for i := 1; i <= 2; i++ {
		n, err := fs.Incr(ctx, "c")
		require.NoError(t, err)
		assert.Equal(t, int64(i), n)
	}
	_, err := fs.Incr(ctx, "c")
	var se *store.Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "INCR", se.Op)
	assert.ErrorIs(t, err, ErrInjected)
	assert.Equal(t, 3, fs.Calls("INCR"))
	assert.Equal(t, []string{"INCR", "INCR"}, seen)

	boom := errors.New("boom")
	fs.AddRule("DEL", Fault{Err: boom})
	_, err = fs.Del(ctx, "c")
	assert.ErrorIs(t, err, boom)

	fs.Clear()
	existed, err := fs.Del(ctx, "c")
	require.NoError(t, err)
	assert.True(t, existed)
}
