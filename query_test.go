package resredis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/resredis/record"
	"github.com/hupe1980/resredis/testutil"
)

func seedPeople(t *testing.T, e *Engine) {
	t.Helper()
	ctx := context.Background()
	for _, p := range []map[string]any{
		{"name": "Bob", "age": 21, "admin": true},
		{"name": "Tim", "age": 22, "admin": false},
		{"name": "Ann", "age": 21},
		{"name": "Joe", "age": 40.5},
	} {
		_, err := e.Save(ctx, "", p)
		require.NoError(t, err)
	}
}

func names(recs []record.Record) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r["name"])
	}
	return out
}

func TestFind(t *testing.T) {
	e, _ := newTestEngine(t)
	seedPeople(t, e)
	ctx := context.Background()

	tests := []struct {
		name       string
		conditions map[string]any
		want       []string
	}{
		{name: "int", conditions: map[string]any{"age": 21}, want: []string{"Bob", "Ann"}},
		{name: "string", conditions: map[string]any{"age": "21"}, want: []string{"Bob", "Ann"}},
		{name: "float", conditions: map[string]any{"age": 40.5}, want: []string{"Joe"}},
		{name: "bool", conditions: map[string]any{"admin": false}, want: []string{"Tim"}},
		{name: "conjunction", conditions: map[string]any{"age": 21, "admin": true}, want: []string{"Bob"}},
		{name: "missing field never matches", conditions: map[string]any{"city": ""}, want: []string{}},
		{name: "nil condition ignored", conditions: map[string]any{"name": "Tim", "age": nil}, want: []string{"Tim"}},
		{name: "empty matches all", conditions: nil, want: []string{"Bob", "Tim", "Ann", "Joe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Find(ctx, tt.conditions)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestFilter_IndexOrder(t *testing.T) {
	e, _ := newTestEngine(t, WithScanConcurrency(3))
	ctx := context.Background()

	want := make([]string, 0, 40)
	for i := range 40 {
		rec, err := e.Save(ctx, "", map[string]any{"name": i})
		require.NoError(t, err)
		want = append(want, rec["name"])
	}

	all, err := e.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, names(all))
}

func TestFilter_Empty(t *testing.T) {
	e, _ := newTestEngine(t)

	all, err := e.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestFilter_SkipsDanglingIndexEntries(t *testing.T) {
	e, mr := newTestEngine(t)
	seedPeople(t, e)

	// A record hash removed behind the engine's back.
	mr.Del("resourceful:people:id:2")

	all, err := e.All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Bob", "Ann", "Joe"}, names(all))
}

func TestFilter_DoesNotReadCache(t *testing.T) {
	e, mr := newTestEngine(t, WithCacheReads(true))
	seedPeople(t, e)

	mr.HSet("resourceful:people:id:1", "name", "Robert")

	got, err := e.Find(context.Background(), map[string]any{"name": "Robert"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID())
}

func TestFilter_StoreErrors(t *testing.T) {
	ctx := context.Background()

	for _, op := range []string{"ZRANGE", "HGETALL"} {
		t.Run(op, func(t *testing.T) {
			fs, _ := newFaultStore(t)
			e, err := NewWithStore(fs, "people")
			require.NoError(t, err)
			seedPeople(t, e)

			failOn(fs, op)
			got, err := e.All(ctx)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.True(t, errors.Is(err, ErrStore))
		})
	}
}

func TestFind_CompositeConditionValue(t *testing.T) {
	e, _ := newTestEngine(t)

	got, err := e.Find(context.Background(), map[string]any{"tags": []string{"a"}})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFind_MatchesLinearScan(t *testing.T) {
	e, _ := newTestEngine(t, WithScanConcurrency(4))
	ctx := context.Background()
	rng := testutil.NewRNG(42)

	var saved []record.Record
	for _, p := range rng.People(200) {
		rec, err := e.Save(ctx, "", p)
		require.NoError(t, err)
		saved = append(saved, rec)
	}

	for _, cond := range []map[string]any{
		{"city": "Oslo"},
		{"name": "Bob", "city": "Rome"},
		{"age": 30},
	} {
		want := record.Record{}
		for k, v := range cond {
			want[k] = record.Stringify(v)
		}

		var expected []string
		for _, r := range saved {
			if r.Matches(want) {
				expected = append(expected, r.ID())
			}
		}

		got, err := e.Find(ctx, cond)
		require.NoError(t, err)
		ids := make([]string, 0, len(got))
		for _, r := range got {
			ids = append(ids, r.ID())
		}
		assert.ElementsMatch(t, expected, ids, "%v", cond)
		if len(expected) > 0 {
			assert.Equal(t, expected, ids)
		}
	}
}

func TestFilter_PredicateRunsSequentially(t *testing.T) {
	e, _ := newTestEngine(t, WithScanConcurrency(16))
	ctx := context.Background()

	var want []string
	for i := range 200 {
		rec, err := e.Save(ctx, "", map[string]any{"n": i})
		require.NoError(t, err)
		want = append(want, rec.ID())
	}

	// Unsynchronized state: only safe if pred is never called concurrently.
	var visited []string
	got, err := e.Filter(ctx, func(r record.Record) bool {
		visited = append(visited, r.ID())
		return len(visited)%2 == 0
	})
	require.NoError(t, err)

	assert.Equal(t, want, visited)
	require.Len(t, got, 100)
	assert.Equal(t, want[1], got[0].ID())
}
