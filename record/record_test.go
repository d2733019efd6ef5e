package record

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type color int

func (c color) String() string { return [...]string{"red", "green"}[c] }

func TestStringify(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		in   any
		want string
	}{
		{"Bob", "Bob"},
		{[]byte("raw"), "raw"},
		{true, "true"},
		{false, "false"},
		{21, "21"},
		{int64(-7), "-7"},
		{uint8(255), "255"},
		{21.0, "21"},
		{3.25, "3.25"},
		{float32(0.5), "0.5"},
		{ts, "2024-05-01T12:00:00Z"},
		{color(1), "green"},
		{[]int{1, 2}, "[1 2]"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Stringify(tt.in), "%#v", tt.in)
	}
}

func TestEncode(t *testing.T) {
	r, err := Encode(map[string]any{"name": "Bob", "age": 21, "fiction": true, "gone": nil})
	require.NoError(t, err)
	assert.Equal(t, Record{"name": "Bob", "age": "21", "fiction": "true"}, r)

	src := Record{"a": "1"}
	r, err = Encode(src)
	require.NoError(t, err)
	r["a"] = "2"
	assert.Equal(t, "1", src["a"], "Encode must copy")

	r, err = Encode(map[string]string{"k": "v"})
	require.NoError(t, err)
	assert.Equal(t, Record{"k": "v"}, r)

	r, err = Encode(nil)
	require.NoError(t, err)
	assert.Empty(t, r)

	_, err = Encode(42)
	assert.ErrorIs(t, err, ErrUnsupportedValue)
}

func TestMerge(t *testing.T) {
	old := Record{IDField: "1", "name": "Bob", "age": "99"}
	merged := Merge(old, Record{"name": "Steve"})

	assert.Equal(t, Record{IDField: "1", "name": "Steve", "age": "99"}, merged)
	assert.Equal(t, "Bob", old["name"], "Merge must not mutate its inputs")
}

func TestMatches(t *testing.T) {
	r := Record{"name": "Bob", "age": "21"}

	assert.True(t, r.Matches(Record{"age": "21"}))
	assert.True(t, r.Matches(Record{}))
	assert.False(t, r.Matches(Record{"age": "22"}))
	assert.False(t, r.Matches(Record{"hair": ""}), "missing field never matches")
}

func TestCloneAndID(t *testing.T) {
	var nilRec Record
	assert.Nil(t, nilRec.Clone())

	r := Record{IDField: "bob"}
	c := r.Clone()
	c[IDField] = "tim"
	assert.Equal(t, "bob", r.ID())
	assert.Equal(t, "tim", c.ID())
}
