package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "go-json"} {
		c, ok := ByName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, c.Name())
	}

	_, ok := ByName("msgpack")
	assert.False(t, ok)
}

func TestCodecsAgreeOnRecords(t *testing.T) {
	rec := map[string]string{"_id": "1", "name": "Bob", "age": "21"}

	for _, c := range []Codec{JSON{}, GoJSON{}} {
		t.Run(c.Name(), func(t *testing.T) {
			b, err := c.Marshal(rec)
			require.NoError(t, err)
			assert.JSONEq(t, `{"_id":"1","name":"Bob","age":"21"}`, string(b))

			var out map[string]string
			require.NoError(t, c.Unmarshal(b, &out))
			assert.Equal(t, rec, out)
		})
	}
}

func TestAppendLine(t *testing.T) {
	rec := map[string]string{"b": "two\nlines", "a": "1"}

	for _, c := range []Codec{JSON{}, GoJSON{}} {
		t.Run(c.Name(), func(t *testing.T) {
			out, err := AppendLine(c, []byte("x\n"), rec)
			require.NoError(t, err)
			assert.Equal(t, "x\n"+`{"a":"1","b":"two\nlines"}`+"\n", string(out))
		})
	}

	_, err := AppendLine(GoJSON{}, nil, func() {})
	assert.Error(t, err)
}

func TestMustMarshal(t *testing.T) {
	assert.Equal(t, `"v"`, string(MustMarshal(nil, "v")))
	assert.Panics(t, func() { MustMarshal(JSON{}, func() {}) })
}
