package snapshot

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/resredis/blobstore"
	"github.com/hupe1980/resredis/codec"
	"github.com/hupe1980/resredis/record"
)

type staticSource struct {
	ns   string
	recs []record.Record
	err  error
}

func (s staticSource) Namespace() string { return s.ns }

func (s staticSource) All(context.Context) ([]record.Record, error) { return s.recs, s.err }

func testRecords() []record.Record {
	return []record.Record{
		{"_id": "1", "name": "Bob", "age": "21"},
		{"_id": "2", "name": "Tim", "bio": "line one\nline two"},
	}
}

func TestExportRead(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		compression Compression
		codec       codec.Codec
		suffix      string
	}{
		{compression: CompressionZSTD, codec: codec.GoJSON{}, suffix: ".jsonl.zst"},
		{compression: CompressionLZ4, codec: codec.GoJSON{}, suffix: ".jsonl.lz4"},
		{compression: CompressionNone, codec: codec.JSON{}, suffix: ".jsonl"},
	}

	for _, tt := range tests {
		t.Run(tt.compression.String(), func(t *testing.T) {
			sink := blobstore.NewMemoryStore()
			src := staticSource{ns: "people", recs: testRecords()}

			res, err := Export(ctx, src, sink,
				WithCompression(tt.compression),
				WithCodec(tt.codec),
				WithClock(func() time.Time { return now }),
			)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(res.Name, "people/2024-03-01T12:30:00.000000000Z-"), res.Name)
			assert.True(t, strings.HasSuffix(res.Name, tt.suffix), res.Name)
			assert.Equal(t, 2, res.Header.Count)
			assert.Equal(t, tt.codec.Name(), res.Header.Codec)
			assert.Positive(t, res.Bytes)

			h, recs, err := Read(ctx, sink, res.Name)
			require.NoError(t, err)
			assert.Equal(t, res.Header, h)
			assert.Equal(t, testRecords(), recs)

			names, err := List(ctx, sink, "people")
			require.NoError(t, err)
			assert.Equal(t, []string{res.Name}, names)
		})
	}
}

func TestExport_Empty(t *testing.T) {
	ctx := context.Background()
	sink := blobstore.NewMemoryStore()

	res, err := Export(ctx, staticSource{ns: "people"}, sink)
	require.NoError(t, err)

	h, recs, err := Read(ctx, sink, res.Name)
	require.NoError(t, err)
	assert.Zero(t, h.Count)
	assert.Empty(t, recs)
}

func TestExport_SourceError(t *testing.T) {
	boom := errors.New("boom")
	sink := blobstore.NewMemoryStore()

	_, err := Export(context.Background(), staticSource{ns: "people", err: boom}, sink)
	require.ErrorIs(t, err, boom)

	names, err := sink.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestRead_Invalid(t *testing.T) {
	ctx := context.Background()
	sink := blobstore.NewMemoryStore()

	_, _, err := Read(ctx, sink, "people/missing.jsonl")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	require.NoError(t, sink.Put(ctx, "people/garbage.jsonl.zst", []byte("not zstd")))
	_, _, err = Read(ctx, sink, "people/garbage.jsonl.zst")
	assert.ErrorIs(t, err, ErrFormat)

	require.NoError(t, sink.Put(ctx, "people/other.jsonl", []byte(`{"format":"other"}`+"\n")))
	_, _, err = Read(ctx, sink, "people/other.jsonl")
	assert.ErrorIs(t, err, ErrFormat)

	require.NoError(t, sink.Put(ctx, "people/short.jsonl",
		[]byte(`{"format":"resredis.snapshot/v1","codec":"json","count":2}`+"\n"+`{"_id":"1"}`+"\n")))
	_, _, err = Read(ctx, sink, "people/short.jsonl")
	assert.ErrorIs(t, err, ErrFormat)
}

func TestParseCompression(t *testing.T) {
	for in, want := range map[string]Compression{"": CompressionZSTD, "ZSTD": CompressionZSTD, "lz4": CompressionLZ4, "none": CompressionNone} {
		got, err := ParseCompression(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseCompression("gzip")
	assert.Error(t, err)
}

func TestList_OldestFirst(t *testing.T) {
	ctx := context.Background()
	sink := blobstore.NewMemoryStore()
	base := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	// Offsets within and across one second; a truncating layout would sort
	// these by uuid instead.
	offsets := []time.Duration{0, 5 * time.Millisecond, 500 * time.Millisecond, time.Second, time.Second + time.Nanosecond}

	var want []string
	for _, off := range offsets {
		now := base.Add(off)
		res, err := Export(ctx, staticSource{ns: "people"}, sink, WithClock(func() time.Time { return now }))
		require.NoError(t, err)
		want = append(want, res.Name)
	}

	names, err := List(ctx, sink, "people")
	require.NoError(t, err)
	assert.Equal(t, want, names)
	assert.Contains(t, want[1], "12:30:00.005000000Z-")
}
