// Package snapshot exports the records of a namespace to a blob store.
//
// A snapshot is one object holding JSON lines: a header line followed by one
// line per record in index order. The stream is compressed with zstd or lz4.
// Objects are named
//
//	<namespace>/<UTC time>-<uuid>.jsonl[.zst|.lz4]
//
// where the time is RFC3339 with a fixed nine-digit fraction (see TimeLayout),
// so names sort chronologically.
// Snapshots are read-only artifacts: nothing here writes back to Redis.
package snapshot

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/resredis/blobstore"
	"github.com/hupe1980/resredis/codec"
	"github.com/hupe1980/resredis/record"
)

// Format identifies the snapshot layout in the header line.
const Format = "resredis.snapshot/v1"

// TimeLayout formats the creation time in object names. The fraction never
// drops trailing zeros, which keeps lexical and chronological order equal.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrFormat is returned when an object is not a readable snapshot.
var ErrFormat = errors.New("snapshot: invalid format")

// Source is the record producer of an export; *resredis.Engine satisfies it.
type Source interface {
	Namespace() string
	All(ctx context.Context) ([]record.Record, error)
}

// Header is the first line of every snapshot.
type Header struct {
	Format    string    `json:"format"`
	Namespace string    `json:"namespace"`
	Codec     string    `json:"codec"`
	CreatedAt time.Time `json:"created_at"`
	Count     int       `json:"count"`
}

// Options configures Export.
type Options struct {
	Compression Compression
	Codec       codec.Codec
	// Now defaults to time.Now.
	Now func() time.Time
}

// Option mutates Options.
type Option func(*Options)

// WithCompression selects the stream compression.
func WithCompression(c Compression) Option {
	return func(o *Options) { o.Compression = c }
}

// WithCodec selects the record codec. The header line is always JSON.
func WithCodec(c codec.Codec) Option {
	return func(o *Options) {
		if c != nil {
			o.Codec = c
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(o *Options) {
		if now != nil {
			o.Now = now
		}
	}
}

// Result describes a written snapshot.
type Result struct {
	Name   string
	Header Header
	Bytes  int
}

// Export reads every record of src and stores them as one snapshot in sink.
func Export(ctx context.Context, src Source, sink blobstore.Store, optFns ...Option) (Result, error) {
	o := Options{Compression: CompressionZSTD, Codec: codec.Default, Now: time.Now}
	for _, fn := range optFns {
		fn(&o)
	}

	recs, err := src.All(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("snapshot %s: read records: %w", src.Namespace(), err)
	}

	h := Header{
		Format:    Format,
		Namespace: src.Namespace(),
		Codec:     o.Codec.Name(),
		CreatedAt: o.Now().UTC(),
		Count:     len(recs),
	}

	data, err := encode(h, recs, o)
	if err != nil {
		return Result{}, fmt.Errorf("snapshot %s: encode: %w", h.Namespace, err)
	}

	name := fmt.Sprintf("%s/%s-%s.jsonl%s",
		h.Namespace, h.CreatedAt.Format(TimeLayout), uuid.NewString(), o.Compression.Ext())

	if err := sink.Put(ctx, name, data); err != nil {
		return Result{}, fmt.Errorf("snapshot %s: put %s: %w", h.Namespace, name, err)
	}
	return Result{Name: name, Header: h, Bytes: len(data)}, nil
}

func encode(h Header, recs []record.Record, o Options) ([]byte, error) {
	var buf bytes.Buffer
	w, err := o.Compression.writer(&buf)
	if err != nil {
		return nil, err
	}

	// The header is always go-json so readers can find the record codec.
	line, err := codec.GoJSON{}.AppendLine(nil, h)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(line); err != nil {
		return nil, err
	}

	for _, r := range recs {
		line, err = codec.AppendLine(o.Codec, line[:0], r)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(line); err != nil {
			return nil, err
		}
	}

	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Read loads the snapshot stored under name.
func Read(ctx context.Context, store blobstore.Store, name string) (Header, []record.Record, error) {
	data, err := store.Get(ctx, name)
	if err != nil {
		return Header{}, nil, err
	}

	plain, err := compressionOf(name).decompress(data)
	if err != nil {
		return Header{}, nil, fmt.Errorf("%w: %s: %v", ErrFormat, name, err)
	}

	sc := bufio.NewScanner(bytes.NewReader(plain))
	sc.Buffer(make([]byte, 0, 64*1024), 64<<20)

	if !sc.Scan() {
		return Header{}, nil, fmt.Errorf("%w: %s: missing header", ErrFormat, name)
	}
	var h Header
	if err := (codec.GoJSON{}).Unmarshal(sc.Bytes(), &h); err != nil || h.Format != Format {
		return Header{}, nil, fmt.Errorf("%w: %s: bad header", ErrFormat, name)
	}

	c, ok := codec.ByName(h.Codec)
	if !ok {
		return Header{}, nil, fmt.Errorf("%w: %s: unknown codec %q", ErrFormat, name, h.Codec)
	}

	recs := make([]record.Record, 0, h.Count)
	for sc.Scan() {
		var r record.Record
		if err := c.Unmarshal(sc.Bytes(), &r); err != nil {
			return Header{}, nil, fmt.Errorf("%w: %s: record %d: %v", ErrFormat, name, len(recs)+1, err)
		}
		recs = append(recs, r)
	}
	if err := sc.Err(); err != nil {
		return Header{}, nil, fmt.Errorf("%w: %s: %v", ErrFormat, name, err)
	}
	if len(recs) != h.Count {
		return Header{}, nil, fmt.Errorf("%w: %s: header counts %d records, found %d", ErrFormat, name, h.Count, len(recs))
	}
	return h, recs, nil
}

// List returns the snapshot names of namespace, oldest first. Exports created
// in the same nanosecond are ordered by their random uuid.
func List(ctx context.Context, store blobstore.Store, namespace string) ([]string, error) {
	return store.List(ctx, namespace+"/")
}
