package codec

import gojson "github.com/goccy/go-json"

// GoJSON is the default snapshot codec, backed by github.com/goccy/go-json.
// Map keys are written in sorted order, so equal records encode to equal lines.
type GoJSON struct{}

// LineAppender is implemented by codecs that can encode a value as one
// newline-terminated line into a caller-owned buffer.
type LineAppender interface {
	AppendLine(dst []byte, v any) ([]byte, error)
}

var _ LineAppender = GoJSON{}

// Marshal encodes v as compact JSON.
func (GoJSON) Marshal(v any) ([]byte, error) { return gojson.Marshal(v) }

// Unmarshal decodes data into v.
func (GoJSON) Unmarshal(data []byte, v any) error { return gojson.Unmarshal(data, v) }

// Name is stored in snapshot headers ("go-json").
func (GoJSON) Name() string { return "go-json" }

// AppendLine appends the JSON form of v and a trailing newline to dst.
// JSON strings escape newlines, so the result is always exactly one line.
func (GoJSON) AppendLine(dst []byte, v any) ([]byte, error) {
	b, err := gojson.Marshal(v)
	if err != nil {
		return dst, err
	}
	dst = append(dst, b...)
	return append(dst, '\n'), nil
}

// AppendLine encodes v with c as one newline-terminated line, using c's own
// LineAppender when it has one.
func AppendLine(c Codec, dst []byte, v any) ([]byte, error) {
	if la, ok := c.(LineAppender); ok {
		return la.AppendLine(dst, v)
	}
	b, err := c.Marshal(v)
	if err != nil {
		return dst, err
	}
	dst = append(dst, b...)
	return append(dst, '\n'), nil
}
