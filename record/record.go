// Package record defines the flat string representation persisted in Redis hashes.
//
// Redis hashes carry no types, so every field value is stored in its string
// form. Numbers and booleans come back as text and must be reparsed by the
// consumer.
package record

import (
	"errors"
	"fmt"
	"maps"
	"strconv"
	"time"
)

// IDField is the field holding the record id once persisted.
const IDField = "_id"

// ErrUnsupportedValue is returned by Encode for values that are not field maps.
var ErrUnsupportedValue = errors.New("record: unsupported value type")

// Record maps field names to their string values.
type Record map[string]string

// ID returns the value of the _id field.
func (r Record) ID() string {
	return r[IDField]
}

// Clone returns a shallow copy. Clone of nil is nil.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	return maps.Clone(r)
}

// Matches reports whether every condition equals the corresponding field.
// A field absent from the record never matches.
func (r Record) Matches(conditions Record) bool {
	for k, want := range conditions {
		got, ok := r[k]
		if !ok || got != want {
			return false
		}
	}
	return true
}

// Merge returns a new record holding old's fields overridden by patch.
func Merge(old, patch Record) Record {
	out := make(Record, len(old)+len(patch))
	maps.Copy(out, old)
	maps.Copy(out, patch)
	return out
}

// Encode flattens v into a Record. v may be a Record, a map[string]string or a
// map[string]any; nil field values are dropped.
func Encode(v any) (Record, error) {
	switch m := v.(type) {
	case nil:
		return Record{}, nil
	case Record:
		return m.Clone(), nil
	case map[string]string:
		return Record(maps.Clone(m)), nil
	case map[string]any:
		out := make(Record, len(m))
		for k, fv := range m {
			if fv == nil {
				continue
			}
			out[k] = Stringify(fv)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}

// Stringify renders a field value the way it is stored in a hash.
func Stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case uint16:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}
