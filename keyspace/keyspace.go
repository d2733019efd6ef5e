// Package keyspace derives the Redis keys used for one namespace.
//
// All keys of a namespace share a common root:
//
//	<prefix>:<namespace>:count      monotonic id counter
//	<prefix>:<namespace>:indexes    sorted set of record keys
//	<prefix>:<namespace>:id:<id>    hash holding one record
//
// With an empty prefix the root is just the namespace.
package keyspace

import "strings"

// DefaultPrefix is the root prefix of keys written by resourceful.
const DefaultPrefix = "resourceful"

// Keys is the derived key set of a namespace. It is immutable.
type Keys struct {
	Namespace string
	// Counter is the INCR key used to mint record ids.
	Counter string
	// Index is the sorted set enumerating record keys.
	Index string
	// RecordPrefix is prepended to a record id to form its hash key.
	RecordPrefix string
}

// New derives the keys for namespace under prefix.
func New(prefix, namespace string) Keys {
	root := namespace
	if prefix != "" {
		root = prefix + ":" + namespace
	}
	return Keys{
		Namespace:    namespace,
		Counter:      root + ":count",
		Index:        root + ":indexes",
		RecordPrefix: root + ":id:",
	}
}

// Record returns the hash key of the record with the given id.
func (k Keys) Record(id string) string {
	return k.RecordPrefix + id
}

// ID extracts the record id from a record key; ok is false if key
// does not belong to this namespace.
func (k Keys) ID(recordKey string) (id string, ok bool) {
	if !strings.HasPrefix(recordKey, k.RecordPrefix) {
		return "", false
	}
	return recordKey[len(k.RecordPrefix):], true
}
