package resredis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/hupe1980/resredis/cache"
	"github.com/hupe1980/resredis/internal/resource"
	"github.com/hupe1980/resredis/keyspace"
	"github.com/hupe1980/resredis/record"
	"github.com/hupe1980/resredis/store"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

// Engine persists the records of one namespace in Redis.
//
// An Engine is safe for concurrent use. It holds no locks: id uniqueness comes
// from Redis INCR alone, and concurrent Update calls on the same id race (the
// last write wins).
type Engine struct {
	keys   keyspace.Keys
	store  store.Store
	cache  cache.Cache
	client redis.UniversalClient // non-nil only if owned by the engine

	cacheReads      bool
	scanConcurrency int

	logger  *Logger
	metrics MetricsCollector
	tracer  trace.Tracer
}

// New resolves cfg and builds an Engine on top of the resulting client.
func New(cfg Config, optFns ...Option) (*Engine, error) {
	ep, err := cfg.resolve()
	if err != nil {
		return nil, err
	}

	o := applyOptions(optFns)

	client, owned := ep.client()

	var rc *resource.Controller
	if o.limits != nil {
		rc = resource.NewController(*o.limits)
	}

	e := newEngine(store.NewRedis(client, rc), cfg.Namespace, o)
	if owned {
		e.client = client
	}
	return e, nil
}

// NewWithStore builds an Engine on an arbitrary implementation of the store
// command surface.
func NewWithStore(s store.Store, namespace string, optFns ...Option) (*Engine, error) {
	if s == nil {
		return nil, &ConfigError{Field: "store", Reason: "must not be nil"}
	}
	if namespace == "" {
		return nil, &ConfigError{Field: "namespace", Reason: "must be set for each resource"}
	}
	return newEngine(s, namespace, applyOptions(optFns)), nil
}

func newEngine(s store.Store, namespace string, o options) *Engine {
	return &Engine{
		keys:            keyspace.New(o.keyPrefix, namespace),
		store:           s,
		cache:           o.cache,
		cacheReads:      o.cacheReads,
		scanConcurrency: o.scanConcurrency,
		logger:          o.logger.WithNamespace(namespace),
		metrics:         o.metricsCollector,
		tracer:          o.tracerProvider.Tracer(tracerName),
	}
}

// Namespace returns the namespace the engine was built for.
func (e *Engine) Namespace() string { return e.keys.Namespace }

// Keys returns the derived key set.
func (e *Engine) Keys() keyspace.Keys { return e.keys }

// Cache returns the engine's read cache.
func (e *Engine) Cache() cache.Cache { return e.cache }

// InvalidateCache drops the cached records whose id matches predicate; a nil
// predicate drops all of them. Redis is not touched.
//
// The cache never learns about writes made by other processes. Callers that do
// (for example through keyspace notifications) use this to stop Get with
// WithCacheReads from serving the stale value.
func (e *Engine) InvalidateCache(predicate func(id string) bool) {
	if predicate == nil {
		predicate = func(string) bool { return true }
	}
	e.cache.Invalidate(predicate)
}

// Get fetches the record stored under id.
//
// A missing hash and a hash without fields are both reported as a
// *NotFoundError, because Redis does not keep empty hashes.
func (e *Engine) Get(ctx context.Context, id string) (rec record.Record, err error) {
	start := time.Now()
	ctx, span := e.startSpan(ctx, "Get", id)
	defer func() {
		endSpan(span, err)
		e.metrics.RecordGet(time.Since(start), err)
		e.logger.LogGet(ctx, id, err)
	}()

	if e.cacheReads {
		if rec, ok := e.cache.Get(id); ok {
			return rec, nil
		}
	}
	return e.fetch(ctx, id)
}

// fetch reads id from Redis, bypassing the cache.
func (e *Engine) fetch(ctx context.Context, id string) (record.Record, error) {
	fields, err := e.store.HGetAll(ctx, e.keys.Record(id))
	if err != nil {
		return nil, translateError(err)
	}
	if len(fields) == 0 {
		return nil, &NotFoundError{Namespace: e.keys.Namespace, ID: id}
	}
	return record.Record(fields), nil
}

// Save writes value as the full content of record id and returns the record as
// read back from Redis. An empty id mints a new one from the namespace counter.
// value may be a record.Record, map[string]string or map[string]any.
//
// Save runs these steps in order; a *StepError names the one that failed:
//
//	mint        INCR counter       nothing written
//	write-hash  DEL+HSET record    counter consumed, no record
//	index       ZADD NX index      record exists but is not enumerated by scans
//	read-back   HGETALL record     record fully saved
//
// The counter is advanced on every Save and its value is the index score. ZADD
// NX keeps the score of the first insertion, so re-saving an id never moves it
// in index order. Once the mint step succeeded the remaining steps ignore ctx
// cancellation so that an accepted write runs to completion.
func (e *Engine) Save(ctx context.Context, id string, value any) (rec record.Record, err error) {
	start := time.Now()
	minted := id == ""
	ctx, span := e.startSpan(ctx, "Save", id)
	defer func() {
		endSpan(span, err)
		e.metrics.RecordSave(time.Since(start), err)
		e.logger.LogSave(ctx, id, minted, err)
	}()

	fields, err := record.Encode(value)
	if err != nil {
		return nil, err
	}

	score, err := e.store.Incr(ctx, e.keys.Counter)
	if err != nil {
		return nil, stepError("save", StepMint, id, err)
	}
	ctx = context.WithoutCancel(ctx)

	if minted {
		id = strconv.FormatInt(score, 10)
	}
	fields[record.IDField] = id
	key := e.keys.Record(id)

	if err := e.store.Replace(ctx, key, fields); err != nil {
		return nil, stepError("save", StepWriteHash, id, err)
	}
	e.cache.Put(id, fields)

	if _, err := e.store.ZAddNX(ctx, e.keys.Index, float64(score), key); err != nil {
		return nil, stepError("save", StepIndex, id, err)
	}

	rec, err = e.fetch(ctx, id)
	if err != nil {
		return nil, stepError("save", StepReadBack, id, err)
	}
	return rec, nil
}

// Update merges partial into the existing record id: fields in partial
// override, all others are kept, and _id cannot be changed. It returns the
// merged record. Updating a missing record fails with a *NotFoundError and
// writes nothing.
//
// Update is read-merge-write without versioning: concurrent updates of the
// same id lose all but the last merge.
func (e *Engine) Update(ctx context.Context, id string, partial any) (rec record.Record, err error) {
	start := time.Now()
	ctx, span := e.startSpan(ctx, "Update", id)
	defer func() {
		endSpan(span, err)
		e.metrics.RecordUpdate(time.Since(start), err)
		e.logger.LogUpdate(ctx, id, err)
	}()

	patch, err := record.Encode(partial)
	if err != nil {
		return nil, err
	}
	delete(patch, record.IDField)

	old, err := e.fetch(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, stepError("update", StepRead, id, err)
	}
	ctx = context.WithoutCancel(ctx)

	merged := record.Merge(old, patch)
	if err := e.store.HSet(ctx, e.keys.Record(id), merged); err != nil {
		return nil, stepError("update", StepWriteHash, id, err)
	}
	e.cache.Put(id, merged)

	return merged, nil
}

// Destroy deletes the record hash and then removes its index entry. Both
// commands are always attempted; failures of either are joined into the
// returned error and nothing is rolled back. A non-nil error therefore means
// the hash and the index may disagree and the caller should reconcile.
// Destroying a missing id is not an error.
func (e *Engine) Destroy(ctx context.Context, id string) (err error) {
	start := time.Now()
	ctx, span := e.startSpan(ctx, "Destroy", id)
	defer func() {
		endSpan(span, err)
		e.metrics.RecordDestroy(time.Since(start), err)
		e.logger.LogDestroy(ctx, id, err)
	}()

	key := e.keys.Record(id)

	_, delErr := e.store.Del(ctx, key)
	ctx = context.WithoutCancel(ctx)
	_, remErr := e.store.ZRem(ctx, e.keys.Index, key)
	e.cache.Delete(id)

	return errors.Join(
		stepError("destroy", StepDeleteHash, id, delErr),
		stepError("destroy", StepRemoveIndex, id, remErr),
	)
}

// IDs returns the ids of all indexed records in index order.
func (e *Engine) IDs(ctx context.Context) ([]string, error) {
	members, err := e.store.ZRange(ctx, e.keys.Index, 0, -1)
	if err != nil {
		return nil, translateError(err)
	}

	ids := make([]string, 0, len(members))
	for _, m := range members {
		if id, ok := e.keys.ID(m); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Count returns the number of index entries.
func (e *Engine) Count(ctx context.Context) (int, error) {
	members, err := e.store.ZRange(ctx, e.keys.Index, 0, -1)
	if err != nil {
		return 0, translateError(err)
	}
	return len(members), nil
}

// Sync acknowledges a schema definition. Redis is schemaless, so it does nothing.
func (e *Engine) Sync(ctx context.Context) error {
	return nil
}

// Load always fails: bulk loading has no meaning for this engine.
func (e *Engine) Load(ctx context.Context, records []record.Record) error {
	return fmt.Errorf("load %d records into %q: %w", len(records), e.keys.Namespace, ErrUnsupported)
}

// Close releases the client if the engine opened it from a URI.
// Clients passed in Config.Client are left open.
func (e *Engine) Close() error {
	if e == nil || e.client == nil {
		return nil
	}
	err := e.client.Close()
	e.client = nil
	return err
}
