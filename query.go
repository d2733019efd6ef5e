package resredis

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/resredis/record"
)

// Predicate selects records during a scan. It is called from the goroutine
// that invoked Filter, once per record and in index order, so it may keep
// state without locking.
type Predicate func(record.Record) bool

// Filter scans the whole namespace and returns the records for which pred
// reports true, in index order.
//
// Filter reads every indexed record from Redis (never from the cache) with up
// to WithScanConcurrency parallel HGETALL calls. Index members whose hash is
// gone are skipped. The first store error aborts the scan.
func (e *Engine) Filter(ctx context.Context, pred Predicate) (out []record.Record, err error) {
	start := time.Now()
	scanned := 0
	ctx, span := e.startSpan(ctx, "Filter", "")
	defer func() {
		endSpan(span, err)
		e.metrics.RecordScan(scanned, len(out), time.Since(start), err)
		e.logger.LogScan(ctx, scanned, len(out), err)
	}()

	if pred == nil {
		pred = func(record.Record) bool { return true }
	}

	members, err := e.store.ZRange(ctx, e.keys.Index, 0, -1)
	if err != nil {
		return nil, translateError(err)
	}
	scanned = len(members)

	// Slot i holds the record of members[i] so index order survives the fan-out.
	// The goroutines only fetch; pred runs after Wait.
	slots := make([]record.Record, len(members))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.scanConcurrency)
	for i, key := range members {
		g.Go(func() error {
			fields, err := e.store.HGetAll(gctx, key)
			if err != nil {
				return translateError(err)
			}
			if len(fields) == 0 {
				e.logger.LogDanglingIndex(gctx, key)
				return nil
			}
			slots[i] = record.Record(fields)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out = make([]record.Record, 0, len(slots))
	for _, rec := range slots {
		if rec != nil && pred(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Find returns the records whose fields equal every condition. Condition
// values are compared in their stored string form; nil conditions are ignored.
func (e *Engine) Find(ctx context.Context, conditions map[string]any) ([]record.Record, error) {
	want, err := record.Encode(conditions)
	if err != nil {
		return nil, err
	}
	return e.Filter(ctx, func(r record.Record) bool {
		return r.Matches(want)
	})
}

// All returns every indexed record in index order.
func (e *Engine) All(ctx context.Context) ([]record.Record, error) {
	return e.Filter(ctx, nil)
}
