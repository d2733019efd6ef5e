// Package resredis persists generic resource records in Redis.
//
// Every namespace (for example "people") occupies three kinds of keys:
//
//	resourceful:people:count      INCR counter used to mint ids
//	resourceful:people:indexes    sorted set of record keys, scored by insertion
//	resourceful:people:id:<id>    one hash per record, all fields as strings
//
// # Quick Start
//
//	ctx := context.Background()
//	e, _ := resredis.New(resredis.Config{URI: "redis://localhost:6379", Namespace: "people"})
//	defer e.Close()
//
//	bob, _ := e.Save(ctx, "", map[string]any{"name": "Bob", "age": 21})
//	// bob["_id"] == "1"
//
//	rec, _ := e.Get(ctx, bob.ID())
//	young, _ := e.Find(ctx, map[string]any{"age": 21})
//	_, _ = e.Update(ctx, bob.ID(), map[string]any{"age": 22})
//	_ = e.Destroy(ctx, bob.ID())
//
// # Consistency
//
// Save, Update and Destroy are ordered chains of independent Redis commands.
// They are not transactional: a failure part way through returns a *StepError
// naming the failed step and leaves the earlier steps in place. Filter, Find and
// All read the index and then every hash, so a concurrent Destroy may make a
// record vanish from a running scan.
//
// # Observability
//
// Operations accept WithLogger (log/slog), WithMetricsCollector and
// WithTracerProvider (OpenTelemetry). The promcollector package provides a
// Prometheus MetricsCollector.
package resredis
