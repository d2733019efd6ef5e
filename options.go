package resredis

import (
	"log/slog"

	"github.com/hupe1980/resredis/cache"
	"github.com/hupe1980/resredis/internal/resource"
	"github.com/hupe1980/resredis/keyspace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// DefaultScanConcurrency bounds the parallel HGETALL fan-out of a scan.
const DefaultScanConcurrency = 16

type options struct {
	keyPrefix        string
	cache            cache.Cache
	cacheReads       bool
	scanConcurrency  int
	limits           *resource.Config
	metricsCollector MetricsCollector
	logger           *Logger
	tracerProvider   trace.TracerProvider
}

// Option configures Engine construction.
type Option func(*options)

// WithKeyPrefix sets the root prefix of every key.
// The default is keyspace.DefaultPrefix ("resourceful"); pass "" to derive
// keys from the namespace alone.
func WithKeyPrefix(prefix string) Option {
	return func(o *options) {
		o.keyPrefix = prefix
	}
}

// WithCache injects the read cache owned by the engine.
// Pass nil or cache.Nop{} to disable caching.
func WithCache(c cache.Cache) Option {
	return func(o *options) {
		if c == nil {
			c = cache.Nop{}
		}
		o.cache = c
	}
}

// WithCacheReads lets Get answer from the read cache before asking Redis.
//
// Cached entries are never invalidated by writes from other processes, so a
// hit may be stale. Filter, Find and All always read Redis.
func WithCacheReads(enabled bool) Option {
	return func(o *options) {
		o.cacheReads = enabled
	}
}

// WithScanConcurrency bounds the number of concurrent HGETALL calls issued by a
// scan. Values <= 0 use DefaultScanConcurrency.
func WithScanConcurrency(n int) Option {
	return func(o *options) {
		o.scanConcurrency = n
	}
}

// WithRequestLimits throttles every command sent to Redis.
// maxInFlight bounds concurrent commands, requestsPerSec and burst bound the
// command rate. Zero values disable the respective limit.
//
// Limits apply to stores built by New; NewWithStore ignores them.
func WithRequestLimits(maxInFlight int64, requestsPerSec float64, burst int) Option {
	return func(o *options) {
		o.limits = &resource.Config{
			MaxInFlight:    maxInFlight,
			RequestsPerSec: requestsPerSec,
			Burst:          burst,
		}
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &resredis.BasicMetricsCollector{}
//	e, _ := resredis.New(cfg, resredis.WithMetricsCollector(metrics))
//	// ... use e ...
//	stats := metrics.GetStats()
//	fmt.Printf("Saves: %d, Avg latency: %dns\n", stats.SaveCount, stats.SaveAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := resredis.NewJSONLogger(slog.LevelInfo)
//	e, _ := resredis.New(cfg, resredis.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithTracerProvider enables OpenTelemetry spans for every public operation.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		if tp == nil {
			tp = noop.NewTracerProvider()
		}
		o.tracerProvider = tp
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		keyPrefix:        keyspace.DefaultPrefix,
		scanConcurrency:  DefaultScanConcurrency,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		tracerProvider:   noop.NewTracerProvider(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.cache == nil {
		o.cache = cache.NewLRU(cache.DefaultCapacity)
	}
	if o.scanConcurrency <= 0 {
		o.scanConcurrency = DefaultScanConcurrency
	}
	return o
}
