// Package cli implements the resredis command line tool.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	gojson "github.com/goccy/go-json"

	"github.com/hupe1980/resredis"
	"github.com/hupe1980/resredis/record"
	"github.com/hupe1980/resredis/snapshot"
)

// ErrUsage is returned for malformed command lines.
var ErrUsage = errors.New("usage")

const usage = `usage: resredis [flags] <command> [args]

commands:
  get <id>                 print one record
  save [id] <json>         write a record, minting an id when omitted
  update <id> <json>       merge fields into an existing record
  destroy <id>             delete a record
  find <json>              print records matching every condition
  all                      print every record in index order
  count                    print the number of indexed records
  export                   write a snapshot to the configured sink
  snapshots                list snapshots of the namespace
  inspect <name>           print the records of a snapshot`

type sinkEnv struct {
	Sink           string `env:"RESREDIS_SINK" envDefault:"local"`
	Dir            string `env:"RESREDIS_SINK_DIR" envDefault:"snapshots"`
	Bucket         string `env:"RESREDIS_SINK_BUCKET"`
	Prefix         string `env:"RESREDIS_SINK_PREFIX"`
	MinIOEndpoint  string `env:"RESREDIS_MINIO_ENDPOINT"`
	MinIOAccessKey string `env:"RESREDIS_MINIO_ACCESS_KEY"`
	MinIOSecretKey string `env:"RESREDIS_MINIO_SECRET_KEY"`
	MinIOSecure    bool   `env:"RESREDIS_MINIO_SECURE"`
}

// Config holds the parsed command line.
type Config struct {
	Engine resredis.EnvConfig
	Sink   SinkConfig

	Compression     string
	LogLevel        string
	CacheReads      bool
	ScanConcurrency int
	Timeout         time.Duration

	Command string
	Args    []string
}

// ParseConfig reads the environment, then flags and positional arguments.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	engineCfg, err := resredis.ConfigFromEnv()
	if err != nil {
		return Config{}, err
	}
	var se sinkEnv
	if err := env.Parse(&se); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg := Config{
		Engine: engineCfg,
		Sink: SinkConfig{
			Kind:   se.Sink,
			Dir:    se.Dir,
			Bucket: se.Bucket,
			Prefix: se.Prefix,
			MinIO: MinIOConfig{
				Endpoint:  se.MinIOEndpoint,
				AccessKey: se.MinIOAccessKey,
				SecretKey: se.MinIOSecretKey,
				Secure:    se.MinIOSecure,
			},
		},
	}

	fs.StringVar(&cfg.Engine.URI, "uri", cfg.Engine.URI, "redis uri (default: RESREDIS_URI)")
	fs.StringVar(&cfg.Engine.Namespace, "namespace", cfg.Engine.Namespace, "resource namespace (default: RESREDIS_NAMESPACE)")
	fs.StringVar(&cfg.Engine.Prefix, "prefix", cfg.Engine.Prefix, "key prefix, empty for none (default: RESREDIS_PREFIX)")
	fs.StringVar(&cfg.Sink.Kind, "sink", cfg.Sink.Kind, "snapshot sink: local, minio or s3")
	fs.StringVar(&cfg.Sink.Dir, "sink-dir", cfg.Sink.Dir, "directory of the local sink")
	fs.StringVar(&cfg.Sink.Bucket, "bucket", cfg.Sink.Bucket, "bucket of the minio or s3 sink")
	fs.StringVar(&cfg.Sink.Prefix, "sink-prefix", cfg.Sink.Prefix, "object prefix inside the bucket")
	fs.StringVar(&cfg.Compression, "compression", "zstd", "snapshot compression: zstd, lz4 or none")
	fs.StringVar(&cfg.LogLevel, "log-level", "warn", "log level: debug, info, warn or error")
	fs.BoolVar(&cfg.CacheReads, "cache-reads", false, "answer get from the local cache")
	fs.IntVar(&cfg.ScanConcurrency, "scan-concurrency", resredis.DefaultScanConcurrency, "parallel reads per scan")
	fs.DurationVar(&cfg.Timeout, "timeout", 30*time.Second, "overall timeout")
	fs.Usage = func() { fmt.Fprintln(fs.Output(), usage); fs.PrintDefaults() }

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if fs.NArg() == 0 {
		return Config{}, fmt.Errorf("%w: missing command", ErrUsage)
	}
	cfg.Command = fs.Arg(0)
	cfg.Args = fs.Args()[1:]
	return cfg, nil
}

// Run executes the configured command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return fmt.Errorf("%w: log level %q", ErrUsage, cfg.LogLevel)
	}

	opts := append(cfg.Engine.Options(),
		resredis.WithLogger(resredis.NewLogger(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level}))),
		resredis.WithCacheReads(cfg.CacheReads),
		resredis.WithScanConcurrency(cfg.ScanConcurrency),
	)

	e, err := resredis.New(cfg.Engine.Config(), opts...)
	if err != nil {
		return err
	}
	defer e.Close()

	c := &commands{engine: e, cfg: cfg, enc: gojson.NewEncoder(out), out: out}
	return c.run(ctx)
}

type commands struct {
	engine *resredis.Engine
	cfg    Config
	enc    *gojson.Encoder
	out    io.Writer
}

func (c *commands) run(ctx context.Context) error {
	args := c.cfg.Args

	switch c.cfg.Command {
	case "get":
		if len(args) != 1 {
			return usageErr("get <id>")
		}
		rec, err := c.engine.Get(ctx, args[0])
		if err != nil {
			return err
		}
		return c.enc.Encode(rec)

	case "save":
		var id, raw string
		switch len(args) {
		case 1:
			raw = args[0]
		case 2:
			id, raw = args[0], args[1]
		default:
			return usageErr("save [id] <json>")
		}
		value, err := decodeObject(raw)
		if err != nil {
			return err
		}
		rec, err := c.engine.Save(ctx, id, value)
		if err != nil {
			return err
		}
		return c.enc.Encode(rec)

	case "update":
		if len(args) != 2 {
			return usageErr("update <id> <json>")
		}
		patch, err := decodeObject(args[1])
		if err != nil {
			return err
		}
		rec, err := c.engine.Update(ctx, args[0], patch)
		if err != nil {
			return err
		}
		return c.enc.Encode(rec)

	case "destroy":
		if len(args) != 1 {
			return usageErr("destroy <id>")
		}
		return c.engine.Destroy(ctx, args[0])

	case "find":
		if len(args) != 1 {
			return usageErr("find <json>")
		}
		conditions, err := decodeObject(args[0])
		if err != nil {
			return err
		}
		recs, err := c.engine.Find(ctx, conditions)
		if err != nil {
			return err
		}
		return c.encodeAll(recs)

	case "all":
		recs, err := c.engine.All(ctx)
		if err != nil {
			return err
		}
		return c.encodeAll(recs)

	case "count":
		n, err := c.engine.Count(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(c.out, n)
		return err

	case "export":
		compression, err := snapshot.ParseCompression(c.cfg.Compression)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUsage, err)
		}
		sink, err := NewSink(ctx, c.cfg.Sink)
		if err != nil {
			return err
		}
		res, err := snapshot.Export(ctx, c.engine, sink, snapshot.WithCompression(compression))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(c.out, "%s\t%d records\t%d bytes\n", res.Name, res.Header.Count, res.Bytes)
		return err

	case "snapshots":
		sink, err := NewSink(ctx, c.cfg.Sink)
		if err != nil {
			return err
		}
		names, err := snapshot.List(ctx, sink, c.engine.Namespace())
		if err != nil {
			return err
		}
		for _, name := range names {
			if _, err := fmt.Fprintln(c.out, name); err != nil {
				return err
			}
		}
		return nil

	case "inspect":
		if len(args) != 1 {
			return usageErr("inspect <name>")
		}
		sink, err := NewSink(ctx, c.cfg.Sink)
		if err != nil {
			return err
		}
		_, recs, err := snapshot.Read(ctx, sink, args[0])
		if err != nil {
			return err
		}
		return c.encodeAll(recs)

	default:
		return fmt.Errorf("%w: unknown command %q", ErrUsage, c.cfg.Command)
	}
}

func (c *commands) encodeAll(recs []record.Record) error {
	for _, rec := range recs {
		if err := c.enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}

func usageErr(form string) error {
	return fmt.Errorf("%w: resredis %s", ErrUsage, form)
}

// decodeObject keeps numbers as json.Number so they are stored digit for digit.
func decodeObject(raw string) (map[string]any, error) {
	dec := gojson.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: expected a json object: %v", ErrUsage, err)
	}
	return m, nil
}
