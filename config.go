package resredis

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/redis/go-redis/v9"
)

// Config is the connection surface of an Engine.
//
// Exactly one of Client or URI is used: Client wins when both are set.
// Namespace is mandatory since every key is derived from it.
type Config struct {
	// Client is an already-open connection. The engine never closes it.
	Client redis.UniversalClient

	// URI has the form scheme://[user:pass@]host[:port]; the scheme may be
	// omitted. The engine opens and owns the resulting client.
	URI string

	// Namespace partitions the keyspace (for example "people").
	Namespace string

	// Port is used when URI carries no port.
	Port int

	// Password is used when URI carries no credentials.
	Password string
}

// EnvConfig is the environment form of Config, parsed by ConfigFromEnv.
type EnvConfig struct {
	URI       string `env:"RESREDIS_URI" envDefault:"redis://127.0.0.1:6379"`
	Namespace string `env:"RESREDIS_NAMESPACE"`
	Port      int    `env:"RESREDIS_PORT"`
	Password  string `env:"RESREDIS_PASSWORD"`
	Prefix    string `env:"RESREDIS_PREFIX" envDefault:"resourceful"`
}

// ConfigFromEnv loads an EnvConfig from environment variables.
func ConfigFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Config converts the environment form into a Config.
func (c EnvConfig) Config() Config {
	return Config{
		URI:       c.URI,
		Namespace: c.Namespace,
		Port:      c.Port,
		Password:  c.Password,
	}
}

// Options returns the engine options implied by the environment.
func (c EnvConfig) Options() []Option {
	return []Option{WithKeyPrefix(c.Prefix)}
}

// endpoint is the resolved form of Config: either a caller-owned client or
// the options to dial an engine-owned one.
type endpoint interface {
	client() (c redis.UniversalClient, owned bool)
}

type clientEndpoint struct {
	c redis.UniversalClient
}

func (e clientEndpoint) client() (redis.UniversalClient, bool) { return e.c, false }

type uriEndpoint struct {
	opts *redis.Options
}

func (e uriEndpoint) client() (redis.UniversalClient, bool) { return redis.NewClient(e.opts), true }

// resolve validates the configuration once, at construction.
func (c Config) resolve() (endpoint, error) {
	if c.Namespace == "" {
		return nil, &ConfigError{Field: "namespace", Reason: "must be set for each resource"}
	}

	if c.Client != nil {
		return clientEndpoint{c: c.Client}, nil
	}

	if c.URI == "" {
		return nil, &ConfigError{Field: "uri", Reason: "either a client or a uri is required"}
	}

	opts, err := parseURI(c.URI, c.Port, c.Password)
	if err != nil {
		return nil, &ConfigError{Field: "uri", Reason: "cannot parse", cause: err}
	}
	return uriEndpoint{opts: opts}, nil
}

func parseURI(raw string, port int, password string) (*redis.Options, error) {
	if !strings.Contains(raw, "://") {
		raw = "redis://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("missing host in %q", raw)
	}
	if u.Port() == "" && port > 0 {
		u.Host = net.JoinHostPort(u.Hostname(), strconv.Itoa(port))
	}

	opts, err := redis.ParseURL(u.String())
	if err != nil {
		return nil, err
	}
	if opts.Password == "" {
		opts.Password = password
	}
	return opts, nil
}
