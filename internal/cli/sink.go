package cli

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/hupe1980/resredis/blobstore"
	"github.com/hupe1980/resredis/blobstore/minio"
	"github.com/hupe1980/resredis/blobstore/s3"
)

// SinkConfig selects where snapshots are written.
type SinkConfig struct {
	Kind   string
	Dir    string
	Bucket string
	Prefix string
	MinIO  MinIOConfig
}

// MinIOConfig holds the credentials of the minio sink.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Secure    bool
}

// NewSink builds the blob store named by cfg.Kind.
func NewSink(ctx context.Context, cfg SinkConfig) (blobstore.Store, error) {
	switch cfg.Kind {
	case "", "local":
		return blobstore.NewLocalStore(cfg.Dir), nil

	case "minio":
		if cfg.MinIO.Endpoint == "" || cfg.Bucket == "" {
			return nil, fmt.Errorf("%w: minio sink needs an endpoint and a bucket", ErrUsage)
		}
		st, err := minio.New(minio.Options{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			Secure:    cfg.MinIO.Secure,
		}, cfg.Bucket, cfg.Prefix)
		if err != nil {
			return nil, fmt.Errorf("minio sink: %w", err)
		}
		return st, nil

	case "s3":
		if cfg.Bucket == "" {
			return nil, fmt.Errorf("%w: s3 sink needs a bucket", ErrUsage)
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		return s3.NewStore(awss3.NewFromConfig(awsCfg), cfg.Bucket, cfg.Prefix), nil

	default:
		return nil, fmt.Errorf("%w: unknown sink %q", ErrUsage, cfg.Kind)
	}
}
