// Package logarchive copies persisted job logs to an S3 compatible bucket.
package logarchive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/zdevops/zdevops/pkg/logging"
)

// Config is the "archive" section of an agent config. Archiving is off while
// Bucket is empty.
type Config struct {
	Bucket    string `mapstructure:"bucket"`
	Prefix    string `mapstructure:"prefix"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key" validate:"required_with=AccessKey"`
}

// Enabled reports whether logs should be archived.
func (c Config) Enabled() bool { return c.Bucket != "" }

// Archiver stores a named log and returns where it went.
type Archiver interface {
	Archive(ctx context.Context, name string, data []byte) (string, error)
}

type uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Archiver uploads logs with the S3 transfer manager.
type S3Archiver struct {
	uploader uploader
	bucket   string
	prefix   string
	log      logging.Interface
}

// NewS3Archiver builds an archiver from cfg. Without static keys the default
// AWS credential chain is used.
func NewS3Archiver(ctx context.Context, cfg Config, log logging.Interface) (*S3Archiver, error) {
	if !cfg.Enabled() {
		return nil, errors.New("archive bucket is required")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = !strings.Contains(cfg.Endpoint, "amazonaws.com")
		}
	})

	log.WithField("bucket", cfg.Bucket).WithField("region", cfg.Region).Debug("Log archive initialized")
	return newS3Archiver(manager.NewUploader(client), cfg, log), nil
}

func newS3Archiver(u uploader, cfg Config, log logging.Interface) *S3Archiver {
	return &S3Archiver{uploader: u, bucket: cfg.Bucket, prefix: strings.Trim(cfg.Prefix, "/"), log: log}
}

// Archive uploads data as prefix/name and returns its s3:// URI.
func (a *S3Archiver) Archive(ctx context.Context, name string, data []byte) (string, error) {
	key := path.Join(a.prefix, name)
	_, err := a.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return "", wrapError(err, key)
	}

	uri := fmt.Sprintf("s3://%s/%s", a.bucket, key)
	a.log.WithField("uri", uri).Info("Job log archived")
	return uri, nil
}

func wrapError(err error, key string) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("archiving %s: %s: %w", key, apiErr.ErrorCode(), err)
	}
	return fmt.Errorf("archiving %s: %w", key, err)
}
