// Package s3 provides an S3-compatible asset store (AWS S3, MinIO).
package s3

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/webpress/sitepub/pkg/sitepub"
)

// Config options for the S3 asset store.
type Config struct {
	Region          string // AWS region
	Bucket          string // S3 bucket name
	AccessKeyID     string // AWS access key ID
	SecretAccessKey string // AWS secret access key
	Endpoint        string // Optional custom endpoint for S3-compatible services
	UsePathStyle    bool   // Use path-style addressing (default: false)
	KeyPrefix       string // Optional key prefix assets live under
}

// Store is an S3-compatible implementation of the sitepub.AssetStore
// interface.
type Store struct {
	client    *s3.Client
	bucket    string
	keyPrefix string
}

// New creates a new S3 asset store.
func New(config Config) (*Store, error) {
	if config.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}
	if config.Region == "" {
		config.Region = "us-east-1"
	}

	var awsCfg aws.Config
	var err error
	if config.AccessKeyID != "" && config.SecretAccessKey != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(config.Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				config.AccessKeyID,
				config.SecretAccessKey,
				"",
			)),
		)
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(config.Region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Options []func(*s3.Options)
	if config.Endpoint != "" {
		s3Options = append(s3Options, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(config.Endpoint)
			o.UsePathStyle = config.UsePathStyle
		})
	}

	return &Store{
		client:    s3.NewFromConfig(awsCfg, s3Options...),
		bucket:    config.Bucket,
		keyPrefix: strings.Trim(config.KeyPrefix, "/"),
	}, nil
}

func (s *Store) Delete(ctx context.Context, filenameOrURL string) error {
	key := s.objectKey(filenameOrURL)

	// S3 DeleteObject succeeds on missing keys, so probe first to report
	// ErrAssetNotFound to callers that care.
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return sitepub.ErrAssetNotFound
		}
		return fmt.Errorf("failed to probe S3 object: %w", err)
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}

	return nil
}

// objectKey reduces a stored URL or bare filename to the bucket key,
// applying the configured prefix to bare names.
func (s *Store) objectKey(filenameOrURL string) string {
	name := filenameOrURL
	if u, err := url.Parse(filenameOrURL); err == nil && u.Scheme != "" {
		name = strings.TrimPrefix(u.Path, "/")
		// Path-style URLs carry the bucket as the first segment.
		if rest, ok := strings.CutPrefix(name, s.bucket+"/"); ok {
			name = rest
		}
		return name
	}
	name = strings.TrimPrefix(name, "/")
	if s.keyPrefix != "" && !strings.HasPrefix(name, s.keyPrefix+"/") {
		name = s.keyPrefix + "/" + name
	}
	return name
}
