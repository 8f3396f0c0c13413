// Package storage holds product images in S3-compatible object storage,
// or in memory when no bucket is configured.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	catalogapp "github.com/styleco/storefront/internal/application/catalog"
	"github.com/styleco/storefront/internal/infrastructure/config"
	"go.uber.org/zap"
)

const (
	defaultRegion        = "us-east-1"
	defaultPresignWindow = 15 * time.Minute
	// keys are content-addressed, so a stored image never changes
	imageCacheControl = "public, max-age=31536000, immutable"
)

var errMissingKey = errors.New("storage key is required")

// S3ImageStore talks to AWS S3, MinIO or R2. Browsers load images from
// publicURL, which defaults to the bucket's own address.
type S3ImageStore struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
	publicURL string
	presign   time.Duration
	logger    *zap.Logger
}

var _ catalogapp.ImageStorage = (*S3ImageStore)(nil)

type S3Option func(*S3ImageStore)

func WithLogger(logger *zap.Logger) S3Option {
	return func(s *S3ImageStore) { s.logger = logger.Named("images") }
}

// WithPresignExpiration sets how long presigned upload URLs stay valid
func WithPresignExpiration(d time.Duration) S3Option {
	return func(s *S3ImageStore) { s.presign = d }
}

func checkStorageConfig(cfg *config.StorageConfig) error {
	switch {
	case cfg == nil:
		return errors.New("storage configuration is required")
	case cfg.Bucket == "":
		return errors.New("storage bucket is required")
	case cfg.AccessKeyID == "" || cfg.SecretAccessKey == "":
		return errors.New("storage credentials are required")
	}
	return nil
}

// endpointURL adds https:// to a bare host
func endpointURL(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid storage endpoint: %w", err)
	}
	return strings.TrimSuffix(u.String(), "/"), nil
}

func NewS3ImageStore(cfg *config.StorageConfig, opts ...S3Option) (*S3ImageStore, error) {
	if err := checkStorageConfig(cfg); err != nil {
		return nil, err
	}
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}
	endpoint, err := endpointURL(cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	store := &S3ImageStore{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
		publicURL: strings.TrimSuffix(cfg.PublicURL, "/"),
		presign:   cfg.PresignExpiration,
		logger:    zap.NewNop(),
	}
	if store.publicURL == "" {
		store.publicURL = bucketURL(endpoint, cfg.Bucket, region, cfg.UsePathStyle)
	}
	for _, opt := range opts {
		opt(store)
	}
	if store.presign <= 0 {
		store.presign = defaultPresignWindow
	}
	return store, nil
}

// bucketURL is where the bucket serves objects publicly
func bucketURL(endpoint, bucket, region string, pathStyle bool) string {
	if endpoint == "" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	u, err := url.Parse(endpoint)
	if pathStyle || err != nil {
		return endpoint + "/" + bucket
	}
	return fmt.Sprintf("%s://%s.%s", u.Scheme, bucket, u.Host)
}

// EnsureBucket creates the bucket on first start. It is a no-op when the
// bucket exists or is already owned by these credentials.
func (s *S3ImageStore) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: &s.bucket})
	if err == nil {
		return nil
	}
	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("head bucket %s: %w", s.bucket, err)
	}

	s.logger.Info("Creating image bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: &s.bucket})
	var owned *types.BucketAlreadyOwnedByYou
	if err != nil && !errors.As(err, &owned) {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	return nil
}

func (s *S3ImageStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return errMissingKey
	}
	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       &s.bucket,
		Key:          &key,
		Body:         bytes.NewReader(data),
		ContentType:  &contentType,
		CacheControl: aws.String(imageCacheControl),
	}); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	s.logger.Debug("Image stored", zap.String("key", key), zap.Int("bytes", len(data)))
	return nil
}

// GenerateUploadURL presigns a PUT so the admin browser can upload directly.
// expiresIn <= 0 uses the store's default window.
func (s *S3ImageStore) GenerateUploadURL(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errMissingKey
	}
	if expiresIn <= 0 {
		expiresIn = s.presign
	}
	signed, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		ContentType: &contentType,
	}, s3.WithPresignExpires(expiresIn))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("presign %s: %w", key, err)
	}
	return signed.URL, time.Now().Add(expiresIn), nil
}

func (s *S3ImageStore) DeleteObject(ctx context.Context, key string) error {
	if key == "" {
		return errMissingKey
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &s.bucket, Key: &key}); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *S3ImageStore) PublicURL(key string) string {
	return s.publicURL + "/" + strings.TrimPrefix(key, "/")
}

func (s *S3ImageStore) Bucket() string { return s.bucket }
