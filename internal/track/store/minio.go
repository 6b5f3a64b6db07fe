package store

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/D-Elbel/gpxshare/internal/pkg/pkgerror"
)

const (
	codeNoSuchKey  = "NoSuchKey"
	defaultTimeout = 30 * time.Second
)

// MinioConfig holds the connection settings for the S3-compatible backend.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Timeout   time.Duration
}

// MinioStore persists objects in an S3-compatible object storage service
// through the MinIO SDK. Safe for concurrent use.
type MinioStore struct {
	client  *minio.Client
	bucket  string
	timeout time.Duration
}

// NewMinioStore builds a MinioStore from the given configuration.
func NewMinioStore(cfg MinioConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	if err := ensureBucket(client, cfg.Bucket, timeout); err != nil {
		return nil, err
	}

	return &MinioStore{client: client, bucket: cfg.Bucket, timeout: timeout}, nil
}

// ensureBucket creates the bucket on first deployment so writes do not fail
// with NoSuchBucket until an operator intervenes.
func ensureBucket(client *minio.Client, bucket string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
}

// Put durably stores value under key, silently overwriting any existing
// object. The operation is bounded by the configured timeout.
func (s *MinioStore) Put(ctx context.Context, key string, value []byte) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(value), int64(len(value)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	return err
}

// Get returns the stored bytes for key. A missing key yields
// pkgerror.ErrNotFound so callers can tell it apart from transport errors.
func (s *MinioStore) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, wrapMinioError(err)
	}
	defer func() {
		_ = obj.Close()
	}()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, wrapMinioError(err)
	}

	return data, nil
}

// wrapMinioError converts the MinIO missing-key response to the shared
// not-found sentinel.
func wrapMinioError(err error) error {
	if minio.ToErrorResponse(err).Code == codeNoSuchKey {
		return pkgerror.ErrNotFound
	}
	return err
}
