package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/pawtrail/rescue/internal/domain"
)

// ObjectClient is the subset of the minio client the store depends on,
// kept as an interface so tests can substitute a mock.
type ObjectClient interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// MinioStore implements domain.BlobStore against an S3-compatible endpoint.
// The client is constructed once at startup and shared; it is safe for
// concurrent use.
type MinioStore struct {
	client  ObjectClient
	bucket  string
	baseURL string
}

// Config holds the settings needed to reach the object storage backend.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	// PublicBaseURL overrides the URL prefix returned for stored objects.
	// When empty, URLs are derived from the endpoint and bucket.
	PublicBaseURL string
}

// NewMinioStore creates a MinioStore from cfg.
func NewMinioStore(cfg Config) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &MinioStore{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: objectBaseURL(cfg),
	}, nil
}

// NewMinioStoreWithClient wires an existing client, used by tests.
func NewMinioStoreWithClient(client ObjectClient, bucket, baseURL string) *MinioStore {
	return &MinioStore{client: client, bucket: bucket, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *MinioStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("%w: put object %s: %v", domain.ErrStorage, key, err)
	}
	return s.baseURL + "/" + key, nil
}

// Delete removes the object. Removing a missing key is not an error.
func (s *MinioStore) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%w: remove object %s: %v", domain.ErrStorage, key, err)
	}
	return nil
}

func objectBaseURL(cfg Config) string {
	if cfg.PublicBaseURL != "" {
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
}
