package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ahmadchreiff/eigen-journal/internal/config"
)

// minioStorage implements Storage against an S3-compatible backend (MinIO,
// AWS S3, etc.). Objects live flat in one bucket, keyed by stored name.
// It is safe for concurrent use by multiple goroutines.
type minioStorage struct {
	client *minio.Client
	bucket string
}

// NewMinIO creates an S3-compatible storage backend. It validates
// connectivity and ensures the bucket exists (creates it if missing).
func NewMinIO(cfg config.MinIOConfig) (Storage, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ms := &minioStorage{client: cli, bucket: cfg.Bucket}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Ensure bucket exists.
	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return ms, nil
}

// Save uploads the payload under a fresh stored name using streaming I/O only.
func (m *minioStorage) Save(ctx context.Context, r io.Reader, size int64, originalName string) (string, error) {
	if r == nil || size == 0 {
		return "", ErrEmptyFile
	}

	name := newStoredName(originalName)
	contentType := "application/octet-stream"
	if strings.HasSuffix(name, ".pdf") {
		contentType = "application/pdf"
	}

	info, err := m.client.PutObject(ctx, m.bucket, name, r, size, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{"original-filename": originalName},
	})
	if err != nil {
		return "", fmt.Errorf("upload to storage: %w", err)
	}
	if info.Size == 0 {
		// Unknown-size uploads can only be checked after the fact.
		_ = m.client.RemoveObject(ctx, m.bucket, name, minio.RemoveObjectOptions{})
		return "", ErrEmptyFile
	}
	return name, nil
}

// Open downloads an object's content as a streaming reader.
func (m *minioStorage) Open(ctx context.Context, storedName string) (io.ReadCloser, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, storedName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}
	// GetObject is lazy; Stat forces the existence check without buffering content.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		var resp minio.ErrorResponse
		if errors.As(err, &resp) && resp.Code == "NoSuchKey" {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("stat object: %w", err)
	}
	return obj, nil
}

// Delete removes an object by stored name. S3 removal of an absent key succeeds.
func (m *minioStorage) Delete(ctx context.Context, storedName string) error {
	return m.client.RemoveObject(ctx, m.bucket, storedName, minio.RemoveObjectOptions{})
}
