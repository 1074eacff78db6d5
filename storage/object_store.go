package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStore is the subset of object-storage behavior the recorder needs.
type ObjectStore interface {
	Put(ctx context.Context, key string, contents []byte, contentType string) error
}

// MinioStore stores objects in a MinIO (S3 compatible) bucket.
type MinioStore struct {
	client *minio.Client
	bucket string
}

// NewMinioStore creates a MinioStore for the given endpoint and bucket.
func NewMinioStore(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client for %s: %w", endpoint, err)
	}

	return &MinioStore{client: client, bucket: bucket}, nil
}

// Put uploads the contents under key, preserving the declared content type.
func (s *MinioStore) Put(ctx context.Context, key string, contents []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key,
		bytes.NewReader(contents), int64(len(contents)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}
