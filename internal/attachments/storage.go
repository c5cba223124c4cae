package attachments

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"sales_crm_backend/platform/config"
)

// downloadURLTTL bounds how long a presigned download link stays valid.
const downloadURLTTL = 15 * time.Minute

// ObjectStore wraps the MinIO client for attachment blobs.
type ObjectStore struct {
	client      *minio.Client
	bucket      string
	maxFileSize int64
}

func NewObjectStore(cfg config.StorageConfig) (*ObjectStore, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("object storage is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &ObjectStore{
		client:      client,
		bucket:      cfg.GetMinIOBucketAttachments(),
		maxFileSize: cfg.GetMinIOMaxFileSize(),
	}, nil
}

// EnsureBucket creates the attachment bucket if it does not exist yet.
func (s *ObjectStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

// Put stores the blob under a collision-free key derived from the original
// file name and returns that key.
func (s *ObjectStore) Put(ctx context.Context, folder, fileName, contentType string, reader io.Reader, size int64) (string, error) {
	ext := path.Ext(fileName)
	baseName := strings.TrimSuffix(fileName, ext)
	uniqueName := fmt.Sprintf("%s_%s%s", baseName, uuid.New().String()[:8], ext)
	fileKey := filepath.ToSlash(filepath.Join(folder, uniqueName))

	_, err := s.client.PutObject(ctx, s.bucket, fileKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", fileKey, err)
	}
	return fileKey, nil
}

// DownloadURL returns a short-lived presigned GET link for the stored blob.
func (s *ObjectStore) DownloadURL(ctx context.Context, fileKey string) (string, time.Time, error) {
	expiresAt := time.Now().Add(downloadURLTTL)
	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, fileKey, downloadURLTTL, url.Values{})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("presign %s: %w", fileKey, err)
	}
	return presigned.String(), expiresAt, nil
}

// Remove deletes the stored blob.
func (s *ObjectStore) Remove(ctx context.Context, fileKey string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, fileKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete %s: %w", fileKey, err)
	}
	return nil
}

// MaxFileSize returns the configured upload size cap in bytes.
func (s *ObjectStore) MaxFileSize() int64 {
	return s.maxFileSize
}
