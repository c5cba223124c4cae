package attachments

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"sales_crm_backend/platform/apperr"
	"sales_crm_backend/platform/logger"
)

// BlobStore is the object storage surface the service needs.
type BlobStore interface {
	Put(ctx context.Context, folder, fileName, contentType string, reader io.Reader, size int64) (string, error)
	DownloadURL(ctx context.Context, fileKey string) (string, time.Time, error)
	Remove(ctx context.Context, fileKey string) error
	MaxFileSize() int64
}

type Store interface {
	Create(ctx context.Context, params CreateParams) (Attachment, error)
	GetByID(ctx context.Context, id uuid.UUID) (Attachment, error)
	ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]Attachment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	store Store
	blobs BlobStore
	log   *logger.Logger
}

func NewService(store Store, blobs BlobStore, log *logger.Logger) *Service {
	return &Service{store: store, blobs: blobs, log: log}
}

type UploadInput struct {
	EntityType  string
	EntityID    uuid.UUID
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
	UploadedBy  string
}

func (s *Service) Upload(ctx context.Context, input UploadInput) (Attachment, error) {
	if !validEntityType(input.EntityType) {
		return Attachment{}, apperr.Validation("unknown attachment entity type")
	}
	if input.Size <= 0 {
		return Attachment{}, apperr.Validation("empty upload")
	}
	if input.Size > s.blobs.MaxFileSize() {
		return Attachment{}, apperr.Validation(
			fmt.Sprintf("file exceeds the %d byte limit", s.blobs.MaxFileSize()))
	}

	folder := fmt.Sprintf("%s/%s", input.EntityType, input.EntityID)
	fileKey, err := s.blobs.Put(ctx, folder, input.FileName, input.ContentType, input.Body, input.Size)
	if err != nil {
		return Attachment{}, apperr.Transient("object storage unavailable", err)
	}

	attachment, err := s.store.Create(ctx, CreateParams{
		EntityType:  input.EntityType,
		EntityID:    input.EntityID,
		FileName:    input.FileName,
		FileKey:     fileKey,
		ContentType: input.ContentType,
		SizeBytes:   input.Size,
		UploadedBy:  input.UploadedBy,
	})
	if err != nil {
		// Metadata insert failed; drop the orphaned blob.
		if removeErr := s.blobs.Remove(ctx, fileKey); removeErr != nil {
			s.log.Error("orphaned attachment blob", "file_key", fileKey, "error", removeErr)
		}
		return Attachment{}, storageErr("attachments.upload", err)
	}
	return attachment, nil
}

func (s *Service) ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]Attachment, error) {
	if !validEntityType(entityType) {
		return nil, apperr.Validation("unknown attachment entity type")
	}
	attachments, err := s.store.ListByEntity(ctx, entityType, entityID)
	if err != nil {
		return nil, storageErr("attachments.list", err)
	}
	return attachments, nil
}

// DownloadURL resolves the attachment and presigns a short-lived GET link.
func (s *Service) DownloadURL(ctx context.Context, id uuid.UUID) (string, time.Time, error) {
	attachment, err := s.store.GetByID(ctx, id)
	if err != nil {
		return "", time.Time{}, storageErr("attachments.download_url", err)
	}
	link, expiresAt, err := s.blobs.DownloadURL(ctx, attachment.FileKey)
	if err != nil {
		return "", time.Time{}, apperr.Transient("object storage unavailable", err)
	}
	return link, expiresAt, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	attachment, err := s.store.GetByID(ctx, id)
	if err != nil {
		return storageErr("attachments.delete", err)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return storageErr("attachments.delete", err)
	}
	if err := s.blobs.Remove(ctx, attachment.FileKey); err != nil {
		s.log.Error("attachment blob left behind", "file_key", attachment.FileKey, "error", err)
	}
	return nil
}

func storageErr(op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound("attachment not found")
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	e := apperr.Transient("attachment storage unavailable", err)
	e.Op = op
	return e
}
