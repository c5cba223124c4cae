package attachments

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("attachment not found")

// EntityType values an attachment can hang off.
const (
	EntityLead = "lead"
	EntitySOW  = "sow"
)

func validEntityType(entityType string) bool {
	return entityType == EntityLead || entityType == EntitySOW
}

type Attachment struct {
	ID          uuid.UUID
	EntityType  string
	EntityID    uuid.UUID
	FileName    string
	FileKey     string
	ContentType string
	SizeBytes   int64
	UploadedBy  string
	CreatedAt   time.Time
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const attachmentColumns = `
	id, entity_type, entity_id, file_name, file_key, content_type, size_bytes,
	uploaded_by, created_at`

func scanAttachment(row pgx.Row) (Attachment, error) {
	var a Attachment
	err := row.Scan(
		&a.ID, &a.EntityType, &a.EntityID, &a.FileName, &a.FileKey,
		&a.ContentType, &a.SizeBytes, &a.UploadedBy, &a.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Attachment{}, ErrNotFound
	}
	return a, err
}

type CreateParams struct {
	EntityType  string
	EntityID    uuid.UUID
	FileName    string
	FileKey     string
	ContentType string
	SizeBytes   int64
	UploadedBy  string
}

func (r *Repository) Create(ctx context.Context, params CreateParams) (Attachment, error) {
	return scanAttachment(r.pool.QueryRow(ctx, `
		INSERT INTO attachments (
			entity_type, entity_id, file_name, file_key, content_type, size_bytes, uploaded_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+attachmentColumns,
		params.EntityType, params.EntityID, params.FileName, params.FileKey,
		params.ContentType, params.SizeBytes, params.UploadedBy,
	))
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Attachment, error) {
	return scanAttachment(r.pool.QueryRow(ctx,
		`SELECT `+attachmentColumns+` FROM attachments WHERE id = $1`, id))
}

func (r *Repository) ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]Attachment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+attachmentColumns+` FROM attachments
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC
	`, entityType, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attachments := make([]Attachment, 0)
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, a)
	}
	return attachments, rows.Err()
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM attachments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
