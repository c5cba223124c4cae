package settings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound  = errors.New("setting not found")
	ErrTypeTaken = errors.New("setting type already exists")
)

// Option is one dropdown entry, stored as part of the setting's data jsonb
// column. Region attribution is only set for country options.
type Option struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Region string `json:"region,omitempty"`
}

type Setting struct {
	ID          uuid.UUID
	SettingType string
	Data        []Option
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const settingColumns = `
	id, setting_type, data, created_at, updated_at`

func scanSetting(row pgx.Row) (Setting, error) {
	var s Setting
	err := row.Scan(&s.ID, &s.SettingType, &s.Data, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Setting{}, ErrNotFound
	}
	return s, err
}

func (r *Repository) Create(ctx context.Context, settingType string, data []Option) (Setting, error) {
	if data == nil {
		data = []Option{}
	}
	setting, err := scanSetting(r.pool.QueryRow(ctx, `
		INSERT INTO settings (setting_type, data)
		VALUES ($1, $2)
		RETURNING `+settingColumns,
		settingType, data,
	))
	if isUniqueViolation(err) {
		return Setting{}, ErrTypeTaken
	}
	return setting, err
}

func (r *Repository) GetByType(ctx context.Context, settingType string) (Setting, error) {
	return scanSetting(r.pool.QueryRow(ctx,
		`SELECT `+settingColumns+` FROM settings WHERE setting_type = $1`, settingType))
}

func (r *Repository) List(ctx context.Context) ([]Setting, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+settingColumns+` FROM settings ORDER BY setting_type ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Setting, 0)
	for rows.Next() {
		s, err := scanSetting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repository) Update(ctx context.Context, settingType string, data []Option) (Setting, error) {
	if data == nil {
		data = []Option{}
	}
	return scanSetting(r.pool.QueryRow(ctx, `
		UPDATE settings SET data = $2, updated_at = now()
		WHERE setting_type = $1
		RETURNING `+settingColumns,
		settingType, data,
	))
}

// Upsert replaces the setting's data, creating the row when absent.
func (r *Repository) Upsert(ctx context.Context, settingType string, data []Option) (Setting, error) {
	if data == nil {
		data = []Option{}
	}
	return scanSetting(r.pool.QueryRow(ctx, `
		INSERT INTO settings (setting_type, data)
		VALUES ($1, $2)
		ON CONFLICT (setting_type)
		DO UPDATE SET data = EXCLUDED.data, updated_at = now()
		RETURNING `+settingColumns,
		settingType, data,
	))
}

func (r *Repository) Delete(ctx context.Context, settingType string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM settings WHERE setting_type = $1`, settingType)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	// 23505 is the Postgres unique_violation code.
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
