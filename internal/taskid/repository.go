package taskid

import (
	"context"
	"errors"

	"sales_crm_backend/platform/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements Counter on Postgres. The increment is a single
// INSERT ... ON CONFLICT DO UPDATE ... RETURNING statement, so concurrent
// callers across any number of instances each observe a distinct value.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a counter repository over the given pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Increment(ctx context.Context, name string) (int64, error) {
	var sequence int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO counters (name, sequence)
		VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET sequence = counters.sequence + 1
		RETURNING sequence
	`, name).Scan(&sequence)
	if err != nil {
		return 0, apperr.Transient("counter increment failed", err).WithOp("taskid.Increment")
	}
	return sequence, nil
}

func (r *Repository) Current(ctx context.Context, name string) (int64, error) {
	var sequence int64
	err := r.pool.QueryRow(ctx, `
		SELECT sequence FROM counters WHERE name = $1
	`, name).Scan(&sequence)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, apperr.Transient("counter read failed", err).WithOp("taskid.Current")
	}
	return sequence, nil
}

func (r *Repository) Set(ctx context.Context, name string, value int64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO counters (name, sequence)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET sequence = EXCLUDED.sequence
	`, name, value)
	if err != nil {
		return apperr.Transient("counter seed failed", err).WithOp("taskid.Set")
	}
	return nil
}
