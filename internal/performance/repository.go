package performance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Record is one pipeline item attributed to an employee, drawn from the
// leads, opportunities or sows table. RawStatus carries the source table's
// own stage or status text; the service maps it to a proposal bucket.
type Record struct {
	ID         uuid.UUID
	TaskID     string
	Source     string
	ClientName string
	Name       string
	Value      float64
	Currency   string
	RawStatus  string
	UpdatedAt  time.Time
}

const (
	SourceLead        = "lead"
	SourceOpportunity = "opportunity"
	SourceSOW         = "sow"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) records(ctx context.Context, source, query, owner string, from, to *time.Time) ([]Record, error) {
	args := []any{owner}
	if from != nil && to != nil {
		query += ` AND updated_at >= $2 AND updated_at < $3`
		args = append(args, *from, *to)
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		rec := Record{Source: source}
		if err := rows.Scan(
			&rec.ID, &rec.TaskID, &rec.ClientName, &rec.Name,
			&rec.Value, &rec.Currency, &rec.RawStatus, &rec.UpdatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *Repository) LeadRecords(ctx context.Context, owner string, from, to *time.Time) ([]Record, error) {
	return r.records(ctx, SourceLead, `
		SELECT id, task_id, client_name, opportunity_name, estimated_value,
			currency, stage, updated_at
		FROM leads WHERE lead_owner = $1`, owner, from, to)
}

func (r *Repository) OpportunityRecords(ctx context.Context, owner string, from, to *time.Time) ([]Record, error) {
	return r.records(ctx, SourceOpportunity, `
		SELECT id, task_id, client_name, opportunity_name, deal_value,
			currency, stage, updated_at
		FROM opportunities WHERE sales_owner = $1`, owner, from, to)
}

func (r *Repository) SOWRecords(ctx context.Context, owner string, from, to *time.Time) ([]Record, error) {
	return r.records(ctx, SourceSOW, `
		SELECT id, task_id, client_name, project_name, value,
			currency, status, updated_at
		FROM sows WHERE owner = $1`, owner, from, to)
}
