package dashboard

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) count(ctx context.Context, table string) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM `+table).Scan(&n)
	return n, err
}

func (r *Repository) CountLeads(ctx context.Context) (int64, error) {
	return r.count(ctx, "leads")
}

func (r *Repository) CountOpportunities(ctx context.Context) (int64, error) {
	return r.count(ctx, "opportunities")
}

func (r *Repository) CountClients(ctx context.Context) (int64, error) {
	return r.count(ctx, "clients")
}

func (r *Repository) CountPartners(ctx context.Context) (int64, error) {
	return r.count(ctx, "partners")
}

func (r *Repository) CountSOWs(ctx context.Context) (int64, error) {
	return r.count(ctx, "sows")
}

func (r *Repository) CountOpenActionItems(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM action_items WHERE status <> 'Completed'`).Scan(&n)
	return n, err
}

func (r *Repository) groupCount(ctx context.Context, query string) (map[string]int64, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var key string
		var n int64
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		out[key] = n
	}
	return out, rows.Err()
}

func (r *Repository) OpportunitiesByStage(ctx context.Context) (map[string]int64, error) {
	return r.groupCount(ctx,
		`SELECT stage, count(*) FROM opportunities GROUP BY stage`)
}

func (r *Repository) LeadsBySource(ctx context.Context) (map[string]int64, error) {
	return r.groupCount(ctx,
		`SELECT coalesce(nullif(lead_source, ''), 'Unknown'), count(*) FROM leads GROUP BY 1`)
}

func (r *Repository) PipelineValue(ctx context.Context) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx, `
		SELECT coalesce(sum(deal_value), 0) FROM opportunities
		WHERE stage NOT IN ('Closed Won', 'Closed Lost')
	`).Scan(&total)
	return total, err
}
