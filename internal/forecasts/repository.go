package forecasts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("forecast not found")

type Forecast struct {
	ID                  uuid.UUID
	TaskID              string
	ClientName          string
	OpportunityName     string
	DealValue           float64
	ProbabilityPercent  int
	ForecastAmount      float64
	Currency            string
	Month               string
	Quarter             string
	Year                int
	LinkedOpportunityID *uuid.UUID
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const forecastColumns = `
	id, task_id, client_name, opportunity_name, deal_value, probability_percent,
	forecast_amount, currency, month, quarter, year, linked_opportunity_id,
	created_at, updated_at`

func scanForecast(row pgx.Row) (Forecast, error) {
	var f Forecast
	err := row.Scan(
		&f.ID, &f.TaskID, &f.ClientName, &f.OpportunityName, &f.DealValue,
		&f.ProbabilityPercent, &f.ForecastAmount, &f.Currency, &f.Month,
		&f.Quarter, &f.Year, &f.LinkedOpportunityID, &f.CreatedAt, &f.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Forecast{}, ErrNotFound
	}
	return f, err
}

type CreateParams struct {
	TaskID              string
	ClientName          string
	OpportunityName     string
	DealValue           float64
	ProbabilityPercent  int
	ForecastAmount      float64
	Currency            string
	Month               string
	Quarter             string
	Year                int
	LinkedOpportunityID *uuid.UUID
}

func (r *Repository) Create(ctx context.Context, params CreateParams) (Forecast, error) {
	return scanForecast(r.pool.QueryRow(ctx, `
		INSERT INTO forecasts (
			task_id, client_name, opportunity_name, deal_value, probability_percent,
			forecast_amount, currency, month, quarter, year, linked_opportunity_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+forecastColumns,
		params.TaskID, params.ClientName, params.OpportunityName, params.DealValue,
		params.ProbabilityPercent, params.ForecastAmount, params.Currency,
		params.Month, params.Quarter, params.Year, params.LinkedOpportunityID,
	))
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Forecast, error) {
	return scanForecast(r.pool.QueryRow(ctx,
		`SELECT `+forecastColumns+` FROM forecasts WHERE id = $1`, id))
}

type ListParams struct {
	Quarter string
	Year    int
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]Forecast, error) {
	conds := []string{}
	args := []any{}
	if params.Quarter != "" {
		args = append(args, params.Quarter)
		conds = append(conds, fmt.Sprintf("quarter = $%d", len(args)))
	}
	if params.Year != 0 {
		args = append(args, params.Year)
		conds = append(conds, fmt.Sprintf("year = $%d", len(args)))
	}

	query := `SELECT ` + forecastColumns + ` FROM forecasts`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY year DESC, quarter DESC, created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	forecasts := make([]Forecast, 0)
	for rows.Next() {
		f, err := scanForecast(rows)
		if err != nil {
			return nil, err
		}
		forecasts = append(forecasts, f)
	}
	return forecasts, rows.Err()
}

type UpdateParams struct {
	ClientName         *string
	OpportunityName    *string
	DealValue          *float64
	ProbabilityPercent *int
	ForecastAmount     *float64
	Currency           *string
	Month              *string
	Quarter            *string
	Year               *int
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Forecast, error) {
	sets := []string{"updated_at = now()"}
	args := []any{}

	addSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.ClientName != nil {
		addSet("client_name", *params.ClientName)
	}
	if params.OpportunityName != nil {
		addSet("opportunity_name", *params.OpportunityName)
	}
	if params.DealValue != nil {
		addSet("deal_value", *params.DealValue)
	}
	if params.ProbabilityPercent != nil {
		addSet("probability_percent", *params.ProbabilityPercent)
	}
	if params.ForecastAmount != nil {
		addSet("forecast_amount", *params.ForecastAmount)
	}
	if params.Currency != nil {
		addSet("currency", *params.Currency)
	}
	if params.Month != nil {
		addSet("month", *params.Month)
	}
	if params.Quarter != nil {
		addSet("quarter", *params.Quarter)
	}
	if params.Year != nil {
		addSet("year", *params.Year)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE forecasts SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), forecastColumns)

	return scanForecast(r.pool.QueryRow(ctx, query, args...))
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM forecasts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
