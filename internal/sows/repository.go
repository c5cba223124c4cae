package sows

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

var ErrNotFound = errors.New("sow not found")

// Status values for a statement of work.
const (
	StatusDraft     = "Draft"
	StatusActive    = "Active"
	StatusOnHold    = "On Hold"
	StatusCompleted = "Completed"
)

func validStatus(status string) bool {
	switch status {
	case StatusDraft, StatusActive, StatusOnHold, StatusCompleted:
		return true
	}
	return false
}

type SOW struct {
	ID                  uuid.UUID
	TaskID              string
	ClientName          string
	ProjectName         string
	Owner               string
	Description         string
	Value               float64
	Currency            string
	Status              string
	StartDate           *string
	EndDate             *string
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

const sowColumns = `
	id, task_id, client_name, project_name, owner, description, value, currency,
	status, start_date, end_date, linked_opportunity_id, created_at, updated_at`

func scanSOW(row pgx.Row) (SOW, error) {
	var s SOW
	err := row.Scan(
		&s.ID, &s.TaskID, &s.ClientName, &s.ProjectName, &s.Owner, &s.Description,
		&s.Value, &s.Currency, &s.Status, &s.StartDate, &s.EndDate,
		&s.LinkedOpportunityID, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return SOW{}, ErrNotFound
	}
	return s, err
}

type CreateParams struct {
	TaskID              string
	ClientName          string
	ProjectName         string
	Owner               string
	Description         string
	Value               float64
	Currency            string
	Status              string
	StartDate           *string
	EndDate             *string
	LinkedOpportunityID *uuid.UUID
}

func (r *Repository) Create(ctx context.Context, params CreateParams) (SOW, error) {
	return scanSOW(r.pool.QueryRow(ctx, `
		INSERT INTO sows (
			task_id, client_name, project_name, owner, description, value, currency,
			status, start_date, end_date, linked_opportunity_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+sowColumns,
		params.TaskID, params.ClientName, params.ProjectName, params.Owner, params.Description,
		params.Value, params.Currency, params.Status, params.StartDate,
		params.EndDate, params.LinkedOpportunityID,
	))
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (SOW, error) {
	return scanSOW(r.pool.QueryRow(ctx,
		`SELECT `+sowColumns+` FROM sows WHERE id = $1`, id))
}

func (r *Repository) List(ctx context.Context, status string) ([]SOW, error) {
	query := `SELECT ` + sowColumns + ` FROM sows`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sows := make([]SOW, 0)
	for rows.Next() {
		s, err := scanSOW(rows)
		if err != nil {
			return nil, err
		}
		sows = append(sows, s)
	}
	return sows, rows.Err()
}

type UpdateParams struct {
	ClientName  *string
	ProjectName *string
	Owner       *string
	Description *string
	Value       *float64
	Currency    *string
	Status      *string
	StartDate   *string
	EndDate     *string
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (SOW, error) {
	sets := []string{"updated_at = now()"}
	args := []any{}

	addSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.ClientName != nil {
		addSet("client_name", *params.ClientName)
	}
	if params.ProjectName != nil {
		addSet("project_name", *params.ProjectName)
	}
	if params.Owner != nil {
		addSet("owner", *params.Owner)
	}
	if params.Description != nil {
		addSet("description", *params.Description)
	}
	if params.Value != nil {
		addSet("value", *params.Value)
	}
	if params.Currency != nil {
		addSet("currency", *params.Currency)
	}
	if params.Status != nil {
		addSet("status", *params.Status)
	}
	if params.StartDate != nil {
		addSet("start_date", *params.StartDate)
	}
	if params.EndDate != nil {
		addSet("end_date", *params.EndDate)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE sows SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), sowColumns)

	return scanSOW(r.pool.QueryRow(ctx, query, args...))
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sows WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
