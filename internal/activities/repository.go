package activities

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

var ErrNotFound = errors.New("activity not found")

type Activity struct {
	ID                  uuid.UUID
	TaskID              string
	ActivityType        string
	Subject             string
	Details             string
	ActivityDate        *string
	PerformedBy         string
	ClientName          string
	LinkedLeadID        *uuid.UUID
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

const activityColumns = `
	id, task_id, activity_type, subject, details, activity_date, performed_by,
	client_name, linked_lead_id, linked_opportunity_id, created_at, updated_at`

func scanActivity(row pgx.Row) (Activity, error) {
	var a Activity
	err := row.Scan(
		&a.ID, &a.TaskID, &a.ActivityType, &a.Subject, &a.Details,
		&a.ActivityDate, &a.PerformedBy, &a.ClientName, &a.LinkedLeadID,
		&a.LinkedOpportunityID, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Activity{}, ErrNotFound
	}
	return a, err
}

type CreateParams struct {
	TaskID              string
	ActivityType        string
	Subject             string
	Details             string
	ActivityDate        *string
	PerformedBy         string
	ClientName          string
	LinkedLeadID        *uuid.UUID
	LinkedOpportunityID *uuid.UUID
}

func (r *Repository) Create(ctx context.Context, params CreateParams) (Activity, error) {
	return scanActivity(r.pool.QueryRow(ctx, `
		INSERT INTO activities (
			task_id, activity_type, subject, details, activity_date, performed_by,
			client_name, linked_lead_id, linked_opportunity_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+activityColumns,
		params.TaskID, params.ActivityType, params.Subject, params.Details,
		params.ActivityDate, params.PerformedBy, params.ClientName,
		params.LinkedLeadID, params.LinkedOpportunityID,
	))
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Activity, error) {
	return scanActivity(r.pool.QueryRow(ctx,
		`SELECT `+activityColumns+` FROM activities WHERE id = $1`, id))
}

type ListParams struct {
	TaskID       string
	ActivityType string
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]Activity, error) {
	conds := []string{}
	args := []any{}
	if params.TaskID != "" {
		args = append(args, params.TaskID)
		conds = append(conds, fmt.Sprintf("task_id = $%d", len(args)))
	}
	if params.ActivityType != "" {
		args = append(args, params.ActivityType)
		conds = append(conds, fmt.Sprintf("activity_type = $%d", len(args)))
	}

	query := `SELECT ` + activityColumns + ` FROM activities`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := make([]Activity, 0)
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

type UpdateParams struct {
	ActivityType *string
	Subject      *string
	Details      *string
	ActivityDate *string
	PerformedBy  *string
	ClientName   *string
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Activity, error) {
	sets := []string{"updated_at = now()"}
	args := []any{}

	addSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.ActivityType != nil {
		addSet("activity_type", *params.ActivityType)
	}
	if params.Subject != nil {
		addSet("subject", *params.Subject)
	}
	if params.Details != nil {
		addSet("details", *params.Details)
	}
	if params.ActivityDate != nil {
		addSet("activity_date", *params.ActivityDate)
	}
	if params.PerformedBy != nil {
		addSet("performed_by", *params.PerformedBy)
	}
	if params.ClientName != nil {
		addSet("client_name", *params.ClientName)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE activities SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), activityColumns)

	return scanActivity(r.pool.QueryRow(ctx, query, args...))
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM activities WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
