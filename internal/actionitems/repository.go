package actionitems

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

var ErrNotFound = errors.New("action item not found")

// Status values for an action item. Overdue is derived from the due date,
// never set directly by callers.
const (
	StatusOpen       = "Open"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
	StatusOverdue    = "Overdue"
)

func validStatus(status string) bool {
	switch status {
	case StatusOpen, StatusInProgress, StatusCompleted, StatusOverdue:
		return true
	}
	return false
}

type ActionItem struct {
	ID           uuid.UUID
	Title        string
	Description  string
	AssignedTo   string
	Priority     string
	Status       string
	DueDate      *string
	LinkedTaskID string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const actionItemColumns = `
	id, title, description, assigned_to, priority, status, due_date,
	linked_task_id, created_at, updated_at`

func scanActionItem(row pgx.Row) (ActionItem, error) {
	var item ActionItem
	err := row.Scan(
		&item.ID, &item.Title, &item.Description, &item.AssignedTo,
		&item.Priority, &item.Status, &item.DueDate, &item.LinkedTaskID,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return ActionItem{}, ErrNotFound
	}
	return item, err
}

type CreateParams struct {
	Title        string
	Description  string
	AssignedTo   string
	Priority     string
	Status       string
	DueDate      *string
	LinkedTaskID string
}

func (r *Repository) Create(ctx context.Context, params CreateParams) (ActionItem, error) {
	return scanActionItem(r.pool.QueryRow(ctx, `
		INSERT INTO action_items (
			title, description, assigned_to, priority, status, due_date, linked_task_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+actionItemColumns,
		params.Title, params.Description, params.AssignedTo, params.Priority,
		params.Status, params.DueDate, params.LinkedTaskID,
	))
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (ActionItem, error) {
	return scanActionItem(r.pool.QueryRow(ctx,
		`SELECT `+actionItemColumns+` FROM action_items WHERE id = $1`, id))
}

type ListParams struct {
	Status     string
	AssignedTo string
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]ActionItem, error) {
	conds := []string{}
	args := []any{}
	if params.Status != "" {
		args = append(args, params.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if params.AssignedTo != "" {
		args = append(args, params.AssignedTo)
		conds = append(conds, fmt.Sprintf("assigned_to = $%d", len(args)))
	}

	query := `SELECT ` + actionItemColumns + ` FROM action_items`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]ActionItem, 0)
	for rows.Next() {
		item, err := scanActionItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

type UpdateParams struct {
	Title       *string
	Description *string
	AssignedTo  *string
	Priority    *string
	Status      *string
	DueDate     *string
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (ActionItem, error) {
	sets := []string{"updated_at = now()"}
	args := []any{}

	addSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.Title != nil {
		addSet("title", *params.Title)
	}
	if params.Description != nil {
		addSet("description", *params.Description)
	}
	if params.AssignedTo != nil {
		addSet("assigned_to", *params.AssignedTo)
	}
	if params.Priority != nil {
		addSet("priority", *params.Priority)
	}
	if params.Status != nil {
		addSet("status", *params.Status)
	}
	if params.DueDate != nil {
		addSet("due_date", *params.DueDate)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE action_items SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), actionItemColumns)

	return scanActionItem(r.pool.QueryRow(ctx, query, args...))
}

// WriteBackStatus corrects a stale stored status after derivation.
func (r *Repository) WriteBackStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE action_items SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	return err
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM action_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
