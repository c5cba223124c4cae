package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sales_crm_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Lead struct {
	ID                  uuid.UUID
	TaskID              string
	ClientName          string
	OpportunityName     string
	LeadScore           int
	SalesPOC            string
	LeadOwner           string
	NextFollowup        *string
	LeadSource          string
	Region              string
	Country             string
	Industry            string
	ContactPerson       string
	ContactEmail        *string
	ContactPhone        *string
	Solution            string
	EstimatedValue      float64
	Currency            string
	Stage               domain.Stage
	Probability         int
	ExpectedClosureDate *string
	NextAction          string
	Notes               string
	Comments            string
	LeadStatus          domain.Status
	LinkedOpportunityID *uuid.UUID
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

const leadColumns = `
	id, task_id, client_name, opportunity_name, lead_score, sales_poc, lead_owner,
	next_followup, lead_source, region, country, industry, contact_person,
	contact_email, contact_phone, solution, estimated_value, currency, stage,
	probability, expected_closure_date, next_action, notes, comments,
	lead_status, linked_opportunity_id, created_at, updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	err := row.Scan(
		&lead.ID, &lead.TaskID, &lead.ClientName, &lead.OpportunityName,
		&lead.LeadScore, &lead.SalesPOC, &lead.LeadOwner, &lead.NextFollowup,
		&lead.LeadSource, &lead.Region, &lead.Country, &lead.Industry,
		&lead.ContactPerson, &lead.ContactEmail, &lead.ContactPhone,
		&lead.Solution, &lead.EstimatedValue, &lead.Currency, &lead.Stage,
		&lead.Probability, &lead.ExpectedClosureDate, &lead.NextAction,
		&lead.Notes, &lead.Comments, &lead.LeadStatus, &lead.LinkedOpportunityID,
		&lead.CreatedAt, &lead.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

type CreateLeadParams struct {
	TaskID              string
	ClientName          string
	OpportunityName     string
	LeadScore           int
	SalesPOC            string
	LeadOwner           string
	NextFollowup        *string
	LeadSource          string
	Region              string
	Country             string
	Industry            string
	ContactPerson       string
	ContactEmail        *string
	ContactPhone        *string
	Solution            string
	EstimatedValue      float64
	Currency            string
	Stage               domain.Stage
	Probability         int
	ExpectedClosureDate *string
	NextAction          string
	Notes               string
	Comments            string
	LeadStatus          domain.Status
}

// Create inserts the lead together with its creation log entry in one
// transaction: a lead without its seed audit entry must never be visible.
func (r *Repository) Create(ctx context.Context, params CreateLeadParams, entry domain.StatusChangeEntry) (Lead, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Lead{}, err
	}
	defer tx.Rollback(ctx)

	lead, err := scanLead(tx.QueryRow(ctx, `
		INSERT INTO leads (
			task_id, client_name, opportunity_name, lead_score, sales_poc, lead_owner,
			next_followup, lead_source, region, country, industry, contact_person,
			contact_email, contact_phone, solution, estimated_value, currency, stage,
			probability, expected_closure_date, next_action, notes, comments, lead_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
		RETURNING `+leadColumns,
		params.TaskID, params.ClientName, params.OpportunityName, params.LeadScore,
		params.SalesPOC, params.LeadOwner, params.NextFollowup, params.LeadSource,
		params.Region, params.Country, params.Industry, params.ContactPerson,
		params.ContactEmail, params.ContactPhone, params.Solution, params.EstimatedValue,
		params.Currency, params.Stage, params.Probability, params.ExpectedClosureDate,
		params.NextAction, params.Notes, params.Comments, params.LeadStatus,
	))
	if err != nil {
		return Lead{}, err
	}

	entry.LeadID = lead.ID
	if err := insertStatusEntry(ctx, tx, entry); err != nil {
		return Lead{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Lead{}, err
	}
	return lead, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
}

type ListParams struct {
	Stage  *domain.Stage
	Status *domain.Status
	Limit  int
	Offset int
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads`
	args := make([]any, 0, 4)
	conditions := make([]string, 0, 2)

	if params.Stage != nil {
		args = append(args, *params.Stage)
		conditions = append(conditions, fmt.Sprintf("stage = $%d", len(args)))
	}
	if params.Status != nil {
		args = append(args, *params.Status)
		conditions = append(conditions, fmt.Sprintf("lead_status = $%d", len(args)))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY created_at DESC"
	if params.Limit > 0 {
		args = append(args, params.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if params.Offset > 0 {
		args = append(args, params.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

type UpdateLeadParams struct {
	ClientName          *string
	OpportunityName     *string
	LeadScore           *int
	SalesPOC            *string
	NextFollowup        *string
	LeadSource          *string
	Region              *string
	Country             *string
	Industry            *string
	ContactPerson       *string
	ContactEmail        *string
	ContactPhone        *string
	Solution            *string
	EstimatedValue      *float64
	Currency            *string
	Stage               *domain.Stage
	Probability         *int
	ExpectedClosureDate *string
	NextAction          *string
	Notes               *string
	Comments            *string
}

// Update applies the partial update, sets the recomputed status and, when
// entry is non-nil, appends the status log record — all in one transaction.
// The status value and its audit entry are a single logical update.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams, status domain.Status, entry *domain.StatusChangeEntry) (Lead, error) {
	sets := []string{"lead_status = $1", "updated_at = now()"}
	args := []any{status}

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
	if params.LeadScore != nil {
		addSet("lead_score", *params.LeadScore)
	}
	if params.SalesPOC != nil {
		addSet("sales_poc", *params.SalesPOC)
	}
	if params.NextFollowup != nil {
		addSet("next_followup", *params.NextFollowup)
	}
	if params.LeadSource != nil {
		addSet("lead_source", *params.LeadSource)
	}
	if params.Region != nil {
		addSet("region", *params.Region)
	}
	if params.Country != nil {
		addSet("country", *params.Country)
	}
	if params.Industry != nil {
		addSet("industry", *params.Industry)
	}
	if params.ContactPerson != nil {
		addSet("contact_person", *params.ContactPerson)
	}
	if params.ContactEmail != nil {
		addSet("contact_email", *params.ContactEmail)
	}
	if params.ContactPhone != nil {
		addSet("contact_phone", *params.ContactPhone)
	}
	if params.Solution != nil {
		addSet("solution", *params.Solution)
	}
	if params.EstimatedValue != nil {
		addSet("estimated_value", *params.EstimatedValue)
	}
	if params.Currency != nil {
		addSet("currency", *params.Currency)
	}
	if params.Stage != nil {
		addSet("stage", *params.Stage)
	}
	if params.Probability != nil {
		addSet("probability", *params.Probability)
	}
	if params.ExpectedClosureDate != nil {
		addSet("expected_closure_date", *params.ExpectedClosureDate)
	}
	if params.NextAction != nil {
		addSet("next_action", *params.NextAction)
	}
	if params.Notes != nil {
		addSet("notes", *params.Notes)
	}
	if params.Comments != nil {
		addSet("comments", *params.Comments)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE leads SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), leadColumns)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Lead{}, err
	}
	defer tx.Rollback(ctx)

	lead, err := scanLead(tx.QueryRow(ctx, query, args...))
	if err != nil {
		return Lead{}, err
	}

	if entry != nil {
		entry.LeadID = lead.ID
		if err := insertStatusEntry(ctx, tx, *entry); err != nil {
			return Lead{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Lead{}, err
	}
	return lead, nil
}

// WriteBackStatus persists a drift correction discovered on read: the stored
// status plus one log entry, atomically. Stage and follow-up are untouched.
func (r *Repository) WriteBackStatus(ctx context.Context, id uuid.UUID, status domain.Status, entry domain.StatusChangeEntry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE leads SET lead_status = $1, updated_at = now() WHERE id = $2
	`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if err := insertStatusEntry(ctx, tx, entry); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// SetLinkedOpportunity records the opportunity a qualified lead converted
// into. Returns false when the lead was already linked, which makes the
// conversion idempotent under concurrent qualification.
func (r *Repository) SetLinkedOpportunity(ctx context.Context, id uuid.UUID, opportunityID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads SET linked_opportunity_id = $1, updated_at = now()
		WHERE id = $2 AND linked_opportunity_id IS NULL
	`, opportunityID, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
