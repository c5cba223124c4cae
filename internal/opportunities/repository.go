package opportunities

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

var ErrNotFound = errors.New("opportunity not found")

// Stage values for the opportunity pipeline.
const (
	StageProspecting   = "Prospecting"
	StageNeedsAnalysis = "Needs Analysis"
	StageProposal      = "Proposal"
	StageNegotiation   = "Negotiation"
	StageClosedWon     = "Closed Won"
	StageClosedLost    = "Closed Lost"
)

func validStage(stage string) bool {
	switch stage {
	case StageProspecting, StageNeedsAnalysis, StageProposal, StageNegotiation, StageClosedWon, StageClosedLost:
		return true
	}
	return false
}

type Opportunity struct {
	ID                  uuid.UUID
	TaskID              string
	ClientName          string
	OpportunityName     string
	SalesOwner          string
	DealValue           float64
	ProbabilityPercent  int
	WinLossReason       *string
	LastInteraction     *time.Time
	NextAction          string
	PartnerOrg          string
	Industry            string
	Region              string
	Country             string
	Solution            string
	Currency            string
	Stage               string
	ExpectedClosureDate *string
	LinkedLeadID        *uuid.UUID
	LinkedSOWID         *uuid.UUID
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const opportunityColumns = `
	id, task_id, client_name, opportunity_name, sales_owner, deal_value,
	probability_percent, win_loss_reason, last_interaction, next_action,
	partner_org, industry, region, country, solution, currency, stage,
	expected_closure_date, linked_lead_id, linked_sow_id, created_at, updated_at`

func scanOpportunity(row pgx.Row) (Opportunity, error) {
	var opp Opportunity
	err := row.Scan(
		&opp.ID, &opp.TaskID, &opp.ClientName, &opp.OpportunityName, &opp.SalesOwner,
		&opp.DealValue, &opp.ProbabilityPercent, &opp.WinLossReason, &opp.LastInteraction,
		&opp.NextAction, &opp.PartnerOrg, &opp.Industry, &opp.Region, &opp.Country,
		&opp.Solution, &opp.Currency, &opp.Stage, &opp.ExpectedClosureDate,
		&opp.LinkedLeadID, &opp.LinkedSOWID, &opp.CreatedAt, &opp.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Opportunity{}, ErrNotFound
	}
	return opp, err
}

type CreateParams struct {
	TaskID              string
	ClientName          string
	OpportunityName     string
	SalesOwner          string
	DealValue           float64
	ProbabilityPercent  int
	NextAction          string
	PartnerOrg          string
	Industry            string
	Region              string
	Country             string
	Solution            string
	Currency            string
	Stage               string
	ExpectedClosureDate *string
	LinkedLeadID        *uuid.UUID
}

func (r *Repository) Create(ctx context.Context, params CreateParams) (Opportunity, error) {
	return scanOpportunity(r.pool.QueryRow(ctx, `
		INSERT INTO opportunities (
			task_id, client_name, opportunity_name, sales_owner, deal_value,
			probability_percent, next_action, partner_org, industry, region, country,
			solution, currency, stage, expected_closure_date, linked_lead_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING `+opportunityColumns,
		params.TaskID, params.ClientName, params.OpportunityName, params.SalesOwner,
		params.DealValue, params.ProbabilityPercent, params.NextAction, params.PartnerOrg,
		params.Industry, params.Region, params.Country, params.Solution,
		params.Currency, params.Stage, params.ExpectedClosureDate, params.LinkedLeadID,
	))
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Opportunity, error) {
	return scanOpportunity(r.pool.QueryRow(ctx,
		`SELECT `+opportunityColumns+` FROM opportunities WHERE id = $1`, id))
}

func (r *Repository) List(ctx context.Context, stage string) ([]Opportunity, error) {
	query := `SELECT ` + opportunityColumns + ` FROM opportunities`
	args := []any{}
	if stage != "" {
		query += ` WHERE stage = $1`
		args = append(args, stage)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	opps := make([]Opportunity, 0)
	for rows.Next() {
		opp, err := scanOpportunity(rows)
		if err != nil {
			return nil, err
		}
		opps = append(opps, opp)
	}
	return opps, rows.Err()
}

type UpdateParams struct {
	ClientName          *string
	OpportunityName     *string
	SalesOwner          *string
	DealValue           *float64
	ProbabilityPercent  *int
	WinLossReason       *string
	LastInteraction     *time.Time
	NextAction          *string
	PartnerOrg          *string
	Industry            *string
	Region              *string
	Country             *string
	Solution            *string
	Currency            *string
	Stage               *string
	ExpectedClosureDate *string
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Opportunity, error) {
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
	if params.SalesOwner != nil {
		addSet("sales_owner", *params.SalesOwner)
	}
	if params.DealValue != nil {
		addSet("deal_value", *params.DealValue)
	}
	if params.ProbabilityPercent != nil {
		addSet("probability_percent", *params.ProbabilityPercent)
	}
	if params.WinLossReason != nil {
		addSet("win_loss_reason", *params.WinLossReason)
	}
	if params.LastInteraction != nil {
		addSet("last_interaction", *params.LastInteraction)
	}
	if params.NextAction != nil {
		addSet("next_action", *params.NextAction)
	}
	if params.PartnerOrg != nil {
		addSet("partner_org", *params.PartnerOrg)
	}
	if params.Industry != nil {
		addSet("industry", *params.Industry)
	}
	if params.Region != nil {
		addSet("region", *params.Region)
	}
	if params.Country != nil {
		addSet("country", *params.Country)
	}
	if params.Solution != nil {
		addSet("solution", *params.Solution)
	}
	if params.Currency != nil {
		addSet("currency", *params.Currency)
	}
	if params.Stage != nil {
		addSet("stage", *params.Stage)
	}
	if params.ExpectedClosureDate != nil {
		addSet("expected_closure_date", *params.ExpectedClosureDate)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE opportunities SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), opportunityColumns)

	return scanOpportunity(r.pool.QueryRow(ctx, query, args...))
}

// SetLinkedSOW records the SOW a won opportunity spawned. Returns false when
// already linked, keeping the Closed Won workflow idempotent.
func (r *Repository) SetLinkedSOW(ctx context.Context, id uuid.UUID, sowID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE opportunities SET linked_sow_id = $1, updated_at = now()
		WHERE id = $2 AND linked_sow_id IS NULL
	`, sowID, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM opportunities WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
