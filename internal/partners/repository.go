package partners

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

var ErrNotFound = errors.New("partner not found")

// Contact is an embedded contact person, stored in the partner's contacts
// jsonb column.
type Contact struct {
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type Partner struct {
	ID          uuid.UUID
	OrgName     string
	PartnerType string
	Status      string
	Region      string
	Country     string
	Website     string
	Contacts    []Contact
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const partnerColumns = `
	id, org_name, partner_type, status, region, country, website, contacts,
	notes, created_at, updated_at`

func scanPartner(row pgx.Row) (Partner, error) {
	var p Partner
	err := row.Scan(
		&p.ID, &p.OrgName, &p.PartnerType, &p.Status, &p.Region, &p.Country,
		&p.Website, &p.Contacts, &p.Notes, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Partner{}, ErrNotFound
	}
	return p, err
}

type CreateParams struct {
	OrgName     string
	PartnerType string
	Status      string
	Region      string
	Country     string
	Website     string
	Contacts    []Contact
	Notes       string
}

func (r *Repository) Create(ctx context.Context, params CreateParams) (Partner, error) {
	if params.Contacts == nil {
		params.Contacts = []Contact{}
	}
	return scanPartner(r.pool.QueryRow(ctx, `
		INSERT INTO partners (
			org_name, partner_type, status, region, country, website, contacts, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+partnerColumns,
		params.OrgName, params.PartnerType, params.Status, params.Region,
		params.Country, params.Website, params.Contacts, params.Notes,
	))
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Partner, error) {
	return scanPartner(r.pool.QueryRow(ctx,
		`SELECT `+partnerColumns+` FROM partners WHERE id = $1`, id))
}

func (r *Repository) List(ctx context.Context, status string) ([]Partner, error) {
	query := `SELECT ` + partnerColumns + ` FROM partners`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY org_name ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	partners := make([]Partner, 0)
	for rows.Next() {
		p, err := scanPartner(rows)
		if err != nil {
			return nil, err
		}
		partners = append(partners, p)
	}
	return partners, rows.Err()
}

type UpdateParams struct {
	OrgName     *string
	PartnerType *string
	Status      *string
	Region      *string
	Country     *string
	Website     *string
	Contacts    *[]Contact
	Notes       *string
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Partner, error) {
	sets := []string{"updated_at = now()"}
	args := []any{}

	addSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.OrgName != nil {
		addSet("org_name", *params.OrgName)
	}
	if params.PartnerType != nil {
		addSet("partner_type", *params.PartnerType)
	}
	if params.Status != nil {
		addSet("status", *params.Status)
	}
	if params.Region != nil {
		addSet("region", *params.Region)
	}
	if params.Country != nil {
		addSet("country", *params.Country)
	}
	if params.Website != nil {
		addSet("website", *params.Website)
	}
	if params.Contacts != nil {
		addSet("contacts", *params.Contacts)
	}
	if params.Notes != nil {
		addSet("notes", *params.Notes)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE partners SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), partnerColumns)

	return scanPartner(r.pool.QueryRow(ctx, query, args...))
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM partners WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM partners`).Scan(&count)
	return count, err
}
