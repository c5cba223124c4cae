package clients

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

var ErrNotFound = errors.New("client not found")

// Contact is an embedded contact person, stored as part of the client's
// contacts jsonb column.
type Contact struct {
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type Client struct {
	ID          uuid.UUID
	CompanyName string
	Industry    string
	Tier        string
	Status      string
	Website     string
	Region      string
	Country     string
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

const clientColumns = `
	id, company_name, industry, tier, status, website, region, country,
	contacts, notes, created_at, updated_at`

func scanClient(row pgx.Row) (Client, error) {
	var c Client
	err := row.Scan(
		&c.ID, &c.CompanyName, &c.Industry, &c.Tier, &c.Status, &c.Website,
		&c.Region, &c.Country, &c.Contacts, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Client{}, ErrNotFound
	}
	return c, err
}

type CreateParams struct {
	CompanyName string
	Industry    string
	Tier        string
	Status      string
	Website     string
	Region      string
	Country     string
	Contacts    []Contact
	Notes       string
}

func (r *Repository) Create(ctx context.Context, params CreateParams) (Client, error) {
	if params.Contacts == nil {
		params.Contacts = []Contact{}
	}
	return scanClient(r.pool.QueryRow(ctx, `
		INSERT INTO clients (
			company_name, industry, tier, status, website, region, country, contacts, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+clientColumns,
		params.CompanyName, params.Industry, params.Tier, params.Status,
		params.Website, params.Region, params.Country, params.Contacts, params.Notes,
	))
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Client, error) {
	return scanClient(r.pool.QueryRow(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
}

type ListParams struct {
	Tier   string
	Status string
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]Client, error) {
	conds := []string{}
	args := []any{}
	if params.Tier != "" {
		args = append(args, params.Tier)
		conds = append(conds, fmt.Sprintf("tier = $%d", len(args)))
	}
	if params.Status != "" {
		args = append(args, params.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + clientColumns + ` FROM clients`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY company_name ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := make([]Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

type UpdateParams struct {
	CompanyName *string
	Industry    *string
	Tier        *string
	Status      *string
	Website     *string
	Region      *string
	Country     *string
	Contacts    *[]Contact
	Notes       *string
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Client, error) {
	sets := []string{"updated_at = now()"}
	args := []any{}

	addSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.CompanyName != nil {
		addSet("company_name", *params.CompanyName)
	}
	if params.Industry != nil {
		addSet("industry", *params.Industry)
	}
	if params.Tier != nil {
		addSet("tier", *params.Tier)
	}
	if params.Status != nil {
		addSet("status", *params.Status)
	}
	if params.Website != nil {
		addSet("website", *params.Website)
	}
	if params.Region != nil {
		addSet("region", *params.Region)
	}
	if params.Country != nil {
		addSet("country", *params.Country)
	}
	if params.Contacts != nil {
		addSet("contacts", *params.Contacts)
	}
	if params.Notes != nil {
		addSet("notes", *params.Notes)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE clients SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), clientColumns)

	return scanClient(r.pool.QueryRow(ctx, query, args...))
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
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
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM clients`).Scan(&count)
	return count, err
}
