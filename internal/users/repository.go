package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
)

type User struct {
	ID              uuid.UUID
	Email           string
	PasswordHash    string
	FullName        string
	Role            string
	Status          string
	AssignedRegions []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `
	id, email, password_hash, full_name, role, status, assigned_regions,
	created_at, updated_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Role, &u.Status,
		&u.AssignedRegions, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

type CreateParams struct {
	Email           string
	PasswordHash    string
	FullName        string
	Role            string
	Status          string
	AssignedRegions []string
}

func (r *Repository) Create(ctx context.Context, params CreateParams) (User, error) {
	if params.AssignedRegions == nil {
		params.AssignedRegions = []string{}
	}
	user, err := scanUser(r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, full_name, role, status, assigned_regions)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+userColumns,
		params.Email, params.PasswordHash, params.FullName, params.Role,
		params.Status, params.AssignedRegions,
	))
	if isUniqueViolation(err) {
		return User{}, ErrEmailTaken
	}
	return user, err
}

// 23505 is the Postgres unique_violation code.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
}

func (r *Repository) List(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY full_name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

type UpdateParams struct {
	FullName        *string
	Role            *string
	Status          *string
	AssignedRegions *[]string
	PasswordHash    *string
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (User, error) {
	sets := []string{"updated_at = now()"}
	args := []any{}

	addSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.FullName != nil {
		addSet("full_name", *params.FullName)
	}
	if params.Role != nil {
		addSet("role", *params.Role)
	}
	if params.Status != nil {
		addSet("status", *params.Status)
	}
	if params.AssignedRegions != nil {
		addSet("assigned_regions", *params.AssignedRegions)
	}
	if params.PasswordHash != nil {
		addSet("password_hash", *params.PasswordHash)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), userColumns)

	return scanUser(r.pool.QueryRow(ctx, query, args...))
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
