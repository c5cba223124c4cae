// Package partners provides the partner organization bounded context.
package partners

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "sales_crm_backend/internal/http"
	"sales_crm_backend/platform/validator"
)

type Module struct {
	handler *Handler
	repo    *Repository
}

func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := NewRepository(pool)
	svc := NewService(repo)

	return &Module{
		handler: NewHandler(svc, val),
		repo:    repo,
	}
}

// Repository exposes the repository for dashboard counting.
func (m *Module) Repository() *Repository {
	return m.repo
}

func (m *Module) Name() string { return "partners" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/partners"))
}
