// Package activities provides the sales activity log bounded context. Every
// activity hangs off a Task ID so calls and meetings trace back through the
// lead, opportunity and SOW they belong to.
package activities

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "sales_crm_backend/internal/http"
	"sales_crm_backend/platform/validator"
)

type Module struct {
	handler *Handler
}

func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := NewRepository(pool)
	svc := NewService(repo)

	return &Module{handler: NewHandler(svc, val)}
}

func (m *Module) Name() string { return "activities" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/activities"))
}
