// Package settings holds the master reference data (regions, countries and
// other dropdown option lists) keyed by setting type.
package settings

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "sales_crm_backend/internal/http"
	"sales_crm_backend/platform/validator"
)

type Module struct {
	handler *Handler
}

func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	svc := NewService(NewRepository(pool))
	return &Module{handler: NewHandler(svc, val)}
}

func (m *Module) Name() string { return "settings" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/settings"))
	m.handler.RegisterMasterRoutes(ctx.Protected.Group("/master"))
	m.handler.RegisterAdminRoutes(ctx.Admin.Group("/settings"))
	m.handler.RegisterMasterAdminRoutes(ctx.Admin.Group("/master"))
}
