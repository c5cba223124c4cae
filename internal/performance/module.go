package performance

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "sales_crm_backend/internal/http"
)

type Module struct {
	handler *Handler
}

func NewModule(pool *pgxpool.Pool, directory Directory) *Module {
	svc := NewService(NewRepository(pool), directory)
	return &Module{handler: NewHandler(svc)}
}

func (m *Module) Name() string { return "performance" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/employees"))
}
