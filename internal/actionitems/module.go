// Package actionitems provides the action item bounded context. Items past
// their due date surface as Overdue without anyone editing them.
package actionitems

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "sales_crm_backend/internal/http"
	"sales_crm_backend/platform/logger"
	"sales_crm_backend/platform/validator"
)

type Module struct {
	handler *Handler
	service *Service
}

func NewModule(pool *pgxpool.Pool, log *logger.Logger, val *validator.Validator) *Module {
	repo := NewRepository(pool)
	svc := NewService(repo, log, time.Now)

	return &Module{
		handler: NewHandler(svc, val),
		service: svc,
	}
}

// Service exposes the action item service for the background overdue sweep.
func (m *Module) Service() *Service {
	return m.service
}

func (m *Module) Name() string { return "actionitems" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/action-items"))
}
