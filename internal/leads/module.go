// Package leads provides the lead management bounded context module.
package leads

import (
	"time"

	"sales_crm_backend/internal/events"
	apphttp "sales_crm_backend/internal/http"
	"sales_crm_backend/internal/leads/handler"
	"sales_crm_backend/internal/leads/repository"
	"sales_crm_backend/internal/leads/service"
	"sales_crm_backend/internal/taskid"
	"sales_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule wires the leads repository, status engine service and handler.
// The sequencer is shared application-wide so derived entities draw from the
// same Task ID sequence.
func NewModule(pool *pgxpool.Pool, sequencer *taskid.Sequencer, bus events.Bus, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, sequencer, bus, time.Now)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Service exposes the lead service for cross-module consumers (the
// opportunities conversion workflow and the background status sweep).
func (m *Module) Service() *service.Service {
	return m.service
}

// Name returns the module identifier.
func (m *Module) Name() string { return "leads" }

// RegisterRoutes mounts the lead endpoints under the authenticated group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/leads"))
}
