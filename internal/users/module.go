// Package users provides admin-managed user account provisioning.
package users

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"sales_crm_backend/internal/events"
	apphttp "sales_crm_backend/internal/http"
	"sales_crm_backend/platform/validator"
)

type Module struct {
	handler *Handler
	service *Service
}

func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator) *Module {
	repo := NewRepository(pool)
	svc := NewService(repo, bus)

	return &Module{
		handler: NewHandler(svc, val),
		service: svc,
	}
}

// Service exposes the user service for the auth module's credential checks.
func (m *Module) Service() *Service {
	return m.service
}

func (m *Module) Name() string { return "users" }

// RegisterRoutes mounts user management under the admin-only group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Admin.Group("/users"))
}
