// Package opportunities provides the opportunity pipeline bounded context,
// including the event-driven conversion of qualified leads.
package opportunities

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"sales_crm_backend/internal/events"
	apphttp "sales_crm_backend/internal/http"
	"sales_crm_backend/platform/logger"
	"sales_crm_backend/platform/validator"
)

type Module struct {
	handler *Handler
	service *Service
}

// NewModule wires the opportunities repository, service and handler, and
// subscribes the lead conversion workflow to the qualification event.
func NewModule(pool *pgxpool.Pool, ids TaskIDSource, leads LeadLinker, bus events.Bus, log *logger.Logger, val *validator.Validator) *Module {
	repo := NewRepository(pool)
	svc := NewService(repo, ids, leads, bus, log)

	bus.Subscribe(events.LeadQualified{}.EventName(), events.HandlerFunc(
		func(ctx context.Context, event events.Event) error {
			evt, ok := event.(events.LeadQualified)
			if !ok {
				return fmt.Errorf("unexpected event type %T", event)
			}
			return svc.ConvertFromLead(ctx, evt)
		}))

	return &Module{
		handler: NewHandler(svc, val),
		service: svc,
	}
}

// Service exposes the opportunity service for the SOW workflow, which links
// the created SOW back to the won opportunity.
func (m *Module) Service() *Service {
	return m.service
}

func (m *Module) Name() string { return "opportunities" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/opportunities"))
}
