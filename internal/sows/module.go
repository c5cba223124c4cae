// Package sows provides the statement-of-work bounded context. Draft SOWs
// are created automatically when an opportunity closes as won.
package sows

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

func NewModule(pool *pgxpool.Pool, ids TaskIDSource, opps OpportunityLinker, bus events.Bus, log *logger.Logger, val *validator.Validator) *Module {
	repo := NewRepository(pool)
	svc := NewService(repo, ids, opps, log)

	bus.Subscribe(events.OpportunityWon{}.EventName(), events.HandlerFunc(
		func(ctx context.Context, event events.Event) error {
			evt, ok := event.(events.OpportunityWon)
			if !ok {
				return fmt.Errorf("unexpected event type %T", event)
			}
			return svc.DraftFromWin(ctx, evt)
		}))

	return &Module{
		handler: NewHandler(svc, val),
		service: svc,
	}
}

func (m *Module) Service() *Service {
	return m.service
}

func (m *Module) Name() string { return "sows" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/sows"))
}
