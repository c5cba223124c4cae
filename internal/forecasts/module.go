// Package forecasts provides the revenue forecast bounded context. Won
// opportunities book their full deal value into the current fiscal bucket.
package forecasts

import (
	"context"
	"fmt"
	"time"

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

func NewModule(pool *pgxpool.Pool, bus events.Bus, log *logger.Logger, val *validator.Validator) *Module {
	repo := NewRepository(pool)
	svc := NewService(repo, log, time.Now)

	bus.Subscribe(events.OpportunityWon{}.EventName(), events.HandlerFunc(
		func(ctx context.Context, event events.Event) error {
			evt, ok := event.(events.OpportunityWon)
			if !ok {
				return fmt.Errorf("unexpected event type %T", event)
			}
			return svc.RecordWin(ctx, evt)
		}))

	return &Module{
		handler: NewHandler(svc, val),
		service: svc,
	}
}

func (m *Module) Name() string { return "forecasts" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/forecasts"))
}
