// Package dashboard aggregates cross-entity counts for the overview screen.
package dashboard

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "sales_crm_backend/internal/http"
	"sales_crm_backend/platform/httpkit"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Overview(c *gin.Context) {
	counts, err := h.svc.Overview(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, counts)
}

type Module struct {
	handler *Handler
}

func NewModule(pool *pgxpool.Pool) *Module {
	svc := NewService(NewRepository(pool))
	return &Module{handler: NewHandler(svc)}
}

func (m *Module) Name() string { return "dashboard" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/dashboard", m.handler.Overview)
}
