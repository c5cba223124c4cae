package performance

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sales_crm_backend/platform/httpkit"
)

const msgInvalidRequest = "invalid request"

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/proposal-counts", h.ProposalCounts)
	rg.GET("/:id/performance", h.ForEmployee)
}

func (h *Handler) ForEmployee(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	perf, err := h.svc.ForEmployee(c.Request.Context(), id, c.Query("month"))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, perf)
}

func (h *Handler) ProposalCounts(c *gin.Context) {
	counts, err := h.svc.ProposalCounts(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, counts)
}
