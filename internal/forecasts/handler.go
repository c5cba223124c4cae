package forecasts

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sales_crm_backend/platform/httpkit"
	"sales_crm_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc *Service
	val *validator.Validator
}

func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	forecast, err := h.svc.Create(c.Request.Context(), CreateParams{
		TaskID:             req.TaskID,
		ClientName:         req.ClientName,
		OpportunityName:    req.OpportunityName,
		DealValue:          req.DealValue,
		ProbabilityPercent: req.ProbabilityPercent,
		ForecastAmount:     req.ForecastAmount,
		Currency:           req.Currency,
		Month:              req.Month,
		Quarter:            req.Quarter,
		Year:               req.Year,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, toResponse(forecast))
}

func (h *Handler) List(c *gin.Context) {
	params := ListParams{Quarter: c.Query("quarter")}
	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid year filter", nil)
			return
		}
		params.Year = year
	}

	forecasts, err := h.svc.List(c.Request.Context(), params)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toResponses(forecasts))
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	forecast, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toResponse(forecast))
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req UpdateForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	forecast, err := h.svc.Update(c.Request.Context(), id, UpdateParams{
		ClientName:         req.ClientName,
		OpportunityName:    req.OpportunityName,
		DealValue:          req.DealValue,
		ProbabilityPercent: req.ProbabilityPercent,
		ForecastAmount:     req.ForecastAmount,
		Currency:           req.Currency,
		Month:              req.Month,
		Quarter:            req.Quarter,
		Year:               req.Year,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toResponse(forecast))
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"deleted": true})
}
