package opportunities

import (
	"net/http"

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
	var req CreateOpportunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	opp, err := h.svc.Create(c.Request.Context(), CreateParams{
		ClientName:          req.ClientName,
		OpportunityName:     req.OpportunityName,
		SalesOwner:          req.SalesOwner,
		DealValue:           req.DealValue,
		ProbabilityPercent:  req.ProbabilityPercent,
		NextAction:          req.NextAction,
		PartnerOrg:          req.PartnerOrg,
		Industry:            req.Industry,
		Region:              req.Region,
		Country:             req.Country,
		Solution:            req.Solution,
		Currency:            req.Currency,
		Stage:               req.Stage,
		ExpectedClosureDate: req.ExpectedClosureDate,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, toResponse(opp))
}

func (h *Handler) List(c *gin.Context) {
	opps, err := h.svc.List(c.Request.Context(), c.Query("stage"))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toResponses(opps))
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	opp, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toResponse(opp))
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req UpdateOpportunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	opp, err := h.svc.Update(c.Request.Context(), id, UpdateParams{
		ClientName:          req.ClientName,
		OpportunityName:     req.OpportunityName,
		SalesOwner:          req.SalesOwner,
		DealValue:           req.DealValue,
		ProbabilityPercent:  req.ProbabilityPercent,
		WinLossReason:       req.WinLossReason,
		LastInteraction:     req.LastInteraction,
		NextAction:          req.NextAction,
		PartnerOrg:          req.PartnerOrg,
		Industry:            req.Industry,
		Region:              req.Region,
		Country:             req.Country,
		Solution:            req.Solution,
		Currency:            req.Currency,
		Stage:               req.Stage,
		ExpectedClosureDate: req.ExpectedClosureDate,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toResponse(opp))
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
