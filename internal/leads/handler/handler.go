// Package handler exposes the leads module over HTTP.
package handler

import (
	"net/http"

	"sales_crm_backend/internal/leads/domain"
	"sales_crm_backend/internal/leads/repository"
	"sales_crm_backend/internal/leads/service"
	"sales_crm_backend/internal/leads/transport"
	"sales_crm_backend/platform/httpkit"
	"sales_crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.GET("/:id/status-history", h.StatusHistory)
}

func actorFrom(c *gin.Context) (domain.Actor, bool) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return domain.Actor{}, false
	}
	return domain.Actor{UserID: id.UserID(), UserName: id.Name()}, true
}

func (h *Handler) Create(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var req transport.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	lead, err := h.svc.Create(c.Request.Context(), req, actor)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, lead)
}

func (h *Handler) List(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	params := repository.ListParams{}
	if raw := c.Query("stage"); raw != "" {
		stage := domain.Stage(raw)
		if !stage.Valid() {
			httpkit.Error(c, http.StatusBadRequest, "unknown stage filter", nil)
			return
		}
		params.Stage = &stage
	}
	if raw := c.Query("status"); raw != "" {
		status := domain.Status(raw)
		if !status.Valid() {
			httpkit.Error(c, http.StatusBadRequest, "unknown status filter", nil)
			return
		}
		params.Status = &status
	}

	leads, err := h.svc.List(c.Request.Context(), params, actor)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, leads)
}

func (h *Handler) GetByID(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	lead, err := h.svc.GetByID(c.Request.Context(), id, actor)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, lead)
}

func (h *Handler) Update(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	lead, err := h.svc.Update(c.Request.Context(), id, req, actor)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, lead)
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

func (h *Handler) StatusHistory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	history, err := h.svc.StatusHistory(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, history)
}
