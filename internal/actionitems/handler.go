package actionitems

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
	var req CreateActionItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	item, err := h.svc.Create(c.Request.Context(), CreateParams{
		Title:        req.Title,
		Description:  req.Description,
		AssignedTo:   req.AssignedTo,
		Priority:     req.Priority,
		Status:       req.Status,
		DueDate:      req.DueDate,
		LinkedTaskID: req.LinkedTaskID,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, toResponse(item))
}

func (h *Handler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), ListParams{
		Status:     c.Query("status"),
		AssignedTo: c.Query("assignedTo"),
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toResponses(items))
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	item, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toResponse(item))
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req UpdateActionItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	item, err := h.svc.Update(c.Request.Context(), id, UpdateParams{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		Priority:    req.Priority,
		Status:      req.Status,
		DueDate:     req.DueDate,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toResponse(item))
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
