package activities

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sales_crm_backend/platform/httpkit"
	"sales_crm_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type CreateActivityRequest struct {
	TaskID              string     `json:"taskId" validate:"required"`
	ActivityType        string     `json:"activityType" validate:"omitempty,oneof=Call Email Meeting Demo Note"`
	Subject             string     `json:"subject" validate:"required"`
	Details             string     `json:"details"`
	ActivityDate        *string    `json:"activityDate"`
	ClientName          string     `json:"clientName"`
	LinkedLeadID        *uuid.UUID `json:"linkedLeadId"`
	LinkedOpportunityID *uuid.UUID `json:"linkedOpportunityId"`
}

type UpdateActivityRequest struct {
	ActivityType *string `json:"activityType" validate:"omitempty,oneof=Call Email Meeting Demo Note"`
	Subject      *string `json:"subject"`
	Details      *string `json:"details"`
	ActivityDate *string `json:"activityDate"`
	ClientName   *string `json:"clientName"`
}

type ActivityResponse struct {
	ID                  uuid.UUID  `json:"id"`
	TaskID              string     `json:"taskId"`
	ActivityType        string     `json:"activityType"`
	Subject             string     `json:"subject"`
	Details             string     `json:"details"`
	ActivityDate        *string    `json:"activityDate,omitempty"`
	PerformedBy         string     `json:"performedBy"`
	ClientName          string     `json:"clientName"`
	LinkedLeadID        *uuid.UUID `json:"linkedLeadId,omitempty"`
	LinkedOpportunityID *uuid.UUID `json:"linkedOpportunityId,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

func toResponse(a Activity) ActivityResponse {
	return ActivityResponse{
		ID:                  a.ID,
		TaskID:              a.TaskID,
		ActivityType:        a.ActivityType,
		Subject:             a.Subject,
		Details:             a.Details,
		ActivityDate:        a.ActivityDate,
		PerformedBy:         a.PerformedBy,
		ClientName:          a.ClientName,
		LinkedLeadID:        a.LinkedLeadID,
		LinkedOpportunityID: a.LinkedOpportunityID,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
	}
}

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
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	activity, err := h.svc.Create(c.Request.Context(), CreateParams{
		TaskID:              req.TaskID,
		ActivityType:        req.ActivityType,
		Subject:             req.Subject,
		Details:             req.Details,
		ActivityDate:        req.ActivityDate,
		PerformedBy:         identity.Name(),
		ClientName:          req.ClientName,
		LinkedLeadID:        req.LinkedLeadID,
		LinkedOpportunityID: req.LinkedOpportunityID,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, toResponse(activity))
}

func (h *Handler) List(c *gin.Context) {
	activities, err := h.svc.List(c.Request.Context(), ListParams{
		TaskID:       c.Query("taskId"),
		ActivityType: c.Query("type"),
	})
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]ActivityResponse, 0, len(activities))
	for _, activity := range activities {
		out = append(out, toResponse(activity))
	}
	httpkit.OK(c, out)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	activity, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toResponse(activity))
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req UpdateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	activity, err := h.svc.Update(c.Request.Context(), id, UpdateParams{
		ActivityType: req.ActivityType,
		Subject:      req.Subject,
		Details:      req.Details,
		ActivityDate: req.ActivityDate,
		ClientName:   req.ClientName,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toResponse(activity))
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
