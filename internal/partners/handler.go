package partners

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

type CreatePartnerRequest struct {
	OrgName     string    `json:"orgName" validate:"required"`
	PartnerType string    `json:"partnerType"`
	Status      string    `json:"status" validate:"omitempty,oneof=Active Inactive"`
	Region      string    `json:"region"`
	Country     string    `json:"country"`
	Website     string    `json:"website" validate:"omitempty,url"`
	Contacts    []Contact `json:"contacts" validate:"dive"`
	Notes       string    `json:"notes"`
}

type UpdatePartnerRequest struct {
	OrgName     *string    `json:"orgName"`
	PartnerType *string    `json:"partnerType"`
	Status      *string    `json:"status" validate:"omitempty,oneof=Active Inactive"`
	Region      *string    `json:"region"`
	Country     *string    `json:"country"`
	Website     *string    `json:"website" validate:"omitempty,url"`
	Contacts    *[]Contact `json:"contacts"`
	Notes       *string    `json:"notes"`
}

type PartnerResponse struct {
	ID          uuid.UUID `json:"id"`
	OrgName     string    `json:"orgName"`
	PartnerType string    `json:"partnerType"`
	Status      string    `json:"status"`
	Region      string    `json:"region"`
	Country     string    `json:"country"`
	Website     string    `json:"website"`
	Contacts    []Contact `json:"contacts"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toResponse(p Partner) PartnerResponse {
	if p.Contacts == nil {
		p.Contacts = []Contact{}
	}
	return PartnerResponse{
		ID:          p.ID,
		OrgName:     p.OrgName,
		PartnerType: p.PartnerType,
		Status:      p.Status,
		Region:      p.Region,
		Country:     p.Country,
		Website:     p.Website,
		Contacts:    p.Contacts,
		Notes:       p.Notes,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
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
	var req CreatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	partner, err := h.svc.Create(c.Request.Context(), CreateParams{
		OrgName:     req.OrgName,
		PartnerType: req.PartnerType,
		Status:      req.Status,
		Region:      req.Region,
		Country:     req.Country,
		Website:     req.Website,
		Contacts:    req.Contacts,
		Notes:       req.Notes,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, toResponse(partner))
}

func (h *Handler) List(c *gin.Context) {
	partners, err := h.svc.List(c.Request.Context(), c.Query("status"))
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]PartnerResponse, 0, len(partners))
	for _, partner := range partners {
		out = append(out, toResponse(partner))
	}
	httpkit.OK(c, out)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	partner, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toResponse(partner))
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req UpdatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	partner, err := h.svc.Update(c.Request.Context(), id, UpdateParams{
		OrgName:     req.OrgName,
		PartnerType: req.PartnerType,
		Status:      req.Status,
		Region:      req.Region,
		Country:     req.Country,
		Website:     req.Website,
		Contacts:    req.Contacts,
		Notes:       req.Notes,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toResponse(partner))
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
