package clients

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

type CreateClientRequest struct {
	CompanyName string    `json:"companyName" validate:"required"`
	Industry    string    `json:"industry"`
	Tier        string    `json:"tier" validate:"omitempty,oneof=Strategic Key Standard"`
	Status      string    `json:"status" validate:"omitempty,oneof=Active Inactive Prospect"`
	Website     string    `json:"website" validate:"omitempty,url"`
	Region      string    `json:"region"`
	Country     string    `json:"country"`
	Contacts    []Contact `json:"contacts" validate:"dive"`
	Notes       string    `json:"notes"`
}

type UpdateClientRequest struct {
	CompanyName *string    `json:"companyName"`
	Industry    *string    `json:"industry"`
	Tier        *string    `json:"tier" validate:"omitempty,oneof=Strategic Key Standard"`
	Status      *string    `json:"status" validate:"omitempty,oneof=Active Inactive Prospect"`
	Website     *string    `json:"website" validate:"omitempty,url"`
	Region      *string    `json:"region"`
	Country     *string    `json:"country"`
	Contacts    *[]Contact `json:"contacts"`
	Notes       *string    `json:"notes"`
}

type ClientResponse struct {
	ID          uuid.UUID `json:"id"`
	CompanyName string    `json:"companyName"`
	Industry    string    `json:"industry"`
	Tier        string    `json:"tier"`
	Status      string    `json:"status"`
	Website     string    `json:"website"`
	Region      string    `json:"region"`
	Country     string    `json:"country"`
	Contacts    []Contact `json:"contacts"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toResponse(c Client) ClientResponse {
	if c.Contacts == nil {
		c.Contacts = []Contact{}
	}
	return ClientResponse{
		ID:          c.ID,
		CompanyName: c.CompanyName,
		Industry:    c.Industry,
		Tier:        c.Tier,
		Status:      c.Status,
		Website:     c.Website,
		Region:      c.Region,
		Country:     c.Country,
		Contacts:    c.Contacts,
		Notes:       c.Notes,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
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
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	client, err := h.svc.Create(c.Request.Context(), CreateParams{
		CompanyName: req.CompanyName,
		Industry:    req.Industry,
		Tier:        req.Tier,
		Status:      req.Status,
		Website:     req.Website,
		Region:      req.Region,
		Country:     req.Country,
		Contacts:    req.Contacts,
		Notes:       req.Notes,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, toResponse(client))
}

func (h *Handler) List(c *gin.Context) {
	clients, err := h.svc.List(c.Request.Context(), ListParams{
		Tier:   c.Query("tier"),
		Status: c.Query("status"),
	})
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]ClientResponse, 0, len(clients))
	for _, client := range clients {
		out = append(out, toResponse(client))
	}
	httpkit.OK(c, out)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	client, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toResponse(client))
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	client, err := h.svc.Update(c.Request.Context(), id, UpdateParams{
		CompanyName: req.CompanyName,
		Industry:    req.Industry,
		Tier:        req.Tier,
		Status:      req.Status,
		Website:     req.Website,
		Region:      req.Region,
		Country:     req.Country,
		Contacts:    req.Contacts,
		Notes:       req.Notes,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toResponse(client))
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
