package users

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

type CreateUserRequest struct {
	Email           string   `json:"email" validate:"required,email"`
	FullName        string   `json:"fullName" validate:"required"`
	Role            string   `json:"role" validate:"omitempty,oneof=Admin Manager Sales"`
	AssignedRegions []string `json:"assignedRegions"`
}

type UpdateUserRequest struct {
	FullName        *string   `json:"fullName"`
	Role            *string   `json:"role" validate:"omitempty,oneof=Admin Manager Sales"`
	Status          *string   `json:"status" validate:"omitempty,oneof=Active Disabled"`
	AssignedRegions *[]string `json:"assignedRegions"`
}

type UserResponse struct {
	ID              uuid.UUID `json:"id"`
	Email           string    `json:"email"`
	FullName        string    `json:"fullName"`
	Role            string    `json:"role"`
	Status          string    `json:"status"`
	AssignedRegions []string  `json:"assignedRegions"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ToResponse strips the password hash from the wire shape.
func ToResponse(u User) UserResponse {
	if u.AssignedRegions == nil {
		u.AssignedRegions = []string{}
	}
	return UserResponse{
		ID:              u.ID,
		Email:           u.Email,
		FullName:        u.FullName,
		Role:            u.Role,
		Status:          u.Status,
		AssignedRegions: u.AssignedRegions,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
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
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	user, err := h.svc.Create(c.Request.Context(), CreateUserInput{
		Email:           req.Email,
		FullName:        req.FullName,
		Role:            req.Role,
		AssignedRegions: req.AssignedRegions,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, ToResponse(user))
}

func (h *Handler) List(c *gin.Context) {
	users, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, ToResponse(user))
	}
	httpkit.OK(c, out)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	user, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, ToResponse(user))
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	user, err := h.svc.Update(c.Request.Context(), id, UpdateUserInput{
		FullName:        req.FullName,
		Role:            req.Role,
		Status:          req.Status,
		AssignedRegions: req.AssignedRegions,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, ToResponse(user))
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
