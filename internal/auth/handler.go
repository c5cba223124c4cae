package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sales_crm_backend/internal/users"
	"sales_crm_backend/platform/httpkit"
	"sales_crm_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"fullName" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	AccessToken string             `json:"accessToken"`
	ExpiresAt   time.Time          `json:"expiresAt"`
	User        users.UserResponse `json:"user"`
}

func toTokenResponse(pair TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken: pair.AccessToken,
		ExpiresAt:   pair.ExpiresAt,
		User:        users.ToResponse(pair.User),
	}
}

type Handler struct {
	svc *Service
	val *validator.Validator
}

func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterPublicRoutes mounts the unauthenticated auth endpoints.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.Register)
	rg.POST("/login", h.Login)
}

// RegisterProtectedRoutes mounts endpoints that need a valid token.
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.Me)
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	pair, err := h.svc.Register(c.Request.Context(), RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, toTokenResponse(pair))
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	pair, err := h.svc.Login(c.Request.Context(), Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toTokenResponse(pair))
}

func (h *Handler) Me(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	user, err := h.svc.Me(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, users.ToResponse(user))
}
