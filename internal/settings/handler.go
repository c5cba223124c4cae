package settings

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

type CreateSettingRequest struct {
	SettingType string   `json:"settingType" validate:"required"`
	Data        []Option `json:"data" validate:"dive"`
}

type UpdateSettingRequest struct {
	Data []Option `json:"data" validate:"required,dive"`
}

type SettingResponse struct {
	ID          uuid.UUID `json:"id"`
	SettingType string    `json:"settingType"`
	Data        []Option  `json:"data"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toResponse(s Setting) SettingResponse {
	if s.Data == nil {
		s.Data = []Option{}
	}
	return SettingResponse{
		ID:          s.ID,
		SettingType: s.SettingType,
		Data:        s.Data,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

type Handler struct {
	svc *Service
	val *validator.Validator
}

func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts the read side for authenticated users.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:settingType", h.Get)
}

// RegisterMasterRoutes mounts the dropdown endpoints.
func (h *Handler) RegisterMasterRoutes(rg *gin.RouterGroup) {
	rg.GET("/regions", h.Regions)
	rg.GET("/countries", h.Countries)
	rg.GET("/countries/by-region/:region", h.CountriesByRegion)
}

// RegisterAdminRoutes mounts the write side.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.PUT("/:settingType", h.Update)
	rg.DELETE("/:settingType", h.Delete)
}

// RegisterMasterAdminRoutes mounts the master-data replacement endpoints.
func (h *Handler) RegisterMasterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/regions", h.replaceHandler(TypeRegions))
	rg.POST("/countries", h.replaceHandler(TypeCountries))
}

func (h *Handler) replaceHandler(settingType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var data []Option
		if err := c.ShouldBindJSON(&data); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}

		setting, err := h.svc.Replace(c.Request.Context(), settingType, data)
		if httpkit.HandleError(c, err) {
			return
		}
		httpkit.OK(c, gin.H{"settingType": setting.SettingType, "count": len(setting.Data)})
	}
}

func (h *Handler) List(c *gin.Context) {
	settings, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	out := make([]SettingResponse, 0, len(settings))
	for _, s := range settings {
		out = append(out, toResponse(s))
	}
	httpkit.OK(c, out)
}

func (h *Handler) Get(c *gin.Context) {
	setting, err := h.svc.Get(c.Request.Context(), c.Param("settingType"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toResponse(setting))
}

func (h *Handler) Regions(c *gin.Context) {
	options, err := h.svc.Options(c.Request.Context(), TypeRegions)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, options)
}

func (h *Handler) Countries(c *gin.Context) {
	options, err := h.svc.Options(c.Request.Context(), TypeCountries)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, options)
}

func (h *Handler) CountriesByRegion(c *gin.Context) {
	options, err := h.svc.CountriesByRegion(c.Request.Context(), c.Param("region"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, options)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	setting, err := h.svc.Create(c.Request.Context(), req.SettingType, req.Data)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, toResponse(setting))
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	setting, err := h.svc.Update(c.Request.Context(), c.Param("settingType"), req.Data)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toResponse(setting))
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("settingType")); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}
