package auth

import (
	apphttp "sales_crm_backend/internal/http"
	"sales_crm_backend/platform/config"
	"sales_crm_backend/platform/logger"
	"sales_crm_backend/platform/validator"
)

type Module struct {
	handler *Handler
}

func NewModule(userSource UserSource, cfg config.AuthServiceConfig, log *logger.Logger, val *validator.Validator) *Module {
	svc := NewService(userSource, cfg, log)
	return &Module{handler: NewHandler(svc, val)}
}

func (m *Module) Name() string { return "auth" }

// RegisterRoutes mounts login/register publicly, behind the stricter auth
// rate limiter, and /me behind token auth.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	public := ctx.V1.Group("/auth")
	public.Use(ctx.AuthRateLimiter.RateLimit())
	m.handler.RegisterPublicRoutes(public)

	m.handler.RegisterProtectedRoutes(ctx.Protected.Group("/auth"))
}
