package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/gemach/admin-console/internal/api/handler"
	"github.com/gemach/admin-console/internal/api/middleware"
	"github.com/gemach/admin-console/internal/core/domain"
	"github.com/gemach/admin-console/internal/core/ports"
	"github.com/gemach/admin-console/internal/pkg/validation"
)

// Deps are the services the router wires into handlers.
type Deps struct {
	AuthService  ports.AuthService
	AuditService ports.AuditService
	AuditSink    handler.AuditSink
	JWTSecret    string
	Checks       []handler.DependencyCheck
	Log          zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))

	authHandler := handler.NewAuthHandler(d.AuthService, d.AuditSink)
	auditHandler := handler.NewAuditHandler(d.AuditService)
	requireAuth := middleware.Auth(d.JWTSecret)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout, requireAuth)
	auth.GET("/profile", authHandler.Profile, requireAuth)

	// --- Admin routes ---
	e.GET("/users", authHandler.ListUsers, requireAuth, adminOnly)
	e.GET("/audit-logs", auditHandler.List, requireAuth, adminOnly)

	// --- Health probes and metrics (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(d.Checks...).Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
