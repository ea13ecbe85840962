package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/safevault/safevault-api/internal/api/handler"
	"github.com/safevault/safevault-api/internal/api/middleware"
	"github.com/safevault/safevault-api/internal/core/domain"
	"github.com/safevault/safevault-api/internal/core/ports"
	"github.com/safevault/safevault-api/internal/core/token"
)

// Dependencies carries the wired services the router mounts. The composition
// root (cmd/server) builds them so it can share the stores with the bootstrap
// step.
type Dependencies struct {
	AuthService ports.AuthService
	RoleService ports.RoleService
	Verifier    *token.Verifier
	Mongo       *mongo.Database
	Redis       *redis.Client
	Log         zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	authMiddleware := middleware.Auth(deps.Verifier)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Role administration (Admin only) ---
	roleHandler := handler.NewRoleHandler(deps.RoleService)
	roles := e.Group("/roles", authMiddleware, middleware.RBAC(domain.RoleAdmin))
	roles.GET("", roleHandler.ListAll)
	roles.POST("", roleHandler.Create)
	roles.POST("/assign", roleHandler.Assign)
	roles.POST("/remove", roleHandler.Remove)
	roles.GET("/user/:email", roleHandler.UserRoles)

	// --- RBAC probe endpoints ---
	testHandler := handler.NewTestHandler()
	test := e.Group("/test", authMiddleware)
	test.GET("/auth", testHandler.Authenticated)
	test.GET("/admin", testHandler.OnlyAdmins, middleware.RBAC(domain.RoleAdmin))
	test.GET("/manager", testHandler.OnlyManagers, middleware.RBAC(domain.RoleManager))
	test.GET("/admin-or-manager", testHandler.AdminOrManager, middleware.RBAC(domain.RoleAdmin, domain.RoleManager))

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
