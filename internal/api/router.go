package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/sirpyerre/account-service/internal/api/handler"
	"github.com/sirpyerre/account-service/internal/api/middleware"
	"github.com/sirpyerre/account-service/internal/core/domain"
	"github.com/sirpyerre/account-service/internal/core/ports"
)

// Deps bundles everything the router needs.
type Deps struct {
	AuthService ports.AuthService
	UserService ports.UserService
	Store       handler.Pinger
	Redis       *redis.Client // nil when caching is disabled
	JWTSecret   string
	Logger      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("accounts"))

	authHandler := handler.NewAuthHandler(deps.AuthService, deps.UserService)
	userHandler := handler.NewUserHandler(deps.UserService)
	authMiddleware := middleware.Auth(deps.JWTSecret)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/profile", authHandler.Profile, authMiddleware)

	// --- User management ---
	// Per-route permissions follow the access policy table; self-or-permission
	// checks for GET/PUT /users/:id live in the handlers.
	users := e.Group("/users", authMiddleware)
	users.GET("", userHandler.List, middleware.Require(domain.ActionViewAllAccounts))
	users.GET("/:id", userHandler.Get)
	users.POST("", userHandler.Create, middleware.Require(domain.ActionCreateAccount))
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete, middleware.Require(domain.ActionDeleteAccount))

	// --- Observability and docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Store, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	return e
}
