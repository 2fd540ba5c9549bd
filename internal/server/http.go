// Package server assembles the gin router: global middleware, the public and
// guarded /api/v1 groups, and the operational endpoints.
package server

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sepehr-khosravi/mazeh-backend/internal/audit"
	healthhandler "github.com/Sepehr-khosravi/mazeh-backend/internal/health/handler"
	identityhandler "github.com/Sepehr-khosravi/mazeh-backend/internal/identity/handler"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/observability"
	recipehandler "github.com/Sepehr-khosravi/mazeh-backend/internal/recipe/handler"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/server/middleware"
	storagehandler "github.com/Sepehr-khosravi/mazeh-backend/internal/storage/handler"
)

// Info is reported by the root endpoint.
type Info struct {
	Name    string
	Version string
	Env     string
}

// Deps holds everything the router wires. Tokens and Auth are required; a nil
// Recipes or Storage leaves those routes unmounted, and nil operational
// dependencies are skipped.
type Deps struct {
	Info   Info
	Logger *slog.Logger

	// AllowedOrigins for CORS; empty or containing "*" allows any origin.
	AllowedOrigins []string
	TracerProvider trace.TracerProvider
	Metrics        *observability.Registry

	Tokens  middleware.TokenValidator
	Auth    identityhandler.AuthService
	Recipes recipehandler.RecipeService
	Storage storagehandler.StorageService
	Audit   audit.AuditLogger

	HealthPinger healthhandler.Pinger
	HealthPolicy healthhandler.PolicyChecker
}

// NewRouter returns the HTTP handler for the whole service.
func NewRouter(deps Deps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	var metrics *observability.Metrics
	if deps.Metrics != nil {
		metrics = deps.Metrics.Metrics()
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		cors.New(corsConfig(deps.AllowedOrigins)),
		middleware.RequestID(),
		middleware.Trace(deps.TracerProvider),
		middleware.Observe(metrics),
		middleware.AccessLog(logger),
	)

	r.GET("/", rootHandler(deps.Info))
	healthhandler.NewServer(deps.HealthPinger, deps.HealthPolicy, logger).Register(r)
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	api := r.Group("/api/v1", middleware.Audit(deps.Audit))
	guarded := api.Group("", middleware.RequireBearer(deps.Tokens, logger, metrics))

	identityhandler.NewAuthHandler(deps.Auth, deps.Audit, metrics, logger).Register(api, guarded)
	if deps.Recipes != nil {
		recipehandler.NewRecipeHandler(deps.Recipes, logger).Register(guarded)
	}
	if deps.Storage != nil {
		storagehandler.NewStorageHandler(deps.Storage, logger).Register(guarded)
	}
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Type", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func rootHandler(info Info) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": info.Name,
			"version": info.Version,
			"env":     info.Env,
			"health":  "/healthz/readiness",
			"api":     "/api/v1",
		})
	}
}
