// server runs the mazeh HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/Sepehr-khosravi/mazeh-backend/internal/audit"
	auditrepo "github.com/Sepehr-khosravi/mazeh-backend/internal/audit/repository"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/config"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/db"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/db/migrate"
	identityservice "github.com/Sepehr-khosravi/mazeh-backend/internal/identity/service"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/logging"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/observability"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/policy/engine"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/recipe/cache"
	reciperepo "github.com/Sepehr-khosravi/mazeh-backend/internal/recipe/repository"
	recipeservice "github.com/Sepehr-khosravi/mazeh-backend/internal/recipe/service"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/security"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/server"
	storagerepo "github.com/Sepehr-khosravi/mazeh-backend/internal/storage/repository"
	storageservice "github.com/Sepehr-khosravi/mazeh-backend/internal/storage/service"
	telemetry "github.com/Sepehr-khosravi/mazeh-backend/internal/telemetry/otel"
	userrepo "github.com/Sepehr-khosravi/mazeh-backend/internal/user/repository"
)

const (
	serviceName     = "mazeh-backend"
	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := newServerCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newServerCmd() *cobra.Command {
	var debug bool
	cmd := &cobra.Command{
		Use:          "server",
		Short:        "Run the mazeh HTTP API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, debug)
		},
	}
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	return cmd
}

func run(ctx context.Context, debug bool) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	logger := logging.SetDefault(serviceName, cfg.Version, cfg.LogFormat, debug)

	providers, err := telemetry.NewProviders(ctx, telemetry.Options{
		Endpoint:       cfg.OTLPEndpoint,
		ServiceName:    serviceName,
		ServiceVersion: cfg.Version,
		Insecure:       cfg.OTLPInsecure,
	})
	if err != nil {
		return oops.Code("OTEL_SETUP_FAILED").Wrap(err)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logging.LogError(shutdownCtx, logger, "otel shutdown failed", err)
		}
	}()

	if cfg.AutoMigrate {
		if err := migrate.Run(cfg.DatabaseURL, "up"); err != nil {
			logging.LogError(ctx, logger, "auto-migrate failed", err)
			return err
		}
		logger.Info("migrations applied")
	}

	pool, err := db.Open(ctx, cfg.DatabaseURL, db.PoolOptions{
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
		Retries:  uint64(max(cfg.DBConnectRetries, 0)),
	})
	if err != nil {
		logging.LogError(ctx, logger, "database unavailable", err)
		return err
	}
	defer pool.Close()

	tokens, err := security.NewTokenProvider([]byte(cfg.JWTKey), cfg.JWTIssuer, cfg.TokenTTL())
	if err != nil {
		return oops.Code("TOKEN_PROVIDER_INVALID").Wrap(err)
	}
	auth := identityservice.NewAuthService(userrepo.NewPostgresRepository(pool), security.NewHasher(cfg.BcryptCost), tokens)

	var recipeCache recipeservice.Cache
	if cfg.RedisURL != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return oops.Code("REDIS_UNAVAILABLE").Wrap(err)
		}
		defer func() { _ = rdb.Close() }()
		recipeCache = cache.NewRecipeCache(rdb, cfg.CacheTTL())
		logger.Info("recipe cache enabled", "ttl", cfg.CacheTTL().String())
	}
	recipes := recipeservice.NewRecipeService(reciperepo.NewPostgresRepository(pool), recipeCache, logger)

	policy := engine.NewOPAEvaluator()
	if err := policy.HealthCheck(ctx); err != nil {
		return oops.Code("POLICY_INVALID").Wrap(err)
	}
	storage := storageservice.NewStorageService(storagerepo.NewPostgresRepository(pool), policy)

	auditLogger := audit.NewLogger(
		auditrepo.NewPostgresRepository(pool),
		telemetry.NewLogEmitter(providers.LoggerProvider, serviceName+"/audit"),
		logger,
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := server.NewRouter(server.Deps{
		Info:           server.Info{Name: serviceName, Version: cfg.Version, Env: cfg.Env},
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins(),
		TracerProvider: providers.TracerProvider,
		Metrics:        observability.NewRegistry(),
		Tokens:         tokens,
		Auth:           auth,
		Recipes:        recipes,
		Storage:        storage,
		Audit:          auditLogger,
		HealthPinger:   pool,
		HealthPolicy:   policy,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logging.LogError(ctx, logger, "http server failed", err)
			return err
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.LogError(shutdownCtx, logger, "http shutdown failed", err)
		return err
	}
	logger.Info("http server stopped")
	return nil
}
