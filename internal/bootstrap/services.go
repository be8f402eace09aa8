package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/target/mmk-auth-api/config"
	"github.com/target/mmk-auth-api/internal/adapters/revocation"
	httpx "github.com/target/mmk-auth-api/internal/http"
	"github.com/target/mmk-auth-api/internal/observability/metrics"
	"github.com/target/mmk-auth-api/internal/service"
	"golang.org/x/sync/errgroup"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth        *service.AuthService
	Revocations *revocation.MemoryRegistry
	// Metrics is nil when metrics are disabled.
	Metrics   *metrics.Metrics
	Readiness []httpx.ReadinessCheck
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices builds the auth service and its supporting observability.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps with config are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	registry := revocation.NewMemoryRegistry(cfg.Auth.TokenTTL)

	var (
		m      *metrics.Metrics
		events service.AuthEventRecorder
	)
	if cfg.Observability.Metrics.IsEnabled() {
		m = metrics.New(metrics.Options{RevokedTokens: registry.Len})
		events = m
	}

	auth, err := BuildAuthService(AuthConfig{
		Auth:        cfg.Auth,
		Ledger:      cfg.Sessions,
		RedisPrefix: cfg.Redis.SessionPrefix,
		DB:          deps.DB,
		RedisClient: deps.RedisClient,
		Revocations: registry,
		Events:      events,
		Logger:      logger,
	})
	if err != nil {
		return ServiceContainer{}, err
	}

	return ServiceContainer{
		Auth:        auth,
		Revocations: registry,
		Metrics:     m,
		Readiness:   buildReadinessChecks(deps.DB, deps.RedisClient),
	}, nil
}

func buildReadinessChecks(db *sql.DB, redisClient redis.UniversalClient) []httpx.ReadinessCheck {
	var checks []httpx.ReadinessCheck
	if db != nil {
		checks = append(checks, httpx.ReadinessCheck{Name: "postgres", Check: db.PingContext})
	}
	if redisClient != nil {
		checks = append(checks, httpx.ReadinessCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		})
	}
	return checks
}

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
	// Server overrides the server built from Config; used by tests.
	Server *http.Server
}

// RunServicesWithShutdown serves HTTP until ctx is canceled, SIGINT or SIGTERM arrives,
// or the listener fails, then shuts the server down gracefully.
func RunServicesWithShutdown(ctx context.Context, cfg *ServiceOrchestrationConfig) error {
	if cfg == nil || cfg.Config == nil {
		return errors.New("service orchestration config with AppConfig is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	server := cfg.Server
	if server == nil {
		server = NewHTTPServer(&HTTPServerConfig{Config: cfg.Config, Services: cfg.Services, Logger: logger})
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(sigCtx)
	g.Go(func() error {
		logger.InfoContext(gctx, "starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down services...")
		return ShutdownHTTPServer(ShutdownConfig{
			Context: context.WithoutCancel(gctx),
			Server:  server,
			Logger:  logger,
		})
	})

	return g.Wait()
}
