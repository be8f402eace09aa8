package bootstrap

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/target/mmk-auth-api/config"
	"github.com/target/mmk-auth-api/internal/adapters/bcrypthash"
	"github.com/target/mmk-auth-api/internal/adapters/jwttoken"
	redisadapter "github.com/target/mmk-auth-api/internal/adapters/redis"
	"github.com/target/mmk-auth-api/internal/adapters/revocation"
	"github.com/target/mmk-auth-api/internal/data"
	"github.com/target/mmk-auth-api/internal/ports"
	"github.com/target/mmk-auth-api/internal/service"
)

// AuthConfig contains configuration for the auth service.
type AuthConfig struct {
	Auth   config.AuthConfig
	Ledger config.SessionLedgerConfig
	// RedisPrefix namespaces session keys when Ledger selects Redis.
	RedisPrefix string

	DB          *sql.DB
	RedisClient redis.UniversalClient
	// Revocations is created from Auth.TokenTTL when nil.
	Revocations ports.RevocationRegistry
	// Events is optional.
	Events service.AuthEventRecorder
	Logger *slog.Logger
}

// BuildAuthService wires the Postgres credential store, the configured session ledger,
// the bcrypt hasher and the JWT token service into an AuthService.
func BuildAuthService(cfg AuthConfig) (*service.AuthService, error) {
	if cfg.DB == nil {
		return nil, errors.New("auth service requires a database")
	}

	ledger, err := buildSessionLedger(cfg)
	if err != nil {
		return nil, err
	}

	tokens, err := jwttoken.New(jwttoken.Options{Secret: cfg.Auth.JWTSecret, TTL: cfg.Auth.TokenTTL})
	if err != nil {
		return nil, fmt.Errorf("build token service: %w", err)
	}

	revocations := cfg.Revocations
	if revocations == nil {
		revocations = revocation.NewMemoryRegistry(tokens.TTL())
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	svc, err := service.NewAuthService(service.AuthServiceOptions{
		Users:       data.NewUserRepo(cfg.DB),
		Sessions:    ledger,
		Hasher:      bcrypthash.New(bcrypthash.Options{Cost: cfg.Auth.BcryptCost, Workers: cfg.Auth.HashWorkers}),
		Tokens:      tokens,
		Revocations: revocations,
		Logger:      logger,
		Events:      cfg.Events,
		RecentLimit: cfg.Auth.RecentSessionsLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("build auth service: %w", err)
	}

	logger.Info("auth service configured",
		"session_ledger", string(cfg.Ledger.Backend),
		"token_ttl", tokens.TTL(),
		"bcrypt_cost", cfg.Auth.BcryptCost,
		"hash_workers", cfg.Auth.HashWorkers,
	)
	return svc, nil
}

//nolint:ireturn // the ledger backend is chosen at runtime.
func buildSessionLedger(cfg AuthConfig) (ports.SessionLedger, error) {
	switch cfg.Ledger.Backend {
	case config.SessionLedgerRedis:
		if cfg.RedisClient == nil {
			return nil, errors.New("redis session ledger requires a redis client")
		}
		return redisadapter.NewSessionLedgerWithPrefix(cfg.RedisClient, cfg.RedisPrefix), nil
	case config.SessionLedgerPostgres, "":
		return data.NewSessionRepo(cfg.DB), nil
	default:
		return nil, fmt.Errorf("unknown session ledger backend %q", cfg.Ledger.Backend)
	}
}
