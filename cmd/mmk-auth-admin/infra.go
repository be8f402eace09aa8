package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/target/mmk-auth-api/internal/bootstrap"
	domainauth "github.com/target/mmk-auth-api/internal/domain/auth"
)

// authAdmin is the slice of the auth service the admin commands use.
type authAdmin interface {
	CreateUser(ctx context.Context, username, password string, role domainauth.Role) (domainauth.User, error)
	ListRecentSessions(ctx context.Context, claims domainauth.Claims) ([]domainauth.SessionRecord, error)
}

// withAuth runs fn against a connected auth service. Replaced in tests.
var withAuth = withAuthService

// connectDB opens the configured Postgres database.
func connectDB(cmdCtx *commandContext) (*sql.DB, error) {
	db, err := bootstrap.ConnectDB(cmdCtx.Ctx, bootstrap.DatabaseConfig{
		DSN:    cmdCtx.Config.PostgresDSN(),
		Logger: cmdCtx.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	return db, nil
}

// withAuthService connects the stores the auth service needs, runs fn, then releases them.
func withAuthService(
	ctx context.Context,
	cmdCtx *commandContext,
	fn func(ctx context.Context, svc authAdmin) error,
) (err error) {
	db, err := connectDB(cmdCtx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close database: %w", closeErr))
		}
	}()

	var redisClient redis.UniversalClient
	if cmdCtx.Config.Sessions.UsesRedis() {
		redisClient, err = bootstrap.ConnectRedis(ctx, bootstrap.DatabaseConfig{
			RedisConfig: cmdCtx.Config.Redis,
			Logger:      cmdCtx.Logger,
		})
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer func() {
			if closeErr := redisClient.Close(); closeErr != nil {
				err = errors.Join(err, fmt.Errorf("close redis: %w", closeErr))
			}
		}()
	}

	svc, err := bootstrap.BuildAuthService(bootstrap.AuthConfig{
		Auth:        cmdCtx.Config.Auth,
		Ledger:      cmdCtx.Config.Sessions,
		RedisPrefix: cmdCtx.Config.Redis.SessionPrefix,
		DB:          db,
		RedisClient: redisClient,
		Logger:      cmdCtx.Logger,
	})
	if err != nil {
		return err
	}
	return fn(ctx, svc)
}
