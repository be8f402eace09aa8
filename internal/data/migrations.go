package data

import (
	"context"
	"database/sql"

	"github.com/target/mmk-auth-api/internal/migrate"
)

// RunMigrations creates or upgrades the users and session_logs tables by delegating to the migrate package.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrate.Run(ctx, db)
}
