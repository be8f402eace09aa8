//go:build integration

package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// SetupPostgresContainer starts a disposable PostgreSQL container, applies migrations,
// and returns a connection to it. The container is terminated through t.Cleanup.
// The test is skipped when no container runtime is reachable.
func SetupPostgresContainer(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()

	provider, err := testcontainers.ProviderDocker.GetProvider()
	if err != nil {
		t.Skip("Docker/Podman not available, skipping integration tests")
	}
	defer provider.Close()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("mmk_auth"),
		postgres.WithUsername("mmk_auth"),
		postgres.WithPassword("mmk_auth"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Skipf("Failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if termErr := container.Terminate(cleanupCtx); termErr != nil {
			t.Logf("warning: failed to terminate container: %v", termErr)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("container connection string: %v", err)
	}

	db, err := sql.Open("pgx", connStr)
	if err != nil {
		t.Fatalf("open container db: %v", err)
	}
	t.Cleanup(func() { closeAndLog(t, "container DB", db) })

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if pingErr := db.PingContext(pingCtx); pingErr != nil {
		t.Fatalf("ping container db: %v", pingErr)
	}
	if migrateErr := RunMigrations(pingCtx, db); migrateErr != nil {
		t.Fatalf("migrate container db: %v", migrateErr)
	}
	return db
}
