package bootstrap

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/mmk-auth-api/config"
	"github.com/target/mmk-auth-api/internal/testutil"
)

func testAppConfig() *config.AppConfig {
	cfg := &config.AppConfig{
		Auth: config.AuthConfig{JWTSecret: "test-secret", BcryptCost: 4},
		HTTP: config.HTTPConfig{Addr: "127.0.0.1:0"},
		Observability: config.ObservabilityConfig{
			Metrics: config.ObservabilityMetricsConfig{Enabled: true},
		},
	}
	cfg.Sanitize()
	return cfg
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PORT", "3000")
	t.Setenv("HTTP_ADDR", "")
	t.Cleanup(func() { SetLogLevel(slog.LevelInfo) })

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, ":3000", cfg.HTTP.Addr)
	assert.Equal(t, slog.LevelDebug, logLevel.Level())
}

func TestLoadConfig_RejectsOutOfRangeBcryptCost(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("AUTH_BCRYPT_COST", "99")
	t.Setenv("PORT", "3000")
	t.Setenv("HTTP_ADDR", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_BCRYPT_COST")
}

func TestNewServices_PostgresLedger(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	svcs, err := NewServices(&ServiceDeps{Config: testAppConfig(), DB: db})
	require.NoError(t, err)

	require.NotNil(t, svcs.Auth)
	require.NotNil(t, svcs.Metrics)
	require.NotNil(t, svcs.Revocations)
	assert.Equal(t, 50, svcs.Auth.RecentLimit())
	require.Len(t, svcs.Readiness, 1)
	assert.Equal(t, "postgres", svcs.Readiness[0].Name)
}

func TestNewServices_RedisLedger(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := testAppConfig()
	cfg.Sessions.Backend = config.SessionLedgerRedis

	_, err = NewServices(&ServiceDeps{Config: cfg, DB: db})
	require.Error(t, err)

	_, client := testutil.SetupMiniRedis(t)
	svcs, err := NewServices(&ServiceDeps{Config: cfg, DB: db, RedisClient: client})
	require.NoError(t, err)
	require.Len(t, svcs.Readiness, 2)
	assert.Equal(t, "redis", svcs.Readiness[1].Name)
	require.NoError(t, svcs.Readiness[1].Check(context.Background()))
}

func TestNewServices_MetricsDisabled(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := testAppConfig()
	cfg.Observability.Metrics.Enabled = false

	svcs, err := NewServices(&ServiceDeps{Config: cfg, DB: db})
	require.NoError(t, err)
	assert.Nil(t, svcs.Metrics)

	server := NewHTTPServer(&HTTPServerConfig{Config: cfg, Services: svcs})
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewServices_RequiresDB(t *testing.T) {
	_, err := NewServices(&ServiceDeps{Config: testAppConfig()})
	require.Error(t, err)

	_, err = NewServices(nil)
	require.Error(t, err)
}

func TestNewHTTPServer(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := testAppConfig()
	svcs, err := NewServices(&ServiceDeps{Config: cfg, DB: db})
	require.NoError(t, err)

	server := NewHTTPServer(&HTTPServerConfig{Config: cfg, Services: svcs})
	assert.Equal(t, "127.0.0.1:0", server.Addr)
	assert.Equal(t, 30*time.Second, server.ReadTimeout)
	assert.Equal(t, 120*time.Second, server.IdleTimeout)

	mock.ExpectPing()
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mmk_auth_revoked_tokens")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunServicesWithShutdown_StopsOnContextCancel(t *testing.T) {
	cfg := testAppConfig()
	server := newServer(http.NotFoundHandler(), "127.0.0.1:0")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- RunServicesWithShutdown(ctx, &ServiceOrchestrationConfig{Config: cfg, Server: server})
	}()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRunServicesWithShutdown_ReportsListenErrors(t *testing.T) {
	cfg := testAppConfig()
	server := newServer(http.NotFoundHandler(), "256.0.0.1:bad")

	err := RunServicesWithShutdown(context.Background(), &ServiceOrchestrationConfig{Config: cfg, Server: server})
	require.Error(t, err)
}

func TestConnectDB_RequiresDSN(t *testing.T) {
	_, err := ConnectDB(context.Background(), DatabaseConfig{DSN: " "})
	require.Error(t, err)
}

func TestConnectRedis_Direct(t *testing.T) {
	mr, _ := testutil.SetupMiniRedis(t)

	client, err := ConnectRedis(context.Background(), DatabaseConfig{
		RedisConfig: config.RedisConfig{URI: mr.Addr()},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())
}

func TestRedactDSN(t *testing.T) {
	assert.Equal(t, "postgres://u:xxxxx@db:5432/auth", redactDSN("postgres://u:secret@db:5432/auth"))
	assert.Equal(t, "host=db", redactDSN("host=db user=u password=secret"))
	assert.Equal(t, "postgres", redactDSN("password=secret"))
}

func TestShutdownHTTPServer_NilServer(t *testing.T) {
	require.NoError(t, ShutdownHTTPServer(ShutdownConfig{}))
}
