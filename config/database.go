package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	Host     string `env:"HOST"                    envDefault:"localhost"`
	Port     int    `env:"PORT"                    envDefault:"5432"`
	User     string `env:"USER"                    envDefault:"mmk_auth"`
	Password string `env:"PASSWORD"                envDefault:"mmk_auth"`
	Name     string `env:"NAME"                    envDefault:"mmk_auth"`
	SSLMode  string `env:"SSL_MODE"                envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// RunMigrationsOnStart controls whether the application automatically applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// DSN builds a postgres:// connection URL from the individual settings.
func (c DBConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.Name,
	}
	if c.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{c.SSLMode}}.Encode()
	}
	return u.String()
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelPort       string   `env:"SENTINEL_PORT"        envDefault:"26379"`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
	// SessionPrefix namespaces session ledger keys.
	SessionPrefix string `env:"SESSION_PREFIX" envDefault:"mmk-auth:"`
}

// SessionLedgerBackend selects where session records are stored.
type SessionLedgerBackend string

const (
	// SessionLedgerPostgres stores session records in the session_logs table.
	SessionLedgerPostgres SessionLedgerBackend = "postgres"
	// SessionLedgerRedis stores session records in Redis.
	SessionLedgerRedis SessionLedgerBackend = "redis"
)

// UnmarshalText implements encoding.TextUnmarshaler for SessionLedgerBackend.
func (b *SessionLedgerBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "postgres", "redis":
		*b = SessionLedgerBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid SessionLedgerBackend: %q (valid options: postgres, redis)", v)
	}
}

// SessionLedgerConfig controls the session ledger storage backend.
type SessionLedgerConfig struct {
	Backend SessionLedgerBackend `env:"SESSION_LEDGER_BACKEND" envDefault:"postgres"`
}

// Sanitize defaults an empty backend to Postgres.
func (c *SessionLedgerConfig) Sanitize() {
	if c.Backend == "" {
		c.Backend = SessionLedgerPostgres
	}
}

// UsesRedis reports whether session records live in Redis.
func (c SessionLedgerConfig) UsesRedis() bool {
	return c.Backend == SessionLedgerRedis
}
