package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	defaultTokenTTL            = time.Hour
	defaultBcryptCost          = 10
	defaultRecentSessionsLimit = 50
)

// AuthConfig groups token, password hashing and session listing configuration.
type AuthConfig struct {
	// JWTSecret signs and verifies bearer tokens. Required.
	JWTSecret string `env:"JWT_SECRET,required,notEmpty"`

	// TokenTTL is the lifetime of an issued token.
	TokenTTL time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"1h"`

	// BcryptCost is the work factor for password hashes. Must lie in bcrypt's valid range.
	BcryptCost int `env:"AUTH_BCRYPT_COST" envDefault:"10"`

	// HashWorkers bounds concurrent hash operations. 0 means GOMAXPROCS.
	HashWorkers int `env:"AUTH_HASH_WORKERS" envDefault:"0"`

	// RecentSessionsLimit caps the admin session listing.
	RecentSessionsLimit int `env:"AUTH_RECENT_SESSIONS_LIMIT" envDefault:"50"`
}

// Sanitize applies guardrails to auth configuration values.
func (c *AuthConfig) Sanitize() {
	c.JWTSecret = strings.TrimSpace(c.JWTSecret)
	if c.TokenTTL <= 0 {
		c.TokenTTL = defaultTokenTTL
	}
	if c.BcryptCost == 0 {
		c.BcryptCost = defaultBcryptCost
	}
	if c.HashWorkers <= 0 {
		c.HashWorkers = runtime.GOMAXPROCS(0)
	}
	if c.RecentSessionsLimit <= 0 {
		c.RecentSessionsLimit = defaultRecentSessionsLimit
	}
}

// Validate rejects values Sanitize cannot repair.
func (c AuthConfig) Validate() error {
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("AUTH_BCRYPT_COST must be between %d and %d, got %d",
			bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
	}
	return nil
}
