// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters and internal/data; orchestration in internal/service.
package ports

import (
	"context"
	"errors"
	"time"

	domainauth "github.com/target/mmk-auth-api/internal/domain/auth"
)

// Sentinel errors adapters translate their storage-specific failures into.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUsernameTaken   = errors.New("username already taken")
	ErrSessionNotFound = errors.New("session record not found")
	ErrTokenInvalid    = errors.New("token is not valid")
	ErrTokenRevoked    = errors.New("token has been revoked")
	// ErrPasswordTooLong is returned by a PasswordHasher for input it cannot hash.
	ErrPasswordTooLong = errors.New("password too long")
)

// CredentialStore persists users and enforces username uniqueness.
type CredentialStore interface {
	// Create inserts a new user; returns ErrUsernameTaken on a duplicate username.
	Create(ctx context.Context, user domainauth.User) (domainauth.User, error)
	FindByUsername(ctx context.Context, username string) (domainauth.User, error)
	FindByID(ctx context.Context, id string) (domainauth.User, error)
}

// SessionLedger persists session records for auditing.
type SessionLedger interface {
	Create(ctx context.Context, rec domainauth.SessionRecord) error
	FindByID(ctx context.Context, id string) (domainauth.SessionRecord, error)
	// Update overwrites the logout time and duration of an existing record.
	Update(ctx context.Context, rec domainauth.SessionRecord) error
	// ListRecent returns up to limit records ordered by login time, newest first.
	ListRecent(ctx context.Context, limit int) ([]domainauth.SessionRecord, error)
}

// PasswordHasher computes and checks adaptive password hashes.
type PasswordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	// Verify reports whether plaintext matches hash. A malformed hash is a mismatch, not an error.
	Verify(ctx context.Context, plaintext, hash string) (bool, error)
}

// TokenService issues and verifies signed bearer tokens.
type TokenService interface {
	Issue(claims domainauth.Claims) (string, error)
	// Verify returns ErrTokenInvalid for every malformed, forged or expired token.
	Verify(token string) (domainauth.Claims, error)
}

// RevocationRegistry remembers tokens invalidated before their expiry.
// Tokens are keyed by their TokenID claim, never by the encoded string.
type RevocationRegistry interface {
	Revoke(ctx context.Context, tokenID string) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}
