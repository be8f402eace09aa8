// Package revocation holds the in-process registry of revoked bearer token ids.
// Entries live only as long as the process; a restart forgets every revocation.
package revocation

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryRegistry is a concurrent set of revoked token ids.
//
// The set has no size bound. Entries are dropped once they are older than the
// token TTL: by then the token has expired and fails verification on its own.
type MemoryRegistry struct {
	entries *expirable.LRU[string, struct{}]
}

// NewMemoryRegistry creates a registry that retains entries for tokenTTL.
// A non-positive tokenTTL keeps entries until the process exits.
func NewMemoryRegistry(tokenTTL time.Duration) *MemoryRegistry {
	if tokenTTL < 0 {
		tokenTTL = 0
	}
	return &MemoryRegistry{
		entries: expirable.NewLRU[string, struct{}](0, nil, tokenTTL),
	}
}

// Revoke adds tokenID to the set. Revoking an already revoked id is a no-op.
func (m *MemoryRegistry) Revoke(_ context.Context, tokenID string) error {
	if tokenID == "" {
		return nil
	}
	if m.entries.Contains(tokenID) {
		return nil
	}
	m.entries.Add(tokenID, struct{}{})
	return nil
}

// IsRevoked reports whether tokenID has been revoked.
func (m *MemoryRegistry) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	return m.entries.Contains(tokenID), nil
}

// Len returns the number of tracked revocations.
func (m *MemoryRegistry) Len() int {
	return m.entries.Len()
}
