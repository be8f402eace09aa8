// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.
package auth

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	domainauth "github.com/target/mmk-auth-api/internal/domain/auth"
	"github.com/target/mmk-auth-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.CredentialStore = (*MemoryCredentialStore)(nil)
	_ ports.SessionLedger   = (*MemorySessionLedger)(nil)
	_ ports.PasswordHasher  = (*PlainHasher)(nil)
)

// ErrStoreFailure is returned by fakes configured to fail.
var ErrStoreFailure = errors.New("store unavailable")

// MemoryCredentialStore is an in-memory, concurrency-safe CredentialStore.
type MemoryCredentialStore struct {
	mu     sync.RWMutex
	byID   map[string]domainauth.User
	byName map[string]string

	// Fail makes every call return ErrStoreFailure.
	Fail bool
}

// NewMemoryCredentialStore creates an empty store.
func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{
		byID:   make(map[string]domainauth.User),
		byName: make(map[string]string),
	}
}

func (m *MemoryCredentialStore) Create(_ context.Context, user domainauth.User) (domainauth.User, error) {
	if m.Fail {
		return domainauth.User{}, ErrStoreFailure
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.byName[user.Username]; taken {
		return domainauth.User{}, ports.ErrUsernameTaken
	}
	m.byID[user.ID] = user
	m.byName[user.Username] = user.ID
	return user, nil
}

func (m *MemoryCredentialStore) FindByUsername(_ context.Context, username string) (domainauth.User, error) {
	if m.Fail {
		return domainauth.User{}, ErrStoreFailure
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byName[username]
	if !ok {
		return domainauth.User{}, ports.ErrUserNotFound
	}
	return m.byID[id], nil
}

func (m *MemoryCredentialStore) FindByID(_ context.Context, id string) (domainauth.User, error) {
	if m.Fail {
		return domainauth.User{}, ErrStoreFailure
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.byID[id]
	if !ok {
		return domainauth.User{}, ports.ErrUserNotFound
	}
	return u, nil
}

// Delete removes a user; used to simulate accounts deleted after login.
func (m *MemoryCredentialStore) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		delete(m.byName, u.Username)
		delete(m.byID, id)
	}
}

// Len reports the number of stored users.
func (m *MemoryCredentialStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID)
}

// MemorySessionLedger is an in-memory, concurrency-safe SessionLedger.
type MemorySessionLedger struct {
	mu      sync.RWMutex
	records map[string]domainauth.SessionRecord

	// FailCreate and FailUpdate make the matching call return ErrStoreFailure.
	FailCreate bool
	FailUpdate bool
}

// NewMemorySessionLedger creates an empty ledger.
func NewMemorySessionLedger() *MemorySessionLedger {
	return &MemorySessionLedger{records: make(map[string]domainauth.SessionRecord)}
}

func (m *MemorySessionLedger) Create(_ context.Context, rec domainauth.SessionRecord) error {
	if m.FailCreate {
		return ErrStoreFailure
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.records[rec.ID]; exists {
		return errors.New("session record already exists")
	}
	m.records[rec.ID] = rec
	return nil
}

func (m *MemorySessionLedger) FindByID(_ context.Context, id string) (domainauth.SessionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	if !ok {
		return domainauth.SessionRecord{}, ports.ErrSessionNotFound
	}
	return rec, nil
}

func (m *MemorySessionLedger) Update(_ context.Context, rec domainauth.SessionRecord) error {
	if m.FailUpdate {
		return ErrStoreFailure
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[rec.ID]; !ok {
		return ports.ErrSessionNotFound
	}
	m.records[rec.ID] = rec
	return nil
}

func (m *MemorySessionLedger) ListRecent(_ context.Context, limit int) ([]domainauth.SessionRecord, error) {
	m.mu.RLock()
	out := make([]domainauth.SessionRecord, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec)
	}
	m.mu.RUnlock()

	slices.SortFunc(out, func(a, b domainauth.SessionRecord) int {
		if c := b.LoginTime.Compare(a.LoginTime); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	if limit < 0 {
		limit = 0
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Remove deletes a record; used to simulate a ledger that lost a row.
func (m *MemorySessionLedger) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
}

// Len reports the number of stored records.
func (m *MemorySessionLedger) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// PlainHasher is a fast, insecure PasswordHasher that prefixes the plaintext.
type PlainHasher struct {
	mu    sync.Mutex
	calls int // Verify invocations, dummy comparisons included
}

const plainPrefix = "plain$"

func (h *PlainHasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return plainPrefix + plaintext, nil
}

func (h *PlainHasher) Verify(ctx context.Context, plaintext, hash string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	h.mu.Lock()
	h.calls++
	h.mu.Unlock()
	return hash == plainPrefix+plaintext, nil
}

// VerifyCalls reports how many times Verify ran.
func (h *PlainHasher) VerifyCalls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls
}
