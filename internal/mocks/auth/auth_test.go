package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/mmk-auth-api/internal/domain/auth"
	"github.com/target/mmk-auth-api/internal/ports"
)

func TestMemoryCredentialStore_Uniqueness(t *testing.T) {
	store := NewMemoryCredentialStore()
	ctx := context.Background()

	_, err := store.Create(ctx, domainauth.User{ID: "1", Username: "alice"})
	require.NoError(t, err)
	_, err = store.Create(ctx, domainauth.User{ID: "2", Username: "alice"})
	require.ErrorIs(t, err, ports.ErrUsernameTaken)

	u, err := store.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "1", u.ID)

	store.Delete("1")
	_, err = store.FindByID(ctx, "1")
	require.ErrorIs(t, err, ports.ErrUserNotFound)
}

func TestMemoryCredentialStore_ConcurrentCreate(t *testing.T) {
	store := NewMemoryCredentialStore()
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := range 10 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.Create(context.Background(), domainauth.User{ID: string(rune('a' + i)), Username: "same"})
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, store.Len())
}

func TestMemorySessionLedger_ListRecentOrder(t *testing.T) {
	ledger := NewMemorySessionLedger()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		rec := domainauth.SessionRecord{ID: id, LoginTime: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, ledger.Create(ctx, rec))
	}

	out, err := ledger.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "c", out[0].ID)
	assert.Equal(t, "b", out[1].ID)

	require.ErrorIs(t, ledger.Update(ctx, domainauth.SessionRecord{ID: "zzz"}), ports.ErrSessionNotFound)
}

func TestPlainHasher(t *testing.T) {
	h := &PlainHasher{}
	ctx := context.Background()

	hash, err := h.Hash(ctx, "pw")
	require.NoError(t, err)
	ok, err := h.Verify(ctx, "pw", hash)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = h.Verify(ctx, "nope", hash)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 2, h.VerifyCalls())
}
