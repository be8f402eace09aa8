package httpx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	domainauth "github.com/target/mmk-auth-api/internal/domain/auth"
)

func TestAuthContextRoundTrip(t *testing.T) {
	ctx := context.Background()

	_, ok := GetClaimsFromContext(ctx)
	assert.False(t, ok)
	assert.Empty(t, GetTokenFromContext(ctx))

	claims := domainauth.Claims{UserID: "u1", Username: "alice", Role: domainauth.RoleUser, SessionID: "s1"}
	ctx = SetAuthInContext(ctx, claims, "tok")

	got, ok := GetClaimsFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, claims, got)
	assert.Equal(t, "tok", GetTokenFromContext(ctx))
}
