package httpx

import (
	"context"

	domainauth "github.com/target/mmk-auth-api/internal/domain/auth"
)

// authKey is an unexported context key type to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same key.
type authKey struct{}

// authInfo is what RequireAuth stores for downstream handlers.
type authInfo struct {
	claims domainauth.Claims
	token  string
}

// SetAuthInContext returns a child context that carries verified claims and the raw bearer token.
func SetAuthInContext(ctx context.Context, claims domainauth.Claims, token string) context.Context {
	return context.WithValue(ctx, authKey{}, authInfo{claims: claims, token: token})
}

// GetClaimsFromContext returns the verified claims and a boolean indicating presence.
func GetClaimsFromContext(ctx context.Context) (domainauth.Claims, bool) {
	info, ok := ctx.Value(authKey{}).(authInfo)
	if !ok {
		return domainauth.Claims{}, false
	}
	return info.claims, true
}

// GetTokenFromContext returns the raw bearer token the claims were verified from.
func GetTokenFromContext(ctx context.Context) string {
	if info, ok := ctx.Value(authKey{}).(authInfo); ok {
		return info.token
	}
	return ""
}
