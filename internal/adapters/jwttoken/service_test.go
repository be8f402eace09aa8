package jwttoken

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/mmk-auth-api/internal/domain/auth"
	"github.com/target/mmk-auth-api/internal/ports"
)

const testSecret = "test-secret-key-for-jwt-signing"

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time { return c.t }

func newTestService(t *testing.T, clock *testClock) *Service {
	t.Helper()
	svc, err := New(Options{Secret: testSecret, TTL: time.Hour, Now: clock.Now})
	require.NoError(t, err)
	return svc
}

func sampleClaims() domainauth.Claims {
	return domainauth.Claims{UserID: "u-1", Username: "alice", Role: domainauth.RoleUser, SessionID: "s-1"}
}

func TestService_IssueAndVerify(t *testing.T) {
	clock := &testClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	svc := newTestService(t, clock)

	token, err := svc.Issue(sampleClaims())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, domainauth.RoleUser, claims.Role)
	assert.Equal(t, "s-1", claims.SessionID)
	assert.NotEmpty(t, claims.TokenID)
	assert.True(t, claims.IssuedAt.Equal(clock.t))
	assert.True(t, claims.ExpiresAt.Equal(clock.t.Add(time.Hour)))
}

func TestService_PayloadShape(t *testing.T) {
	clock := &testClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	svc := newTestService(t, clock)

	token, err := svc.Issue(sampleClaims())
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, "u-1", payload["id"])
	assert.Equal(t, "alice", payload["username"])
	assert.Equal(t, "user", payload["role"])
	assert.Equal(t, "s-1", payload["sessionId"])
	assert.NotEmpty(t, payload["jti"])
	assert.InDelta(t, float64(clock.t.Unix()), payload["iat"], 0)
	assert.InDelta(t, float64(clock.t.Add(time.Hour).Unix()), payload["exp"], 0)
}

func TestService_WithoutSessionReference(t *testing.T) {
	clock := &testClock{t: time.Now()}
	svc := newTestService(t, clock)

	c := sampleClaims()
	c.SessionID = ""
	token, err := svc.Issue(c)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.False(t, claims.HasSession())
}

func TestService_Expired(t *testing.T) {
	clock := &testClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	svc := newTestService(t, clock)

	token, err := svc.Issue(sampleClaims())
	require.NoError(t, err)

	clock.t = clock.t.Add(time.Hour + time.Second)
	_, err = svc.Verify(token)
	require.ErrorIs(t, err, ports.ErrTokenInvalid)
}

func TestService_RejectsForgedTokens(t *testing.T) {
	clock := &testClock{t: time.Now()}
	svc := newTestService(t, clock)

	good, err := svc.Issue(sampleClaims())
	require.NoError(t, err)

	other, err := New(Options{Secret: "another-secret", Now: clock.Now})
	require.NoError(t, err)
	wrongSecret, err := other.Issue(sampleClaims())
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"id": "u-1", "username": "alice", "role": "admin",
		"iat": clock.t.Unix(), "exp": clock.t.Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	badRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id": "u-1", "username": "alice", "role": "root",
		"iat": clock.t.Unix(), "exp": clock.t.Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id": "u-1", "username": "alice", "role": "user",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noJTI, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id": "u-1", "username": "alice", "role": "user",
		"iat": clock.t.Unix(), "exp": clock.t.Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	parts := strings.Split(good, ".")
	tampered := parts[0] + "." + base64.RawURLEncoding.EncodeToString(
		[]byte(`{"id":"u-1","username":"alice","role":"admin","exp":9999999999}`)) + "." + parts[2]

	cases := map[string]string{
		"empty":        "",
		"garbage":      "not-a-valid-jwt",
		"wrong secret": wrongSecret,
		"wrong alg":    hs512,
		"unknown role": badRole,
		"missing exp":  noExp,
		"missing jti":  noJTI,
		"tampered":     tampered,
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Verify(token)
			require.ErrorIs(t, err, ports.ErrTokenInvalid)
		})
	}
}

func TestService_IssueKeepsProvidedTokenID(t *testing.T) {
	clock := &testClock{t: time.Now()}
	svc, err := New(Options{Secret: testSecret, Now: clock.Now, NewID: func() string { return "generated" }})
	require.NoError(t, err)

	token, err := svc.Issue(sampleClaims())
	require.NoError(t, err)
	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "generated", claims.TokenID)

	c := sampleClaims()
	c.TokenID = "fixed"
	token, err = svc.Issue(c)
	require.NoError(t, err)
	claims, err = svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "fixed", claims.TokenID)
}

func TestService_RejectsNonCanonicalEncoding(t *testing.T) {
	clock := &testClock{t: time.Now()}
	svc := newTestService(t, clock)

	token, err := svc.Issue(sampleClaims())
	require.NoError(t, err)

	// An HS256 signature is 32 bytes, so its last base64url character carries two padding bits.
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	last := strings.IndexByte(alphabet, token[len(token)-1])
	require.GreaterOrEqual(t, last, 0)
	for _, flip := range []int{1, 2, 3} {
		variant := token[:len(token)-1] + string(alphabet[last^flip])
		_, err := svc.Verify(variant)
		require.ErrorIs(t, err, ports.ErrTokenInvalid, "variant %s", variant)
	}
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)

	svc, err := New(Options{Secret: "s"})
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, svc.TTL())
}
