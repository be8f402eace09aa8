// Package jwttoken issues and verifies HS256 bearer tokens.
package jwttoken

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	domainauth "github.com/target/mmk-auth-api/internal/domain/auth"
	"github.com/target/mmk-auth-api/internal/ports"
)

// DefaultTTL is the access token lifetime when none is configured.
const DefaultTTL = time.Hour

var errEmptySecret = errors.New("jwt secret is required")

// tokenClaims is the wire shape: {id, username, role, sessionId, jti, iat, exp}.
type tokenClaims struct {
	UserID    string `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	SessionID string `json:"sessionId,omitempty"`
	jwt.RegisteredClaims
}

// Options configures a Service.
type Options struct {
	Secret string
	TTL    time.Duration
	// Now overrides the clock for issuing and validating; defaults to time.Now.
	Now func() time.Time
	// NewID generates token ids (jti); defaults to uuid.NewString.
	NewID func() string
}

// Service signs and validates tokens with a single server-held secret.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	newID  func() string
	parser *jwt.Parser
}

// New constructs a Service. The secret must be non-empty.
func New(opts Options) (*Service, error) {
	if opts.Secret == "" {
		return nil, errEmptySecret
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	return &Service{
		secret: []byte(opts.Secret),
		ttl:    ttl,
		now:    now,
		newID:  newID,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			// Lenient base64 lets one token travel under several spellings.
			jwt.WithStrictDecoding(),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
			jwt.WithTimeFunc(now),
		),
	}, nil
}

// TTL returns the token lifetime.
func (s *Service) TTL() time.Duration { return s.ttl }

// Issue signs claims with iat = now and exp = now + TTL.
// A fresh jti is generated unless claims already carry a TokenID.
func (s *Service) Issue(claims domainauth.Claims) (string, error) {
	now := s.now()
	tokenID := claims.TokenID
	if tokenID == "" {
		tokenID = s.newID()
	}
	tc := tokenClaims{
		UserID:    claims.UserID,
		Username:  claims.Username,
		Role:      string(claims.Role),
		SessionID: claims.SessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tc).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry and decodes the claims.
// Every failure is reported as ports.ErrTokenInvalid.
func (s *Service) Verify(token string) (domainauth.Claims, error) {
	var tc tokenClaims
	parsed, err := s.parser.ParseWithClaims(token, &tc, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return domainauth.Claims{}, fmt.Errorf("%w: %w", ports.ErrTokenInvalid, err)
	}
	if !parsed.Valid {
		return domainauth.Claims{}, ports.ErrTokenInvalid
	}

	if tc.UserID == "" || tc.Username == "" {
		return domainauth.Claims{}, fmt.Errorf("%w: missing identity", ports.ErrTokenInvalid)
	}
	if tc.ID == "" {
		return domainauth.Claims{}, fmt.Errorf("%w: missing token id", ports.ErrTokenInvalid)
	}
	role, err := domainauth.ParseRole(tc.Role)
	if err != nil {
		return domainauth.Claims{}, fmt.Errorf("%w: %w", ports.ErrTokenInvalid, err)
	}

	claims := domainauth.Claims{
		TokenID:   tc.ID,
		UserID:    tc.UserID,
		Username:  tc.Username,
		Role:      role,
		SessionID: tc.SessionID,
	}
	if tc.IssuedAt != nil {
		claims.IssuedAt = tc.IssuedAt.Time
	}
	if tc.ExpiresAt != nil {
		claims.ExpiresAt = tc.ExpiresAt.Time
	}
	return claims, nil
}
