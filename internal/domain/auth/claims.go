package auth

import "time"

// Claims is the identity carried by a verified bearer token.
// SessionID is empty for tokens not bound to a session record.
// TokenID is assigned at issue time and identifies the token for revocation.
type Claims struct {
	TokenID   string
	UserID    string
	Username  string
	Role      Role
	SessionID string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// NewClaims builds the claims for a user logging in under the given session.
func NewClaims(user User, sessionID string) Claims {
	return Claims{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		SessionID: sessionID,
	}
}

// HasSession reports whether the token references a session record.
func (c Claims) HasSession() bool { return c.SessionID != "" }
