// Package auth contains domain-level types for users, tokens and session records.
// It is pure and free of framework/adapter concerns.
package auth

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Role represents an application's authorization role.
// Keep string form for easy persistence and token claims.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Capability names something a role is allowed to do.
type Capability string

const (
	CapViewOwnProfile  Capability = "profile:view"
	CapViewAllSessions Capability = "sessions:view_all"
)

// roleCapabilities is the single source of truth for authorization.
var roleCapabilities = map[Role][]Capability{
	RoleUser:  {CapViewOwnProfile},
	RoleAdmin: {CapViewOwnProfile, CapViewAllSessions},
}

// ParseRole converts a stored or claimed role string into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("invalid role: %q", s)
	}
	return r, nil
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleCapabilities[r]
	return ok
}

// Can reports whether the role grants the capability. Unknown roles grant nothing.
func (r Role) Can(c Capability) bool {
	for _, granted := range roleCapabilities[r] {
		if granted == c {
			return true
		}
	}
	return false
}

// CanViewAllSessions reports whether the role may read the session audit log.
func (r Role) CanViewAllSessions() bool { return r.Can(CapViewAllSessions) }

// CanViewOwnProfile reports whether the role may read its own profile.
func (r Role) CanViewOwnProfile() bool { return r.Can(CapViewOwnProfile) }

// User is a registered account as persisted by the credential store.
type User struct {
	ID           string    `db:"id"            json:"id"`
	Username     string    `db:"username"      json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role"          json:"role"`
	CreatedAt    time.Time `db:"created_at"    json:"createdAt"`
}

// Profile returns the user without credential material.
func (u User) Profile() Profile {
	return Profile{ID: u.ID, Username: u.Username, Role: u.Role, CreatedAt: u.CreatedAt}
}

// Profile is the public view of a user.
type Profile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// NormalizeUsername trims surrounding whitespace from a username.
func NormalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

// ValidUsername reports whether username can be stored as text: valid UTF-8 with no NUL bytes.
func ValidUsername(username string) bool {
	return utf8.ValidString(username) && !strings.ContainsRune(username, 0)
}
