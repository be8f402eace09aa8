package auth

import (
	"errors"
	"time"
)

// SessionStatus is the lifecycle state of a session record.
type SessionStatus string

const (
	SessionOpen   SessionStatus = "open"
	SessionClosed SessionStatus = "closed"
)

// ErrSessionClosed is returned when closing a record that already has a logout time.
var ErrSessionClosed = errors.New("session already closed")

// SessionRecord is one login-to-logout interval kept for auditing.
// Username is copied from the user at login so listings need no join.
type SessionRecord struct {
	ID                string     `db:"id"                  json:"id"`
	UserID            string     `db:"user_id"             json:"userId"`
	Username          string     `db:"username"            json:"username"`
	LoginTime         time.Time  `db:"login_time"          json:"loginTime"`
	LogoutTime        *time.Time `db:"logout_time"         json:"logoutTime,omitempty"`
	DurationInSeconds *float64   `db:"duration_in_seconds" json:"durationInSeconds,omitempty"`
}

// NewSessionRecord opens a session for the user at the given login time.
func NewSessionRecord(id string, user User, loginTime time.Time) SessionRecord {
	return SessionRecord{
		ID:        id,
		UserID:    user.ID,
		Username:  user.Username,
		LoginTime: loginTime.UTC(),
	}
}

// Status reports whether the record is still open.
func (s SessionRecord) Status() SessionStatus {
	if s.LogoutTime == nil {
		return SessionOpen
	}
	return SessionClosed
}

// IsActive reports whether the session has not been logged out.
func (s SessionRecord) IsActive() bool { return s.Status() == SessionOpen }

// Duration recomputes the session length from its timestamps.
// Open sessions, a missing login time, or a logout before login all yield zero.
func (s SessionRecord) Duration() time.Duration {
	if s.LogoutTime == nil || s.LoginTime.IsZero() {
		return 0
	}
	d := s.LogoutTime.Sub(s.LoginTime)
	if d < 0 {
		return 0
	}
	return d
}

// Close stamps the logout time and stores the derived duration.
// A record can only be closed once.
func (s *SessionRecord) Close(logoutTime time.Time) error {
	if s.LogoutTime != nil {
		return ErrSessionClosed
	}
	t := logoutTime.UTC()
	s.LogoutTime = &t
	secs := s.Duration().Seconds()
	s.DurationInSeconds = &secs
	return nil
}

// WithRecomputedDuration returns a copy whose stored duration is derived from the
// timestamps again. Open records come back without a duration.
func (s SessionRecord) WithRecomputedDuration() SessionRecord {
	if s.LogoutTime == nil {
		s.DurationInSeconds = nil
		return s
	}
	secs := s.Duration().Seconds()
	s.DurationInSeconds = &secs
	return s
}
