package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	domainauth "github.com/target/mmk-auth-api/internal/domain/auth"
	apperrors "github.com/target/mmk-auth-api/internal/errors"
	"github.com/target/mmk-auth-api/internal/ports"
)

// Client-facing messages returned in AppError.Message.
const (
	MsgCredentialsRequired = "Username and password are required."
	MsgUsernameInvalid     = "Username contains invalid characters."
	MsgPasswordTooLong     = "Password must be at most 72 bytes."
	MsgUsernameTaken       = "Username already taken."
	MsgInvalidCredentials  = "Invalid credentials."
	MsgAccessDenied        = "Access denied."
	MsgTokenRevoked        = "Token invalid."
	MsgTokenNotValid       = "Token is not valid."
	MsgAdminsOnly          = "Forbidden: Admins only."
	MsgUserNotFound        = "User not found."
	MsgServerError         = "Server error"
)

// DefaultRecentSessionsLimit caps the admin session listing.
const DefaultRecentSessionsLimit = 50

// Auth event names and results reported to the AuthEventRecorder.
const (
	EventRegister = "register"
	EventLogin    = "login"
	EventLogout   = "logout"

	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// dummyPassword is hashed once so logins for unknown users still pay for a comparison.
const dummyPassword = "mmk-auth-timing-equalizer"

// AuthEventRecorder receives one call per register, login and logout outcome.
type AuthEventRecorder interface {
	RecordAuthEvent(event, result string)
}

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Users       ports.CredentialStore    // Required
	Sessions    ports.SessionLedger      // Required
	Hasher      ports.PasswordHasher     // Required
	Tokens      ports.TokenService       // Required
	Revocations ports.RevocationRegistry // Required
	Clock       ports.Clock              // Optional: defaults to the system clock
	Logger      *slog.Logger             // Optional: structured logger
	Events      AuthEventRecorder        // Optional: metrics sink
	RecentLimit int                      // Optional: defaults to DefaultRecentSessionsLimit
	NewID       func() string            // Optional: defaults to uuid.NewString
}

// AuthService registers users, issues and revokes bearer tokens, and keeps the session audit ledger.
type AuthService struct {
	users       ports.CredentialStore
	sessions    ports.SessionLedger
	hasher      ports.PasswordHasher
	tokens      ports.TokenService
	revocations ports.RevocationRegistry
	clock       ports.Clock
	logger      *slog.Logger
	events      AuthEventRecorder
	recentLimit int
	newID       func() string

	dummyOnce sync.Once
	dummyHash string
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

type noopRecorder struct{}

func (noopRecorder) RecordAuthEvent(string, string) {}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) (*AuthService, error) {
	switch {
	case opts.Users == nil:
		return nil, errors.New("CredentialStore is required")
	case opts.Sessions == nil:
		return nil, errors.New("SessionLedger is required")
	case opts.Hasher == nil:
		return nil, errors.New("PasswordHasher is required")
	case opts.Tokens == nil:
		return nil, errors.New("TokenService is required")
	case opts.Revocations == nil:
		return nil, errors.New("RevocationRegistry is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	svc := &AuthService{
		users:       opts.Users,
		sessions:    opts.Sessions,
		hasher:      opts.Hasher,
		tokens:      opts.Tokens,
		revocations: opts.Revocations,
		clock:       opts.Clock,
		logger:      logger.With("component", "auth_service"),
		events:      opts.Events,
		recentLimit: opts.RecentLimit,
		newID:       opts.NewID,
	}
	if svc.clock == nil {
		svc.clock = systemClock{}
	}
	if svc.events == nil {
		svc.events = noopRecorder{}
	}
	if svc.recentLimit <= 0 {
		svc.recentLimit = DefaultRecentSessionsLimit
	}
	if svc.newID == nil {
		svc.newID = uuid.NewString
	}
	return svc, nil
}

// MustNewAuthService constructs a new AuthService and panics on error.
// Use this when you want fail-fast behavior during application startup.
func MustNewAuthService(opts AuthServiceOptions) *AuthService {
	svc, err := NewAuthService(opts)
	if err != nil {
		panic(err) //nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
	}
	return svc
}

// RecentLimit reports how many records ListRecentSessions returns at most.
func (s *AuthService) RecentLimit() int { return s.recentLimit }

// internalErr logs the cause and returns a generic Internal error safe for clients.
func (s *AuthService) internalErr(ctx context.Context, op string, err error) error {
	s.logger.ErrorContext(ctx, op+" failed", "error", err)
	return apperrors.Wrap(fmt.Errorf("%s: %w", op, err), apperrors.ErrCodeInternal, MsgServerError)
}

// Register creates a user with the default role. It never issues a token.
func (s *AuthService) Register(ctx context.Context, username, password string) (domainauth.User, error) {
	username = domainauth.NormalizeUsername(username)
	if err := validateCredentials(username, password); err != nil {
		s.events.RecordAuthEvent(EventRegister, ResultRejected)
		return domainauth.User{}, err
	}

	return s.createUser(ctx, username, password, domainauth.RoleUser)
}

func validateCredentials(username, password string) error {
	switch {
	case username == "" || password == "":
		return apperrors.Validation(MsgCredentialsRequired)
	case !domainauth.ValidUsername(username):
		return apperrors.ValidationField("username", MsgUsernameInvalid)
	case len(password) > domainauth.MaxPasswordBytes:
		return apperrors.ValidationField("password", MsgPasswordTooLong)
	}
	return nil
}

// CreateUser creates a user with an explicit role. It backs operator tooling, not the public API.
func (s *AuthService) CreateUser(
	ctx context.Context,
	username, password string,
	role domainauth.Role,
) (domainauth.User, error) {
	username = domainauth.NormalizeUsername(username)
	if err := validateCredentials(username, password); err != nil {
		return domainauth.User{}, err
	}
	if !role.Valid() {
		return domainauth.User{}, apperrors.ValidationField("role", fmt.Sprintf("unknown role %q", role))
	}
	return s.createUser(ctx, username, password, role)
}

func (s *AuthService) createUser(
	ctx context.Context,
	username, password string,
	role domainauth.Role,
) (domainauth.User, error) {
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		s.events.RecordAuthEvent(EventRegister, ResultRejected)
		return domainauth.User{}, apperrors.Conflict(MsgUsernameTaken)
	} else if !errors.Is(err, ports.ErrUserNotFound) {
		s.events.RecordAuthEvent(EventRegister, ResultError)
		return domainauth.User{}, s.internalErr(ctx, "lookup user", err)
	}

	hash, err := s.hasher.Hash(ctx, password)
	if errors.Is(err, ports.ErrPasswordTooLong) {
		s.events.RecordAuthEvent(EventRegister, ResultRejected)
		return domainauth.User{}, apperrors.ValidationField("password", MsgPasswordTooLong)
	}
	if err != nil {
		s.events.RecordAuthEvent(EventRegister, ResultError)
		return domainauth.User{}, s.internalErr(ctx, "hash password", err)
	}

	user, err := s.users.Create(ctx, domainauth.User{
		ID:           s.newID(),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    s.clock.Now(),
	})
	if errors.Is(err, ports.ErrUsernameTaken) {
		// Lost a race with a concurrent registration for the same name.
		s.events.RecordAuthEvent(EventRegister, ResultRejected)
		return domainauth.User{}, apperrors.Conflict(MsgUsernameTaken)
	}
	if err != nil {
		s.events.RecordAuthEvent(EventRegister, ResultError)
		return domainauth.User{}, s.internalErr(ctx, "create user", err)
	}

	s.events.RecordAuthEvent(EventRegister, ResultSuccess)
	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// equalizeTiming runs a throwaway comparison so unknown usernames cost as much as wrong passwords.
func (s *AuthService) equalizeTiming(ctx context.Context, password string) {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash(ctx, dummyPassword)
		if err != nil {
			s.logger.WarnContext(ctx, "could not prepare dummy hash", "error", err)
			return
		}
		s.dummyHash = h
	})
	if s.dummyHash == "" {
		return
	}
	_, _ = s.hasher.Verify(ctx, password, s.dummyHash)
}

// Login checks credentials, opens a session record and returns a signed bearer token.
// An unknown username and a wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	username = domainauth.NormalizeUsername(username)
	invalid := apperrors.Unauthorized(MsgInvalidCredentials)

	var user domainauth.User
	var err error
	if username != "" && domainauth.ValidUsername(username) {
		user, err = s.users.FindByUsername(ctx, username)
	} else {
		err = ports.ErrUserNotFound
	}
	if errors.Is(err, ports.ErrUserNotFound) {
		s.equalizeTiming(ctx, password)
		s.events.RecordAuthEvent(EventLogin, ResultRejected)
		return "", invalid
	}
	if err != nil {
		s.events.RecordAuthEvent(EventLogin, ResultError)
		return "", s.internalErr(ctx, "lookup user", err)
	}

	ok, err := s.hasher.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		s.events.RecordAuthEvent(EventLogin, ResultError)
		return "", s.internalErr(ctx, "verify password", err)
	}
	if !ok {
		s.events.RecordAuthEvent(EventLogin, ResultRejected)
		return "", invalid
	}

	rec := domainauth.NewSessionRecord(s.newID(), user, s.clock.Now())
	if err := s.sessions.Create(ctx, rec); err != nil {
		s.events.RecordAuthEvent(EventLogin, ResultError)
		return "", s.internalErr(ctx, "open session record", err)
	}

	token, err := s.tokens.Issue(domainauth.NewClaims(user, rec.ID))
	if err != nil {
		s.events.RecordAuthEvent(EventLogin, ResultError)
		return "", s.internalErr(ctx, "issue token", err)
	}

	s.events.RecordAuthEvent(EventLogin, ResultSuccess)
	s.logger.InfoContext(ctx, "user logged in", "user_id", user.ID, "session_id", rec.ID)
	return token, nil
}

// Authenticate verifies the token and then rejects it if its id has been revoked.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domainauth.Claims, error) {
	if token == "" {
		return domainauth.Claims{}, apperrors.Unauthorized(MsgAccessDenied)
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		if !errors.Is(err, ports.ErrTokenInvalid) {
			err = fmt.Errorf("%w: %w", ports.ErrTokenInvalid, err)
		}
		return domainauth.Claims{}, apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, MsgTokenNotValid)
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return domainauth.Claims{}, s.internalErr(ctx, "check revocation", err)
	}
	if revoked {
		return domainauth.Claims{}, apperrors.Wrap(ports.ErrTokenRevoked, apperrors.ErrCodeUnauthorized, MsgTokenRevoked)
	}
	return claims, nil
}

// Logout revokes the token id and then closes the session record it references.
// Revocation is never undone: a ledger failure leaves a revoked token with an open record.
func (s *AuthService) Logout(ctx context.Context, token string, claims domainauth.Claims) error {
	if token == "" || claims.TokenID == "" {
		return apperrors.Unauthorized(MsgAccessDenied)
	}

	if err := s.revocations.Revoke(ctx, claims.TokenID); err != nil {
		s.events.RecordAuthEvent(EventLogout, ResultError)
		return s.internalErr(ctx, "revoke token", err)
	}

	if err := s.closeSession(ctx, claims); err != nil {
		s.events.RecordAuthEvent(EventLogout, ResultError)
		return s.internalErr(ctx, "close session record", err)
	}

	s.events.RecordAuthEvent(EventLogout, ResultSuccess)
	s.logger.InfoContext(ctx, "user logged out", "user_id", claims.UserID, "session_id", claims.SessionID)
	return nil
}

func (s *AuthService) closeSession(ctx context.Context, claims domainauth.Claims) error {
	if !claims.HasSession() {
		return nil
	}

	rec, err := s.sessions.FindByID(ctx, claims.SessionID)
	if errors.Is(err, ports.ErrSessionNotFound) {
		s.logger.WarnContext(ctx, "session record missing at logout", "session_id", claims.SessionID)
		return nil
	}
	if err != nil {
		return err
	}
	if !rec.IsActive() {
		return nil
	}

	if err := rec.Close(s.clock.Now()); err != nil {
		return err
	}
	err = s.sessions.Update(ctx, rec)
	if errors.Is(err, ports.ErrSessionNotFound) {
		s.logger.WarnContext(ctx, "session record vanished at logout", "session_id", claims.SessionID)
		return nil
	}
	return err
}

// AuthorizeAdmin fails with Forbidden unless the role may view all sessions.
func (s *AuthService) AuthorizeAdmin(claims domainauth.Claims) error {
	if !claims.Role.CanViewAllSessions() {
		return apperrors.Forbidden(MsgAdminsOnly)
	}
	return nil
}

// GetProfile loads the caller's account without its password hash.
func (s *AuthService) GetProfile(ctx context.Context, claims domainauth.Claims) (domainauth.Profile, error) {
	if !claims.Role.CanViewOwnProfile() {
		return domainauth.Profile{}, apperrors.Forbidden(MsgAccessDenied)
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, ports.ErrUserNotFound) {
		return domainauth.Profile{}, apperrors.Wrap(err, apperrors.ErrCodeNotFound, MsgUserNotFound)
	}
	if err != nil {
		return domainauth.Profile{}, s.internalErr(ctx, "load profile", err)
	}
	return user.Profile(), nil
}

// ListRecentSessions returns the newest session records for admins.
// Durations are recomputed from the timestamps instead of trusting stored values.
func (s *AuthService) ListRecentSessions(
	ctx context.Context,
	claims domainauth.Claims,
) ([]domainauth.SessionRecord, error) {
	if err := s.AuthorizeAdmin(claims); err != nil {
		return nil, err
	}

	records, err := s.sessions.ListRecent(ctx, s.recentLimit)
	if err != nil {
		return nil, s.internalErr(ctx, "list session records", err)
	}
	out := make([]domainauth.SessionRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.WithRecomputedDuration())
	}
	if len(out) > s.recentLimit {
		out = out[:s.recentLimit]
	}
	return out, nil
}
