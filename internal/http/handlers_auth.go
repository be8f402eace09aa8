package httpx

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	domainauth "github.com/target/mmk-auth-api/internal/domain/auth"
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	Register(ctx context.Context, username, password string) (domainauth.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context, token string, claims domainauth.Claims) error
	Authenticate(ctx context.Context, token string) (domainauth.Claims, error)
	AuthorizeAdmin(claims domainauth.Claims) error
	GetProfile(ctx context.Context, claims domainauth.Claims) (domainauth.Profile, error)
	ListRecentSessions(ctx context.Context, claims domainauth.Claims) ([]domainauth.SessionRecord, error)
}

// Client-facing success messages.
const (
	msgRegistered = "User registered successfully!"
	msgLoggedOut  = "Successfully logged out."
)

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc    AuthServiceInterface
	Logger *slog.Logger
	Errors InternalErrorRecorder
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *AuthHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	errorWriter{logger: h.logger(), recorder: h.Errors}.write(r.Context(), w, err)
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type loginResponse struct {
	AccessToken string `json:"accessToken"`
}

type profileResponse struct {
	Message string             `json:"message"`
	User    domainauth.Profile `json:"user"`
}

// Register creates a user with the default role.
// POST /api/register.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.Svc.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.logger().InfoContext(r.Context(), "user registered", "user_id", user.ID)
	WriteJSON(w, http.StatusCreated, messageResponse{Message: msgRegistered})
}

// Login verifies credentials and returns a bearer token.
// POST /api/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	token, err := h.Svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, loginResponse{AccessToken: token})
}

// Logout revokes the caller's token and closes its session record.
// POST /api/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	claims, _ := GetClaimsFromContext(r.Context())
	if err := h.Svc.Logout(r.Context(), GetTokenFromContext(r.Context()), claims); err != nil {
		h.fail(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, messageResponse{Message: msgLoggedOut})
}

// Profile returns the caller's public profile.
// GET /api/profile.
func (h *AuthHandlers) Profile(w http.ResponseWriter, r *http.Request) {
	claims, _ := GetClaimsFromContext(r.Context())
	profile, err := h.Svc.GetProfile(r.Context(), claims)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, profileResponse{
		Message: fmt.Sprintf("Welcome, %s! This is your profile.", profile.Username),
		User:    profile,
	})
}

// AdminSessions lists the most recent session records, newest first.
// GET /api/admin/sessions.
func (h *AuthHandlers) AdminSessions(w http.ResponseWriter, r *http.Request) {
	claims, _ := GetClaimsFromContext(r.Context())
	records, err := h.Svc.ListRecentSessions(r.Context(), claims)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, records)
}
