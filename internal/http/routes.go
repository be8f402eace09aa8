package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/target/mmk-auth-api/internal/observability/metrics"
)

// DefaultMaxBodyBytes caps JSON request bodies when RouterServices.MaxBodyBytes is unset.
const DefaultMaxBodyBytes int64 = 1 << 20

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth AuthServiceInterface
	// Optional: defaults to slog.Default().
	Logger *slog.Logger
	// Optional: when nil no request metrics are recorded and no metrics route is mounted.
	Metrics *metrics.Metrics
	// MetricsPath defaults to /metrics.
	MetricsPath string
	// Readiness checks run by /readyz in order.
	Readiness []ReadinessCheck
	// CORSOrigins lists allowed origins; empty or "*" allows any origin.
	CORSOrigins  []string
	MaxBodyBytes int64
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origins := services.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	maxBody := services.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}

	var recorder InternalErrorRecorder
	if services.Metrics != nil {
		recorder = services.Metrics
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(Recover(logger))
	r.Use(Logging(logger))
	if services.Metrics != nil {
		r.Use(services.Metrics.Middleware)
	}
	r.Use(CORS(origins))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: errors.New("route not found")})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, ErrorParams{
			Code:    http.StatusMethodNotAllowed,
			ErrCode: "method_not_allowed",
			Err:     errors.New("method not allowed"),
		})
	})

	r.Get("/healthz", healthHandler)
	r.Head("/healthz", healthHandler)
	r.Get("/readyz", readinessHandler(services.Readiness, logger))

	if services.Metrics != nil {
		path := services.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, services.Metrics.Handler())
	}

	if services.Auth != nil {
		registerAuthRoutes(r, authRouteConfig{
			handlers: &AuthHandlers{Svc: services.Auth, Logger: logger, Errors: recorder},
			guard:    AuthMiddleware{Svc: services.Auth, Logger: logger, Errors: recorder},
			maxBody:  maxBody,
		})
	}

	return r
}

type authRouteConfig struct {
	handlers *AuthHandlers
	guard    AuthMiddleware
	maxBody  int64
}

func registerAuthRoutes(r chi.Router, cfg authRouteConfig) {
	r.Route("/api", func(r chi.Router) {
		r.Use(BodyLimit(cfg.maxBody))

		r.Post("/register", cfg.handlers.Register)
		r.Post("/login", cfg.handlers.Login)

		r.Group(func(r chi.Router) {
			r.Use(cfg.guard.RequireAuth)
			r.Post("/logout", cfg.handlers.Logout)
			r.Get("/profile", cfg.handlers.Profile)

			r.With(cfg.guard.RequireAdmin).Get("/admin/sessions", cfg.handlers.AdminSessions)
		})
	})
}
