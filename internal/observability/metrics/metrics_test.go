package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics(revoked func() int) *Metrics {
	return New(Options{Registry: prometheus.NewRegistry(), RevokedTokens: revoked})
}

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	m := newTestMetrics(nil)
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, path := range []string{"/api/items/1", "/api/items/2", "/nowhere"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.InDelta(t, 2, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/items/{id}", "418")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", unmatchedRoute, "404")), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(m.HTTPRequestDuration))
}

func TestRecordAuthEvent(t *testing.T) {
	m := newTestMetrics(nil)
	m.RecordAuthEvent("login", "success")
	m.RecordAuthEvent("login", "success")
	m.RecordAuthEvent("login", "rejected")

	assert.InDelta(t, 2, testutil.ToFloat64(m.AuthEventsTotal.WithLabelValues("login", "success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.AuthEventsTotal.WithLabelValues("login", "rejected")), 0)

	var nilMetrics *Metrics
	assert.NotPanics(t, func() { nilMetrics.RecordAuthEvent("login", "success") })
}

func TestRecordInternalError(t *testing.T) {
	m := newTestMetrics(nil)
	m.RecordInternalError(errors.New("boom"))
	m.RecordInternalError(nil)

	assert.Equal(t, 1, testutil.CollectAndCount(m.InternalErrorsTotal))
	assert.InDelta(t, 1, testutil.ToFloat64(m.InternalErrorsTotal.WithLabelValues("errors_errorstring")), 0)
}

func TestRevokedTokensGauge(t *testing.T) {
	size := 3
	m := newTestMetrics(func() int { return size })

	expected := `
# HELP mmk_auth_revoked_tokens Tokens currently held in the revocation registry
# TYPE mmk_auth_revoked_tokens gauge
mmk_auth_revoked_tokens 3
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "mmk_auth_revoked_tokens"))

	size = 5
	expected = strings.Replace(expected, "tokens 3", "tokens 5", 1)
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "mmk_auth_revoked_tokens"))
}

func TestHandler_ServesExposition(t *testing.T) {
	m := newTestMetrics(nil)
	m.RecordAuthEvent("register", "success")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `mmk_auth_events_total{event="register",result="success"} 1`)
}

func TestNew_DefaultRegistryIncludesRuntimeCollectors(t *testing.T) {
	m := New(Options{})
	families, err := m.Registry().Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "go_goroutines")
}
