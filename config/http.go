package config

import (
	"strconv"
	"strings"
)

const defaultMaxBodyBytes int64 = 1 << 20

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Port is used to build Addr when HTTP_ADDR is unset.
	Port int `env:"PORT" envDefault:"3000"`

	// Addr is the address to bind the HTTP server to. Overrides Port.
	Addr string `env:"HTTP_ADDR"`

	// CORSAllowedOrigins lists origins allowed to call the API. "*" allows any origin.
	CORSAllowedOrigins []string `env:"HTTP_CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// MaxBodyBytes caps JSON request bodies.
	MaxBodyBytes int64 `env:"HTTP_MAX_BODY_BYTES" envDefault:"1048576"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	h.Addr = strings.TrimSpace(h.Addr)
	if h.Addr == "" {
		port := h.Port
		if port <= 0 || port > 65535 {
			port = 3000
		}
		h.Addr = ":" + strconv.Itoa(port)
	}

	origins := h.CORSAllowedOrigins[:0]
	for _, o := range h.CORSAllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = append(origins, "*")
	}
	h.CORSAllowedOrigins = origins

	if h.MaxBodyBytes <= 0 {
		h.MaxBodyBytes = defaultMaxBodyBytes
	}
}
