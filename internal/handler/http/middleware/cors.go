// Package middleware holds the cross-origin policy for the public API.
package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	envconfig "tweet-takeaways/pkg/config"
)

// AnyOrigin in AllowedOrigins admits every origin.
const AnyOrigin = "*"

// CORSConfig holds the cross-origin policy.
type CORSConfig struct {
	// AllowedOrigins lists exact origins, or AnyOrigin.
	// Default: ["*"]
	AllowedOrigins []string

	// Default: ["GET", "POST", "OPTIONS"]
	AllowedMethods []string

	// Default: ["Content-Type", "X-Request-ID"]
	AllowedHeaders []string

	// MaxAge is how long a preflight answer may be cached, in seconds.
	// Default: 86400
	MaxAge int

	Logger *slog.Logger
}

// LoadCORSConfig reads the policy from the environment.
//
// Environment variables:
//   - CORS_ALLOWED_ORIGINS: comma-separated origins or "*" (default: *)
//   - CORS_ALLOWED_METHODS: comma-separated methods
//   - CORS_ALLOWED_HEADERS: comma-separated headers
//   - CORS_MAX_AGE: seconds, 0 to 86400 (default: 86400)
func LoadCORSConfig(logger *slog.Logger) (CORSConfig, error) {
	cfg := CORSConfig{
		AllowedOrigins: envconfig.GetEnvStringList("CORS_ALLOWED_ORIGINS", []string{AnyOrigin}),
		AllowedMethods: envconfig.GetEnvStringList("CORS_ALLOWED_METHODS", []string{"GET", "POST", "OPTIONS"}),
		AllowedHeaders: envconfig.GetEnvStringList("CORS_ALLOWED_HEADERS", []string{"Content-Type", "X-Request-ID"}),
		MaxAge:         envconfig.GetEnvInt("CORS_MAX_AGE", 86400),
		Logger:         logger,
	}
	for i, m := range cfg.AllowedMethods {
		cfg.AllowedMethods[i] = strings.ToUpper(m)
	}
	if err := cfg.Validate(); err != nil {
		return CORSConfig{}, err
	}
	return cfg, nil
}

// Validate rejects origins that are neither AnyOrigin nor a bare
// scheme://host[:port].
func (c CORSConfig) Validate() error {
	if len(c.AllowedOrigins) == 0 {
		return fmt.Errorf("CORS_ALLOWED_ORIGINS must not be empty")
	}
	for _, origin := range c.AllowedOrigins {
		if origin == AnyOrigin {
			continue
		}
		u, err := url.Parse(origin)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid CORS origin %q: must be http(s)://host[:port]", origin)
		}
		if u.Path != "" && u.Path != "/" {
			return fmt.Errorf("invalid CORS origin %q: must not contain a path", origin)
		}
	}
	if c.MaxAge < 0 || c.MaxAge > 86400 {
		return fmt.Errorf("CORS_MAX_AGE must be between 0 and 86400, got %d", c.MaxAge)
	}
	return nil
}

func (c CORSConfig) allowed(origin string) bool {
	for _, o := range c.AllowedOrigins {
		if o == AnyOrigin || strings.EqualFold(strings.TrimSuffix(o, "/"), origin) {
			return true
		}
	}
	return false
}

// CORS answers preflight requests and stamps Access-Control headers on
// requests from allowed origins. Disallowed origins are passed through
// without headers so the browser blocks the response.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Add("Vary", "Origin")

			if !cfg.allowed(origin) {
				logger.Warn("CORS: origin not allowed",
					slog.String("origin", origin),
					slog.String("path", r.URL.Path))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Set("Access-Control-Allow-Methods", methods)
				w.Header().Set("Access-Control-Allow-Headers", headers)
				w.Header().Set("Access-Control-Max-Age", maxAge)
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
