// Package fetcher retrieves raw page markup for the summarization pipeline.
package fetcher

import (
	"fmt"
	"time"

	envconfig "tweet-takeaways/pkg/config"
)

// DefaultUserAgent is a desktop browser string; many sites serve stripped or
// blocked pages to unknown agents.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// Config controls page retrieval.
type Config struct {
	// Timeout bounds a single fetch including redirects and body read.
	// Default: 15s
	Timeout time.Duration

	// MaxBodySize is the largest accepted body in bytes, enforced while reading.
	// Default: 5MB
	MaxBodySize int64

	// MaxRedirects caps the redirect chain. Each hop is validated like the
	// original URL.
	// Default: 5
	MaxRedirects int

	// DenyPrivateIPs rejects hosts resolving to loopback, private, or
	// link-local addresses.
	// Default: true
	DenyPrivateIPs bool

	// UserAgent is sent with every request.
	UserAgent string

	// AcceptLanguage is sent with every request.
	// Default: "en-US,en;q=0.9"
	AcceptLanguage string
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:        15 * time.Second,
		MaxBodySize:    5 * 1024 * 1024,
		MaxRedirects:   5,
		DenyPrivateIPs: true,
		UserAgent:      DefaultUserAgent,
		AcceptLanguage: "en-US,en;q=0.9",
	}
}

// Validate checks the configuration bounds.
//
// Rules:
//   - Timeout: 1s-60s
//   - MaxBodySize: 1KB-50MB
//   - MaxRedirects: 0-10
func (c Config) Validate() error {
	if c.Timeout < time.Second || c.Timeout > 60*time.Second {
		return fmt.Errorf("fetch timeout must be between 1s and 60s, got %v", c.Timeout)
	}
	const minBody, maxBody = int64(1024), int64(50 * 1024 * 1024)
	if c.MaxBodySize < minBody || c.MaxBodySize > maxBody {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBody, maxBody, c.MaxBodySize)
	}
	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}
	return nil
}

// LoadConfigFromEnv overlays environment variables on DefaultConfig.
//
// Environment variables:
//   - FETCH_TIMEOUT: duration (default: 15s)
//   - FETCH_MAX_BODY_SIZE: bytes (default: 5242880)
//   - FETCH_MAX_REDIRECTS: integer (default: 5)
//   - FETCH_DENY_PRIVATE_IPS: bool (default: true)
//   - FETCH_USER_AGENT: string
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	cfg.Timeout = envconfig.GetEnvDuration("FETCH_TIMEOUT", cfg.Timeout)
	cfg.MaxBodySize = envconfig.GetEnvInt64("FETCH_MAX_BODY_SIZE", cfg.MaxBodySize)
	cfg.MaxRedirects = envconfig.GetEnvInt("FETCH_MAX_REDIRECTS", cfg.MaxRedirects)
	cfg.DenyPrivateIPs = envconfig.GetEnvBool("FETCH_DENY_PRIVATE_IPS", cfg.DenyPrivateIPs)
	cfg.UserAgent = envconfig.GetEnvString("FETCH_USER_AGENT", cfg.UserAgent)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("fetch configuration: %w", err)
	}
	return cfg, nil
}
