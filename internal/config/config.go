// Package config assembles the service configuration: an embedded YAML
// document with the static tables and thresholds, an optional override
// file, and the environment for secrets and deployment knobs.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"tweet-takeaways/internal/classify"
	"tweet-takeaways/internal/domain/entity"
	"tweet-takeaways/internal/extract"
	"tweet-takeaways/internal/fallback"
	"tweet-takeaways/internal/infra/cache"
	"tweet-takeaways/internal/infra/huggingface"
	"tweet-takeaways/internal/infra/summarizer"
	"tweet-takeaways/internal/usecase/summarize"
	envconfig "tweet-takeaways/pkg/config"
)

//go:embed defaults.yaml
var defaultDocument []byte

// FallbackImages configures the fallback image table and the rotation.
type FallbackImages struct {
	Images   map[fallback.Category]string `yaml:"images"`
	Rotation fallback.RotationConfig      `yaml:"rotation"`
}

// Document is the YAML-backed part of the configuration.
type Document struct {
	Domains        classify.Tables         `yaml:"domains"`
	FallbackImages FallbackImages          `yaml:"fallback_images"`
	Extract        extract.Config          `yaml:"extract"`
	Summarizer     summarizer.ClientConfig `yaml:"summarizer"`
	Models         []summarizer.ModelSpec  `yaml:"models"`
	Pipeline       summarize.Config        `yaml:"pipeline"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	// Port is the listen port. Default: 8000
	Port int
	// BaseURL prefixes fallback image paths. Default: http://localhost:8000
	BaseURL string
	// StaticDir is served under /static/. Default: public
	StaticDir string
	// RateLimitRequests per RateLimitWindow per client IP. Default: 30 per 1m
	RateLimitRequests int
	RateLimitWindow   time.Duration
	// TrustForwarded makes the rate limiter key on X-Forwarded-For.
	// Default: false
	TrustForwarded bool
	// RequestTimeout bounds one summarize request. Default: 2m
	RequestTimeout time.Duration
	// ShutdownTimeout bounds graceful shutdown. Default: 10s
	ShutdownTimeout time.Duration
}

// HuggingFaceConfig holds the inference API settings shared by the
// summarization models and OCR.
type HuggingFaceConfig struct {
	BaseURL           string
	RequestsPerSecond float64
	Burst             int
	OCRModel          string
}

// CacheConfig selects the summary cache backend. An empty RedisURL selects
// the in-process cache; MaxEntries 0 disables caching.
type CacheConfig struct {
	RedisURL   string
	TTL        time.Duration
	MaxEntries int
}

// Config is the complete service configuration.
type Config struct {
	Document

	Server      ServerConfig
	HuggingFace HuggingFaceConfig
	Cache       CacheConfig
	Credentials summarizer.Credentials
	Endpoints   summarizer.Endpoints
}

// Load reads the embedded defaults, applies the file named by CONFIG_FILE
// when set, overlays the environment, and validates the result. Every
// failure is a *entity.ConfigError.
//
// Environment variables:
//   - CONFIG_FILE: YAML override document
//   - HF_API_TOKEN, OPENAI_API_KEY, ANTHROPIC_API_KEY: provider secrets
//   - HF_BASE_URL, OPENAI_BASE_URL, ANTHROPIC_BASE_URL: endpoint overrides
//   - HF_REQUESTS_PER_SECOND (default: 5), HF_BURST (default: 5)
//   - API_BASE_URL (default: http://localhost:8000)
//   - PORT (default: 8000)
//   - STATIC_DIR (default: public)
//   - RATE_LIMIT_REQUESTS (default: 30), RATE_LIMIT_WINDOW (default: 1m)
//   - TRUST_FORWARDED_HEADERS (default: false)
//   - REQUEST_TIMEOUT (default: 2m)
//   - SHUTDOWN_TIMEOUT (default: 10s)
//   - SUMMARIZER_TIMEOUT: per-call model timeout
//   - GOVERNMENT_POLICY: gate or summarize
//   - OCR_ENABLED (default: false), OCR_MODEL
//   - CACHE_REDIS_URL, CACHE_TTL (default: 6h), CACHE_MAX_ENTRIES (default: 1000)
func Load() (*Config, error) {
	doc, err := LoadDocument(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return nil, err
	}
	cfg := &Config{Document: *doc}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDocument parses the embedded defaults and, when path is non-empty,
// decodes the file at path on top of them. Keys present in the override
// replace the defaults; absent keys keep them.
func LoadDocument(path string) (*Document, error) {
	var doc Document
	if err := decodeStrict(bytes.NewReader(defaultDocument), &doc); err != nil {
		return nil, &entity.ConfigError{Field: "defaults.yaml", Err: err}
	}
	if path == "" {
		return &doc, nil
	}

	// #nosec G304 -- path comes from the operator's environment, not user input
	f, err := os.Open(path)
	if err != nil {
		return nil, &entity.ConfigError{Field: "CONFIG_FILE", Err: err}
	}
	defer func() {
		_ = f.Close()
	}()
	if err := decodeStrict(f, &doc); err != nil {
		return nil, &entity.ConfigError{Field: "CONFIG_FILE", Err: fmt.Errorf("%s: %w", path, err)}
	}
	return &doc, nil
}

func decodeStrict(r io.Reader, out *Document) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server = ServerConfig{
		Port:              envconfig.GetEnvInt("PORT", 8000),
		BaseURL:           strings.TrimRight(envconfig.GetEnvString("API_BASE_URL", "http://localhost:8000"), "/"),
		StaticDir:         envconfig.GetEnvString("STATIC_DIR", "public"),
		RateLimitRequests: envconfig.GetEnvInt("RATE_LIMIT_REQUESTS", 30),
		RateLimitWindow:   envconfig.GetEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		TrustForwarded:    envconfig.GetEnvBool("TRUST_FORWARDED_HEADERS", false),
		RequestTimeout:    envconfig.GetEnvDuration("REQUEST_TIMEOUT", 2*time.Minute),
		ShutdownTimeout:   envconfig.GetEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
	c.HuggingFace = HuggingFaceConfig{
		BaseURL:           envconfig.GetEnvString("HF_BASE_URL", huggingface.DefaultBaseURL),
		RequestsPerSecond: envconfig.GetEnvFloat("HF_REQUESTS_PER_SECOND", 5),
		Burst:             envconfig.GetEnvInt("HF_BURST", 5),
		OCRModel:          envconfig.GetEnvString("OCR_MODEL", ""),
	}
	c.Cache = CacheConfig{
		RedisURL:   envconfig.GetEnvString("CACHE_REDIS_URL", ""),
		TTL:        envconfig.GetEnvDuration("CACHE_TTL", cache.DefaultTTL),
		MaxEntries: envconfig.GetEnvInt("CACHE_MAX_ENTRIES", 1000),
	}
	c.Credentials = summarizer.Credentials{
		HuggingFaceToken: os.Getenv("HF_API_TOKEN"),
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		AnthropicKey:     os.Getenv("ANTHROPIC_API_KEY"),
	}
	c.Endpoints = summarizer.Endpoints{
		OpenAI:    os.Getenv("OPENAI_BASE_URL"),
		Anthropic: os.Getenv("ANTHROPIC_BASE_URL"),
	}

	c.Summarizer.CallTimeout = envconfig.GetEnvDuration("SUMMARIZER_TIMEOUT", c.Summarizer.CallTimeout)
	c.Pipeline.GovernmentPolicy = summarize.GovernmentPolicy(
		strings.ToLower(envconfig.GetEnvString("GOVERNMENT_POLICY", string(c.Pipeline.GovernmentPolicy))))
	c.Pipeline.OCREnabled = envconfig.GetEnvBool("OCR_ENABLED", c.Pipeline.OCREnabled)

	if dir := c.FallbackImages.Rotation.Dir; dir != "" && !filepath.IsAbs(dir) {
		c.FallbackImages.Rotation.Dir = filepath.Join(c.Server.StaticDir, dir)
	}
}

// Validate checks every section. The first failure is returned as a
// *entity.ConfigError naming the section or variable.
func (c *Config) Validate() error {
	if err := c.Document.Validate(); err != nil {
		return err
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return &entity.ConfigError{Field: "PORT", Err: fmt.Errorf("must be between 1 and 65535, got %d", c.Server.Port)}
	}
	if c.Server.BaseURL == "" {
		return &entity.ConfigError{Field: "API_BASE_URL", Err: errors.New("is required")}
	}
	if err := envconfig.ValidateIntRange(c.Server.RateLimitRequests, 1, 10000); err != nil {
		return &entity.ConfigError{Field: "RATE_LIMIT_REQUESTS", Err: err}
	}
	if err := envconfig.ValidatePositiveDuration(c.Server.RateLimitWindow); err != nil {
		return &entity.ConfigError{Field: "RATE_LIMIT_WINDOW", Err: err}
	}
	if err := envconfig.ValidatePositiveDuration(c.Server.RequestTimeout); err != nil {
		return &entity.ConfigError{Field: "REQUEST_TIMEOUT", Err: err}
	}
	if c.Pipeline.RemoteBudget >= c.Server.RequestTimeout {
		return &entity.ConfigError{Field: "REQUEST_TIMEOUT", Err: fmt.Errorf(
			"%s leaves no room after the %s remote budget", c.Server.RequestTimeout, c.Pipeline.RemoteBudget)}
	}
	if c.HuggingFace.RequestsPerSecond <= 0 {
		return &entity.ConfigError{Field: "HF_REQUESTS_PER_SECOND", Err: errors.New("must be positive")}
	}
	if err := envconfig.ValidatePositiveDuration(c.Cache.TTL); err != nil {
		return &entity.ConfigError{Field: "CACHE_TTL", Err: err}
	}
	if c.Cache.MaxEntries < 0 {
		return &entity.ConfigError{Field: "CACHE_MAX_ENTRIES", Err: errors.New("must not be negative")}
	}
	return nil
}

// Validate checks the YAML sections.
func (d *Document) Validate() error {
	if _, err := classify.New(d.Domains); err != nil {
		return err
	}
	if d.FallbackImages.Images[fallback.CategoryWeird] == "" {
		return &entity.ConfigError{Field: "fallback_images", Err: errors.New("the weird image is required")}
	}
	if err := d.Extract.Validate(); err != nil {
		return &entity.ConfigError{Field: "extract", Err: err}
	}
	if err := d.Summarizer.Validate(); err != nil {
		return &entity.ConfigError{Field: "summarizer", Err: err}
	}
	if len(d.Models) == 0 {
		return &entity.ConfigError{Field: "models", Err: errors.New("at least one model is required")}
	}
	for _, m := range d.Models {
		if err := m.Validate(); err != nil {
			return &entity.ConfigError{Field: "models", Err: err}
		}
	}
	if err := d.Pipeline.Validate(); err != nil {
		return &entity.ConfigError{Field: "pipeline", Err: err}
	}
	if d.Pipeline.DisplayCap != d.Summarizer.DisplayCap {
		return &entity.ConfigError{Field: "pipeline", Err: fmt.Errorf(
			"display_cap %d differs from summarizer display_cap %d", d.Pipeline.DisplayCap, d.Summarizer.DisplayCap)}
	}
	return nil
}
