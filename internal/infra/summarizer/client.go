package summarizer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abadojack/whatlanggo"

	"tweet-takeaways/internal/domain/entity"
	"tweet-takeaways/internal/resilience/circuitbreaker"
	"tweet-takeaways/internal/utils/text"
)

// ClientConfig holds the post-processing and prompt settings.
type ClientConfig struct {
	// MaxInputChars caps the prompt, in runes.
	MaxInputChars int `yaml:"max_input_chars"`

	// MinOutputChars is the shortest post-processed output accepted, in runes.
	MinOutputChars int `yaml:"min_output_chars"`

	// DisplayCap bounds the returned summary, in runes.
	DisplayCap int `yaml:"display_cap"`

	// CallTimeout bounds one model call when the model entry sets none.
	CallTimeout time.Duration `yaml:"call_timeout"`

	// Denylist holds stock phrases stripped from every output.
	Denylist []string `yaml:"denylist"`

	// ShellValues are outputs that carry no information, such as a bare
	// platform name. Compared case-insensitively.
	ShellValues []string `yaml:"shell_values"`
}

// DefaultClientConfig returns the defaults used when no document overrides them.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		MaxInputChars:  1024,
		MinOutputChars: 30,
		DisplayCap:     text.DisplayCap,
		CallTimeout:    30 * time.Second,
		ShellValues:    []string{"instagram", "facebook", "threads", "x", "tiktok", "linkedin"},
	}
}

// Validate checks the configuration.
func (c ClientConfig) Validate() error {
	if c.MaxInputChars < 100 || c.MaxInputChars > 8192 {
		return fmt.Errorf("max_input_chars must be between 100 and 8192, got %d", c.MaxInputChars)
	}
	if c.MinOutputChars < 1 {
		return fmt.Errorf("min_output_chars must be positive, got %d", c.MinOutputChars)
	}
	if c.DisplayCap < c.MinOutputChars {
		return fmt.Errorf("display_cap %d is below min_output_chars %d", c.DisplayCap, c.MinOutputChars)
	}
	if c.CallTimeout <= 0 {
		return fmt.Errorf("call_timeout must be positive, got %v", c.CallTimeout)
	}
	return nil
}

// Client tries the candidates in order and post-processes the first answer
// that survives the rejection rule.
type Client struct {
	cfg        ClientConfig
	candidates []candidateEntry
	denylist   *Denylist
	shells     map[string]struct{}
	metrics    MetricsRecorder
	logger     *slog.Logger
}

type candidateEntry struct {
	Candidate
	breaker *circuitbreaker.CircuitBreaker
}

// Option customizes a Client.
type Option func(*Client)

// WithMetricsRecorder replaces the Prometheus recorder.
func WithMetricsRecorder(m MetricsRecorder) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a Client. Each candidate gets its own circuit breaker.
func NewClient(cfg ClientConfig, candidates []Candidate, logger *slog.Logger, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &entity.ConfigError{Field: "summarizer", Err: err}
	}
	if len(candidates) == 0 {
		return nil, &entity.ConfigError{Field: "models", Err: errors.New("at least one model is required")}
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		cfg:      cfg,
		denylist: NewDenylist(cfg.Denylist),
		shells:   make(map[string]struct{}, len(cfg.ShellValues)),
		metrics:  NewPrometheusMetrics(),
		logger:   logger,
	}
	for _, s := range cfg.ShellValues {
		c.shells[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}
	for _, cand := range candidates {
		bc := circuitbreaker.ModelConfig(cand.Model.Name())
		bc.IsSuccessful = func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		}
		c.candidates = append(c.candidates, candidateEntry{Candidate: cand, breaker: circuitbreaker.New(bc)})
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Models lists the candidate names in priority order.
func (c *Client) Models() []string {
	names := make([]string, len(c.candidates))
	for i, cand := range c.candidates {
		names[i] = cand.Model.Name()
	}
	return names
}

// Circuits reports each model breaker's state keyed by breaker name.
func (c *Client) Circuits() map[string]string {
	out := make(map[string]string, len(c.candidates))
	for _, cand := range c.candidates {
		out[cand.breaker.Name()] = cand.breaker.State().String()
	}
	return out
}

// PreparePrompt normalizes source, drops a dangling trailing ellipsis, and
// caps the result to MaxInputChars runes.
func (c *Client) PreparePrompt(source string) string {
	prompt := text.CollapseWhitespace(text.Normalize(source))
	prompt = text.TrimDanglingEllipsis(prompt)
	return strings.TrimSpace(text.Truncate(prompt, c.cfg.MaxInputChars))
}

// PromptHash returns the hex sha256 of a prepared prompt.
func PromptHash(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}

// Summarize submits the prepared source to each candidate in priority order
// and returns the first accepted summary. When every candidate fails the
// last *entity.ModelError is returned.
func (c *Client) Summarize(ctx context.Context, source string) (string, error) {
	prompt := c.PreparePrompt(source)
	if prompt == "" {
		return "", &entity.ModelError{Reason: "empty_prompt", Err: entity.ErrExtractionEmpty}
	}

	c.logger.DebugContext(ctx, "submitting prompt",
		slog.String("prompt_sha256", PromptHash(prompt)),
		slog.Int("prompt_runes", text.CountRunes(prompt)))

	lang := detectLanguage(prompt)

	var lastErr error
	for _, cand := range c.candidates {
		name := cand.Model.Name()
		if !acceptsLanguage(cand.Languages, lang) {
			c.metrics.RecordCall(name, OutcomeSkipped, 0)
			c.logger.DebugContext(ctx, "model skipped for prompt language",
				slog.String("model", name),
				slog.String("language", lang))
			lastErr = &entity.ModelError{Model: name, Reason: "language", Err: fmt.Errorf("%w: %s", entity.ErrUnsupportedLanguage, lang)}
			continue
		}

		summary, err := c.attempt(ctx, cand, prompt)
		if err == nil {
			return summary, nil
		}
		lastErr = err
		c.logger.WarnContext(ctx, "model attempt failed",
			slog.String("model", name),
			slog.String("error", err.Error()))
		if ctx.Err() != nil {
			break
		}
	}
	return "", lastErr
}

func (c *Client) attempt(ctx context.Context, cand candidateEntry, prompt string) (string, error) {
	name := cand.Model.Name()
	timeout := cand.Timeout
	if timeout <= 0 {
		timeout = c.cfg.CallTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	raw, err := circuitbreaker.Run(cand.breaker, func() (string, error) {
		return cand.Model.Generate(callCtx, prompt)
	})
	duration := time.Since(start)

	if err != nil {
		if circuitbreaker.IsRejection(err) {
			c.metrics.RecordCall(name, OutcomeCircuitOpen, duration)
			return "", &entity.ModelError{Model: name, Reason: "circuit_open", Err: err}
		}
		c.metrics.RecordCall(name, OutcomeError, duration)
		var me *entity.ModelError
		if errors.As(err, &me) {
			return "", err
		}
		return "", &entity.ModelError{Model: name, Reason: "transport", Err: err}
	}

	summary, dropped := c.Postprocess(raw, prompt)
	c.metrics.RecordDroppedWords(name, dropped)

	if reason := c.rejectReason(summary); reason != "" {
		c.metrics.RecordCall(name, OutcomeRejected, duration)
		return "", &entity.ModelError{Model: name, Reason: "rejected", Err: fmt.Errorf("%w: %s", entity.ErrModelRejected, reason)}
	}

	c.metrics.RecordCall(name, OutcomeOK, duration)
	c.logger.InfoContext(ctx, "model summary accepted",
		slog.String("model", name),
		slog.Int("summary_runes", text.CountRunes(summary)),
		slog.Int("dropped_words", dropped),
		slog.Duration("duration", duration))
	return summary, nil
}

// Postprocess applies denylist removal, vocabulary enforcement against
// prompt, whitespace collapsing, and the display cap, in that order.
func (c *Client) Postprocess(raw, prompt string) (string, int) {
	out := c.denylist.Strip(text.Normalize(raw))
	out, dropped := EnforceVocabulary(out, prompt)
	out = text.CollapseWhitespace(out)
	return text.Cap(out, c.cfg.DisplayCap), dropped
}

func (c *Client) rejectReason(summary string) string {
	if text.CountRunes(summary) < c.cfg.MinOutputChars {
		return "too short"
	}
	key := strings.ToLower(strings.Trim(summary, " .!?…"))
	if _, ok := c.shells[key]; ok {
		return "shell value"
	}
	return ""
}

// detectLanguage returns the ISO 639-3 code of prompt, or "" when the
// detection is not reliable.
func detectLanguage(prompt string) string {
	info := whatlanggo.Detect(prompt)
	if !info.IsReliable() {
		return ""
	}
	return info.Lang.Iso6393()
}

func acceptsLanguage(allowed []string, lang string) bool {
	if len(allowed) == 0 || lang == "" {
		return true
	}
	for _, a := range allowed {
		if strings.EqualFold(a, lang) {
			return true
		}
	}
	return false
}
