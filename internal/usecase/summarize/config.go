package summarize

import (
	"errors"
	"fmt"
	"time"

	"tweet-takeaways/internal/utils/text"
)

// GovernmentPolicy decides what happens to official government hosts.
type GovernmentPolicy string

const (
	// GovernmentGate answers with a fixed message and fallback image.
	GovernmentGate GovernmentPolicy = "gate"
	// GovernmentSummarize runs the full pipeline.
	GovernmentSummarize GovernmentPolicy = "summarize"
)

// Messages are the fixed summaries returned by terminal states.
type Messages struct {
	CookieGated     string `yaml:"cookie_gated"`
	News            string `yaml:"news"`
	Social          string `yaml:"social"`
	Government      string `yaml:"government"`
	WeirdLink       string `yaml:"weird_link"`
	NothingReadable string `yaml:"nothing_readable"`
	ForcedFailure   string `yaml:"forced_failure"`
}

// DefaultMessages returns the stock wording.
func DefaultMessages() Messages {
	return Messages{
		CookieGated:     "✨ This site is gatekeeping content behind cookies/sessions. Summarize it yourself. ✨",
		News:            "We can’t summarize this one — blame the paywalls, trackers, or both. 🧱💸",
		Social:          "A summary for a social media post? Seriously? Go use the app. ✌️✨",
		Government:      "Official government page. Big Brother would rather you read it yourself. 👁️",
		WeirdLink:       "Hugging Face thinks that link is weird... 🙃",
		NothingReadable: "🧨 Hugging Face couldn't find enough readable text.",
		ForcedFailure:   "🧨 Hugging Face couldn't read this article right now.",
	}
}

func (m Messages) validate() error {
	fields := map[string]string{
		"cookie_gated":     m.CookieGated,
		"news":             m.News,
		"social":           m.Social,
		"government":       m.Government,
		"weird_link":       m.WeirdLink,
		"nothing_readable": m.NothingReadable,
		"forced_failure":   m.ForcedFailure,
	}
	for name, v := range fields {
		if v == "" {
			return fmt.Errorf("message %s is empty", name)
		}
		if text.CountRunes(v) > text.DisplayCap {
			return fmt.Errorf("message %s exceeds %d runes", name, text.DisplayCap)
		}
	}
	return nil
}

// RetryConfig bounds the remote stage.
type RetryConfig struct {
	Attempts int           `yaml:"attempts"`
	Delay    time.Duration `yaml:"delay"`
}

// Config holds the pipeline thresholds and switches.
type Config struct {
	// MinDescriptionChars is the shortest preview description used as-is.
	MinDescriptionChars int `yaml:"min_description_chars"`

	// MinScrapeChars is the shortest heuristic body text used as-is.
	MinScrapeChars int `yaml:"min_scrape_chars"`

	// DisplayCap bounds every summary, in runes.
	DisplayCap int `yaml:"display_cap"`

	GovernmentPolicy GovernmentPolicy `yaml:"government_policy"`

	// GatedPreviewFetch fetches news and social pages only to recover
	// their preview image.
	GatedPreviewFetch bool `yaml:"gated_preview_fetch"`

	Retry RetryConfig `yaml:"retry"`

	// RemoteBudget bounds the whole remote stage, retries included. It must
	// stay below the request timeout.
	RemoteBudget time.Duration `yaml:"remote_budget"`

	// OCREnabled adds the screenshot and OCR last resort.
	OCREnabled bool `yaml:"ocr_enabled"`

	// OCRMinChars is the shortest recognized text worth summarizing.
	OCRMinChars int `yaml:"ocr_min_chars"`

	Messages Messages `yaml:"messages"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		MinDescriptionChars: 30,
		MinScrapeChars:      100,
		DisplayCap:          text.DisplayCap,
		GovernmentPolicy:    GovernmentGate,
		GatedPreviewFetch:   true,
		Retry:               RetryConfig{Attempts: 3, Delay: 1500 * time.Millisecond},
		RemoteBudget:        60 * time.Second,
		OCRMinChars:         50,
		Messages:            DefaultMessages(),
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.MinDescriptionChars < 1 {
		return errors.New("min_description_chars must be positive")
	}
	if c.MinScrapeChars < 1 {
		return errors.New("min_scrape_chars must be positive")
	}
	if c.DisplayCap < c.MinDescriptionChars {
		return fmt.Errorf("display_cap %d is below min_description_chars %d", c.DisplayCap, c.MinDescriptionChars)
	}
	switch c.GovernmentPolicy {
	case GovernmentGate, GovernmentSummarize:
	default:
		return fmt.Errorf("government_policy must be %q or %q, got %q", GovernmentGate, GovernmentSummarize, c.GovernmentPolicy)
	}
	if c.Retry.Attempts < 1 || c.Retry.Attempts > 10 {
		return fmt.Errorf("retry.attempts must be between 1 and 10, got %d", c.Retry.Attempts)
	}
	if c.Retry.Delay < 0 || c.Retry.Delay > 30*time.Second {
		return fmt.Errorf("retry.delay must be between 0 and 30s, got %s", c.Retry.Delay)
	}
	if c.RemoteBudget <= 0 {
		return fmt.Errorf("remote_budget must be positive, got %s", c.RemoteBudget)
	}
	if c.OCREnabled && c.OCRMinChars < 1 {
		return errors.New("ocr_min_chars must be positive when OCR is enabled")
	}
	return c.Messages.validate()
}
