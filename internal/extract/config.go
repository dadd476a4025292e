package extract

import (
	"fmt"
	"regexp"
	"strings"
)

// Config tunes the body heuristic and the sanitizer.
type Config struct {
	// PrimaryMinChars is the minimum text length for a main/article element to win outright.
	PrimaryMinChars int `yaml:"primary_min_chars"`
	// ContainerMinChars and ContainerMaxChars bound generic block candidates.
	ContainerMinChars int `yaml:"container_min_chars"`
	ContainerMaxChars int `yaml:"container_max_chars"`
	// ParagraphCount is how many leading <p> elements form the last-resort text.
	ParagraphCount int `yaml:"paragraph_count"`
	// ChromePhrases mark a block as UI chrome (matched case-insensitively).
	ChromePhrases []string `yaml:"chrome_phrases"`

	// BoilerplateAttrKeywords are matched against id and class attributes.
	BoilerplateAttrKeywords []string `yaml:"boilerplate_attr_keywords"`
	// BoilerplatePhrases start non-article chrome; they and everything after are dropped.
	BoilerplatePhrases []string `yaml:"boilerplate_phrases"`
}

// DefaultConfig returns the stock heuristic settings.
func DefaultConfig() Config {
	return Config{
		PrimaryMinChars:         280,
		ContainerMinChars:       280,
		ContainerMaxChars:       3000,
		ParagraphCount:          5,
		ChromePhrases:           []string{"block user"},
		BoilerplateAttrKeywords: []string{"skip", "accessibility", "nav", "menu", "footer", "header"},
		BoilerplatePhrases:      []string{"Navigation Menu", "Skip to main content", "Keyboard shortcuts", "Accessibility links"},
	}
}

// Validate checks the numeric bounds.
func (c Config) Validate() error {
	if c.PrimaryMinChars < 0 {
		return fmt.Errorf("primary_min_chars must be non-negative, got %d", c.PrimaryMinChars)
	}
	if c.ContainerMinChars < 0 || c.ContainerMaxChars < c.ContainerMinChars {
		return fmt.Errorf("container bounds invalid: min %d, max %d", c.ContainerMinChars, c.ContainerMaxChars)
	}
	if c.ParagraphCount < 1 {
		return fmt.Errorf("paragraph_count must be positive, got %d", c.ParagraphCount)
	}
	return nil
}

// alternation builds a case-insensitive regexp matching any of words literally.
// It returns nil for an empty list.
func alternation(words []string, suffix string) *regexp.Regexp {
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			quoted = append(quoted, regexp.QuoteMeta(w))
		}
	}
	if len(quoted) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)(?:` + strings.Join(quoted, "|") + `)` + suffix)
}
