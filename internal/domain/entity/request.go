package entity

import (
	"fmt"
	"net/url"
	"strings"
)

// SummarizationRequest is a validated summarization target.
// Construct it with NewSummarizationRequest; the zero value is not usable.
type SummarizationRequest struct {
	url  string
	host string
}

// NewSummarizationRequest trims rawURL, prefixes https:// when no scheme is
// present, and validates the result.
func NewSummarizationRequest(rawURL string) (SummarizationRequest, error) {
	normalized := NormalizeURL(rawURL)
	if err := ValidateURL(normalized); err != nil {
		return SummarizationRequest{}, err
	}
	u, err := url.Parse(normalized)
	if err != nil {
		return SummarizationRequest{}, &ValidationError{Field: "url", Message: "url is invalid"}
	}
	return SummarizationRequest{url: u.String(), host: u.Hostname()}, nil
}

// NormalizeURL trims surrounding whitespace and adds an https scheme to
// scheme-less input such as "example.com/a".
func NormalizeURL(rawURL string) string {
	s := strings.TrimSpace(rawURL)
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return s
	}
	if strings.Contains(s, "://") {
		// foreign scheme, left for ValidateURL to reject
		return s
	}
	return "https://" + strings.TrimPrefix(s, "//")
}

// URL returns the normalized absolute URL.
func (r SummarizationRequest) URL() string { return r.url }

// Host returns the hostname without port.
func (r SummarizationRequest) Host() string { return r.host }

func (r SummarizationRequest) String() string {
	return fmt.Sprintf("SummarizationRequest(%s)", r.url)
}
