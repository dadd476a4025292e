// Package classify maps hostnames to the domain policy that decides whether a
// page is summarized at all.
package classify

import (
	"fmt"
	"strings"

	"tweet-takeaways/internal/domain/entity"
)

// Tables holds the registered domain lists. Hosts are matched after
// normalization, so entries may be written with or without "www.".
type Tables struct {
	News        []string `yaml:"news"`
	Social      []string `yaml:"social"`
	CookieGated []string `yaml:"cookie_gated"`
	Government  []string `yaml:"government"`

	// OfficialSuffixes are matched when no exact entry exists, e.g. ".gov".
	OfficialSuffixes []string `yaml:"official_suffixes"`

	// CaptionHosts publish their post text in preview tags; that text is
	// preferred as the model prompt.
	CaptionHosts []string `yaml:"caption_hosts"`

	// RotatingHosts serve unreliable preview imagery; their pages always get a
	// rotating fallback image.
	RotatingHosts []string `yaml:"rotating_hosts"`
}

// Classifier resolves hostnames against immutable lookup tables.
// It is safe for concurrent use.
type Classifier struct {
	exact    map[string]entity.DomainPolicy
	suffixes []string
	caption  map[string]struct{}
	rotating map[string]struct{}
}

// New builds a Classifier. A host registered under two categories is a
// configuration error.
func New(t Tables) (*Classifier, error) {
	c := &Classifier{
		exact:    make(map[string]entity.DomainPolicy),
		caption:  toSet(t.CaptionHosts),
		rotating: toSet(t.RotatingHosts),
	}

	groups := []struct {
		policy entity.DomainPolicy
		hosts  []string
	}{
		{entity.PolicyCookieGated, t.CookieGated},
		{entity.PolicyNews, t.News},
		{entity.PolicySocial, t.Social},
		{entity.PolicyGovernment, t.Government},
	}
	for _, g := range groups {
		for _, h := range g.hosts {
			host := NormalizeHost(h)
			if host == "" {
				continue
			}
			if prev, ok := c.exact[host]; ok && prev != g.policy {
				return nil, &entity.ConfigError{
					Field: "domains",
					Err:   fmt.Errorf("%s registered as both %s and %s", host, prev, g.policy),
				}
			}
			c.exact[host] = g.policy
		}
	}

	for _, s := range t.OfficialSuffixes {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if !strings.HasPrefix(s, ".") {
			s = "." + s
		}
		c.suffixes = append(c.suffixes, s)
	}

	return c, nil
}

// Classify returns the policy for hostname. Exact entries win over suffix
// rules; anything unmatched, including garbage input, is PolicyNone.
func (c *Classifier) Classify(hostname string) entity.DomainPolicy {
	host := NormalizeHost(hostname)
	if host == "" {
		return entity.PolicyNone
	}
	if p, ok := c.exact[host]; ok {
		return p
	}
	for _, s := range c.suffixes {
		if strings.HasSuffix(host, s) {
			return entity.PolicyGovernment
		}
	}
	return entity.PolicyNone
}

// PrefersCaption reports whether hostname publishes post text in its preview tags.
func (c *Classifier) PrefersCaption(hostname string) bool {
	_, ok := c.caption[NormalizeHost(hostname)]
	return ok
}

// UsesRotatingImagery reports whether hostname belongs to the rotating fallback category.
func (c *Classifier) UsesRotatingImagery(hostname string) bool {
	_, ok := c.rotating[NormalizeHost(hostname)]
	return ok
}

// NormalizeHost lowercases and trims hostname and strips one leading "www."
// label and any trailing root dot.
func NormalizeHost(hostname string) string {
	h := strings.ToLower(strings.TrimSpace(hostname))
	h = strings.TrimSuffix(h, ".")
	return strings.TrimPrefix(h, "www.")
}

func toSet(hosts []string) map[string]struct{} {
	set := make(map[string]struct{}, len(hosts))
	for _, h := range hosts {
		if n := NormalizeHost(h); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}
