package summarizer

import (
	"regexp"
	"sort"
	"strings"

	"tweet-takeaways/internal/utils/text"
)

// Denylist removes stock phrases that summarization models emit regardless
// of their input.
type Denylist struct {
	pattern *regexp.Regexp
}

// NewDenylist compiles phrases into one case-insensitive matcher. Runs of
// whitespace inside a phrase match any whitespace run in the output.
func NewDenylist(phrases []string) *Denylist {
	cleaned := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = text.CollapseWhitespace(text.Normalize(p))
		if p != "" {
			cleaned = append(cleaned, p)
		}
	}
	if len(cleaned) == 0 {
		return &Denylist{}
	}
	// Longest first so a phrase wins over any phrase it contains.
	sort.SliceStable(cleaned, func(i, j int) bool { return len(cleaned[i]) > len(cleaned[j]) })

	alts := make([]string, len(cleaned))
	for i, p := range cleaned {
		words := strings.Fields(p)
		for k, w := range words {
			words[k] = regexp.QuoteMeta(w)
		}
		alts[i] = strings.Join(words, `\s+`)
	}
	return &Denylist{pattern: regexp.MustCompile(`(?i)(?:` + strings.Join(alts, "|") + `)`)}
}

// Strip removes every denylisted phrase from s.
func (d *Denylist) Strip(s string) string {
	if d == nil || d.pattern == nil {
		return s
	}
	return text.CollapseWhitespace(d.pattern.ReplaceAllString(s, " "))
}
