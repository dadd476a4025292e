package text

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var punctuationReplacer = strings.NewReplacer(
	"’", "'", "‘", "'",
	"“", `"`, "”", `"`,
	"–", "-", "—", "-",
	"…", "...",
)

var danglingEllipsis = regexp.MustCompile(`(…|\.{3})\s*$`)

// Normalize applies NFKC and unifies the curly quotes, dashes, and ellipsis
// characters common in social and meta text.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	return punctuationReplacer.Replace(norm.NFKC.String(s))
}

// CollapseWhitespace replaces every whitespace run with a single space and trims the ends.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// TrimDanglingEllipsis removes a trailing "…" or "..." left by upstream truncation.
func TrimDanglingEllipsis(s string) string {
	return strings.TrimSpace(danglingEllipsis.ReplaceAllString(s, ""))
}
