package text

import (
	"strings"
	"unicode"
)

// DisplayCap is the maximum summary length shown to users.
const DisplayCap = 280

// Ellipsis is appended to text shortened by Cap.
const Ellipsis = "…"

// Cap shortens s to at most limit runes. When s is longer, it is cut at the
// last word boundary that leaves room for the ellipsis, trailing ".,;:" and
// spaces are dropped, and Ellipsis is appended. A single word longer than
// the limit is cut hard.
func Cap(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	budget := limit - len([]rune(Ellipsis))
	if budget <= 0 {
		return string(r[:limit])
	}

	cut := budget
	if !unicode.IsSpace(r[budget]) {
		for i := budget - 1; i > 0; i-- {
			if unicode.IsSpace(r[i]) {
				cut = i
				break
			}
		}
	}

	head := strings.TrimRightFunc(string(r[:cut]), func(c rune) bool {
		return unicode.IsSpace(c) || strings.ContainsRune(".,;:", c)
	})
	if head == "" {
		head = string(r[:budget])
	}
	return head + Ellipsis
}

// Truncate returns the first limit runes of s without any marker.
func Truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
