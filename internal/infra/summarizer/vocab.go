package summarizer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"tweet-takeaways/internal/utils/text"
)

// A token is either a word (letters and digits, optionally joined by
// apostrophes or hyphens) or a single punctuation character.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+(?:['\-][\p{L}\p{N}]+)*|[^\s\p{L}\p{N}]`)

var spaceBeforeClose = regexp.MustCompile(`\s+([.,!?;:])`)

// Vocabulary is the lower-cased word set of a source text.
type Vocabulary map[string]struct{}

// NewVocabulary collects the words of source. Hyphenated words contribute
// their parts as well.
func NewVocabulary(source string) Vocabulary {
	v := Vocabulary{}
	for _, tok := range tokenPattern.FindAllString(text.Normalize(source), -1) {
		if !isWord(tok) {
			continue
		}
		lower := strings.ToLower(tok)
		v[lower] = struct{}{}
		if strings.Contains(lower, "-") {
			for _, part := range strings.Split(lower, "-") {
				v[part] = struct{}{}
			}
		}
	}
	return v
}

// Contains reports whether word may appear in output. A hyphenated word is
// allowed when each of its parts is.
func (v Vocabulary) Contains(word string) bool {
	lower := strings.ToLower(word)
	if _, ok := v[lower]; ok {
		return true
	}
	if !strings.Contains(lower, "-") {
		return false
	}
	for _, part := range strings.Split(lower, "-") {
		if _, ok := v[part]; !ok {
			return false
		}
	}
	return true
}

// EnforceVocabulary drops every word of generated that does not occur in
// source and re-joins the survivors. Punctuation tokens are always kept;
// only the spacing around them changes. It returns the number of dropped
// words.
func EnforceVocabulary(generated, source string) (string, int) {
	vocab := NewVocabulary(source)
	tokens := tokenPattern.FindAllString(text.Normalize(generated), -1)

	kept := make([]string, 0, len(tokens))
	dropped := 0
	for _, tok := range tokens {
		if isWord(tok) && !vocab.Contains(tok) {
			dropped++
			continue
		}
		kept = append(kept, tok)
	}
	return tidy(joinTokens(kept)), dropped
}

func isWord(tok string) bool {
	r, _ := utf8.DecodeRuneInString(tok)
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

func joinTokens(tokens []string) string {
	var b strings.Builder
	quoteOpen := false
	glueNext := false
	for i, tok := range tokens {
		space := i > 0 && !glueNext
		glueNext = false
		switch {
		case tok == `"`:
			if quoteOpen {
				space = false
			} else {
				glueNext = true
			}
			quoteOpen = !quoteOpen
		case strings.ContainsAny(tok, ".,!?;:)]}%'") && len(tok) == 1:
			space = false
		case strings.ContainsAny(tok, "([{$") && len(tok) == 1:
			glueNext = true
		}
		if space {
			b.WriteByte(' ')
		}
		b.WriteString(tok)
	}
	return b.String()
}

// tidy only adjusts whitespace.
func tidy(s string) string {
	s = spaceBeforeClose.ReplaceAllString(s, "$1")
	return text.CollapseWhitespace(s)
}
