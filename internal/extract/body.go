package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"tweet-takeaways/internal/utils/text"
)

// BodyText locates the main content of a page without structured hints:
//  1. the first main, then article, element whose text reaches PrimaryMinChars
//  2. the longest div whose text length lies within the container bounds and
//     carries no chrome phrase
//  3. the text of the first ParagraphCount paragraphs
//
// The result may be empty.
func (e *Extractor) BodyText(html string) string {
	doc := parse(html)

	for _, tag := range []string{"main", "article"} {
		node := doc.Find(tag).First()
		if node.Length() == 0 {
			continue
		}
		if t := nodeText(node); text.CountRunes(t) >= e.cfg.PrimaryMinChars {
			return t
		}
	}

	var best string
	bestLen := -1
	doc.Find("div").Each(func(_ int, s *goquery.Selection) {
		t := nodeText(s)
		n := text.CountRunes(t)
		if n < e.cfg.ContainerMinChars || n > e.cfg.ContainerMaxChars || e.looksLikeChrome(t) {
			return
		}
		if n > bestLen {
			best, bestLen = t, n
		}
	})
	if bestLen >= 0 {
		return best
	}

	paragraphs := make([]string, 0, e.cfg.ParagraphCount)
	doc.Find("p").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= e.cfg.ParagraphCount {
			return false
		}
		if t := nodeText(s); t != "" {
			paragraphs = append(paragraphs, t)
		}
		return true
	})
	return strings.Join(paragraphs, " ")
}

func (e *Extractor) looksLikeChrome(t string) bool {
	lower := strings.ToLower(t)
	for _, p := range e.chrome {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
