package extract

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"tweet-takeaways/internal/utils/text"
)

const nonContentSelector = "script, style, nav, header, footer, aside, noscript, img, svg, iframe, template"

// structural elements are never removed by attribute matching, otherwise a
// body class such as "has-nav" would empty the page
var keepByAttribute = map[string]bool{
	"html":    true,
	"body":    true,
	"main":    true,
	"article": true,
}

var imageURLPattern = regexp.MustCompile(`(?i)https?://\S+\.(?:png|jpe?g|webp|gif)(?:\?\S*)?`)

// Sanitize returns the visible text of a page with non-content elements,
// boilerplate-attributed blocks, boilerplate tails, and bare image links
// removed. The result may be empty.
func (e *Extractor) Sanitize(html string) string {
	doc := parse(html)
	doc.Find(nonContentSelector).Remove()

	if e.boilerplateAttr != nil {
		doc.Find("[id], [class]").Each(func(_ int, s *goquery.Selection) {
			if keepByAttribute[goquery.NodeName(s)] {
				return
			}
			if e.boilerplateAttr.MatchString(s.AttrOr("id", "")) ||
				e.boilerplateAttr.MatchString(s.AttrOr("class", "")) {
				s.Remove()
			}
		})
	}

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}
	out := nodeText(root)
	if e.boilerplateTail != nil {
		out = e.boilerplateTail.ReplaceAllString(out, "")
	}
	out = imageURLPattern.ReplaceAllString(out, "")
	return text.CollapseWhitespace(out)
}
