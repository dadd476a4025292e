package extract

import (
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"

	"tweet-takeaways/internal/utils/text"
)

// ReadableText runs Mozilla's Readability over the page and returns the
// article text, or "" when nothing readable is found.
func (e *Extractor) ReadableText(html, pageURL string) string {
	var base *url.URL
	if u, err := url.Parse(pageURL); err == nil && u.IsAbs() {
		base = u
	}
	article, err := readability.FromReader(strings.NewReader(html), base)
	if err != nil {
		return ""
	}
	out := imageURLPattern.ReplaceAllString(article.TextContent, "")
	return text.CollapseWhitespace(out)
}
