package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"tweet-takeaways/internal/domain/entity"
	"tweet-takeaways/internal/utils/text"
)

// HeadSeparator joins combined head parts.
const HeadSeparator = " · "

// Metadata reads preview tags, the document title, and the first heading.
// The first occurrence of each tag wins.
func (e *Extractor) Metadata(html string) entity.PageMetadata {
	doc := parse(html)
	var m entity.PageMetadata

	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		content := text.CollapseWhitespace(s.AttrOr("content", ""))
		if content == "" {
			return
		}
		key := strings.ToLower(strings.TrimSpace(s.AttrOr("property", "")))
		if key == "" {
			key = strings.ToLower(strings.TrimSpace(s.AttrOr("name", "")))
		}
		switch key {
		case "og:image", "og:image:url", "og:image:secure_url":
			setOnce(&m.OGImage, strings.TrimSpace(s.AttrOr("content", "")))
		case "og:title":
			setOnce(&m.OGTitle, content)
		case "og:description":
			setOnce(&m.OGDescription, content)
		case "description":
			setOnce(&m.MetaDescription, content)
		}
	})

	m.PageTitle = text.CollapseWhitespace(doc.Find("title").First().Text())
	m.FirstHeading = nodeText(doc.Find("h1").First())
	return m
}

func setOnce(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

// CombineHead merges head-derived parts into one display string: exact
// duplicates and parts longer than limit are dropped, survivors are joined
// with HeadSeparator, repeated phrases are removed case-insensitively, and
// the result is capped to limit at a word boundary.
func CombineHead(parts []string, limit int) string {
	seen := make(map[string]struct{}, len(parts))
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || text.CountRunes(p) > limit {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		kept = append(kept, p)
	}
	joined := strings.Join(kept, HeadSeparator)

	lowerSeen := make(map[string]struct{})
	phrases := make([]string, 0, len(kept))
	for _, phrase := range strings.Split(joined, strings.TrimSpace(HeadSeparator)) {
		phrase = strings.TrimSpace(phrase)
		if phrase == "" {
			continue
		}
		key := strings.ToLower(phrase)
		if _, dup := lowerSeen[key]; dup {
			continue
		}
		lowerSeen[key] = struct{}{}
		phrases = append(phrases, phrase)
	}
	return text.Cap(strings.Join(phrases, HeadSeparator), limit)
}

// ResolveImageURL makes a possibly relative image reference absolute
// against pageURL. Unparseable input is returned unchanged.
func ResolveImageURL(pageURL, image string) string {
	image = strings.TrimSpace(image)
	if image == "" {
		return ""
	}
	ref, err := url.Parse(image)
	if err != nil || ref.IsAbs() {
		return image
	}
	base, err := url.Parse(pageURL)
	if err != nil || !base.IsAbs() {
		return image
	}
	return base.ResolveReference(ref).String()
}
