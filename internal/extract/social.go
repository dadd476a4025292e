package extract

import (
	"regexp"

	"tweet-takeaways/internal/domain/entity"
	"tweet-takeaways/internal/utils/text"
)

var captionNoise = []*regexp.Regexp{
	regexp.MustCompile(`@[\w.]+`),
	regexp.MustCompile(`#[\w.]+`),
	regexp.MustCompile(`Liked by .*`),
	regexp.MustCompile(`(?i)\d+\s+likes`),
	regexp.MustCompile(`\b\d{1,2}[smhdw] ago\b`),
	regexp.MustCompile(`\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]* \d{1,2},? \d{4}\b`),
}

// CleanSocialCaption strips mentions, hashtags, like counters, relative
// ages, and dates from a platform caption.
func CleanSocialCaption(s string) string {
	for _, re := range captionNoise {
		s = re.ReplaceAllString(s, "")
	}
	return text.CollapseWhitespace(s)
}

// CaptionText returns the cleaned caption a social platform publishes in its
// preview tags: og:description, else the meta description, else og:title.
func CaptionText(m entity.PageMetadata) string {
	for _, candidate := range []string{m.OGDescription, m.MetaDescription, m.OGTitle} {
		if c := CleanSocialCaption(candidate); c != "" {
			return c
		}
	}
	return ""
}
