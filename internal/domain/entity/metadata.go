package entity

import "strings"

// PageMetadata holds the preview fields found in a document. An empty field
// means the tag or element was absent (or had no content).
type PageMetadata struct {
	OGImage         string
	OGTitle         string
	OGDescription   string
	MetaDescription string
	PageTitle       string
	FirstHeading    string
}

// PreviewDescription returns the og:description, or the generic description
// meta tag when the former is missing.
func (m PageMetadata) PreviewDescription() string {
	if d := strings.TrimSpace(m.OGDescription); d != "" {
		return d
	}
	return strings.TrimSpace(m.MetaDescription)
}

// HeadParts lists the head-derived text fields in preference order.
func (m PageMetadata) HeadParts() []string {
	return []string{m.OGTitle, m.OGDescription, m.MetaDescription, m.PageTitle, m.FirstHeading}
}
