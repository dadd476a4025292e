package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Extractor runs the metadata, body, and sanitizing passes.
// It is immutable after New and safe for concurrent use.
type Extractor struct {
	cfg             Config
	chrome          []string
	boilerplateAttr *regexp.Regexp
	boilerplateTail *regexp.Regexp
}

// New builds an Extractor from cfg.
func New(cfg Config) (*Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	chrome := make([]string, 0, len(cfg.ChromePhrases))
	for _, p := range cfg.ChromePhrases {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			chrome = append(chrome, p)
		}
	}
	return &Extractor{
		cfg:             cfg,
		chrome:          chrome,
		boilerplateAttr: alternation(cfg.BoilerplateAttrKeywords, ""),
		boilerplateTail: alternation(cfg.BoilerplatePhrases, ".*"),
	}, nil
}

func parse(html string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		// only reader errors surface here; an empty document keeps callers uniform
		doc, _ = goquery.NewDocumentFromReader(strings.NewReader(""))
	}
	return doc
}

var textlessElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// nodeText joins the trimmed text nodes under sel with single spaces,
// ignoring script-like elements.
func nodeText(sel *goquery.Selection) string {
	var parts []string
	collectText(sel, &parts)
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

func collectText(sel *goquery.Selection, parts *[]string) {
	sel.Contents().Each(func(_ int, c *goquery.Selection) {
		switch name := goquery.NodeName(c); name {
		case "#text":
			if t := strings.TrimSpace(c.Text()); t != "" {
				*parts = append(*parts, t)
			}
		case "#comment", "#doctype":
		default:
			if !textlessElements[name] {
				collectText(c, parts)
			}
		}
	})
}
