// Package ocr reads text out of page screenshots through a hosted
// image-to-text model.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"tweet-takeaways/internal/infra/huggingface"
	"tweet-takeaways/internal/utils/text"
)

// DefaultModel is a printed-text recognition model.
const DefaultModel = "microsoft/trocr-base-printed"

// ErrNoText is returned when the model answered but nothing readable remained.
var ErrNoText = errors.New("ocr produced no text")

// Recognizer extracts text from an image.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// HuggingFace implements Recognizer with an image-to-text endpoint.
type HuggingFace struct {
	client *huggingface.Client
	model  string
}

// NewHuggingFace creates a recognizer. An empty model selects DefaultModel.
func NewHuggingFace(client *huggingface.Client, model string) *HuggingFace {
	if model == "" {
		model = DefaultModel
	}
	return &HuggingFace{client: client, model: model}
}

// Recognize uploads image and returns the cleaned text.
func (h *HuggingFace) Recognize(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", errors.New("empty image")
	}
	var out []huggingface.GeneratedText
	if err := h.client.PostBinary(ctx, h.model, http.DetectContentType(image), image, &out); err != nil {
		return "", fmt.Errorf("ocr %s: %w", h.model, err)
	}

	parts := make([]string, 0, len(out))
	for _, o := range out {
		parts = append(parts, o.Text())
	}
	cleaned := CleanText(strings.Join(parts, " "))
	if cleaned == "" {
		return "", ErrNoText
	}
	return cleaned, nil
}

var (
	// Recognizers render UI glyphs and rulers as runs of symbols.
	symbolRuns = regexp.MustCompile(`[|_~=<>\\/*#^]{2,}|[|~]`)
	// A timestamp fragment that keeps appearing in captures of status bars.
	mmArtefact = regexp.MustCompile(`(?i)\b(?:mm A\b\s*)+`)
	sentences  = regexp.MustCompile(`[^.!?]+[.!?]*`)
)

// CleanText collapses whitespace, removes recognizer artefacts, and drops
// sentences repeated back to back.
func CleanText(raw string) string {
	s := text.Normalize(raw)
	s = symbolRuns.ReplaceAllString(s, " ")
	s = mmArtefact.ReplaceAllString(s, " ")
	s = text.CollapseWhitespace(s)

	var kept []string
	prev := ""
	for _, sent := range sentences.FindAllString(s, -1) {
		sent = strings.TrimSpace(sent)
		if sent == "" || strings.EqualFold(sent, prev) {
			continue
		}
		kept = append(kept, sent)
		prev = sent
	}
	return strings.Join(kept, " ")
}
