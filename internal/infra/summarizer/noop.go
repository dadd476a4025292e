package summarizer

import (
	"context"
	"strings"
)

// NoOp echoes the leading sentences of the prompt. It needs no network and
// is meant for local development and tests.
type NoOp struct {
	name string
}

// NewNoOp creates a NoOp model reported under name.
func NewNoOp(name string) *NoOp {
	if name == "" {
		name = "noop"
	}
	return &NoOp{name: name}
}

// Name returns the configured name.
func (n *NoOp) Name() string { return n.name }

// Generate returns the first two sentences of prompt.
func (n *NoOp) Generate(_ context.Context, prompt string) (string, error) {
	var b strings.Builder
	sentences := 0
	for _, r := range prompt {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			sentences++
			if sentences == 2 {
				break
			}
		}
	}
	return strings.TrimSpace(b.String()), nil
}
