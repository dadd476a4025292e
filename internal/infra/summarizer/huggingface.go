package summarizer

import (
	"context"
	"errors"
	"strings"

	"tweet-takeaways/internal/domain/entity"
	"tweet-takeaways/internal/infra/huggingface"
)

// HuggingFace calls a hosted summarization model.
type HuggingFace struct {
	client *huggingface.Client
	spec   ModelSpec
}

// NewHuggingFace wraps client for the model described by spec.
func NewHuggingFace(client *huggingface.Client, spec ModelSpec) *HuggingFace {
	return &HuggingFace{client: client, spec: spec}
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
	Options    hfOptions    `json:"options"`
}

type hfParameters struct {
	MaxLength int  `json:"max_length,omitempty"`
	MinLength int  `json:"min_length,omitempty"`
	DoSample  bool `json:"do_sample"`
}

type hfOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

// Name returns the model id.
func (h *HuggingFace) Name() string { return h.spec.ID }

// Generate posts the prompt and returns the first generated text.
func (h *HuggingFace) Generate(ctx context.Context, prompt string) (string, error) {
	req := hfRequest{
		Inputs: prompt,
		Parameters: hfParameters{
			MaxLength: h.spec.MaxLength,
			MinLength: h.spec.MinLength,
			DoSample:  h.spec.DoSample,
		},
		Options: hfOptions{WaitForModel: true},
	}

	var out []huggingface.GeneratedText
	if err := h.client.PostJSON(ctx, h.spec.ID, req, &out); err != nil {
		return "", h.modelError(ctx, err)
	}
	if len(out) == 0 || strings.TrimSpace(out[0].Text()) == "" {
		return "", &entity.ModelError{Model: h.spec.ID, Reason: "malformed", Err: errors.New("empty generation")}
	}
	return out[0].Text(), nil
}

func (h *HuggingFace) modelError(ctx context.Context, err error) error {
	me := &entity.ModelError{Model: h.spec.ID, Err: err}
	var apiErr *huggingface.APIError
	switch {
	case errors.As(err, &apiErr):
		me.StatusCode = apiErr.StatusCode
		me.Reason = "http_status"
	case errors.Is(err, huggingface.ErrMalformed):
		me.Reason = "malformed"
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		me.Reason = "timeout"
	default:
		me.Reason = "transport"
	}
	return me
}
