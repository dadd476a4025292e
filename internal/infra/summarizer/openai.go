package summarizer

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"tweet-takeaways/internal/domain/entity"
	"tweet-takeaways/internal/utils/text"
)

const defaultChatMaxTokens = 160

// OpenAI asks a chat model for an extractive summary.
type OpenAI struct {
	client *openai.Client
	spec   ModelSpec
}

// NewOpenAI creates the adapter. baseURL may be empty.
func NewOpenAI(apiKey, baseURL string, spec ModelSpec) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	return &OpenAI{client: openai.NewClientWithConfig(cfg), spec: spec}
}

// Name returns the model id.
func (o *OpenAI) Name() string { return o.spec.ID }

// Generate returns the first choice of a chat completion.
func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	maxTokens := o.spec.MaxLength
	if maxTokens == 0 {
		maxTokens = defaultChatMaxTokens
	}
	req := openai.ChatCompletionRequest{
		Model:     o.spec.ID,
		MaxTokens: maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: chatInstruction()},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if o.spec.DoSample {
		req.Temperature = 0.7
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", o.modelError(ctx, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &entity.ModelError{Model: o.spec.ID, Reason: "malformed", Err: errors.New("no choices in response")}
	}
	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAI) modelError(ctx context.Context, err error) error {
	me := &entity.ModelError{Model: o.spec.ID, Reason: "transport", Err: err}
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		me.StatusCode = apiErr.HTTPStatusCode
		me.Reason = "http_status"
	case errors.As(err, &reqErr):
		me.StatusCode = reqErr.HTTPStatusCode
		me.Reason = "http_status"
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		me.Reason = "timeout"
	}
	return me
}

// chatInstruction keeps chat models close to extractive output so that
// vocabulary enforcement drops as little as possible.
func chatInstruction() string {
	return fmt.Sprintf("Summarize the user's text in at most %d characters. "+
		"Use only words that appear in the text. Do not add names, numbers, or claims. "+
		"Answer with the summary only.", text.DisplayCap)
}
