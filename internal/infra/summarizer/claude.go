package summarizer

import (
	"context"
	"errors"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"tweet-takeaways/internal/domain/entity"
)

// Claude asks an Anthropic model for an extractive summary.
type Claude struct {
	client anthropic.Client
	spec   ModelSpec
}

// NewClaude creates the adapter. baseURL may be empty. SDK retries are
// disabled; retry policy belongs to the caller.
func NewClaude(apiKey, baseURL string, spec ModelSpec) *Claude {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
		option.WithHTTPClient(&http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Claude{client: anthropic.NewClient(opts...), spec: spec}
}

// Name returns the model id.
func (c *Claude) Name() string { return c.spec.ID }

// Generate returns the first text block of the reply.
func (c *Claude) Generate(ctx context.Context, prompt string) (string, error) {
	maxTokens := c.spec.MaxLength
	if maxTokens == 0 {
		maxTokens = defaultChatMaxTokens
	}

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.spec.ID),
		MaxTokens: int64(maxTokens),
		System:    []anthropic.TextBlockParam{{Text: chatInstruction()}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		me := &entity.ModelError{Model: c.spec.ID, Reason: "transport", Err: err}
		var apiErr *anthropic.Error
		switch {
		case errors.As(err, &apiErr):
			me.StatusCode = apiErr.StatusCode
			me.Reason = "http_status"
		case errors.Is(err, context.DeadlineExceeded):
			me.Reason = "timeout"
		}
		return "", me
	}

	if len(message.Content) == 0 {
		return "", &entity.ModelError{Model: c.spec.ID, Reason: "malformed", Err: errors.New("empty response")}
	}
	block, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		return "", &entity.ModelError{Model: c.spec.ID, Reason: "malformed", Err: errors.New("unexpected content block")}
	}
	return block.Text, nil
}
