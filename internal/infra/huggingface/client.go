// Package huggingface is a minimal client for the hosted inference API:
// JSON task payloads for text models and raw bytes for image models.
package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the hosted inference endpoint; model ids are appended
// as /models/{id}.
const DefaultBaseURL = "https://router.huggingface.co/hf-inference"

const maxResponseBytes = 1 << 20

// Config configures a Client.
type Config struct {
	BaseURL string
	Token   string

	// RequestsPerSecond and Burst throttle outbound calls across all models.
	RequestsPerSecond float64
	Burst             int

	// HTTPClient overrides the default instrumented client.
	HTTPClient *http.Client
}

// Client talks to the inference API. It is safe for concurrent use.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	limiter *rate.Limiter
}

// APIError is a non-2xx answer from the inference API.
type APIError struct {
	StatusCode int
	Message    string
	// EstimatedTime is set while a cold model is loading.
	EstimatedTime time.Duration
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("huggingface HTTP %d", e.StatusCode)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.EstimatedTime > 0 {
		msg += fmt.Sprintf(" (model loading, ~%s)", e.EstimatedTime.Round(time.Second))
	}
	return msg
}

// ErrMalformed marks a 2xx answer whose body could not be decoded.
var ErrMalformed = errors.New("malformed inference response")

// New creates a Client. An empty token is allowed here; callers decide
// whether a token is required.
func New(cfg Config) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return &Client{
		baseURL: base,
		token:   cfg.Token,
		http:    hc,
		limiter: rate.NewLimiter(limit, burst),
	}
}

// PostJSON sends payload as JSON to the model endpoint and decodes the answer into out.
func (c *Client) PostJSON(ctx context.Context, model string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	return c.post(ctx, model, "application/json", bytes.NewReader(body), out)
}

// PostBinary sends raw bytes (an image, for instance) to the model endpoint.
func (c *Client) PostBinary(ctx context.Context, model, contentType string, data []byte, out any) error {
	return c.post(ctx, model, contentType, bytes.NewReader(data), out)
}

func (c *Client) post(ctx context.Context, model, contentType string, body io.Reader, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.modelURL(model), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp.StatusCode, raw)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

func (c *Client) modelURL(model string) string {
	parts := strings.Split(model, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return c.baseURL + "/models/" + strings.Join(parts, "/")
}

func decodeAPIError(status int, raw []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	var payload struct {
		Error         json.RawMessage `json:"error"`
		EstimatedTime float64         `json:"estimated_time"`
	}
	if json.Unmarshal(raw, &payload) == nil && len(payload.Error) > 0 {
		var msg string
		if json.Unmarshal(payload.Error, &msg) != nil {
			msg = string(payload.Error)
		}
		apiErr.Message = msg
		apiErr.EstimatedTime = time.Duration(payload.EstimatedTime * float64(time.Second))
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(raw))
	if len(apiErr.Message) > 200 {
		apiErr.Message = apiErr.Message[:200]
	}
	return apiErr
}

// GeneratedText is the common output element of summarization,
// text-generation, and image-to-text models.
type GeneratedText struct {
	SummaryText   string `json:"summary_text"`
	GeneratedText string `json:"generated_text"`
}

// Text returns whichever output field is set.
func (g GeneratedText) Text() string {
	if g.SummaryText != "" {
		return g.SummaryText
	}
	return g.GeneratedText
}
