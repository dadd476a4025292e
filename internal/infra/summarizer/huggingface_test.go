package summarizer_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tweet-takeaways/internal/domain/entity"
	"tweet-takeaways/internal/infra/huggingface"
	"tweet-takeaways/internal/infra/summarizer"
)

var bartSpec = summarizer.ModelSpec{
	ID:        "facebook/bart-large-cnn",
	Provider:  summarizer.ProviderHuggingFace,
	MaxLength: 120,
	MinLength: 30,
}

func hfModel(url string) *summarizer.HuggingFace {
	return summarizer.NewHuggingFace(huggingface.New(huggingface.Config{BaseURL: url, Token: "hf_test"}), bartSpec)
}

func TestHuggingFace_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/facebook/bart-large-cnn", r.URL.Path)

		var body struct {
			Inputs     string         `json:"inputs"`
			Parameters map[string]any `json:"parameters"`
			Options    map[string]any `json:"options"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "some article text", body.Inputs)
		assert.Equal(t, float64(120), body.Parameters["max_length"])
		assert.Equal(t, float64(30), body.Parameters["min_length"])
		assert.Equal(t, false, body.Parameters["do_sample"])
		assert.Equal(t, true, body.Options["wait_for_model"])

		_, _ = w.Write([]byte(`[{"summary_text":"article text"}]`))
	}))
	defer server.Close()

	got, err := hfModel(server.URL).Generate(context.Background(), "some article text")

	require.NoError(t, err)
	assert.Equal(t, "article text", got)
}

func TestHuggingFace_GeneratedTextField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"generated_text":"from a text generation model"}]`))
	}))
	defer server.Close()

	got, err := hfModel(server.URL).Generate(context.Background(), "prompt")

	require.NoError(t, err)
	assert.Equal(t, "from a text generation model", got)
}

func TestHuggingFace_Errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantReason string
		wantStatus int
	}{
		{name: "model loading", status: 503, body: `{"error":"Model is currently loading","estimated_time":12}`, wantReason: "http_status", wantStatus: 503},
		{name: "unauthorized", status: 401, body: `{"error":"Invalid credentials in Authorization header"}`, wantReason: "http_status", wantStatus: 401},
		{name: "malformed json", status: 200, body: `{"summary_text":`, wantReason: "malformed"},
		{name: "unexpected object", status: 200, body: `{"error":"odd but 200"}`, wantReason: "malformed"},
		{name: "empty list", status: 200, body: `[]`, wantReason: "malformed"},
		{name: "blank text", status: 200, body: `[{"summary_text":"  "}]`, wantReason: "malformed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := hfModel(server.URL).Generate(context.Background(), "prompt")

			var me *entity.ModelError
			require.True(t, errors.As(err, &me))
			assert.Equal(t, bartSpec.ID, me.Model)
			assert.Equal(t, tt.wantReason, me.Reason)
			assert.Equal(t, tt.wantStatus, me.StatusCode)
		})
	}
}

func TestHuggingFace_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := hfModel(server.URL).Generate(ctx, "prompt")

	var me *entity.ModelError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, "timeout", me.Reason)
}
