package summarizer

import (
	"context"
	"fmt"
	"time"

	"tweet-takeaways/internal/domain/entity"
	"tweet-takeaways/internal/infra/huggingface"
)

// Providers accepted in a model entry.
const (
	ProviderHuggingFace = "huggingface"
	ProviderOpenAI      = "openai"
	ProviderAnthropic   = "anthropic"
	ProviderNoop        = "noop"
)

// Model generates raw text for a prompt. Implementations report failures as
// *entity.ModelError.
type Model interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// ModelSpec is one entry of the model priority list.
type ModelSpec struct {
	ID       string `yaml:"id"`
	Provider string `yaml:"provider"`
	// Languages lists ISO 639-3 codes the model handles. Empty means any.
	Languages []string      `yaml:"languages"`
	MaxLength int           `yaml:"max_length"`
	MinLength int           `yaml:"min_length"`
	DoSample  bool          `yaml:"do_sample"`
	Timeout   time.Duration `yaml:"timeout"`
}

// Validate checks a single model entry.
func (s ModelSpec) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("model id is empty")
	}
	switch s.Provider {
	case ProviderHuggingFace, ProviderOpenAI, ProviderAnthropic, ProviderNoop:
	default:
		return fmt.Errorf("model %s: unknown provider %q", s.ID, s.Provider)
	}
	if s.MaxLength < 0 || s.MinLength < 0 {
		return fmt.Errorf("model %s: negative length bounds", s.ID)
	}
	if s.MaxLength > 0 && s.MinLength > s.MaxLength {
		return fmt.Errorf("model %s: min_length %d exceeds max_length %d", s.ID, s.MinLength, s.MaxLength)
	}
	return nil
}

// Credentials carries provider secrets read from the environment.
type Credentials struct {
	HuggingFaceToken string
	OpenAIKey        string
	AnthropicKey     string
}

// Endpoints overrides chat provider base URLs; empty fields use the SDK defaults.
type Endpoints struct {
	OpenAI    string
	Anthropic string
}

// Candidate is a model in the priority list together with its gating and
// timeout settings.
type Candidate struct {
	Model     Model
	Languages []string
	Timeout   time.Duration
}

// BuildCandidates instantiates the priority list in order. A provider
// listed without its credential is a *entity.ConfigError.
func BuildCandidates(specs []ModelSpec, creds Credentials, hf *huggingface.Client, endpoints Endpoints) ([]Candidate, error) {
	if len(specs) == 0 {
		return nil, &entity.ConfigError{Field: "models", Err: fmt.Errorf("at least one model is required")}
	}
	candidates := make([]Candidate, 0, len(specs))
	for _, spec := range specs {
		if err := spec.Validate(); err != nil {
			return nil, &entity.ConfigError{Field: "models", Err: err}
		}
		var model Model
		switch spec.Provider {
		case ProviderHuggingFace:
			if creds.HuggingFaceToken == "" {
				return nil, &entity.ConfigError{Field: "HF_API_TOKEN", Err: fmt.Errorf("required by model %s", spec.ID)}
			}
			model = NewHuggingFace(hf, spec)
		case ProviderOpenAI:
			if creds.OpenAIKey == "" {
				return nil, &entity.ConfigError{Field: "OPENAI_API_KEY", Err: fmt.Errorf("required by model %s", spec.ID)}
			}
			model = NewOpenAI(creds.OpenAIKey, endpoints.OpenAI, spec)
		case ProviderAnthropic:
			if creds.AnthropicKey == "" {
				return nil, &entity.ConfigError{Field: "ANTHROPIC_API_KEY", Err: fmt.Errorf("required by model %s", spec.ID)}
			}
			model = NewClaude(creds.AnthropicKey, endpoints.Anthropic, spec)
		case ProviderNoop:
			model = NewNoOp(spec.ID)
		}
		candidates = append(candidates, Candidate{Model: model, Languages: spec.Languages, Timeout: spec.Timeout})
	}
	return candidates, nil
}
