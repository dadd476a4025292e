package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrExtractionEmpty marks a pipeline stage that found no usable text or metadata.
	// It is a stage decision, not a failure: the orchestrator advances to the next stage.
	ErrExtractionEmpty = errors.New("no usable text extracted")

	// ErrModelRejected indicates that a model answered but the output was unusable
	// after denylist removal, vocabulary enforcement, and length screening.
	ErrModelRejected = errors.New("model output rejected")

	// ErrUnsupportedLanguage marks a prompt no configured model accepts.
	// Retrying cannot change the outcome.
	ErrUnsupportedLanguage = errors.New("prompt language not supported")
)

// ValidationError represents a validation error with detailed field information.
// It implements the error interface and provides context about which field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// FetchError reports a page retrieval failure: network, timeout, or non-2xx status.
// A successful response with an empty body is not a FetchError.
type FetchError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ModelError reports a failed remote summarization attempt.
// StatusCode is set for HTTP-level failures; Reason carries a short
// machine-friendly cause such as "malformed", "timeout", "rejected".
type ModelError struct {
	Model      string
	StatusCode int
	Reason     string
	Err        error
}

func (e *ModelError) Error() string {
	msg := fmt.Sprintf("model %s", e.Model)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": HTTP %d", e.StatusCode)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// ConfigError reports missing or invalid configuration detected at startup.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsModelError reports whether err carries a *ModelError.
func IsModelError(err error) bool {
	var me *ModelError
	return errors.As(err, &me)
}
