// Package providers implements the generation capability consumed by an
// extraction cycle: send a prompt plus a structural contract to a text
// generation service, get back parsed JSON.
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Client is the interface an extraction cycle generates against. The
// core treats a call as atomic: it either returns parsed structured
// output or fails for this cycle.
type Client interface {
	// Generate sends one structured extraction request.
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error)

	// Name returns the client identifier (e.g. "openai").
	Name() string
}

// GenerateRequest is one structured extraction request.
type GenerateRequest struct {
	SystemPrompt string
	UserPrompt   string

	// Model selection (uses client default if empty).
	Model string

	// Generation parameters.
	Temperature float64
	MaxTokens   int

	// Structured output contract.
	SchemaName string
	Schema     map[string]any

	// Request tracking.
	RequestID string
}

// GenerateResult is the response from a generation call.
type GenerateResult struct {
	// Content is the raw text returned by the service.
	Content string `json:"content"`

	// ParsedJSON is the content parsed as JSON.
	ParsedJSON json.RawMessage `json:"parsed_json,omitempty"`

	// Token counts.
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	// Timing and tracking.
	ExecutionTime time.Duration `json:"execution_time"`
	Provider      string        `json:"provider"`
	ModelUsed     string        `json:"model_used"`
	RequestID     string        `json:"request_id"`
	Attempts      int           `json:"attempts"`
}

// UnparseableError reports model output that could not be parsed as
// structured data. The raw text is preserved verbatim for diagnosis.
type UnparseableError struct {
	Raw string
	Err error
}

func (e *UnparseableError) Error() string {
	return fmt.Sprintf("generation output is not parseable JSON: %v", e.Err)
}

func (e *UnparseableError) Unwrap() error {
	return e.Err
}

// ClientConfig configures a generation client, with API keys already
// resolved from the environment.
type ClientConfig struct {
	Type        string
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	MaxRetries  int
	Timeout     time.Duration
}

// NewClient constructs a generation client from config.
func NewClient(cfg ClientConfig) (Client, error) {
	switch cfg.Type {
	case "openai", "":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("provider type %q requires an api_key", "openai")
		}
		return NewOpenAIClient(OpenAIConfig{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			BaseURL:     cfg.BaseURL,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			MaxRetries:  cfg.MaxRetries,
			Timeout:     cfg.Timeout,
		}), nil
	case "mock":
		return &MockClient{}, nil
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
}
