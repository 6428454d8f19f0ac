package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/fyrsmithlabs/memoryd/internal/attribute"
	"github.com/fyrsmithlabs/memoryd/internal/history"
)

// Capability is the three-operation surface the engine depends on.
//
// Judge reports whether the attribute's stored content is relevant to
// answering userInput. Extract returns new content for the attribute
// found in userInput; ok is false when the model reported nothing to
// extract (the adapter, not the engine, normalizes the no-information
// sentinel). GenerateResponse produces the assistant reply from the
// history snapshot, the current input, and the assembled attribute
// context.
type Capability interface {
	Judge(ctx context.Context, judgmentPrompt, userInput, attributeName string) (bool, error)
	Extract(ctx context.Context, extractionPrompt, userInput, attributeName string) (content string, ok bool, err error)
	GenerateResponse(ctx context.Context, hist []history.Message, userInput string, attrs *attribute.Context) (string, error)
}

// Completer is the low-level single-prompt primitive providers
// implement. The capability adapter and the translation collaborator
// are both built on it.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CapabilityError wraps a failed capability call with the operation
// name and, when applicable, the attribute being processed.
type CapabilityError struct {
	Op        string
	Attribute string
	Err       error
}

func (e *CapabilityError) Error() string {
	if e.Attribute != "" {
		return fmt.Sprintf("llm: %s (%s): %v", e.Op, e.Attribute, e.Err)
	}
	return fmt.Sprintf("llm: %s: %v", e.Op, e.Err)
}

func (e *CapabilityError) Unwrap() error {
	return e.Err
}

// Config selects and configures a provider.
type Config struct {
	// Provider is one of "mock", "ollama", "anthropic", "openai".
	Provider string `koanf:"provider"`

	// Model overrides the provider's default model.
	Model string `koanf:"model"`

	// BaseURL overrides the provider's default endpoint.
	BaseURL string `koanf:"base_url"`

	// APIKey authenticates hosted providers (anthropic, openai).
	APIKey string `koanf:"api_key"`

	// TimeoutSeconds bounds a single provider request. Zero uses the
	// provider default.
	TimeoutSeconds int `koanf:"timeout_seconds"`
}

// DefaultConfig returns the default provider configuration.
func DefaultConfig() Config {
	return Config{Provider: "ollama"}
}

// Validate checks the provider configuration.
func (c Config) Validate() error {
	switch c.Provider {
	case "mock", "ollama":
	case "anthropic", "openai":
		if c.APIKey == "" {
			return fmt.Errorf("%s provider requires an API key", c.Provider)
		}
	default:
		return fmt.Errorf("unknown provider: %q", c.Provider)
	}
	return nil
}

// Provider defaults.
const (
	defaultOllamaBaseURL    = "http://localhost:11434"
	defaultOllamaModel      = "llama3.1:8b"
	defaultAnthropicBaseURL = "https://api.anthropic.com"
	defaultAnthropicModel   = "claude-3-5-sonnet-20241022"
	defaultOpenAIBaseURL    = "https://api.openai.com"
	defaultOpenAIModel      = "gpt-4o-mini"
	defaultMaxTokens        = 1024
	defaultTimeout          = 60 * time.Second
	defaultMaxRetries       = 3
	defaultBaseBackoff      = 1 * time.Second
)

// Rate limiter defaults: 50 requests per minute across hosted APIs.
const (
	defaultRateLimit = 50.0 / 60.0
	defaultBurst     = 5
)
