package llm

import "fmt"

// New builds a Capability for the configured provider. The capability
// object is constructed once and injected into the engine; callers
// never reach through a global.
func New(cfg Config) (Capability, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	completer, err := NewCompleter(cfg)
	if err != nil {
		return nil, err
	}
	if completer == nil {
		// The mock implements the full capability surface directly.
		return NewMock(), nil
	}
	return NewClient(completer), nil
}

// NewCompleter builds the low-level completion primitive for the
// configured provider. Returns nil for the mock provider, which has no
// prompt-level primitive.
func NewCompleter(cfg Config) (Completer, error) {
	switch cfg.Provider {
	case "mock":
		return nil, nil
	case "ollama":
		return newOllamaCompleter(cfg), nil
	case "anthropic":
		return newAnthropicCompleter(cfg)
	case "openai":
		return newOpenAICompleter(cfg)
	default:
		return nil, fmt.Errorf("unknown provider: %q", cfg.Provider)
	}
}
