// Package translate provides the optional language translation
// collaborator that runs upstream of the turn engine. The engine itself
// is language-agnostic: it only ever sees already-prepared strings, so
// translation is wired around it (in the transport layer), never inside
// it.
package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/memoryd/internal/history"
	"github.com/fyrsmithlabs/memoryd/internal/llm"
)

// contextWindow caps how many recent messages accompany a translation
// request for disambiguation.
const contextWindow = 2

// Translator converts text between languages. recent carries the most
// recent conversation messages to improve pronoun and topic resolution.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string, recent []history.Message) (string, error)
}

// Config configures the translation collaborator.
type Config struct {
	// Enabled turns the translation pipeline on. When off, input and
	// output pass through untouched.
	Enabled bool `koanf:"enabled"`

	// UserLang is the language the user reads and writes (e.g.
	// "Japanese").
	UserLang string `koanf:"user_lang"`

	// ModelLang is the language the capability provider works in (e.g.
	// "English").
	ModelLang string `koanf:"model_lang"`
}

// DefaultConfig returns the default translation configuration
// (disabled).
func DefaultConfig() Config {
	return Config{Enabled: false, UserLang: "Japanese", ModelLang: "English"}
}

// Validate checks the translation configuration.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.UserLang == "" || c.ModelLang == "" {
		return fmt.Errorf("translation requires both user_lang and model_lang")
	}
	return nil
}

// Noop passes text through unchanged. Used when translation is
// disabled.
type Noop struct{}

// Translate returns text as-is.
func (Noop) Translate(ctx context.Context, text, sourceLang, targetLang string, recent []history.Message) (string, error) {
	return text, nil
}

// llmTranslator translates via the provider's completion primitive.
type llmTranslator struct {
	completer llm.Completer
}

// NewLLMTranslator builds a translator over a provider completer.
func NewLLMTranslator(completer llm.Completer) Translator {
	return &llmTranslator{completer: completer}
}

// Translate renders the translation prompt with up to contextWindow
// recent messages and returns the trimmed model output.
func (t *llmTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string, recent []history.Message) (string, error) {
	var contextText strings.Builder
	if len(recent) > 0 {
		start := len(recent) - contextWindow
		if start < 0 {
			start = 0
		}
		contextText.WriteString("\n<Recent Conversation Context>\n")
		for _, msg := range recent[start:] {
			role := "User"
			if msg.Role == history.RoleAssistant {
				role = "Assistant"
			}
			fmt.Fprintf(&contextText, "%s: %s\n", role, msg.Content)
		}
		contextText.WriteString("</Recent Conversation Context>\n\n")
	}

	prompt := fmt.Sprintf(`Translate the %s text to %s. Output only the translation.
%s
<%s Text>
%s
</%s Text>`, sourceLang, targetLang, contextText.String(), sourceLang, text, sourceLang)

	raw, err := t.completer.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("translation failed: %w", err)
	}
	return strings.TrimSpace(raw), nil
}
