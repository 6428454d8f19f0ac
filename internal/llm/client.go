package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/memoryd/internal/attribute"
	"github.com/fyrsmithlabs/memoryd/internal/history"
)

// historyWindow caps how many recent messages are included in the
// generation prompt.
const historyWindow = 5

// noInfoMarkers are the sentinel strings a model uses to report that
// nothing was extracted.
var noInfoMarkers = []string{"none", "なし"}

// client adapts a Completer into the full Capability surface by
// wrapping each operation in its task prompt and normalizing raw model
// output.
type client struct {
	completer Completer
}

// NewClient builds a Capability on top of a provider's Completer.
func NewClient(completer Completer) Capability {
	return &client{completer: completer}
}

const judgePromptTemplate = `You are an assistant that makes judgments.
Please answer the following question with only 'yes' or 'no'.

<Judgment Question>
%s
</Judgment Question>

<User Input>
%s
</User Input>

Answer (only 'yes' or 'no'):`

// Judge asks the model whether the attribute is needed to answer the
// input. Any answer containing an affirmative counts as true.
func (c *client) Judge(ctx context.Context, judgmentPrompt, userInput, attributeName string) (bool, error) {
	prompt := fmt.Sprintf(judgePromptTemplate, judgmentPrompt, userInput)

	raw, err := c.completer.Complete(ctx, prompt)
	if err != nil {
		return false, &CapabilityError{Op: "judge", Attribute: attributeName, Err: err}
	}

	answer := strings.ToLower(strings.TrimSpace(raw))
	return strings.Contains(answer, "yes") || strings.Contains(answer, "はい"), nil
}

const extractPromptTemplate = `You are an assistant that extracts information.

<Extraction Instructions>
%s
</Extraction Instructions>

<User Input>
%s
</User Input>

If there is no information to extract, please respond with 'none'.
Extracted content:`

// Extract asks the model for new attribute content in the input.
// ok is false when the model reported the no-information sentinel.
func (c *client) Extract(ctx context.Context, extractionPrompt, userInput, attributeName string) (string, bool, error) {
	prompt := fmt.Sprintf(extractPromptTemplate, extractionPrompt, userInput)

	raw, err := c.completer.Complete(ctx, prompt)
	if err != nil {
		return "", false, &CapabilityError{Op: "extract", Attribute: attributeName, Err: err}
	}

	content := strings.TrimSpace(raw)
	if IsNoInformation(content) {
		return "", false, nil
	}
	return content, true, nil
}

// GenerateResponse produces the assistant reply from the recent history
// window, the current input, and the attribute context.
func (c *client) GenerateResponse(ctx context.Context, hist []history.Message, userInput string, attrs *attribute.Context) (string, error) {
	prompt := buildResponsePrompt(hist, userInput, attrs)

	raw, err := c.completer.Complete(ctx, prompt)
	if err != nil {
		return "", &CapabilityError{Op: "generate_response", Err: err}
	}
	return strings.TrimSpace(raw), nil
}

// buildResponsePrompt renders the generation prompt. Only the last
// historyWindow messages are included.
func buildResponsePrompt(hist []history.Message, userInput string, attrs *attribute.Context) string {
	start := len(hist) - historyWindow
	if start < 0 {
		start = 0
	}

	var historyText strings.Builder
	for _, msg := range hist[start:] {
		role := "User"
		if msg.Role == history.RoleAssistant {
			role = "Assistant"
		}
		fmt.Fprintf(&historyText, "%s: %s\n", role, msg.Content)
	}

	var attributesText strings.Builder
	if attrs != nil && attrs.Len() > 0 {
		attributesText.WriteString("\n<User Attribute Information>\n")
		for _, name := range attrs.Names() {
			content, _ := attrs.Get(name)
			fmt.Fprintf(&attributesText, "- %s: %s\n", name, content)
		}
		attributesText.WriteString("</User Attribute Information>\n")
	}

	return fmt.Sprintf(`You are a helpful assistant.
Please generate an appropriate response considering the user's attribute information.
%s
<Conversation History>
%s
</Conversation History>

<User Input>
%s
</User Input>

Response:`, attributesText.String(), historyText.String(), userInput)
}

// IsNoInformation reports whether raw model output means "nothing was
// extracted": the empty string, an exact sentinel, or a sentinel
// appearing within the first 10 characters of the response.
func IsNoInformation(content string) bool {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return true
	}

	head := strings.ToLower(trimmed)
	if runes := []rune(head); len(runes) > 10 {
		head = string(runes[:10])
	}
	for _, marker := range noInfoMarkers {
		if strings.Contains(head, marker) {
			return true
		}
	}
	return false
}
