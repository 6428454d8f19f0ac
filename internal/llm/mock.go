package llm

import (
	"context"
	"fmt"
	"sync"

	"github.com/fyrsmithlabs/memoryd/internal/attribute"
	"github.com/fyrsmithlabs/memoryd/internal/history"
)

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(ctx context.Context, prompt string) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Call records one capability invocation on the mock, in order.
type Call struct {
	Op        string // "judge", "extract", "generate_response"
	Attribute string
	Input     string
}

// Mock is a canned-response Capability for tests and offline
// development. Responses are keyed by attribute name; generation
// responses are consumed in order. All invocations are recorded.
type Mock struct {
	mu sync.Mutex

	judgments     map[string]bool
	judgeErrs     map[string]error
	extractions   map[string]string
	extractErrs   map[string]error
	responses     []string
	responseIndex int
	generateErr   error

	calls []Call
}

// NewMock returns an empty mock. Unconfigured judgments default to
// false and unconfigured extractions to the no-information sentinel.
func NewMock() *Mock {
	return &Mock{
		judgments:   make(map[string]bool),
		judgeErrs:   make(map[string]error),
		extractions: make(map[string]string),
		extractErrs: make(map[string]error),
	}
}

// SetJudgment configures the judge result for an attribute.
func (m *Mock) SetJudgment(attributeName string, required bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.judgments[attributeName] = required
}

// SetJudgmentError makes judge fail for an attribute.
func (m *Mock) SetJudgmentError(attributeName string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.judgeErrs[attributeName] = err
}

// SetExtraction configures the extract result for an attribute. The
// sentinel rules still apply, so setting "none" or "" yields ok=false.
func (m *Mock) SetExtraction(attributeName, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.extractions[attributeName] = content
}

// SetExtractionError makes extract fail for an attribute.
func (m *Mock) SetExtractionError(attributeName string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.extractErrs[attributeName] = err
}

// AddResponse appends a generation response; responses are consumed in
// order across GenerateResponse calls.
func (m *Mock) AddResponse(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, text)
}

// SetGenerateError makes GenerateResponse fail.
func (m *Mock) SetGenerateError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generateErr = err
}

// Calls returns a copy of all recorded invocations in order.
func (m *Mock) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// Reset clears all configured responses and recorded calls.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.judgments = make(map[string]bool)
	m.judgeErrs = make(map[string]error)
	m.extractions = make(map[string]string)
	m.extractErrs = make(map[string]error)
	m.responses = nil
	m.responseIndex = 0
	m.generateErr = nil
	m.calls = nil
}

// Judge returns the configured judgment for the attribute, defaulting
// to false.
func (m *Mock) Judge(ctx context.Context, judgmentPrompt, userInput, attributeName string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Op: "judge", Attribute: attributeName, Input: userInput})

	if err, ok := m.judgeErrs[attributeName]; ok {
		return false, &CapabilityError{Op: "judge", Attribute: attributeName, Err: err}
	}
	return m.judgments[attributeName], nil
}

// Extract returns the configured extraction for the attribute,
// defaulting to the no-information sentinel.
func (m *Mock) Extract(ctx context.Context, extractionPrompt, userInput, attributeName string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Op: "extract", Attribute: attributeName, Input: userInput})

	if err, ok := m.extractErrs[attributeName]; ok {
		return "", false, &CapabilityError{Op: "extract", Attribute: attributeName, Err: err}
	}

	content, ok := m.extractions[attributeName]
	if !ok || IsNoInformation(content) {
		return "", false, nil
	}
	return content, true, nil
}

// GenerateResponse returns the next configured response.
func (m *Mock) GenerateResponse(ctx context.Context, hist []history.Message, userInput string, attrs *attribute.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Op: "generate_response", Input: userInput})

	if m.generateErr != nil {
		return "", &CapabilityError{Op: "generate_response", Err: m.generateErr}
	}

	if m.responseIndex < len(m.responses) {
		resp := m.responses[m.responseIndex]
		m.responseIndex++
		return resp, nil
	}
	return fmt.Sprintf("mock response %d", m.responseIndex), nil
}
