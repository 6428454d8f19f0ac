package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/memoryd/internal/attribute"
	"github.com/fyrsmithlabs/memoryd/internal/history"
)

func TestIsNoInformation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"empty", "", true},
		{"whitespace only", "   \n", true},
		{"exact none", "none", true},
		{"exact none uppercase", "None", true},
		{"none within first 10 chars", "None found.", true},
		{"japanese sentinel", "なし", true},
		{"japanese sentinel with suffix", "なしです", true},
		{"marker beyond first 10 chars", "The user mentioned none of the topics", false},
		{"real content", "engineer", false},
		{"content starting similar", "nonetheless a real extraction", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNoInformation(tt.content))
		})
	}
}

func TestClientJudge(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   bool
	}{
		{"yes", "yes", true},
		{"yes with punctuation", "Yes.", true},
		{"yes in sentence", "The answer is yes", true},
		{"japanese yes", "はい", true},
		{"no", "no", false},
		{"unrelated", "maybe", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPrompt string
			c := NewClient(CompleterFunc(func(ctx context.Context, prompt string) (string, error) {
				gotPrompt = prompt
				return tt.answer, nil
			}))

			got, err := c.Judge(context.Background(), "need profile?", "My name is Taro", "User Profile")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, gotPrompt, "need profile?")
			assert.Contains(t, gotPrompt, "My name is Taro")
		})
	}
}

func TestClientJudgeError(t *testing.T) {
	boom := errors.New("boom")
	c := NewClient(CompleterFunc(func(ctx context.Context, prompt string) (string, error) {
		return "", boom
	}))

	_, err := c.Judge(context.Background(), "p", "input", "User Profile")
	require.Error(t, err)

	var ce *CapabilityError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "judge", ce.Op)
	assert.Equal(t, "User Profile", ce.Attribute)
	assert.ErrorIs(t, err, boom)
}

func TestClientExtract(t *testing.T) {
	tests := []struct {
		name        string
		answer      string
		wantContent string
		wantOK      bool
	}{
		{"content", "Taro", "Taro", true},
		{"content with whitespace", "  Taro \n", "Taro", true},
		{"sentinel", "none", "", false},
		{"sentinel in head", "None to extract", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(CompleterFunc(func(ctx context.Context, prompt string) (string, error) {
				assert.Contains(t, prompt, "please respond with 'none'")
				return tt.answer, nil
			}))

			content, ok, err := c.Extract(context.Background(), "extract name", "My name is Taro", "User Profile")
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantContent, content)
		})
	}
}

func TestClientGenerateResponsePrompt(t *testing.T) {
	hist := []history.Message{
		{Role: history.RoleUser, Content: "m1"},
		{Role: history.RoleAssistant, Content: "m2"},
		{Role: history.RoleUser, Content: "m3"},
		{Role: history.RoleAssistant, Content: "m4"},
		{Role: history.RoleUser, Content: "m5"},
		{Role: history.RoleAssistant, Content: "m6"},
	}
	attrs := attribute.NewContext()
	attrs.Set("User Profile", "Taro")

	var gotPrompt string
	c := NewClient(CompleterFunc(func(ctx context.Context, prompt string) (string, error) {
		gotPrompt = prompt
		return "  Nice to meet you, Taro.  ", nil
	}))

	resp, err := c.GenerateResponse(context.Background(), hist, "My name is Taro", attrs)
	require.NoError(t, err)
	assert.Equal(t, "Nice to meet you, Taro.", resp)

	// Only the last five history messages are included.
	assert.NotContains(t, gotPrompt, "User: m1")
	assert.Contains(t, gotPrompt, "Assistant: m2")
	assert.Contains(t, gotPrompt, "Assistant: m6")
	assert.Contains(t, gotPrompt, "- User Profile: Taro")
	assert.Contains(t, gotPrompt, "My name is Taro")
}

func TestClientGenerateResponseEmptyContext(t *testing.T) {
	var gotPrompt string
	c := NewClient(CompleterFunc(func(ctx context.Context, prompt string) (string, error) {
		gotPrompt = prompt
		return "hello", nil
	}))

	_, err := c.GenerateResponse(context.Background(), nil, "hi", attribute.NewContext())
	require.NoError(t, err)
	assert.False(t, strings.Contains(gotPrompt, "User Attribute Information"))
}
