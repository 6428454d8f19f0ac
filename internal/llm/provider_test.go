package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"mock", Config{Provider: "mock"}, false},
		{"ollama with defaults", Config{Provider: "ollama"}, false},
		{"anthropic with key", Config{Provider: "anthropic", APIKey: "sk-test"}, false},
		{"anthropic without key", Config{Provider: "anthropic"}, true},
		{"openai with key", Config{Provider: "openai", APIKey: "sk-test"}, false},
		{"openai without key", Config{Provider: "openai"}, true},
		{"unknown provider", Config{Provider: "quantum"}, true},
		{"empty provider", Config{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, got)
		})
	}
}

func TestNewMockIsFullCapability(t *testing.T) {
	c, err := New(Config{Provider: "mock"})
	require.NoError(t, err)

	_, ok := c.(*Mock)
	assert.True(t, ok)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "ollama", cfg.Provider)
	assert.NoError(t, cfg.Validate())
}
