package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default", DefaultConfig(), false},
		{"console debug", Config{Level: "debug", Format: "console"}, false},
		{"bad level", Config{Level: "loud", Format: "json"}, true},
		{"bad format", Config{Level: "info", Format: "xml"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, logger)

	// Must not panic with a plain context.
	logger.Info(context.Background(), "hello")
}

func TestNewLoggerRejectsInvalidConfig(t *testing.T) {
	_, err := NewLogger(Config{Level: "nope", Format: "json"})
	assert.Error(t, err)
}

func TestContextFields(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ContextFields(ctx))

	ctx = WithSessionID(ctx, "sess_1")
	ctx = WithTurnID(ctx, "turn_1")

	fields := ContextFields(ctx)
	require.Len(t, fields, 2)
	assert.Equal(t, "session.id", fields[0].Key)
	assert.Equal(t, "turn.id", fields[1].Key)

	assert.Equal(t, "sess_1", SessionIDFromContext(ctx))
	assert.Equal(t, "turn_1", TurnIDFromContext(ctx))
}
