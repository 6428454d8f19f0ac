package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/memoryd/internal/engine"
	"github.com/fyrsmithlabs/memoryd/internal/llm"
	"github.com/fyrsmithlabs/memoryd/internal/translate"
)

func TestRegistryAccessors(t *testing.T) {
	mock := llm.NewMock()
	sessions := engine.NewSessionManager()
	translator := translate.Noop{}

	reg := NewRegistry(Options{
		Capability: mock,
		Translator: translator,
		Sessions:   sessions,
	})

	assert.Equal(t, llm.Capability(mock), reg.Capability())
	assert.Equal(t, translate.Translator(translator), reg.Translator())
	assert.Same(t, sessions, reg.Sessions())
	assert.Nil(t, reg.Engine())
	assert.Nil(t, reg.Store())
}

func TestRegistryDefaults(t *testing.T) {
	reg := NewRegistry(Options{})

	require.NotNil(t, reg.Sessions())
	require.NotNil(t, reg.Translator())

	// The default translator passes text through unchanged.
	out, err := reg.Translator().Translate(context.Background(), "hello", "English", "Japanese", nil)
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}
