package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCompleterClaude(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-key")

	c, err := NewCompleter("claude", "claude-opus-4-1-20250805")
	require.NoError(t, err)
	assert.Equal(t, "claude", c.Name())
}

func TestNewCompleterOpenAI(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")

	c, err := NewCompleter("openai", "gpt-3.5-turbo")
	require.NoError(t, err)
	assert.Equal(t, "openai", c.Name())
}

func TestNewCompleterMissingKey(t *testing.T) {
	tests := []struct {
		provider string
		envVar   string
	}{
		{provider: "claude", envVar: "ANTHROPIC_API_KEY"},
		{provider: "openai", envVar: "OPENAI_API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			t.Setenv(tt.envVar, "")

			c, err := NewCompleter(tt.provider, "some-model")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingAPIKey)
			assert.Nil(t, c)
		})
	}
}

func TestNewCompleterUnknownProvider(t *testing.T) {
	c, err := NewCompleter("gemini", "some-model")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown completion provider")
	assert.Nil(t, c)
}

func TestNewCompleterCaseInsensitive(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-key")

	c, err := NewCompleter("Claude", "claude-opus-4-1-20250805")
	require.NoError(t, err)
	assert.Equal(t, "claude", c.Name())
}

func TestTruncatePrompt(t *testing.T) {
	short := "short prompt"
	assert.Equal(t, short, truncatePrompt(short))

	long := strings.Repeat("a", maxPromptChars+500)
	got := truncatePrompt(long)
	assert.Len(t, got, maxPromptChars+3)
	assert.True(t, strings.HasSuffix(got, "..."))
}
