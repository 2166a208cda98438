// Package llm provides the text-completion backends used for translation
// and executive summary synthesis. It includes adapters for Claude
// (Anthropic) and OpenAI with retry and circuit breaker reliability
// patterns, selected at construction time by a provider-name factory.
package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Completer is the provider-agnostic completion contract. New providers are
// added by implementing this interface and registering in NewCompleter;
// callers never change.
type Completer interface {
	// Complete sends one prompt to the backend and returns the generated text.
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)

	// Name returns the provider name for logging and metrics.
	Name() string
}

// ErrMissingAPIKey indicates the selected provider's credential is not set.
// Callers treat this as "capability unavailable", not as a fatal error.
var ErrMissingAPIKey = errors.New("api key not set")

// completionTimeout bounds a single backend call.
const completionTimeout = 60 * time.Second

// maxPromptChars bounds prompt size to stay clear of token limits.
const maxPromptChars = 10000

// NewCompleter builds the completion backend for the given provider name
// ("claude" or "openai") and model. The API key comes from the provider's
// environment variable (ANTHROPIC_API_KEY / OPENAI_API_KEY); a missing key
// returns ErrMissingAPIKey.
func NewCompleter(provider, model string) (Completer, error) {
	switch strings.ToLower(provider) {
	case "claude":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("claude: ANTHROPIC_API_KEY: %w", ErrMissingAPIKey)
		}
		return NewClaude(apiKey, model), nil
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("openai: OPENAI_API_KEY: %w", ErrMissingAPIKey)
		}
		return NewOpenAI(apiKey, model), nil
	default:
		return nil, fmt.Errorf("unknown completion provider %q (must be claude or openai)", provider)
	}
}

// truncatePrompt bounds the prompt text for the backend call.
func truncatePrompt(prompt string) string {
	if len(prompt) <= maxPromptChars {
		return prompt
	}
	return prompt[:maxPromptChars] + "..."
}
