package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"techwatch/internal/observability/metrics"
	"techwatch/internal/resilience/circuitbreaker"
	"techwatch/internal/resilience/retry"
	"techwatch/internal/utils/text"
)

// Claude implements Completer using Anthropic's Messages API.
// It includes circuit breaker and retry logic for improved reliability.
type Claude struct {
	client         anthropic.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	model          string
}

// NewClaude creates a Claude completion backend with the given API key and
// model. Circuit breaker and retry logic are configured automatically.
func NewClaude(apiKey, model string) *Claude {
	slog.Info("Initialized Claude completion backend",
		slog.String("model", model))

	return &Claude{
		client:         anthropic.NewClient(option.WithAPIKey(apiKey)),
		circuitBreaker: circuitbreaker.New(circuitbreaker.ClaudeAPIConfig()),
		retryConfig:    retry.LLMAPIConfig(),
		model:          model,
	}
}

// Name implements Completer.
func (c *Claude) Name() string { return "claude" }

// Complete sends the prompt to the Claude API and returns the generated text.
// It uses circuit breaker and retry logic for improved reliability.
func (c *Claude) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, completionTimeout)
	defer cancel()

	var result string

	retryErr := retry.WithBackoff(ctx, c.retryConfig, func() error {
		cbResult, err := c.circuitBreaker.Execute(func() (interface{}, error) {
			return c.doComplete(ctx, prompt, maxTokens)
		})

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("claude api circuit breaker open, request rejected",
					slog.String("service", "claude-api"),
					slog.String("state", c.circuitBreaker.State().String()))
				return fmt.Errorf("claude api unavailable: circuit breaker open")
			}
			return err
		}

		result = cbResult.(string)
		return nil
	})

	if retryErr != nil {
		return "", fmt.Errorf("claude complete failed after retries: %w", retryErr)
	}

	return result, nil
}

// doComplete performs the actual API call without retry or circuit breaker.
func (c *Claude) doComplete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	requestID := uuid.New().String()

	prompt = truncatePrompt(prompt)

	slog.InfoContext(ctx, "Starting completion",
		slog.String("request_id", requestID),
		slog.String("provider", "claude"),
		slog.Int("prompt_length", text.CountRunes(prompt)),
		slog.Int("max_tokens", maxTokens))

	start := time.Now()

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(prompt),
			),
		},
	})

	duration := time.Since(start)

	if err != nil {
		slog.ErrorContext(ctx, "Completion failed",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("claude api error: %w", err)
	}

	if len(message.Content) == 0 {
		slog.ErrorContext(ctx, "Claude API returned empty response",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration))
		return "", fmt.Errorf("claude api returned empty response")
	}

	textBlock, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		slog.ErrorContext(ctx, "Claude API returned unexpected response type",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration))
		return "", fmt.Errorf("claude api returned unexpected response type")
	}

	completion := textBlock.Text

	slog.InfoContext(ctx, "Completion finished",
		slog.String("request_id", requestID),
		slog.Int("completion_length", text.CountRunes(completion)),
		slog.Duration("duration", duration))

	metrics.RecordCompletion("claude", duration)

	return completion, nil
}
