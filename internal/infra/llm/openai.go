package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"techwatch/internal/observability/metrics"
	"techwatch/internal/resilience/circuitbreaker"
	"techwatch/internal/resilience/retry"
	"techwatch/internal/utils/text"
)

// OpenAI implements Completer using OpenAI's chat completion API.
// It includes circuit breaker and retry logic for improved reliability.
type OpenAI struct {
	client         *openai.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	model          string
}

// NewOpenAI creates an OpenAI completion backend with the given API key and
// model. Circuit breaker and retry logic are configured automatically.
func NewOpenAI(apiKey, model string) *OpenAI {
	slog.Info("Initialized OpenAI completion backend",
		slog.String("model", model))

	return &OpenAI{
		client:         openai.NewClient(apiKey),
		circuitBreaker: circuitbreaker.New(circuitbreaker.OpenAIAPIConfig()),
		retryConfig:    retry.LLMAPIConfig(),
		model:          model,
	}
}

// Name implements Completer.
func (o *OpenAI) Name() string { return "openai" }

// Complete sends the prompt to the OpenAI API and returns the generated text.
// It uses circuit breaker and retry logic for improved reliability.
func (o *OpenAI) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, completionTimeout)
	defer cancel()

	var result string

	retryErr := retry.WithBackoff(ctx, o.retryConfig, func() error {
		cbResult, err := o.circuitBreaker.Execute(func() (interface{}, error) {
			return o.doComplete(ctx, prompt, maxTokens)
		})

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("openai api circuit breaker open, request rejected",
					slog.String("service", "openai-api"),
					slog.String("state", o.circuitBreaker.State().String()))
				return fmt.Errorf("openai api unavailable: circuit breaker open")
			}
			return err
		}

		result = cbResult.(string)
		return nil
	})

	if retryErr != nil {
		return "", fmt.Errorf("openai complete failed after retries: %w", retryErr)
	}

	return result, nil
}

// doComplete performs the actual API call without retry or circuit breaker.
func (o *OpenAI) doComplete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	prompt = truncatePrompt(prompt)

	slog.InfoContext(ctx, "Starting completion",
		slog.String("provider", "openai"),
		slog.Int("prompt_length", text.CountRunes(prompt)),
		slog.Int("max_tokens", maxTokens))

	start := time.Now()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.model,
		MaxTokens: maxTokens,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
	})

	duration := time.Since(start)

	if err != nil {
		slog.ErrorContext(ctx, "Completion failed",
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		slog.ErrorContext(ctx, "OpenAI API returned empty response",
			slog.Duration("duration", duration))
		return "", fmt.Errorf("openai api returned empty response")
	}

	completion := resp.Choices[0].Message.Content

	slog.InfoContext(ctx, "Completion finished",
		slog.Int("completion_length", text.CountRunes(completion)),
		slog.Duration("duration", duration))

	metrics.RecordCompletion("openai", duration)

	return completion, nil
}
