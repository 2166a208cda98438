// Package translate localizes article descriptions into the configured
// target language using a pluggable completion backend. Translation is
// best-effort: detection skips text already in the target language, results
// are memoized per run, and any backend failure falls back to the original
// text so a degraded language provider never blocks a digest.
package translate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"techwatch/internal/domain/entity"
	"techwatch/internal/observability/logging"
	"techwatch/internal/observability/metrics"
)

// Completer is the completion contract the translator needs from its backend.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// translationMaxTokens bounds the backend response for one description.
const translationMaxTokens = 1024

// Config controls translation concurrency and backend pacing.
type Config struct {
	// Parallelism is the number of descriptions translated concurrently.
	Parallelism int

	// RateLimit caps backend calls per second across all workers.
	RateLimit rate.Limit

	// Burst is the rate limiter burst size.
	Burst int
}

// DefaultConfig returns conservative settings that stay well under typical
// LLM API rate limits.
func DefaultConfig() Config {
	return Config{
		Parallelism: 4,
		RateLimit:   rate.Limit(2),
		Burst:       1,
	}
}

// Service translates article descriptions into a target language.
// A nil backend disables translation entirely: text passes through unchanged.
type Service struct {
	backend    Completer
	target     string
	targetCode string
	cache      *cache
	group      singleflight.Group
	limiter    *rate.Limiter
	cfg        Config
}

// New creates a translation service targeting the given language name
// (e.g. "French"). backend may be nil, in which case every text is returned
// unchanged.
func New(backend Completer, targetLanguage string, cfg Config) *Service {
	if cfg.Parallelism < 1 {
		cfg.Parallelism = DefaultConfig().Parallelism
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = DefaultConfig().RateLimit
	}
	if cfg.Burst < 1 {
		cfg.Burst = DefaultConfig().Burst
	}

	return &Service{
		backend:    backend,
		target:     targetLanguage,
		targetCode: LanguageCode(targetLanguage),
		cache:      newCache(),
		limiter:    rate.NewLimiter(cfg.RateLimit, cfg.Burst),
		cfg:        cfg,
	}
}

// TranslateText returns the text translated into the target language.
// It never fails: empty text, text already in the target language, a
// disabled backend, and backend errors all yield the original text.
func (s *Service) TranslateText(ctx context.Context, source string) string {
	if strings.TrimSpace(source) == "" {
		return source
	}

	if s.backend == nil {
		metrics.RecordTranslation("passthrough")
		return source
	}

	if DetectLanguage(source) == s.targetCode {
		metrics.RecordTranslation("same_language")
		return source
	}

	if cached, ok := s.cache.get(source, s.targetCode); ok {
		metrics.RecordTranslation("cache_hit")
		return cached
	}

	// singleflight collapses concurrent workers translating the same text
	// into one backend call.
	key := s.cache.key(source, s.targetCode)
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		if cached, ok := s.cache.get(source, s.targetCode); ok {
			return cached, nil
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		out, err := s.backend.Complete(ctx, s.buildPrompt(source), translationMaxTokens)
		if err != nil {
			return nil, err
		}

		out = strings.TrimSpace(out)
		if out == "" {
			return nil, errors.New("backend returned empty translation")
		}

		s.cache.put(source, s.targetCode, out)
		return out, nil
	})

	if err != nil {
		logging.FromContext(ctx).Warn("translation failed, keeping original text",
			slog.String("target_language", s.target),
			slog.String("error", err.Error()))
		metrics.RecordTranslation("failed")
		return source
	}

	metrics.RecordTranslation("translated")
	return v.(string)
}

// TranslateArticles translates the descriptions of all articles, preserving
// order. Titles and links are left untouched so readers can always reach the
// original content. The returned slice is a fresh copy.
func (s *Service) TranslateArticles(ctx context.Context, articles []entity.Article) []entity.Article {
	out := make([]entity.Article, len(articles))
	copy(out, articles)

	if s.backend == nil || len(articles) == 0 {
		if s.backend == nil {
			logging.FromContext(ctx).Info("translation disabled, descriptions kept as-is",
				slog.Int("articles", len(articles)))
		}
		return out
	}

	eg, ctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, s.cfg.Parallelism)

	for i := range out {
		eg.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()

			out[i] = out[i].WithDescription(s.TranslateText(ctx, out[i].Description))
			return nil
		})
	}

	// Workers never return errors; TranslateText already degrades in place.
	_ = eg.Wait()

	logging.FromContext(ctx).Info("translation pass completed",
		slog.Int("articles", len(out)),
		slog.String("target_language", s.target),
		slog.Int("cache_entries", s.cache.len()))

	return out
}

// buildPrompt constructs the translation prompt for the backend.
func (s *Service) buildPrompt(source string) string {
	return fmt.Sprintf("Translate the following text to %s. Reply with only the translated text, no commentary:\n\n%s",
		s.target, source)
}
