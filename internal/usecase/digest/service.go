// Package digest turns a flat list of curated articles into the category
// groups that structure the final newsletter, and synthesizes a short
// executive summary per category. Summaries are generative when a completion
// backend is available and fall back to a headline roll-up otherwise, so the
// digest always renders.
package digest

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"techwatch/internal/domain/entity"
	"techwatch/internal/observability/logging"
	"techwatch/internal/observability/metrics"
	"techwatch/internal/utils/text"
)

// Completer is the completion contract used for generative summaries.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Translator localizes generated summaries into the target language.
type Translator interface {
	TranslateText(ctx context.Context, source string) string
}

const (
	// summaryMaxTokens bounds the backend response for one category summary.
	summaryMaxTokens = 512

	// summaryArticleSample is how many leading articles feed the summary prompt.
	summaryArticleSample = 3

	// summaryExcerptRunes bounds each article excerpt inside the prompt.
	summaryExcerptRunes = 100

	// fallbackSummaryRunes bounds the headline roll-up fallback.
	fallbackSummaryRunes = 220
)

// Service groups articles and writes category summaries.
// backend and translator may both be nil; the service then produces
// fallback summaries in the articles' original language.
type Service struct {
	backend    Completer
	translator Translator
	language   string
}

// New creates a digest service. language is the configured target language
// name; summaries are translated into it when it is not English.
func New(backend Completer, translator Translator, language string) *Service {
	return &Service{
		backend:    backend,
		translator: translator,
		language:   language,
	}
}

// GroupByCategory partitions articles into per-category groups. Groups are
// ordered alphabetically by category name and articles within a group are
// ordered newest first, with input order preserved on equal timestamps.
func GroupByCategory(articles []entity.Article) []entity.CategoryGroup {
	byCategory := make(map[string][]entity.Article)
	for _, a := range articles {
		cat := a.Category
		if cat == "" {
			cat = entity.DefaultCategory
		}
		byCategory[cat] = append(byCategory[cat], a)
	}

	names := make([]string, 0, len(byCategory))
	for name := range byCategory {
		names = append(names, name)
	}
	sort.Strings(names)

	groups := make([]entity.CategoryGroup, 0, len(names))
	for _, name := range names {
		members := byCategory[name]
		sort.SliceStable(members, func(i, j int) bool {
			return members[i].PublishedAt.After(members[j].PublishedAt)
		})
		groups = append(groups, entity.CategoryGroup{
			Category: name,
			Articles: members,
		})
	}
	return groups
}

// Summarize fills in the Summary field of every group. Generative summaries
// come from the completion backend; when the backend is unavailable or fails,
// a headline roll-up is used instead. Summarize never fails a run.
func (s *Service) Summarize(ctx context.Context, groups []entity.CategoryGroup) []entity.CategoryGroup {
	logger := logging.FromContext(ctx)

	out := make([]entity.CategoryGroup, len(groups))
	copy(out, groups)

	for i := range out {
		out[i].Summary = s.summarizeGroup(ctx, out[i])
		logger.Debug("category summarized",
			slog.String("category", out[i].Category),
			slog.Int("articles", len(out[i].Articles)))
	}
	return out
}

func (s *Service) summarizeGroup(ctx context.Context, group entity.CategoryGroup) string {
	if len(group.Articles) == 0 {
		return ""
	}

	if s.backend != nil {
		summary, err := s.generate(ctx, group)
		if err == nil {
			metrics.RecordSummary("generative")
			return summary
		}
		logging.FromContext(ctx).Warn("generative summary failed, using headline roll-up",
			slog.String("category", group.Category),
			slog.String("error", err.Error()))
	}

	metrics.RecordSummary("fallback")
	return FallbackSummary(group.Articles)
}

// generate produces a short executive summary for the category through the
// completion backend, translated when the target language is not English.
func (s *Service) generate(ctx context.Context, group entity.CategoryGroup) (string, error) {
	summary, err := s.backend.Complete(ctx, s.buildPrompt(group), summaryMaxTokens)
	if err != nil {
		return "", fmt.Errorf("summarize %s: %w", group.Category, err)
	}

	summary = strings.TrimSpace(summary)
	if summary == "" {
		return "", fmt.Errorf("summarize %s: backend returned empty summary", group.Category)
	}

	if s.translator != nil && !strings.EqualFold(s.language, "english") {
		summary = s.translator.TranslateText(ctx, summary)
	}
	return summary, nil
}

// buildPrompt assembles the summary prompt from the newest articles in the
// group. Each article contributes its title and a short excerpt.
func (s *Service) buildPrompt(group entity.CategoryGroup) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Here are recent news items in the %q category:\n\n", group.Category)

	sample := group.Articles
	if len(sample) > summaryArticleSample {
		sample = sample[:summaryArticleSample]
	}
	for _, a := range sample {
		fmt.Fprintf(&b, "- %s: %s\n", a.Title, text.TruncateEllipsis(a.Description, summaryExcerptRunes))
	}

	b.WriteString("\nWrite a 2-3 sentence executive summary of these items, emphasizing business impact and notable trends. Reply with only the summary.")
	return b.String()
}

// FallbackSummary builds a headline roll-up from the first two article
// titles, used whenever generative summarization is unavailable.
func FallbackSummary(articles []entity.Article) string {
	titles := make([]string, 0, 2)
	for _, a := range articles {
		if a.Title == "" {
			continue
		}
		titles = append(titles, a.Title)
		if len(titles) == 2 {
			break
		}
	}
	if len(titles) == 0 {
		return ""
	}
	return text.Truncate("Key developments: "+strings.Join(titles, " • "), fallbackSummaryRunes)
}
