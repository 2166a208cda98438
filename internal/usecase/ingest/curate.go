package ingest

import (
	"log/slog"
	"sort"
	"time"

	"techwatch/internal/domain/entity"
	"techwatch/internal/observability/metrics"
)

// Dedupe collapses articles sharing a non-empty link to a single
// representative; the first occurrence wins, which is deterministic because
// FetchAll preserves configured source order. Articles without a link carry
// no identity signal and are always kept.
func Dedupe(articles []entity.Article) []entity.Article {
	seen := make(map[string]struct{}, len(articles))
	unique := make([]entity.Article, 0, len(articles))

	for _, a := range articles {
		if a.Link == "" {
			unique = append(unique, a)
			continue
		}
		if _, ok := seen[a.Link]; ok {
			continue
		}
		seen[a.Link] = struct{}{}
		unique = append(unique, a)
	}

	metrics.RecordArticlesDropped("dedupe", len(articles)-len(unique))
	return unique
}

// FilterSince retains articles published strictly after cutoff. A zero
// cutoff (first run, or force mode) returns the input unchanged. The
// function never fails: an article with a suspect timestamp is retained
// rather than silently lost.
func FilterSince(articles []entity.Article, cutoff time.Time) []entity.Article {
	if cutoff.IsZero() {
		return articles
	}

	kept := make([]entity.Article, 0, len(articles))
	for _, a := range articles {
		if a.PublishedAt.IsZero() || a.PublishedAt.After(cutoff) {
			kept = append(kept, a)
		}
	}

	metrics.RecordArticlesDropped("recency_filter", len(articles)-len(kept))
	return kept
}

// CapPerCategory bounds the number of articles per category, keeping the
// `limit` most recent. The sort is stable so equal timestamps preserve
// ingestion order, which keeps runs reproducible. A limit below 1 is
// treated as a no-op with a warning.
func CapPerCategory(articles []entity.Article, limit int) []entity.Article {
	if limit < 1 {
		slog.Warn("per-category cap must be positive, skipping", slog.Int("limit", limit))
		return articles
	}

	byCategory := make(map[string][]entity.Article)
	order := make([]string, 0)
	for _, a := range articles {
		if _, ok := byCategory[a.Category]; !ok {
			order = append(order, a.Category)
		}
		byCategory[a.Category] = append(byCategory[a.Category], a)
	}

	capped := make([]entity.Article, 0, len(articles))
	for _, category := range order {
		group := byCategory[category]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].PublishedAt.After(group[j].PublishedAt)
		})
		if len(group) > limit {
			group = group[:limit]
		}
		capped = append(capped, group...)
	}

	metrics.RecordArticlesDropped("category_cap", len(articles)-len(capped))
	return capped
}
