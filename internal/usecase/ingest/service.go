// Package ingest implements the front half of the curation pipeline:
// concurrent feed fetching with isolated per-source failures, entry
// normalization, deduplication, recency filtering, and per-category capping.
package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/araddon/dateparse"
	"golang.org/x/sync/errgroup"

	"techwatch/internal/domain/entity"
	"techwatch/internal/observability/logging"
	"techwatch/internal/observability/metrics"
	"techwatch/internal/utils/text"
)

// maxDescriptionRunes bounds normalized descriptions to keep downstream
// memory and API costs predictable.
const maxDescriptionRunes = 300

// Ingestion result statuses.
const (
	StatusSuccess        = "success"
	StatusPartialSuccess = "partial_success"
)

// FeedItem represents a single raw item from an RSS/Atom feed as delivered
// by the fetcher, before normalization.
type FeedItem struct {
	Title           string
	Link            string
	Summary         string
	Published       string
	PublishedParsed *time.Time
}

// FeedFetcher is an interface for fetching RSS/Atom feeds from a URL.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) ([]FeedItem, error)
}

// ContentFetcher fetches the full article body for entries whose feed
// summary is too thin to curate. Optional; nil disables enhancement.
type ContentFetcher interface {
	FetchContent(ctx context.Context, url string) (string, error)
}

// Config tunes the ingestion fan-out and content enhancement.
type Config struct {
	// Parallelism bounds concurrent source fetches.
	Parallelism int

	// SourceTimeout is the independent timeout applied to each source.
	SourceTimeout time.Duration

	// ContentThreshold is the minimum plain-text summary length below which
	// the full article content is fetched (when a ContentFetcher is set).
	ContentThreshold int
}

// Result is the outcome of one ingestion pass. Articles preserve the
// configured source order; Errors holds one record per failed source.
type Result struct {
	Articles []entity.Article
	Errors   []SourceError
	Status   string
}

// Service fetches all configured sources and normalizes their entries.
type Service struct {
	fetcher        FeedFetcher
	contentFetcher ContentFetcher
	cfg            Config
	now            func() time.Time
}

// NewService creates an ingestion service.
// contentFetcher may be nil to disable full-content enhancement.
func NewService(fetcher FeedFetcher, contentFetcher ContentFetcher, cfg Config) *Service {
	if cfg.Parallelism < 1 {
		cfg.Parallelism = 5
	}
	if cfg.SourceTimeout <= 0 {
		cfg.SourceTimeout = 10 * time.Second
	}
	return &Service{
		fetcher:        fetcher,
		contentFetcher: contentFetcher,
		cfg:            cfg,
		now:            time.Now,
	}
}

// FetchAll fetches every source concurrently and fans results back in.
// Each source gets an independent timeout; a source failure is recorded in
// the result and never aborts fetching of the remaining sources. The
// returned article order follows the configured source order so that
// downstream deduplication stays deterministic.
func (s *Service) FetchAll(ctx context.Context, sources []entity.Source) *Result {
	logger := logging.FromContext(ctx)

	perSource := make([][]entity.Article, len(sources))
	perSourceErr := make([]*SourceError, len(sources))

	sem := make(chan struct{}, s.cfg.Parallelism)
	// Workers report failures through perSourceErr rather than the group
	// error so that one bad feed cannot cancel its siblings.
	eg, egCtx := errgroup.WithContext(ctx)

	for i, src := range sources {
		eg.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()

			fetchCtx, cancel := context.WithTimeout(egCtx, s.cfg.SourceTimeout)
			defer cancel()

			start := time.Now()
			items, err := s.fetcher.Fetch(fetchCtx, src.URL)
			duration := time.Since(start)

			name := src.DisplayName()
			if err != nil {
				kind := classifyFetchError(err)
				perSourceErr[i] = &SourceError{Source: name, Kind: kind, Err: err}
				metrics.RecordFeedFetch(name, false, duration)
				metrics.RecordFeedFetchError(name, string(kind))
				logger.Warn("failed to fetch feed",
					slog.String("source", name),
					slog.String("url", src.URL),
					slog.String("kind", string(kind)),
					slog.Any("error", err))
				return nil
			}
			metrics.RecordFeedFetch(name, true, duration)

			articles := make([]entity.Article, 0, len(items))
			for _, item := range items {
				if art, ok := s.normalize(fetchCtx, src, item); ok {
					articles = append(articles, art)
				}
			}
			perSource[i] = articles
			metrics.RecordArticlesIngested(name, len(articles))

			logger.Info("source fetched",
				slog.String("source", name),
				slog.Int("entries", len(items)),
				slog.Int("articles", len(articles)),
				slog.Duration("duration", duration))
			return nil
		})
	}

	// Workers always return nil; Wait only surfaces context cancellation.
	_ = eg.Wait()

	res := &Result{Status: StatusSuccess}
	for i := range sources {
		res.Articles = append(res.Articles, perSource[i]...)
		if perSourceErr[i] != nil {
			res.Errors = append(res.Errors, *perSourceErr[i])
		}
	}
	if len(res.Errors) > 0 {
		res.Status = StatusPartialSuccess
	}

	logger.Info("ingestion completed",
		slog.Int("sources", len(sources)),
		slog.Int("articles", len(res.Articles)),
		slog.Int("source_errors", len(res.Errors)),
		slog.String("status", res.Status))

	return res
}

// normalize converts one raw feed entry into an Article, tolerating missing
// fields: an absent link is kept, an unparseable publish date falls back to
// the ingestion time, and the summary is stripped of markup and bounded.
// Entries with neither title, link, nor summary carry no usable signal and
// are dropped silently.
func (s *Service) normalize(ctx context.Context, src entity.Source, item FeedItem) (entity.Article, bool) {
	fetchedAt := s.now()

	summary := s.enhance(ctx, item)
	description := text.Truncate(text.StripHTML(summary), maxDescriptionRunes)

	title := text.CollapseWhitespace(item.Title)
	if title == "" && item.Link == "" && description == "" {
		return entity.Article{}, false
	}
	if title == "" {
		title = "No title"
	}

	category := src.Category
	if category == "" {
		category = entity.DefaultCategory
	}

	return entity.Article{
		Title:       title,
		Link:        item.Link,
		Description: description,
		PublishedAt: s.publishedAt(item, fetchedAt),
		Source:      src.DisplayName(),
		Category:    category,
		FetchedAt:   fetchedAt,
	}, true
}

// publishedAt resolves the entry's publish time: the parser's parsed value,
// then a best-effort parse of the raw date string, then the fetch time.
// Defaulting to "now" can let an undated article slip past recency
// filtering; the behavior is kept deliberately, losing articles to bad
// feed metadata is worse.
func (s *Service) publishedAt(item FeedItem, fetchedAt time.Time) time.Time {
	if item.PublishedParsed != nil && !item.PublishedParsed.IsZero() {
		return *item.PublishedParsed
	}
	if item.Published != "" {
		if t, err := dateparse.ParseAny(item.Published); err == nil {
			return t
		}
	}
	return fetchedAt
}

// enhance fetches the full article body when the feed summary is thinner
// than the configured threshold. Any failure falls back to the feed summary;
// enhancement must never break ingestion.
func (s *Service) enhance(ctx context.Context, item FeedItem) string {
	if s.contentFetcher == nil || item.Link == "" {
		return item.Summary
	}

	plain := text.StripHTML(item.Summary)
	if text.CountRunes(plain) >= s.cfg.ContentThreshold {
		return item.Summary
	}

	full, err := s.contentFetcher.FetchContent(ctx, item.Link)
	if err != nil {
		logging.FromContext(ctx).Debug("content fetch failed, using feed summary",
			slog.String("url", item.Link),
			slog.Any("error", err))
		return item.Summary
	}
	if text.CountRunes(full) > text.CountRunes(plain) {
		return full
	}
	return item.Summary
}
