// Package discovery suggests new feed sources from a curated list of
// well-known tech publications. Each suggestion is probed before being
// offered so the source list never accumulates dead URLs.
package discovery

import (
	"context"
	"log/slog"
	"strings"

	"techwatch/internal/domain/entity"
	"techwatch/internal/observability/logging"
	"techwatch/internal/usecase/ingest"
)

// Candidate is one known publication with its likely feed endpoints, listed
// in preference order. The first endpoint that parses as a feed wins.
type Candidate struct {
	Name     string
	Category string
	FeedURLs []string
}

// defaultCandidates covers publications that commonly appear in a tech
// watch rotation. Endpoints follow the usual /feed, /rss.xml, /atom.xml
// conventions.
var defaultCandidates = []Candidate{
	{
		Name:     "Ars Technica",
		Category: "Tech News",
		FeedURLs: []string{"https://feeds.arstechnica.com/arstechnica/index"},
	},
	{
		Name:     "The Verge",
		Category: "Tech News",
		FeedURLs: []string{"https://www.theverge.com/rss/index.xml"},
	},
	{
		Name:     "MIT Technology Review",
		Category: "AI",
		FeedURLs: []string{"https://www.technologyreview.com/feed/"},
	},
	{
		Name:     "VentureBeat AI",
		Category: "AI",
		FeedURLs: []string{"https://venturebeat.com/category/ai/feed/"},
	},
	{
		Name:     "Krebs on Security",
		Category: "Security",
		FeedURLs: []string{"https://krebsonsecurity.com/feed/"},
	},
	{
		Name:     "The Hacker News",
		Category: "Security",
		FeedURLs: []string{"https://feeds.feedburner.com/TheHackersNews"},
	},
	{
		Name:     "InfoQ",
		Category: "Engineering",
		FeedURLs: []string{"https://feed.infoq.com/", "https://www.infoq.com/feed/"},
	},
	{
		Name:     "Hacker News Front Page",
		Category: "Engineering",
		FeedURLs: []string{"https://news.ycombinator.com/rss"},
	},
}

// Config controls one discovery pass.
type Config struct {
	// MaxNewPerRun caps how many new sources one pass may suggest.
	MaxNewPerRun int

	// Validate probes each candidate endpoint before suggesting it.
	// When false, endpoints are suggested as-is.
	Validate bool
}

// Service probes candidate publications and suggests sources that are not
// yet configured.
type Service struct {
	fetcher    ingest.FeedFetcher
	candidates []Candidate
	cfg        Config
}

// New creates a discovery service using the built-in candidate list.
func New(fetcher ingest.FeedFetcher, cfg Config) *Service {
	return &Service{
		fetcher:    fetcher,
		candidates: defaultCandidates,
		cfg:        cfg,
	}
}

// WithCandidates replaces the candidate list, primarily for tests.
func (s *Service) WithCandidates(candidates []Candidate) *Service {
	s.candidates = candidates
	return s
}

// Discover returns up to MaxNewPerRun sources not already present in
// existing. Candidates are probed sequentially; discovery is a background
// nicety and must not compete with ingestion for bandwidth.
func (s *Service) Discover(ctx context.Context, existing []entity.Source) []entity.Source {
	logger := logging.FromContext(ctx)

	known := make(map[string]struct{}, len(existing))
	for _, src := range existing {
		known[normalizeURL(src.URL)] = struct{}{}
	}

	limit := s.cfg.MaxNewPerRun
	if limit < 1 {
		return nil
	}

	var found []entity.Source
	for _, cand := range s.candidates {
		if len(found) >= limit {
			break
		}

		src, ok := s.probe(ctx, cand, known)
		if !ok {
			continue
		}

		known[normalizeURL(src.URL)] = struct{}{}
		found = append(found, src)
		logger.Info("discovered new feed source",
			slog.String("name", src.Name),
			slog.String("url", src.URL),
			slog.String("category", src.Category))
	}

	return found
}

// probe tries the candidate's endpoints in order and returns the first one
// that is unknown and (when validation is on) parses as a non-empty feed.
func (s *Service) probe(ctx context.Context, cand Candidate, known map[string]struct{}) (entity.Source, bool) {
	logger := logging.FromContext(ctx)

	for _, feedURL := range cand.FeedURLs {
		if _, seen := known[normalizeURL(feedURL)]; seen {
			continue
		}

		src := entity.Source{
			Name:     cand.Name,
			URL:      feedURL,
			Category: cand.Category,
		}
		if err := src.Validate(); err != nil {
			continue
		}

		if s.cfg.Validate {
			items, err := s.fetcher.Fetch(ctx, feedURL)
			if err != nil || len(items) == 0 {
				logger.Debug("candidate feed rejected",
					slog.String("name", cand.Name),
					slog.String("url", feedURL))
				continue
			}
		}

		return src, true
	}

	return entity.Source{}, false
}

// normalizeURL folds trivial variations so the same endpoint with and
// without a trailing slash is treated as one.
func normalizeURL(u string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(u)), "/")
}
