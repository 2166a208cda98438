// Package pipeline orchestrates one end-to-end digest run: ingest all
// configured feeds, curate the results, translate descriptions, build the
// category digest, render it, and deliver it. A run degrades rather than
// aborts: individual source failures, translation failures, and summary
// failures all leave a deliverable digest behind.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"techwatch/internal/config"
	"techwatch/internal/domain/entity"
	"techwatch/internal/infra/mailer"
	"techwatch/internal/observability/logging"
	"techwatch/internal/observability/metrics"
	"techwatch/internal/usecase/digest"
	"techwatch/internal/usecase/ingest"
)

// Run statuses. Success and partial success both deliver a digest; error
// means nothing was delivered.
const (
	StatusSuccess        = ingest.StatusSuccess
	StatusPartialSuccess = ingest.StatusPartialSuccess
	StatusError          = "error"
)

// Ingestor fetches and normalizes all configured sources.
type Ingestor interface {
	FetchAll(ctx context.Context, sources []entity.Source) *ingest.Result
}

// Translator localizes article descriptions.
type Translator interface {
	TranslateArticles(ctx context.Context, articles []entity.Article) []entity.Article
}

// Summarizer fills in per-category executive summaries.
type Summarizer interface {
	Summarize(ctx context.Context, groups []entity.CategoryGroup) []entity.CategoryGroup
}

// Discoverer suggests feed sources not yet configured.
type Discoverer interface {
	Discover(ctx context.Context, existing []entity.Source) []entity.Source
}

// Sink delivers the rendered digest.
type Sink interface {
	Deliver(ctx context.Context, subject, htmlBody string) error
}

// Options are the per-run switches, typically mapped from CLI flags.
type Options struct {
	// DryRun renders but neither records the run in the config file nor
	// counts as an execution for the recency window.
	DryRun bool

	// Force ignores the recency window entirely and processes every
	// fetched article.
	Force bool

	// Lookback overrides the recency window with a fixed duration before
	// now. Zero means "use the last recorded execution time".
	Lookback time.Duration
}

// Result summarizes one run for the CLI and for logs.
type Result struct {
	RunID           string
	Status          string
	SourcesTotal    int
	SourcesFailed   int
	ArticlesFetched int
	ArticlesKept    int
	Categories      int
	Message         string
	Errors          []string
	Duration        time.Duration
}

// Service wires the pipeline stages together.
type Service struct {
	cfg        *config.Config
	ingestor   Ingestor
	translator Translator
	summarizer Summarizer
	discoverer Discoverer
	sink       Sink
	now        func() time.Time
}

// New creates a pipeline over an already loaded configuration.
// discoverer is optional and only runs when discovery is enabled in the
// config.
func New(cfg *config.Config, ingestor Ingestor, translator Translator, summarizer Summarizer, sink Sink) *Service {
	return &Service{
		cfg:        cfg,
		ingestor:   ingestor,
		translator: translator,
		summarizer: summarizer,
		sink:       sink,
		now:        time.Now,
	}
}

// WithDiscoverer attaches an optional feed discovery pass.
func (s *Service) WithDiscoverer(d Discoverer) *Service {
	s.discoverer = d
	return s
}

// Run executes one digest run. The returned result always carries a status;
// Run returns an error only for failures that prevented delivery outright.
func (s *Service) Run(ctx context.Context, opts Options) (*Result, error) {
	start := s.now()
	runID := uuid.New().String()

	logger := logging.WithRunID(logging.FromContext(ctx), runID)
	ctx = logging.WithLogger(ctx, logger)

	res := &Result{
		RunID:        runID,
		SourcesTotal: len(s.cfg.Sources),
	}

	logger.Info("digest run started",
		slog.Int("sources", len(s.cfg.Sources)),
		slog.Bool("dry_run", opts.DryRun),
		slog.Bool("force", opts.Force))

	if opts.Force && opts.Lookback > 0 {
		logger.Warn("both force and a lookback window were requested, the lookback window wins",
			slog.Duration("lookback", opts.Lookback))
	}

	// ingest
	ingested := s.ingestor.FetchAll(ctx, s.cfg.Sources)
	res.ArticlesFetched = len(ingested.Articles)
	res.SourcesFailed = len(ingested.Errors)
	for _, srcErr := range ingested.Errors {
		res.Errors = append(res.Errors, srcErr.Error())
	}

	// every source failing is systemic, not partial
	if len(ingested.Articles) == 0 && len(s.cfg.Sources) > 0 && len(ingested.Errors) == len(s.cfg.Sources) {
		return s.fail(res, start, fmt.Errorf("all %d sources failed, nothing ingested", len(s.cfg.Sources)))
	}

	// curate
	articles := ingest.Dedupe(ingested.Articles)
	articles = ingest.FilterSince(articles, s.cutoff(opts))
	articles = ingest.CapPerCategory(articles, s.cfg.MaxArticlesPerCategory)
	res.ArticlesKept = len(articles)

	if len(articles) == 0 {
		return s.finishEmpty(ctx, res, ingested, opts, start)
	}

	// translate and summarize
	articles = s.translator.TranslateArticles(ctx, articles)
	groups := digest.GroupByCategory(articles)
	groups = s.summarizer.Summarize(ctx, groups)
	res.Categories = len(groups)

	// render and deliver
	generatedAt := s.now()
	html, err := mailer.RenderHTML(groups, generatedAt)
	if err != nil {
		return s.fail(res, start, fmt.Errorf("render digest: %w", err))
	}
	if err := s.sink.Deliver(ctx, mailer.Subject(generatedAt), html); err != nil {
		return s.fail(res, start, fmt.Errorf("deliver digest: %w", err))
	}

	s.discover(ctx)

	res.Status = ingested.Status
	res.Message = fmt.Sprintf("delivered %d articles in %d categories", res.ArticlesKept, res.Categories)

	if err := s.recordExecution(ctx, opts); err != nil {
		// the digest went out; a failed bookkeeping write degrades the run
		// instead of failing it
		res.Status = StatusPartialSuccess
		res.Errors = append(res.Errors, err.Error())
	}

	res.Duration = s.now().Sub(start)
	metrics.RecordRun(res.Status, res.Duration)
	logger.Info("digest run completed",
		slog.String("status", res.Status),
		slog.Int("articles", res.ArticlesKept),
		slog.Int("categories", res.Categories),
		slog.Int("failed_sources", res.SourcesFailed),
		slog.Duration("duration", res.Duration))

	return res, nil
}

// cutoff resolves the recency window: an explicit lookback wins, force
// disables filtering, and otherwise the last recorded execution applies.
// A zero cutoff means no filtering.
func (s *Service) cutoff(opts Options) time.Time {
	if opts.Lookback > 0 {
		return s.now().Add(-opts.Lookback)
	}
	if opts.Force {
		return time.Time{}
	}
	if last, ok := s.cfg.LastExecutionTime(); ok {
		return last
	}
	return time.Time{}
}

// finishEmpty closes out a run that curated down to zero articles. Nothing
// is delivered, but the execution is still recorded so the next run's
// window starts here.
func (s *Service) finishEmpty(ctx context.Context, res *Result, ingested *ingest.Result, opts Options, start time.Time) (*Result, error) {
	logger := logging.FromContext(ctx)

	s.discover(ctx)

	res.Status = ingested.Status
	res.Message = "no new articles, skipping delivery"

	if err := s.recordExecution(ctx, opts); err != nil {
		res.Status = StatusPartialSuccess
		res.Errors = append(res.Errors, err.Error())
	}

	res.Duration = s.now().Sub(start)
	metrics.RecordRun(res.Status, res.Duration)
	logger.Info("digest run completed with no articles",
		slog.String("status", res.Status),
		slog.Int("fetched", res.ArticlesFetched),
		slog.Duration("duration", res.Duration))

	return res, nil
}

// fail closes out a run that could not deliver.
func (s *Service) fail(res *Result, start time.Time, err error) (*Result, error) {
	res.Status = StatusError
	res.Message = err.Error()
	res.Errors = append(res.Errors, err.Error())
	res.Duration = s.now().Sub(start)
	metrics.RecordRun(StatusError, res.Duration)
	return res, err
}

// discover runs the optional feed discovery pass and adds accepted sources
// to the in-memory config. The next recordExecution persists them.
func (s *Service) discover(ctx context.Context) {
	if s.discoverer == nil || !s.cfg.Discovery.Enabled {
		return
	}

	logger := logging.FromContext(ctx)
	found := s.discoverer.Discover(ctx, s.cfg.Sources)
	if len(found) == 0 {
		return
	}

	if !s.cfg.Discovery.AutoAdd {
		for _, src := range found {
			logger.Info("feed suggestion (auto-add disabled)",
				slog.String("name", src.Name),
				slog.String("url", src.URL))
		}
		return
	}

	added := 0
	for _, src := range found {
		if s.cfg.AddSource(src) {
			added++
		}
	}
	logger.Info("new feed sources added", slog.Int("count", added))
}

// recordExecution stamps the run time and persists the config. Dry runs
// leave the file untouched so a later real run still covers this window.
func (s *Service) recordExecution(ctx context.Context, opts Options) error {
	if opts.DryRun {
		logging.FromContext(ctx).Info("dry run, config not updated")
		return nil
	}

	s.cfg.SetLastExecution(s.now())
	if err := s.cfg.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}
