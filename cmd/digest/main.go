// Command digest runs one end-to-end tech watch cycle: fetch the configured
// feeds, curate and translate the articles, build per-category summaries,
// and deliver the rendered newsletter by email (or to a file for dry runs).
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"techwatch/internal/config"
	"techwatch/internal/infra/feed"
	"techwatch/internal/infra/fetcher"
	"techwatch/internal/infra/llm"
	"techwatch/internal/infra/mailer"
	"techwatch/internal/observability/logging"
	"techwatch/internal/observability/metrics"
	"techwatch/internal/usecase/digest"
	"techwatch/internal/usecase/discovery"
	"techwatch/internal/usecase/ingest"
	"techwatch/internal/usecase/pipeline"
	"techwatch/internal/usecase/translate"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "path to the YAML configuration file")
		dryRun     = flag.Bool("dry-run", false, "render the digest to a file instead of sending it, without recording the run")
		force      = flag.Bool("force", false, "ignore the recency window and process all fetched articles")
		since      = flag.Duration("since", 0, "override the recency window with a fixed lookback (e.g. 48h)")
		outPath    = flag.String("out", "", "write the rendered digest to this file instead of sending email")
	)
	flag.Parse()

	logger := initLogger(*dryRun)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded",
		slog.String("path", *configPath),
		slog.Int("sources", len(cfg.Sources)),
		slog.String("language", cfg.Language),
		slog.String("provider", cfg.Provider))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithLogger(ctx, logger)

	// feed ingestion
	rss := feed.NewRSSFetcher(feed.NewHTTPClient(cfg.Fetch.Timeout()))

	var contentFetcher ingest.ContentFetcher
	if cfg.ContentFetch.Enabled {
		contentFetcher = fetcher.NewReadabilityFetcher(fetcher.DefaultConfig())
		logger.Info("content enhancement enabled",
			slog.Int("threshold", cfg.ContentFetch.Threshold))
	}

	ingestor := ingest.NewService(rss, contentFetcher, ingest.Config{
		Parallelism:      cfg.Fetch.Parallelism,
		SourceTimeout:    cfg.Fetch.Timeout(),
		ContentThreshold: cfg.ContentFetch.Threshold,
	})

	// completion backend; a missing API key degrades to fallback summaries
	// and untranslated text instead of failing the run
	completer := initCompleter(logger, cfg)

	translator := translate.New(completer, cfg.Language, translate.DefaultConfig())
	summarizer := digest.New(completer, translator, cfg.Language)

	sink, err := initSink(logger, cfg, *dryRun, *outPath)
	if err != nil {
		logger.Error("failed to initialize delivery", slog.Any("error", err))
		os.Exit(1)
	}

	p := pipeline.New(cfg, ingestor, translator, summarizer, sink)
	if cfg.Discovery.Enabled {
		p = p.WithDiscoverer(discovery.New(rss, discovery.Config{
			MaxNewPerRun: cfg.Discovery.MaxNewPerRun,
			Validate:     cfg.Discovery.ValidateFeeds,
		}))
	}

	res, err := p.Run(ctx, pipeline.Options{
		DryRun:   *dryRun,
		Force:    *force,
		Lookback: *since,
	})
	pushMetrics(ctx, logger, cfg)
	if err != nil {
		logger.Error("digest run failed",
			slog.String("run_id", res.RunID),
			slog.Any("error", err))
		os.Exit(1)
	}

	fmt.Printf("%s: %s (fetched %d, kept %d, %d sources failed, %s)\n",
		res.Status, res.Message, res.ArticlesFetched, res.ArticlesKept,
		res.SourcesFailed, res.Duration.Round(time.Millisecond))
}

// pushMetrics delivers this run's samples to the configured Pushgateway.
// The binary exits right after, so pushing is the only way samples survive;
// a failed push is logged, never fatal.
func pushMetrics(ctx context.Context, logger *slog.Logger, cfg *config.Config) {
	if cfg.Metrics.PushgatewayURL == "" {
		return
	}
	if err := metrics.Push(ctx, cfg.Metrics.PushgatewayURL, cfg.Metrics.Job); err != nil {
		logger.Warn("failed to push run metrics", slog.Any("error", err))
		return
	}
	logger.Info("run metrics pushed",
		slog.String("pushgateway", cfg.Metrics.PushgatewayURL))
}

// initLogger selects JSON logs for normal operation and human-readable text
// for dry runs.
func initLogger(dryRun bool) *slog.Logger {
	var logger *slog.Logger
	if dryRun {
		logger = logging.NewTextLogger()
	} else {
		logger = logging.NewLogger()
	}
	slog.SetDefault(logger)
	return logger
}

// initCompleter builds the configured completion backend. A missing API key
// is reported and returns nil, which downstream stages treat as "language
// features unavailable".
func initCompleter(logger *slog.Logger, cfg *config.Config) llm.Completer {
	completer, err := llm.NewCompleter(cfg.Provider, cfg.Model())
	if err != nil {
		logger.Warn("completion backend unavailable, summaries and translation degrade to fallbacks",
			slog.String("provider", cfg.Provider),
			slog.Any("error", err))
		return nil
	}
	return completer
}

// initSink picks the delivery target: a local file for dry runs or an
// explicit output path, SMTP otherwise.
func initSink(logger *slog.Logger, cfg *config.Config, dryRun bool, outPath string) (pipeline.Sink, error) {
	if dryRun || outPath != "" {
		path := outPath
		if path == "" {
			path = "digest.html"
		}
		logger.Info("delivering digest to file", slog.String("path", path))
		return mailer.FileSink{Path: path}, nil
	}

	smtp, err := mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host:      cfg.Email.Host,
		Port:      cfg.Email.Port,
		Password:  os.Getenv("SMTP_PASSWORD"),
		Sender:    cfg.Email.Sender,
		Recipient: cfg.Email.Recipient,
	})
	if err != nil {
		return nil, err
	}
	return smtp, nil
}
