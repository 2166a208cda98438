// Package config loads, validates, and persists the pipeline configuration.
// The configuration lives in a single YAML file; secrets (API keys, SMTP
// password) are taken from environment variables and never written to disk.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"techwatch/internal/domain/entity"
)

// Defaults applied when the config file leaves a field empty. Invalid values
// fall back with a warning instead of failing the run.
const (
	DefaultLanguage     = "French"
	DefaultProvider     = "claude"
	DefaultClaudeModel  = "claude-opus-4-1-20250805"
	DefaultOpenAIModel  = "gpt-3.5-turbo"
	DefaultCategoryCap  = 5
	DefaultFetchTimeout = 10 * time.Second
	DefaultFetchWorkers = 5
	MaxFetchWorkers     = 32
)

// Config is the full on-disk configuration for a pipeline run.
type Config struct {
	// Language is the target language name for translations (e.g. "French").
	Language string `yaml:"language"`

	// Provider selects the LLM backend: "claude" or "openai".
	Provider string `yaml:"provider"`

	// Models maps provider name to model identifier.
	Models map[string]string `yaml:"models,omitempty"`

	// MaxArticlesPerCategory bounds surviving articles per category (>= 1).
	MaxArticlesPerCategory int `yaml:"max_articles_per_category"`

	// LastExecution is the RFC 3339 timestamp of the last successful run.
	// Empty on first run.
	LastExecution string `yaml:"last_execution,omitempty"`

	// Sources is the list of feeds to ingest.
	Sources []entity.Source `yaml:"sources"`

	// Email configures the SMTP delivery sink.
	Email EmailConfig `yaml:"email"`

	// Fetch tunes the ingestion fan-out.
	Fetch FetchConfig `yaml:"fetch,omitempty"`

	// Discovery configures automatic feed discovery.
	Discovery DiscoveryConfig `yaml:"discovery,omitempty"`

	// ContentFetch configures full-article content enhancement.
	ContentFetch ContentFetchConfig `yaml:"content_fetch,omitempty"`

	// Metrics configures the run-end metrics push.
	Metrics MetricsConfig `yaml:"metrics,omitempty"`

	path string
}

// EmailConfig holds the SMTP delivery settings. The password comes from the
// SMTP_PASSWORD environment variable, not from this file.
type EmailConfig struct {
	Recipient string `yaml:"recipient"`
	Host      string `yaml:"smtp_host"`
	Port      int    `yaml:"smtp_port"`
	Sender    string `yaml:"sender"`
}

// FetchConfig tunes the per-source fetch fan-out.
type FetchConfig struct {
	// TimeoutSeconds is the independent timeout for each source fetch.
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty"`

	// Parallelism bounds the number of concurrent source fetches.
	Parallelism int `yaml:"parallelism,omitempty"`
}

// Timeout returns the per-source fetch timeout.
func (f FetchConfig) Timeout() time.Duration {
	if f.TimeoutSeconds <= 0 {
		return DefaultFetchTimeout
	}
	return time.Duration(f.TimeoutSeconds) * time.Second
}

// DiscoveryConfig configures the feed discovery pass.
type DiscoveryConfig struct {
	Enabled       bool `yaml:"enabled"`
	MaxNewPerRun  int  `yaml:"max_new_feeds_per_run,omitempty"`
	ValidateFeeds bool `yaml:"validate_feeds"`
	AutoAdd       bool `yaml:"auto_add_feeds"`
}

// MetricsConfig configures the Pushgateway sink for run metrics. The digest
// binary is short-lived, so samples are pushed at run end instead of being
// scraped. An empty URL disables the push.
type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgateway_url,omitempty"`
	Job            string `yaml:"job,omitempty"`
}

// ContentFetchConfig configures full-article content enhancement for
// feeds whose entry summaries are too thin to curate.
type ContentFetchConfig struct {
	Enabled     bool `yaml:"enabled"`
	Threshold   int  `yaml:"threshold,omitempty"`
	Parallelism int  `yaml:"parallelism,omitempty"`
}

// Load reads and validates the configuration file at path.
// Missing optional fields are filled with defaults; an unreadable file,
// malformed YAML, or a config without sources is a fatal error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is operator-supplied
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.path = path

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return &cfg, nil
}

// applyDefaults fills empty optional fields and repairs out-of-range values
// with a warning (fail-open, matching the rest of the configuration layer).
func (c *Config) applyDefaults() {
	if c.Language == "" {
		c.Language = DefaultLanguage
	}
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.Models == nil {
		c.Models = map[string]string{}
	}
	if c.Models["claude"] == "" {
		c.Models["claude"] = DefaultClaudeModel
	}
	if c.Models["openai"] == "" {
		c.Models["openai"] = DefaultOpenAIModel
	}
	if c.MaxArticlesPerCategory < 1 {
		if c.MaxArticlesPerCategory != 0 {
			slog.Warn("max_articles_per_category out of range, using default",
				slog.Int("value", c.MaxArticlesPerCategory),
				slog.Int("default", DefaultCategoryCap))
		}
		c.MaxArticlesPerCategory = DefaultCategoryCap
	}
	if c.Fetch.Parallelism < 1 || c.Fetch.Parallelism > MaxFetchWorkers {
		if c.Fetch.Parallelism != 0 {
			slog.Warn("fetch parallelism out of range, using default",
				slog.Int("value", c.Fetch.Parallelism),
				slog.Int("default", DefaultFetchWorkers))
		}
		c.Fetch.Parallelism = DefaultFetchWorkers
	}
	if c.Discovery.MaxNewPerRun < 1 {
		c.Discovery.MaxNewPerRun = 2
	}
	if c.ContentFetch.Threshold < 1 {
		c.ContentFetch.Threshold = 120
	}
	if c.ContentFetch.Parallelism < 1 {
		c.ContentFetch.Parallelism = 5
	}
}

// Validate checks the loaded configuration. A config without any valid feed
// source is unusable and treated as a run-level failure.
func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return entity.ErrNoSources
	}
	for i := range c.Sources {
		if err := c.Sources[i].Validate(); err != nil {
			return fmt.Errorf("source %d (%s): %w", i, c.Sources[i].DisplayName(), err)
		}
	}
	if c.Provider != "claude" && c.Provider != "openai" {
		return fmt.Errorf("unknown provider %q (must be claude or openai)", c.Provider)
	}
	if c.LastExecution != "" {
		if _, err := time.Parse(time.RFC3339, c.LastExecution); err != nil {
			// Fail open: a corrupt timestamp must not kill the run, it only
			// disables recency filtering for this execution.
			slog.Warn("unparseable last_execution timestamp, ignoring",
				slog.String("value", c.LastExecution),
				slog.Any("error", err))
			c.LastExecution = ""
		}
	}
	return nil
}

// Model returns the configured model identifier for the active provider.
func (c *Config) Model() string {
	return c.Models[c.Provider]
}

// LastExecutionTime returns the recorded last successful run timestamp.
// ok is false on first run (or after a corrupt timestamp was discarded).
func (c *Config) LastExecutionTime() (time.Time, bool) {
	if c.LastExecution == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, c.LastExecution)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// SetLastExecution records t as the last successful run timestamp.
func (c *Config) SetLastExecution(t time.Time) {
	c.LastExecution = t.UTC().Format(time.RFC3339)
}

// AddSource appends a newly discovered feed unless its URL is already
// configured. Reports whether the source was added.
func (c *Config) AddSource(src entity.Source) bool {
	for i := range c.Sources {
		if c.Sources[i].URL == src.URL {
			return false
		}
	}
	c.Sources = append(c.Sources, src)
	return true
}

// Save writes the configuration back to its file atomically
// (temp file in the same directory, then rename).
func (c *Config) Save() error {
	if c.path == "" {
		return fmt.Errorf("config has no backing file")
	}
	return c.SaveTo(c.path)
}

// SaveTo writes the configuration to the given path atomically.
func (c *Config) SaveTo(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".config-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp config: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace config %s: %w", path, err)
	}
	return nil
}
