package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techwatch/internal/config"
	"techwatch/internal/domain/entity"
)

const validConfig = `
language: French
provider: claude
max_articles_per_category: 5
sources:
  - name: TechCrunch
    url: https://techcrunch.com/feed/
    category: Tech
  - name: Hacker News
    url: https://news.ycombinator.com/rss
    category: Dev
email:
  recipient: reader@example.com
  smtp_host: smtp.example.com
  smtp_port: 587
  sender: digest@example.com
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, "French", cfg.Language)
	assert.Equal(t, "claude", cfg.Provider)
	assert.Equal(t, 5, cfg.MaxArticlesPerCategory)
	assert.Len(t, cfg.Sources, 2)
	assert.Equal(t, "Tech", cfg.Sources[0].Category)
	assert.Equal(t, config.DefaultClaudeModel, cfg.Model())
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, `
sources:
  - name: Only
    url: https://example.com/feed
    category: Tech
`))
	require.NoError(t, err)

	assert.Equal(t, config.DefaultLanguage, cfg.Language)
	assert.Equal(t, config.DefaultProvider, cfg.Provider)
	assert.Equal(t, config.DefaultCategoryCap, cfg.MaxArticlesPerCategory)
	assert.Equal(t, config.DefaultFetchWorkers, cfg.Fetch.Parallelism)
	assert.Equal(t, config.DefaultFetchTimeout, cfg.Fetch.Timeout())
}

func TestLoadMetricsSection(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, validConfig+`
metrics:
  pushgateway_url: http://pushgw.internal:9091
  job: nightly_digest
`))
	require.NoError(t, err)

	assert.Equal(t, "http://pushgw.internal:9091", cfg.Metrics.PushgatewayURL)
	assert.Equal(t, "nightly_digest", cfg.Metrics.Job)

	// absent section means the push stays disabled
	cfg, err = config.Load(writeConfig(t, validConfig))
	require.NoError(t, err)
	assert.Empty(t, cfg.Metrics.PushgatewayURL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	_, err := config.Load(writeConfig(t, "sources: [unclosed"))
	require.Error(t, err)
}

func TestLoadNoSourcesIsFatal(t *testing.T) {
	_, err := config.Load(writeConfig(t, "language: French\nsources: []\n"))
	require.ErrorIs(t, err, entity.ErrNoSources)
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	_, err := config.Load(writeConfig(t, `
provider: gemini
sources:
  - url: https://example.com/feed
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestLoadDiscardsCorruptLastExecution(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, `
last_execution: "not-a-timestamp"
sources:
  - url: https://example.com/feed
`))
	require.NoError(t, err, "corrupt last_execution must fail open, not fatal")

	_, ok := cfg.LastExecutionTime()
	assert.False(t, ok)
}

func TestLastExecutionRoundTrip(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	_, ok := cfg.LastExecutionTime()
	require.False(t, ok, "fresh config should have no last execution")

	now := time.Date(2026, 8, 29, 6, 30, 0, 0, time.UTC)
	cfg.SetLastExecution(now)

	got, ok := cfg.LastExecutionTime()
	require.True(t, ok)
	assert.True(t, got.Equal(now))
}

func TestSaveRoundTrip(t *testing.T) {
	path := writeConfig(t, validConfig)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	cfg.SetLastExecution(time.Date(2026, 8, 29, 7, 0, 0, 0, time.UTC))
	require.NoError(t, cfg.Save())

	reloaded, err := config.Load(path)
	require.NoError(t, err)

	got, ok := reloaded.LastExecutionTime()
	require.True(t, ok)
	assert.Equal(t, "2026-08-29T07:00:00Z", got.Format(time.RFC3339))
	assert.Len(t, reloaded.Sources, 2, "save must preserve sources")
}

func TestAddSource(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	added := cfg.AddSource(entity.Source{Name: "New", URL: "https://new.example.com/rss", Category: "AI"})
	assert.True(t, added)
	assert.Len(t, cfg.Sources, 3)

	dup := cfg.AddSource(entity.Source{Name: "Dup", URL: "https://techcrunch.com/feed/", Category: "Tech"})
	assert.False(t, dup, "already-configured URL must not be added twice")
	assert.Len(t, cfg.Sources, 3)
}
