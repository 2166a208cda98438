package digest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techwatch/internal/domain/entity"
)

type fakeCompleter struct {
	out     string
	err     error
	prompts []string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string, _ int) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.out, nil
}

type fakeTranslator struct {
	prefix string
	calls  int
}

func (f *fakeTranslator) TranslateText(_ context.Context, source string) string {
	f.calls++
	return f.prefix + source
}

func day(d int) time.Time {
	return time.Date(2025, 3, d, 12, 0, 0, 0, time.UTC)
}

func TestGroupByCategoryAlphabeticalNewestFirst(t *testing.T) {
	articles := []entity.Article{
		{Title: "old security", Category: "Security", PublishedAt: day(1)},
		{Title: "ai one", Category: "AI", PublishedAt: day(2)},
		{Title: "new security", Category: "Security", PublishedAt: day(5)},
		{Title: "ai two", Category: "AI", PublishedAt: day(4)},
	}

	groups := GroupByCategory(articles)

	require.Len(t, groups, 2)
	assert.Equal(t, "AI", groups[0].Category)
	assert.Equal(t, "Security", groups[1].Category)

	assert.Equal(t, "ai two", groups[0].Articles[0].Title)
	assert.Equal(t, "ai one", groups[0].Articles[1].Title)
	assert.Equal(t, "new security", groups[1].Articles[0].Title)
	assert.Equal(t, "old security", groups[1].Articles[1].Title)
}

func TestGroupByCategoryEmptyCategoryFallsBack(t *testing.T) {
	groups := GroupByCategory([]entity.Article{
		{Title: "uncategorized", PublishedAt: day(1)},
	})

	require.Len(t, groups, 1)
	assert.Equal(t, entity.DefaultCategory, groups[0].Category)
}

func TestGroupByCategoryStableOnEqualTimestamps(t *testing.T) {
	articles := []entity.Article{
		{Title: "first", Category: "AI", PublishedAt: day(3)},
		{Title: "second", Category: "AI", PublishedAt: day(3)},
		{Title: "third", Category: "AI", PublishedAt: day(3)},
	}

	groups := GroupByCategory(articles)

	require.Len(t, groups, 1)
	assert.Equal(t, "first", groups[0].Articles[0].Title)
	assert.Equal(t, "second", groups[0].Articles[1].Title)
	assert.Equal(t, "third", groups[0].Articles[2].Title)
}

func TestSummarizeGenerative(t *testing.T) {
	backend := &fakeCompleter{out: "Vendors shipped faster runtimes this week. Expect lower infra bills."}
	svc := New(backend, nil, "English")

	groups := []entity.CategoryGroup{{
		Category: "DevOps",
		Articles: []entity.Article{
			{Title: "Runtime v2 released", Description: "The new runtime halves cold start times", PublishedAt: day(2)},
		},
	}}

	got := svc.Summarize(context.Background(), groups)

	require.Len(t, got, 1)
	assert.Equal(t, backend.out, got[0].Summary)
	require.Len(t, backend.prompts, 1)
	assert.Contains(t, backend.prompts[0], "DevOps")
	assert.Contains(t, backend.prompts[0], "Runtime v2 released")
}

func TestSummarizePromptSamplesTopThree(t *testing.T) {
	backend := &fakeCompleter{out: "summary"}
	svc := New(backend, nil, "English")

	groups := []entity.CategoryGroup{{
		Category: "AI",
		Articles: []entity.Article{
			{Title: "one", Description: "d1"},
			{Title: "two", Description: "d2"},
			{Title: "three", Description: "d3"},
			{Title: "four", Description: "d4"},
		},
	}}

	svc.Summarize(context.Background(), groups)

	require.Len(t, backend.prompts, 1)
	assert.Contains(t, backend.prompts[0], "three")
	assert.NotContains(t, backend.prompts[0], "four")
}

func TestSummarizeTranslatesWhenTargetNotEnglish(t *testing.T) {
	backend := &fakeCompleter{out: "Big week for databases."}
	translator := &fakeTranslator{prefix: "[fr] "}
	svc := New(backend, translator, "French")

	groups := []entity.CategoryGroup{{
		Category: "Databases",
		Articles: []entity.Article{{Title: "pg release", Description: "something"}},
	}}

	got := svc.Summarize(context.Background(), groups)

	assert.Equal(t, "[fr] Big week for databases.", got[0].Summary)
	assert.Equal(t, 1, translator.calls)
}

func TestSummarizeSkipsTranslationForEnglish(t *testing.T) {
	backend := &fakeCompleter{out: "English summary."}
	translator := &fakeTranslator{prefix: "[fr] "}
	svc := New(backend, translator, "English")

	groups := []entity.CategoryGroup{{
		Category: "AI",
		Articles: []entity.Article{{Title: "a", Description: "b"}},
	}}

	got := svc.Summarize(context.Background(), groups)

	assert.Equal(t, "English summary.", got[0].Summary)
	assert.Equal(t, 0, translator.calls)
}

func TestSummarizeFallsBackOnBackendError(t *testing.T) {
	backend := &fakeCompleter{err: errors.New("api down")}
	svc := New(backend, nil, "French")

	groups := []entity.CategoryGroup{{
		Category: "Security",
		Articles: []entity.Article{
			{Title: "CVE roundup", Description: "d"},
			{Title: "New scanner released", Description: "d"},
			{Title: "ignored third", Description: "d"},
		},
	}}

	got := svc.Summarize(context.Background(), groups)

	assert.Equal(t, "Key developments: CVE roundup • New scanner released", got[0].Summary)
}

func TestSummarizeNilBackendUsesFallback(t *testing.T) {
	svc := New(nil, nil, "French")

	groups := []entity.CategoryGroup{{
		Category: "AI",
		Articles: []entity.Article{{Title: "Model update", Description: "d"}},
	}}

	got := svc.Summarize(context.Background(), groups)

	assert.Equal(t, "Key developments: Model update", got[0].Summary)
}

func TestSummarizeEmptyGroup(t *testing.T) {
	svc := New(nil, nil, "French")

	got := svc.Summarize(context.Background(), []entity.CategoryGroup{{Category: "Empty"}})

	assert.Equal(t, "", got[0].Summary)
}

func TestFallbackSummaryTruncated(t *testing.T) {
	long := strings.Repeat("a", 300)
	got := FallbackSummary([]entity.Article{{Title: long}})

	assert.LessOrEqual(t, len([]rune(got)), 220)
	assert.True(t, strings.HasPrefix(got, "Key developments: "))
}

func TestFallbackSummarySkipsUntitled(t *testing.T) {
	got := FallbackSummary([]entity.Article{
		{Title: ""},
		{Title: "Real headline"},
	})

	assert.Equal(t, "Key developments: Real headline", got)
}
