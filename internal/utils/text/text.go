// Package text provides utilities for text processing and analysis.
// It includes reusable helpers for character counting, truncation, and
// markup stripping shared across the ingestion and digest stages.
package text

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CountRunes counts the number of Unicode characters (runes) in the given text.
// It correctly handles multi-byte characters (accented letters, CJK, emoji)
// by counting runes instead of bytes.
func CountRunes(text string) int {
	return len([]rune(text))
}

// Truncate returns text cut to at most limit runes. It never splits a rune.
func Truncate(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

// TruncateEllipsis behaves like Truncate but appends "..." whenever the text
// was actually shortened.
func TruncateEllipsis(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return strings.TrimSpace(string(runes[:limit])) + "..."
}

// StripHTML removes all markup from the given fragment and collapses runs of
// whitespace into single spaces. Feed entry summaries routinely arrive as
// HTML; downstream stages require plain text.
//
// When the fragment cannot be parsed at all the raw input is returned with
// whitespace collapsed, so a malformed entry never loses its text entirely.
func StripHTML(fragment string) string {
	if fragment == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return CollapseWhitespace(fragment)
	}

	return CollapseWhitespace(doc.Text())
}

// CollapseWhitespace trims the text and squeezes any run of whitespace
// (including newlines and tabs) down to a single space.
func CollapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
