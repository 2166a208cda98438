package text_test

import (
	"testing"

	"techwatch/internal/utils/text"
)

func TestCountRunes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{name: "ASCII text", input: "hello", expected: 5},
		{name: "accented text", input: "résumé", expected: 6},
		{name: "mixed text", input: "hello世界", expected: 7},
		{name: "empty string", input: "", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := text.CountRunes(tt.input); got != tt.expected {
				t.Errorf("CountRunes(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		limit int
		want  string
	}{
		{"shorter than limit", "short", 300, "short"},
		{"exactly at limit", "abc", 3, "abc"},
		{"longer than limit", "abcdef", 3, "abc"},
		{"multibyte not split", "héllo", 2, "hé"},
		{"zero limit", "abc", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := text.Truncate(tt.input, tt.limit); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.limit, got, tt.want)
			}
		})
	}
}

func TestTruncateEllipsis(t *testing.T) {
	if got := text.TruncateEllipsis("hello world", 5); got != "hello..." {
		t.Errorf("TruncateEllipsis() = %q, want %q", got, "hello...")
	}
	if got := text.TruncateEllipsis("hi", 5); got != "hi" {
		t.Errorf("TruncateEllipsis() = %q, want unchanged input", got)
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "simple tags",
			input: "<p>Hello <b>world</b></p>",
			want:  "Hello world",
		},
		{
			name:  "nested markup and whitespace",
			input: "<div>\n  <p>First   line</p>\n  <p>Second line</p>\n</div>",
			want:  "First line Second line",
		},
		{
			name:  "plain text passes through",
			input: "no markup here",
			want:  "no markup here",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "unclosed tag tolerated",
			input: "<p>truncated summary <a href=\"x\">link",
			want:  "truncated summary link",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := text.StripHTML(tt.input); got != tt.want {
				t.Errorf("StripHTML(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
