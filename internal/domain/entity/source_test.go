package entity_test

import (
	"errors"
	"testing"

	"techwatch/internal/domain/entity"
)

func TestSourceValidate(t *testing.T) {
	tests := []struct {
		name    string
		source  entity.Source
		wantErr bool
	}{
		{
			name:    "valid https source",
			source:  entity.Source{Name: "TechCrunch", URL: "https://techcrunch.com/feed/", Category: "Tech"},
			wantErr: false,
		},
		{
			name:    "valid http source",
			source:  entity.Source{Name: "Legacy", URL: "http://example.com/rss"},
			wantErr: false,
		},
		{
			name:    "empty url",
			source:  entity.Source{Name: "Broken"},
			wantErr: true,
		},
		{
			name:    "non-http scheme",
			source:  entity.Source{Name: "File", URL: "file:///etc/passwd"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.source.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSourceValidateEmptyURLSentinel(t *testing.T) {
	s := entity.Source{Name: "NoURL"}
	if err := s.Validate(); !errors.Is(err, entity.ErrEmptyFeedURL) {
		t.Errorf("Validate() = %v, want ErrEmptyFeedURL", err)
	}
}

func TestSourceDisplayName(t *testing.T) {
	tests := []struct {
		name   string
		source entity.Source
		want   string
	}{
		{"configured name wins", entity.Source{Name: "Ars Technica", URL: "https://arstechnica.com/feed/"}, "Ars Technica"},
		{"falls back to host", entity.Source{URL: "https://arstechnica.com/feed/"}, "arstechnica.com"},
		{"unknown when nothing usable", entity.Source{}, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.source.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}
