package entity

import (
	"fmt"
	"net/url"
)

// Source represents a configured RSS/Atom feed endpoint with its display
// name and category label. Sources are owned by configuration and are
// read-only to the pipeline.
type Source struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Category string `yaml:"category"`
}

// Validate validates the Source entity fields.
// A source needs an absolute http(s) URL; the name and category may be empty
// (the pipeline substitutes display defaults).
func (s *Source) Validate() error {
	if s.URL == "" {
		return ErrEmptyFeedURL
	}

	u, err := url.Parse(s.URL)
	if err != nil {
		return fmt.Errorf("invalid feed url %q: %w", s.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid feed url %q: scheme must be http or https", s.URL)
	}

	return nil
}

// DisplayName returns the configured name, falling back to the URL host when
// no name was given.
func (s *Source) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	if u, err := url.Parse(s.URL); err == nil && u.Host != "" {
		return u.Host
	}
	return "Unknown"
}
