package fetcher

import (
	"fmt"
	"time"
)

// Config controls the security and resource limits of full-article fetching.
type Config struct {
	// Timeout bounds a single HTTP request.
	Timeout time.Duration

	// MaxBodySize rejects responses larger than this many bytes. The limit
	// is enforced while reading, not from the Content-Length header.
	MaxBodySize int64

	// MaxRedirects bounds the redirect chain. Every redirect target is
	// re-validated before being followed.
	MaxRedirects int

	// DenyPrivateIPs rejects URLs whose hostname resolves to loopback,
	// private, or link-local addresses. Keep enabled outside of tests.
	DenyPrivateIPs bool
}

// DefaultConfig returns production-ready limits for article fetching.
func DefaultConfig() Config {
	return Config{
		Timeout:        10 * time.Second,
		MaxBodySize:    10 * 1024 * 1024,
		MaxRedirects:   5,
		DenyPrivateIPs: true,
	}
}

// Validate checks the configured limits.
func (c Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}

	const (
		minBodySize = int64(1024)
		maxBodySize = int64(100 * 1024 * 1024)
	)
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d",
			minBodySize, maxBodySize, c.MaxBodySize)
	}

	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}

	return nil
}
