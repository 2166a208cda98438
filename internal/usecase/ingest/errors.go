package ingest

import (
	"context"
	"errors"
	"net"
	"syscall"

	"github.com/mmcdole/gofeed"
)

// ErrorKind classifies a per-source fetch failure for reporting and metrics.
type ErrorKind string

const (
	ErrorKindTimeout    ErrorKind = "timeout"
	ErrorKindConnection ErrorKind = "connection"
	ErrorKindHTTPStatus ErrorKind = "http_status"
	ErrorKindParse      ErrorKind = "parse"
)

// SourceError records one source's fetch failure. Per-source errors are
// collected, never raised: a failing feed must not abort the run.
type SourceError struct {
	Source string
	Kind   ErrorKind
	Err    error
}

// Error implements the error interface.
func (e SourceError) Error() string {
	return string(e.Kind) + " fetching " + e.Source + ": " + e.Err.Error()
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e SourceError) Unwrap() error {
	return e.Err
}

// classifyFetchError maps a fetch failure to its ErrorKind.
func classifyFetchError(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorKindTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrorKindTimeout
	}

	var httpErr gofeed.HTTPError
	if errors.As(err, &httpErr) {
		return ErrorKindHTTPStatus
	}

	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ENETUNREACH) {
		return ErrorKindConnection
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ErrorKindConnection
	}

	// Anything else came from the feed body itself.
	return ErrorKindParse
}
