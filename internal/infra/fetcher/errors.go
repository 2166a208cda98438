package fetcher

import "errors"

// Sentinel errors for content fetching. Callers treat all of them as
// non-fatal: a failed enhancement falls back to the feed's own summary.
var (
	ErrInvalidURL       = errors.New("invalid url")
	ErrPrivateIP        = errors.New("url resolves to private ip")
	ErrTimeout          = errors.New("content fetch timed out")
	ErrBodyTooLarge     = errors.New("response body too large")
	ErrTooManyRedirects = errors.New("too many redirects")
	ErrExtractionFailed = errors.New("content extraction failed")
)
