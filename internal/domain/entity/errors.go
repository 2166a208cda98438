package entity

import "errors"

// Domain-level sentinel errors shared across use cases.
var (
	// ErrEmptyFeedURL indicates a source configuration without a feed URL.
	ErrEmptyFeedURL = errors.New("feed url is empty")

	// ErrNoSources indicates a configuration with no feed sources at all.
	// This is a fatal, run-level failure.
	ErrNoSources = errors.New("no feed sources configured")
)
