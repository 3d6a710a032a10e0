package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRefreshInProgress indicates a cache refresh is already running.
	ErrRefreshInProgress = errors.New("refresh in progress")

	// ErrProviderUnavailable indicates the protocol data provider could
	// not be reached. Lookups degrade to the last-known-good snapshot.
	ErrProviderUnavailable = errors.New("data provider unavailable")

	// ErrEmptyTrendingList indicates the provider returned no protocols.
	// Treated as an attempt failure, eligible for retry.
	ErrEmptyTrendingList = errors.New("provider returned empty protocol list")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Answer generation is disabled; raw context is shown instead.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrRateLimited indicates the provider rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
