package domain

import "errors"

var (
	// ErrEmptyQuery is a caller error: the query text is empty after
	// trimming. Rejected before any embedding call is made.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrNotFound means the requested listing does not exist in the store.
	ErrNotFound = errors.New("listing not found")

	// ErrStoreUnavailable means the listing store cannot be reached.
	ErrStoreUnavailable = errors.New("listing store unavailable")

	// ErrProviderUnavailable means the embedding provider could not be
	// reached or refused the request. Not retried at this layer.
	ErrProviderUnavailable = errors.New("embedding provider unavailable")

	// ErrProviderRateLimited means the embedding provider rejected the
	// request with a rate limit. Not retried at this layer.
	ErrProviderRateLimited = errors.New("embedding provider rate limited")

	// ErrProviderMalformedResponse means the provider answered but the
	// response carried no usable embedding payload.
	ErrProviderMalformedResponse = errors.New("embedding provider returned malformed response")

	// ErrIndexUnavailable means the vector index artifacts are missing,
	// unreadable, or inconsistent with each other or the configuration.
	ErrIndexUnavailable = errors.New("vector index unavailable")

	// ErrDimensionMismatch means a vector's dimension does not match the
	// dimension the index was built with. This is a configuration error,
	// not a soft per-request failure.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)
