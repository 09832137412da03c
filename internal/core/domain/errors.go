package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown storage backend or setting.
	ErrUnsupportedType = errors.New("unsupported type")

	// Feed Errors.

	// ErrFeedUnavailable indicates the asset feed could not be reached
	// or returned an unusable response.
	ErrFeedUnavailable = errors.New("asset feed unavailable")

	// ErrRateLimited indicates the feed's rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// Storage Errors.

	// ErrCorruptRecord indicates a durable record exists but cannot be decoded.
	// The selection store recovers from it by starting empty.
	ErrCorruptRecord = errors.New("corrupt record")

	// ErrStorageUnavailable indicates the durable store cannot be written.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
