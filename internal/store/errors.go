package store

import "errors"

// Sentinel errors shared by every store implementation. The service layer
// matches on these with errors.Is and translates them into its own taxonomy.
var (
	// ErrConflict: the write would double-book a provider's calendar.
	ErrConflict = errors.New("calendar conflict")

	// ErrNotFound: the row does not exist or is not visible to the caller.
	ErrNotFound = errors.New("not found")

	// ErrIdempotencyConflict: an idempotency key was replayed with a
	// different payload than the create it originally named.
	ErrIdempotencyConflict = errors.New("idempotency key conflict")
)
