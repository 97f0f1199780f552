package models

import "errors"

// Error kinds surfaced by the core. Callers check with errors.Is; the core
// never formats user-facing messages.
var (
	// ErrNotFound: unknown card/word id. Not retryable.
	ErrNotFound = errors.New("not found")

	// ErrConflict: a concurrent grade on the same card is in flight. The
	// caller should reload the card and retry.
	ErrConflict = errors.New("concurrent modification")

	// ErrAuthRequired: a remote-touching call was made without a valid
	// session.
	ErrAuthRequired = errors.New("authentication required")

	// ErrValidation: malformed snapshot row, e.g. a dangling foreign key.
	// The whole batch is rejected.
	ErrValidation = errors.New("invalid snapshot")

	// ErrTransient: network or storage I/O failure during reconciliation.
	// Safe to retry wholesale since ingest is idempotent.
	ErrTransient = errors.New("transient failure")
)
