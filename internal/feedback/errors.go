package feedback

import "errors"

// Error taxonomy for the feedback core. Handlers translate these to HTTP
// statuses with errors.Is; richer context is layered on with fmt.Errorf and
// %w so the sentinel stays matchable.
var (
	// ErrNotFound means a referenced user, questionnaire or feedback
	// record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation covers self-feedback, actors without a position or
	// team, and malformed responses.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidTransition means the requested status change is not in
	// the transition table, or the record's status advanced concurrently.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrReviewerRequired means a transition into a review state was
	// attempted without a reviewer.
	ErrReviewerRequired = errors.New("reviewer required")

	// ErrConfigMissing means no weight config exists at all. Feedback
	// cannot be priced without one, so creation fails hard.
	ErrConfigMissing = errors.New("no weight configuration exists")

	// ErrStorageUnavailable wraps store timeouts and outages. The core
	// never retries; creation is not idempotent, so the caller decides.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
