package apperr

import "errors"

// Error kinds recognized by the API layer. Callers classify failures with
// errors.Is and wrap them with fmt.Errorf("...: %w", kind) to add detail.
var (
	// ErrConfiguration means required input data is missing or empty.
	// Fatal at startup, never retried.
	ErrConfiguration = errors.New("configuration error")

	// ErrInsufficientData means the user has no liked items to build a
	// profile from. Recoverable; surfaced as a request-level failure.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrValidation means malformed input, such as a blank user name.
	ErrValidation = errors.New("validation error")

	// ErrNotFound means an unknown user id.
	ErrNotFound = errors.New("not found")
)
