package awards

import "errors"

var (
	// ErrLocked indicates the backend answered 429. The shared watchlist
	// row lock behind PUT watchlist clears quickly, so this class is
	// retried far more aggressively than ordinary failures.
	ErrLocked = errors.New("resource locked")

	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable indicates the backend could not be reached or kept
	// failing after all retry attempts.
	ErrUnavailable = errors.New("backend unavailable")
)
