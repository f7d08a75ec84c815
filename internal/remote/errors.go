package remote

import "errors"

var (
	// ErrUnavailable indicates the platform could not be reached.
	ErrUnavailable = errors.New("remote platform unavailable")

	// ErrTimeout indicates a request exceeded the configured timeout.
	ErrTimeout = errors.New("remote request timed out")

	// ErrUnauthorized indicates a missing or rejected token.
	ErrUnauthorized = errors.New("remote request unauthorized")

	ErrNotFound = errors.New("remote object not found")
)
