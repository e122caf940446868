package fetch

import "errors"

var (
	// ErrNotFound indicates the upstream returned 404 for the reference.
	ErrNotFound = errors.New("file not found upstream")
	// ErrNetwork indicates a transport failure or non-2xx upstream status.
	ErrNetwork = errors.New("file retrieval failed")
	// ErrTooLarge indicates the payload exceeds the configured fetch limit.
	ErrTooLarge = errors.New("file too large")
)
