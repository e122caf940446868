package vision

import "errors"

var (
	// ErrCorruptImage indicates the file does not decode as a well-formed image.
	ErrCorruptImage = errors.New("image file is corrupt or not a supported format")
	// ErrBackendUnavailable indicates the vision backend failed at boot or the
	// remote call failed. Terminal for the call, never retried.
	ErrBackendUnavailable = errors.New("vision backend unavailable")
)
