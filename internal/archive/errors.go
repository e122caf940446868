package archive

import "errors"

var (
	// ErrUnsupportedFormat indicates the extension is not zip, rar, or 7z.
	ErrUnsupportedFormat = errors.New("unsupported archive format")
	// ErrCorruptArchive indicates the container failed to decode.
	ErrCorruptArchive = errors.New("archive is corrupt or unreadable")
)
