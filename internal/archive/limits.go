package archive

const (
	// DefaultMaxTotalBytes caps the total extracted size per archive.
	DefaultMaxTotalBytes int64 = 256 * 1024 * 1024
	// DefaultMaxEntryBytes caps a single extracted entry.
	DefaultMaxEntryBytes int64 = 32 * 1024 * 1024
	// DefaultMaxEntries caps the number of extracted entries.
	DefaultMaxEntries = 4096
	// DefaultMaxDepth caps directory nesting inside the archive.
	DefaultMaxDepth = 16
)

// Limits bounds extraction of untrusted archives. Entries over a limit are
// skipped and counted, not fatal: inspection still produces a summary.
type Limits struct {
	MaxTotalBytes int64
	MaxEntryBytes int64
	MaxEntries    int
	MaxDepth      int
}

// DefaultLimits returns the built-in extraction bounds.
func DefaultLimits() Limits {
	return Limits{
		MaxTotalBytes: DefaultMaxTotalBytes,
		MaxEntryBytes: DefaultMaxEntryBytes,
		MaxEntries:    DefaultMaxEntries,
		MaxDepth:      DefaultMaxDepth,
	}
}

func (l Limits) normalized() Limits {
	if l.MaxTotalBytes <= 0 {
		l.MaxTotalBytes = DefaultMaxTotalBytes
	}
	if l.MaxEntryBytes <= 0 {
		l.MaxEntryBytes = DefaultMaxEntryBytes
	}
	if l.MaxEntries <= 0 {
		l.MaxEntries = DefaultMaxEntries
	}
	if l.MaxDepth <= 0 {
		l.MaxDepth = DefaultMaxDepth
	}
	return l
}
