package archive

import (
	"fmt"
	"strings"
)

const (
	// TruncationMarker is appended to text excerpts cut at the excerpt limit.
	TruncationMarker = "...(truncated at 1000 characters)"
	// EmptyArchiveText is the fixed result for archives with zero files.
	EmptyArchiveText = "The archive is empty: no files were found inside."

	maxTextShown   = 5
	maxImagesShown = 10
	maxOtherShown  = 10
)

// TextEntry is a text-like file with a bounded excerpt of its content.
type TextEntry struct {
	Name      string
	Excerpt   string
	Truncated bool
}

// ImageEntry is an image file with either a model description or a
// dimensions/format fallback in Detail.
type ImageEntry struct {
	Name      string
	Detail    string
	Described bool
}

// OtherEntry is any remaining file, recorded as metadata only.
type OtherEntry struct {
	Name      string
	SizeBytes int64
	Ext       string
	Binary    bool
}

// FailedEntry is a file that could not be processed. Failures fold into the
// "other" display section rather than aborting the inspection.
type FailedEntry struct {
	Name   string
	Reason string
}

// Summary is the bounded, categorized result of one archive inspection.
// TotalFileCount is always exact even when display sections are capped.
type Summary struct {
	TotalFileCount int
	SkippedEntries int
	TextEntries    []TextEntry
	ImageEntries   []ImageEntry
	OtherEntries   []OtherEntry
	FailedEntries  []FailedEntry
}

// Empty reports whether the archive contained no files at all.
func (s Summary) Empty() bool {
	return s.TotalFileCount == 0
}

// Render serializes the summary into the prose consumed by the orchestrator.
func (s Summary) Render() string {
	if s.Empty() {
		return EmptyArchiveText
	}

	var b strings.Builder
	b.WriteString("Archive contents:\n")
	fmt.Fprintf(&b, "Total files: %d\n", s.TotalFileCount)
	if s.SkippedEntries > 0 {
		fmt.Fprintf(&b, "Note: %d entries were skipped because they exceed extraction limits.\n", s.SkippedEntries)
	}

	if len(s.TextEntries) > 0 {
		fmt.Fprintf(&b, "\nText files (%d):\n", len(s.TextEntries))
		for i, e := range s.TextEntries {
			if i == maxTextShown {
				fmt.Fprintf(&b, "... and %d more text files not shown\n", len(s.TextEntries)-maxTextShown)
				break
			}
			fmt.Fprintf(&b, "- %s:\n%s", e.Name, e.Excerpt)
			if e.Truncated {
				b.WriteString(TruncationMarker)
			}
			b.WriteString("\n")
		}
	}

	if len(s.ImageEntries) > 0 {
		fmt.Fprintf(&b, "\nImages (%d):\n", len(s.ImageEntries))
		for i, e := range s.ImageEntries {
			if i == maxImagesShown {
				fmt.Fprintf(&b, "... and %d more images not shown\n", len(s.ImageEntries)-maxImagesShown)
				break
			}
			fmt.Fprintf(&b, "- %s: %s\n", e.Name, e.Detail)
		}
	}

	otherTotal := len(s.OtherEntries) + len(s.FailedEntries)
	if otherTotal > 0 {
		fmt.Fprintf(&b, "\nOther files (%d):\n", otherTotal)
		shown := 0
		for _, e := range s.OtherEntries {
			if shown == maxOtherShown {
				break
			}
			marker := ""
			if e.Binary {
				marker = " [binary]"
			}
			fmt.Fprintf(&b, "- %s (%d bytes, %s)%s\n", e.Name, e.SizeBytes, e.Ext, marker)
			shown++
		}
		for _, e := range s.FailedEntries {
			if shown == maxOtherShown {
				break
			}
			fmt.Fprintf(&b, "- %s: could not be processed (%s)\n", e.Name, e.Reason)
			shown++
		}
		if otherTotal > maxOtherShown {
			fmt.Fprintf(&b, "... and %d more files not shown\n", otherTotal-maxOtherShown)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
