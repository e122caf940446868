package convo

import "fmt"

// attachment markers are stable bracketed strings so downstream consumers can
// tell them apart from ordinary user text.
const (
	imageMarkerFmt = "[User sent an image: %s]"
	fileMarkerFmt  = "[User sent a file: %s]"
)

// AssembleHistory normalizes the raw history window into ordered turns ready
// for the model: malformed entries are skipped, attachment-bearing turns get
// a marker appended, a trailing duplicate of the current message is dropped,
// and the result is bounded to the most recent window entries.
func AssembleHistory(history []Turn, currentText string, window int) []Turn {
	// The upstream store appends the current message to the history before
	// the webhook fires; keep it out of the window so the model does not see
	// it twice.
	if n := len(history); n > 0 {
		last := history[n-1]
		if last.Role == RoleUser && currentText != "" && last.Content == currentText {
			history = history[:n-1]
		}
	}

	cleaned := make([]Turn, 0, len(history))
	for _, t := range history {
		if t.Role != RoleUser && t.Role != RoleAssistant {
			continue
		}
		if t.Content == "" && t.FileURL == "" {
			continue
		}
		content := t.Content
		if t.FileURL != "" {
			marker := attachmentMarker(t.Kind, t.FileURL)
			if content == "" {
				content = marker
			} else {
				content = content + "\n" + marker
			}
		}
		cleaned = append(cleaned, Turn{Role: t.Role, Content: content})
	}

	if window > 0 && len(cleaned) > window {
		cleaned = cleaned[len(cleaned)-window:]
	}
	return cleaned
}

func attachmentMarker(kind MessageKind, fileURL string) string {
	if kind == KindImage {
		return fmt.Sprintf(imageMarkerFmt, fileURL)
	}
	return fmt.Sprintf(fileMarkerFmt, fileURL)
}
