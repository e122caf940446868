package convo

import (
	"fmt"
	"strings"

	"github.com/deskhandai/deskhand/internal/filetype"
)

const (
	visionHintFmt  = "Use the analyze_image_content tool with image_url %q to see what the image shows."
	archiveHintFmt = "Use the extract_and_analyze_archive tool with file_url %q to inspect the archive contents."
)

// Route derives the tool hint for an inbound message. The decision is a pure
// function of the declared kind and the classified attachment extension; the
// orchestration layer trusts this hint, not the model's own judgment.
func Route(msg Inbound) ToolHint {
	switch {
	case msg.Kind == KindImage && msg.FileURL != "":
		return ToolHint{
			MustUseVision: true,
			AugmentedText: augment(msg.Text,
				fmt.Sprintf(imageMarkerFmt, msg.FileURL),
				fmt.Sprintf(visionHintFmt, msg.FileURL)),
		}
	case msg.Kind == KindFile && msg.FileURL != "":
		switch filetype.Classify(msg.FileURL) {
		case filetype.KindArchive:
			return ToolHint{
				MustUseArchive: true,
				AugmentedText: augment(msg.Text,
					fmt.Sprintf(fileMarkerFmt, msg.FileURL),
					fmt.Sprintf(archiveHintFmt, msg.FileURL)),
			}
		case filetype.KindImage:
			return ToolHint{
				MustUseVision: true,
				AugmentedText: augment(msg.Text,
					fmt.Sprintf(imageMarkerFmt, msg.FileURL),
					fmt.Sprintf(visionHintFmt, msg.FileURL)),
			}
		default:
			return ToolHint{
				AugmentedText: augment(msg.Text, fmt.Sprintf(fileMarkerFmt, msg.FileURL)),
			}
		}
	default:
		return ToolHint{AugmentedText: msg.Text}
	}
}

func augment(text string, parts ...string) string {
	joined := strings.Join(parts, "\n")
	if strings.TrimSpace(text) == "" {
		return joined
	}
	return text + "\n\n" + joined
}
