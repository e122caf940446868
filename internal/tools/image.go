package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/deskhandai/deskhand/internal/fetch"
	"github.com/deskhandai/deskhand/internal/filetype"
	"github.com/deskhandai/deskhand/internal/vision"
)

const imageToolName = "analyze_image_content"

// ImageTool downloads an image attachment and describes what it shows.
type ImageTool struct {
	fetcher  *fetch.Fetcher
	analyzer *vision.Analyzer
	logger   *slog.Logger
}

func NewImageTool(log *slog.Logger, fetcher *fetch.Fetcher, analyzer *vision.Analyzer) *ImageTool {
	if log == nil {
		log = slog.Default()
	}
	return &ImageTool{
		fetcher:  fetcher,
		analyzer: analyzer,
		logger:   log.With(slog.String("service", "tools")),
	}
}

func (t *ImageTool) Name() string { return imageToolName }

func (t *ImageTool) Description() string {
	return "Download an image the user sent and describe its visual content. " +
		"Use this whenever the user asks about an attached image."
}

func (t *ImageTool) Parameters() map[string]any {
	return urlSchema("image_url", "URL or server path of the image to analyze")
}

func (t *ImageTool) Execute(ctx context.Context, args map[string]any) string {
	ref := ArgString(args, "image_url")
	if ref == "" {
		return "No image URL was provided, so there is nothing to analyze."
	}

	file, err := t.fetcher.Fetch(ctx, ref)
	if err != nil {
		return fetchFailureText("image", err)
	}
	defer file.Remove()

	if !filetype.IsImage(file.DeclaredExt) {
		return fmt.Sprintf("The file does not look like an image (extension %s), so it cannot be visually analyzed.", file.DeclaredExt)
	}

	var meta string
	if info, perr := vision.Probe(file.LocalPath); perr == nil {
		meta = fmt.Sprintf("The image is %dx%d pixels in %s format (%s).",
			info.Width, info.Height, strings.ToUpper(info.Format), fmtBytes(file.SizeBytes))
	}

	desc, err := t.analyzer.Analyze(ctx, file.LocalPath, "Describe in detail what this image shows.")
	if err != nil {
		t.logger.Warn("image analysis failed", slog.String("ref", ref), slog.Any("error", err))
		switch {
		case errors.Is(err, vision.ErrCorruptImage):
			return "The file could not be decoded as a valid image; it may be corrupt or mislabeled."
		case errors.Is(err, vision.ErrBackendUnavailable):
			if meta != "" {
				return meta + " Visual analysis is currently unavailable, so no content description can be given."
			}
			return "Visual analysis is currently unavailable, so the image content cannot be described."
		default:
			return "The image was downloaded but could not be analyzed due to an internal error."
		}
	}

	if meta != "" {
		return meta + "\n\n" + desc
	}
	return desc
}

func fetchFailureText(kind string, err error) string {
	switch {
	case errors.Is(err, fetch.ErrNotFound):
		return fmt.Sprintf("The %s could not be found on the server; it may have expired or been deleted.", kind)
	case errors.Is(err, fetch.ErrTooLarge):
		return fmt.Sprintf("The %s is too large to download for analysis.", kind)
	default:
		return fmt.Sprintf("The %s could not be downloaded due to a network problem.", kind)
	}
}
