package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/deskhandai/deskhand/internal/archive"
	"github.com/deskhandai/deskhand/internal/fetch"
	"github.com/deskhandai/deskhand/internal/filetype"
)

const archiveToolName = "extract_and_analyze_archive"

// ArchiveTool downloads an archive attachment, extracts it into scratch
// storage and reports a categorized summary of its contents.
type ArchiveTool struct {
	fetcher   *fetch.Fetcher
	inspector *archive.Inspector
	logger    *slog.Logger
}

func NewArchiveTool(log *slog.Logger, fetcher *fetch.Fetcher, inspector *archive.Inspector) *ArchiveTool {
	if log == nil {
		log = slog.Default()
	}
	return &ArchiveTool{
		fetcher:   fetcher,
		inspector: inspector,
		logger:    log.With(slog.String("service", "tools")),
	}
}

func (t *ArchiveTool) Name() string { return archiveToolName }

func (t *ArchiveTool) Description() string {
	return "Download a compressed archive (zip, rar or 7z) the user sent, extract it " +
		"and summarize the files inside. Use this whenever the user asks about an attached archive."
}

func (t *ArchiveTool) Parameters() map[string]any {
	return urlSchema("file_url", "URL or server path of the archive to extract and analyze")
}

func (t *ArchiveTool) Execute(ctx context.Context, args map[string]any) string {
	ref := ArgString(args, "file_url")
	if ref == "" {
		return "No archive URL was provided, so there is nothing to extract."
	}

	file, err := t.fetcher.Fetch(ctx, ref)
	if err != nil {
		return fetchFailureText("archive", err)
	}
	defer file.Remove()

	if !filetype.IsArchive(file.DeclaredExt) {
		return fmt.Sprintf("The file does not look like a supported archive (extension %s); only zip, rar and 7z are handled.", file.DeclaredExt)
	}

	summary, err := t.inspector.Inspect(ctx, file.LocalPath, file.DeclaredExt)
	if err != nil {
		t.logger.Warn("archive inspection failed", slog.String("ref", ref), slog.Any("error", err))
		switch {
		case errors.Is(err, archive.ErrCorruptArchive):
			return "The archive could not be extracted; it appears to be corrupt or password protected."
		case errors.Is(err, archive.ErrUnsupportedFormat):
			return "The archive format is not supported; only zip, rar and 7z can be extracted."
		default:
			return "The archive was downloaded but could not be processed due to an internal error."
		}
	}

	return summary.Render()
}
