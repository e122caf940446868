// Package archive decompresses supported containers and produces bounded,
// categorized summaries of their contents.
package archive

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/deskhandai/deskhand/internal/filetype"
	"github.com/deskhandai/deskhand/internal/scratch"
	"github.com/deskhandai/deskhand/internal/vision"
)

const (
	maxExcerptChars    = 1000
	maxDescriptionLen  = 200
	maxVisionPerInspec = 3
)

type extractFunc func(srcPath, dest string, b *budget) error

var extractors = map[string]extractFunc{
	".zip": extractZip,
	".rar": extractRar,
	".7z":  extract7z,
}

// Inspector extracts archives into scratch storage and summarizes them.
type Inspector struct {
	scratch  *scratch.Dir
	analyzer *vision.Analyzer
	limits   Limits
	logger   *slog.Logger
}

// NewInspector creates an Inspector. The analyzer may be backed by an
// unavailable backend; image entries then fall back to metadata.
func NewInspector(log *slog.Logger, dir *scratch.Dir, analyzer *vision.Analyzer, limits Limits) *Inspector {
	if log == nil {
		log = slog.Default()
	}
	return &Inspector{
		scratch:  dir,
		analyzer: analyzer,
		limits:   limits.normalized(),
		logger:   log.With(slog.String("service", "archive")),
	}
}

// Inspect extracts the archive at localPath and returns its summary. The
// extraction directory is removed before returning on every path; the
// archive file itself remains owned by the caller.
func (i *Inspector) Inspect(ctx context.Context, localPath, ext string) (Summary, error) {
	extract, ok := extractors[scratch.NormalizeExt(ext)]
	if !ok {
		return Summary{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	dest, err := i.scratch.MkdirExtract()
	if err != nil {
		return Summary{}, err
	}
	defer func() {
		_ = os.RemoveAll(dest)
	}()

	bud := newBudget(i.limits)
	if err := extract(localPath, dest, bud); err != nil {
		return Summary{}, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}

	summary, err := i.walk(ctx, dest)
	if err != nil {
		return Summary{}, err
	}
	summary.SkippedEntries = bud.skipped

	i.logger.Debug("archive inspected",
		slog.String("ext", ext),
		slog.Int("total_files", summary.TotalFileCount),
		slog.Int("skipped", summary.SkippedEntries),
	)
	return summary, nil
}

// walk visits every extracted regular file in lexical order and builds the
// categorized summary. A bad entry is folded into the failed list, never
// fatal for the batch.
func (i *Inspector) walk(ctx context.Context, dest string) (Summary, error) {
	var s Summary
	imagesSeen := 0

	err := filepath.WalkDir(dest, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if !d.Type().IsRegular() {
			return nil
		}

		name := displayName(dest, path)
		info, statErr := d.Info()
		if statErr != nil {
			s.FailedEntries = append(s.FailedEntries, FailedEntry{Name: name, Reason: "unreadable"})
			return nil
		}

		switch filetype.Classify(name) {
		case filetype.KindText:
			i.addTextEntry(&s, name, path)
		case filetype.KindImage:
			imagesSeen++
			i.addImageEntry(ctx, &s, name, path, info.Size(), imagesSeen)
		default:
			s.OtherEntries = append(s.OtherEntries, OtherEntry{
				Name:      name,
				SizeBytes: info.Size(),
				Ext:       filetype.Ext(name),
				Binary:    looksExecutable(path),
			})
		}
		return nil
	})
	if err != nil {
		return Summary{}, fmt.Errorf("walk extracted files: %w", err)
	}

	s.TotalFileCount = len(s.TextEntries) + len(s.ImageEntries) + len(s.OtherEntries) + len(s.FailedEntries)
	return s, nil
}

func (i *Inspector) addTextEntry(s *Summary, name, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		s.FailedEntries = append(s.FailedEntries, FailedEntry{Name: name, Reason: "unreadable"})
		return
	}

	text := string(data)
	if !utf8.ValidString(text) {
		// Legacy CJK fallback, only after UTF-8 fails.
		decoded, derr := simplifiedchinese.GB18030.NewDecoder().Bytes(data)
		if derr != nil || !utf8.Valid(decoded) {
			s.FailedEntries = append(s.FailedEntries, FailedEntry{Name: name, Reason: "undecodable text"})
			return
		}
		text = string(decoded)
	}

	excerpt := text
	truncated := false
	if runes := []rune(text); len(runes) > maxExcerptChars {
		excerpt = string(runes[:maxExcerptChars])
		truncated = true
	}
	s.TextEntries = append(s.TextEntries, TextEntry{Name: name, Excerpt: excerpt, Truncated: truncated})
}

func (i *Inspector) addImageEntry(ctx context.Context, s *Summary, name, path string, size int64, ordinal int) {
	if ordinal <= maxVisionPerInspec && i.analyzer != nil {
		prompt := fmt.Sprintf("Briefly describe the content of the image %s.", name)
		desc, err := i.analyzer.Analyze(ctx, path, prompt)
		if err == nil {
			s.ImageEntries = append(s.ImageEntries, ImageEntry{
				Name:      name,
				Detail:    truncateRunes(desc, maxDescriptionLen),
				Described: true,
			})
			return
		}
		i.logger.Debug("image description fell back to metadata",
			slog.String("entry", name), slog.Any("error", err))
	}

	info, err := vision.Probe(path)
	if err != nil {
		s.ImageEntries = append(s.ImageEntries, ImageEntry{
			Name:   name,
			Detail: fmt.Sprintf("image metadata unreadable (%d bytes)", size),
		})
		return
	}
	s.ImageEntries = append(s.ImageEntries, ImageEntry{
		Name:   name,
		Detail: fmt.Sprintf("%dx%d pixels, %s format (%d bytes)", info.Width, info.Height, strings.ToUpper(info.Format), size),
	})
}

// looksExecutable sniffs well-known executable headers. Matching entries are
// reported as metadata only, never run.
func looksExecutable(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer func() {
		_ = f.Close()
	}()

	header := make([]byte, 4)
	n, err := f.Read(header)
	if err != nil || n < 2 {
		return false
	}
	switch {
	case n >= 4 && string(header[:4]) == "\x7fELF":
		return true
	case string(header[:2]) == "MZ":
		return true
	case n >= 4 && string(header[:4]) == "PK\x03\x04":
		return true
	default:
		return false
	}
}

func displayName(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
