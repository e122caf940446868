// Package fetch retrieves attachment references from the upstream chat
// server into scratch storage.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/deskhandai/deskhand/internal/filetype"
	"github.com/deskhandai/deskhand/internal/scratch"
)

// FetchedFile is a downloaded attachment on scratch storage. The caller
// exclusively owns LocalPath and must call Remove on every exit path.
type FetchedFile struct {
	LocalPath   string
	SizeBytes   int64
	DeclaredExt string
}

// Remove deletes the scratch file. Safe to call on the zero value.
func (f FetchedFile) Remove() {
	if f.LocalPath != "" {
		_ = os.Remove(f.LocalPath)
	}
}

// Fetcher downloads file references with a bounded timeout and size cap.
type Fetcher struct {
	client   *http.Client
	scratch  *scratch.Dir
	baseURL  string
	maxBytes int64
	logger   *slog.Logger
}

// NewFetcher creates a Fetcher. Relative references resolve against baseURL.
func NewFetcher(log *slog.Logger, dir *scratch.Dir, baseURL string, timeout time.Duration, maxBytes int64) *Fetcher {
	if log == nil {
		log = slog.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if maxBytes <= 0 {
		maxBytes = 50 * 1024 * 1024
	}
	return &Fetcher{
		client:   &http.Client{Timeout: timeout},
		scratch:  dir,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxBytes: maxBytes,
		logger:   log.With(slog.String("service", "fetch")),
	}
}

// Fetch downloads ref into a fresh scratch file and returns it. Ownership of
// the file passes to the caller.
func (f *Fetcher) Fetch(ctx context.Context, ref string) (FetchedFile, error) {
	fullURL := ref
	if strings.HasPrefix(ref, "/") {
		fullURL = f.baseURL + ref
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return FetchedFile{}, fmt.Errorf("%w: build request: %v", ErrNetwork, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return FetchedFile{}, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return FetchedFile{}, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return FetchedFile{}, fmt.Errorf("%w: status %d", ErrNetwork, resp.StatusCode)
	}

	ext := scratch.NormalizeExt(filetype.Ext(ref))
	dstPath := f.scratch.FilePath(ext)

	// O_EXCL: a scratch path is never reused, so collision means a bug.
	dst, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return FetchedFile{}, fmt.Errorf("create scratch file: %w", err)
	}

	limited := &io.LimitedReader{R: resp.Body, N: f.maxBytes + 1}
	written, err := io.Copy(dst, limited)
	closeErr := dst.Close()
	if err != nil {
		_ = os.Remove(dstPath)
		return FetchedFile{}, fmt.Errorf("%w: read body: %v", ErrNetwork, err)
	}
	if closeErr != nil {
		_ = os.Remove(dstPath)
		return FetchedFile{}, fmt.Errorf("write scratch file: %w", closeErr)
	}
	if written > f.maxBytes {
		_ = os.Remove(dstPath)
		return FetchedFile{}, fmt.Errorf("%w: max %d bytes", ErrTooLarge, f.maxBytes)
	}

	f.logger.Debug("file fetched",
		slog.String("ref", ref),
		slog.Int64("size_bytes", written),
		slog.String("ext", ext),
	)

	return FetchedFile{
		LocalPath:   dstPath,
		SizeBytes:   written,
		DeclaredExt: ext,
	}, nil
}
