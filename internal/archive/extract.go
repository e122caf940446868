package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/nwaples/rardecode/v2"
)

// budget enforces Limits across one extraction run.
type budget struct {
	lim        Limits
	totalBytes int64
	entries    int
	skipped    int
}

func newBudget(lim Limits) *budget {
	return &budget{lim: lim.normalized()}
}

// admit decides whether the named entry may be extracted at all. Rejected
// entries are counted as skipped.
func (b *budget) admit(name string) bool {
	if !fs.ValidPath(name) || strings.Contains(name, "..") {
		b.skipped++
		return false
	}
	if strings.Count(name, "/") >= b.lim.MaxDepth {
		b.skipped++
		return false
	}
	if b.entries >= b.lim.MaxEntries {
		b.skipped++
		return false
	}
	b.entries++
	return true
}

// writeEntry copies one entry to disk, honoring the per-entry and total
// byte budgets. An over-budget entry is removed and counted as skipped.
func (b *budget) writeEntry(dest, name string, src io.Reader) error {
	remaining := b.lim.MaxTotalBytes - b.totalBytes
	if remaining <= 0 {
		b.entries--
		b.skipped++
		return nil
	}
	entryCap := b.lim.MaxEntryBytes
	if remaining < entryCap {
		entryCap = remaining
	}

	path := filepath.Join(dest, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create entry dir: %w", err)
	}
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create entry file: %w", err)
	}

	limited := &io.LimitedReader{R: src, N: entryCap + 1}
	written, err := io.Copy(out, limited)
	closeErr := out.Close()
	if err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("write entry %s: %w", name, err)
	}
	if closeErr != nil {
		_ = os.Remove(path)
		return fmt.Errorf("close entry %s: %w", name, closeErr)
	}
	if written > entryCap {
		_ = os.Remove(path)
		b.entries--
		b.skipped++
		return nil
	}
	b.totalBytes += written
	return nil
}

func extractZip(srcPath, dest string, b *budget) error {
	r, err := zip.OpenReader(srcPath)
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	defer func() {
		_ = r.Close()
	}()

	for _, f := range r.File {
		if !f.FileInfo().Mode().IsRegular() {
			continue
		}
		name := normalizeEntryName(f.Name)
		if !b.admit(name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("open zip entry %s: %w", name, err)
		}
		err = b.writeEntry(dest, name, rc)
		_ = rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func extractRar(srcPath, dest string, b *budget) error {
	r, err := rardecode.OpenReader(srcPath)
	if err != nil {
		return fmt.Errorf("open rar: %w", err)
	}
	defer func() {
		_ = r.Close()
	}()

	for {
		hdr, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read rar entry: %w", err)
		}
		if hdr.IsDir {
			continue
		}
		name := normalizeEntryName(hdr.Name)
		if !b.admit(name) {
			continue
		}
		if err := b.writeEntry(dest, name, r); err != nil {
			return err
		}
	}
}

func extract7z(srcPath, dest string, b *budget) error {
	r, err := sevenzip.OpenReader(srcPath)
	if err != nil {
		return fmt.Errorf("open 7z: %w", err)
	}
	defer func() {
		_ = r.Close()
	}()

	for _, f := range r.File {
		if !f.FileInfo().Mode().IsRegular() {
			continue
		}
		name := normalizeEntryName(f.Name)
		if !b.admit(name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("open 7z entry %s: %w", name, err)
		}
		err = b.writeEntry(dest, name, rc)
		_ = rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// normalizeEntryName flattens separators to forward slashes and strips any
// leading slash so fs.ValidPath can vet the name.
func normalizeEntryName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	return strings.TrimPrefix(name, "/")
}
