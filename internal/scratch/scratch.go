// Package scratch manages the process-local temporary area for downloaded
// and extracted attachment content. Every name it hands out carries a
// per-request unique suffix so concurrent requests never collide.
package scratch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const dirName = "deskhand"

// Dir is a scratch directory rooted under a single path. Callers own the
// files and directories they request and must remove them when done.
type Dir struct {
	root string
}

// New creates (if needed) and returns a scratch directory. An empty root
// defaults to a subdirectory of the system temp dir.
func New(root string) (*Dir, error) {
	if strings.TrimSpace(root) == "" {
		root = filepath.Join(os.TempDir(), dirName)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch root: %w", err)
	}
	return &Dir{root: root}, nil
}

// Root returns the scratch root path.
func (d *Dir) Root() string {
	return d.root
}

// FilePath returns a fresh, collision-free path for a scratch file with the
// given extension. No file is created; the path is guaranteed unused because
// the name embeds a random UUID.
func (d *Dir) FilePath(ext string) string {
	ext = NormalizeExt(ext)
	return filepath.Join(d.root, "dl-"+uuid.NewString()+ext)
}

// MkdirExtract creates and returns a fresh directory for archive extraction.
// The caller must remove it with os.RemoveAll on every exit path.
func (d *Dir) MkdirExtract() (string, error) {
	path := filepath.Join(d.root, "extract-"+uuid.NewString())
	if err := os.Mkdir(path, 0o755); err != nil {
		return "", fmt.Errorf("create extract dir: %w", err)
	}
	return path, nil
}

// NormalizeExt lowercases an extension and guarantees a leading dot. An
// empty extension maps to a synthetic ".bin".
func NormalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" || ext == "." {
		return ".bin"
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
