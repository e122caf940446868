package scratch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFilePathUnique(t *testing.T) {
	t.Parallel()

	dir, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		p := dir.FilePath(".zip")
		if _, ok := seen[p]; ok {
			t.Fatalf("duplicate scratch path: %s", p)
		}
		seen[p] = struct{}{}
		if !strings.HasSuffix(p, ".zip") {
			t.Fatalf("expected .zip suffix, got %s", p)
		}
		if filepath.Dir(p) != dir.Root() {
			t.Fatalf("path %s escapes scratch root %s", p, dir.Root())
		}
	}
}

func TestMkdirExtract(t *testing.T) {
	t.Parallel()

	dir, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := dir.MkdirExtract()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := dir.MkdirExtract()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first == second {
		t.Fatalf("extract dirs must be unique, got %s twice", first)
	}
	for _, p := range []string{first, second} {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory at %s, err=%v", p, err)
		}
	}
}

func TestNormalizeExt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"", ".bin"},
		{".", ".bin"},
		{"zip", ".zip"},
		{".ZIP", ".zip"},
		{" .Png ", ".png"},
	}
	for _, tt := range tests {
		if got := NormalizeExt(tt.in); got != tt.want {
			t.Fatalf("NormalizeExt(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
