package archive

import (
	"fmt"
	"strings"
	"testing"
)

func TestRenderEmpty(t *testing.T) {
	t.Parallel()

	var s Summary
	if !s.Empty() {
		t.Fatal("expected empty summary")
	}
	if got := s.Render(); got != EmptyArchiveText {
		t.Fatalf("unexpected empty render: %q", got)
	}
}

func TestRenderCapsTextSection(t *testing.T) {
	t.Parallel()

	var s Summary
	for i := 0; i < 8; i++ {
		s.TextEntries = append(s.TextEntries, TextEntry{
			Name:    fmt.Sprintf("doc%d.txt", i),
			Excerpt: "hello",
		})
	}
	s.TotalFileCount = 8

	out := s.Render()
	for i := 0; i < maxTextShown; i++ {
		if !strings.Contains(out, fmt.Sprintf("doc%d.txt", i)) {
			t.Fatalf("expected doc%d.txt in output:\n%s", i, out)
		}
	}
	if strings.Contains(out, "doc5.txt") {
		t.Fatalf("entry past the display cap should not be shown:\n%s", out)
	}
	if !strings.Contains(out, "... and 3 more text files not shown") {
		t.Fatalf("missing overflow note:\n%s", out)
	}
	if !strings.Contains(out, "Total files: 8") {
		t.Fatalf("total count must stay exact:\n%s", out)
	}
}

func TestRenderCapsImagesAndOther(t *testing.T) {
	t.Parallel()

	var s Summary
	for i := 0; i < 12; i++ {
		s.ImageEntries = append(s.ImageEntries, ImageEntry{
			Name:   fmt.Sprintf("pic%d.png", i),
			Detail: "4x4 pixels, PNG format (100 bytes)",
		})
		s.OtherEntries = append(s.OtherEntries, OtherEntry{
			Name:      fmt.Sprintf("blob%d.dat", i),
			SizeBytes: 42,
			Ext:       ".dat",
		})
	}
	s.TotalFileCount = 24

	out := s.Render()
	if !strings.Contains(out, "... and 2 more images not shown") {
		t.Fatalf("missing image overflow note:\n%s", out)
	}
	if !strings.Contains(out, "... and 2 more files not shown") {
		t.Fatalf("missing other overflow note:\n%s", out)
	}
}

func TestRenderTruncationMarker(t *testing.T) {
	t.Parallel()

	s := Summary{
		TotalFileCount: 1,
		TextEntries: []TextEntry{
			{Name: "big.txt", Excerpt: strings.Repeat("a", maxExcerptChars), Truncated: true},
		},
	}
	out := s.Render()
	if !strings.Contains(out, TruncationMarker) {
		t.Fatalf("missing truncation marker:\n%s", out)
	}
}

func TestRenderFailedEntries(t *testing.T) {
	t.Parallel()

	s := Summary{
		TotalFileCount: 1,
		FailedEntries:  []FailedEntry{{Name: "broken.txt", Reason: "unreadable"}},
	}
	out := s.Render()
	if !strings.Contains(out, "broken.txt") {
		t.Fatalf("failed entry missing from output:\n%s", out)
	}
	if !strings.Contains(out, "could not be processed") {
		t.Fatalf("failed entry reason missing:\n%s", out)
	}
}

func TestRenderSkippedNote(t *testing.T) {
	t.Parallel()

	s := Summary{
		TotalFileCount: 1,
		SkippedEntries: 2,
		OtherEntries:   []OtherEntry{{Name: "a.bin", SizeBytes: 1, Ext: ".bin"}},
	}
	if !strings.Contains(s.Render(), "2 entries were skipped") {
		t.Fatal("missing skipped-entries note")
	}
}
