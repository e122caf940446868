package convo

import (
	"strings"
	"testing"
)

func TestRouteImageMessage(t *testing.T) {
	t.Parallel()

	hint := Route(Inbound{
		Text:    "what is this?",
		Kind:    KindImage,
		FileURL: "/up/a.png",
	})
	if !hint.MustUseVision || hint.MustUseArchive {
		t.Fatalf("unexpected hint flags: %+v", hint)
	}
	if !strings.Contains(hint.AugmentedText, "what is this?") {
		t.Fatalf("original text lost: %q", hint.AugmentedText)
	}
	if !strings.Contains(hint.AugmentedText, "[User sent an image: /up/a.png]") {
		t.Fatalf("missing image marker: %q", hint.AugmentedText)
	}
	if !strings.Contains(hint.AugmentedText, "analyze_image_content") {
		t.Fatalf("missing vision hint: %q", hint.AugmentedText)
	}
}

func TestRouteArchiveFile(t *testing.T) {
	t.Parallel()

	hint := Route(Inbound{
		Text:    "check this out",
		Kind:    KindFile,
		FileURL: "/up/b.zip",
	})
	if !hint.MustUseArchive || hint.MustUseVision {
		t.Fatalf("unexpected hint flags: %+v", hint)
	}
	if !strings.Contains(hint.AugmentedText, "extract_and_analyze_archive") {
		t.Fatalf("missing archive hint: %q", hint.AugmentedText)
	}
}

func TestRouteImageSentAsFile(t *testing.T) {
	t.Parallel()

	hint := Route(Inbound{Kind: KindFile, FileURL: "/up/photo.JPG"})
	if !hint.MustUseVision {
		t.Fatalf("image-typed file should force vision: %+v", hint)
	}
}

func TestRouteOtherFile(t *testing.T) {
	t.Parallel()

	hint := Route(Inbound{Text: "here", Kind: KindFile, FileURL: "/up/report.pdf"})
	if hint.MustUseVision || hint.MustUseArchive {
		t.Fatalf("plain file must not force a tool: %+v", hint)
	}
	if !strings.Contains(hint.AugmentedText, "[User sent a file: /up/report.pdf]") {
		t.Fatalf("missing file marker: %q", hint.AugmentedText)
	}
}

func TestRouteTextOnly(t *testing.T) {
	t.Parallel()

	hint := Route(Inbound{Text: "hello", Kind: KindText})
	if hint.MustUseVision || hint.MustUseArchive {
		t.Fatalf("text message must not force a tool: %+v", hint)
	}
	if hint.AugmentedText != "hello" {
		t.Fatalf("text must pass through unchanged: %q", hint.AugmentedText)
	}
}

func TestRouteEmptyTextWithAttachment(t *testing.T) {
	t.Parallel()

	hint := Route(Inbound{Kind: KindImage, FileURL: "/up/c.png"})
	if !strings.HasPrefix(hint.AugmentedText, "[User sent an image:") {
		t.Fatalf("augmented text should start with the marker: %q", hint.AugmentedText)
	}
}

func TestAssembleHistorySkipsMalformed(t *testing.T) {
	t.Parallel()

	turns := AssembleHistory([]Turn{
		{Role: RoleUser, Content: "hi"},
		{Role: "system", Content: "should be dropped"},
		{Role: RoleAssistant, Content: ""},
		{Role: RoleAssistant, Content: "hello!"},
	}, "", 0)
	if len(turns) != 2 {
		t.Fatalf("turns = %d, want 2: %+v", len(turns), turns)
	}
	if turns[0].Content != "hi" || turns[1].Content != "hello!" {
		t.Fatalf("unexpected turns: %+v", turns)
	}
}

func TestAssembleHistoryAttachmentMarker(t *testing.T) {
	t.Parallel()

	turns := AssembleHistory([]Turn{
		{Role: RoleUser, Content: "look", Kind: KindImage, FileURL: "/up/x.png"},
		{Role: RoleUser, Kind: KindFile, FileURL: "/up/y.zip"},
	}, "", 0)
	if len(turns) != 2 {
		t.Fatalf("turns = %d, want 2", len(turns))
	}
	if !strings.Contains(turns[0].Content, "[User sent an image: /up/x.png]") {
		t.Fatalf("missing image marker: %q", turns[0].Content)
	}
	if turns[1].Content != "[User sent a file: /up/y.zip]" {
		t.Fatalf("attachment-only turn should be just the marker: %q", turns[1].Content)
	}
}

func TestAssembleHistoryDropsTrailingCurrent(t *testing.T) {
	t.Parallel()

	turns := AssembleHistory([]Turn{
		{Role: RoleUser, Content: "first"},
		{Role: RoleAssistant, Content: "reply"},
		{Role: RoleUser, Content: "current question"},
	}, "current question", 0)
	if len(turns) != 2 {
		t.Fatalf("turns = %d, want 2: %+v", len(turns), turns)
	}
	for _, turn := range turns {
		if turn.Content == "current question" {
			t.Fatalf("current message leaked into history: %+v", turns)
		}
	}
}

func TestAssembleHistoryWindow(t *testing.T) {
	t.Parallel()

	var history []Turn
	for i := 0; i < 30; i++ {
		history = append(history,
			Turn{Role: RoleUser, Content: "q"},
			Turn{Role: RoleAssistant, Content: "a"})
	}
	turns := AssembleHistory(history, "", 10)
	if len(turns) != 10 {
		t.Fatalf("turns = %d, want 10", len(turns))
	}
	if turns[len(turns)-1].Role != RoleAssistant {
		t.Fatalf("window should keep the most recent turns: %+v", turns[len(turns)-1])
	}
}
