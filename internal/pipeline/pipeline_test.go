package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/deskhandai/deskhand/internal/chat"
	"github.com/deskhandai/deskhand/internal/convo"
)

type stubResponder struct {
	reply   string
	err     error
	lastReq chat.Request
}

func (s *stubResponder) Respond(_ context.Context, req chat.Request) (string, error) {
	s.lastReq = req
	return s.reply, s.err
}

type stubDeliverer struct {
	ok       bool
	lastUser string
	lastText string
}

func (s *stubDeliverer) Deliver(_ context.Context, userID, text string) bool {
	s.lastUser = userID
	s.lastText = text
	return s.ok
}

func TestHandleTextMessage(t *testing.T) {
	t.Parallel()

	responder := &stubResponder{reply: "here is your answer"}
	deliverer := &stubDeliverer{ok: true}
	p := New(slog.Default(), responder, deliverer, nil, 20)

	out := p.Handle(context.Background(), convo.Inbound{
		UserID: "u-1",
		Text:   "hello",
		Kind:   convo.KindText,
		History: []convo.Turn{
			{Role: convo.RoleUser, Content: "earlier"},
			{Role: convo.RoleAssistant, Content: "sure"},
		},
	})

	if !out.Delivered || out.Reply != "here is your answer" {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if out.ContextLength != 2 {
		t.Fatalf("context length = %d, want 2", out.ContextLength)
	}
	if len(out.ToolsHinted) != 0 {
		t.Fatalf("text message must not hint tools: %v", out.ToolsHinted)
	}
	if deliverer.lastUser != "u-1" || deliverer.lastText != "here is your answer" {
		t.Fatalf("delivery args: %q %q", deliverer.lastUser, deliverer.lastText)
	}
	if responder.lastReq.System != chat.SystemPrompt {
		t.Fatal("system prompt not applied")
	}
}

func TestHandleImageMessageHintsVision(t *testing.T) {
	t.Parallel()

	responder := &stubResponder{reply: "a sunset"}
	p := New(slog.Default(), responder, &stubDeliverer{ok: true}, nil, 20)

	out := p.Handle(context.Background(), convo.Inbound{
		UserID:  "u-1",
		Text:    "what is this?",
		Kind:    convo.KindImage,
		FileURL: "/up/a.png",
	})

	if len(out.ToolsHinted) != 1 || out.ToolsHinted[0] != "analyze_image_content" {
		t.Fatalf("tools hinted = %v", out.ToolsHinted)
	}
	if !strings.Contains(responder.lastReq.Input, "/up/a.png") {
		t.Fatalf("augmented input missing URL: %q", responder.lastReq.Input)
	}
}

func TestHandleModelFailureFallsBack(t *testing.T) {
	t.Parallel()

	responder := &stubResponder{err: errors.New("model unreachable")}
	deliverer := &stubDeliverer{ok: true}
	p := New(slog.Default(), responder, deliverer, nil, 20)

	out := p.Handle(context.Background(), convo.Inbound{UserID: "u-1", Text: "hi", Kind: convo.KindText})
	if out.Reply != FallbackReply {
		t.Fatalf("reply = %q, want fallback", out.Reply)
	}
	if deliverer.lastText != FallbackReply {
		t.Fatal("fallback must still be delivered")
	}
}

func TestHandleEmptyReplyFallsBack(t *testing.T) {
	t.Parallel()

	p := New(slog.Default(), &stubResponder{reply: "   "}, &stubDeliverer{ok: true}, nil, 20)
	out := p.Handle(context.Background(), convo.Inbound{UserID: "u-1", Text: "hi", Kind: convo.KindText})
	if out.Reply != FallbackReply {
		t.Fatalf("reply = %q, want fallback", out.Reply)
	}
}

func TestHandleDeliveryFailureSurfaced(t *testing.T) {
	t.Parallel()

	p := New(slog.Default(), &stubResponder{reply: "fine"}, &stubDeliverer{ok: false}, nil, 20)
	out := p.Handle(context.Background(), convo.Inbound{UserID: "u-1", Text: "hi", Kind: convo.KindText})
	if out.Delivered {
		t.Fatal("delivery failure must surface as Delivered=false")
	}
	if out.Reply != "fine" {
		t.Fatalf("reply = %q", out.Reply)
	}
}
