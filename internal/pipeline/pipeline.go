// Package pipeline runs one webhook message end to end: context assembly,
// tool routing, the model round and reply delivery.
package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/deskhandai/deskhand/internal/chat"
	"github.com/deskhandai/deskhand/internal/convo"
	"github.com/deskhandai/deskhand/internal/tools"
)

// FallbackReply is sent when the model round fails entirely. The pipeline
// always produces some reply.
const FallbackReply = "Sorry, I ran into a problem while handling your message. Please try again in a moment."

// Responder produces the model's reply for one assembled request.
type Responder interface {
	Respond(ctx context.Context, req chat.Request) (string, error)
}

// Deliverer pushes a finished reply upstream. False means the reply was lost.
type Deliverer interface {
	Deliver(ctx context.Context, userID, text string) bool
}

// Outcome reports what one pipeline run produced.
type Outcome struct {
	Reply         string
	Delivered     bool
	ContextLength int
	ToolsHinted   []string
}

type Pipeline struct {
	responder Responder
	deliverer Deliverer
	tools     []tools.Tool
	window    int
	logger    *slog.Logger
}

func New(log *slog.Logger, responder Responder, deliverer Deliverer, ts []tools.Tool, historyWindow int) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		responder: responder,
		deliverer: deliverer,
		tools:     ts,
		window:    historyWindow,
		logger:    log.With(slog.String("service", "pipeline")),
	}
}

// Handle processes one inbound message start to finish. Errors inside the
// model round degrade to the fallback apology; only delivery failure is
// surfaced, as Delivered=false.
func (p *Pipeline) Handle(ctx context.Context, msg convo.Inbound) Outcome {
	history := convo.AssembleHistory(msg.History, msg.Text, p.window)
	hint := convo.Route(msg)

	chatHistory := make([]chat.Message, 0, len(history))
	for _, t := range history {
		chatHistory = append(chatHistory, chat.Message{Role: string(t.Role), Content: t.Content})
	}

	reply, err := p.responder.Respond(ctx, chat.Request{
		System:  chat.SystemPrompt,
		History: chatHistory,
		Input:   hint.AugmentedText,
		Tools:   p.tools,
	})
	if err != nil {
		p.logger.Error("model round failed",
			slog.String("user_id", msg.UserID), slog.Any("error", err))
		reply = FallbackReply
	} else if strings.TrimSpace(reply) == "" {
		p.logger.Warn("model returned empty reply", slog.String("user_id", msg.UserID))
		reply = FallbackReply
	}

	delivered := p.deliverer.Deliver(ctx, msg.UserID, reply)
	if !delivered {
		p.logger.Warn("reply not delivered", slog.String("user_id", msg.UserID))
	}

	return Outcome{
		Reply:         reply,
		Delivered:     delivered,
		ContextLength: len(chatHistory),
		ToolsHinted:   hintedTools(hint),
	}
}

func hintedTools(hint convo.ToolHint) []string {
	var names []string
	if hint.MustUseVision {
		names = append(names, "analyze_image_content")
	}
	if hint.MustUseArchive {
		names = append(names, "extract_and_analyze_archive")
	}
	return names
}
