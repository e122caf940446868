package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deskhandai/deskhand/internal/convo"
	"github.com/deskhandai/deskhand/internal/pipeline"
)

// WebhookHandler receives message events from the upstream chat backend and
// runs each through the pipeline.
type WebhookHandler struct {
	pipe   *pipeline.Pipeline
	logger *slog.Logger
}

type webhookPayload struct {
	Message             string       `json:"message" validate:"required"`
	UserID              string       `json:"userId" validate:"required"`
	Type                string       `json:"type"`
	FileURL             string       `json:"fileUrl,omitempty"`
	Timestamp           string       `json:"timestamp,omitempty"`
	ConversationHistory []convo.Turn `json:"conversationHistory,omitempty"`
}

type webhookResponse struct {
	Success       bool     `json:"success"`
	Reply         string   `json:"reply"`
	ContextLength int      `json:"contextLength"`
	ToolsUsed     []string `json:"toolsUsed"`
	Timestamp     string   `json:"timestamp"`
}

func NewWebhookHandler(log *slog.Logger, pipe *pipeline.Pipeline) *WebhookHandler {
	return &WebhookHandler{
		pipe:   pipe,
		logger: log.With(slog.String("handler", "webhook")),
	}
}

func (h *WebhookHandler) Register(e *echo.Echo) {
	e.POST("/ai-webhook", h.Receive)
}

func (h *WebhookHandler) Receive(c echo.Context) error {
	var payload webhookPayload
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "message and userId are required")
	}

	kind := convo.MessageKind(payload.Type)
	switch kind {
	case convo.KindText, convo.KindImage, convo.KindFile:
	default:
		kind = convo.KindText
	}

	h.logger.Info("webhook received",
		slog.String("user_id", payload.UserID),
		slog.String("type", string(kind)),
		slog.Int("history_len", len(payload.ConversationHistory)),
	)

	out := h.pipe.Handle(c.Request().Context(), convo.Inbound{
		UserID:    payload.UserID,
		Text:      payload.Message,
		Kind:      kind,
		FileURL:   payload.FileURL,
		Timestamp: payload.Timestamp,
		History:   payload.ConversationHistory,
	})

	resp := webhookResponse{
		Success:       out.Delivered,
		Reply:         out.Reply,
		ContextLength: out.ContextLength,
		ToolsUsed:     out.ToolsHinted,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	}
	if resp.ToolsUsed == nil {
		resp.ToolsUsed = []string{}
	}
	if !out.Delivered {
		return c.JSON(http.StatusInternalServerError, resp)
	}
	return c.JSON(http.StatusOK, resp)
}
