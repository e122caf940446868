package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// StatusHandler reports process health and the configured model identifiers.
type StatusHandler struct {
	chatModel       string
	visionModel     string
	visionAvailable bool
	toolNames       []string
	startedAt       time.Time
	logger          *slog.Logger
}

func NewStatusHandler(log *slog.Logger, chatModel, visionModel string, visionAvailable bool, toolNames []string) *StatusHandler {
	return &StatusHandler{
		chatModel:       chatModel,
		visionModel:     visionModel,
		visionAvailable: visionAvailable,
		toolNames:       toolNames,
		startedAt:       time.Now().UTC(),
		logger:          log.With(slog.String("handler", "status")),
	}
}

func (h *StatusHandler) Register(e *echo.Echo) {
	e.GET("/status", h.Status)
}

func (h *StatusHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":        "ok",
		"uptimeSeconds": int(time.Since(h.startedAt).Seconds()),
		"models": map[string]string{
			"chat":   h.chatModel,
			"vision": h.visionModel,
		},
		"visionAvailable": h.visionAvailable,
		"tools":           h.toolNames,
	})
}
