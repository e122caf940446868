package handlers

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deskhandai/deskhand/internal/tools"
)

// TestToolsHandler invokes a single tool directly, bypassing the model.
// Useful for poking at a deployment without spending model tokens.
type TestToolsHandler struct {
	tools  map[string]tools.Tool
	logger *slog.Logger
}

type testToolsPayload struct {
	Tool    string `json:"tool" validate:"required"`
	FileURL string `json:"fileUrl" validate:"required"`
}

func NewTestToolsHandler(log *slog.Logger, ts []tools.Tool) *TestToolsHandler {
	byName := make(map[string]tools.Tool, len(ts))
	for _, t := range ts {
		byName[t.Name()] = t
	}
	return &TestToolsHandler{
		tools:  byName,
		logger: log.With(slog.String("handler", "test_tools")),
	}
}

func (h *TestToolsHandler) Register(e *echo.Echo) {
	e.POST("/test-tools", h.Run)
}

func (h *TestToolsHandler) Run(c echo.Context) error {
	var payload testToolsPayload
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "tool and fileUrl are required")
	}

	tool, ok := h.tools[payload.Tool]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown tool")
	}

	argKey := "file_url"
	if payload.Tool == "analyze_image_content" {
		argKey = "image_url"
	}
	result := tool.Execute(c.Request().Context(), map[string]any{argKey: payload.FileURL})

	return c.JSON(http.StatusOK, map[string]string{
		"tool":   payload.Tool,
		"result": result,
	})
}
