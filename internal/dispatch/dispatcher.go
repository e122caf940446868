// Package dispatch delivers finished replies to the upstream chat backend.
// Delivery is best-effort: one attempt, short timeout, no retry or queueing.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

const replyPath = "/api/ai/reply"

type replyEnvelope struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Dispatcher posts reply envelopes to the upstream reply endpoint.
type Dispatcher struct {
	client  *http.Client
	baseURL string
	logger  *slog.Logger
}

func NewDispatcher(log *slog.Logger, baseURL string, timeout time.Duration) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Dispatcher{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		logger:  log.With(slog.String("service", "dispatch")),
	}
}

// Deliver posts one reply. It returns true only on a 2xx response; any
// transport error, timeout or non-success status returns false. Message loss
// on a false result is accepted, callers log and move on.
func (d *Dispatcher) Deliver(ctx context.Context, userID, text string) bool {
	body, err := json.Marshal(replyEnvelope{
		UserID:  userID,
		Message: text,
		Type:    "text",
	})
	if err != nil {
		d.logger.Error("encode reply envelope", slog.Any("error", err))
		return false
	}

	url := d.baseURL + replyPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		d.logger.Error("build reply request", slog.Any("error", err))
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		d.logger.Warn("reply delivery failed",
			slog.String("user_id", userID), slog.Any("error", err))
		return false
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		d.logger.Warn("reply rejected upstream",
			slog.String("user_id", userID),
			slog.Int("status", resp.StatusCode),
		)
		return false
	}

	d.logger.Debug("reply delivered", slog.String("user_id", userID))
	return true
}
