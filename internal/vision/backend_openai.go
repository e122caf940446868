package vision

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIConfig configures the OpenAI-compatible vision backend.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// OpenAIBackend describes images via an OpenAI-compatible chat-completions
// endpoint with image content parts.
type OpenAIBackend struct {
	client openai.Client
	model  string
	logger *slog.Logger
}

// NewOpenAIBackend creates the backend. Fails when no API key is configured;
// the caller decides whether that is fatal or degrades to metadata-only.
func NewOpenAIBackend(log *slog.Logger, cfg OpenAIConfig) (*OpenAIBackend, error) {
	if log == nil {
		log = slog.Default()
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("vision api key is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("vision model is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	return &OpenAIBackend{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
		logger: log.With(slog.String("service", "vision_backend")),
	}, nil
}

// Model returns the configured model identifier.
func (b *OpenAIBackend) Model() string {
	return b.model
}

// Describe sends the image as a data URL and returns the model's free text.
func (b *OpenAIBackend) Describe(ctx context.Context, req DescribeRequest) (string, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", req.Mime, base64.StdEncoding.EncodeToString(req.Data))

	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(req.Prompt),
		openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: dataURL}),
	}

	start := time.Now()
	resp, err := b.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    b.model,
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(parts)},
	})
	if err != nil {
		return "", fmt.Errorf("vision completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("vision completion: no choices in response")
	}

	b.logger.Debug("image described",
		slog.String("model", b.model),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		slog.Int("image_bytes", len(req.Data)),
	)

	return resp.Choices[0].Message.Content, nil
}
