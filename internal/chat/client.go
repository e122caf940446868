// Package chat drives the conversation model over an OpenAI-compatible
// chat-completions API, including the tool-call loop.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/deskhandai/deskhand/internal/tools"
)

// maxToolRounds bounds the model's tool-call loop for one request.
const maxToolRounds = 4

var ErrNoReply = errors.New("model returned no choices")

// Message is one prior conversation turn as sent to the model.
type Message struct {
	Role    string
	Content string
}

// Request is one full model invocation: persona, history window, the
// augmented current input and the tools the model may call.
type Request struct {
	System  string
	History []Message
	Input   string
	Tools   []tools.Tool
}

// Config carries the connection settings for one model endpoint.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client wraps the chat-completions API for the conversation model.
type Client struct {
	api    openai.Client
	model  string
	logger *slog.Logger
}

func NewClient(log *slog.Logger, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("chat: api key is required")
	}
	if cfg.Model == "" {
		return nil, errors.New("chat: model is required")
	}
	if log == nil {
		log = slog.Default()
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	return &Client{
		api:    openai.NewClient(opts...),
		model:  cfg.Model,
		logger: log.With(slog.String("service", "chat")),
	}, nil
}

// Model returns the configured model identifier, for status reporting.
func (c *Client) Model() string {
	return c.model
}

// Respond runs one conversation round against the model, executing any tool
// calls it emits. The loop is bounded; after maxToolRounds the model's last
// text content is returned as-is.
func (c *Client) Respond(ctx context.Context, req Request) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: buildMessages(req),
		Tools:    buildToolParams(req.Tools),
	}
	byName := make(map[string]tools.Tool, len(req.Tools))
	for _, t := range req.Tools {
		byName[t.Name()] = t
	}

	for round := 0; ; round++ {
		resp, err := c.api.Chat.Completions.New(ctx, params)
		if err != nil {
			return "", fmt.Errorf("chat completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", ErrNoReply
		}

		msg := resp.Choices[0].Message
		if len(msg.ToolCalls) == 0 || round >= maxToolRounds {
			return msg.Content, nil
		}

		params.Messages = append(params.Messages, assistantToolCallMessage(msg))
		for _, call := range msg.ToolCalls {
			result := c.runTool(ctx, byName, call.Function.Name, call.Function.Arguments)
			params.Messages = append(params.Messages, openai.ToolMessage(result, call.ID))
		}
	}
}

func (c *Client) runTool(ctx context.Context, byName map[string]tools.Tool, name, rawArgs string) string {
	tool, ok := byName[name]
	if !ok {
		c.logger.Warn("model requested unknown tool", slog.String("tool", name))
		return fmt.Sprintf("The tool %q does not exist; available tools are listed in the system instructions.", name)
	}

	var args map[string]any
	if rawArgs != "" {
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			c.logger.Warn("tool arguments did not parse",
				slog.String("tool", name), slog.Any("error", err))
			args = nil
		}
	}

	start := time.Now()
	result := tool.Execute(ctx, args)
	c.logger.Debug("tool executed",
		slog.String("tool", name),
		slog.Duration("elapsed", time.Since(start)),
	)
	return result
}

func assistantToolCallMessage(msg openai.ChatCompletionMessage) openai.ChatCompletionMessageParamUnion {
	calls := make([]openai.ChatCompletionMessageToolCallParam, len(msg.ToolCalls))
	for i, tc := range msg.ToolCalls {
		calls[i] = openai.ChatCompletionMessageToolCallParam{
			ID:   tc.ID,
			Type: "function",
			Function: openai.ChatCompletionMessageToolCallFunctionParam{
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			},
		}
	}
	return openai.ChatCompletionMessageParamUnion{
		OfAssistant: &openai.ChatCompletionAssistantMessageParam{
			Content:   openai.ChatCompletionAssistantMessageParamContentUnion{OfString: openai.String(msg.Content)},
			ToolCalls: calls,
		},
	}
}

func buildMessages(req Request) []openai.ChatCompletionMessageParamUnion {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.History)+2)
	if req.System != "" {
		msgs = append(msgs, openai.SystemMessage(req.System))
	}
	for _, m := range req.History {
		switch m.Role {
		case "assistant":
			msgs = append(msgs, openai.AssistantMessage(m.Content))
		default:
			msgs = append(msgs, openai.UserMessage(m.Content))
		}
	}
	msgs = append(msgs, openai.UserMessage(req.Input))
	return msgs
}

func buildToolParams(ts []tools.Tool) []openai.ChatCompletionToolParam {
	if len(ts) == 0 {
		return nil
	}
	params := make([]openai.ChatCompletionToolParam, 0, len(ts))
	for _, t := range ts {
		params = append(params, openai.ChatCompletionToolParam{
			Function: shared.FunctionDefinitionParam{
				Name:        t.Name(),
				Description: openai.String(t.Description()),
				Parameters:  shared.FunctionParameters(t.Parameters()),
			},
		})
	}
	return params
}
