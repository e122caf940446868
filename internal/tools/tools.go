// Package tools implements the agent-callable tools for attachment analysis.
// A tool never returns an error to the model: every failure mode becomes a
// human-readable sentence the model can relay or work around.
package tools

import (
	"context"
	"fmt"
)

// Tool is a capability the chat model may invoke during a conversation.
type Tool interface {
	// Name is the function name exposed to the model.
	Name() string
	// Description tells the model when to call this tool.
	Description() string
	// Parameters is the JSON schema of the tool arguments.
	Parameters() map[string]any
	// Execute runs the tool. The result is always prose, including failures.
	Execute(ctx context.Context, args map[string]any) string
}

// ArgString pulls a string argument out of decoded tool-call arguments.
func ArgString(args map[string]any, key string) string {
	if args == nil {
		return ""
	}
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

// Names lists tool names in registration order, for status reporting.
func Names(ts []Tool) []string {
	names := make([]string, 0, len(ts))
	for _, t := range ts {
		names = append(names, t.Name())
	}
	return names
}

func urlSchema(field, desc string) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			field: map[string]any{
				"type":        "string",
				"description": desc,
			},
		},
		"required": []string{field},
	}
}

func fmtBytes(n int64) string {
	const kib = 1024
	switch {
	case n >= kib*kib:
		return fmt.Sprintf("%.1f MB", float64(n)/(kib*kib))
	case n >= kib:
		return fmt.Sprintf("%.1f KB", float64(n)/kib)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}
