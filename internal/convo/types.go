// Package convo assembles bounded conversation context and derives
// deterministic tool hints from incoming messages.
package convo

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// MessageKind is the declared type of an incoming message.
type MessageKind string

const (
	KindText  MessageKind = "text"
	KindImage MessageKind = "image"
	KindFile  MessageKind = "file"
)

// Turn is one prior exchange in the conversation window. The upstream chat
// store owns the history; turns arrive read-only with the webhook payload.
type Turn struct {
	Role    Role        `json:"role"`
	Content string      `json:"content"`
	Kind    MessageKind `json:"type,omitempty"`
	FileURL string      `json:"fileUrl,omitempty"`
}

// Inbound is one webhook invocation's message plus its history window.
type Inbound struct {
	UserID    string
	Text      string
	Kind      MessageKind
	FileURL   string
	Timestamp string
	History   []Turn
}

// ToolHint is the deterministic routing decision for one inbound message.
// It is the only signal the orchestration layer uses for tool selection.
type ToolHint struct {
	MustUseVision  bool
	MustUseArchive bool
	AugmentedText  string
}
