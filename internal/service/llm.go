package service

import "context"

// ToolCall is a function invocation requested by the model.
type ToolCall struct {
	Name string
	Args map[string]any
}

// ToolResult is the response to one ToolCall, fed back into the same exchange.
// Response values must be JSON-like: string, bool, numbers, nil, []any, map[string]any.
type ToolResult struct {
	Name     string
	Response map[string]any
}

// ModelReply is one model turn: plain text, tool calls, or both.
type ModelReply struct {
	Text  string
	Calls []ToolCall
}

// ToolParam declares one scalar argument of a tool.
type ToolParam struct {
	Name        string
	Type        string // "string" | "number"
	Description string
}

// ToolSpec declares a callable tool.
type ToolSpec struct {
	Name        string
	Description string
	Params      []ToolParam
}

// ChatSession is one multi-turn exchange with a model.
type ChatSession interface {
	Send(ctx context.Context, text string) (ModelReply, error)
	SendToolResults(ctx context.Context, results []ToolResult) (ModelReply, error)
}

// LanguageModel is one entry of the chat failover list.
type LanguageModel interface {
	Name() string
	// StartChat opens a session seeded with prior turns. The system text and tools
	// apply to every turn of the session.
	StartChat(system string, tools []ToolSpec, history []Turn) ChatSession
}

// Turn is one prior message in provider-neutral form.
type Turn struct {
	FromUser bool
	Text     string
}

// ModelProfile configures one model of the failover list.
type ModelProfile struct {
	Name            string
	Temperature     float32
	MaxOutputTokens int32
}
