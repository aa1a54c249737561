package llm

import (
	"context"
	"fmt"
	"strings"
)

type Provider interface {
	// Complete sends the input to the completion endpoint using params and
	// returns the generated text. Failures are always *Error.
	Complete(ctx context.Context, input Input, params Params, opts ...Option) (*Response, error)
}

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Input is either a single prompt or an ordered list of messages.
type Input struct {
	prompt   string
	messages []Message
}

// Prompt wraps a single composed prompt string.
func Prompt(s string) Input {
	return Input{prompt: s}
}

// Messages wraps an ordered list of role-tagged messages.
func Messages(msgs ...Message) Input {
	return Input{messages: append(make([]Message, 0, len(msgs)), msgs...)}
}

// IsMessages reports whether the input was built from a message list.
func (in Input) IsMessages() bool {
	return in.messages != nil
}

// ChatMessages returns the input in chat shape. A prompt becomes a single
// user message, preceded by a system message when system is non-empty.
func (in Input) ChatMessages(system string) []Message {
	if in.IsMessages() {
		out := make([]Message, len(in.messages))
		copy(out, in.messages)
		return out
	}
	var msgs []Message
	if system != "" {
		msgs = append(msgs, Message{Role: RoleSystem, Content: system})
	}
	return append(msgs, Message{Role: RoleUser, Content: in.prompt})
}

// Text returns the input in legacy prompt shape. Messages are flattened
// into "role: content" lines.
func (in Input) Text() string {
	if !in.IsMessages() {
		return in.prompt
	}
	lines := make([]string, 0, len(in.messages))
	for _, m := range in.messages {
		lines = append(lines, fmt.Sprintf("%s: %s", m.Role, m.Content))
	}
	return strings.Join(lines, "\n")
}

type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
}

type Option func(*Options)

type Options struct {
	Model string
}

// WithModel overrides the configured model for a single call.
func WithModel(model string) Option {
	return func(o *Options) {
		if model != "" {
			o.Model = model
		}
	}
}

// Shape identifies which response layout carried the generated text.
type Shape string

const (
	ShapeText Shape = "text"
	ShapeChat Shape = "chat"
)

type Response struct {
	Content string
	Shape   Shape
	Model   string
	Usage   Usage
}
