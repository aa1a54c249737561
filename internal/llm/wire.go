package llm

import (
	"encoding/json"
	"strings"
)

// sampling carries the model and generation parameters common to both
// endpoint flavors.
type sampling struct {
	Model            string  `json:"model"`
	Temperature      float64 `json:"temperature"`
	MaxTokens        int     `json:"max_tokens"`
	TopP             float64 `json:"top_p"`
	TopK             *int    `json:"top_k,omitempty"`
	FrequencyPenalty float64 `json:"frequency_penalty,omitempty"`
	PresencePenalty  float64 `json:"presence_penalty,omitempty"`
}

// chatRequest is the /chat/completions body. messages is always sent, even
// when empty.
type chatRequest struct {
	sampling
	Messages []Message `json:"messages"`
}

// completionRequest is the legacy /completions body. prompt is always sent,
// even when empty.
type completionRequest struct {
	sampling
	Prompt string `json:"prompt"`
}

type responseBody struct {
	Model   string            `json:"model"`
	Choices []json.RawMessage `json:"choices"`
	Usage   *struct {
		PromptTokens     int64 `json:"prompt_tokens"`
		CompletionTokens int64 `json:"completion_tokens"`
		TotalTokens      int64 `json:"total_tokens"`
	} `json:"usage"`
}

// generation is the decoded first choice: either a textChoice or a
// chatChoice.
type generation interface {
	shape() Shape
	content() string
}

type textChoice struct {
	Text string
}

func (c textChoice) shape() Shape    { return ShapeText }
func (c textChoice) content() string { return c.Text }

type chatChoice struct {
	Role    Role
	Content string
}

func (c chatChoice) shape() Shape    { return ShapeChat }
func (c chatChoice) content() string { return c.Content }

// rawChoice keeps null and absent apart from empty strings.
type rawChoice struct {
	Text    *string `json:"text"`
	Message *struct {
		Role    Role    `json:"role"`
		Content *string `json:"content"`
	} `json:"message"`
}

func decodeChoice(raw json.RawMessage) (generation, error) {
	var rc rawChoice
	if err := json.Unmarshal(raw, &rc); err != nil {
		return nil, malformedError("decode choice: %w", err)
	}
	switch {
	case rc.Message != nil && rc.Message.Content != nil:
		return chatChoice{Role: rc.Message.Role, Content: *rc.Message.Content}, nil
	case rc.Text != nil:
		return textChoice{Text: *rc.Text}, nil
	default:
		return nil, malformedError("choice has neither text nor message.content")
	}
}

func decodeResponse(data []byte) (*Response, error) {
	var body responseBody
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, malformedError("decode response: %w", err)
	}
	if body.Choices == nil {
		return nil, malformedError("response has no choices field")
	}
	if len(body.Choices) == 0 {
		return nil, malformedError("response has an empty choices array")
	}

	gen, err := decodeChoice(body.Choices[0])
	if err != nil {
		return nil, err
	}

	resp := &Response{
		Content: gen.content(),
		Shape:   gen.shape(),
		Model:   body.Model,
	}
	if body.Usage != nil {
		resp.Usage = Usage{
			PromptTokens:     body.Usage.PromptTokens,
			CompletionTokens: body.Usage.CompletionTokens,
			TotalTokens:      body.Usage.TotalTokens,
		}
	}
	return resp, nil
}

// upstreamMessage extracts {"error":{"message":...}} when present and
// otherwise returns the trimmed body.
func upstreamMessage(data []byte) string {
	var env struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(data, &env); err == nil && len(env.Error) > 0 {
		var obj struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(env.Error, &obj); err == nil && obj.Message != "" {
			return obj.Message
		}
		var s string
		if err := json.Unmarshal(env.Error, &s); err == nil && s != "" {
			return s
		}
	}
	return strings.TrimSpace(string(data))
}
