package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"
	"github.com/sozercan/taskpad/internal/config"
)

// OpenAI client implementation. Only the chat flavor is supported.
type OpenAI struct {
	client *openai.Client
	cfg    *config.LLMConfig
}

func NewOpenAI(cfg *config.LLMConfig, httpClient *http.Client) (*OpenAI, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingCredential
	}
	if flavor, err := ParseFlavor(cfg.Flavor); err != nil {
		return nil, err
	} else if flavor != FlavorChat {
		return nil, fmt.Errorf("provider %q supports only the chat flavor; use provider \"http\" for %q", cfg.Provider, flavor)
	}

	opts := []option.RequestOption{
		option.WithMaxRetries(0),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	switch providerName(cfg) {
	case ProviderAzure:
		opts = append(opts,
			azure.WithEndpoint(cfg.APIEndpoint, cfg.APIVersion),
			azure.WithAPIKey(cfg.APIKey),
		)
	default:
		opts = append(opts,
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(strings.TrimRight(cfg.APIEndpoint, "/")+"/"),
		)
	}

	return &OpenAI{
		client: openai.NewClient(opts...),
		cfg:    cfg,
	}, nil
}

func (o *OpenAI) Complete(ctx context.Context, input Input, params Params, opts ...Option) (*Response, error) {
	if !o.cfg.SendTopK {
		params.TopK = nil
	}
	if err := params.Validate(); err != nil {
		return nil, invalidParams(err)
	}

	options := &Options{Model: o.cfg.Model}
	for _, opt := range opts {
		opt(options)
	}

	var reqOpts []option.RequestOption
	if params.TopK != nil {
		reqOpts = append(reqOpts, option.WithJSONSet("top_k", *params.TopK))
	}

	resp, err := o.client.Chat.Completions.New(
		ctx,
		openai.ChatCompletionNewParams{
			Model:            openai.F(options.Model),
			Messages:         openai.F(sdkMessages(input.ChatMessages(o.cfg.SystemPrompt))),
			Temperature:      openai.F(params.Temperature),
			MaxTokens:        openai.F(int64(params.MaxTokens)),
			TopP:             openai.F(params.TopP),
			FrequencyPenalty: openai.F(params.FrequencyPenalty),
			PresencePenalty:  openai.F(params.PresencePenalty),
		},
		reqOpts...,
	)
	if err != nil {
		slog.Error("Chat completion failed", "provider", o.cfg.Provider, "error", err)
		return nil, classifySDKError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, malformedError("response has no choices")
	}
	content := resp.Choices[0].Message.JSON.Content
	if content.IsMissing() || content.IsNull() {
		return nil, malformedError("choice has no message.content")
	}

	model := resp.Model
	if model == "" {
		model = options.Model
	}
	return &Response{
		Content: resp.Choices[0].Message.Content,
		Shape:   ShapeChat,
		Model:   model,
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

func sdkMessages(msgs []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

// classifySDKError maps openai-go failures onto ErrorKind.
func classifySDKError(err error) *Error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return upstreamError(apiErr.StatusCode, apiErr.Message)
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return malformedError("decode response: %w", err)
	}
	return transportError(err)
}
