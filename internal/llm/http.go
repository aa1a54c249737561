package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sozercan/taskpad/internal/config"
)

// Flavor selects the endpoint family.
type Flavor string

const (
	FlavorChat       Flavor = "chat"
	FlavorCompletion Flavor = "completion"
)

func ParseFlavor(s string) (Flavor, error) {
	switch Flavor(strings.ToLower(s)) {
	case FlavorChat, "":
		return FlavorChat, nil
	case FlavorCompletion:
		return FlavorCompletion, nil
	default:
		return "", fmt.Errorf("unknown LLM flavor %q", s)
	}
}

const maxResponseBytes = 4 << 20

// HTTP talks to an OpenAI-compatible endpoint over plain JSON.
type HTTP struct {
	client *http.Client
	cfg    *config.LLMConfig
	flavor Flavor
}

func NewHTTP(cfg *config.LLMConfig, client *http.Client) (*HTTP, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingCredential
	}
	flavor, err := ParseFlavor(cfg.Flavor)
	if err != nil {
		return nil, err
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &HTTP{
		client: client,
		cfg:    cfg,
		flavor: flavor,
	}, nil
}

func (h *HTTP) url() string {
	base := strings.TrimRight(h.cfg.APIEndpoint, "/")
	if h.flavor == FlavorCompletion {
		return base + "/completions"
	}
	return base + "/chat/completions"
}

// body builds the request for the configured flavor.
func (h *HTTP) body(input Input, params Params, options *Options) any {
	common := sampling{
		Model:            options.Model,
		Temperature:      params.Temperature,
		MaxTokens:        params.MaxTokens,
		TopP:             params.TopP,
		TopK:             params.TopK,
		FrequencyPenalty: params.FrequencyPenalty,
		PresencePenalty:  params.PresencePenalty,
	}
	if h.flavor == FlavorCompletion {
		return completionRequest{sampling: common, Prompt: input.Text()}
	}
	return chatRequest{sampling: common, Messages: input.ChatMessages(h.cfg.SystemPrompt)}
}

func (h *HTTP) Complete(ctx context.Context, input Input, params Params, opts ...Option) (*Response, error) {
	if !h.cfg.SendTopK {
		// top_k is neither sent nor checked.
		params.TopK = nil
	}
	if err := params.Validate(); err != nil {
		return nil, invalidParams(err)
	}

	options := &Options{Model: h.cfg.Model}
	for _, opt := range opts {
		opt(options)
	}

	payload, err := json.Marshal(h.body(input, params, options))
	if err != nil {
		return nil, invalidParams(fmt.Errorf("encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url(), bytes.NewReader(payload))
	if err != nil {
		return nil, transportError(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+h.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	slog.Debug("Sending completion request", "url", req.URL.String(), "flavor", h.flavor, "model", options.Model)

	resp, err := h.client.Do(req)
	if err != nil {
		slog.Error("Completion request failed", "error", err)
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, transportError(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := upstreamMessage(data)
		slog.Warn("Completion endpoint returned an error", "status", resp.StatusCode, "message", msg)
		return nil, upstreamError(resp.StatusCode, msg)
	}

	out, err := decodeResponse(data)
	if err != nil {
		slog.Warn("Completion response could not be decoded", "error", err)
		return nil, err
	}
	if (out.Shape == ShapeChat) != (h.flavor == FlavorChat) {
		slog.Debug("Response shape differs from configured flavor", "shape", out.Shape, "flavor", h.flavor)
	}
	if out.Model == "" {
		out.Model = options.Model
	}
	return out, nil
}
