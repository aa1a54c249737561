package apimodels

import "github.com/sozercan/taskpad/internal/llm"

type CompletionRequest struct {
	// Task is the wire identifier of the canned task, e.g. "summarize_text".
	Task string `json:"task"`

	// Prompt is the raw user input inserted into the task template.
	Prompt string `json:"prompt"`

	// Parameters control sampling. Omitted fields keep their defaults.
	Parameters *llm.Params `json:"parameters,omitempty"`

	// Model overrides the configured model.
	Model string `json:"model,omitempty"`
}
