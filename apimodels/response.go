package apimodels

import "github.com/sozercan/taskpad/internal/session"

type CompletionResponse struct {
	// The entry appended to the session history
	Entry session.ChatEntry `json:"entry"`

	// Metadata about the call
	Metadata CompletionMetadata `json:"metadata"`
}

type CompletionMetadata struct {
	// Time spent waiting on the endpoint
	Duration string `json:"duration"`

	// Model reported by the endpoint
	Model string `json:"model"`

	TokensUsed int64 `json:"tokensUsed"`
}

type HistoryResponse struct {
	Entries []session.ChatEntry `json:"entries"`
	Latest  *session.ChatEntry  `json:"latest,omitempty"`
}

type TaskInfo struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Prefix string `json:"prefix"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`

	// UpstreamStatus is the endpoint's status code for upstream errors.
	UpstreamStatus int `json:"upstreamStatus,omitempty"`
}
