package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sozercan/taskpad/apimodels"
	"github.com/sozercan/taskpad/internal/assistant"
	"github.com/sozercan/taskpad/internal/llm"
	"github.com/sozercan/taskpad/internal/prompt"
)

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	params := llm.DefaultParams()
	req := apimodels.CompletionRequest{Parameters: &params}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, apimodels.ErrorResponse{Error: fmt.Sprintf("Invalid request: %v", err)})
		return
	}
	defer r.Body.Close()
	if req.Parameters == nil {
		req.Parameters = &params
	}

	slog.Debug("Received completion request", "task", req.Task, "model", req.Model)

	task, err := prompt.ParseTaskKind(req.Task)
	if err != nil {
		writeError(w, http.StatusBadRequest, apimodels.ErrorResponse{Error: err.Error()})
		return
	}

	hist := s.openSession(w, r)
	result, err := s.assistant.Submit(r.Context(), hist, assistant.Request{
		Task:   task,
		Input:  req.Prompt,
		Params: *req.Parameters,
		Model:  req.Model,
	})
	if err != nil {
		writeLLMError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, apimodels.CompletionResponse{
		Entry: result.Entry,
		Metadata: apimodels.CompletionMetadata{
			Duration:   result.Duration.String(),
			Model:      result.Model,
			TokensUsed: result.Usage.TotalTokens,
		},
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	hist := s.lookupSession(r)

	resp := apimodels.HistoryResponse{Entries: hist.All()}
	if latest, ok := hist.Latest(); ok {
		resp.Latest = &latest
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	hist := s.lookupSession(r)
	s.assistant.Clear(hist)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	tasks := make([]apimodels.TaskInfo, 0, len(prompt.Tasks()))
	for _, k := range prompt.Tasks() {
		tasks = append(tasks, apimodels.TaskInfo{ID: k.String(), Label: k.Label(), Prefix: k.Prefix()})
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeLLMError(w http.ResponseWriter, err error) {
	resp := apimodels.ErrorResponse{Error: errorMessage(err), Kind: llm.KindOf(err).String()}

	status := http.StatusBadGateway
	var llmErr *llm.Error
	if errors.As(err, &llmErr) {
		switch llmErr.Kind {
		case llm.KindInvalidParameters:
			status = http.StatusBadRequest
		case llm.KindUpstream:
			resp.UpstreamStatus = llmErr.StatusCode
		}
	}
	writeError(w, status, resp)
}

func writeError(w http.ResponseWriter, status int, resp apimodels.ErrorResponse) {
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
