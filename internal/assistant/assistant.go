package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sozercan/taskpad/internal/llm"
	"github.com/sozercan/taskpad/internal/metrics"
	"github.com/sozercan/taskpad/internal/prompt"
	"github.com/sozercan/taskpad/internal/session"
)

// Request is one submit from the interface.
type Request struct {
	Task   prompt.TaskKind
	Input  string
	Params llm.Params
	// Model overrides the configured model when set.
	Model string
}

// Result carries the entry appended to history plus call metadata.
type Result struct {
	Entry    session.ChatEntry
	Model    string
	Usage    llm.Usage
	Duration time.Duration
}

// Assistant runs a single interaction: template, complete, record.
type Assistant struct {
	llmProvider llm.Provider
	metrics     *metrics.Metrics
}

func New(llmProvider llm.Provider, m *metrics.Metrics) *Assistant {
	return &Assistant{
		llmProvider: llmProvider,
		metrics:     m,
	}
}

// Submit composes the prompt, calls the provider once and appends an entry to
// hist only when the call succeeded. Errors are *llm.Error.
func (a *Assistant) Submit(ctx context.Context, hist *session.History, req Request) (*Result, error) {
	slog.Info("Starting completion", "task", req.Task)
	startTime := time.Now()

	composed := prompt.BuildPrompt(req.Task, req.Input)
	resp, err := a.llmProvider.Complete(ctx, llm.Prompt(composed), req.Params, llm.WithModel(req.Model))
	elapsed := time.Since(startTime)
	if err != nil {
		a.observe(req.Task, llm.KindOf(err).String(), elapsed)
		slog.Error("Completion failed", "task", req.Task, "kind", llm.KindOf(err), "error", err)

		var llmErr *llm.Error
		if !errors.As(err, &llmErr) {
			// Normalize foreign errors into the taxonomy.
			return nil, &llm.Error{Kind: llm.KindTransport, Err: fmt.Errorf("completion failed: %w", err)}
		}
		return nil, err
	}
	a.observe(req.Task, "ok", elapsed)

	entry := session.NewEntry(req.Task, req.Input, resp.Content)
	hist.Append(entry)

	slog.Debug("Completion recorded", "task", req.Task, "duration", elapsed, "tokens", resp.Usage.TotalTokens)
	return &Result{
		Entry:    entry,
		Model:    resp.Model,
		Usage:    resp.Usage,
		Duration: elapsed,
	}, nil
}

// Clear empties hist.
func (a *Assistant) Clear(hist *session.History) {
	hist.Clear()
	if a.metrics != nil {
		a.metrics.RecordClear()
	}
	slog.Info("History cleared")
}

func (a *Assistant) observe(task prompt.TaskKind, outcome string, elapsed time.Duration) {
	if a.metrics != nil {
		a.metrics.ObserveCompletion(task.String(), outcome, elapsed)
	}
}
