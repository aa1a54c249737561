package server

import (
	_ "embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sozercan/taskpad/internal/assistant"
	"github.com/sozercan/taskpad/internal/llm"
	"github.com/sozercan/taskpad/internal/prompt"
	"github.com/sozercan/taskpad/internal/session"
)

//go:embed web/index.html
var indexHTML string

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

type bounds struct {
	MinTemperature, MaxTemperature float64
	MinMaxTokens, MaxMaxTokens     int
	MinTopP, MaxTopP               float64
	MinTopK, MaxTopK               int
	MinPenalty, MaxPenalty         float64
}

var paramBounds = bounds{
	MinTemperature: llm.MinTemperature, MaxTemperature: llm.MaxTemperature,
	MinMaxTokens: llm.MinMaxTokens, MaxMaxTokens: llm.MaxMaxTokens,
	MinTopP: llm.MinTopP, MaxTopP: llm.MaxTopP,
	MinTopK: llm.MinTopK, MaxTopK: llm.MaxTopK,
	MinPenalty: llm.MinPenalty, MaxPenalty: llm.MaxPenalty,
}

type taskOption struct {
	ID       string
	Label    string
	Selected bool
}

type pageData struct {
	Tasks         []taskOption
	Input         string
	Params        llm.Params
	TopK          int
	TopKSupported bool
	Bounds        bounds
	History       []session.ChatEntry
	Latest        *session.ChatEntry
	Error         string
}

const defaultTopK = 40

func (s *Server) page(hist *session.History, task prompt.TaskKind, input string, params llm.Params, errMsg string) pageData {
	data := pageData{
		Input:         input,
		Params:        params,
		TopK:          defaultTopK,
		TopKSupported: s.llmCfg.SendTopK,
		Bounds:        paramBounds,
		History:       hist.All(),
		Error:         errMsg,
	}
	if params.TopK != nil {
		data.TopK = *params.TopK
	}
	for _, k := range prompt.Tasks() {
		data.Tasks = append(data.Tasks, taskOption{ID: k.String(), Label: k.Label(), Selected: k == task})
	}
	if latest, ok := hist.Latest(); ok {
		data.Latest = &latest
	}
	return data
}

func (s *Server) render(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := indexTemplate.Execute(w, data); err != nil {
		slog.Error("Failed to render page", "error", err)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	hist := s.lookupSession(r)
	s.render(w, http.StatusOK, s.page(hist, prompt.SummarizeText, "", llm.DefaultParams(), ""))
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	hist := s.lookupSession(r)

	if err := r.ParseForm(); err != nil {
		s.render(w, http.StatusBadRequest, s.page(hist, prompt.SummarizeText, "", llm.DefaultParams(), "Could not read the form: "+err.Error()))
		return
	}

	input := r.PostForm.Get("prompt")
	params := paramsFromForm(r, s.llmCfg.SendTopK)
	task, err := prompt.ParseTaskKind(r.PostForm.Get("task"))
	if err != nil {
		s.render(w, http.StatusBadRequest, s.page(hist, prompt.SummarizeText, input, params, err.Error()))
		return
	}

	hist = s.openSession(w, r)
	_, err = s.assistant.Submit(r.Context(), hist, assistant.Request{
		Task:   task,
		Input:  input,
		Params: params,
	})
	if err != nil {
		s.render(w, http.StatusOK, s.page(hist, task, input, params, errorMessage(err)))
		return
	}

	s.render(w, http.StatusOK, s.page(hist, task, "", params, ""))
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	hist := s.lookupSession(r)
	s.assistant.Clear(hist)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// paramsFromForm reads slider values, keeping defaults for missing or
// unparseable fields, and clamps the result into bounds.
func paramsFromForm(r *http.Request, topKSupported bool) llm.Params {
	p := llm.DefaultParams()
	p.Temperature = formFloat(r, "temperature", p.Temperature)
	p.MaxTokens = formInt(r, "max_tokens", p.MaxTokens)
	p.TopP = formFloat(r, "top_p", p.TopP)
	p.FrequencyPenalty = formFloat(r, "frequency_penalty", p.FrequencyPenalty)
	p.PresencePenalty = formFloat(r, "presence_penalty", p.PresencePenalty)
	if topKSupported && r.PostForm.Get("top_k_enabled") != "" {
		k := formInt(r, "top_k", defaultTopK)
		p.TopK = &k
	}
	return p.Clamp()
}

func formFloat(r *http.Request, key string, def float64) float64 {
	v, err := strconv.ParseFloat(r.PostForm.Get(key), 64)
	if err != nil {
		return def
	}
	return v
}

func formInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.PostForm.Get(key))
	if err != nil {
		return def
	}
	return v
}

func errorMessage(err error) string {
	var llmErr *llm.Error
	if errors.As(err, &llmErr) {
		return llmErr.UserMessage()
	}
	return err.Error()
}
