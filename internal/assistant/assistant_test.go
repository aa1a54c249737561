package assistant

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sozercan/taskpad/internal/config"
	"github.com/sozercan/taskpad/internal/llm"
	"github.com/sozercan/taskpad/internal/metrics"
	"github.com/sozercan/taskpad/internal/prompt"
	"github.com/sozercan/taskpad/internal/session"
)

type fakeProvider struct {
	content string
	err     error

	gotInput  llm.Input
	gotParams llm.Params
	calls     int
}

func (f *fakeProvider) Complete(_ context.Context, input llm.Input, params llm.Params, _ ...llm.Option) (*llm.Response, error) {
	f.calls++
	f.gotInput = input
	f.gotParams = params
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Response{Content: f.content, Shape: llm.ShapeChat, Model: "fake"}, nil
}

func TestSubmitEndToEnd(t *testing.T) {
	fake := &fakeProvider{content: "A fox is quick and brown."}
	a := New(fake, metrics.New())
	var hist session.History

	params := llm.Params{Temperature: 0.7, MaxTokens: 100, TopP: 0.95}
	res, err := a.Submit(context.Background(), &hist, Request{
		Task:   prompt.SummarizeText,
		Input:  "The quick brown fox.",
		Params: params,
	})
	require.NoError(t, err)

	assert.Equal(t, "Summarize the following text:\nThe quick brown fox.", fake.gotInput.Text())
	assert.Equal(t, params, fake.gotParams)

	assert.Equal(t, prompt.SummarizeText, res.Entry.Task)
	assert.Equal(t, "The quick brown fox.", res.Entry.Prompt)
	assert.Equal(t, "A fox is quick and brown.", res.Entry.Response)

	latest, ok := hist.Latest()
	require.True(t, ok)
	assert.Equal(t, res.Entry, latest)
	assert.Equal(t, 1, hist.Len())
}

func TestSubmitFailureDoesNotAppend(t *testing.T) {
	for _, kind := range []llm.ErrorKind{llm.KindTransport, llm.KindUpstream, llm.KindMalformedResponse, llm.KindInvalidParameters} {
		t.Run(kind.String(), func(t *testing.T) {
			fake := &fakeProvider{err: &llm.Error{Kind: kind, StatusCode: 500}}
			a := New(fake, metrics.New())
			var hist session.History
			hist.Append(session.NewEntry(prompt.Freeform, "before", "kept"))

			res, err := a.Submit(context.Background(), &hist, Request{Task: prompt.Freeform, Input: "x", Params: llm.DefaultParams()})
			assert.Nil(t, res)
			assert.Equal(t, kind, llm.KindOf(err))
			assert.Equal(t, 1, hist.Len())
		})
	}
}

func TestSubmitWrapsForeignErrors(t *testing.T) {
	fake := &fakeProvider{err: errors.New("boom")}
	a := New(fake, nil)
	var hist session.History

	_, err := a.Submit(context.Background(), &hist, Request{Task: prompt.Freeform, Params: llm.DefaultParams()})
	assert.Equal(t, llm.KindTransport, llm.KindOf(err))
	assert.Equal(t, 0, hist.Len())
}

func TestSubmitAgainstUpstream500(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal", http.StatusInternalServerError)
	}))
	defer ts.Close()

	provider, err := llm.NewHTTP(&config.LLMConfig{APIKey: "k", APIEndpoint: ts.URL, Model: "m"}, nil)
	require.NoError(t, err)
	a := New(provider, metrics.New())
	var hist session.History

	_, err = a.Submit(context.Background(), &hist, Request{Task: prompt.DraftLetter, Input: "x", Params: llm.DefaultParams()})
	assert.True(t, errors.Is(err, llm.ErrUpstream))
	assert.Empty(t, hist.All())
}

func TestClear(t *testing.T) {
	a := New(&fakeProvider{}, metrics.New())
	var hist session.History
	hist.Append(session.NewEntry(prompt.Freeform, "a", "b"))

	a.Clear(&hist)
	assert.Empty(t, hist.All())
}
