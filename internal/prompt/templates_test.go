package prompt

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryTaskHasATemplate(t *testing.T) {
	ids := map[string]bool{}
	for _, k := range Tasks() {
		tmpl, ok := templates[k]
		require.True(t, ok, "task %d has no template", k)
		assert.NotEmpty(t, tmpl.id)
		assert.NotEmpty(t, tmpl.label)
		assert.False(t, ids[tmpl.id], "duplicate id %s", tmpl.id)
		ids[tmpl.id] = true
	}
	assert.Len(t, templates, len(Tasks()))
}

func TestBuildPromptExactWording(t *testing.T) {
	assert.Equal(t, "Summarize the following text:\nThe quick brown fox.", BuildPrompt(SummarizeText, "The quick brown fox."))
	assert.Equal(t, "Draft a formal letter based on this input:\nhi", BuildPrompt(DraftLetter, "hi"))
	assert.Equal(t, "Create meeting minutes from the following discussion:\nhi", BuildPrompt(MeetingMinutes, "hi"))
}

func TestBuildPromptPrefixThenInput(t *testing.T) {
	inputs := []string{"", "plain", "multi\nline\n", "  padded  ", "{input} literal"}
	for _, k := range Tasks() {
		if k == Freeform {
			continue
		}
		for _, in := range inputs {
			got := BuildPrompt(k, in)
			require.True(t, strings.HasPrefix(got, k.Prefix()), "%s: %q", k, got)
			assert.Equal(t, in, strings.TrimPrefix(got, k.Prefix()))
			assert.NotEmpty(t, k.Prefix())
		}
	}
}

func TestBuildPromptFreeformUnchanged(t *testing.T) {
	assert.Equal(t, "", BuildPrompt(Freeform, ""))
	assert.Equal(t, "write me a haiku", BuildPrompt(Freeform, "write me a haiku"))
}

func TestBuildPromptIsPure(t *testing.T) {
	for _, k := range Tasks() {
		assert.Equal(t, BuildPrompt(k, "same"), BuildPrompt(k, "same"))
	}
}

func TestUnknownKindFallsBackToFreeform(t *testing.T) {
	assert.Equal(t, "raw", BuildPrompt(TaskKind(99), "raw"))
	assert.Equal(t, "freeform", TaskKind(-1).String())
}

func TestParseTaskKind(t *testing.T) {
	for _, k := range Tasks() {
		got, err := ParseTaskKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	got, err := ParseTaskKind("  Meeting_Minutes ")
	require.NoError(t, err)
	assert.Equal(t, MeetingMinutes, got)

	_, err = ParseTaskKind("translate")
	assert.Error(t, err)
}

func TestTaskKindJSON(t *testing.T) {
	var v struct {
		Task TaskKind `json:"task"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"task":"draft_letter"}`), &v))
	assert.Equal(t, DraftLetter, v.Task)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"task":"draft_letter"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"task":"nope"}`), &v))
}
