// Package prompt maps canned tasks and free-text input to the prompt sent to
// the completion endpoint.
package prompt

import (
	"fmt"
	"strings"
)

type TaskKind int

const (
	SummarizeText TaskKind = iota
	DraftLetter
	MeetingMinutes
	RephraseText
	GenerateIdeas
	CreateStory
	WriteBlogPost
	Freeform
)

type template struct {
	id     string
	label  string
	prefix string
}

// Freeform has an empty prefix, so BuildPrompt returns its input unchanged.
var templates = map[TaskKind]template{
	SummarizeText:  {"summarize_text", "Text Summarization", "Summarize the following text:\n"},
	DraftLetter:    {"draft_letter", "Draft Letter/Email", "Draft a formal letter based on this input:\n"},
	MeetingMinutes: {"meeting_minutes", "Create Meeting Minutes", "Create meeting minutes from the following discussion:\n"},
	RephraseText:   {"rephrase_text", "Rephrase Text", "Rephrase the following text:\n"},
	GenerateIdeas:  {"generate_ideas", "Generate Ideas", "Generate ideas based on the following topic:\n"},
	CreateStory:    {"create_story", "Create Story", "Write a short story based on this prompt:\n"},
	WriteBlogPost:  {"write_blog_post", "Write Blog Post", "Write a blog post about the following topic:\n"},
	Freeform:       {"freeform", "Freeform", ""},
}

// Tasks lists every kind in declaration order.
func Tasks() []TaskKind {
	return []TaskKind{
		SummarizeText,
		DraftLetter,
		MeetingMinutes,
		RephraseText,
		GenerateIdeas,
		CreateStory,
		WriteBlogPost,
		Freeform,
	}
}

func lookup(task TaskKind) template {
	if t, ok := templates[task]; ok {
		return t
	}
	return templates[Freeform]
}

// BuildPrompt composes the prompt for task around userInput.
func BuildPrompt(task TaskKind, userInput string) string {
	return lookup(task).prefix + userInput
}

// Prefix is the fixed text placed before the user input.
func (k TaskKind) Prefix() string {
	return lookup(k).prefix
}

// String returns the wire identifier, e.g. "summarize_text".
func (k TaskKind) String() string {
	return lookup(k).id
}

// Label is the human-readable name shown in the task selector.
func (k TaskKind) Label() string {
	return lookup(k).label
}

func ParseTaskKind(s string) (TaskKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range Tasks() {
		if templates[k].id == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown task %q", s)
}

func (k TaskKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *TaskKind) UnmarshalText(b []byte) error {
	v, err := ParseTaskKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
