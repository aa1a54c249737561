package session

import (
	"sync"
	"time"

	"github.com/sozercan/taskpad/internal/prompt"
)

// ChatEntry is one successful exchange. Entries are values; the History
// never hands out references to its own storage.
type ChatEntry struct {
	Task      prompt.TaskKind `json:"task"`
	Prompt    string          `json:"prompt"`
	Response  string          `json:"response"`
	CreatedAt time.Time       `json:"createdAt"`
}

// NewEntry stamps an entry with the current time.
func NewEntry(task prompt.TaskKind, userInput, response string) ChatEntry {
	return ChatEntry{
		Task:      task,
		Prompt:    userInput,
		Response:  response,
		CreatedAt: time.Now(),
	}
}

// History is the ordered log of one session. The zero value is empty and
// ready to use. A nil *History reads as empty and ignores Clear.
type History struct {
	mu      sync.Mutex
	entries []ChatEntry
}

func (h *History) Append(entry ChatEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, entry)
}

func (h *History) Clear() {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
}

// All returns a copy of the entries in insertion order.
func (h *History) All() []ChatEntry {
	if h == nil {
		return []ChatEntry{}
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]ChatEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

func (h *History) Latest() (ChatEntry, bool) {
	if h == nil {
		return ChatEntry{}, false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		return ChatEntry{}, false
	}
	return h.entries[len(h.entries)-1], true
}

func (h *History) Len() int {
	if h == nil {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
