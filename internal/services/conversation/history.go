// Package conversation keeps the token-bounded dialogue history of a session.
package conversation

import (
	"sync"

	"github.com/unifiedui/docchat-service/internal/core/tokens"
	"github.com/unifiedui/docchat-service/internal/domain/models"
)

type entry struct {
	message models.Message
	tokens  int
}

// History is an ordered message history whose first entry is always the
// system prompt. Token counts are computed once per message on append.
type History struct {
	mu      sync.RWMutex
	counter tokens.Counter
	entries []entry
	total   int
}

// NewHistory creates a history holding only the system prompt.
func NewHistory(systemPrompt string, counter tokens.Counter) *History {
	if counter == nil {
		counter = tokens.NewCharCounter()
	}

	h := &History{counter: counter}
	h.append(models.NewSystemMessage(systemPrompt))
	return h
}

// AppendUser appends a user message.
func (h *History) AppendUser(text string) {
	h.append(models.NewUserMessage(text))
}

// AppendAssistant appends an assistant message.
func (h *History) AppendAssistant(text string) {
	h.append(models.NewAssistantMessage(text))
}

func (h *History) append(msg models.Message) {
	count := h.counter.Count(msg.Content)

	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries, entry{message: msg, tokens: count})
	h.total += count
}

// Messages returns a copy of the history in order.
func (h *History) Messages() []models.Message {
	h.mu.RLock()
	defer h.mu.RUnlock()

	messages := make([]models.Message, len(h.entries))
	for i, e := range h.entries {
		messages[i] = e.message
	}
	return messages
}

// Len returns the number of messages, including the system prompt.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// TotalTokens returns the summed token count of all messages.
func (h *History) TotalTokens() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.total
}

// EnforceBudget removes the oldest non-system messages while the total
// exceeds maxTokens. The system prompt and the newest message are always
// kept, so a single oversized message survives and the loop terminates.
func (h *History) EnforceBudget(maxTokens int) (trimmed bool, removed int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for h.total > maxTokens && len(h.entries) > 2 {
		h.total -= h.entries[1].tokens
		h.entries = append(h.entries[:1], h.entries[2:]...)
		removed++
	}
	return removed > 0, removed
}
