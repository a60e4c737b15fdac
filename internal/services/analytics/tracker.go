// Package analytics accumulates per-session message and document statistics.
package analytics

import (
	"sync"
)

// Tracker accumulates raw counters for one session. Derived values are
// only computed by Summary.
type Tracker struct {
	mu sync.Mutex

	userMessageCount int
	userTotalTokens  int
	userTokenCounts  []int

	attachedDocCount       int
	attachedDocTypes       []string
	attachedDocTokenCounts []int
}

// NewTracker creates a zeroed tracker.
func NewTracker() *Tracker {
	return &Tracker{
		userTokenCounts:        []int{},
		attachedDocTypes:       []string{},
		attachedDocTokenCounts: []int{},
	}
}

// RecordUserMessage adds one user message worth tokens.
func (t *Tracker) RecordUserMessage(tokens int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.userMessageCount++
	t.userTotalTokens += tokens
	t.userTokenCounts = append(t.userTokenCounts, tokens)
}

// RecordAttachments adds the attachments of one turn. bundleTokens is
// appended even when it is zero so every turn leaves one entry.
func (t *Tracker) RecordAttachments(fileTypes []string, bundleTokens int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.attachedDocCount += len(fileTypes)
	t.attachedDocTypes = append(t.attachedDocTypes, fileTypes...)
	t.attachedDocTokenCounts = append(t.attachedDocTokenCounts, bundleTokens)
}

// Summary computes the derived statistics from the raw counters.
func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := Summary{
		UserMessageCount:       t.userMessageCount,
		UserTotalTokens:        t.userTotalTokens,
		UserTokenCounts:        append([]int{}, t.userTokenCounts...),
		AttachedDocCount:       t.attachedDocCount,
		AttachedDocTypes:       make(map[string]int),
		AttachedDocTokenCounts: append([]int{}, t.attachedDocTokenCounts...),
	}

	for _, tokens := range t.attachedDocTokenCounts {
		s.AttachedDocTotalTokens += tokens
	}
	for _, fileType := range t.attachedDocTypes {
		s.AttachedDocTypes[fileType]++
	}

	s.UserAvgTokens = average(s.UserTotalTokens, s.UserMessageCount)
	s.AttachedDocAvgTokens = average(s.AttachedDocTotalTokens, s.AttachedDocCount)
	return s
}

func average(total, count int) float64 {
	if count == 0 {
		return 0
	}
	return float64(total) / float64(count)
}
