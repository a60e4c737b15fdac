package mocks

import (
	"sync"
)

// FixedCounter is a deterministic tokens.Counter. Texts registered with
// Set return their fixed count; any other text returns Default, or the
// number of bytes when Default is negative.
type FixedCounter struct {
	Default int

	mu     sync.RWMutex
	counts map[string]int
}

// NewFixedCounter creates a FixedCounter that falls back to byte length.
func NewFixedCounter() *FixedCounter {
	return &FixedCounter{
		Default: -1,
		counts:  make(map[string]int),
	}
}

// Set registers the count for an exact text.
func (c *FixedCounter) Set(text string, count int) *FixedCounter {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	c.counts[text] = count
	return c
}

// Count returns the registered count for text.
func (c *FixedCounter) Count(text string) int {
	c.mu.RLock()
	count, ok := c.counts[text]
	c.mu.RUnlock()

	if ok {
		return count
	}
	if c.Default < 0 {
		return len(text)
	}
	return c.Default
}
