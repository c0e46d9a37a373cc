package session

import (
	"sync"
	"time"
)

// StatusEntry is one status line with the time it was set.
type StatusEntry struct {
	At   time.Time `json:"at"`
	Text string    `json:"text"`
}

// historyBuf keeps the most recent status lines, oldest first.
type historyBuf struct {
	mu      sync.Mutex
	entries []StatusEntry
	max     int
}

func newHistoryBuf() *historyBuf {
	return &historyBuf{max: maxHistory}
}

func (h *historyBuf) Write(text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, StatusEntry{At: time.Now(), Text: text})
	if len(h.entries) > h.max {
		excess := len(h.entries) - h.max
		h.entries = h.entries[excess:]
	}
}

func (h *historyBuf) Snapshot() []StatusEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		return nil
	}
	cp := make([]StatusEntry, len(h.entries))
	copy(cp, h.entries)
	return cp
}
