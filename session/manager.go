package session

import (
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"dmx-editor/preset"
)

var ErrNameTaken = errors.New("session name already in use")
var ErrNotFound = errors.New("session not found")

type Manager struct {
	mu           sync.RWMutex
	sessions     map[string]*Session
	initialCount int
}

// NewManager creates a manager whose new sessions start with initialCount
// active presets.
func NewManager(initialCount int) *Manager {
	if initialCount == 0 {
		initialCount = preset.DefaultCount
	}
	return &Manager{sessions: make(map[string]*Session), initialCount: initialCount}
}

func (m *Manager) Create(name string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.sessions {
		if s.Name == name {
			return nil, ErrNameTaken
		}
	}

	s := newSession(uuid.New().String(), name, m.initialCount)
	m.sessions[s.ID] = s
	return s, nil
}

// List returns session summaries, oldest first.
func (m *Manager) List() []Info {
	m.mu.RLock()
	list := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		list = append(list, s)
	}
	m.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	infos := make([]Info, len(list))
	for i, s := range list {
		infos[i] = s.Info()
	}
	return infos
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Remove discards a session and closes its Done channel.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return ErrNotFound
	}
	s.close()
	delete(m.sessions, id)
	return nil
}
