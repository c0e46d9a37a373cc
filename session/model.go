package session

import (
	"sync"
	"time"

	"dmx-editor/controller"
	"dmx-editor/preset"
)

const maxHistory = 20

// Session is one editor workspace: the preset collection, the controller
// settings, the unsaved-changes flag and the status line. State lives only
// in memory.
type Session struct {
	ID        string
	Name      string
	CreatedAt time.Time

	mu         sync.Mutex
	lastActive time.Time
	presets    *preset.Collection
	settings   controller.Settings
	dirty      bool
	revision   uint64 // bumped on every local edit
	status     string
	history    *historyBuf

	outMu     sync.Mutex
	outChan   chan State
	kickChan  chan struct{}
	connected bool

	done      chan struct{}
	closeOnce sync.Once
}

func newSession(id, name string, initialCount int) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		Name:       name,
		CreatedAt:  now,
		lastActive: now,
		presets:    preset.NewCollection(initialCount),
		settings:   controller.DefaultSettings(),
		history:    newHistoryBuf(),
		done:       make(chan struct{}),
	}
}

// Info is the session summary used by listings.
type Info struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
	Connected  bool      `json:"connected"`
	Count      int       `json:"count"`
	Dirty      bool      `json:"dirty"`
}

// State is the full editor view of a session.
type State struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Count     int                 `json:"count"`
	CanInsert bool                `json:"canInsert"`
	Dirty     bool                `json:"dirty"`
	Status    string              `json:"status"`
	Settings  controller.Settings `json:"settings"`
	Presets   []preset.Preset     `json:"presets"`
	History   []StatusEntry       `json:"history"`
}

// Info returns the session summary.
func (s *Session) Info() Info {
	s.mu.Lock()
	info := Info{
		ID:         s.ID,
		Name:       s.Name,
		CreatedAt:  s.CreatedAt,
		LastActive: s.lastActive,
		Count:      s.presets.Count(),
		Dirty:      s.dirty,
	}
	s.mu.Unlock()

	s.outMu.Lock()
	info.Connected = s.connected
	s.outMu.Unlock()
	return info
}

// Snapshot returns the current editor state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() State {
	return State{
		ID:        s.ID,
		Name:      s.Name,
		Count:     s.presets.Count(),
		CanInsert: s.presets.CanInsert(),
		Dirty:     s.dirty,
		Status:    s.status,
		Settings:  s.settings,
		Presets:   s.presets.Active(),
		History:   s.history.Snapshot(),
	}
}

func (s *Session) setStatusLocked(text string) {
	s.status = text
	s.history.Write(text)
}

// SetClient registers a channel to receive state pushes. A previously
// connected client is kicked: its kick channel is closed so the WebSocket
// handler can drop that connection. The returned kick channel is closed if
// this client is itself displaced later.
func (s *Session) SetClient(ch chan State) <-chan struct{} {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	if s.kickChan != nil {
		close(s.kickChan)
	}
	kick := make(chan struct{})
	s.kickChan = kick
	s.outChan = ch
	s.connected = true
	return kick
}

// ClearClient is called when a connection ends. Session state is only reset
// if ch is still the current owner. ch is always closed so the pump
// goroutine exits.
func (s *Session) ClearClient(ch chan State) {
	s.outMu.Lock()
	if s.outChan == ch {
		s.outChan = nil
		s.connected = false
		s.kickChan = nil
	}
	s.outMu.Unlock()
	close(ch)
}

// publish hands st to the connected client without blocking. A pending,
// unread state is replaced since only the newest one matters.
func (s *Session) publish(st State) {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	if s.outChan == nil {
		return
	}
	select {
	case s.outChan <- st:
		return
	default:
	}
	select {
	case <-s.outChan:
	default:
	}
	select {
	case s.outChan <- st:
	default:
	}
}

// Done returns a channel that is closed when the session is removed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) close() {
	s.closeOnce.Do(func() { close(s.done) })
}
