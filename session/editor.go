package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dmx-editor/controller"
	"dmx-editor/preset"
)

var ErrUnsavedChanges = errors.New("unsaved changes would be lost")

// Syncer is the remote side of Load and Save.
type Syncer interface {
	FetchPresets(ctx context.Context) (controller.Snapshot, error)
	SaveAll(ctx context.Context, s controller.Settings, presets []preset.Preset) controller.Tally
}

// mutate applies fn to the collection under the session lock. A change
// marks the session dirty and is pushed to the connected client.
func (s *Session) mutate(fn func(c *preset.Collection) (bool, error)) error {
	s.mu.Lock()
	changed, err := fn(s.presets)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.lastActive = time.Now()
	if changed {
		s.dirty = true
		s.revision++
	}
	st := s.snapshotLocked()
	s.mu.Unlock()

	if changed {
		s.publish(st)
	}
	return nil
}

// Insert adds a blank preset after afterID. A full collection is left as is.
func (s *Session) Insert(afterID int) error {
	return s.mutate(func(c *preset.Collection) (bool, error) {
		return c.Insert(afterID)
	})
}

// Delete removes the preset with the given id.
func (s *Session) Delete(id int) error {
	return s.mutate(func(c *preset.Collection) (bool, error) {
		return true, c.Delete(id)
	})
}

// Move swaps a preset with its neighbour in dir.
func (s *Session) Move(id int, dir preset.Direction) error {
	return s.mutate(func(c *preset.Collection) (bool, error) {
		return c.Move(id, dir)
	})
}

// Rename sets a preset name and returns the stored, truncated name.
func (s *Session) Rename(id int, name string) (string, error) {
	var stored string
	err := s.mutate(func(c *preset.Collection) (bool, error) {
		var err error
		stored, err = c.Rename(id, name)
		return err == nil, err
	})
	return stored, err
}

// SetValue stores raw, parsed and clamped, in one channel.
func (s *Session) SetValue(id int, section preset.Section, index int, raw string) (uint8, error) {
	var stored uint8
	err := s.mutate(func(c *preset.Collection) (bool, error) {
		var err error
		stored, err = c.SetValue(id, section, index, raw)
		return err == nil, err
	})
	return stored, err
}

// EnterKeys replays keypad presses against the current channel value and
// stores the result. An invalid key rejects the whole entry. An entry that
// leaves the value as it was is not an edit.
func (s *Session) EnterKeys(id int, section preset.Section, index int, keys []string) (uint8, error) {
	var stored uint8
	err := s.mutate(func(c *preset.Collection) (bool, error) {
		p, err := c.Preset(id)
		if err != nil {
			return false, err
		}
		if index < 0 || index >= preset.UniverseSize {
			return false, fmt.Errorf("%w: %d", preset.ErrChannelRange, index)
		}
		if _, err := preset.ParseSection(string(section)); err != nil {
			return false, err
		}
		current := p.Universe(section)[index]
		pad := preset.NewKeypad(current)
		for _, key := range keys {
			if err := pad.Apply(key); err != nil {
				return false, err
			}
		}
		stored = pad.Value()
		return stored != current, c.SetChannel(id, section, index, stored)
	})
	return stored, err
}

// Preset returns one preset together with its active neighbours.
func (s *Session) Preset(id int) (p preset.Preset, prev, next int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err = s.presets.Preset(id)
	if err != nil {
		return preset.Preset{}, 0, 0, err
	}
	prev, next = s.presets.Neighbors(id)
	return p, prev, next, nil
}

// Settings returns the controller settings.
func (s *Session) Settings() controller.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// UpdateSettings validates, normalizes and stores new controller settings.
func (s *Session) UpdateSettings(next controller.Settings) (controller.Settings, error) {
	next = next.Normalize()
	if err := next.Validate(); err != nil {
		return controller.Settings{}, err
	}
	s.mu.Lock()
	changed := next != s.settings
	s.settings = next
	s.lastActive = time.Now()
	if changed {
		s.dirty = true
		s.revision++
	}
	st := s.snapshotLocked()
	s.mu.Unlock()

	if changed {
		s.publish(st)
	}
	return next, nil
}

// Load replaces the collection with the controller's presets. With unsaved
// edits and no confirmation it returns ErrUnsavedChanges and does nothing.
// A failed fetch leaves the collection untouched; the outcome is reported
// in the returned status line and the error.
func (s *Session) Load(ctx context.Context, syncer Syncer, confirmed bool) (string, error) {
	s.mu.Lock()
	if s.dirty && !confirmed {
		s.mu.Unlock()
		return "", ErrUnsavedChanges
	}
	s.setStatusLocked(controller.StatusLoading)
	st := s.snapshotLocked()
	s.mu.Unlock()
	s.publish(st)

	snap, err := syncer.FetchPresets(ctx)
	status := controller.LoadStatus(len(snap.Presets), err)

	s.mu.Lock()
	if err == nil {
		s.presets.Replace(snap.Count, snap.Presets)
		s.dirty = false
		s.revision++
	}
	s.setStatusLocked(status)
	s.lastActive = time.Now()
	st = s.snapshotLocked()
	s.mu.Unlock()
	s.publish(st)
	return status, err
}

// Save sends the settings and the active presets. The unsaved flag is
// cleared only when every preset was accepted and nothing was edited while
// the uploads were in flight.
func (s *Session) Save(ctx context.Context, syncer Syncer) controller.Tally {
	s.mu.Lock()
	s.setStatusLocked(controller.StatusSending)
	active := s.presets.Active()
	settings := s.settings
	rev := s.revision
	st := s.snapshotLocked()
	s.mu.Unlock()
	s.publish(st)

	tally := syncer.SaveAll(ctx, settings, active)

	s.mu.Lock()
	if tally.OK() && s.revision == rev {
		s.dirty = false
	}
	s.setStatusLocked(tally.Status())
	s.lastActive = time.Now()
	st = s.snapshotLocked()
	s.mu.Unlock()
	s.publish(st)
	return tally
}
