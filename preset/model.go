package preset

import (
	"errors"
	"fmt"
)

const (
	// Capacity is the fixed number of preset slots.
	Capacity = 20
	// MinCount is the smallest number of active presets.
	MinCount = 2
	// DefaultCount is the number of active presets in a fresh collection.
	DefaultCount = 3
	// UniverseSize is the number of channels in one universe.
	UniverseSize = 512
	// MaxNameLength caps preset names, counted in runes.
	MaxNameLength = 25
	// InsertedName names a preset created by Insert.
	InsertedName = "New Preset"
)

// Universe holds one block of DMX channel values.
type Universe [UniverseSize]uint8

// Section selects one of the two universes of a preset.
type Section string

const (
	Values1 Section = "values1"
	Values2 Section = "values2"
)

// ParseSection accepts "values1" or "values2".
func ParseSection(s string) (Section, error) {
	switch Section(s) {
	case Values1, Values2:
		return Section(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSection, s)
}

// Label is the human-facing universe name.
func (s Section) Label() string {
	if s == Values2 {
		return "Universe 2"
	}
	return "Universe 1"
}

// Direction is the way Move shifts a preset.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// ParseDirection accepts "up" or "down".
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Up, Down:
		return Direction(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// Preset is a named pair of universes. ID is always its 1-based slot.
type Preset struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Values1 Universe `json:"values1"`
	Values2 Universe `json:"values2"`
}

// Universe returns a pointer to the selected universe.
func (p *Preset) Universe(s Section) *Universe {
	if s == Values2 {
		return &p.Values2
	}
	return &p.Values1
}

// ActiveChannels counts non-zero channels in u.
func (u *Universe) ActiveChannels() int {
	n := 0
	for _, v := range u {
		if v != 0 {
			n++
		}
	}
	return n
}

// DefaultName is the generated name for slot id.
func DefaultName(id int) string {
	return fmt.Sprintf("Scene %d", id)
}

var (
	ErrNotFound         = errors.New("preset not found")
	ErrInvalidSection   = errors.New("invalid section")
	ErrInvalidDirection = errors.New("invalid direction")
	ErrChannelRange     = errors.New("channel index out of range")
)
