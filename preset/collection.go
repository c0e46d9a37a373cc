package preset

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Collection is the ordered list of preset slots. Only the first Count slots
// are active (visible and sent to the controller); the remaining slots keep
// their data so that Insert and Delete can shift through them.
type Collection struct {
	slots [Capacity]Preset
	count int
}

// NewCollection returns Capacity zero-valued presets named "Scene N" with
// count active slots.
func NewCollection(count int) *Collection {
	c := &Collection{count: clampCount(count)}
	for i := range c.slots {
		c.slots[i] = emptyPreset(i+1, DefaultName(i+1))
	}
	return c
}

func emptyPreset(id int, name string) Preset {
	return Preset{ID: id, Name: name}
}

func clampCount(n int) int {
	return max(MinCount, min(Capacity, n))
}

// Count is the number of active presets.
func (c *Collection) Count() int { return c.count }

// CanInsert reports whether another preset fits.
func (c *Collection) CanInsert() bool { return c.count < Capacity }

// IndexOf maps a 1-based preset id to its slot index.
func IndexOf(id int) (int, error) {
	if id < 1 || id > Capacity {
		return 0, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return id - 1, nil
}

func (c *Collection) activeIndex(id int) (int, error) {
	idx, err := IndexOf(id)
	if err != nil {
		return 0, err
	}
	if idx >= c.count {
		return 0, fmt.Errorf("%w: id %d is not active", ErrNotFound, id)
	}
	return idx, nil
}

// Preset returns a copy of the preset with the given id. Inactive slots are
// reachable so that detail views of stale ids still resolve.
func (c *Collection) Preset(id int) (Preset, error) {
	idx, err := IndexOf(id)
	if err != nil {
		return Preset{}, err
	}
	return c.slots[idx], nil
}

// Active returns copies of the active presets in order.
func (c *Collection) Active() []Preset {
	out := make([]Preset, c.count)
	copy(out, c.slots[:c.count])
	return out
}

// Neighbors returns the ids before and after id among the active presets,
// or 0 where there is none.
func (c *Collection) Neighbors(id int) (prev, next int) {
	if id > 1 && id-1 <= c.count {
		prev = id - 1
	}
	if id >= 1 && id < c.count {
		next = id + 1
	}
	return prev, next
}

// Insert adds a zero-valued preset directly after afterID. Slots below the
// insertion point move down one position and the last slot falls off. It is a
// no-op when the collection is full.
func (c *Collection) Insert(afterID int) (bool, error) {
	if !c.CanInsert() {
		return false, nil
	}
	at, err := c.activeIndex(afterID)
	if err != nil {
		return false, err
	}
	at++ // slot right after afterID
	for i := Capacity - 1; i > at; i-- {
		c.moveContent(i, i-1)
	}
	c.slots[at] = emptyPreset(at+1, InsertedName)
	c.count++
	return true, nil
}

// Delete removes the values of the preset with the given id. Values in later
// slots move up one position and the final slot's values are zeroed. Names
// stay in their slots. The active count shrinks to no fewer than MinCount.
func (c *Collection) Delete(id int) error {
	at, err := c.activeIndex(id)
	if err != nil {
		return err
	}
	for i := at; i < Capacity-1; i++ {
		c.slots[i].Values1 = c.slots[i+1].Values1
		c.slots[i].Values2 = c.slots[i+1].Values2
	}
	c.slots[Capacity-1].Values1 = Universe{}
	c.slots[Capacity-1].Values2 = Universe{}
	c.count = max(MinCount, c.count-1)
	return nil
}

// Move swaps name and values with the adjacent active preset. Ids stay put.
// Moving past either end of the active list is a no-op.
func (c *Collection) Move(id int, dir Direction) (bool, error) {
	at, err := c.activeIndex(id)
	if err != nil {
		return false, err
	}
	var target int
	switch dir {
	case Up:
		target = at - 1
	case Down:
		target = at + 1
	default:
		return false, fmt.Errorf("%w: %q", ErrInvalidDirection, dir)
	}
	if target < 0 || target >= c.count {
		return false, nil
	}
	a, b := &c.slots[at], &c.slots[target]
	a.Name, b.Name = b.Name, a.Name
	a.Values1, b.Values1 = b.Values1, a.Values1
	a.Values2, b.Values2 = b.Values2, a.Values2
	return true, nil
}

// Rename sets the preset name, truncated to MaxNameLength runes.
func (c *Collection) Rename(id int, name string) (string, error) {
	idx, err := IndexOf(id)
	if err != nil {
		return "", err
	}
	name = TruncateName(name)
	c.slots[idx].Name = name
	return name, nil
}

// SetValue parses raw as an integer, clamps it to [0,255] and stores it in
// the given channel. Unparseable input stores 0.
func (c *Collection) SetValue(id int, section Section, index int, raw string) (uint8, error) {
	v := ParseValue(raw)
	if err := c.SetChannel(id, section, index, v); err != nil {
		return 0, err
	}
	return v, nil
}

// SetChannel stores an already clamped value.
func (c *Collection) SetChannel(id int, section Section, index int, v uint8) error {
	idx, err := IndexOf(id)
	if err != nil {
		return err
	}
	if _, err := ParseSection(string(section)); err != nil {
		return err
	}
	if index < 0 || index >= UniverseSize {
		return fmt.Errorf("%w: %d", ErrChannelRange, index)
	}
	c.slots[idx].Universe(section)[index] = v
	return nil
}

// Replace swaps in a collection received from the controller. Ids are
// renumbered by position, names truncated, and missing slots regenerated.
// A count of zero, or one larger than the presets given, means "all given
// presets".
func (c *Collection) Replace(count int, presets []Preset) {
	if count <= 0 || count > len(presets) {
		count = len(presets)
	}
	for i := range c.slots {
		if i < len(presets) {
			p := presets[i]
			p.ID = i + 1
			p.Name = TruncateName(p.Name)
			c.slots[i] = p
			continue
		}
		c.slots[i] = emptyPreset(i+1, DefaultName(i+1))
	}
	c.count = clampCount(count)
}

// Clone returns an independent copy.
func (c *Collection) Clone() *Collection {
	cp := *c
	return &cp
}

// moveContent copies name and values from slot src into slot dst.
func (c *Collection) moveContent(dst, src int) {
	c.slots[dst].Name = c.slots[src].Name
	c.slots[dst].Values1 = c.slots[src].Values1
	c.slots[dst].Values2 = c.slots[src].Values2
}

// TruncateName cuts name to MaxNameLength runes.
func TruncateName(name string) string {
	if utf8.RuneCountInString(name) <= MaxNameLength {
		return name
	}
	r := []rune(name)
	return string(r[:MaxNameLength])
}

// Clamp limits v to a channel value.
func Clamp(v int) uint8 {
	return uint8(max(0, min(255, v)))
}

// ParseValue reads the leading integer of raw the way a browser number
// field does: surrounding space is ignored, a sign is allowed, and anything
// after the digits is dropped. Input without digits yields 0.
func ParseValue(raw string) uint8 {
	n, ok := leadingInt(raw)
	if !ok {
		return 0
	}
	return Clamp(n)
}

func leadingInt(raw string) (int, bool) {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n, digits := 0, 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		digits++
		// Anything past 255 clamps the same way; stop before overflow.
		if n <= 1000 {
			n = n*10 + int(r-'0')
		}
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}
