package preset

import (
	"errors"
	"fmt"
	"strconv"
)

var ErrInvalidKey = errors.New("invalid keypad key")

// Keypad is the digit-entry state behind the single-value editor. Digits
// that would push the value past 255 are refused.
type Keypad struct {
	text string
}

// NewKeypad starts editing from current. A zero value starts empty so the
// first digit replaces it.
func NewKeypad(current uint8) *Keypad {
	k := &Keypad{}
	if current != 0 {
		k.text = strconv.Itoa(int(current))
	}
	return k
}

// Press appends digit (0-9). It reports whether the digit was accepted.
func (k *Keypad) Press(digit int) bool {
	if digit < 0 || digit > 9 {
		return false
	}
	next := k.text + strconv.Itoa(digit)
	n, err := strconv.Atoi(next)
	if err != nil || n > 255 {
		return false
	}
	k.text = next
	return true
}

// Backspace removes the last digit. An emptied keypad reads "0".
func (k *Keypad) Backspace() {
	if len(k.text) > 0 {
		k.text = k.text[:len(k.text)-1]
	}
	if k.text == "" {
		k.text = "0"
	}
}

// Clear resets the entry to "0".
func (k *Keypad) Clear() {
	k.text = "0"
}

// Display is the text shown on the keypad screen.
func (k *Keypad) Display() string {
	if k.text == "" {
		return "0"
	}
	return k.text
}

// Value is the clamped entry.
func (k *Keypad) Value() uint8 {
	return ParseValue(k.text)
}

// Apply presses a named key: a digit "0"-"9", "back" or "clear".
func (k *Keypad) Apply(key string) error {
	switch key {
	case "back":
		k.Backspace()
		return nil
	case "clear":
		k.Clear()
		return nil
	}
	if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
		k.Press(int(key[0] - '0'))
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidKey, key)
}
