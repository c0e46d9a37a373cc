package controller

import (
	"errors"
	"fmt"
)

// Status lines shown in the editor header.
const (
	StatusLoading         = "Loading presets from DMX Controller..."
	StatusSending         = "Sending all presets and configuration..."
	StatusInvalidData     = "✗ Invalid data format from controller"
	StatusLoadFailed      = "✗ Failed to load from controller"
	StatusConnectionError = "✗ Connection failed - controller not reachable"
)

// Tally counts the outcomes of a save.
type Tally struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// OK reports whether every preset was accepted.
func (t Tally) OK() bool { return t.Failed == 0 }

// Status renders the tally for the editor header.
func (t Tally) Status() string {
	if t.Failed == 0 {
		return fmt.Sprintf("✓ All %d presets sent successfully", t.Sent)
	}
	return fmt.Sprintf("✓ %d sent, ✗ %d failed", t.Sent, t.Failed)
}

// LoadStatus renders the outcome of FetchPresets. n is the number of
// presets received and is only used on success.
func LoadStatus(n int, err error) string {
	var statusErr *StatusError
	switch {
	case err == nil:
		return fmt.Sprintf("✓ Loaded %d presets successfully", n)
	case errors.Is(err, ErrMalformed):
		return StatusInvalidData
	case errors.As(err, &statusErr):
		return StatusLoadFailed
	default:
		return StatusConnectionError
	}
}
