package controller

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Polarity is the foot switch contact polarity.
type Polarity string

const (
	PolarityStandard Polarity = "standard"
	PolarityInverted Polarity = "inverted"
)

const (
	MinLongPress     = 500
	MaxLongPress     = 2000
	DefaultLongPress = 700
)

var ErrInvalidSetting = errors.New("invalid setting")

// Settings is the controller configuration sent alongside the presets.
type Settings struct {
	FootSwitchPolarity      Polarity `json:"footSwitchPolarity"`
	FootSwitchLongPressTime int      `json:"footSwitchLongPressTime"`
}

// DefaultSettings returns the settings of a fresh editor session.
func DefaultSettings() Settings {
	return Settings{
		FootSwitchPolarity:      PolarityStandard,
		FootSwitchLongPressTime: DefaultLongPress,
	}
}

// ParsePolarity accepts "standard" or "inverted", case-insensitively.
func ParsePolarity(s string) (Polarity, error) {
	switch p := Polarity(strings.ToLower(strings.TrimSpace(s))); p {
	case PolarityStandard, PolarityInverted:
		return p, nil
	}
	return "", fmt.Errorf("%w: polarity %q", ErrInvalidSetting, s)
}

// ClampLongPress limits a long-press duration to [500,2000] ms.
func ClampLongPress(ms int) int {
	return max(MinLongPress, min(MaxLongPress, ms))
}

// ParseLongPress reads a long-press duration from form input. Non-numeric
// input falls back to the default before clamping.
func ParseLongPress(raw string) int {
	ms, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		ms = DefaultLongPress
	}
	return ClampLongPress(ms)
}

// Normalize fills unset fields with defaults and clamps the rest.
func (s Settings) Normalize() Settings {
	if s.FootSwitchPolarity == "" {
		s.FootSwitchPolarity = PolarityStandard
	}
	if s.FootSwitchLongPressTime == 0 {
		s.FootSwitchLongPressTime = DefaultLongPress
	}
	s.FootSwitchLongPressTime = ClampLongPress(s.FootSwitchLongPressTime)
	return s
}

// Validate rejects an unknown polarity.
func (s Settings) Validate() error {
	_, err := ParsePolarity(string(s.FootSwitchPolarity))
	return err
}
