package preset_test

import (
	"errors"
	"testing"

	"dmx-editor/preset"
)

func TestKeypadStartsEmptyForZero(t *testing.T) {
	k := preset.NewKeypad(0)
	if k.Display() != "0" {
		t.Fatalf("expected display '0', got %q", k.Display())
	}
	k.Press(7)
	if k.Display() != "7" {
		t.Fatalf("first digit should replace zero, got %q", k.Display())
	}
}

func TestKeypadRefusesOverflow(t *testing.T) {
	k := preset.NewKeypad(25)
	if !k.Press(5) {
		t.Fatal("expected 255 to be accepted")
	}
	if k.Press(0) {
		t.Fatal("expected 2550 to be refused")
	}
	if k.Value() != 255 {
		t.Fatalf("expected 255, got %d", k.Value())
	}

	k = preset.NewKeypad(26)
	if k.Press(0) {
		t.Fatal("expected 260 to be refused")
	}
	if k.Display() != "26" {
		t.Fatalf("expected '26', got %q", k.Display())
	}
}

func TestKeypadBackspaceAndClear(t *testing.T) {
	k := preset.NewKeypad(12)
	k.Backspace()
	if k.Display() != "1" {
		t.Fatalf("expected '1', got %q", k.Display())
	}
	k.Backspace()
	if k.Display() != "0" || k.Value() != 0 {
		t.Fatalf("expected '0', got %q", k.Display())
	}
	k.Press(9)
	k.Clear()
	if k.Display() != "0" {
		t.Fatalf("expected '0' after clear, got %q", k.Display())
	}
}

func TestKeypadRejectsNonDigits(t *testing.T) {
	k := preset.NewKeypad(1)
	if k.Press(10) || k.Press(-1) {
		t.Fatal("expected out-of-range digits to be refused")
	}
	if k.Value() != 1 {
		t.Fatalf("expected 1, got %d", k.Value())
	}
}

func TestKeypadApply(t *testing.T) {
	k := preset.NewKeypad(0)
	for _, key := range []string{"1", "back", "2", "5", "9", "5"} {
		if err := k.Apply(key); err != nil {
			t.Fatalf("Apply(%q): %v", key, err)
		}
	}
	if k.Value() != 255 {
		t.Fatalf("expected 255, got %d", k.Value())
	}
	if err := k.Apply("clear"); err != nil || k.Display() != "0" {
		t.Fatalf("clear: %q, %v", k.Display(), err)
	}
	if err := k.Apply("enter"); !errors.Is(err, preset.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}
