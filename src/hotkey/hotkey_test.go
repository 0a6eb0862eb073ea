package hotkey

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestParseHotkey(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"Ctrl+Alt+Q", []string{"ctrl", "alt", "q"}},
		{"Ctrl+Shift+O", []string{"ctrl", "shift", "o"}},
		{"Ctrl+alt+e", []string{"ctrl", "alt", "e"}},
		{"Alt+F4", []string{"alt", "f4"}},
		{"Ctrl+Win+E", []string{"ctrl", "cmd", "e"}},
		{"Win+Shift+S", []string{"cmd", "shift", "s"}},
		{"Super+Alt+T", []string{"cmd", "alt", "t"}},
		{"Ctrl + Escape", []string{"ctrl", "esc"}},
		{"Control+Option+Return", []string{"ctrl", "alt", "enter"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := parseHotkey(tt.input)
			if len(result) != len(tt.expected) {
				t.Errorf("parseHotkey(%q) returned %d keys, expected %d",
					tt.input, len(result), len(tt.expected))
				return
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("parseHotkey(%q)[%d] = %q, expected %q",
						tt.input, i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"Ctrl+Alt+Q", false},
		{"Alt+F12", false},
		{"Shift+PgDn", false},
		{"Ctrl+9", false},
		{"Ctrl+Alt", true},
		{"Ctrl+A+B", true},
		{"Ctrl+F13", true},
		{"Ctrl+Hyper", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidHotkey) {
				t.Errorf("error should wrap ErrInvalidHotkey: %v", err)
			}
		})
	}
}

func TestListenRejectsInvalidCombo(t *testing.T) {
	if _, err := Listen("Ctrl+Alt", zerolog.Nop(), nil); !errors.Is(err, ErrInvalidHotkey) {
		t.Errorf("expected ErrInvalidHotkey, got %v", err)
	}
}

func TestListenInteractive(t *testing.T) {
	if os.Getenv("TEXTSHOT_INTERACTIVE_TESTS") != "1" {
		t.Skip("set TEXTSHOT_INTERACTIVE_TESTS=1 and press Ctrl+Alt+Q within 10s")
	}
	pressed := make(chan struct{}, 1)
	stop, err := Listen("Ctrl+Alt+Q", zerolog.Nop(), func() {
		select {
		case pressed <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	defer stop()

	select {
	case <-pressed:
	case <-time.After(10 * time.Second):
		t.Fatal("hotkey not detected")
	}
}
