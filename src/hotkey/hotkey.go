package hotkey

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	gohook "github.com/robotn/gohook"
	"github.com/rs/zerolog"
)

// ErrInvalidHotkey is returned for combinations that cannot be registered.
var ErrInvalidHotkey = errors.New("invalid hotkey")

var modifiers = map[string]bool{"ctrl": true, "alt": true, "shift": true, "cmd": true}

var aliases = map[string]string{
	"control": "ctrl",
	"option":  "alt",
	"win":     "cmd",
	"super":   "cmd",
	"meta":    "cmd",
	"escape":  "esc",
	"return":  "enter",
	"del":     "delete",
	"ins":     "insert",
	"pgup":    "pageup",
	"pgdn":    "pagedown",
}

var namedKeys = map[string]bool{
	"space": true, "enter": true, "esc": true, "tab": true, "backspace": true,
	"delete": true, "insert": true, "home": true, "end": true,
	"pageup": true, "pagedown": true, "up": true, "down": true, "left": true, "right": true,
}

// Parse converts a combination such as "Ctrl+Alt+Q" into gohook key names.
// It needs exactly one non-modifier key.
func Parse(combo string) ([]string, error) {
	keys := parseHotkey(combo)
	var main int
	for _, k := range keys {
		switch {
		case modifiers[k]:
		case supportedKey(k):
			main++
		default:
			return nil, fmt.Errorf("%w %q: unknown key %q", ErrInvalidHotkey, combo, k)
		}
	}
	if main != 1 {
		return nil, fmt.Errorf("%w %q: need exactly one non-modifier key", ErrInvalidHotkey, combo)
	}
	return keys, nil
}

// parseHotkey lowercases and splits a combination, resolving aliases.
func parseHotkey(hotkeyConfig string) []string {
	var keys []string
	for _, part := range strings.Split(strings.ToLower(hotkeyConfig), "+") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if a, ok := aliases[part]; ok {
			part = a
		}
		keys = append(keys, part)
	}
	return keys
}

func supportedKey(k string) bool {
	if namedKeys[k] {
		return true
	}
	if len(k) == 1 {
		c := k[0]
		return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
	}
	var n int
	if _, err := fmt.Sscanf(k, "f%d", &n); err == nil && fmt.Sprintf("f%d", n) == k {
		return n >= 1 && n <= 12
	}
	return false
}

// Listen installs a global keyboard hook that calls callback each time the
// combination is pressed. The returned stop function removes the hook.
func Listen(combo string, logger zerolog.Logger, callback func()) (stop func(), err error) {
	keys, err := Parse(combo)
	if err != nil {
		return nil, err
	}

	gohook.Register(gohook.KeyDown, keys, func(gohook.Event) {
		logger.Info().Str("hotkey", combo).Msg("hotkey pressed")
		if callback != nil {
			callback()
		}
	})

	evChan := gohook.Start()
	if evChan == nil {
		return nil, fmt.Errorf("failed to start keyboard hook")
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error().Interface("panic", r).Msg("keyboard hook crashed")
			}
		}()
		<-gohook.Process(evChan)
		logger.Debug().Msg("keyboard hook stopped")
	}()
	logger.Debug().Strs("keys", keys).Msg("hotkey listener started")

	var once sync.Once
	return func() { once.Do(gohook.End) }, nil
}
