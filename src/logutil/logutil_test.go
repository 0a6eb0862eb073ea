package logutil

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Hello", "Hello"},
		{"newlines", "a\nb\r\nc", "a\\nb\\n\\nc"},
		{"tab", "a\tb", "a\\tb"},
		{"control", "a\x07b", "a?b"},
		{"unicode kept", "grüße", "grüße"},
		{"truncated", strings.Repeat("x", 120), strings.Repeat("x", 100) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.in); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRedactKey(t *testing.T) {
	if got := RedactKey("short"); got != "********" {
		t.Errorf("RedactKey(short) = %q", got)
	}
	if got := RedactKey("sk-or-1234567890abcd"); got != "sk-o...abcd" {
		t.Errorf("RedactKey = %q", got)
	}
}

func TestSetupConsole(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(Options{Level: "debug", Console: &buf})
	logger.Info().Str("text", "Hello").Msg("Copied to the clipboard")

	out := buf.String()
	if !strings.Contains(out, "Copied to the clipboard") || !strings.Contains(out, "text=Hello") {
		t.Fatalf("unexpected console output: %q", out)
	}
}

func TestSetupFileLogging(t *testing.T) {
	dir := t.TempDir()
	logger := Setup(Options{EnableFileLogging: true, Dir: dir})
	logger.Info().Msg("file line")

	data, err := os.ReadFile(filepath.Join(dir, logFileName))
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), `"message":"file line"`) {
		t.Fatalf("expected JSON log line, got %q", data)
	}
}

func TestRotate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, logFileName)
	if err := os.WriteFile(path, []byte("current"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(archiveName(path, 1), []byte("older"), 0600); err != nil {
		t.Fatal(err)
	}

	rotate(path)

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected base file to be moved, stat err=%v", err)
	}
	if data, _ := os.ReadFile(archiveName(path, 1)); string(data) != "current" {
		t.Errorf("archive .1 = %q, want current", data)
	}
	if data, _ := os.ReadFile(archiveName(path, 2)); string(data) != "older" {
		t.Errorf("archive .2 = %q, want older", data)
	}
}
