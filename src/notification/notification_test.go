package notification

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

type fakeBackend struct {
	name  string
	err   error
	calls []string
}

func (f *fakeBackend) Name() string { return f.name }

func (f *fakeBackend) Notify(title, message string) error {
	f.calls = append(f.calls, title+": "+message)
	return f.err
}

func TestChainFirstSuccessWins(t *testing.T) {
	broken := &fakeBackend{name: "broken", err: ErrUnavailable}
	working := &fakeBackend{name: "working"}
	never := &fakeBackend{name: "never"}

	c := NewChain(zerolog.Nop(), false, broken, working, never)
	if err := c.Send(Title, "hello"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if len(broken.calls) != 1 || len(working.calls) != 1 {
		t.Errorf("expected broken and working to be tried once, got %d and %d", len(broken.calls), len(working.calls))
	}
	if len(never.calls) != 0 {
		t.Error("backends after the first success must not be tried")
	}
}

func TestChainAllFailedIsSwallowed(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	a := &fakeBackend{name: "a", err: errors.New("no dbus")}
	b := &fakeBackend{name: "b", err: ErrUnavailable}

	c := NewChain(logger, false, a, b)
	err := c.Send(Title, "hello")
	if err == nil || !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected joined error containing ErrUnavailable, got %v", err)
	}

	buf.Reset()
	c.Notify(Title, "hello")
	if !strings.Contains(buf.String(), "notification not delivered") {
		t.Errorf("expected debug log of the failure, got %q", buf.String())
	}
}

func TestChainDisabled(t *testing.T) {
	b := &fakeBackend{name: "b"}
	NewChain(zerolog.Nop(), true, b).Notify(Title, "hello")
	if len(b.calls) != 0 {
		t.Error("disabled chain must not call backends")
	}

	var nilChain *Chain
	nilChain.Notify(Title, "hello")
}

func TestDesktopWithoutApp(t *testing.T) {
	if err := (Desktop{}).Notify(Title, "x"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestCommandLine(t *testing.T) {
	tests := []struct {
		goos     string
		wantName string
		wantOK   bool
		contains string
	}{
		{"linux", "notify-send", true, "Copied"},
		{"freebsd", "notify-send", true, "Copied"},
		{"darwin", "osascript", true, `with title "TextShot"`},
		{"windows", "", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			name, args, ok := commandLine(tt.goos, Title, CopiedMessage("hi"))
			if ok != tt.wantOK || name != tt.wantName {
				t.Fatalf("commandLine(%s) = %q, %v", tt.goos, name, ok)
			}
			if ok && !strings.Contains(strings.Join(args, " "), tt.contains) {
				t.Errorf("args %q should contain %q", args, tt.contains)
			}
		})
	}
}

func TestCommandUnavailableOnWindows(t *testing.T) {
	if err := (Command{GOOS: "windows"}).Notify(Title, "x"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestAppleScriptEscaping(t *testing.T) {
	got := appleScriptString(`say "hi" \ bye`)
	want := `"say \"hi\" \\ bye"`
	if got != want {
		t.Errorf("appleScriptString = %s, want %s", got, want)
	}
}

func TestMessages(t *testing.T) {
	if got := CopiedMessage("Hello"); got != `Copied "Hello" to the clipboard` {
		t.Errorf("CopiedMessage = %q", got)
	}
	long := strings.Repeat("x", 250)
	if got := CopiedMessage(long); !strings.Contains(got, strings.Repeat("x", 200)+"...") || strings.Contains(got, strings.Repeat("x", 201)) {
		t.Errorf("long text should be truncated to 200 runes, got %d bytes", len(got))
	}
	if got := ErrorMessage(errors.New("boom")); got != "An error occurred when trying to process the image: boom" {
		t.Errorf("ErrorMessage = %q", got)
	}
}
