package notification

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

const commandTimeout = 3 * time.Second

// Command shells out to the platform notifier: notify-send on Linux and
// the BSDs, osascript on macOS. There is no command notifier on Windows.
type Command struct {
	// GOOS overrides runtime.GOOS; used by tests.
	GOOS string
}

func (c Command) Name() string { return "command" }

func (c Command) Notify(title, message string) error {
	name, args, ok := commandLine(c.goos(), title, message)
	if !ok {
		return fmt.Errorf("%w: no command notifier on %s", ErrUnavailable, c.goos())
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	if out, err := exec.CommandContext(ctx, path, args...).CombinedOutput(); err != nil {
		return fmt.Errorf("%s failed: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

func (c Command) goos() string {
	if c.GOOS != "" {
		return c.GOOS
	}
	return runtime.GOOS
}

func commandLine(goos, title, message string) (string, []string, bool) {
	switch goos {
	case "windows":
		return "", nil, false
	case "darwin":
		script := fmt.Sprintf("display notification %s with title %s", appleScriptString(message), appleScriptString(title))
		return "osascript", []string{"-e", script}, true
	default:
		return "notify-send", []string{"--app-name=" + Title, title, message}, true
	}
}

func appleScriptString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
