package tray

import (
	"strings"
	"testing"

	"fyne.io/fyne/v2/test"
)

func TestIcon(t *testing.T) {
	if Icon.Name() != "textshot.svg" {
		t.Errorf("icon name = %q", Icon.Name())
	}
	if !strings.HasPrefix(strings.TrimSpace(string(Icon.Content())), "<svg") {
		t.Error("embedded icon is not an SVG document")
	}
}

func TestInstallWithoutTray(t *testing.T) {
	// The test app has no system tray.
	app := test.NewApp()
	defer app.Quit()
	if Install(app, func() {}) {
		t.Skip("test driver unexpectedly supports a system tray")
	}
}
