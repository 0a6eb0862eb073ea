package tray

import (
	_ "embed"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

//go:embed icon.svg
var iconSVG []byte

// Icon is the application and tray icon.
var Icon fyne.Resource = fyne.NewStaticResource("textshot.svg", iconSVG)

// Install puts a tray icon with a single Stop item on platforms that support
// one. It reports whether the tray is available.
func Install(app fyne.App, onStop func()) bool {
	d, ok := app.(desktop.App)
	if !ok {
		return false
	}
	menu := fyne.NewMenu("TextShot", fyne.NewMenuItem("Stop", onStop))
	d.SetSystemTrayMenu(menu)
	d.SetSystemTrayIcon(Icon)
	return true
}
