//go:build windows

package notification

import (
	"golang.org/x/sys/windows"
)

// Dialog shows a modal Windows message box. It blocks until dismissed.
type Dialog struct{}

func (Dialog) Name() string { return "dialog" }

func (Dialog) Notify(title, message string) error {
	titlePtr, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return err
	}
	msgPtr, err := windows.UTF16PtrFromString(message)
	if err != nil {
		return err
	}
	_, err = windows.MessageBox(0, msgPtr, titlePtr, windows.MB_OK|windows.MB_ICONERROR|windows.MB_SYSTEMMODAL)
	return err
}

// ShowBlockingError displays a modal error dialog and returns after the user dismisses it.
func ShowBlockingError(title, message string) {
	_ = Dialog{}.Notify(title, message)
}
