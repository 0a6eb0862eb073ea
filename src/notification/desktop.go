package notification

import (
	"fmt"

	"fyne.io/fyne/v2"
)

// Desktop sends notifications through the running fyne application.
type Desktop struct {
	App fyne.App
}

func (d Desktop) Name() string { return "desktop" }

func (d Desktop) Notify(title, message string) error {
	if d.App == nil {
		return fmt.Errorf("%w: no fyne app", ErrUnavailable)
	}
	d.App.SendNotification(fyne.NewNotification(title, message))
	return nil
}
