//go:build !windows

package notification

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// Dialog is only implemented on Windows.
type Dialog struct{}

func (Dialog) Name() string { return "dialog" }

func (Dialog) Notify(title, message string) error {
	return fmt.Errorf("%w: message boxes are Windows only", ErrUnavailable)
}

// ShowBlockingError falls back to a desktop notification and the log.
func ShowBlockingError(title, message string) {
	if err := (Command{}).Notify(title, message); err != nil {
		log.Debug().Err(err).Msg("could not show error notification")
	}
	log.Error().Str("title", title).Msg(message)
}
