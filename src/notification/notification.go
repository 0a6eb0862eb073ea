package notification

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ErrUnavailable is returned by a backend that cannot run on this system.
var ErrUnavailable = errors.New("notification backend unavailable")

// Backend delivers one desktop notification.
type Backend interface {
	Name() string
	Notify(title, message string) error
}

// Chain tries its backends in order until one succeeds. Notifications are
// best effort: when every backend fails the message is only logged.
type Chain struct {
	backends []Backend
	disabled bool
	log      zerolog.Logger
}

// NewChain builds a chain. A disabled chain drops every message.
func NewChain(logger zerolog.Logger, disabled bool, backends ...Backend) *Chain {
	return &Chain{backends: backends, disabled: disabled, log: logger}
}

// Notify sends message through the first backend that accepts it.
func (c *Chain) Notify(title, message string) {
	if c == nil || c.disabled {
		return
	}
	if err := c.Send(title, message); err != nil {
		c.log.Debug().Err(err).Str("title", title).Msg("notification not delivered")
	}
}

// Send is Notify with the combined error returned instead of logged.
func (c *Chain) Send(title, message string) error {
	if len(c.backends) == 0 {
		return fmt.Errorf("%w: no backends configured", ErrUnavailable)
	}
	var errs []error
	for _, b := range c.backends {
		err := b.Notify(title, message)
		if err == nil {
			c.log.Debug().Str("backend", b.Name()).Msg("notification sent")
			return nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", b.Name(), err))
	}
	return errors.Join(errs...)
}
