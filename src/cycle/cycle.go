// Package cycle runs capture and recognition passes over a selected region
// and routes the results to the configured target.
package cycle

import (
	"context"

	"github.com/rs/zerolog"

	"textshot/src/logutil"
	"textshot/src/notification"
	"textshot/src/ocr"
	"textshot/src/screenshot"
	"textshot/src/session"
)

// Notifier shows a best-effort user notification.
type Notifier interface {
	Notify(title, message string)
}

// Recognizer turns a capture into an outcome.
type Recognizer interface {
	Recognize(ctx context.Context, c *screenshot.Capture) ocr.Outcome
}

type Options struct {
	Grabber    screenshot.Grabber
	Recognizer Recognizer
	Target     session.ResultTarget
	Notifier   Notifier
	Logger     zerolog.Logger
	// BeforeCapture runs before every grab; the UI hides its overlay here.
	BeforeCapture func()
}

// Controller owns one selected region's passes. It is not safe for
// concurrent use; a Mode drives it from a single goroutine.
type Controller struct {
	grabber       screenshot.Grabber
	recognizer    Recognizer
	target        session.ResultTarget
	notifier      Notifier
	log           zerolog.Logger
	beforeCapture func()
}

func New(opts Options) *Controller {
	grabber := opts.Grabber
	if grabber == nil {
		grabber = screenshot.ScreenGrabber{}
	}
	target := opts.Target
	if target == nil {
		target = session.ClipboardTarget{}
	}
	return &Controller{
		grabber:       grabber,
		recognizer:    opts.Recognizer,
		target:        target,
		notifier:      opts.Notifier,
		log:           opts.Logger,
		beforeCapture: opts.BeforeCapture,
	}
}

// Pass captures region once and recognizes it.
func (c *Controller) Pass(ctx context.Context, region screenshot.Region) ocr.Outcome {
	if c.beforeCapture != nil {
		c.beforeCapture()
	}
	capture, err := c.grabber.Grab(region)
	if err != nil {
		return ocr.Failure(err)
	}
	return c.recognizer.Recognize(ctx, capture)
}

// deliver hands text to the target and reports it.
func (c *Controller) deliver(text string, notify bool) error {
	if err := c.target.OnSuccess(text); err != nil {
		c.log.Error().Err(err).Msg("failed to deliver text")
		_ = c.target.OnFailure(err)
		c.notify(notification.ErrorMessage(err))
		return err
	}
	c.log.Info().Msg(c.target.SuccessMessage(logutil.Sanitize(text)))
	if notify {
		c.notify(c.target.SuccessMessage(text))
	}
	return nil
}

func (c *Controller) fail(err error) {
	c.log.Error().Err(err).Msg("recognition failed")
	_ = c.target.OnFailure(err)
	c.notify(notification.ErrorMessage(err))
}

func (c *Controller) notify(message string) {
	if c.notifier != nil {
		c.notifier.Notify(notification.Title, message)
	}
}

// Mode decides how many passes run and what happens to each result.
type Mode interface {
	Name() string
	Run(ctx context.Context, c *Controller, region screenshot.Region)
}

// OneShot runs a single pass. A failed pass reports the error and then
// that nothing was copied.
type OneShot struct{}

func (OneShot) Name() string { return "one-shot" }

func (OneShot) Run(ctx context.Context, c *Controller, region screenshot.Region) {
	c.log.Debug().Stringer("region", region).Msg("capturing selection")
	out := c.Pass(ctx, region)
	switch {
	case out.Failed():
		if ctx.Err() != nil {
			return
		}
		c.fail(out.Err)
		c.notify(notification.FailureMessage)
	case out.Empty():
		c.log.Error().Msg(notification.FailureMessage)
		c.notify(notification.FailureMessage)
	default:
		_ = c.deliver(out.Text, true)
	}
}
