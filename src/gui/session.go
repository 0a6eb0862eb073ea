// Package gui owns the fyne application for one textshot run: the
// fullscreen selection overlay, the tray icon and the application lifetime.
package gui

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"textshot/src/cycle"
	"textshot/src/overlay"
	"textshot/src/screenshot"
	"textshot/src/tray"
)

const (
	AppID = "io.github.textshot"

	// notifyLinger is how long a finished run stays up for its notification.
	notifyLinger = 500 * time.Millisecond
)

type Options struct {
	// HideSettle is how long to wait after hiding the overlay before capturing.
	HideSettle time.Duration
	Logger     zerolog.Logger
	// App replaces the fyne application; used by tests.
	App fyne.App
}

// Session is one run of the program: created at startup, closed on exit.
type Session struct {
	ID string

	app    fyne.App
	win    fyne.Window
	canvas *overlay.Canvas
	settle time.Duration
	log    zerolog.Logger

	hidden   atomic.Bool
	selected atomic.Bool
	quitOnce sync.Once

	mu     sync.Mutex
	cancel context.CancelFunc
}

// New creates the fyne application and freezes the primary display as the
// overlay backdrop. Nothing is shown until Run.
func New(opts Options) (*Session, error) {
	display, err := screenshot.Primary()
	if err != nil {
		return nil, err
	}
	backdrop, err := screenshot.Backdrop(display)
	if err != nil {
		return nil, err
	}
	s := newSession(opts, overlay.NewCanvas(backdrop, display.Origin()))
	s.logDisplay(display, screenshot.Displays())
	return s, nil
}

// logDisplay records which monitor the overlay covers. Selections are
// limited to that monitor, so extra displays get a warning.
func (s *Session) logDisplay(d screenshot.Display, all []screenshot.Display) {
	for _, other := range all {
		s.log.Debug().Int("display", other.Index).Str("bounds", other.Bounds.String()).Msg("display detected")
	}
	ev := s.log.Info()
	if len(all) > 1 {
		ev = s.log.Warn().Str("note", "selection is limited to this display")
	}
	ev.Int("display", d.Index).Str("bounds", d.Bounds.String()).Int("displays", len(all)).Msg("overlay display chosen")
}

func newSession(opts Options, c *overlay.Canvas) *Session {
	a := opts.App
	if a == nil {
		a = app.NewWithID(AppID)
	}
	a.SetIcon(tray.Icon)

	id := uuid.NewString()
	return &Session{
		ID:     id,
		app:    a,
		canvas: c,
		settle: opts.HideSettle,
		log:    opts.Logger.With().Str("session", id).Logger(),
		cancel: func() {},
	}
}

// App is the running fyne application, for notification backends.
func (s *Session) App() fyne.App { return s.app }

// Logger is the session-scoped logger.
func (s *Session) Logger() zerolog.Logger { return s.log }

// Run shows the overlay and blocks on the UI loop until the session ends.
// After a selection, mode runs against it on a separate goroutine. The
// session ends when mode returns, on Escape, or when ctx is cancelled.
func (s *Session) Run(ctx context.Context, mode cycle.Mode, ctrl *cycle.Controller) error {
	ctx, err := s.prepare(ctx, mode, ctrl)
	if err != nil {
		return err
	}
	defer s.Cancel()

	go func() {
		<-ctx.Done()
		s.Quit()
	}()

	s.win.Show()
	s.win.RequestFocus()
	s.app.Run()
	s.log.Debug().Msg("ui loop finished")
	return nil
}

// prepare builds the overlay window and wires its callbacks.
func (s *Session) prepare(ctx context.Context, mode cycle.Mode, ctrl *cycle.Controller) (context.Context, error) {
	if mode == nil || ctrl == nil {
		return nil, fmt.Errorf("gui: mode and controller are required")
	}
	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	s.canvas.OnSelect = func(region screenshot.Region) {
		if s.selected.Swap(true) {
			return
		}
		s.log.Info().Stringer("region", region).Str("mode", mode.Name()).Msg("region selected")
		go s.runCycle(ctx, mode, ctrl, region)
	}

	s.win = s.newOverlayWindow()
	s.win.SetContent(s.canvas)
	s.win.SetPadded(false)
	s.win.SetFullScreen(true)
	s.win.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			s.log.Info().Msg("selection cancelled")
			s.Cancel()
		}
	})
	s.win.SetCloseIntercept(s.Cancel)

	if _, interval := mode.(cycle.Interval); interval {
		if tray.Install(s.app, s.Cancel) {
			s.log.Debug().Msg("tray icon installed")
		}
	}
	return ctx, nil
}

func (s *Session) newOverlayWindow() fyne.Window {
	if drv, ok := s.app.Driver().(desktop.Driver); ok {
		return drv.CreateSplashWindow()
	}
	return s.app.NewWindow("TextShot")
}

func (s *Session) runCycle(ctx context.Context, mode cycle.Mode, ctrl *cycle.Controller, region screenshot.Region) {
	defer s.Cancel()
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Msg("capture cycle crashed")
		}
	}()

	mode.Run(ctx, ctrl, region)
	if ctx.Err() == nil {
		time.Sleep(notifyLinger)
	}
}

// HideOverlay hides the overlay window and waits for the compositor to
// remove it from the screen. Safe to call repeatedly and off the UI thread.
func (s *Session) HideOverlay() {
	if s.hidden.Swap(true) {
		return
	}
	if s.win != nil {
		fyne.DoAndWait(s.win.Hide)
	}
	if s.settle > 0 {
		time.Sleep(s.settle)
	}
}

// Cancel ends the session.
func (s *Session) Cancel() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	cancel()
}

// Quit stops the UI loop. It is idempotent.
func (s *Session) Quit() {
	s.quitOnce.Do(func() {
		fyne.Do(s.app.Quit)
	})
}
