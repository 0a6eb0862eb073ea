package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"textshot/src/config"
	"textshot/src/cycle"
	"textshot/src/gui"
	"textshot/src/hotkey"
	"textshot/src/notification"
	"textshot/src/runtimeinit"
	"textshot/src/screenshot"
	"textshot/src/session"
)

type mainOptions struct {
	langs       string
	interval    int
	intervalSet bool
	stdout      bool
	engine      string
	timeoutMS   int
	configFile  string
	apiKeyPath  string
	verbose     bool
}

func main() {
	enableDPIAwareness()

	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	args = normalizeLegacyArgs(args)
	if len(args) == 0 {
		args = []string{"textshot"}
	}
	opts := &mainOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *mainOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "textshot [langs]",
		Short: "Select a screen region and copy the text in it to the clipboard",
		Long: "Draw a rectangle over the screen; the text inside it is recognized and copied.\n" +
			"langs are tesseract language codes, e.g. \"eng+fra\" (default \"eng\").",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.langs = args[0]
			}
			opts.intervalSet = cmd.Flags().Changed("interval")
			return runTextshot(cmd.Context(), *opts)
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&opts.interval, "interval", "i", 0, "select a region once, then recognize it every INTERVAL milliseconds")
	flags.BoolVar(&opts.stdout, "stdout", false, "print recognized text instead of copying it")
	flags.StringVar(&opts.engine, "engine", "", "OCR engine: tesseract, vision or library")
	flags.IntVar(&opts.timeoutMS, "timeout", 0, "recognition timeout in milliseconds")
	flags.StringVar(&opts.configFile, "config", "", "TOML configuration file")
	flags.StringVar(&opts.apiKeyPath, "api-key-path", "", "path to the vision API key file (highest precedence)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	return cmd
}

// apply lays command-line values over the loaded configuration.
func (o mainOptions) apply(cfg *config.Config) {
	if o.langs != "" {
		cfg.Langs = o.langs
	}
	if o.intervalSet {
		cfg.SetInterval(time.Duration(o.interval) * time.Millisecond)
	}
	if o.engine != "" {
		cfg.Engine = strings.ToLower(o.engine)
	}
	if o.timeoutMS > 0 {
		cfg.OCRTimeout = time.Duration(o.timeoutMS) * time.Millisecond
	}
	if o.verbose {
		cfg.LogLevel = zerolog.LevelDebugValue
	}
}

func resolveMode(cfg *config.Config) cycle.Mode {
	if cfg.IntervalMode() {
		return cycle.Interval{Period: cfg.Interval}
	}
	return cycle.OneShot{}
}

func runTextshot(ctx context.Context, opts mainOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := runtimeinit.Bootstrap(ctx, runtimeinit.Options{
		LoadOptions:   config.LoadOptions{ConfigFile: opts.configFile, APIKeyPathOverride: opts.apiKeyPath},
		Apply:         opts.apply,
		SkipClipboard: opts.stdout,
	})
	if err != nil {
		return err
	}
	cfg := rt.Config

	sess, err := gui.New(gui.Options{HideSettle: cfg.HideSettle, Logger: rt.Log})
	if err != nil {
		return fmt.Errorf("failed to prepare overlay: %w", err)
	}
	logger := sess.Logger()

	var target session.ResultTarget = session.ClipboardTarget{}
	if opts.stdout {
		target = session.StdoutTarget{}
	}
	notifier := notification.NewChain(logger, !cfg.Notifications,
		notification.Command{},
		notification.Desktop{App: sess.App()},
	)
	ctrl := cycle.New(cycle.Options{
		Grabber:       screenshot.ScreenGrabber{},
		Recognizer:    rt.Recognizer,
		Target:        target,
		Notifier:      notifier,
		Logger:        logger,
		BeforeCapture: sess.HideOverlay,
	})

	mode := resolveMode(cfg)
	if _, interval := mode.(cycle.Interval); interval && cfg.StopHotkey != "" {
		stopHotkey, err := hotkey.Listen(cfg.StopHotkey, logger, sess.Cancel)
		if err != nil {
			logger.Warn().Err(err).Msg("stop hotkey unavailable; use the tray icon or Ctrl+C")
		} else {
			defer stopHotkey()
			logger.Info().Str("hotkey", cfg.StopHotkey).Msg("press the stop hotkey to end interval capture")
		}
	}

	logger.Info().Str("mode", mode.Name()).Str("langs", cfg.Langs).Msg("select a region, Escape to cancel")
	return sess.Run(ctx, mode, ctrl)
}

var legacyFlags = []string{"interval", "stdout", "engine", "timeout", "config", "api-key-path", "verbose"}

// normalizeLegacyArgs rewrites single-dash long flags (-interval=500) to the
// double-dash form cobra expects.
func normalizeLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}

	normalized := make([]string, len(args))
	copy(normalized, args)

	for i := 1; i < len(normalized); i++ {
		arg := normalized[i]
		if arg == "--" {
			break
		}
		for _, name := range legacyFlags {
			if arg == "-"+name || strings.HasPrefix(arg, "-"+name+"=") {
				normalized[i] = "-" + arg
				break
			}
		}
	}
	return normalized
}
