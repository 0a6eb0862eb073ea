package runtimeinit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"textshot/src/clipboard"
	"textshot/src/config"
	"textshot/src/logutil"
	"textshot/src/notification"
	"textshot/src/ocr"
)

const probeTimeout = 10 * time.Second

type Options struct {
	LoadOptions config.LoadOptions
	// Apply overrides loaded values, e.g. from command-line flags.
	Apply func(*config.Config)
	// SetupLogging defaults to logutil.Setup with the loaded settings.
	SetupLogging func(*config.Config) zerolog.Logger
	// NewEngine defaults to ocr.NewEngine.
	NewEngine func(ocr.EngineOptions) (ocr.Engine, error)
	// Alert shows fatal startup errors. Defaults to notification.ShowBlockingError.
	Alert func(title, message string)
	// SkipClipboard leaves the clipboard uninitialized (stdout and file modes).
	SkipClipboard bool
	// InitClipboard defaults to clipboard.Init.
	InitClipboard func() error
}

// Runtime is everything a run needs once startup checks passed.
type Runtime struct {
	Config     *config.Config
	Engine     ocr.Engine
	Recognizer *ocr.Recognizer
	Log        zerolog.Logger
}

// Bootstrap loads configuration, sets up logging and probes the OCR engine
// exactly once. It fails before any window exists when the engine is unusable.
func Bootstrap(ctx context.Context, opts Options) (*Runtime, error) {
	cfg, err := config.LoadWithOptions(opts.LoadOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.Apply != nil {
		opts.Apply(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
	}

	setup := opts.SetupLogging
	if setup == nil {
		setup = func(cfg *config.Config) zerolog.Logger {
			return logutil.Setup(logutil.Options{EnableFileLogging: cfg.EnableFileLogging, Level: cfg.LogLevel})
		}
	}
	logger := setup(cfg)

	newEngine := opts.NewEngine
	if newEngine == nil {
		newEngine = ocr.NewEngine
	}
	engine, err := newEngine(ocr.EngineOptions{
		Name:          cfg.Engine,
		TesseractPath: cfg.TesseractPath,
		APIKey:        cfg.APIKey,
		VisionModel:   cfg.VisionModel,
		VisionBaseURL: cfg.VisionBaseURL,
	})
	if err != nil {
		return nil, err
	}

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	if err := engine.Probe(probeCtx); err != nil {
		logger.Error().Err(err).Str("engine", engine.Name()).Msg("OCR engine unavailable")
		alert := opts.Alert
		if alert == nil {
			alert = notification.ShowBlockingError
		}
		alert(notification.Title, probeMessage(engine, err))
		if !errors.Is(err, ocr.ErrEngineUnavailable) {
			err = fmt.Errorf("%w: %w", ocr.ErrEngineUnavailable, err)
		}
		return nil, fmt.Errorf("startup check failed: %w", err)
	}
	logger.Info().Str("engine", engine.Name()).Str("langs", cfg.Langs).Msg("OCR engine ready")

	if !opts.SkipClipboard {
		initClipboard := opts.InitClipboard
		if initClipboard == nil {
			initClipboard = clipboard.Init
		}
		if err := initClipboard(); err != nil {
			return nil, fmt.Errorf("failed to initialize clipboard: %w", err)
		}
	}

	return &Runtime{
		Config:     cfg,
		Engine:     engine,
		Recognizer: ocr.NewRecognizer(engine, cfg.Langs, cfg.OCRTimeout, logger.With().Str("component", "ocr").Logger()),
		Log:        logger,
	}, nil
}

func probeMessage(engine ocr.Engine, err error) string {
	if engine.Name() == config.EngineTesseract {
		return notification.EngineMissing
	}
	return fmt.Sprintf("The %s OCR engine is unavailable: %v", engine.Name(), err)
}
