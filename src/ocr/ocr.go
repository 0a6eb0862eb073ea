package ocr

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"textshot/src/screenshot"
)

var (
	// ErrEngineUnavailable means the engine cannot be located or invoked at all.
	ErrEngineUnavailable = errors.New("ocr engine unavailable")
	// ErrTimeout means the engine did not answer within the recognition deadline.
	ErrTimeout = errors.New("ocr timed out")
)

// Engine is an external text recognizer.
type Engine interface {
	Name() string
	// Probe verifies the engine can be invoked. Called once at startup.
	Probe(ctx context.Context) error
	// Recognize returns the text found in a PNG image. langs is a
	// tesseract-style language list such as "eng" or "eng+fra"; empty
	// means the engine default.
	Recognize(ctx context.Context, png []byte, langs string) (string, error)
}

// Outcome is the result of one recognition: text (possibly empty) or a failure.
type Outcome struct {
	Text string
	Err  error
}

func Text(s string) Outcome { return Outcome{Text: s} }
func Failure(err error) Outcome { return Outcome{Err: err} }
func (o Outcome) Failed() bool { return o.Err != nil }
func (o Outcome) Empty() bool { return o.Err == nil && o.Text == "" }
func (o Outcome) HasText() bool { return o.Err == nil && o.Text != "" }

// Recognizer applies the language hint and deadline around an Engine.
type Recognizer struct {
	engine  Engine
	langs   string
	timeout time.Duration
	log     zerolog.Logger
}

func NewRecognizer(engine Engine, langs string, timeout time.Duration, logger zerolog.Logger) *Recognizer {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Recognizer{
		engine:  engine,
		langs:   langs,
		timeout: timeout,
		log:     logger.With().Str("engine", engine.Name()).Logger(),
	}
}

// Recognize encodes the capture losslessly and hands it to the engine.
// A capture with no pixels has no text; the engine is not called.
func (r *Recognizer) Recognize(ctx context.Context, c *screenshot.Capture) Outcome {
	if c.Empty() {
		r.log.Debug().Msg("empty capture, nothing to recognize")
		return Text("")
	}

	data, err := screenshot.EncodePNG(c)
	if err != nil {
		return Failure(err)
	}

	if os.Getenv("OCR_DEBUG_SAVE_IMAGES") == "true" {
		debugFilename := fmt.Sprintf("debug_captured_region_%dx%d.png", c.Region.Width, c.Region.Height)
		if err := os.WriteFile(debugFilename, data, 0600); err != nil {
			r.log.Warn().Err(err).Msg("could not save debug image")
		}
	}

	return r.RecognizePNG(ctx, data)
}

// RecognizePNG runs the engine on already-encoded image data.
func (r *Recognizer) RecognizePNG(ctx context.Context, data []byte) Outcome {
	jobCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	text, err := recognizeWithContext(jobCtx, r.engine, data, r.langs)
	elapsed := time.Since(start)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			err = fmt.Errorf("%w after %s", ErrTimeout, r.timeout)
		}
		r.log.Debug().Err(err).Dur("elapsed", elapsed).Msg("recognition failed")
		return Failure(err)
	}

	text = strings.TrimSpace(text)
	r.log.Debug().Int("chars", len(text)).Dur("elapsed", elapsed).Msg("recognition finished")
	return Text(text)
}

// recognizeWithContext returns as soon as ctx is done even if the engine
// does not honour cancellation itself; the engine call is then abandoned.
func recognizeWithContext(ctx context.Context, engine Engine, data []byte, langs string) (string, error) {
	resCh := make(chan struct {
		text string
		err  error
	}, 1)

	go func() {
		text, err := engine.Recognize(ctx, data, langs)
		resCh <- struct {
			text string
			err  error
		}{text: text, err: err}
	}()

	select {
	case r := <-resCh:
		if r.err != nil && ctx.Err() != nil {
			return "", ctx.Err()
		}
		return r.text, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// EngineOptions selects and configures an engine.
type EngineOptions struct {
	Name          string
	TesseractPath string
	APIKey        string
	VisionModel   string
	VisionBaseURL string
}

// NewEngine builds the named engine. It does not probe it.
func NewEngine(opts EngineOptions) (Engine, error) {
	switch strings.ToLower(opts.Name) {
	case "", "tesseract":
		return &TesseractCLI{Path: opts.TesseractPath}, nil
	case "vision":
		return NewVision(VisionConfig{
			APIKey:  opts.APIKey,
			Model:   opts.VisionModel,
			BaseURL: opts.VisionBaseURL,
		}), nil
	case "library":
		return NewLibrary(), nil
	default:
		return nil, fmt.Errorf("unknown OCR engine %q", opts.Name)
	}
}
