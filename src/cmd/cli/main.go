package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"textshot/src/config"
	"textshot/src/logutil"
	"textshot/src/ocr"
	"textshot/src/runtimeinit"
)

const (
	maxFileSizeMB = 10
	maxFileSize   = maxFileSizeMB * 1024 * 1024
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}

type cliOptions struct {
	filePath   string
	jsonOutput bool
	verbose    bool
	lang       string
	engine     string
	timeoutMS  int
	configFile string
	apiKeyPath string

	// newEngine replaces ocr.NewEngine; used by tests.
	newEngine func(ocr.EngineOptions) (ocr.Engine, error)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return runWithArgs(normalizeLegacyArgs(os.Args))
}

func runWithArgs(args []string) error {
	if len(args) == 0 {
		args = []string{"ocr-tool"}
	}

	opts := &cliOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ocr-tool",
		Short:         "Run OCR on PNG input",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithOptions(cmd.Context(), *opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.filePath, "file", "", "Path to PNG file (use '-' for stdin)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output results as JSON")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output to stderr")
	cmd.Flags().StringVar(&opts.lang, "lang", "", "Tesseract language codes, e.g. eng+fra")
	cmd.Flags().StringVar(&opts.engine, "engine", "", "OCR engine: tesseract, vision or library")
	cmd.Flags().IntVar(&opts.timeoutMS, "timeout", 0, "Recognition timeout in milliseconds")
	cmd.Flags().StringVar(&opts.configFile, "config", "", "TOML configuration file")
	cmd.Flags().StringVar(&opts.apiKeyPath, "api-key-path", "", "Path to API key file (highest precedence)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func (o cliOptions) apply(cfg *config.Config) {
	if o.lang != "" {
		cfg.Langs = o.lang
	}
	if o.engine != "" {
		cfg.Engine = strings.ToLower(o.engine)
	}
	if o.timeoutMS > 0 {
		cfg.OCRTimeout = time.Duration(o.timeoutMS) * time.Millisecond
	}
}

func runWithOptions(ctx context.Context, opts cliOptions, stdin io.Reader, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// stdout carries only the result; diagnostics go to stderr when verbose.
	rt, err := runtimeinit.Bootstrap(ctx, runtimeinit.Options{
		LoadOptions: config.LoadOptions{ConfigFile: opts.configFile, APIKeyPathOverride: opts.apiKeyPath},
		Apply:       opts.apply,
		SetupLogging: func(cfg *config.Config) zerolog.Logger {
			level := zerolog.Disabled.String()
			if opts.verbose {
				level = zerolog.LevelDebugValue
			}
			return logutil.Setup(logutil.Options{Level: level, EnableFileLogging: cfg.EnableFileLogging})
		},
		NewEngine:     opts.newEngine,
		Alert:         func(string, string) {},
		SkipClipboard: true,
	})
	if err != nil {
		return err
	}
	rt.Log.Debug().Str("engine", rt.Engine.Name()).Str("api_key", logutil.RedactKey(rt.Config.APIKey)).Msg("configuration loaded")

	imageData, err := readInput(opts.filePath, stdin)
	if err != nil {
		return err
	}
	rt.Log.Debug().Int("bytes", len(imageData)).Msg("input read")

	return performOCR(ctx, rt.Recognizer, imageData, opts.filePath, opts.jsonOutput, stdout)
}

func readInput(filePath string, stdin io.Reader) ([]byte, error) {
	var imageData []byte
	var err error

	if filePath == "-" {
		imageData, err = io.ReadAll(io.LimitReader(stdin, maxFileSize+1))
		if err != nil {
			return nil, fmt.Errorf("failed to read from stdin: %w", err)
		}
	} else {
		imageData, err = os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
		}
	}

	if len(imageData) == 0 {
		return nil, fmt.Errorf("input file is empty")
	}
	if len(imageData) > maxFileSize {
		return nil, fmt.Errorf("input file exceeds maximum size of %d MB", maxFileSizeMB)
	}
	if err := validatePNG(imageData); err != nil {
		return nil, err
	}
	return imageData, nil
}

func validatePNG(data []byte) error {
	if len(data) < len(pngMagic) || !bytes.Equal(data[:len(pngMagic)], pngMagic) {
		return fmt.Errorf("input is not a valid PNG file (invalid magic number)")
	}
	return nil
}

type recognizer interface {
	RecognizePNG(ctx context.Context, data []byte) ocr.Outcome
}

func performOCR(ctx context.Context, r recognizer, imageData []byte, sourcePath string, jsonOutput bool, w io.Writer) error {
	startTime := time.Now()
	out := r.RecognizePNG(ctx, imageData)
	elapsed := time.Since(startTime)

	if out.Failed() {
		return fmt.Errorf("OCR failed: %w", out.Err)
	}
	return outputResult(w, out.Text, sourcePath, elapsed, jsonOutput)
}

type OCRResult struct {
	Text      string  `json:"text"`
	Source    string  `json:"source"`
	Timestamp string  `json:"timestamp"`
	Duration  float64 `json:"duration_seconds"`
	CharCount int     `json:"character_count"`
}

func outputResult(w io.Writer, text string, sourcePath string, elapsed time.Duration, jsonOutput bool) error {
	if jsonOutput {
		result := OCRResult{
			Text:      text,
			Source:    sourcePath,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Duration:  elapsed.Seconds(),
			CharCount: len([]rune(text)),
		}

		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			return fmt.Errorf("failed to encode JSON output: %w", err)
		}
		return nil
	}

	_, err := fmt.Fprint(w, text)
	return err
}

var legacyFlags = []string{"file", "json", "verbose", "lang", "engine", "timeout", "config", "api-key-path"}

func normalizeLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}

	normalized := make([]string, len(args))
	copy(normalized, args)

	for i := 1; i < len(normalized); i++ {
		arg := normalized[i]
		for _, name := range legacyFlags {
			if arg == "-"+name || strings.HasPrefix(arg, "-"+name+"=") {
				normalized[i] = "-" + arg
				break
			}
		}
	}

	return normalized
}
