package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const defaultTesseractBinary = "tesseract"

// TesseractCLI runs the tesseract command-line recognizer, feeding the
// image on stdin and reading text from stdout.
type TesseractCLI struct {
	// Path is the tesseract binary; empty means look it up in PATH.
	Path string
}

func (t *TesseractCLI) Name() string { return "tesseract" }

func (t *TesseractCLI) binary() string {
	if t.Path != "" {
		return t.Path
	}
	return defaultTesseractBinary
}

// Probe checks that the binary exists and answers --version.
func (t *TesseractCLI) Probe(ctx context.Context) error {
	_, err := t.Version(ctx)
	return err
}

// Version returns the first line of `tesseract --version`.
func (t *TesseractCLI) Version(ctx context.Context) (string, error) {
	path, err := exec.LookPath(t.binary())
	if err != nil {
		return "", fmt.Errorf("%w: tesseract is either not installed or cannot be reached (%v)", ErrEngineUnavailable, err)
	}
	out, err := exec.CommandContext(ctx, path, "--version").CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%w: %s --version: %v", ErrEngineUnavailable, path, err)
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return line, nil
}

func (t *TesseractCLI) Recognize(ctx context.Context, png []byte, langs string) (string, error) {
	args := []string{"stdin", "stdout"}
	if langs != "" {
		args = append(args, "-l", langs)
	}

	cmd := exec.CommandContext(ctx, t.binary(), args...)
	cmd.Stdin = bytes.NewReader(png)
	cmd.WaitDelay = time.Second
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("tesseract failed: %w: %s", err, msg)
		}
		return "", fmt.Errorf("tesseract failed: %w", err)
	}
	return stdout.String(), nil
}
