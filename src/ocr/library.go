//go:build gosseract

package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Library runs libtesseract in-process through cgo.
type Library struct{}

func NewLibrary() Engine { return &Library{} }

func (l *Library) Name() string { return "library" }

func (l *Library) Probe(ctx context.Context) error {
	if v := gosseract.Version(); v == "" {
		return fmt.Errorf("%w: libtesseract did not report a version", ErrEngineUnavailable)
	}
	return nil
}

// Recognize ignores ctx; the caller abandons the call on deadline.
func (l *Library) Recognize(ctx context.Context, png []byte, langs string) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if langs != "" {
		if err := client.SetLanguage(strings.Split(langs, "+")...); err != nil {
			return "", fmt.Errorf("failed to set languages %q: %w", langs, err)
		}
	}
	if err := client.SetImageFromBytes(png); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract OCR failed: %w", err)
	}
	return text, nil
}
