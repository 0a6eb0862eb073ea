//go:build !gosseract

package ocr

import (
	"context"
	"fmt"
)

// Library is only functional in binaries built with -tags gosseract.
type Library struct{}

func NewLibrary() Engine { return &Library{} }

func (l *Library) Name() string { return "library" }

func (l *Library) Probe(ctx context.Context) error {
	return fmt.Errorf("%w: built without libtesseract support (rebuild with -tags gosseract)", ErrEngineUnavailable)
}

func (l *Library) Recognize(ctx context.Context, png []byte, langs string) (string, error) {
	return "", l.Probe(ctx)
}
