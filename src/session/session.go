package session

import (
	"fmt"
	"io"
	"os"

	"textshot/src/clipboard"
	"textshot/src/notification"
)

// ResultTarget receives the text of a successful pass.
type ResultTarget interface {
	OnSuccess(text string) error
	// OnFailure reports a pass that produced no text because of err.
	OnFailure(err error) error
	// SuccessMessage is the user-facing confirmation for text.
	SuccessMessage(text string) string
}

// ClipboardTarget replaces the clipboard contents with the recognized text.
type ClipboardTarget struct {
	// Write overrides clipboard.Write; used by tests.
	Write func(string) error
}

func (t ClipboardTarget) OnSuccess(text string) error {
	write := t.Write
	if write == nil {
		write = clipboard.Write
	}
	if err := write(text); err != nil {
		return fmt.Errorf("clipboard error: %w", err)
	}
	return nil
}

// OnFailure leaves the previous clipboard contents in place.
func (ClipboardTarget) OnFailure(err error) error {
	return nil
}

func (ClipboardTarget) SuccessMessage(text string) string {
	return notification.CopiedMessage(text)
}

// StdoutTarget prints the recognized text, one pass per line. Failures go
// to ErrWriter so stdout only ever carries text.
type StdoutTarget struct {
	Writer    io.Writer
	ErrWriter io.Writer
}

func (t StdoutTarget) OnSuccess(text string) error {
	w := t.Writer
	if w == nil {
		w = os.Stdout
	}
	_, err := fmt.Fprintln(w, text)
	return err
}

func (t StdoutTarget) OnFailure(err error) error {
	w := t.ErrWriter
	if w == nil {
		w = os.Stderr
	}
	_, werr := fmt.Fprintf(w, "textshot: %v\n", err)
	return werr
}

func (StdoutTarget) SuccessMessage(text string) string {
	return fmt.Sprintf("Printed %d characters", len([]rune(text)))
}
