package clipboard

import (
	"errors"
	"sync"

	"golang.design/x/clipboard"
)

// ErrNotInitialized is returned by Write before Init succeeded.
var ErrNotInitialized = errors.New("clipboard not initialized")

var (
	writeMu     sync.Mutex
	initialized bool
)

// Init connects to the system clipboard. It must succeed before Write.
func Init() error {
	writeMu.Lock()
	defer writeMu.Unlock()
	if initialized {
		return nil
	}
	if err := clipboard.Init(); err != nil {
		return err
	}
	initialized = true
	return nil
}

// Write replaces the clipboard contents with text. Writes are serialized.
func Write(text string) error {
	writeMu.Lock()
	defer writeMu.Unlock()
	if !initialized {
		return ErrNotInitialized
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}
