package clipboard

import (
	"errors"
	"testing"

	"golang.design/x/clipboard"
)

func TestWriteBeforeInit(t *testing.T) {
	writeMu.Lock()
	was := initialized
	initialized = false
	writeMu.Unlock()
	t.Cleanup(func() {
		writeMu.Lock()
		initialized = was
		writeMu.Unlock()
	})

	if err := Write("test text"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Write before Init = %v, want ErrNotInitialized", err)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	// Needs a display server; headless CI has none.
	if err := Init(); err != nil {
		t.Skipf("clipboard unavailable: %v", err)
	}
	if err := Write("textshot clipboard test"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if got := string(clipboard.Read(clipboard.FmtText)); got != "textshot clipboard test" {
		t.Errorf("Read = %q", got)
	}
}
