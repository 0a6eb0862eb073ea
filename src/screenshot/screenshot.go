package screenshot

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/kbinani/screenshot"
)

// Point is a position in virtual-screen pixel coordinates.
type Point struct {
	X int
	Y int
}

// Region represents a screen region to capture
type Region struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Normalize turns two drag corners into a region with non-negative size.
// The result does not depend on which corner the drag started from.
func Normalize(start, end Point) Region {
	return Region{
		X:      min(start.X, end.X),
		Y:      min(start.Y, end.Y),
		Width:  abs(start.X - end.X),
		Height: abs(start.Y - end.Y),
	}
}

// Empty reports whether the region covers no pixels.
func (r Region) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Rect returns the region as an image rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

func (r Region) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// Capture is the pixel content of a region at the moment it was grabbed.
type Capture struct {
	Region Region
	Image  *image.RGBA
}

// Empty reports whether the capture holds no pixels.
func (c *Capture) Empty() bool {
	return c == nil || c.Image == nil || c.Image.Bounds().Empty()
}

// Grabber returns the current screen contents of a region.
type Grabber interface {
	Grab(region Region) (*Capture, error)
}

// ScreenGrabber grabs pixels from the real displays.
type ScreenGrabber struct{}

// Grab captures region. Zero-sized regions yield an empty image rather than an error.
func (ScreenGrabber) Grab(region Region) (*Capture, error) {
	if region.Empty() {
		return &Capture{Region: region, Image: image.NewRGBA(image.Rectangle{})}, nil
	}
	img, err := screenshot.CaptureRect(region.Rect())
	if err != nil {
		return nil, fmt.Errorf("failed to capture region %s: %w", region, err)
	}
	return &Capture{Region: region, Image: img}, nil
}

// Display describes one active monitor.
type Display struct {
	Index  int
	Bounds image.Rectangle
}

// Origin is the top-left corner of the display in virtual-screen coordinates.
func (d Display) Origin() Point {
	return Point{X: d.Bounds.Min.X, Y: d.Bounds.Min.Y}
}

// Primary returns the primary display (display 0).
func Primary() (Display, error) {
	if screenshot.NumActiveDisplays() == 0 {
		return Display{}, fmt.Errorf("no active displays found")
	}
	return Display{Index: 0, Bounds: screenshot.GetDisplayBounds(0)}, nil
}

// Displays lists the active monitors.
func Displays() []Display {
	n := screenshot.NumActiveDisplays()
	out := make([]Display, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Display{Index: i, Bounds: screenshot.GetDisplayBounds(i)})
	}
	return out
}

// Backdrop captures the whole display, used as the frozen overlay background.
func Backdrop(d Display) (*image.RGBA, error) {
	img, err := screenshot.CaptureDisplay(d.Index)
	if err != nil {
		return nil, fmt.Errorf("failed to capture display %d: %w", d.Index, err)
	}
	return img, nil
}

// EncodePNG encodes a capture losslessly for handoff to a recognition engine.
func EncodePNG(c *Capture) ([]byte, error) {
	if c.Empty() {
		return nil, fmt.Errorf("cannot encode empty capture")
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, c.Image); err != nil {
		return nil, fmt.Errorf("failed to encode image as PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
