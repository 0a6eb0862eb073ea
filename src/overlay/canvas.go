package overlay

import (
	"image"
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"textshot/src/screenshot"
)

const borderWidth = 3

var (
	dimColor    = color.NRGBA{A: 100}
	borderColor = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

var (
	_ desktop.Mouseable  = (*Canvas)(nil)
	_ desktop.Cursorable = (*Canvas)(nil)
	_ fyne.Draggable     = (*Canvas)(nil)
)

// Canvas renders the frozen backdrop with a dim mask and lets the user drag
// a rectangle on it. Positions are reported in absolute screen pixels.
type Canvas struct {
	widget.BaseWidget

	backdrop image.Image
	origin   screenshot.Point
	tracker  Tracker

	// Scale overrides the canvas scale used to convert to pixels.
	Scale float32
	// OnSelect receives the finished selection in screen pixels.
	OnSelect func(screenshot.Region)
}

// NewCanvas shows backdrop, a capture of the display whose top-left pixel
// is origin.
func NewCanvas(backdrop image.Image, origin screenshot.Point) *Canvas {
	c := &Canvas{backdrop: backdrop, origin: origin}
	c.ExtendBaseWidget(c)
	return c
}

// Tracker exposes the gesture state.
func (c *Canvas) Tracker() *Tracker { return &c.tracker }

func (c *Canvas) CreateRenderer() fyne.WidgetRenderer {
	img := canvas.NewImageFromImage(c.backdrop)
	img.FillMode = canvas.ImageFillStretch
	img.ScaleMode = canvas.ImageScalePixels

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = borderColor
	border.StrokeWidth = borderWidth

	r := &canvasRenderer{c: c, backdrop: img, border: border}
	for i := range r.mask {
		r.mask[i] = canvas.NewRectangle(dimColor)
	}
	return r
}

func (c *Canvas) Cursor() desktop.Cursor { return desktop.CrosshairCursor }

func (c *Canvas) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	c.tracker.Press(c.toScreen(ev.Position))
	c.Refresh()
}

func (c *Canvas) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	c.release(c.toScreen(ev.Position))
}

func (c *Canvas) Dragged(ev *fyne.DragEvent) {
	if c.tracker.Move(c.toScreen(ev.Position)) {
		c.Refresh()
	}
}

// DragEnd covers drivers that end a drag without a MouseUp.
func (c *Canvas) DragEnd() {
	if c.tracker.State() == Dragging {
		c.release(c.tracker.End())
	}
}

func (c *Canvas) release(p screenshot.Point) {
	region, ok := c.tracker.Release(p)
	c.Refresh()
	if ok && c.OnSelect != nil {
		c.OnSelect(region)
	}
}

func (c *Canvas) scale() float32 {
	if c.Scale > 0 {
		return c.Scale
	}
	if app := fyne.CurrentApp(); app != nil {
		if cv := app.Driver().CanvasForObject(c); cv != nil {
			return cv.Scale()
		}
	}
	return 1
}

func (c *Canvas) toScreen(pos fyne.Position) screenshot.Point {
	s := c.scale()
	return screenshot.Point{
		X: c.origin.X + int(math.Round(float64(pos.X*s))),
		Y: c.origin.Y + int(math.Round(float64(pos.Y*s))),
	}
}

func (c *Canvas) toCanvas(p screenshot.Point) fyne.Position {
	s := c.scale()
	return fyne.NewPos(float32(p.X-c.origin.X)/s, float32(p.Y-c.origin.Y)/s)
}

type canvasRenderer struct {
	c        *Canvas
	backdrop *canvas.Image
	// top, bottom, left, right of the selection
	mask   [4]*canvas.Rectangle
	border *canvas.Rectangle
}

func (r *canvasRenderer) Layout(size fyne.Size) {
	r.backdrop.Resize(size)
	r.backdrop.Move(fyne.NewPos(0, 0))

	sel := r.c.tracker.Rect()
	if sel.Empty() {
		r.place(r.mask[0], 0, 0, size.Width, size.Height)
		for _, m := range r.mask[1:] {
			m.Hide()
		}
		r.border.Hide()
		return
	}

	tl := r.c.toCanvas(screenshot.Point{X: sel.X, Y: sel.Y})
	br := r.c.toCanvas(screenshot.Point{X: sel.X + sel.Width, Y: sel.Y + sel.Height})
	x0, y0 := clamp(tl.X, size.Width), clamp(tl.Y, size.Height)
	x1, y1 := clamp(br.X, size.Width), clamp(br.Y, size.Height)

	r.place(r.mask[0], 0, 0, size.Width, y0)
	r.place(r.mask[1], 0, y1, size.Width, size.Height-y1)
	r.place(r.mask[2], 0, y0, x0, y1-y0)
	r.place(r.mask[3], x1, y0, size.Width-x1, y1-y0)

	r.border.Move(fyne.NewPos(x0, y0))
	r.border.Resize(fyne.NewSize(x1-x0, y1-y0))
	r.border.Show()
}

func (r *canvasRenderer) place(rect *canvas.Rectangle, x, y, w, h float32) {
	if w <= 0 || h <= 0 {
		rect.Hide()
		return
	}
	rect.Move(fyne.NewPos(x, y))
	rect.Resize(fyne.NewSize(w, h))
	rect.Show()
}

func (r *canvasRenderer) MinSize() fyne.Size { return fyne.NewSize(1, 1) }

func (r *canvasRenderer) Refresh() {
	r.Layout(r.c.Size())
	// backdrop is static
	for _, m := range r.mask {
		canvas.Refresh(m)
	}
	canvas.Refresh(r.border)
}

func (r *canvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.backdrop, r.mask[0], r.mask[1], r.mask[2], r.mask[3], r.border}
}

func (r *canvasRenderer) Destroy() {}

func clamp(v, limit float32) float32 {
	return max(0, min(v, limit))
}
