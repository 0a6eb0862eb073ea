package overlay

import (
	"image"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"

	"textshot/src/screenshot"
)

func pt(x, y int) screenshot.Point { return screenshot.Point{X: x, Y: y} }

func TestTrackerGesture(t *testing.T) {
	var tr Tracker
	if tr.State() != Idle {
		t.Fatalf("initial state = %s", tr.State())
	}

	tr.Press(pt(10, 10))
	if tr.State() != Dragging {
		t.Fatalf("state after press = %s", tr.State())
	}
	if !tr.Move(pt(50, 30)) {
		t.Error("move to a new point should request a repaint")
	}
	if tr.Move(pt(50, 30)) {
		t.Error("move to the same point should not request a repaint")
	}

	region, ok := tr.Release(pt(110, 60))
	if !ok {
		t.Fatal("expected a selection")
	}
	want := screenshot.Region{X: 10, Y: 10, Width: 100, Height: 50}
	if region != want {
		t.Errorf("region = %v, want %v", region, want)
	}
	if tr.State() != Released {
		t.Errorf("state after release = %s", tr.State())
	}

	tr.Press(pt(0, 0))
	if tr.State() != Released || tr.Start() != pt(10, 10) {
		t.Error("a released tracker must ignore further input")
	}
}

func TestTrackerDegenerateRelease(t *testing.T) {
	var tr Tracker
	tr.Press(pt(40, 40))
	tr.Move(pt(80, 80))
	region, ok := tr.Release(pt(40, 40))
	if ok {
		t.Fatalf("release at the press point must not select, got %v", region)
	}
	if tr.State() != Idle {
		t.Errorf("state = %s, want idle", tr.State())
	}
	if !tr.Rect().Empty() {
		t.Errorf("idle tracker rect = %v", tr.Rect())
	}

	// The selector stays usable.
	tr.Press(pt(1, 1))
	if _, ok := tr.Release(pt(5, 9)); !ok {
		t.Error("second gesture should select")
	}
}

func TestTrackerReleaseWithoutPress(t *testing.T) {
	var tr Tracker
	if _, ok := tr.Release(pt(5, 5)); ok {
		t.Error("release without press must not select")
	}
	if tr.Move(pt(3, 3)) {
		t.Error("move without press must be ignored")
	}
}

func TestTrackerDirectionIndependent(t *testing.T) {
	a, b := pt(300, 20), pt(120, 240)

	var fwd, back Tracker
	fwd.Press(a)
	r1, _ := fwd.Release(b)
	back.Press(b)
	r2, _ := back.Release(a)

	if r1 != r2 {
		t.Errorf("drag direction changed the region: %v vs %v", r1, r2)
	}
}

func mouse(x, y float32, button desktop.MouseButton) *desktop.MouseEvent {
	return &desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}, Button: button}
}

func drag(x, y float32) *fyne.DragEvent {
	return &fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}}
}

func TestCanvasReportsScreenPixels(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	c := NewCanvas(image.NewRGBA(image.Rect(0, 0, 400, 300)), pt(1920, 0))
	c.Scale = 2
	c.Resize(fyne.NewSize(200, 150))

	var got []screenshot.Region
	c.OnSelect = func(r screenshot.Region) { got = append(got, r) }

	c.MouseDown(mouse(10, 5, desktop.MouseButtonPrimary))
	c.Dragged(drag(60, 30))
	c.MouseUp(mouse(60, 30, desktop.MouseButtonPrimary))
	c.DragEnd()

	if len(got) != 1 {
		t.Fatalf("OnSelect called %d times, want 1", len(got))
	}
	want := screenshot.Region{X: 1940, Y: 10, Width: 100, Height: 50}
	if got[0] != want {
		t.Errorf("region = %v, want %v", got[0], want)
	}
}

func TestCanvasIgnoresClickAndSecondaryButton(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	c := NewCanvas(image.NewRGBA(image.Rect(0, 0, 100, 100)), pt(0, 0))
	c.Scale = 1
	c.Resize(fyne.NewSize(100, 100))
	called := false
	c.OnSelect = func(screenshot.Region) { called = true }

	c.MouseDown(mouse(20, 20, desktop.MouseButtonSecondary))
	c.MouseUp(mouse(70, 70, desktop.MouseButtonSecondary))
	c.MouseDown(mouse(20, 20, desktop.MouseButtonPrimary))
	c.MouseUp(mouse(20, 20, desktop.MouseButtonPrimary))

	if called {
		t.Error("a click or secondary drag must not select")
	}
	if c.Tracker().State() != Idle {
		t.Errorf("state = %s, want idle", c.Tracker().State())
	}
}
