// Package overlay implements the drag-to-select overlay shown over a
// frozen screenshot of the display.
package overlay

import "textshot/src/screenshot"

// State is the phase of a selection gesture.
type State int

const (
	Idle State = iota
	Dragging
	Released
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Released:
		return "released"
	default:
		return "unknown"
	}
}

// Tracker follows one press/drag/release gesture. A release at the press
// point is no selection and returns the tracker to Idle. Once Released the
// tracker ignores further input.
type Tracker struct {
	state      State
	start, end screenshot.Point
}

// Press starts a gesture at p.
func (t *Tracker) Press(p screenshot.Point) {
	if t.state != Idle {
		return
	}
	t.start, t.end = p, p
	t.state = Dragging
}

// Move updates the free corner. It reports whether the rectangle changed.
func (t *Tracker) Move(p screenshot.Point) bool {
	if t.state != Dragging || p == t.end {
		return false
	}
	t.end = p
	return true
}

// Release ends the gesture at p and returns the finished region, if any.
func (t *Tracker) Release(p screenshot.Point) (screenshot.Region, bool) {
	if t.state != Dragging {
		return screenshot.Region{}, false
	}
	t.end = p
	if t.start == t.end {
		t.state = Idle
		return screenshot.Region{}, false
	}
	t.state = Released
	return screenshot.Normalize(t.start, t.end), true
}

func (t *Tracker) State() State            { return t.state }
func (t *Tracker) Start() screenshot.Point { return t.start }
func (t *Tracker) End() screenshot.Point   { return t.end }

// Rect is the current normalized rectangle; empty while Idle.
func (t *Tracker) Rect() screenshot.Region {
	if t.state == Idle {
		return screenshot.Region{}
	}
	return screenshot.Normalize(t.start, t.end)
}
