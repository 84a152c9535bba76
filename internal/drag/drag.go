// Package drag turns pointer and touch events into a single drop.
//
// A Machine is idle until Start is called for a piece, follows the pointer
// while dragging and fires its drop callback exactly once when the pointer is
// released. It knows nothing about positions or squares.
package drag

import "github.com/hailam/chessboard/internal/board"

// Rect is an axis-aligned box in absolute pixel space.
type Rect struct {
	Min, Max board.Point
}

// Width returns the horizontal extent of r.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent of r.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Surface is the area a drag is measured against.
type Surface interface {
	// Bounds reports the current on-screen box of the surface.
	Bounds() Rect
}

// SurfaceFunc adapts a function to Surface.
type SurfaceFunc func() Rect

// Bounds implements Surface.
func (f SurfaceFunc) Bounds() Rect { return f() }

// Target is the visual being dragged.
type Target interface {
	SetDragging(dragging bool)
	// MoveTo places the target under p, relative to the surface.
	MoveTo(p board.Point)
}

// Source tells mouse and touch input apart.
type Source int

const (
	Mouse Source = iota
	Touch
)

func (s Source) String() string {
	if s == Touch {
		return "touch"
	}
	return "mouse"
}

// Primary is the mouse button that starts drags.
const Primary = 0

// Pointer is one pointer or touch event in absolute pixels.
type Pointer struct {
	Source Source
	X, Y   float64
	// Button is the mouse button of a press or release.
	Button int
	// Touches is the number of fingers on the surface (touch start/move).
	Touches int
}

// Point returns the absolute position of the event.
func (p Pointer) Point() board.Point {
	return board.Point{X: p.X, Y: p.Y}
}

// Accepts reports whether ev may start a drag: a primary button press or a
// single-finger touch.
func Accepts(ev Pointer) bool {
	if ev.Source == Touch {
		return ev.Touches <= 1
	}
	return ev.Button == Primary
}

// Relative converts an absolute point to surface coordinates using the
// surface's bounds at the time of the call.
func Relative(abs board.Point, s Surface) board.Point {
	if s == nil {
		return abs
	}
	return abs.Sub(s.Bounds().Min)
}

// DropFunc receives the release point relative to the surface.
type DropFunc func(p board.Point)

// State is the phase of a Machine.
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Machine tracks at most one drag at a time.
type Machine struct {
	state   State
	source  Source
	target  Target
	surface Surface
	onDrop  DropFunc
}

// New returns an idle machine.
func New() *Machine {
	return &Machine{}
}

// State returns the current phase.
func (m *Machine) State() State {
	return m.state
}

// Dragging reports whether a drag is in progress.
func (m *Machine) Dragging() bool {
	return m.state == Dragging
}

// Start begins dragging t in response to ev. It returns false when a drag is
// already running or ev is not an acceptable start event.
func (m *Machine) Start(t Target, s Surface, ev Pointer, onDrop DropFunc) bool {
	if m.state != Idle || t == nil || !Accepts(ev) {
		return false
	}

	m.state = Dragging
	m.source = ev.Source
	m.target = t
	m.surface = s
	m.onDrop = onDrop

	t.SetDragging(true)
	t.MoveTo(Relative(ev.Point(), s))
	return true
}

// Move follows the pointer. Events from another source and multi-finger
// moves are ignored.
func (m *Machine) Move(ev Pointer) bool {
	if m.state != Dragging || ev.Source != m.source {
		return false
	}
	if ev.Source == Touch && ev.Touches > 1 {
		return false
	}
	m.target.MoveTo(Relative(ev.Point(), m.surface))
	return true
}

// End finishes the drag and invokes the drop callback once. Later calls are
// ignored until the next Start.
func (m *Machine) End(ev Pointer) bool {
	if m.state != Dragging || ev.Source != m.source {
		return false
	}

	p := Relative(ev.Point(), m.surface)
	target, onDrop := m.target, m.onDrop

	m.state = Idle
	m.target = nil
	m.surface = nil
	m.onDrop = nil

	target.SetDragging(false)
	if onDrop != nil {
		onDrop(p)
	}
	return true
}
