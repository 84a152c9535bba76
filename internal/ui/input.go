package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/hailam/chessboard/internal/drag"
)

// PointerSink receives pointer events in logical coordinates.
type PointerSink interface {
	PointerDown(ev drag.Pointer)
	PointerMove(ev drag.Pointer)
	PointerUp(ev drag.Pointer)
}

// mouseButtons maps ebiten buttons to DOM-style button numbers.
var mouseButtons = []struct {
	button ebiten.MouseButton
	number int
}{
	{ebiten.MouseButtonLeft, drag.Primary},
	{ebiten.MouseButtonMiddle, 1},
	{ebiten.MouseButtonRight, 2},
}

// InputHandler turns ebiten mouse and touch state into pointer events.
type InputHandler struct {
	mouseX, mouseY float64 // Logical coordinates (unscaled)
	scale          float64
	touches        []ebiten.TouchID
	justTouched    []ebiten.TouchID
	justReleased   []ebiten.TouchID
}

// NewInputHandler creates a new input handler.
func NewInputHandler() *InputHandler {
	return &InputHandler{scale: 1.0}
}

// logical converts device pixels to logical coordinates.
func (ih *InputHandler) logical(x, y int) (float64, float64) {
	return float64(x) / ih.scale, float64(y) / ih.scale
}

// Update reads this tick's input and delivers it to sink. Call once per frame.
func (ih *InputHandler) Update(sink PointerSink, scale float64) {
	ih.scale = max(scale, 1.0)
	ih.updateMouse(sink)
	ih.updateTouches(sink)
}

func (ih *InputHandler) updateMouse(sink PointerSink) {
	x, y := ih.logical(ebiten.CursorPosition())
	moved := x != ih.mouseX || y != ih.mouseY
	ih.mouseX, ih.mouseY = x, y

	for _, b := range mouseButtons {
		if inpututil.IsMouseButtonJustPressed(b.button) {
			sink.PointerDown(drag.Pointer{Source: drag.Mouse, X: x, Y: y, Button: b.number})
		}
	}
	if moved {
		sink.PointerMove(drag.Pointer{Source: drag.Mouse, X: x, Y: y})
	}
	for _, b := range mouseButtons {
		if inpututil.IsMouseButtonJustReleased(b.button) {
			sink.PointerUp(drag.Pointer{Source: drag.Mouse, X: x, Y: y, Button: b.number})
		}
	}
}

func (ih *InputHandler) updateTouches(sink PointerSink) {
	ih.touches = ebiten.AppendTouchIDs(ih.touches[:0])
	ih.justTouched = inpututil.AppendJustPressedTouchIDs(ih.justTouched[:0])
	ih.justReleased = inpututil.AppendJustReleasedTouchIDs(ih.justReleased[:0])
	count := len(ih.touches)

	for _, id := range ih.justTouched {
		x, y := ih.logical(ebiten.TouchPosition(id))
		sink.PointerDown(drag.Pointer{Source: drag.Touch, X: x, Y: y, Touches: count})
	}
	for _, id := range ih.touches {
		if inpututil.TouchPressDuration(id) == 0 {
			continue
		}
		px, py := inpututil.TouchPositionInPreviousTick(id)
		cx, cy := ebiten.TouchPosition(id)
		if px == cx && py == cy {
			continue
		}
		x, y := ih.logical(cx, cy)
		sink.PointerMove(drag.Pointer{Source: drag.Touch, X: x, Y: y, Touches: count})
	}
	// Only the first finger lifted this tick ends a drag.
	if len(ih.justReleased) > 0 {
		x, y := ih.logical(inpututil.TouchPositionInPreviousTick(ih.justReleased[0]))
		sink.PointerUp(drag.Pointer{Source: drag.Touch, X: x, Y: y, Touches: count})
	}
}

// MousePosition returns the current mouse position in logical coordinates.
func (ih *InputHandler) MousePosition() (float64, float64) {
	return ih.mouseX, ih.mouseY
}

// IsKeyJustPressed returns true if the specified key was just pressed.
func IsKeyJustPressed(key ebiten.Key) bool {
	return inpututil.IsKeyJustPressed(key)
}
