package widget

import (
	"github.com/hailam/chessboard/internal/board"
	"github.com/hailam/chessboard/internal/drag"
)

// Renderer draws piece visuals for a Board. Points are the top-left corner of
// a piece visual relative to the board surface.
//
// Completion callbacks may be nil. A non-nil done is called exactly once, when
// the visual settles; renderers may call it before returning when animate is
// false. Adding a piece whose ID belongs to a visual that is still animating
// out replaces that visual.
type Renderer interface {
	drag.Surface

	// Add creates a visual for p at the given point, fading it in when animate is set.
	Add(p *board.Piece, at board.Point, animate bool, done func())
	// Translate moves the visual for id, sliding when animate is set.
	Translate(id string, to board.Point, animate bool, done func())
	// Remove destroys the visual for id, fading it out first when animate is set.
	Remove(id string, animate bool, done func())

	SetActive(id string, active bool)
	SetDragging(id string, dragging bool)
	// DragTo places the visual for id at p without animating.
	DragTo(id string, p board.Point)

	// Animating reports whether any tween is still in flight.
	Animating() bool
}

// pieceTarget is the drag.Target for one piece visual. Pointer positions are
// translated so that the piece is centred under the pointer.
type pieceTarget struct {
	r    Renderer
	id   string
	half float64
}

func (t *pieceTarget) SetDragging(dragging bool) {
	t.r.SetDragging(t.id, dragging)
}

func (t *pieceTarget) MoveTo(p board.Point) {
	t.r.DragTo(t.id, p.Sub(board.Point{X: t.half, Y: t.half}))
}
