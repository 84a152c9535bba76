package motion

import (
	"testing"
	"time"

	"github.com/hailam/chessboard/internal/board"
	"github.com/hailam/chessboard/internal/drag"
)

func newTestLayer() *Layer {
	l := NewLayer(drag.Rect{Max: board.Point{X: 400, Y: 400}})
	l.SetDurations(100*time.Millisecond, 100*time.Millisecond)
	l.ease = Linear
	return l
}

func piece(id string) *board.Piece {
	p := board.NewPiece(board.White, board.Knight)
	p.ID = id
	return p
}

func counter() (func(), *int) {
	n := 0
	return func() { n++ }, &n
}

func TestAddAnimated(t *testing.T) {
	l := newTestLayer()
	done, n := counter()
	l.Add(piece("wn1"), board.Point{X: 50, Y: 50}, true, done)

	v, _ := l.Visual("wn1")
	if v.Alpha != 0 || !l.Animating() {
		t.Fatal("Expected the piece to start transparent and animating")
	}

	l.Update(50 * time.Millisecond)
	if v.Alpha != 0.5 {
		t.Errorf("Expected alpha 0.5 half way, got %f", v.Alpha)
	}
	l.Update(60 * time.Millisecond)
	l.Update(60 * time.Millisecond)
	if *n != 1 {
		t.Errorf("Expected done once, got %d", *n)
	}
	if v.Alpha != 1 || v.Scale != 1 || l.Animating() {
		t.Error("Expected the piece fully shown and idle")
	}
}

func TestAddImmediate(t *testing.T) {
	l := newTestLayer()
	done, n := counter()
	l.Add(piece("wn1"), board.Point{}, false, done)
	if *n != 1 || l.Animating() {
		t.Error("Expected an immediate add to complete synchronously")
	}
}

func TestTranslate(t *testing.T) {
	l := newTestLayer()
	l.Add(piece("wn1"), board.Point{X: 0, Y: 0}, false, nil)

	done, n := counter()
	l.Translate("wn1", board.Point{X: 100, Y: 200}, true, done)
	l.Update(50 * time.Millisecond)

	v, _ := l.Visual("wn1")
	if v.Pos != (board.Point{X: 50, Y: 100}) {
		t.Errorf("Expected 50,100 half way, got %+v", v.Pos)
	}
	if !v.Moving() {
		t.Error("Expected the visual to be moving")
	}
	l.Update(50 * time.Millisecond)
	if v.Pos != (board.Point{X: 100, Y: 200}) || *n != 1 {
		t.Errorf("Expected arrival and one callback, got %+v and %d", v.Pos, *n)
	}
}

func TestTranslateZeroDistanceCompletes(t *testing.T) {
	l := newTestLayer()
	at := board.Point{X: 10, Y: 10}
	l.Add(piece("wn1"), at, false, nil)

	done, n := counter()
	l.Translate("wn1", at, true, done)
	if *n != 1 || l.Animating() {
		t.Error("Expected a slide without distance to complete at once")
	}
}

func TestSupersededSlideFiresOnce(t *testing.T) {
	l := newTestLayer()
	l.Add(piece("wn1"), board.Point{}, false, nil)

	first, n1 := counter()
	second, n2 := counter()
	l.Translate("wn1", board.Point{X: 100}, true, first)
	l.Update(50 * time.Millisecond)
	l.Translate("wn1", board.Point{Y: 100}, true, second)
	if *n1 != 1 {
		t.Errorf("Expected the first slide's callback when superseded, got %d", *n1)
	}

	v, _ := l.Visual("wn1")
	if v.Pos != (board.Point{X: 50}) {
		t.Errorf("Expected the new slide to start where the old one stopped, got %+v", v.Pos)
	}
	l.Update(200 * time.Millisecond)
	if *n1 != 1 || *n2 != 1 {
		t.Errorf("Expected each callback once, got %d and %d", *n1, *n2)
	}
}

func TestDragCancelsSlide(t *testing.T) {
	l := newTestLayer()
	l.Add(piece("wn1"), board.Point{}, false, nil)
	done, n := counter()
	l.Translate("wn1", board.Point{X: 100}, true, done)

	l.SetDragging("wn1", true)
	l.DragTo("wn1", board.Point{X: 7, Y: 9})
	v, _ := l.Visual("wn1")
	if v.Pos != (board.Point{X: 7, Y: 9}) || v.Moving() || *n != 1 {
		t.Error("Expected the drag to replace the slide")
	}
	if vs := l.Visuals(); vs[len(vs)-1] != v {
		t.Error("Expected the dragged piece drawn last")
	}
}

func TestRemoveAnimated(t *testing.T) {
	l := newTestLayer()
	l.Add(piece("wn1"), board.Point{}, false, nil)

	done, n := counter()
	l.Remove("wn1", true, done)
	if _, ok := l.Visual("wn1"); ok {
		t.Error("Expected the visual to leave the live set at once")
	}
	if len(l.Visuals()) != 1 || !l.Animating() {
		t.Fatal("Expected the visual to keep fading out")
	}
	l.Update(100 * time.Millisecond)
	if *n != 1 || len(l.Visuals()) != 0 || l.Animating() {
		t.Error("Expected the fade to finish and the visual to be gone")
	}
}

func TestAddReplacesLeavingVisual(t *testing.T) {
	l := newTestLayer()
	l.Add(piece("wp1"), board.Point{}, false, nil)

	removed, n := counter()
	l.Remove("wp1", true, removed)
	l.Add(piece("wp1"), board.Point{X: 50}, false, nil)

	if *n != 1 {
		t.Errorf("Expected the leaving visual's callback, got %d", *n)
	}
	if len(l.Visuals()) != 1 || l.Animating() {
		t.Error("Expected only the new visual")
	}
}

func TestMissingIDCompletes(t *testing.T) {
	l := newTestLayer()
	done, n := counter()
	l.Translate("zz9", board.Point{}, true, done)
	l.Remove("zz9", true, done)
	if *n != 2 {
		t.Errorf("Expected callbacks for unknown visuals, got %d", *n)
	}
}
