package motion_test

import (
	"testing"
	"time"

	"github.com/hailam/chessboard/internal/board"
	"github.com/hailam/chessboard/internal/drag"
	"github.com/hailam/chessboard/internal/motion"
	"github.com/hailam/chessboard/internal/widget"
)

var _ widget.Renderer = (*motion.Layer)(nil)

func TestBoardTransitionEndsAfterTweens(t *testing.T) {
	layer := motion.NewLayer(drag.Rect{Max: board.Point{X: 480, Y: 480}})
	b, err := widget.New(layer, widget.WithPlacement(board.StartFEN))
	if err != nil {
		t.Fatal(err)
	}
	ends := 0
	b.Subscribe(widget.Observers{OnTransitionEnd: func() { ends++ }})

	if err := b.SetPlacement("rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR"); err != nil {
		t.Fatal(err)
	}
	if !layer.Animating() {
		t.Fatal("Expected two pawns sliding")
	}

	for i := 0; i < 20 && layer.Animating(); i++ {
		layer.Update(time.Second / 60)
	}
	if ends != 1 {
		t.Errorf("Expected one TransitionEnd, got %d", ends)
	}

	pawn := b.Position().Get(board.E4)
	v, ok := layer.Visual(pawn.ID)
	if !ok || v.Pos != board.SquareToPixel(board.E4, 60, board.White) {
		t.Errorf("Expected the pawn visual resting on e4, got %+v", v)
	}
	if layer.Len() != 32 {
		t.Errorf("Expected 32 visuals, got %d", layer.Len())
	}
}
