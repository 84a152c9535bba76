package rules

import (
	"errors"
	"testing"

	"github.com/hailam/chessboard/internal/board"
)

func TestMayDropStartPosition(t *testing.T) {
	g, err := New(board.StartFEN)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		from, to board.Square
		want     bool
	}{
		{board.E2, board.E4, true},
		{board.G1, board.F3, true},
		{board.E2, board.E5, false},
		{board.E1, board.E2, false},
		{board.E7, board.E5, false}, // not black's turn
		{board.E4, board.E5, false}, // empty origin
	}
	for _, tt := range tests {
		if got := g.MayDrop(tt.from, tt.to); got != tt.want {
			t.Errorf("MayDrop(%s, %s) = %v, expected %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestPlay(t *testing.T) {
	g, err := New("")
	if err != nil {
		t.Fatal(err)
	}

	fen, err := g.Play(board.E2, board.E4)
	if err != nil {
		t.Fatal(err)
	}
	if got := board.PlacementField(fen); got != "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR" {
		t.Errorf("Unexpected placement after e2e4: %s", got)
	}
	if g.Turn() != board.Black {
		t.Error("Expected black to move")
	}

	if _, err := g.Play(board.D2, board.D4); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("Expected ErrIllegalMove for white moving twice, got %v", err)
	}
}

func TestPlayCastlingMovesRook(t *testing.T) {
	g, err := New("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	fen, err := g.Play(board.E1, board.G1)
	if err != nil {
		t.Fatal(err)
	}
	if got := board.PlacementField(fen); got != "r3k2r/8/8/8/8/8/8/R4RK1" {
		t.Errorf("Expected the rook on f1, got %s", got)
	}
}

func TestPlayPromotesToQueen(t *testing.T) {
	g, err := New("8/P6k/8/8/8/8/8/K7 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	fen, err := g.Play(board.A7, board.A8)
	if err != nil {
		t.Fatal(err)
	}
	if got := board.PlacementField(fen); got != "Q7/7k/8/8/8/8/8/K7" {
		t.Errorf("Expected a queen on a8, got %s", got)
	}
}

func TestNewWithBarePlacement(t *testing.T) {
	g, err := New("4k3/8/8/8/8/8/4P3/4K3")
	if err != nil {
		t.Fatal(err)
	}
	if g.Turn() != board.White {
		t.Error("Expected white to move")
	}
	if !g.MayDrop(board.E2, board.E4) {
		t.Error("Expected e2e4 to be legal")
	}
}

func TestNewRejectsGarbage(t *testing.T) {
	if _, err := New("not a fen"); err == nil {
		t.Error("Expected an error for a malformed FEN")
	}
}
