package main

import (
	"context"
	"strings"
	"testing"

	"github.com/hailam/chessboard/internal/board"
)

func TestPrintDiff(t *testing.T) {
	var out strings.Builder
	err := printDiff(&out, "r3k3/8/8/8/8/8/8/4K2R", "r3k3/8/8/8/8/8/8/5RK1", board.Greedy{})
	if err != nil {
		t.Fatalf("printDiff failed: %v", err)
	}
	want := "move wr1 h1 f1\nmove wk1 e1 g1\n"
	if out.String() != want {
		t.Errorf("Expected %q, got %q", want, out.String())
	}

	if err := printDiff(&out, "8/8", board.EmptyFEN, board.Greedy{}); err == nil {
		t.Error("Expected error for malformed FROM")
	}
}

func TestDiffCommandArgs(t *testing.T) {
	err := newApp().Run(context.Background(), []string{"chessboard", "diff", board.EmptyFEN})
	if err == nil {
		t.Error("Expected error when TO is missing")
	}
	err = newApp().Run(context.Background(), []string{"chessboard", "diff", "--matcher", "best", board.EmptyFEN, board.EmptyFEN})
	if err == nil {
		t.Error("Expected error for an unknown matcher")
	}
}
