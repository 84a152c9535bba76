package motion

import (
	"math"
	"testing"
	"time"

	"github.com/hailam/chessboard/internal/board"
)

func TestTweenProgress(t *testing.T) {
	tw := NewTween(100*time.Millisecond, nil)
	if tw.Progress() != 0 {
		t.Errorf("Expected progress 0, got %f", tw.Progress())
	}
	if tw.Advance(50 * time.Millisecond) {
		t.Error("Expected tween still running at half time")
	}
	if got := tw.Progress(); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Expected progress 0.5, got %f", got)
	}
	if !tw.Advance(80 * time.Millisecond) {
		t.Error("Expected tween done past its duration")
	}
	if tw.Progress() != 1 {
		t.Errorf("Expected progress clamped to 1, got %f", tw.Progress())
	}
}

func TestTweenZeroDuration(t *testing.T) {
	tw := NewTween(0, EaseOutCubic)
	if !tw.Done() || tw.Progress() != 1 {
		t.Error("Expected a zero-length tween to be complete")
	}
}

func TestEaseOutCubic(t *testing.T) {
	if EaseOutCubic(0) != 0 || EaseOutCubic(1) != 1 {
		t.Error("Expected easing to keep the endpoints")
	}
	if EaseOutCubic(0.5) <= 0.5 {
		t.Error("Expected ease-out to be ahead of linear at the midpoint")
	}
}

func TestLerpPoint(t *testing.T) {
	tw := NewTween(time.Second, Linear)
	tw.Advance(250 * time.Millisecond)
	got := tw.LerpPoint(board.Point{X: 0, Y: 100}, board.Point{X: 100, Y: 0})
	if got != (board.Point{X: 25, Y: 75}) {
		t.Errorf("Expected 25,75, got %+v", got)
	}
}
