// Package motion animates piece visuals. It keeps the state of every visual on
// the board and advances slides and fades tick by tick; drawing is left to the
// caller.
package motion

import (
	"time"

	"github.com/hailam/chessboard/internal/board"
)

// Easing maps linear progress in [0,1] to eased progress.
type Easing func(t float64) float64

// Linear leaves progress unchanged.
func Linear(t float64) float64 { return t }

// EaseOutCubic starts fast and settles slowly.
func EaseOutCubic(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

// Tween interpolates over a fixed duration as time is fed to it.
type Tween struct {
	Duration time.Duration
	Ease     Easing
	elapsed  time.Duration
}

// NewTween returns a tween that eases with ease, or linearly when ease is nil.
func NewTween(d time.Duration, ease Easing) *Tween {
	if ease == nil {
		ease = Linear
	}
	return &Tween{Duration: d, Ease: ease}
}

// Advance moves the tween forward by dt and reports whether it has finished.
func (t *Tween) Advance(dt time.Duration) bool {
	t.elapsed += dt
	if t.elapsed > t.Duration {
		t.elapsed = t.Duration
	}
	return t.Done()
}

// Done reports whether the full duration has elapsed.
func (t *Tween) Done() bool {
	return t.elapsed >= t.Duration
}

// Progress returns eased progress in [0,1].
func (t *Tween) Progress() float64 {
	if t.Duration <= 0 {
		return 1
	}
	return t.Ease(float64(t.elapsed) / float64(t.Duration))
}

// Lerp interpolates between a and b at the tween's progress.
func (t *Tween) Lerp(a, b float64) float64 {
	return a + (b-a)*t.Progress()
}

// LerpPoint interpolates between two points.
func (t *Tween) LerpPoint(a, b board.Point) board.Point {
	return board.Point{X: t.Lerp(a.X, b.X), Y: t.Lerp(a.Y, b.Y)}
}
