package ui

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/hailam/chessboard/internal/board"
)

// ToastType represents the type of toast notification.
type ToastType int

const (
	ToastInfo ToastType = iota
	ToastWarning
	ToastError
	ToastSuccess
)

// Toast represents a notification message.
type Toast struct {
	Message   string
	Type      ToastType
	StartTime time.Time
	Duration  time.Duration
}

// ToastManager manages toast notifications.
type ToastManager struct {
	toasts   []*Toast
	maxStack int
}

// NewToastManager creates a new toast manager.
func NewToastManager() *ToastManager {
	return &ToastManager{
		toasts:   make([]*Toast, 0),
		maxStack: 3,
	}
}

// Show displays a new toast notification.
func (tm *ToastManager) Show(message string, toastType ToastType, duration time.Duration) {
	tm.toasts = append(tm.toasts, &Toast{
		Message:   message,
		Type:      toastType,
		StartTime: time.Now(),
		Duration:  duration,
	})
	if len(tm.toasts) > tm.maxStack {
		tm.toasts = tm.toasts[1:]
	}
}

// Update removes expired toasts.
func (tm *ToastManager) Update() {
	now := time.Now()
	active := tm.toasts[:0]
	for _, t := range tm.toasts {
		if now.Sub(t.StartTime) < t.Duration {
			active = append(active, t)
		}
	}
	tm.toasts = active
}

// Draw renders all active toasts centred horizontally over width logical pixels.
func (tm *ToastManager) Draw(screen *ebiten.Image, fonts *Fonts, width, scale float64) {
	face := fonts.Regular(14 * scale)
	if face == nil {
		return
	}

	y := 50.0 * scale
	for _, t := range tm.toasts {
		elapsed := time.Since(t.StartTime).Seconds()
		duration := t.Duration.Seconds()

		// Fade in/out
		alpha := 1.0
		fadeTime := 0.2
		if elapsed < fadeTime {
			alpha = elapsed / fadeTime
		} else if elapsed > duration-fadeTime {
			alpha = (duration - elapsed) / fadeTime
		}

		var bg color.RGBA
		switch t.Type {
		case ToastWarning:
			bg = color.RGBA{180, 140, 20, 220}
		case ToastError:
			bg = color.RGBA{180, 50, 50, 220}
		case ToastSuccess:
			bg = color.RGBA{50, 150, 50, 220}
		default: // ToastInfo
			bg = color.RGBA{50, 100, 150, 220}
		}

		w, h := MeasureText(t.Message, face)
		padding := 12.0 * scale
		boxW := w + padding*2
		boxH := h + padding*2
		x := width*scale/2 - boxW/2

		vector.DrawFilledRect(screen, float32(x), float32(y), float32(boxW), float32(boxH), fadeColor(bg, alpha), false)

		op := &text.DrawOptions{}
		op.GeoM.Translate(x+padding, y+padding)
		op.ColorScale.ScaleWithColor(color.White)
		op.ColorScale.ScaleAlpha(float32(alpha))
		text.Draw(screen, t.Message, face, op)

		y += boxH + 8*scale
	}
}

// fadeColor scales a straight-alpha color into a premultiplied one.
func fadeColor(c color.RGBA, alpha float64) color.RGBA {
	f := alpha * float64(c.A) / 255
	return color.RGBA{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
		A: uint8(float64(c.A) * alpha),
	}
}

// FlashAnimation represents a square flash effect.
type FlashAnimation struct {
	Square    board.Square
	StartTime time.Time
	Duration  time.Duration
	Color     color.RGBA
}

// AnimationManager manages square flashes.
type AnimationManager struct {
	flashes []*FlashAnimation
}

// NewAnimationManager creates a new animation manager.
func NewAnimationManager() *AnimationManager {
	return &AnimationManager{flashes: make([]*FlashAnimation, 0)}
}

// StartFlash begins a flash animation on a square.
func (am *AnimationManager) StartFlash(sq board.Square, c color.RGBA) {
	am.flashes = append(am.flashes, &FlashAnimation{
		Square:    sq,
		StartTime: time.Now(),
		Duration:  400 * time.Millisecond,
		Color:     c,
	})
}

// Update removes expired flashes.
func (am *AnimationManager) Update() {
	now := time.Now()
	active := am.flashes[:0]
	for _, f := range am.flashes {
		if now.Sub(f.StartTime) < f.Duration {
			active = append(active, f)
		}
	}
	am.flashes = active
}

// DrawFlashes renders all active flash overlays.
func (am *AnimationManager) DrawFlashes(screen *ebiten.Image, renderer *Renderer, orientation board.Color) {
	for _, f := range am.flashes {
		progress := time.Since(f.StartTime).Seconds() / f.Duration.Seconds()
		if progress >= 1.0 {
			continue
		}
		renderer.FillSquare(screen, f.Square, orientation, fadeColor(f.Color, 1.0-progress))
	}
}

// FeedbackManager coordinates toasts and flashes.
type FeedbackManager struct {
	toasts     *ToastManager
	animations *AnimationManager
}

// NewFeedbackManager creates a new feedback manager.
func NewFeedbackManager() *FeedbackManager {
	return &FeedbackManager{
		toasts:     NewToastManager(),
		animations: NewAnimationManager(),
	}
}

// Update updates all feedback systems.
func (fm *FeedbackManager) Update() {
	fm.toasts.Update()
	fm.animations.Update()
}

// DrawSquares renders flashes; call before pieces are drawn.
func (fm *FeedbackManager) DrawSquares(screen *ebiten.Image, renderer *Renderer, orientation board.Color) {
	fm.animations.DrawFlashes(screen, renderer, orientation)
}

// DrawToasts renders notifications on top of everything else.
func (fm *FeedbackManager) DrawToasts(screen *ebiten.Image, fonts *Fonts, width, scale float64) {
	fm.toasts.Draw(screen, fonts, width, scale)
}

// OnRejectedDrop flashes the target square of a drop the rules refused.
func (fm *FeedbackManager) OnRejectedDrop(to board.Square) {
	fm.toasts.Show("Illegal move", ToastWarning, 2*time.Second)
	fm.animations.StartFlash(to, color.RGBA{255, 80, 80, 150})
}

// OnGameOver announces the result of the game.
func (fm *FeedbackManager) OnGameOver(outcome string) {
	var message string
	switch outcome {
	case "1-0":
		message = "White wins"
	case "0-1":
		message = "Black wins"
	default:
		message = "Draw"
	}
	fm.toasts.Show(message, ToastSuccess, 5*time.Second)
}

// Notify shows a message of the given type.
func (fm *FeedbackManager) Notify(message string, t ToastType) {
	fm.toasts.Show(message, t, 3*time.Second)
}
