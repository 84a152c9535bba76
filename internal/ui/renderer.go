package ui

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"

	"github.com/hailam/chessboard/internal/board"
	"github.com/hailam/chessboard/internal/drag"
	"github.com/hailam/chessboard/internal/motion"
	"github.com/hailam/chessboard/internal/widget"
)

// Theme defines the color scheme for the board.
type Theme struct {
	LightSquare color.RGBA
	DarkSquare  color.RGBA
	Background  color.RGBA
	TextColor   color.RGBA
	Marks       map[string]color.RGBA
}

// DefaultTheme returns the default color theme.
func DefaultTheme() *Theme {
	return &Theme{
		LightSquare: color.RGBA{240, 217, 181, 255}, // Tan
		DarkSquare:  color.RGBA{181, 136, 99, 255},  // Brown
		Background:  color.RGBA{40, 44, 52, 255},    // Dark gray
		TextColor:   color.RGBA{220, 220, 220, 255}, // Light gray
		Marks: map[string]color.RGBA{
			"yellow": {247, 247, 105, 255},
			"blue":   {60, 110, 220, 255},
			"green":  {90, 170, 80, 255},
			"red":    {220, 70, 60, 255},
		},
	}
}

// Overlay opacities for drawings.
const (
	highlightOpacity = 0.8
	arrowOpacity     = 0.5
)

// Renderer draws the board, its annotations and the piece visuals. All
// positions are logical pixels; the device scale is applied when drawing.
type Renderer struct {
	sprites         *SpriteManager
	fonts           *Fonts
	theme           *Theme
	origin          board.Point
	squareSize      float64
	scale           float64
	showCoordinates bool
}

// NewRenderer creates a renderer for a board with its top-left corner at origin.
func NewRenderer(origin board.Point, squareSize int, fonts *Fonts, logger *zap.Logger) *Renderer {
	return &Renderer{
		sprites:    NewSpriteManager(squareSize, logger),
		fonts:      fonts,
		theme:      DefaultTheme(),
		origin:     origin,
		squareSize: float64(squareSize),
		scale:      1.0,
	}
}

// SetScale sets the HiDPI scale factor for rendering.
func (r *Renderer) SetScale(scale float64) {
	if scale == r.scale {
		return
	}
	r.scale = scale
	r.sprites.SetScale(scale)
}

// SetShowCoordinates toggles the file and rank labels.
func (r *Renderer) SetShowCoordinates(show bool) {
	r.showCoordinates = show
}

// Bounds returns the board box in logical coordinates.
func (r *Renderer) Bounds() drag.Rect {
	size := r.BoardSize()
	return drag.Rect{Min: r.origin, Max: r.origin.Add(board.Point{X: size, Y: size})}
}

// BoardSize returns the board edge length in logical pixels.
func (r *Renderer) BoardSize() float64 {
	return r.squareSize * 8
}

// SquareSize returns the size of one square in logical pixels.
func (r *Renderer) SquareSize() float64 {
	return r.squareSize
}

// Theme returns the current theme.
func (r *Renderer) Theme() *Theme {
	return r.theme
}

// s scales a logical length to device pixels.
func (r *Renderer) s(v float64) float32 {
	return float32(v * r.scale)
}

// squareOrigin returns the logical top-left corner of sq.
func (r *Renderer) squareOrigin(sq board.Square, orientation board.Color) board.Point {
	return r.origin.Add(board.SquareToPixel(sq, r.squareSize, orientation))
}

// DrawBoard draws the squares and, when enabled, the coordinate labels.
func (r *Renderer) DrawBoard(screen *ebiten.Image, orientation board.Color) {
	for sq := board.A1; sq <= board.H8; sq++ {
		c := r.theme.LightSquare
		if (sq.File()+sq.Rank())%2 == 0 {
			c = r.theme.DarkSquare
		}
		r.FillSquare(screen, sq, orientation, c)
	}

	if r.showCoordinates {
		r.drawCoordinates(screen, orientation)
	}
}

// FillSquare paints one square.
func (r *Renderer) FillSquare(screen *ebiten.Image, sq board.Square, orientation board.Color, c color.Color) {
	p := r.squareOrigin(sq, orientation)
	vector.DrawFilledRect(screen, r.s(p.X), r.s(p.Y), r.s(r.squareSize), r.s(r.squareSize), c, false)
}

// drawCoordinates labels the files along the bottom row and the ranks along
// the left column, in the contrasting square color.
func (r *Renderer) drawCoordinates(screen *ebiten.Image, orientation board.Color) {
	face := r.fonts.Bold(r.squareSize * 0.2 * r.scale)
	if face == nil {
		return
	}
	pad := r.squareSize * 0.06

	for col := 0; col < 8; col++ {
		sq, _ := board.PixelToSquare(board.Point{X: float64(col) * r.squareSize, Y: 7 * r.squareSize}, r.squareSize, orientation)
		label := string(rune('a' + sq.File()))
		w, h := MeasureText(label, face)
		p := r.squareOrigin(sq, orientation)
		x := float64(r.s(p.X+r.squareSize-pad)) - w
		y := float64(r.s(p.Y+r.squareSize-pad)) - h
		r.drawLabel(screen, label, face, x, y, r.labelColor(sq))
	}

	for row := 0; row < 8; row++ {
		sq, _ := board.PixelToSquare(board.Point{X: 0, Y: float64(row) * r.squareSize}, r.squareSize, orientation)
		label := string(rune('1' + sq.Rank()))
		p := r.squareOrigin(sq, orientation)
		r.drawLabel(screen, label, face, float64(r.s(p.X+pad)), float64(r.s(p.Y+pad)), r.labelColor(sq))
	}
}

func (r *Renderer) labelColor(sq board.Square) color.RGBA {
	if (sq.File()+sq.Rank())%2 == 0 {
		return r.theme.LightSquare
	}
	return r.theme.DarkSquare
}

func (r *Renderer) drawLabel(screen *ebiten.Image, s string, face *text.GoTextFace, x, y float64, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, face, op)
}

// markColor resolves a drawing color name, falling back to yellow.
func (r *Renderer) markColor(name string, opacity float64) color.RGBA {
	c, ok := r.theme.Marks[name]
	if !ok {
		c = r.theme.Marks[widget.HighlightColor]
	}
	a := uint8(float64(c.A) * opacity)
	// Premultiplied alpha.
	return color.RGBA{
		R: uint8(uint16(c.R) * uint16(a) / 255),
		G: uint8(uint16(c.G) * uint16(a) / 255),
		B: uint8(uint16(c.B) * uint16(a) / 255),
		A: a,
	}
}

// DrawHighlights tints the highlighted squares.
func (r *Renderer) DrawHighlights(screen *ebiten.Image, highlights []widget.Highlight, orientation board.Color) {
	for _, h := range highlights {
		r.FillSquare(screen, h.Square, orientation, r.markColor(h.Color, highlightOpacity))
	}
}

// DrawArrows draws each arrow from the centre of its origin square to the
// centre of its destination square.
func (r *Renderer) DrawArrows(screen *ebiten.Image, arrows []widget.Arrow, orientation board.Color) {
	half := board.Point{X: r.squareSize / 2, Y: r.squareSize / 2}
	width := r.s(r.squareSize * 0.15)
	head := r.squareSize * 0.4

	for _, a := range arrows {
		from := r.squareOrigin(a.From, orientation).Add(half)
		to := r.squareOrigin(a.To, orientation).Add(half)
		c := r.markColor(a.Color, arrowOpacity)

		vector.StrokeLine(screen, r.s(from.X), r.s(from.Y), r.s(to.X), r.s(to.Y), width, c, true)

		angle := math.Atan2(to.Y-from.Y, to.X-from.X)
		for _, side := range []float64{-1, 1} {
			ha := angle + math.Pi - side*math.Pi/6
			tip := board.Point{X: to.X + head*math.Cos(ha), Y: to.Y + head*math.Sin(ha)}
			vector.StrokeLine(screen, r.s(to.X), r.s(to.Y), r.s(tip.X), r.s(tip.Y), width, c, true)
		}
	}
}

// DrawPieces draws the piece visuals in the order given.
func (r *Renderer) DrawPieces(screen *ebiten.Image, visuals []*motion.Visual) {
	for _, v := range visuals {
		p := r.origin.Add(v.Pos)
		r.sprites.DrawPiece(screen, v.Kind, float64(r.s(p.X)), float64(r.s(p.Y)), r.scale, v.Scale, v.Alpha)
	}
}
