// Package ui draws the chessboard widget with Ebitengine and feeds mouse and
// touch input back into it.
package ui

import (
	"fmt"
	"image"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"go.uber.org/zap"

	"github.com/hailam/chessboard/internal/board"
)

// pieceShapes holds the SVG body of each piece type on a 45x45 canvas.
var pieceShapes = map[board.PieceType]string{
	board.Pawn: `<circle cx="22.5" cy="14" r="5.5"/>` +
		`<path d="M 15 36 L 30 36 L 27 24 Q 22.5 19 18 24 Z"/>` +
		`<rect x="11" y="35" width="23" height="5"/>`,
	board.Knight: `<path d="M 13 37 L 32 37 Q 33 21 24 11 L 22 7 L 19.5 12 Q 12 16 10 25 L 13 27 L 19 22 Q 17 29 13 37 Z"/>` +
		`<circle cx="17" cy="16" r="1"/>` +
		`<rect x="11" y="35" width="23" height="5"/>`,
	board.Bishop: `<circle cx="22.5" cy="8" r="3"/>` +
		`<path d="M 15 35 Q 12 24 22.5 11 Q 33 24 30 35 Z"/>` +
		`<path d="M 20 22 L 25 22 M 22.5 19.5 L 22.5 24.5" fill="none"/>` +
		`<rect x="11" y="35" width="23" height="5"/>`,
	board.Rook: `<path d="M 12 9 L 16 9 L 16 12 L 20 12 L 20 9 L 25 9 L 25 12 L 29 12 L 29 9 L 33 9 L 33 17 L 12 17 Z"/>` +
		`<rect x="14" y="17" width="17" height="18"/>` +
		`<rect x="11" y="35" width="23" height="5"/>`,
	board.Queen: `<path d="M 10 15 L 15 29 L 17 13 L 22.5 28 L 28 13 L 30 29 L 35 15 L 32 35 L 13 35 Z"/>` +
		`<circle cx="10" cy="13" r="2"/><circle cx="17" cy="11" r="2"/><circle cx="22.5" cy="10" r="2"/>` +
		`<circle cx="28" cy="11" r="2"/><circle cx="35" cy="13" r="2"/>` +
		`<rect x="11" y="35" width="23" height="5"/>`,
	board.King: `<rect x="21" y="5" width="3" height="12"/><rect x="17.5" y="8" width="10" height="3"/>` +
		`<path d="M 13 35 Q 9 24 16 20 L 29 20 Q 36 24 32 35 Z"/>` +
		`<rect x="11" y="35" width="23" height="5"/>`,
}

const svgFrame = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 45 45" width="45" height="45">` +
	`<g fill="%s" stroke="%s" stroke-width="1.5" stroke-linejoin="round" stroke-linecap="round">%s</g></svg>`

// pieceSVG returns the SVG document for a piece kind.
func pieceSVG(k board.Kind) string {
	fill, stroke := "#ffffff", "#000000"
	if k.Color == board.Black {
		fill, stroke = "#000000", "#ffffff"
	}
	return fmt.Sprintf(svgFrame, fill, stroke, pieceShapes[k.Type])
}

// SpriteManager rasterizes and caches piece sprites.
type SpriteManager struct {
	pieces      map[board.Kind]*ebiten.Image
	size        int     // Display size in logical pixels
	renderScale float64 // Render at higher resolution for quality
	logger      *zap.Logger
}

// NewSpriteManager creates sprites for pieces of the given size.
func NewSpriteManager(size int, logger *zap.Logger) *SpriteManager {
	sm := &SpriteManager{
		pieces:      make(map[board.Kind]*ebiten.Image),
		size:        size,
		renderScale: 3.0,
		logger:      logger,
	}
	sm.loadPieces()
	return sm
}

// SetScale re-renders the sprites for a new device scale factor.
func (sm *SpriteManager) SetScale(scale float64) {
	want := 3.0 * scale
	if want == sm.renderScale {
		return
	}
	sm.renderScale = want
	sm.loadPieces()
}

// loadPieces rasterizes every piece kind.
func (sm *SpriteManager) loadPieces() {
	renderSize := int(float64(sm.size) * sm.renderScale)

	for _, c := range []board.Color{board.White, board.Black} {
		for pt := board.Pawn; pt <= board.King; pt++ {
			k := board.Kind{Color: c, Type: pt}
			img, err := rasterize(pieceSVG(k), renderSize)
			if err != nil {
				sm.logger.Warn("failed to rasterize piece", zap.Stringer("kind", k), zap.Error(err))
				continue
			}
			sm.pieces[k] = ebiten.NewImageFromImage(img)
		}
	}
}

// rasterize renders an SVG document into a size x size RGBA image.
func rasterize(svg string, size int) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(strings.NewReader(svg))
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)
	return rgba, nil
}

// DrawPiece draws a piece with its top-left corner at x, y in device pixels.
// The sprite is scaled by scale around its centre and faded by alpha.
func (sm *SpriteManager) DrawPiece(screen *ebiten.Image, k board.Kind, x, y, deviceScale, scale, alpha float64) {
	sprite := sm.pieces[k]
	if sprite == nil || alpha <= 0 {
		return
	}

	display := float64(sm.size) * deviceScale
	s := display / float64(sprite.Bounds().Dx()) * scale
	offset := display * (1 - scale) / 2

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(s, s)
	op.GeoM.Translate(x+offset, y+offset)
	op.ColorScale.ScaleAlpha(float32(alpha))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(sprite, op)
}

// Size returns the logical size of piece sprites.
func (sm *SpriteManager) Size() int {
	return sm.size
}
