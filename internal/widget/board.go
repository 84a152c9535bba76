// Package widget keeps piece visuals in sync with a Position and turns pointer
// input on the board into clicks and drops.
//
// A Board is driven from a single goroutine (the render loop); none of its
// methods are safe for concurrent use.
package widget

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/hailam/chessboard/internal/board"
	"github.com/hailam/chessboard/internal/drag"
)

// MayDropFunc approves or rejects a drop from one square to another.
type MayDropFunc func(from, to board.Square) bool

func alwaysDrop(_, _ board.Square) bool { return true }

// Option configures a Board.
type Option func(*Board)

// WithPlacement sets the initial placement. It is applied without animation.
func WithPlacement(fen string) Option {
	return func(b *Board) { b.initial = fen }
}

// WithOrientation sets the side shown at the bottom.
func WithOrientation(c board.Color) Option {
	return func(b *Board) { b.orientation = c }
}

// WithActive sets which pieces can be dragged.
func WithActive(a ActiveColor) Option {
	return func(b *Board) { b.active = a }
}

// WithAnimations enables or disables animations.
func WithAnimations(enabled bool) Option {
	return func(b *Board) { b.animations = enabled }
}

// WithMayDrop installs a drop approval predicate.
func WithMayDrop(fn MayDropFunc) Option {
	return func(b *Board) { b.SetMayDrop(fn) }
}

// WithMatcher selects the move folding strategy used by SetPlacement.
func WithMatcher(m board.Matcher) Option {
	return func(b *Board) {
		if m != nil {
			b.matcher = m
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(b *Board) {
		if l != nil {
			b.logger = l
		}
	}
}

// Board is the interactive chessboard. It owns a Position and mirrors every
// change onto its Renderer.
type Board struct {
	pos      *board.Position
	renderer Renderer
	drag     *drag.Machine
	logger   *zap.Logger

	orientation board.Color
	active      ActiveColor
	animations  bool
	mayDrop     MayDropFunc
	matcher     board.Matcher

	observers observerList
	drawings  drawings
	initial   string
}

// New creates a board drawing through r.
func New(r Renderer, opts ...Option) (*Board, error) {
	b := &Board{
		pos:         board.NewPosition(),
		renderer:    r,
		drag:        drag.New(),
		logger:      zap.NewNop(),
		orientation: board.White,
		active:      ActiveBoth,
		animations:  true,
		mayDrop:     alwaysDrop,
		matcher:     board.Greedy{},
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.initial != "" {
		if _, err := b.applyPlacement(b.initial, false); err != nil {
			return nil, fmt.Errorf("initial placement: %w", err)
		}
	}
	return b, nil
}

// Subscribe registers o and returns a function that removes it again.
func (b *Board) Subscribe(o Observer) func() {
	return b.observers.add(o)
}

// Position returns the current position. Callers must not modify it.
func (b *Board) Position() *board.Position {
	return b.pos
}

// Placement returns the FEN placement field of the current position.
func (b *Board) Placement() string {
	return b.pos.Placement()
}

// Orientation returns the side shown at the bottom.
func (b *Board) Orientation() board.Color {
	return b.orientation
}

// Active returns the current active filter.
func (b *Board) Active() ActiveColor {
	return b.active
}

// Animations reports whether animations are enabled.
func (b *Board) Animations() bool {
	return b.animations
}

// Dragging reports whether a piece is being dragged.
func (b *Board) Dragging() bool {
	return b.drag.Dragging()
}

// SetAnimations enables or disables animations for later changes.
func (b *Board) SetAnimations(enabled bool) {
	b.animations = enabled
}

// SetMayDrop installs the drop approval predicate. Nil approves every drop.
func (b *Board) SetMayDrop(fn MayDropFunc) {
	if fn == nil {
		fn = alwaysDrop
	}
	b.mayDrop = fn
}

// SetOrientation flips the board so c is at the bottom. Every visual is
// repositioned immediately.
func (b *Board) SetOrientation(c board.Color) {
	if c == b.orientation {
		return
	}
	b.orientation = c
	b.pos.Each(func(sq board.Square, p *board.Piece) {
		if p != nil {
			b.renderer.Translate(p.ID, b.pixel(sq), false, nil)
		}
	})
}

// SetActive changes which pieces can be dragged.
func (b *Board) SetActive(a ActiveColor) {
	b.active = a
	for _, p := range b.pos.Pieces() {
		b.activate(p)
	}
}

// SetPlacement moves the board to the placement in fen. Pieces that can be
// explained as slides keep their visuals; the rest fade in or out. Observers
// get one TransitionEnd once every animation started here has finished.
func (b *Board) SetPlacement(fen string) error {
	tr, err := b.applyPlacement(fen, b.animations)
	if err != nil {
		return err
	}
	b.logger.Debug("placement applied",
		zap.String("placement", b.pos.Placement()),
		zap.Int("added", len(tr.Added)),
		zap.Int("removed", len(tr.Removed)),
		zap.Int("captured", len(tr.Captured)),
		zap.Int("moved", len(tr.Moved)))
	return nil
}

func (b *Board) applyPlacement(fen string, animate bool) (*board.Transition, error) {
	tr, err := b.pos.CalculateTransitionWith(fen, b.matcher)
	if err != nil {
		return nil, err
	}

	bt := &batch{done: b.emitTransitionEnd}
	for _, d := range tr.Detached() {
		b.renderer.Remove(d.Piece.ID, animate, bt.track(animate))
	}
	for _, a := range tr.Added {
		a.Piece.Active = b.active.Allows(a.Piece.Color)
		b.renderer.Add(a.Piece, b.pixel(a.Square), animate, bt.track(animate))
	}
	for _, m := range tr.Moved {
		b.renderer.Translate(m.Piece.ID, b.pixel(m.To), animate, bt.track(animate))
	}
	bt.seal()
	return tr, nil
}

// MovePiece moves the piece on from to to, removing whatever stood on to.
func (b *Board) MovePiece(from, to board.Square, immediate bool) error {
	return b.movePiece(from, to, b.shouldAnimate(immediate))
}

func (b *Board) movePiece(from, to board.Square, animate bool) error {
	p := b.pos.Get(from)
	if p == nil || !to.IsValid() {
		return fmt.Errorf("move %s-%s: %w", from, to, board.ErrPieceNotFound)
	}
	if target := b.pos.Get(to); target != nil && target != p {
		b.renderer.Remove(target.ID, animate, nil)
	}
	b.renderer.Translate(p.ID, b.pixel(to), animate, nil)
	return b.pos.MovePiece(from, to)
}

// AddPiece creates a new piece on sq, replacing any occupant.
func (b *Board) AddPiece(c board.Color, pt board.PieceType, sq board.Square, immediate bool) error {
	if !sq.IsValid() {
		return fmt.Errorf("add %s %s: %w", c, pt, board.ErrInvalidSquare)
	}
	if !c.IsValid() {
		return &board.InvalidValueError{Name: "color", Value: c.String(), Allowed: []string{"white", "black"}}
	}
	if !pt.IsValid() {
		return &board.InvalidValueError{Name: "piece type", Value: pt.String(), Allowed: []string{"pawn", "knight", "bishop", "rook", "queen", "king"}}
	}
	animate := b.shouldAnimate(immediate)
	if old := b.pos.Get(sq); old != nil {
		b.renderer.Remove(old.ID, animate, nil)
	}

	p := board.NewPiece(c, pt)
	p.Active = b.active.Allows(c)
	b.pos.AddPiece(p, sq)
	b.renderer.Add(p, b.pixel(sq), animate, nil)
	return nil
}

// RemovePiece removes the piece on sq.
func (b *Board) RemovePiece(sq board.Square, immediate bool) error {
	p, err := b.pos.RemovePiece(sq)
	if err != nil {
		return err
	}
	b.renderer.Remove(p.ID, b.shouldAnimate(immediate), nil)
	return nil
}

// HighlightSquare tints sq and returns a handle for RemoveDrawing. An empty
// color selects HighlightColor.
func (b *Board) HighlightSquare(sq board.Square, color string) int {
	return b.drawings.highlight(sq, color)
}

// DrawArrow draws an arrow between two squares and returns a handle for
// RemoveDrawing. An empty color selects ArrowColor.
func (b *Board) DrawArrow(from, to board.Square, color string) int {
	return b.drawings.arrow(from, to, color)
}

// RemoveDrawing removes a highlight or arrow by handle.
func (b *Board) RemoveDrawing(id int) bool {
	return b.drawings.remove(id)
}

// ClearDrawings removes every highlight and arrow.
func (b *Board) ClearDrawings() {
	b.drawings.clear()
}

// Highlights returns the current square highlights.
func (b *Board) Highlights() []Highlight {
	return append([]Highlight(nil), b.drawings.highlights...)
}

// Arrows returns the current arrows.
func (b *Board) Arrows() []Arrow {
	return append([]Arrow(nil), b.drawings.arrows...)
}

// PointerDown handles a mouse press or touch start.
func (b *Board) PointerDown(ev drag.Pointer) {
	if b.drag.Dragging() || !drag.Accepts(ev) || b.renderer.Animating() {
		return
	}

	at := drag.Relative(ev.Point(), b.renderer)
	from, ok := board.PixelToSquare(at, b.squareSize(), b.orientation)
	if !ok {
		return
	}

	p := b.pos.Get(from)
	if p == nil || !p.Active {
		b.observers.each(func(o Observer) { o.SquareClick(from) })
		return
	}

	target := &pieceTarget{r: b.renderer, id: p.ID, half: b.squareSize() / 2}
	b.drag.Start(target, b.renderer, ev, func(drop board.Point) {
		b.resolveDrop(p, from, drop)
	})
}

// PointerMove handles pointer and touch movement.
func (b *Board) PointerMove(ev drag.Pointer) {
	b.drag.Move(ev)
}

// PointerUp handles a mouse release or touch end.
func (b *Board) PointerUp(ev drag.Pointer) {
	b.drag.End(ev)
}

func (b *Board) resolveDrop(p *board.Piece, from board.Square, at board.Point) {
	if b.pos.Get(from) != p {
		// The position changed under the drag.
		if sq, ok := b.pos.Find(p.ID); ok && b.pos.Get(sq) == p {
			b.renderer.Translate(p.ID, b.pixel(sq), false, nil)
		}
		return
	}

	to, ok := board.PixelToSquare(at, b.squareSize(), b.orientation)
	switch {
	case !ok:
		b.snapBack(p, from)
	case to == from:
		b.observers.each(func(o Observer) { o.PieceClick(from) })
		b.snapBack(p, from)
	case !b.mayDrop(from, to):
		b.logger.Debug("drop rejected", zap.Stringer("from", from), zap.Stringer("to", to))
		b.snapBack(p, from)
	default:
		b.renderer.Translate(p.ID, b.pixel(to), false, nil)
		if target := b.pos.Get(to); target != nil {
			b.renderer.Remove(target.ID, b.animations, nil)
		}
		if err := b.pos.MovePiece(from, to); err != nil {
			b.logger.Warn("drop failed", zap.Error(err))
			return
		}
		b.logger.Debug("piece dropped", zap.String("piece", p.ID), zap.Stringer("from", from), zap.Stringer("to", to))
		b.observers.each(func(o Observer) { o.PieceDrop(from, to) })
	}
}

func (b *Board) snapBack(p *board.Piece, sq board.Square) {
	b.renderer.Translate(p.ID, b.pixel(sq), false, nil)
}

func (b *Board) activate(p *board.Piece) {
	active := b.active.Allows(p.Color)
	if p.Active != active {
		p.Active = active
		b.renderer.SetActive(p.ID, active)
	}
}

func (b *Board) emitTransitionEnd() {
	b.observers.each(func(o Observer) { o.TransitionEnd() })
}

func (b *Board) shouldAnimate(immediate bool) bool {
	return b.animations && !immediate
}

func (b *Board) squareSize() float64 {
	return b.renderer.Bounds().Width() / 8
}

func (b *Board) pixel(sq board.Square) board.Point {
	return board.SquareToPixel(sq, b.squareSize(), b.orientation)
}

// batch counts down the animations started by one placement change.
type batch struct {
	pending  int
	sealed   bool
	finished bool
	done     func()
}

func (bt *batch) track(animate bool) func() {
	if !animate {
		return nil
	}
	bt.pending++
	fired := false
	return func() {
		if fired {
			return
		}
		fired = true
		bt.pending--
		bt.finish()
	}
}

func (bt *batch) seal() {
	bt.sealed = true
	bt.finish()
}

func (bt *batch) finish() {
	if bt.sealed && bt.pending == 0 && !bt.finished {
		bt.finished = true
		bt.done()
	}
}
