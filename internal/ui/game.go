package ui

import (
	"context"
	"errors"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/hailam/chessboard/internal/board"
	"github.com/hailam/chessboard/internal/config"
	"github.com/hailam/chessboard/internal/drag"
	"github.com/hailam/chessboard/internal/feed"
	"github.com/hailam/chessboard/internal/motion"
	"github.com/hailam/chessboard/internal/rules"
	"github.com/hailam/chessboard/internal/storage"
	"github.com/hailam/chessboard/internal/widget"
)

// Margin around the board in logical pixels.
const Margin = 24

// Options wires a Game to its collaborators. Store and Feed are optional.
type Options struct {
	Config *config.Config
	Logger *zap.Logger
	Store  *storage.Storage
	Feed   *feed.Client
	// Resume continues the last stored session instead of starting from
	// the configured placement.
	Resume bool
}

// Game implements ebiten.Game interface.
type Game struct {
	cfg    *config.Config
	logger *zap.Logger

	// Widget
	board *widget.Board
	layer *motion.Layer

	// Rules; legal is false when the shown placement is not a playable game.
	rules       *rules.Game
	legal       bool
	fixedActive widget.ActiveColor

	// Storage
	store   *storage.Storage
	session *storage.Session

	feed *feed.Client

	// Components
	renderer *Renderer
	input    *InputHandler
	feedback *FeedbackManager
	fonts    *Fonts

	// HiDPI scaling
	scale float64
}

// NewGame creates the board viewer.
func NewGame(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	fonts, err := LoadFonts()
	if err != nil {
		logger.Warn("fonts unavailable, labels disabled", zap.Error(err))
		fonts = nil
	}

	g := &Game{
		cfg:      cfg,
		logger:   logger,
		store:    opts.Store,
		feed:     opts.Feed,
		input:    NewInputHandler(),
		feedback: NewFeedbackManager(),
		fonts:    fonts,
		scale:    1.0,
	}

	g.renderer = NewRenderer(board.Point{X: Margin, Y: Margin}, cfg.Board.SquareSize, fonts, logger)
	g.renderer.SetShowCoordinates(cfg.Board.ShowCoordinates)
	g.layer = motion.NewLayer(g.renderer.Bounds())
	d := time.Duration(cfg.Board.AnimationMS) * time.Millisecond
	g.layer.SetDurations(d, d)

	orientation, err := cfg.OrientationColor()
	if err != nil {
		return nil, err
	}
	active, err := widget.ParseActive(cfg.Board.Active)
	if err != nil {
		return nil, err
	}
	matcher, err := cfg.BoardMatcher()
	if err != nil {
		return nil, err
	}
	g.fixedActive = active

	fen := cfg.Board.Placement
	animations := cfg.Board.Animations
	if opts.Resume && g.store != nil {
		fen, orientation, animations = g.resume(fen, orientation, animations)
	}
	if g.session == nil {
		g.session = storage.NewSession(fen)
	}

	g.board, err = widget.New(g.layer,
		widget.WithPlacement(fen),
		widget.WithOrientation(orientation),
		widget.WithActive(active),
		widget.WithAnimations(animations),
		widget.WithMatcher(matcher),
		widget.WithLogger(logger.Named("board")),
	)
	if err != nil {
		return nil, err
	}

	if cfg.Board.Rules {
		g.rules = &rules.Game{}
		g.resetRules(fen)
		g.board.SetMayDrop(g.mayDrop)
	}

	g.board.Subscribe(widget.Observers{
		OnPieceClick:  g.onPieceClick,
		OnSquareClick: g.onSquareClick,
		OnPieceDrop:   g.onPieceDrop,
		OnTransitionEnd: func() {
			g.logger.Debug("transition finished")
		},
	})

	g.saveSession()
	return g, nil
}

// resume loads the last session and the stored preferences.
func (g *Game) resume(fen string, orientation board.Color, animations bool) (string, board.Color, bool) {
	if prefs, err := g.store.LoadPreferences(); err != nil {
		g.logger.Warn("failed to load preferences", zap.Error(err))
	} else {
		if c, err := board.ParseColor(prefs.Orientation); err == nil {
			orientation = c
		}
		animations = prefs.Animations
		g.renderer.SetShowCoordinates(prefs.ShowCoordinates)
	}

	sess, err := g.store.LastSession()
	switch {
	case errors.Is(err, storage.ErrNoSession):
		return fen, orientation, animations
	case err != nil:
		g.logger.Warn("failed to load last session", zap.Error(err))
		return fen, orientation, animations
	}
	if _, err := board.FromFEN(sess.FEN); err != nil {
		g.logger.Warn("stored session has a bad placement", zap.String("session", sess.ID.String()), zap.Error(err))
		return fen, orientation, animations
	}
	g.session = sess
	g.logger.Info("resumed session", zap.String("session", sess.ID.String()), zap.Int("drops", sess.DropCount))
	return sess.FEN, orientation, animations
}

// resetRules restarts rule checking from fen. Placements that are not a
// playable game leave drops unchecked.
func (g *Game) resetRules(fen string) {
	if g.rules == nil {
		return
	}
	if err := g.rules.Reset(fen); err != nil {
		g.logger.Warn("placement is not a playable game, drops are unchecked", zap.Error(err))
		g.legal = false
		g.board.SetActive(g.fixedActive)
		return
	}
	g.legal = true
	g.followTurn()
}

// followTurn lets only the side to move drag, or nobody once the game is over.
func (g *Game) followTurn() {
	if g.fixedActive != widget.ActiveBoth {
		return
	}
	if g.rules.Outcome() != "*" {
		g.board.SetActive(widget.ActiveNone)
		return
	}
	if g.rules.Turn() == board.White {
		g.board.SetActive(widget.ActiveWhite)
	} else {
		g.board.SetActive(widget.ActiveBlack)
	}
}

func (g *Game) mayDrop(from, to board.Square) bool {
	if !g.legal {
		return true
	}
	if g.rules.MayDrop(from, to) {
		return true
	}
	g.feedback.OnRejectedDrop(to)
	return false
}

func (g *Game) onPieceClick(sq board.Square) {
	g.board.ClearDrawings()
	g.board.HighlightSquare(sq, widget.HighlightColor)
}

func (g *Game) onSquareClick(board.Square) {
	g.board.ClearDrawings()
}

func (g *Game) onPieceDrop(from, to board.Square) {
	fen := g.board.Placement()
	if g.legal {
		next, err := g.rules.Play(from, to)
		if err != nil {
			g.logger.Warn("approved drop was not playable", zap.Error(err))
		} else {
			fen = next
			// Castling rooks, en passant and promotions follow from the diff.
			if err := g.board.SetPlacement(next); err != nil {
				g.logger.Warn("failed to show played move", zap.Error(err))
			}
			g.followTurn()
			if outcome := g.rules.Outcome(); outcome != "*" {
				g.feedback.OnGameOver(outcome)
			}
		}
	}

	g.board.ClearDrawings()
	g.board.HighlightSquare(from, widget.HighlightColor)
	g.board.HighlightSquare(to, widget.HighlightColor)

	var piece string
	if p := g.board.Position().Get(to); p != nil {
		piece = p.ID
	}
	g.recordDrop(from, to, piece, fen)
	g.sendDrop(from, to, piece, fen)
}

func (g *Game) recordDrop(from, to board.Square, piece, fen string) {
	if g.store == nil {
		return
	}
	if _, err := g.store.RecordDrop(g.session, storage.Drop{
		From:  from.String(),
		To:    to.String(),
		Piece: piece,
		FEN:   fen,
	}); err != nil {
		g.logger.Warn("failed to record drop", zap.Error(err))
	}
}

func (g *Game) sendDrop(from, to board.Square, piece, fen string) {
	if g.feed == nil {
		return
	}
	client := g.feed
	session := g.session.ID.String()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.SendDrop(ctx, from.String(), to.String(), piece, fen, session); err != nil {
			g.logger.Warn("failed to send drop", zap.Error(err))
		}
	}()
}

func (g *Game) saveSession() {
	if g.store == nil {
		return
	}
	g.session.FEN = g.board.Placement()
	if g.legal {
		g.session.FEN = g.rules.FEN()
	}
	if err := g.store.SaveSession(g.session); err != nil {
		g.logger.Warn("failed to save session", zap.Error(err))
	}
}

func (g *Game) savePreferences() {
	if g.store == nil {
		return
	}
	prefs := &storage.Preferences{
		Orientation:     g.board.Orientation().String(),
		Animations:      g.board.Animations(),
		ShowCoordinates: g.renderer.showCoordinates,
	}
	if err := g.store.SavePreferences(prefs); err != nil {
		g.logger.Warn("failed to save preferences", zap.Error(err))
	}
}

// Update handles game logic updates.
func (g *Game) Update() error {
	g.feedback.Update()
	g.handleKeys()

	// Pointer input first so a drag follows the cursor in the same frame.
	g.input.Update(g.board, g.scale)

	tps := ebiten.TPS()
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}
	g.layer.Update(time.Second / time.Duration(tps))

	g.checkFeed()
	g.updateCursor()
	return nil
}

func (g *Game) handleKeys() {
	switch {
	case IsKeyJustPressed(ebiten.KeyF):
		g.board.SetOrientation(g.board.Orientation().Other())
		g.savePreferences()
	case IsKeyJustPressed(ebiten.KeyA):
		g.board.SetAnimations(!g.board.Animations())
		if g.board.Animations() {
			g.feedback.Notify("Animations on", ToastInfo)
		} else {
			g.feedback.Notify("Animations off", ToastInfo)
		}
		g.savePreferences()
	case IsKeyJustPressed(ebiten.KeyC):
		g.renderer.SetShowCoordinates(!g.renderer.showCoordinates)
		g.savePreferences()
	case IsKeyJustPressed(ebiten.KeyX):
		g.board.ClearDrawings()
	case IsKeyJustPressed(ebiten.KeyN):
		g.NewSessionAction()
	}
}

// NewSessionAction resets the board to the configured placement.
func (g *Game) NewSessionAction() {
	fen := g.cfg.Board.Placement
	if err := g.board.SetPlacement(fen); err != nil {
		g.logger.Warn("failed to reset placement", zap.Error(err))
		return
	}
	g.board.ClearDrawings()
	g.resetRules(fen)
	g.session = storage.NewSession(fen)
	g.saveSession()
	g.feedback.Notify("New board", ToastInfo)
}

// checkFeed applies whatever the feed has pushed since the last frame.
func (g *Game) checkFeed() {
	if g.feed == nil {
		return
	}
	for {
		select {
		case msg, ok := <-g.feed.Events():
			if !ok {
				g.logger.Warn("feed closed")
				g.feedback.Notify("Feed disconnected", ToastError)
				if err := g.feed.Close(); err != nil {
					g.logger.Warn("feed ended with error", zap.Error(err))
				}
				g.feed = nil
				return
			}
			g.applyFeed(msg)
		default:
			// Nothing pending
			return
		}
	}
}

func (g *Game) applyFeed(msg feed.Message) {
	switch msg.Type {
	case feed.TypePlacement:
		if err := g.board.SetPlacement(msg.FEN); err != nil {
			g.logger.Warn("rejected feed placement", zap.String("fen", msg.FEN), zap.Error(err))
			g.feedback.Notify("Bad placement from feed", ToastWarning)
			return
		}
		g.resetRules(msg.FEN)
		g.saveSession()
	case feed.TypeHighlight:
		if sq, err := board.ParseSquare(msg.Square); err == nil {
			g.board.HighlightSquare(sq, msg.Color)
		}
	case feed.TypeArrow:
		from, err1 := board.ParseSquare(msg.From)
		to, err2 := board.ParseSquare(msg.To)
		if err := errors.Join(err1, err2); err != nil {
			g.logger.Debug("bad arrow from feed", zap.Error(err))
			return
		}
		g.board.DrawArrow(from, to, msg.Color)
	case feed.TypeClear:
		g.board.ClearDrawings()
	}
}

// updateCursor sets the cursor shape based on what's being hovered.
func (g *Game) updateCursor() {
	if g.board.Dragging() {
		ebiten.SetCursorShape(ebiten.CursorShapeMove)
		return
	}
	mx, my := g.input.MousePosition()
	at := drag.Relative(board.Point{X: mx, Y: my}, g.layer)
	if sq, ok := board.PixelToSquare(at, g.renderer.SquareSize(), g.board.Orientation()); ok {
		if p := g.board.Position().Get(sq); p != nil && p.Active {
			ebiten.SetCursorShape(ebiten.CursorShapePointer)
			return
		}
	}
	ebiten.SetCursorShape(ebiten.CursorShapeDefault)
}

// Draw renders the game.
func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.SetScale(g.scale)
	orientation := g.board.Orientation()

	screen.Fill(g.renderer.Theme().Background)
	g.renderer.DrawBoard(screen, orientation)
	g.renderer.DrawHighlights(screen, g.board.Highlights(), orientation)
	g.feedback.DrawSquares(screen, g.renderer, orientation)
	g.renderer.DrawPieces(screen, g.layer.Visuals())
	g.renderer.DrawArrows(screen, g.board.Arrows(), orientation)
	g.feedback.DrawToasts(screen, g.fonts, ScreenSize(g.cfg.Board.SquareSize), g.scale)
}

// ScreenSize returns the logical window edge for a square size.
func ScreenSize(squareSize int) float64 {
	return float64(squareSize*8 + 2*Margin)
}

// Layout returns the game's screen dimensions.
// Uses device scale factor for crisp rendering on HiDPI displays.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	// Get and store device scale factor (2.0 on Retina, 1.0 on standard displays)
	g.scale = ebiten.Monitor().DeviceScaleFactor()
	if g.scale < 1.0 {
		g.scale = 1.0 // Ensure minimum scale of 1.0
	}

	size := int(ScreenSize(g.cfg.Board.SquareSize) * g.scale)
	return size, size
}

// Board returns the widget driven by the game.
func (g *Game) Board() *widget.Board {
	return g.board
}

// Close saves the session and cleans up game resources.
func (g *Game) Close() {
	g.saveSession()
	if g.feed != nil {
		if err := g.feed.Close(); err != nil {
			g.logger.Warn("feed closed with error", zap.Error(err))
		}
		g.feed = nil
	}
	if g.store != nil {
		g.store.Close()
	}
}

// Run opens the window and blocks until it is closed.
func Run(g *Game, title string) error {
	size := int(ScreenSize(g.cfg.Board.SquareSize))
	ebiten.SetWindowSize(size, size)
	ebiten.SetWindowTitle(title)
	defer g.Close()
	return ebiten.RunGame(g)
}
