// Package rules approves board drops against the laws of chess.
//
// The board widget itself only knows about placements. A Game tracks the full
// game state (side to move, castling rights, en passant) so a caller can use
// MayDrop as the widget's drop predicate and feed the FEN returned by Play
// back into the widget, which then animates castling rooks, en passant
// captures and promotions.
package rules

import (
	"errors"
	"fmt"
	"strings"

	nchess "github.com/corentings/chess/v2"

	"github.com/hailam/chessboard/internal/board"
)

// ErrIllegalMove is returned by Play for a drop that is not a legal move.
var ErrIllegalMove = errors.New("illegal move")

// Game is a chess game that drops are checked against.
type Game struct {
	game *nchess.Game
}

// New starts a game from fen. An empty string or "startpos" selects the
// initial position; a bare placement field is completed with white to move
// and no castling rights.
func New(fen string) (*Game, error) {
	g := &Game{}
	if err := g.Reset(fen); err != nil {
		return nil, err
	}
	return g, nil
}

// Reset replaces the game with a new one starting from fen.
func (g *Game) Reset(fen string) error {
	fen = strings.TrimSpace(fen)
	if fen == "" || fen == "startpos" {
		g.game = nchess.NewGame()
		return nil
	}

	option, err := nchess.FEN(completeFEN(fen))
	if err != nil {
		return fmt.Errorf("parse fen %q: %w", fen, err)
	}
	g.game = nchess.NewGame(option)
	return nil
}

// FEN returns the full FEN of the current position.
func (g *Game) FEN() string {
	return g.game.FEN()
}

// Turn returns the side to move.
func (g *Game) Turn() board.Color {
	if g.game.Position().Turn() == nchess.Black {
		return board.Black
	}
	return board.White
}

// Outcome returns the result of the game, "*" while it is still running.
func (g *Game) Outcome() string {
	return string(g.game.Outcome())
}

// MayDrop reports whether moving the piece on from to to is legal.
func (g *Game) MayDrop(from, to board.Square) bool {
	_, ok := g.find(from, to)
	return ok
}

// Play applies the move from-to and returns the resulting FEN. Pawns reaching
// the last rank become queens.
func (g *Game) Play(from, to board.Square) (string, error) {
	uci, ok := g.find(from, to)
	if !ok {
		return "", fmt.Errorf("%w: %s%s", ErrIllegalMove, from, to)
	}
	if err := g.game.PushNotationMove(uci, nchess.UCINotation{}, nil); err != nil {
		return "", fmt.Errorf("apply move %s: %w", uci, err)
	}
	return g.game.FEN(), nil
}

// find returns the UCI text of the legal move from-to, preferring a queen
// promotion when there is a choice.
func (g *Game) find(from, to board.Square) (string, bool) {
	if g.game.Outcome() != nchess.NoOutcome {
		return "", false
	}

	base := from.String() + to.String()
	found := false
	promo := ""
	for _, mv := range g.game.ValidMoves() {
		if mv.S1().String() != from.String() || mv.S2().String() != to.String() {
			continue
		}
		switch mv.Promo() {
		case nchess.NoPieceType:
			return base, true
		case nchess.Queen:
			found, promo = true, "q"
		default:
			found = true
		}
	}
	if found && promo == "" {
		promo = "q"
	}
	return base + promo, found
}

// completeFEN pads a bare placement field into a full FEN.
func completeFEN(fen string) string {
	fields := strings.Fields(fen)
	defaults := []string{"", "w", "-", "-", "0", "1"}
	for len(fields) < len(defaults) {
		fields = append(fields, defaults[len(fields)])
	}
	return strings.Join(fields, " ")
}
