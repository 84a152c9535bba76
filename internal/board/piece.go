package board

import (
	"fmt"
	"strings"
)

// Color represents the color of a piece or the viewing side of the board.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	default:
		return "none"
	}
}

// IsValid reports whether c is White or Black.
func (c Color) IsValid() bool {
	return c == White || c == Black
}

// Initial returns the first letter of the color name.
func (c Color) Initial() byte {
	return c.String()[0]
}

// ParseColor parses "white" or "black".
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white":
		return White, nil
	case "black":
		return Black, nil
	default:
		return NoColor, &InvalidValueError{Name: "color", Value: s, Allowed: []string{"white", "black"}}
	}
}

// PieceType represents the type of a chess piece.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType PieceType = 6
)

// String returns the piece type name.
func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return "none"
	}
}

// IsValid reports whether pt is one of Pawn through King.
func (pt PieceType) IsValid() bool {
	return pt <= King
}

// Char returns the FEN character for the piece type (lowercase).
func (pt PieceType) Char() byte {
	chars := []byte{'p', 'n', 'b', 'r', 'q', 'k', ' '}
	if pt > NoPieceType {
		return ' '
	}
	return chars[pt]
}

// pieceTypeFromChar converts a lowercase FEN letter to a PieceType.
func pieceTypeFromChar(c byte) PieceType {
	switch c {
	case 'p':
		return Pawn
	case 'n':
		return Knight
	case 'b':
		return Bishop
	case 'r':
		return Rook
	case 'q':
		return Queen
	case 'k':
		return King
	default:
		return NoPieceType
	}
}

// Kind is the identity-free part of a piece: what it looks like.
type Kind struct {
	Color Color
	Type  PieceType
}

// String returns the FEN character for the kind.
// Uppercase for white, lowercase for black.
func (k Kind) String() string {
	c := k.Type.Char()
	if k.Color == White {
		c -= 'a' - 'A'
	}
	return string(c)
}

// KindFromChar converts a FEN character to a Kind.
func KindFromChar(c byte) (Kind, bool) {
	color := Black
	if c >= 'A' && c <= 'Z' {
		color = White
		c += 'a' - 'A'
	}
	pt := pieceTypeFromChar(c)
	if pt == NoPieceType {
		return Kind{}, false
	}
	return Kind{Color: color, Type: pt}, true
}

// Piece is a visual entity with a stable identity. The ID is assigned by the
// Position that holds the piece and stays the same while the piece moves.
type Piece struct {
	ID     string
	Color  Color
	Type   PieceType
	Active bool
}

// NewPiece creates an unnamed piece. It receives its ID when added to a Position.
func NewPiece(c Color, pt PieceType) *Piece {
	return &Piece{Color: c, Type: pt}
}

// Kind returns the identity-free description of the piece.
func (p *Piece) Kind() Kind {
	return Kind{Color: p.Color, Type: p.Type}
}

// String implements fmt.Stringer.
func (p *Piece) String() string {
	if p == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s(%s %s)", p.ID, p.Color, p.Type)
}

// samePiece compares two occupants ignoring identity.
func samePiece(a, b *Piece) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Color == b.Color && a.Type == b.Type
}
