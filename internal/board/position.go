package board

import (
	"strconv"
	"strings"
)

// Position maps every square to at most one piece and owns the identities of
// the pieces it holds. No two pieces in a Position share an ID.
type Position struct {
	squares [64]*Piece
}

// NewPosition returns an empty position.
func NewPosition() *Position {
	return &Position{}
}

// Get returns the piece on sq, or nil.
func (pos *Position) Get(sq Square) *Piece {
	if !sq.IsValid() {
		return nil
	}
	return pos.squares[sq]
}

// Find returns the square holding the piece with the given ID.
func (pos *Position) Find(id string) (Square, bool) {
	for sq, p := range pos.squares {
		if p != nil && p.ID == id {
			return Square(sq), true
		}
	}
	return NoSquare, false
}

// AddPiece names p and stores it on sq. Whatever occupied sq before is
// overwritten; callers tracking that occupant must detach it first.
func (pos *Position) AddPiece(p *Piece, sq Square) {
	p.ID = pos.uniqueID(p.Color, p.Type, nil)
	pos.squares[sq] = p
}

// RemovePiece empties sq and returns the piece that was there.
func (pos *Position) RemovePiece(sq Square) (*Piece, error) {
	p := pos.Get(sq)
	if p == nil {
		return nil, pieceNotFound(sq)
	}
	pos.squares[sq] = nil
	return p, nil
}

// MovePiece relocates the piece on from to to, keeping its identity. An
// occupant of to is overwritten without being reported.
func (pos *Position) MovePiece(from, to Square) error {
	p := pos.Get(from)
	if p == nil || !to.IsValid() {
		return pieceNotFound(from)
	}
	pos.squares[from] = nil
	pos.squares[to] = p
	return nil
}

// Each calls fn for every square in reading order (a8, b8, ..., h1).
func (pos *Position) Each(fn func(sq Square, p *Piece)) {
	for i := 0; i < 64; i++ {
		sq := IndexToSquare(i)
		fn(sq, pos.squares[sq])
	}
}

// Pieces returns the pieces on the board in reading order.
func (pos *Position) Pieces() []*Piece {
	pieces := make([]*Piece, 0, 32)
	pos.Each(func(_ Square, p *Piece) {
		if p != nil {
			pieces = append(pieces, p)
		}
	})
	return pieces
}

// Count returns the number of pieces on the board.
func (pos *Position) Count() int {
	n := 0
	for _, p := range pos.squares {
		if p != nil {
			n++
		}
	}
	return n
}

// uniqueID returns <color><type><n> with the smallest n not used by a piece
// on the board or listed in reserved.
func (pos *Position) uniqueID(c Color, pt PieceType, reserved map[string]bool) string {
	used := make(map[string]bool, 32)
	for _, p := range pos.squares {
		if p != nil {
			used[p.ID] = true
		}
	}
	prefix := string([]byte{c.Initial(), pt.Char()})
	for n := 1; ; n++ {
		id := prefix + strconv.Itoa(n)
		if !used[id] && !reserved[id] {
			return id
		}
	}
}

// String returns an ASCII diagram of the position, rank 8 first.
func (pos *Position) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		sb.WriteByte(byte('1' + rank))
		sb.WriteByte(' ')
		for file := 0; file < 8; file++ {
			p := pos.squares[NewSquare(file, rank)]
			if p == nil {
				sb.WriteString(". ")
				continue
			}
			sb.WriteString(p.Kind().String())
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	return sb.String()
}
