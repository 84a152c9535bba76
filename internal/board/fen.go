package board

import (
	"fmt"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// EmptyFEN is the placement of a board without pieces.
const EmptyFEN = "8/8/8/8/8/8/8/8"

// FromFEN parses the piece placement field of fen into a new Position. Anything
// after the first space (side to move, castling rights, clocks) is ignored.
func FromFEN(fen string) (*Position, error) {
	pos := NewPosition()
	if err := parsePiecePlacement(pos, fen); err != nil {
		return nil, err
	}
	return pos, nil
}

// MustFromFEN is FromFEN for placements known to be valid.
func MustFromFEN(fen string) *Position {
	pos, err := FromFEN(fen)
	if err != nil {
		panic(err)
	}
	return pos
}

// PlacementField returns the piece placement field of a FEN string.
func PlacementField(fen string) string {
	field, _, _ := strings.Cut(strings.TrimLeft(fen, " \t"), " ")
	return field
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(pos *Position, fen string) error {
	placement := PlacementField(fen)
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: need 8 ranks, got %d in %q", ErrMalformedPlacement, len(ranks), placement)
	}

	for i, rankStr := range ranks {
		rank := 7 - i // FEN starts from rank 8
		file := 0

		for j := 0; j < len(rankStr); j++ {
			c := rankStr[j]
			if file > 7 {
				return fmt.Errorf("%w: too many squares in rank %d", ErrMalformedPlacement, rank+1)
			}

			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}

			kind, ok := KindFromChar(c)
			if !ok {
				return fmt.Errorf("%w: invalid piece character %q", ErrMalformedPlacement, c)
			}
			pos.AddPiece(NewPiece(kind.Color, kind.Type), NewSquare(file, rank))
			file++
		}

		if file != 8 {
			return fmt.Errorf("%w: invalid number of squares in rank %d: got %d", ErrMalformedPlacement, rank+1, file)
		}
	}

	return nil
}

// Placement renders the position as a FEN placement field.
func (pos *Position) Placement() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			p := pos.squares[NewSquare(file, rank)]
			if p == nil {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteString(p.Kind().String())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}
