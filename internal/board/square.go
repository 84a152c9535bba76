// Package board implements the logical side of the chessboard widget: squares and
// their geometry, pieces with stable identities, and the position diffing that turns
// one placement into another.
package board

import (
	"fmt"
	"math"
)

// Square represents a square on the chess board (0-63).
// Uses Little-Endian Rank-File Mapping: A1=0, H1=7, A8=56, H8=63.
type Square uint8

// Square constants for all 64 squares.
const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	NoSquare Square = 64
)

// File returns the file (column) of the square (0-7, where 0=a, 7=h).
func (sq Square) File() int {
	return int(sq) & 7
}

// Rank returns the rank (row) of the square (0-7, where 0=1, 7=8).
func (sq Square) Rank() int {
	return int(sq) >> 3
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.File(), '1'+sq.Rank())
}

// IsValid returns true if the square is a valid board square (0-63).
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// NewSquare creates a square from file and rank (0-indexed).
func NewSquare(file, rank int) Square {
	return Square(rank*8 + file)
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}

	file := int(s[0]) - 'a'
	rank := int(s[1]) - '1'

	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}

	return NewSquare(file, rank), nil
}

// MustParseSquare is ParseSquare for literals known to be valid.
func MustParseSquare(s string) Square {
	sq, err := ParseSquare(s)
	if err != nil {
		panic(err)
	}
	return sq
}

// IndexToSquare maps a reading-order index to a square. Index 0 is a8 and the
// index runs file a to h, rank 8 down to rank 1, so 63 is h1. It panics when i
// is outside [0, 64).
func IndexToSquare(i int) Square {
	if i < 0 || i >= 64 {
		panic(fmt.Sprintf("board: square index %d out of range", i))
	}
	return NewSquare(i%8, 7-i/8)
}

// SquareIndex is the inverse of IndexToSquare.
func SquareIndex(sq Square) int {
	return (7-sq.Rank())*8 + sq.File()
}

// Distance returns the euclidean distance between two squares with files and
// ranks as unit axes. It only ranks candidate pairs while diffing; it is not a
// chess metric.
func Distance(a, b Square) float64 {
	df := float64(a.File() - b.File())
	dr := float64(a.Rank() - b.Rank())
	return math.Sqrt(df*df + dr*dr)
}

// FileRank holds 0-based file and rank indices relative to the viewer.
type FileRank struct {
	File int
	Rank int
}

// Point is a position in pixel space.
type Point struct {
	X, Y float64
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p translated by -q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// RelativeFileRank returns the viewer-relative indices of sq. With white
// orientation rank 8 is the top row; with black orientation rank 1 is the top
// row and files are mirrored.
func RelativeFileRank(sq Square, orientation Color) FileRank {
	file, rank := sq.File(), sq.Rank()
	if orientation == White {
		return FileRank{File: file, Rank: 7 - rank}
	}
	return FileRank{File: 7 - file, Rank: rank}
}

// SquareToPixel returns the top-left pixel of sq for the given square size.
func SquareToPixel(sq Square, squareSize float64, orientation Color) Point {
	fr := RelativeFileRank(sq, orientation)
	return Point{X: squareSize * float64(fr.File), Y: squareSize * float64(fr.Rank)}
}

// PixelToSquare finds the square under p. It reports false when p lies outside
// the 8x8 board box; points on the far edge belong to the last row or column.
func PixelToSquare(p Point, squareSize float64, orientation Color) (Square, bool) {
	size := squareSize * 8
	if !(squareSize > 0 && p.X >= 0 && p.X <= size && p.Y >= 0 && p.Y <= size) {
		return NoSquare, false
	}

	file := min(7, int(math.Floor(p.X/squareSize)))
	row := min(7, int(math.Floor(p.Y/squareSize)))

	if orientation == White {
		return NewSquare(file, 7-row), true
	}
	return NewSquare(7-file, row), true
}
