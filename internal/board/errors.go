package board

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedPlacement is returned when a FEN placement field cannot be parsed.
	ErrMalformedPlacement = errors.New("malformed placement")
	// ErrPieceNotFound is returned when an operation needs a piece on an empty square.
	ErrPieceNotFound = errors.New("piece not found")
	// ErrInvalidSquare is returned for square names outside a1..h8.
	ErrInvalidSquare = errors.New("invalid square")
)

// InvalidValueError reports a setting outside its allowed set of values.
type InvalidValueError struct {
	Name    string
	Value   string
	Allowed []string
}

func (e *InvalidValueError) Error() string {
	quoted := make([]string, len(e.Allowed))
	for i, a := range e.Allowed {
		quoted[i] = fmt.Sprintf("%q", a)
	}
	return fmt.Sprintf("invalid value for %s: %q, expected %s", e.Name, e.Value, strings.Join(quoted, " or "))
}

func pieceNotFound(sq Square) error {
	return fmt.Errorf("%w at square %s", ErrPieceNotFound, sq)
}
