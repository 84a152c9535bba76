package widget

import (
	"strings"

	"github.com/hailam/chessboard/internal/board"
)

// ActiveColor selects which pieces can be dragged.
type ActiveColor uint8

const (
	ActiveBoth ActiveColor = iota
	ActiveWhite
	ActiveBlack
	ActiveNone
)

var activeNames = []string{"both", "white", "black", "none"}

func (a ActiveColor) String() string {
	if int(a) < len(activeNames) {
		return activeNames[a]
	}
	return "unknown"
}

// Allows reports whether pieces of color c are active.
func (a ActiveColor) Allows(c board.Color) bool {
	switch a {
	case ActiveBoth:
		return true
	case ActiveWhite:
		return c == board.White
	case ActiveBlack:
		return c == board.Black
	default:
		return false
	}
}

// ParseActive parses "white", "black", "both" or "none".
func ParseActive(s string) (ActiveColor, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range activeNames {
		if n == name {
			return ActiveColor(i), nil
		}
	}
	return ActiveNone, &board.InvalidValueError{Name: "active", Value: s, Allowed: activeNames}
}
