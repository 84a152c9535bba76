package widget

import "github.com/hailam/chessboard/internal/board"

// Default overlay colors.
const (
	HighlightColor = "yellow"
	ArrowColor     = "blue"
)

// Highlight tints one square.
type Highlight struct {
	ID     int
	Square board.Square
	Color  string
}

// Arrow points from one square to another.
type Arrow struct {
	ID       int
	From, To board.Square
	Color    string
}

// drawings holds the overlay annotations of a board. They are stored by
// square so they follow orientation changes.
type drawings struct {
	next       int
	highlights []Highlight
	arrows     []Arrow
}

func (d *drawings) highlight(sq board.Square, color string) int {
	if color == "" {
		color = HighlightColor
	}
	d.next++
	d.highlights = append(d.highlights, Highlight{ID: d.next, Square: sq, Color: color})
	return d.next
}

func (d *drawings) arrow(from, to board.Square, color string) int {
	if color == "" {
		color = ArrowColor
	}
	d.next++
	d.arrows = append(d.arrows, Arrow{ID: d.next, From: from, To: to, Color: color})
	return d.next
}

func (d *drawings) remove(id int) bool {
	for i, h := range d.highlights {
		if h.ID == id {
			d.highlights = append(d.highlights[:i], d.highlights[i+1:]...)
			return true
		}
	}
	for i, a := range d.arrows {
		if a.ID == id {
			d.arrows = append(d.arrows[:i], d.arrows[i+1:]...)
			return true
		}
	}
	return false
}

func (d *drawings) clear() {
	d.highlights = nil
	d.arrows = nil
}
