package board

import "fmt"

// Placed is a piece together with the square it occupies or left.
type Placed struct {
	Square Square
	Piece  *Piece
}

// Move is a piece that kept its identity while changing squares.
type Move struct {
	From  Square
	To    Square
	Piece *Piece
}

// Transition describes how a Position changed while adopting a new placement.
//
// Added holds freshly created pieces by destination. Removed holds pieces that
// disappeared, keyed by the square they left. Captured holds pieces that
// disappeared from a square another piece now occupies, whether folded or
// newly added. Moved holds relocated pieces in destination order. All lists
// are in reading order of their key square.
type Transition struct {
	Added    []Placed
	Removed  []Placed
	Captured []Placed
	Moved    []Move
}

// Empty reports whether the transition changes nothing.
func (t *Transition) Empty() bool {
	return len(t.Added) == 0 && len(t.Removed) == 0 && len(t.Captured) == 0 && len(t.Moved) == 0
}

// AddedAt returns the piece added on sq, or nil.
func (t *Transition) AddedAt(sq Square) *Piece {
	for _, a := range t.Added {
		if a.Square == sq {
			return a.Piece
		}
	}
	return nil
}

// MovedTo returns the move ending on sq.
func (t *Transition) MovedTo(sq Square) (Move, bool) {
	for _, m := range t.Moved {
		if m.To == sq {
			return m, true
		}
	}
	return Move{}, false
}

// Detached returns every piece that left the board: removals then captures.
func (t *Transition) Detached() []Placed {
	out := make([]Placed, 0, len(t.Removed)+len(t.Captured))
	out = append(out, t.Removed...)
	return append(out, t.Captured...)
}

// Lines describes the transition one change per line, in the order a
// renderer applies them: removals, captures, moves, additions.
func (t *Transition) Lines() []string {
	var lines []string
	for _, r := range t.Removed {
		lines = append(lines, fmt.Sprintf("remove %s %s", r.Piece.ID, r.Square))
	}
	for _, c := range t.Captured {
		lines = append(lines, fmt.Sprintf("capture %s %s", c.Piece.ID, c.Square))
	}
	for _, m := range t.Moved {
		lines = append(lines, fmt.Sprintf("move %s %s %s", m.Piece.ID, m.From, m.To))
	}
	for _, a := range t.Added {
		lines = append(lines, fmt.Sprintf("add %s %s", a.Piece.ID, a.Square))
	}
	return lines
}

// CalculateTransition adopts the placement in fen using the Greedy matcher.
// On error the position is left unchanged.
func (pos *Position) CalculateTransition(fen string) (*Transition, error) {
	return pos.CalculateTransitionWith(fen, Greedy{})
}

// CalculateTransitionWith adopts the placement in fen, asking m which changed
// squares are the same piece moving. Afterwards the position holds exactly the
// pieces described by fen; folded pieces keep their identity.
func (pos *Position) CalculateTransitionWith(fen string, m Matcher) (*Transition, error) {
	target, err := FromFEN(fen)
	if err != nil {
		return nil, err
	}

	var additions, removals []Candidate
	pos.Each(func(sq Square, old *Piece) {
		next := target.squares[sq]
		if samePiece(old, next) {
			return
		}
		if old != nil {
			removals = append(removals, Candidate{Square: sq, Kind: old.Kind()})
		}
		if next != nil {
			additions = append(additions, Candidate{Square: sq, Kind: next.Kind()})
		}
	})

	folds := m.Match(additions, removals)

	foldedFrom := make(map[Square]bool, len(folds))
	foldedTo := make(map[Square]bool, len(folds))
	for _, f := range folds {
		foldedFrom[f.From] = true
		foldedTo[f.To] = true
	}

	// Squares that end up occupied by something other than their old piece.
	arriving := make(map[Square]bool, len(additions))
	for _, a := range additions {
		arriving[a.Square] = true
	}

	t := &Transition{}
	reserved := make(map[string]bool)

	for _, r := range removals {
		if foldedFrom[r.Square] {
			continue
		}
		p := pos.squares[r.Square]
		pos.squares[r.Square] = nil
		reserved[p.ID] = true
		if arriving[r.Square] {
			t.Captured = append(t.Captured, Placed{Square: r.Square, Piece: p})
		} else {
			t.Removed = append(t.Removed, Placed{Square: r.Square, Piece: p})
		}
	}

	moving := make([]*Piece, len(folds))
	for i, f := range folds {
		moving[i] = pos.squares[f.From]
		pos.squares[f.From] = nil
	}
	for i, f := range folds {
		pos.squares[f.To] = moving[i]
		t.Moved = append(t.Moved, Move{From: f.From, To: f.To, Piece: moving[i]})
	}

	for _, a := range additions {
		if foldedTo[a.Square] {
			continue
		}
		p := NewPiece(a.Kind.Color, a.Kind.Type)
		p.ID = pos.uniqueID(p.Color, p.Type, reserved)
		pos.squares[a.Square] = p
		t.Added = append(t.Added, Placed{Square: a.Square, Piece: p})
	}

	return t, nil
}
