package widget

import "github.com/hailam/chessboard/internal/board"

// Observer receives the notifications of a Board.
type Observer interface {
	// PieceClick fires when an active piece is pressed and released on its own square.
	PieceClick(sq board.Square)
	// SquareClick fires when an empty square or an inactive piece is pressed.
	SquareClick(sq board.Square)
	// PieceDrop fires after an approved drop has been applied.
	PieceDrop(from, to board.Square)
	// TransitionEnd fires once per SetPlacement, after every animation it started.
	TransitionEnd()
}

// Observers adapts optional callbacks to Observer. Nil fields are skipped.
type Observers struct {
	OnPieceClick    func(sq board.Square)
	OnSquareClick   func(sq board.Square)
	OnPieceDrop     func(from, to board.Square)
	OnTransitionEnd func()
}

func (o Observers) PieceClick(sq board.Square) {
	if o.OnPieceClick != nil {
		o.OnPieceClick(sq)
	}
}

func (o Observers) SquareClick(sq board.Square) {
	if o.OnSquareClick != nil {
		o.OnSquareClick(sq)
	}
}

func (o Observers) PieceDrop(from, to board.Square) {
	if o.OnPieceDrop != nil {
		o.OnPieceDrop(from, to)
	}
}

func (o Observers) TransitionEnd() {
	if o.OnTransitionEnd != nil {
		o.OnTransitionEnd()
	}
}

type subscription struct {
	id  int
	obs Observer
}

type observerList struct {
	next int
	subs []subscription
}

func (l *observerList) add(o Observer) func() {
	l.next++
	id := l.next
	l.subs = append(l.subs, subscription{id: id, obs: o})
	return func() {
		for i, s := range l.subs {
			if s.id == id {
				l.subs = append(l.subs[:i:i], l.subs[i+1:]...)
				return
			}
		}
	}
}

// each calls fn on a snapshot so observers may unsubscribe while notified.
func (l *observerList) each(fn func(Observer)) {
	snapshot := make([]subscription, len(l.subs))
	copy(snapshot, l.subs)
	for _, s := range snapshot {
		fn(s.obs)
	}
}
