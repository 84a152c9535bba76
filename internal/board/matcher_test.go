package board

import (
	"errors"
	"testing"
)

func cand(sq Square, c Color, pt PieceType) Candidate {
	return Candidate{Square: sq, Kind: Kind{Color: c, Type: pt}}
}

func totalDistance(folds []Fold) float64 {
	sum := 0.0
	for _, f := range folds {
		sum += Distance(f.From, f.To)
	}
	return sum
}

func TestGreedyIgnoresOtherKinds(t *testing.T) {
	adds := []Candidate{cand(E4, White, Pawn)}
	rems := []Candidate{cand(E3, Black, Pawn), cand(E5, White, Knight), cand(A2, White, Pawn)}

	folds := Greedy{}.Match(adds, rems)
	if len(folds) != 1 || folds[0] != (Fold{From: A2, To: E4}) {
		t.Errorf("Expected a2-e4 fold, got %+v", folds)
	}
}

func TestGreedyVersusMinCost(t *testing.T) {
	adds := []Candidate{cand(A8, White, Rook), cand(C8, White, Rook)}
	rems := []Candidate{cand(B8, White, Rook), cand(D8, White, Rook)}

	greedy := Greedy{}.Match(adds, rems)
	optimal := MinCost{}.Match(adds, rems)

	if len(greedy) != 2 || len(optimal) != 2 {
		t.Fatalf("Expected two folds from each matcher, got %+v and %+v", greedy, optimal)
	}
	if totalDistance(optimal) > totalDistance(greedy) {
		t.Errorf("MinCost total %.2f exceeds greedy total %.2f",
			totalDistance(optimal), totalDistance(greedy))
	}
}

func TestMinCostBeatsGreedy(t *testing.T) {
	// a4 comes first and takes a3 (1), leaving a2 with a8 (6): greedy total 7.
	// Pairing a4-a8 (4) and a2-a3 (1) totals 5.
	adds := []Candidate{cand(A4, White, Knight), cand(A2, White, Knight)}
	rems := []Candidate{cand(A8, White, Knight), cand(A3, White, Knight)}

	greedy := Greedy{}.Match(adds, rems)
	optimal := MinCost{}.Match(adds, rems)

	if got := totalDistance(greedy); got != 7 {
		t.Errorf("Expected greedy total 7, got %.2f (%+v)", got, greedy)
	}
	if got := totalDistance(optimal); got != 5 {
		t.Errorf("Expected min-cost total 5, got %.2f (%+v)", got, optimal)
	}
	if len(optimal) != 2 || optimal[0] != (Fold{From: A8, To: A4}) || optimal[1] != (Fold{From: A3, To: A2}) {
		t.Errorf("Expected a8-a4 then a3-a2, got %+v", optimal)
	}
}

func TestMinCostUnbalanced(t *testing.T) {
	adds := []Candidate{cand(D4, Black, Queen)}
	rems := []Candidate{cand(A1, Black, Queen), cand(D5, Black, Queen), cand(H8, Black, Queen)}

	folds := MinCost{}.Match(adds, rems)
	if len(folds) != 1 || folds[0].From != D5 {
		t.Errorf("Expected d5-d4, got %+v", folds)
	}

	folds = MinCost{}.Match(rems, adds)
	if len(folds) != 1 || folds[0].To != D5 {
		t.Errorf("Expected d4-d5 with sides swapped, got %+v", folds)
	}
}

func TestMinCostTransitionSingleMove(t *testing.T) {
	pos := MustFromFEN(StartFEN)
	tr, err := pos.CalculateTransitionWith("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR", MinCost{})
	if err != nil {
		t.Fatal(err)
	}
	if mv, ok := tr.MovedTo(E4); !ok || mv.From != E2 || len(tr.Moved) != 1 {
		t.Errorf("Expected e2-e4 with MinCost, got %+v", tr.Moved)
	}
}

func TestParseMatcher(t *testing.T) {
	tests := []struct {
		name string
		want Matcher
	}{
		{"", Greedy{}},
		{"greedy", Greedy{}},
		{" MinCost ", MinCost{}},
	}
	for _, tt := range tests {
		got, err := ParseMatcher(tt.name)
		if err != nil || got != tt.want {
			t.Errorf("ParseMatcher(%q) = %T, %v; expected %T", tt.name, got, err, tt.want)
		}
	}

	_, err := ParseMatcher("hungarian")
	var invalid *InvalidValueError
	if !errors.As(err, &invalid) || invalid.Name != "matcher" {
		t.Errorf("Expected InvalidValueError for matcher, got %v", err)
	}
}
