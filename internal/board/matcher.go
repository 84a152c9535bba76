package board

import (
	"math"
	"strings"
)

// Candidate is one side of a changed square: a piece kind that left Square
// (removal) or arrived on it (addition).
type Candidate struct {
	Square Square
	Kind   Kind
}

// Fold pairs a removal with an addition of the same kind, turning the two
// into a single move of one piece.
type Fold struct {
	From Square
	To   Square
}

// Matcher decides which removals and additions are the same piece moving.
// Both slices arrive in reading order. Each candidate may be used in at most
// one fold.
type Matcher interface {
	Match(additions, removals []Candidate) []Fold
}

// MatcherFunc adapts a function to the Matcher interface.
type MatcherFunc func(additions, removals []Candidate) []Fold

// Match implements Matcher.
func (f MatcherFunc) Match(additions, removals []Candidate) []Fold {
	return f(additions, removals)
}

// ParseMatcher returns the matcher named "greedy" or "mincost". An empty
// name selects Greedy.
func ParseMatcher(name string) (Matcher, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "greedy":
		return Greedy{}, nil
	case "mincost":
		return MinCost{}, nil
	default:
		return nil, &InvalidValueError{Name: "matcher", Value: name, Allowed: []string{"greedy", "mincost"}}
	}
}

// Greedy folds each addition, in order, with the nearest remaining removal of
// the same kind. Ties go to the removal seen first. An addition never takes
// back a removal an earlier addition already claimed, so the result is not a
// global optimum; successive positions rarely differ by more than a handful of
// squares, which keeps it visually right.
type Greedy struct{}

// Match implements Matcher.
func (Greedy) Match(additions, removals []Candidate) []Fold {
	used := make([]bool, len(removals))
	var folds []Fold

	for _, add := range additions {
		best := -1
		bestDist := math.Inf(1)
		for j, rem := range removals {
			if used[j] || rem.Kind != add.Kind {
				continue
			}
			if d := Distance(add.Square, rem.Square); d < bestDist {
				best, bestDist = j, d
			}
		}
		if best >= 0 {
			used[best] = true
			folds = append(folds, Fold{From: removals[best].Square, To: add.Square})
		}
	}

	return folds
}

// maxMinCostSide bounds the exhaustive search; larger groups fall back to Greedy.
const maxMinCostSide = 16

// MinCost folds as many same-kind pairs as possible while minimizing the summed
// distance of all folds. Among equal totals the earliest choices in reading
// order win. Folds are returned in addition order.
type MinCost struct{}

// Match implements Matcher.
func (MinCost) Match(additions, removals []Candidate) []Fold {
	byKindAdd := groupByKind(additions)
	byKindRem := groupByKind(removals)

	folded := make(map[Square]Square) // destination -> origin
	for kind, adds := range byKindAdd {
		rems := byKindRem[kind]
		if len(rems) == 0 {
			continue
		}
		var pairs []Fold
		if min(len(adds), len(rems)) > maxMinCostSide {
			pairs = Greedy{}.Match(adds, rems)
		} else {
			pairs = assign(adds, rems)
		}
		for _, f := range pairs {
			folded[f.To] = f.From
		}
	}

	var folds []Fold
	for _, add := range additions {
		if from, ok := folded[add.Square]; ok {
			folds = append(folds, Fold{From: from, To: add.Square})
		}
	}
	return folds
}

func groupByKind(cands []Candidate) map[Kind][]Candidate {
	groups := make(map[Kind][]Candidate)
	for _, c := range cands {
		groups[c.Kind] = append(groups[c.Kind], c)
	}
	return groups
}

// assign solves the rectangular assignment problem between adds and rems by
// dynamic programming over subsets of the smaller side.
func assign(adds, rems []Candidate) []Fold {
	small, big := rems, adds
	swapped := false
	if len(adds) < len(rems) {
		small, big = adds, rems
		swapped = true
	}
	k, m := len(small), len(big)
	full := 1<<k - 1

	inf := math.Inf(1)
	cost := make([][]float64, m+1)
	choice := make([][]int8, m+1)
	for i := range cost {
		cost[i] = make([]float64, full+1)
		choice[i] = make([]int8, full+1)
		for mask := range cost[i] {
			cost[i][mask] = inf
		}
	}
	cost[m][full] = 0

	// cost[i][mask]: cheapest way to finish with big[i:] given the small
	// elements in mask are already taken. choice -1 leaves big[i] unmatched.
	for i := m - 1; i >= 0; i-- {
		for mask := 0; mask <= full; mask++ {
			best, pick := cost[i+1][mask], int8(-1)
			for j := 0; j < k; j++ {
				if mask&(1<<j) != 0 {
					continue
				}
				c := cost[i+1][mask|1<<j] + Distance(big[i].Square, small[j].Square)
				if c < best {
					best, pick = c, int8(j)
				}
			}
			cost[i][mask] = best
			choice[i][mask] = pick
		}
	}

	var folds []Fold
	mask := 0
	for i := 0; i < m; i++ {
		j := choice[i][mask]
		if j < 0 {
			continue
		}
		mask |= 1 << j
		if swapped {
			folds = append(folds, Fold{From: big[i].Square, To: small[j].Square})
		} else {
			folds = append(folds, Fold{From: small[j].Square, To: big[i].Square})
		}
	}
	return folds
}
