package engine

import (
	"errors"
	"slices"
)

// Selection errors, in the order the rules are checked.
var (
	ErrTooMany     = errors.New("at most 3 gems may be taken")
	ErrNotUnique   = errors.New("gems must be unique")
	ErrNotStraight = errors.New("gems must form a straight line")
	ErrTooFar      = errors.New("gems are too far apart")
	ErrGap         = errors.New("gems must be adjacent, no gaps")
)

// Selection is the verdict on a partial or complete gem-line selection.
type Selection struct {
	Valid  bool
	HasGap bool
	Err    error
}

// Confirm returns the error that blocks taking the selection, if any.
// A gapped pair is a valid selection in progress but cannot be confirmed.
func (sel Selection) Confirm() error {
	if sel.Err != nil {
		return sel.Err
	}
	if sel.HasGap {
		return ErrGap
	}
	return nil
}

// ValidateSelection checks an unordered list of up to three board
// coordinates against the gem-line rules. It does not look at the board.
func ValidateSelection(coords []Coord) Selection {
	if len(coords) <= 1 {
		return Selection{Valid: true}
	}
	if len(coords) > 3 {
		return Selection{Err: ErrTooMany}
	}

	pts := slices.Clone(coords)
	slices.SortFunc(pts, func(a, b Coord) int {
		if a.R != b.R {
			return a.R - b.R
		}
		return a.C - b.C
	})
	for i := 1; i < len(pts); i++ {
		if pts[i] == pts[i-1] {
			return Selection{Err: ErrNotUnique}
		}
	}

	first, last := pts[0], pts[len(pts)-1]
	dr, dc := last.R-first.R, last.C-first.C
	if dr != 0 && dc != 0 && abs(dr) != abs(dc) {
		return Selection{Err: ErrNotStraight}
	}
	span := max(abs(dr), abs(dc))
	if span > 2 {
		return Selection{Err: ErrTooFar}
	}

	if len(pts) == 2 {
		return Selection{Valid: true, HasGap: span == 2}
	}

	for _, m := range pts[1 : len(pts)-1] {
		if dr*(m.C-first.C)-dc*(m.R-first.R) != 0 {
			return Selection{Err: ErrNotStraight}
		}
	}
	mid := pts[1]
	if span != 2 || mid.R*2 != first.R+last.R || mid.C*2 != first.C+last.C {
		return Selection{Err: ErrGap}
	}
	return Selection{Valid: true}
}

// lineDirs are the four directions a gem line can run in, each counted once.
var lineDirs = [4]Coord{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// CandidateLines returns every confirmable selection of 1 to 3 takeable gems
// on the board. Single gems are listed once; longer lines once per
// direction.
func CandidateLines(b *Board) [][]Coord {
	var out [][]Coord
	for r := 0; r < BoardSize; r++ {
		for c := 0; c < BoardSize; c++ {
			start := Coord{r, c}
			if !b.At(start).Type.Takeable() {
				continue
			}
			out = append(out, []Coord{start})
			for _, d := range lineDirs {
				line := []Coord{start}
				for k := 1; k < 3; k++ {
					p := Coord{start.R + d.R*k, start.C + d.C*k}
					if !p.InBounds() || !b.At(p).Type.Takeable() {
						break
					}
					line = append(line, p)
					out = append(out, slices.Clone(line))
				}
			}
		}
	}
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
