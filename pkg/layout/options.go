package layout

import (
	"sort"

	"github.com/gridlock-dev/gridlock/pkg/errors"
)

// Option is one candidate placement for a component, scored against the
// already-placed peer it must touch.
type Option struct {
	X, Y      int
	Score     int
	Side      Direction
	Conflicts []Conflict
}

// generateOptions enumerates every flush placement of c against the placed
// component base on the requested side. want is the side of base that c must
// end up on; Any expands to all four sides. Candidates slide along the shared
// edge keeping at least one cell of perpendicular overlap; positions already
// proven invalid are skipped, and enumeration stops at the option limit.
func (s *Solver) generateOptions(c *Component, base *Component, want Direction) []Option {
	sides := []Direction{want}
	if want == Any {
		sides = []Direction{North, South, East, West}
	}

	var opts []Option
	for _, side := range sides {
		switch side {
		case North, South:
			y := base.Y - c.Height
			if side == South {
				y = base.Y + base.Height
			}
			for x := base.X - c.Width + 1; x <= base.X+base.Width-1; x++ {
				if len(opts) >= s.limits.MaxOptions {
					return opts
				}
				if s.hasFailed(c, x, y) {
					continue
				}
				opt := Option{X: x, Y: y, Side: side, Score: scoreAxis(x, c.Width, base.X, base.Width)}
				opt.Conflicts = s.detectConflicts(c, x, y)
				opts = append(opts, opt)
			}
		case East, West:
			x := base.X - c.Width
			if side == East {
				x = base.X + base.Width
			}
			for y := base.Y - c.Height + 1; y <= base.Y+base.Height-1; y++ {
				if len(opts) >= s.limits.MaxOptions {
					return opts
				}
				if s.hasFailed(c, x, y) {
					continue
				}
				opt := Option{X: x, Y: y, Side: side, Score: scoreAxis(y, c.Height, base.Y, base.Height)}
				opt.Conflicts = s.detectConflicts(c, x, y)
				opts = append(opts, opt)
			}
		}
	}
	return opts
}

// PlacementOptions enumerates the ranked candidates the engine would try for
// the unplaced endpoint of ct. Exactly one endpoint must already be placed.
func (s *Solver) PlacementOptions(ct Constraint) ([]Option, error) {
	a, ok := s.byName[ct.A]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidConstraint, "unknown component %q", ct.A)
	}
	b, ok := s.byName[ct.B]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidConstraint, "unknown component %q", ct.B)
	}
	if a.Placed == b.Placed {
		return nil, errors.New(errors.ErrCodeInvalidInput, "exactly one endpoint of %s must be placed", ct.String())
	}
	unplaced, base, side := a, b, ct.Dir
	if a.Placed {
		unplaced, base, side = b, a, ct.Dir.Opposite()
	}
	opts := s.generateOptions(unplaced, base, side)
	orderOptions(opts)
	return opts, nil
}

// orderOptions sorts conflict-free candidates ahead of conflicted ones, then
// by descending score. The sort is stable, so equal candidates keep their
// discovery order.
func orderOptions(opts []Option) {
	sort.SliceStable(opts, func(i, j int) bool {
		ci, cj := len(opts[i].Conflicts) > 0, len(opts[j].Conflicts) > 0
		if ci != cj {
			return !ci
		}
		return opts[i].Score > opts[j].Score
	})
}

// scoreAxis rates how a candidate span [cLo, cLo+cLen) aligns with the
// reference span [rLo, rLo+rLen) along the shared edge. Edge-aligned
// placements score 100, exactly-centered ones 90, overlapping ones land in
// 50..89 favoring large overlap near an edge, and detached ones decay from
// 49 down to a floor of 1 as the gap widens.
func scoreAxis(cLo, cLen, rLo, rLen int) int {
	cHi, rHi := cLo+cLen, rLo+rLen
	if cLo == rLo || cHi == rHi {
		return 100
	}
	if cLen%2 == rLen%2 && cLo+cLen/2 == rLo+rLen/2 {
		return 90
	}
	overlap := min(cHi, rHi) - max(cLo, rLo)
	if overlap > 0 {
		minEdge := min(abs(cLo-rLo), abs(cHi-rHi))
		score := 50 + 2*overlap + (10 - minEdge)
		if score > 89 {
			score = 89
		}
		return score
	}
	// Disjoint spans: the negated overlap is the gap between them.
	score := 49 + overlap
	if score < 1 {
		score = 1
	}
	return score
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
