package layout

import (
	"sort"

	"github.com/gridlock-dev/gridlock/pkg/observability"
)

// slideMargin is the extra clearance left between a slid blocker and the
// incoming component so the two do not end up flush by accident.
const slideMargin = 1

// resolveConflicts tries to clear the footprint of c at (x, y) by nudging
// each blocker a single hop out of the way. Every move is validated against
// the other placed components, the incoming footprint, and the blocker's own
// already-satisfied constraints; a single unresolvable blocker aborts the
// whole attempt. The caller is expected to hold a snapshot, since a failed
// resolution can leave earlier blockers moved.
func (s *Solver) resolveConflicts(c *Component, x, y int, conflicts []Conflict) (bool, error) {
	for _, conflict := range conflicts {
		blocker, ok := s.byName[conflict.Name]
		if !ok || !blocker.Placed {
			continue
		}
		moved, err := s.slideBlocker(blocker, c, x, y)
		if err != nil {
			return false, err
		}
		if !moved && len(conflicts) == 1 {
			moved, err = s.relocateBlocker(blocker, c, x, y)
			if err != nil {
				return false, err
			}
		}
		if !moved {
			return false, nil
		}
	}
	return s.isValid(c, x, y)
}

// slideBlocker shifts blocker along one axis just far enough to clear the
// rectangle of c at (x, y), preferring the shortest displacement. Directions
// whose required distance exceeds the slide limit are not attempted.
func (s *Solver) slideBlocker(blocker, c *Component, x, y int) (bool, error) {
	type candidate struct {
		dx, dy int
	}
	moves := []candidate{
		{dx: x - blocker.X - blocker.Width - slideMargin},  // west
		{dx: x + c.Width - blocker.X + slideMargin},        // east
		{dy: y - blocker.Y - blocker.Height - slideMargin}, // north
		{dy: y + c.Height - blocker.Y + slideMargin},       // south
	}
	sort.SliceStable(moves, func(i, j int) bool {
		return abs(moves[i].dx)+abs(moves[i].dy) < abs(moves[j].dx)+abs(moves[j].dy)
	})

	for _, m := range moves {
		if abs(m.dx)+abs(m.dy) > s.limits.MaxSlideDistance {
			continue
		}
		ok, err := s.tryMove(blocker, c, x, y, m.dx, m.dy)
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}

// relocateBlocker is the fallback when no single-axis slide works: scan
// nearby offsets in growing rings around the blocker's current position and
// take the first one that clears everything.
func (s *Solver) relocateBlocker(blocker, c *Component, x, y int) (bool, error) {
	for ring := 1; ring <= s.limits.MaxSlideDistance; ring++ {
		for dy := -ring; dy <= ring; dy++ {
			for dx := -ring; dx <= ring; dx++ {
				if max(abs(dx), abs(dy)) != ring {
					continue
				}
				ok, err := s.tryMove(blocker, c, x, y, dx, dy)
				if err != nil || ok {
					return ok, err
				}
			}
		}
	}
	return false, nil
}

// tryMove displaces blocker by (dx, dy) and keeps the move only if the new
// position avoids all placed components, clears the pending footprint of c at
// (x, y), and preserves every constraint of the blocker that was satisfied
// before the move. Otherwise the blocker is put back.
func (s *Solver) tryMove(blocker, c *Component, x, y, dx, dy int) (bool, error) {
	if dx == 0 && dy == 0 {
		return false, nil
	}
	origX, origY := blocker.X, blocker.Y
	depth := s.depths[blocker.Name]
	held := s.heldConstraints(blocker)

	s.unplace(blocker)
	valid, err := s.isValid(blocker, origX+dx, origY+dy)
	if err != nil {
		// Put the blocker back before surfacing the capacity failure so the
		// grid stays consistent with the placement flags.
		_ = s.place(blocker, origX, origY)
		return false, err
	}
	if valid && cellsOverlap(blocker, origX+dx, origY+dy, c, x, y) {
		valid = false
	}
	if valid {
		if err := s.place(blocker, origX+dx, origY+dy); err != nil {
			return false, err
		}
		for _, ct := range held {
			if ok, _ := s.Satisfied(ct); !ok {
				valid = false
				break
			}
		}
		if valid {
			s.depths[blocker.Name] = depth
			s.stats.Slides++
			observability.Solver().OnSlide(blocker.Name, dx, dy)
			return true, nil
		}
		s.unplace(blocker)
	}
	if err := s.place(blocker, origX, origY); err != nil {
		return false, err
	}
	s.depths[blocker.Name] = depth
	return false, nil
}

// heldConstraints returns the constraints touching c whose both endpoints are
// currently placed and satisfied. Sliding must not break these.
func (s *Solver) heldConstraints(c *Component) []Constraint {
	var held []Constraint
	for _, ct := range s.constraints {
		if ct.A != c.Name && ct.B != c.Name {
			continue
		}
		if ok, _ := s.Satisfied(ct); ok {
			held = append(held, ct)
		}
	}
	return held
}
