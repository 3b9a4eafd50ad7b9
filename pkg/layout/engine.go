package layout

import (
	"context"
	"time"

	"github.com/gridlock-dev/gridlock/pkg/errors"
	"github.com/gridlock-dev/gridlock/pkg/observability"
)

// Solve runs the placement search. It returns (true, nil) with every
// component placed and every constraint satisfied, (false, nil) when the
// constraint set is proven unsatisfiable within the configured limits, and a
// non-nil error when a hard limit trips or the context is canceled. On
// success all coordinates are normalized so the layout's top-left cell is at
// the origin.
func (s *Solver) Solve(ctx context.Context) (bool, error) {
	hooks := observability.Solver()
	start := time.Now()
	s.stats = Stats{}
	s.solved = false
	s.tree.nodes = nil
	s.snapshots.stack = nil
	clear(s.failed)
	s.remaining = s.remaining[:0]
	for i := range s.constraints {
		s.remaining = append(s.remaining, i)
	}
	s.computeMobility()

	root := s.mostConstrained(nil)
	if root == nil {
		hooks.OnSolveEnd(false, 0, 0, 0, time.Since(start))
		return false, nil
	}
	hooks.OnSolveStart(root.Name, len(s.components), len(s.constraints))

	if err := s.placeRoot(root, 0); err != nil {
		hooks.OnSolveEnd(false, s.stats.Iterations, s.stats.Nodes, s.stats.Backtracks, time.Since(start))
		return false, err
	}

	solved, err := s.solveStep(ctx, 1)
	if solved && err == nil {
		err = s.normalize()
		solved = err == nil
	}
	s.solved = solved
	hooks.OnSolveEnd(solved, s.stats.Iterations, s.stats.Nodes, s.stats.Backtracks, time.Since(start))
	return solved, err
}

// placeRoot places a fresh root component clear of everything placed so far.
// The first root goes to the origin; later roots (for disconnected constraint
// clusters) start east of the occupied bounding box and scan until valid.
func (s *Solver) placeRoot(root *Component, depth int) error {
	x, y := 0, 0
	anyPlaced := false
	for _, c := range s.components {
		if c.Placed {
			if !anyPlaced || c.X+c.Width > x {
				x = c.X + c.Width
			}
			if !anyPlaced || c.Y < y {
				y = c.Y
			}
			anyPlaced = true
		}
	}
	if anyPlaced {
		x += 2
	}
	for {
		valid, err := s.isValid(root, x, y)
		if err != nil {
			return err
		}
		if valid {
			break
		}
		x++
	}
	if err := s.place(root, x, y); err != nil {
		return err
	}
	s.depths[root.Name] = depth
	idx, err := s.tree.add(-1, root.Name, x, y, 0, depth)
	if err != nil {
		return err
	}
	s.tree.nodes[idx].Accepted = true
	s.stats.Nodes++
	observability.Solver().OnPlace(root.Name, x, y, depth)
	return nil
}

// solveStep resolves the next open constraint and recurses. A constraint is
// open while it is in the remaining set; the traversal always picks the first
// one with exactly one placed endpoint, validates any whose endpoints are
// both already placed, and re-roots when a disconnected cluster remains.
func (s *Solver) solveStep(ctx context.Context, depth int) (bool, error) {
	for {
		if err := ctx.Err(); err != nil {
			return false, errors.Wrap(errors.ErrCodeTimeout, err, "solve canceled")
		}
		if len(s.remaining) == 0 {
			return true, nil
		}

		idx := -1
		for pos, ci := range s.remaining {
			ct := s.constraints[ci]
			a, b := s.byName[ct.A], s.byName[ct.B]
			if a.Placed && b.Placed {
				// Consumed by earlier placements; it must already hold.
				ok, err := s.Satisfied(ct)
				if err != nil {
					return false, err
				}
				if !ok {
					return false, nil
				}
				s.remaining = append(s.remaining[:pos:pos], s.remaining[pos+1:]...)
				idx = -2
				break
			}
			if a.Placed != b.Placed {
				idx = pos
				break
			}
		}
		if idx == -2 {
			continue
		}
		if idx == -1 {
			// Only fully-unplaced constraints remain: a disconnected cluster.
			// Root it next to the current layout and keep going.
			candidates := make(map[string]struct{})
			for _, ci := range s.remaining {
				candidates[s.constraints[ci].A] = struct{}{}
				candidates[s.constraints[ci].B] = struct{}{}
			}
			root := s.mostConstrained(candidates)
			if root == nil {
				return false, nil
			}
			if err := s.placeRoot(root, depth); err != nil {
				return false, err
			}
			continue
		}
		return s.expandConstraint(ctx, idx, depth)
	}
}

// expandConstraint generates, orders, and tries every candidate placement for
// the unplaced endpoint of the remaining constraint at position pos.
func (s *Solver) expandConstraint(ctx context.Context, pos, depth int) (bool, error) {
	hooks := observability.Solver()
	ci := s.remaining[pos]
	ct := s.constraints[ci]
	a, b := s.byName[ct.A], s.byName[ct.B]

	// The constraint fixes A to the Dir side of B. When B is the one still
	// unplaced, enumerate from A's position on the mirrored side instead.
	unplaced, base, side := a, b, ct.Dir
	if a.Placed {
		unplaced, base, side = b, a, ct.Dir.Opposite()
	}

	opts := s.generateOptions(unplaced, base, side)
	hooks.OnConstraint(ct.A, ct.B, byte(ct.Dir), len(opts))
	if len(opts) == 0 {
		return false, nil
	}
	orderOptions(opts)

	parent := s.acceptedLeaf()
	for _, opt := range opts {
		s.stats.Iterations++
		if s.stats.Iterations > s.limits.MaxIterations {
			return false, errors.New(errors.ErrCodeCapacity, "iteration limit exceeded")
		}
		hooks.OnAttempt(unplaced.Name, opt.X, opt.Y, opt.Score, len(opt.Conflicts) > 0)

		if err := s.pushSnapshot(); err != nil {
			return false, err
		}
		node, err := s.tree.add(parent, unplaced.Name, opt.X, opt.Y, opt.Score, depth)
		if err != nil {
			return false, err
		}
		s.stats.Nodes++

		placed, err := s.tryOption(unplaced, opt, depth)
		if err != nil {
			return false, err
		}
		if !placed {
			s.restoreSnapshot()
			s.markFailed(unplaced, opt.X, opt.Y)
			continue
		}

		s.tree.nodes[node].Accepted = true
		hooks.OnPlace(unplaced.Name, unplaced.X, unplaced.Y, depth)
		s.remaining = append(s.remaining[:pos:pos], s.remaining[pos+1:]...)

		solved, err := s.solveStep(ctx, depth+1)
		if err != nil {
			return false, err
		}
		if solved {
			s.discardSnapshot()
			return true, nil
		}

		s.restoreSnapshot()
		s.tree.nodes[node].Accepted = false
		s.stats.Backtracks++
		hooks.OnBacktrack(unplaced.Name, depth)
	}
	return false, nil
}

// tryOption validates one candidate, attempting conflict resolution by
// sliding when the footprint is blocked, and places the component on success.
func (s *Solver) tryOption(c *Component, opt Option, depth int) (bool, error) {
	valid, err := s.isValid(c, opt.X, opt.Y)
	if err != nil {
		return false, err
	}
	if !valid {
		conflicts := s.detectConflicts(c, opt.X, opt.Y)
		if len(conflicts) == 0 {
			return false, nil
		}
		names := make([]string, len(conflicts))
		for i, cf := range conflicts {
			names[i] = cf.Name
		}
		observability.Solver().OnConflict(c.Name, names)
		valid, err = s.resolveConflicts(c, opt.X, opt.Y, conflicts)
		if err != nil || !valid {
			return false, err
		}
	}
	if err := s.place(c, opt.X, opt.Y); err != nil {
		return false, err
	}
	s.depths[c.Name] = depth
	return true, nil
}

// acceptedLeaf returns the index of the deepest node still marked accepted,
// or -1 when the tree is empty.
func (s *Solver) acceptedLeaf() int {
	best := -1
	for i := range s.tree.nodes {
		if s.tree.nodes[i].Accepted && (best == -1 || s.tree.nodes[i].Depth >= s.tree.nodes[best].Depth) {
			best = i
		}
	}
	return best
}
