package layout

import "github.com/gridlock-dev/gridlock/pkg/errors"

// placementState captures one component's placement at snapshot time.
type placementState struct {
	placed bool
	x, y   int
}

// snapshot is an O(1)-restorable copy of every piece of search state that a
// subtree may mutate: placements, the grid canvas, the pending constraint
// set, and the depth index. The failed-position cache is not captured; its
// proofs only hold against the placements they were recorded under, so
// restoring wipes it instead.
type snapshot struct {
	placements []placementState
	grid       *grid
	remaining  []int
	depths     map[string]int
}

type snapshotStack struct {
	stack []snapshot
	limit int
}

func (s *Solver) pushSnapshot() error {
	if len(s.snapshots.stack) >= s.limits.MaxSnapshots {
		return errors.New(errors.ErrCodeCapacity, "snapshot limit exceeded")
	}
	snap := snapshot{
		placements: make([]placementState, len(s.components)),
		grid:       s.grid.clone(),
		remaining:  append([]int(nil), s.remaining...),
		depths:     make(map[string]int, len(s.depths)),
	}
	for i, c := range s.components {
		snap.placements[i] = placementState{placed: c.Placed, x: c.X, y: c.Y}
	}
	for k, v := range s.depths {
		snap.depths[k] = v
	}
	s.snapshots.stack = append(s.snapshots.stack, snap)
	return nil
}

// restoreSnapshot pops the top snapshot and rewinds the solver to it.
func (s *Solver) restoreSnapshot() {
	n := len(s.snapshots.stack)
	if n == 0 {
		return
	}
	snap := s.snapshots.stack[n-1]
	s.snapshots.stack = s.snapshots.stack[:n-1]
	for i, c := range s.components {
		c.Placed = snap.placements[i].placed
		c.X = snap.placements[i].x
		c.Y = snap.placements[i].y
	}
	s.grid = snap.grid
	s.remaining = snap.remaining
	s.depths = snap.depths
	clear(s.failed)
	for i := range s.tree.nodes {
		node := &s.tree.nodes[i]
		if node.Accepted && !s.byName[node.Component].Placed {
			node.Accepted = false
		}
	}
}

// discardSnapshot pops the top snapshot without rewinding, used on the
// success path where the tentative state becomes permanent.
func (s *Solver) discardSnapshot() {
	if n := len(s.snapshots.stack); n > 0 {
		s.snapshots.stack = s.snapshots.stack[:n-1]
	}
}
