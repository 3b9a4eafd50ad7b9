package layout

// Conflict identifies a placed component whose visible characters would
// collide with a candidate placement. Depth is the search-tree depth the
// blocker was placed at; shallow blockers are structurally more expensive to
// disturb.
type Conflict struct {
	Name  string
	Depth int
}

// detectConflicts returns every placed component that character-overlaps c at
// (x, y), in registration order.
func (s *Solver) detectConflicts(c *Component, x, y int) []Conflict {
	var conflicts []Conflict
	for _, other := range s.components {
		if other == c || !other.Placed {
			continue
		}
		if cellsOverlap(c, x, y, other, other.X, other.Y) {
			conflicts = append(conflicts, Conflict{Name: other.Name, Depth: s.depths[other.Name]})
		}
	}
	return conflicts
}
