package layout

import "github.com/gridlock-dev/gridlock/pkg/errors"

// TreeNode records one placement attempt in the search tree. Nodes live in a
// flat arena and reference each other by index, so the full tree survives
// backtracking and can be inspected after the solve.
type TreeNode struct {
	Component string
	X, Y      int
	Score     int
	Depth     int
	Parent    int
	Children  []int
	Accepted  bool
}

type tree struct {
	nodes []TreeNode
	limit int
}

// add appends a node under parent and returns its index. Parent -1 creates a
// root. Exhausting the arena is a capacity failure.
func (t *tree) add(parent int, component string, x, y, score, depth int) (int, error) {
	if len(t.nodes) >= t.limit {
		return -1, errors.New(errors.ErrCodeCapacity, "search tree node limit exceeded")
	}
	idx := len(t.nodes)
	t.nodes = append(t.nodes, TreeNode{
		Component: component,
		X:         x,
		Y:         y,
		Score:     score,
		Depth:     depth,
		Parent:    parent,
	})
	if parent >= 0 && parent < idx {
		t.nodes[parent].Children = append(t.nodes[parent].Children, idx)
	}
	return idx, nil
}

// Tree returns the recorded search tree from the most recent Solve call.
// Accepted nodes are the ones on the surviving solution path.
func (s *Solver) Tree() []TreeNode {
	return append([]TreeNode(nil), s.tree.nodes...)
}
