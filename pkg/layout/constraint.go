package layout

import (
	"fmt"
	"strings"
)

// Direction identifies which side of the second component the first component
// must touch. ADJACENT(A, B, North) reads "A lies on the north side of B":
// A's bottom edge rests on B's top edge with at least one column of overlap.
type Direction byte

const (
	North Direction = 'n'
	South Direction = 's'
	East  Direction = 'e'
	West  Direction = 'w'
	// Any is satisfied by adjacency on any of the four sides.
	Any Direction = 'a'
)

// ParseDirection converts a DSL direction token into a Direction.
// Accepts single letters (n/s/e/w/a), long names, and "*" for Any.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "n", "north":
		return North, true
	case "s", "south":
		return South, true
	case "e", "east":
		return East, true
	case "w", "west":
		return West, true
	case "a", "any", "*":
		return Any, true
	}
	return 0, false
}

// Opposite returns the mirrored direction. Any maps to itself.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	}
	return d
}

// String returns the long-form name of the direction.
func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case South:
		return "south"
	case East:
		return "east"
	case West:
		return "west"
	case Any:
		return "any"
	}
	return fmt.Sprintf("direction(%q)", byte(d))
}

// Constraint declares that component A must be adjacent to component B on B's
// Dir side. Constraints are immutable once registered.
type Constraint struct {
	A   string
	B   string
	Dir Direction
}

// String formats the constraint in the DSL form it was registered from.
func (c Constraint) String() string {
	return fmt.Sprintf("ADJACENT(%s, %s, %c)", c.A, c.B, byte(c.Dir))
}

// adjacent reports whether rectangle 1 lies on the dir side of rectangle 2,
// sharing that edge with positive perpendicular overlap. Corner-only contact
// does not count: the strict inequalities demand at least one shared cell of
// perpendicular extent.
func adjacent(x1, y1, w1, h1, x2, y2, w2, h2 int, dir Direction) bool {
	switch dir {
	case North:
		return y1+h1 == y2 && x1 < x2+w2 && x1+w1 > x2
	case South:
		return y1 == y2+h2 && x1 < x2+w2 && x1+w1 > x2
	case East:
		return x1 == x2+w2 && y1 < y2+h2 && y1+h1 > y2
	case West:
		return x1+w1 == x2 && y1 < y2+h2 && y1+h1 > y2
	case Any:
		return adjacent(x1, y1, w1, h1, x2, y2, w2, h2, North) ||
			adjacent(x1, y1, w1, h1, x2, y2, w2, h2, South) ||
			adjacent(x1, y1, w1, h1, x2, y2, w2, h2, East) ||
			adjacent(x1, y1, w1, h1, x2, y2, w2, h2, West)
	}
	return false
}

// spansOverlap reports whether the half-open spans [a, a+al) and [b, b+bl)
// intersect. Used for bounding-box prechecks on both axes.
func spansOverlap(a, al, b, bl int) bool {
	return a < b+bl && b < a+al
}
