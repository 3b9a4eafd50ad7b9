package layout

import (
	"strings"

	"github.com/gridlock-dev/gridlock/pkg/errors"
)

// Limits bounds every growable structure in a solve. Zero values are replaced
// by the corresponding default; the limits exist so a pathological spec fails
// fast with a capacity error instead of consuming unbounded memory.
type Limits struct {
	MaxComponents      int
	MaxConstraints     int
	MaxTileSize        int
	MaxGridExtent      int
	MaxIterations      int
	MaxSnapshots       int
	MaxTreeNodes       int
	MaxOptions         int
	MaxSlideDistance   int
	MaxFailedPositions int
}

// DefaultLimits are generous enough for hand-written scenes while keeping
// runaway searches bounded.
func DefaultLimits() Limits {
	return Limits{
		MaxComponents:      64,
		MaxConstraints:     256,
		MaxTileSize:        32,
		MaxGridExtent:      512,
		MaxIterations:      10000,
		MaxSnapshots:       256,
		MaxTreeNodes:       4096,
		MaxOptions:         256,
		MaxSlideDistance:   12,
		MaxFailedPositions: 200,
	}
}

func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.MaxComponents <= 0 {
		l.MaxComponents = d.MaxComponents
	}
	if l.MaxConstraints <= 0 {
		l.MaxConstraints = d.MaxConstraints
	}
	if l.MaxTileSize <= 0 {
		l.MaxTileSize = d.MaxTileSize
	}
	if l.MaxGridExtent <= 0 {
		l.MaxGridExtent = d.MaxGridExtent
	}
	if l.MaxIterations <= 0 {
		l.MaxIterations = d.MaxIterations
	}
	if l.MaxSnapshots <= 0 {
		l.MaxSnapshots = d.MaxSnapshots
	}
	if l.MaxTreeNodes <= 0 {
		l.MaxTreeNodes = d.MaxTreeNodes
	}
	if l.MaxOptions <= 0 {
		l.MaxOptions = d.MaxOptions
	}
	if l.MaxSlideDistance <= 0 {
		l.MaxSlideDistance = d.MaxSlideDistance
	}
	if l.MaxFailedPositions <= 0 {
		l.MaxFailedPositions = d.MaxFailedPositions
	}
	return l
}

// Stats summarizes the work a solve performed.
type Stats struct {
	Iterations int
	Nodes      int
	Backtracks int
	Slides     int
}

type point struct {
	x, y int
}

// Solver holds a scene's components and constraints and runs the placement
// search. A Solver is not safe for concurrent use; build one per solve.
type Solver struct {
	limits Limits

	components  []*Component
	byName      map[string]*Component
	constraints []Constraint

	grid      *grid
	remaining []int
	depths    map[string]int
	failed    map[string]map[point]struct{}
	snapshots snapshotStack
	tree      tree
	stats     Stats
	solved    bool
}

// NewSolver returns an empty solver with the given limits. Zero-valued limit
// fields fall back to DefaultLimits.
func NewSolver(limits Limits) *Solver {
	l := limits.withDefaults()
	return &Solver{
		limits: l,
		byName: make(map[string]*Component),
		grid:   newGrid(l.MaxGridExtent),
		depths: make(map[string]int),
		failed: make(map[string]map[point]struct{}),
		tree:   tree{limit: l.MaxTreeNodes},
	}
}

// Limits returns the effective limits of the solver.
func (s *Solver) Limits() Limits { return s.limits }

// Stats returns counters from the most recent Solve call.
func (s *Solver) Stats() Stats { return s.stats }

// Solved reports whether the last Solve call found a layout.
func (s *Solver) Solved() bool { return s.solved }

// AddComponent registers a named ASCII tile. Names must be unique and
// non-empty; the tile's bounding box must fit within the tile size limit.
func (s *Solver) AddComponent(name, block string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New(errors.ErrCodeInvalidComponent, "component name is empty")
	}
	if _, ok := s.byName[name]; ok {
		return errors.New(errors.ErrCodeInvalidComponent, "duplicate component %q", name)
	}
	if len(s.components) >= s.limits.MaxComponents {
		return errors.New(errors.ErrCodeCapacity, "component limit exceeded")
	}
	tile, w, h, err := parseTile(block)
	if err != nil {
		return err
	}
	if w > s.limits.MaxTileSize || h > s.limits.MaxTileSize {
		return errors.New(errors.ErrCodeCapacity, "tile %q exceeds %dx%d", name, s.limits.MaxTileSize, s.limits.MaxTileSize)
	}
	c := &Component{Name: name, Width: w, Height: h, tile: tile}
	s.components = append(s.components, c)
	s.byName[name] = c
	return nil
}

// AddConstraint registers an adjacency requirement between two previously
// added components. Self-adjacency and references to unknown components are
// rejected here rather than at solve time.
func (s *Solver) AddConstraint(a, b string, dir Direction) error {
	if len(s.constraints) >= s.limits.MaxConstraints {
		return errors.New(errors.ErrCodeCapacity, "constraint limit exceeded")
	}
	switch dir {
	case North, South, East, West, Any:
	default:
		return errors.New(errors.ErrCodeInvalidConstraint, "unknown direction %q", byte(dir))
	}
	ca, ok := s.byName[a]
	if !ok {
		return errors.New(errors.ErrCodeInvalidConstraint, "unknown component %q", a)
	}
	cb, ok := s.byName[b]
	if !ok {
		return errors.New(errors.ErrCodeInvalidConstraint, "unknown component %q", b)
	}
	if ca == cb {
		return errors.New(errors.ErrCodeInvalidConstraint, "component %q cannot be adjacent to itself", a)
	}
	s.constraints = append(s.constraints, Constraint{A: a, B: b, Dir: dir})
	ca.Degree++
	cb.Degree++
	return nil
}

// Component looks up a component by name. The returned pointer shares state
// with the solver; treat it as read-only.
func (s *Solver) Component(name string) (*Component, bool) {
	c, ok := s.byName[name]
	return c, ok
}

// Components returns all components in registration order.
func (s *Solver) Components() []*Component {
	return append([]*Component(nil), s.components...)
}

// Constraints returns all registered constraints in registration order.
func (s *Solver) Constraints() []Constraint {
	return append([]Constraint(nil), s.constraints...)
}

// Cell returns the composed grid character at a world coordinate. Positions
// outside the canvas read as blank.
func (s *Solver) Cell(x, y int) byte { return s.grid.cell(x, y) }

// Render returns the composed grid as newline-joined rows.
func (s *Solver) Render() string { return s.grid.render() }

// Satisfied reports whether a constraint currently holds. A constraint with
// either endpoint unplaced is unsatisfied, not an error.
func (s *Solver) Satisfied(c Constraint) (bool, error) {
	a, ok := s.byName[c.A]
	if !ok {
		return false, errors.New(errors.ErrCodeNotFound, "unknown component %q", c.A)
	}
	b, ok := s.byName[c.B]
	if !ok {
		return false, errors.New(errors.ErrCodeNotFound, "unknown component %q", c.B)
	}
	if !a.Placed || !b.Placed {
		return false, nil
	}
	return adjacent(a.X, a.Y, a.Width, a.Height, b.X, b.Y, b.Width, b.Height, c.Dir), nil
}

// isValid reports whether a component could occupy (x, y) without character
// overlap against any placed component. The grid is grown first so a later
// place call cannot fail; a capacity error from that growth is fatal.
func (s *Solver) isValid(c *Component, x, y int) (bool, error) {
	if err := s.grid.ensure(x, y, c.Width, c.Height); err != nil {
		return false, err
	}
	for _, other := range s.components {
		if other == c || !other.Placed {
			continue
		}
		if cellsOverlap(c, x, y, other, other.X, other.Y) {
			return false, nil
		}
	}
	return true, nil
}

// place stamps a component's visible characters onto the grid at (x, y).
// Callers must have validated the position first.
func (s *Solver) place(c *Component, x, y int) error {
	if err := s.grid.ensure(x, y, c.Width, c.Height); err != nil {
		return err
	}
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			if ch := c.tile[row][col]; ch != blank {
				s.grid.set(x+col, y+row, ch)
			}
		}
	}
	c.Placed = true
	c.X, c.Y = x, y
	return nil
}

// unplace erases a component's visible characters and marks it unplaced.
func (s *Solver) unplace(c *Component) {
	if !c.Placed {
		return
	}
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			if c.tile[row][col] != blank {
				s.grid.set(c.X+col, c.Y+row, blank)
			}
		}
	}
	c.Placed = false
	delete(s.depths, c.Name)
	// Removing a component can free positions that were invalid before, so
	// every cached failure proof is stale now.
	clear(s.failed)
}

// Place positions a component directly, bypassing the search. The position
// is validated the same way the engine validates candidates.
func (s *Solver) Place(name string, x, y int) error {
	c, ok := s.byName[name]
	if !ok {
		return errors.New(errors.ErrCodeInvalidComponent, "unknown component %q", name)
	}
	if c.Placed {
		return errors.New(errors.ErrCodeInvalidInput, "component %q is already placed", name)
	}
	valid, err := s.isValid(c, x, y)
	if err != nil {
		return err
	}
	if !valid {
		return errors.New(errors.ErrCodeInvalidInput, "placement of %q at (%d, %d) overlaps another component", name, x, y)
	}
	return s.place(c, x, y)
}

// Unplace removes a directly placed component from the grid.
func (s *Solver) Unplace(name string) error {
	c, ok := s.byName[name]
	if !ok {
		return errors.New(errors.ErrCodeInvalidComponent, "unknown component %q", name)
	}
	s.unplace(c)
	return nil
}

// markFailed records an invalid position so the option generator skips it
// while the current placements stand. Placements only accumulate between
// rewinds, so a recorded failure stays a failure until a component is removed
// or moved; unplace and restoreSnapshot clear the cache. The per-component
// cache is bounded; once full, new failures are simply not remembered.
func (s *Solver) markFailed(c *Component, x, y int) {
	set := s.failed[c.Name]
	if set == nil {
		set = make(map[point]struct{})
		s.failed[c.Name] = set
	}
	if len(set) >= s.limits.MaxFailedPositions {
		return
	}
	set[point{x, y}] = struct{}{}
}

func (s *Solver) hasFailed(c *Component, x, y int) bool {
	_, ok := s.failed[c.Name][point{x, y}]
	return ok
}

// computeMobility refreshes Degree-derived mobility scores. Mobility is the
// constraint degree plus the number of distinct constrained neighbors, so a
// component wired to many different peers scores as a hub.
func (s *Solver) computeMobility() {
	for _, c := range s.components {
		neighbors := make(map[string]struct{})
		for _, ct := range s.constraints {
			switch c.Name {
			case ct.A:
				neighbors[ct.B] = struct{}{}
			case ct.B:
				neighbors[ct.A] = struct{}{}
			}
		}
		c.Mobility = c.Degree + len(neighbors)
	}
}

// mostConstrained returns the unplaced component with the highest constraint
// degree, breaking ties by registration order. Returns nil when every
// component is placed or none exists.
func (s *Solver) mostConstrained(candidates map[string]struct{}) *Component {
	var best *Component
	for _, c := range s.components {
		if c.Placed {
			continue
		}
		if candidates != nil {
			if _, ok := candidates[c.Name]; !ok {
				continue
			}
		}
		if best == nil || c.Degree > best.Degree {
			best = c
		}
	}
	return best
}

// normalize shifts every placed component so the minimum occupied coordinate
// is (0, 0) and rebuilds the grid from the translated placements.
func (s *Solver) normalize() error {
	minX, minY := 0, 0
	first := true
	for _, c := range s.components {
		if !c.Placed {
			continue
		}
		if first {
			minX, minY = c.X, c.Y
			first = false
			continue
		}
		minX = min(minX, c.X)
		minY = min(minY, c.Y)
	}
	if first || (minX == 0 && minY == 0) {
		return nil
	}
	s.grid = newGrid(s.limits.MaxGridExtent)
	for _, c := range s.components {
		if !c.Placed {
			continue
		}
		c.X -= minX
		c.Y -= minY
		c.Placed = false
		if err := s.place(c, c.X, c.Y); err != nil {
			return err
		}
	}
	return nil
}
