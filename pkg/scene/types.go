// Package scene defines the canonical serialization format for solved and
// unsolved layouts. Scenes flow through the HTTP API, the store, and the
// cache, so the format is designed for round-trip fidelity: solve → export →
// re-import produces an identical layout.
package scene

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gridlock-dev/gridlock/pkg/errors"
	"github.com/gridlock-dev/gridlock/pkg/layout"
)

// Scene is a complete layout document: input components and constraints plus,
// after a successful solve, the resolved coordinates and composed grid.
type Scene struct {
	ID          string       `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string       `json:"name,omitempty" bson:"name,omitempty"`
	Components  []Component  `json:"components" bson:"components"`
	Constraints []Constraint `json:"constraints,omitempty" bson:"constraints,omitempty"`
	Solved      bool         `json:"solved" bson:"solved"`
	Grid        string       `json:"grid,omitempty" bson:"grid,omitempty"`
	Stats       *Stats       `json:"stats,omitempty" bson:"stats,omitempty"`
	CreatedAt   time.Time    `json:"created_at,omitempty" bson:"created_at,omitempty"`
}

// Component is one tile with its placement result.
type Component struct {
	Name   string `json:"name" bson:"name"`
	Tile   string `json:"tile" bson:"tile"`
	Width  int    `json:"width" bson:"width"`
	Height int    `json:"height" bson:"height"`
	Placed bool   `json:"placed" bson:"placed"`
	X      int    `json:"x,omitempty" bson:"x,omitempty"`
	Y      int    `json:"y,omitempty" bson:"y,omitempty"`
}

// Constraint mirrors layout.Constraint with a long-form direction name.
type Constraint struct {
	A         string `json:"a" bson:"a"`
	B         string `json:"b" bson:"b"`
	Direction string `json:"direction" bson:"direction"`
	Satisfied bool   `json:"satisfied" bson:"satisfied"`
}

// Stats carries the solve counters for diagnostics.
type Stats struct {
	Iterations int `json:"iterations" bson:"iterations"`
	Nodes      int `json:"nodes" bson:"nodes"`
	Backtracks int `json:"backtracks" bson:"backtracks"`
	Slides     int `json:"slides" bson:"slides"`
}

// FromSolver captures a solver's current state as a Scene.
func FromSolver(s *layout.Solver, name string) *Scene {
	sc := &Scene{
		Name:      name,
		Solved:    s.Solved(),
		CreatedAt: time.Now().UTC(),
	}
	if s.Solved() {
		sc.Grid = s.Render()
	}
	st := s.Stats()
	sc.Stats = &Stats{
		Iterations: st.Iterations,
		Nodes:      st.Nodes,
		Backtracks: st.Backtracks,
		Slides:     st.Slides,
	}
	for _, c := range s.Components() {
		sc.Components = append(sc.Components, Component{
			Name:   c.Name,
			Tile:   strings.Join(c.Rows(), "\n"),
			Width:  c.Width,
			Height: c.Height,
			Placed: c.Placed,
			X:      c.X,
			Y:      c.Y,
		})
	}
	for _, ct := range s.Constraints() {
		ok, _ := s.Satisfied(ct)
		sc.Constraints = append(sc.Constraints, Constraint{
			A:         ct.A,
			B:         ct.B,
			Direction: ct.Dir.String(),
			Satisfied: ok,
		})
	}
	return sc
}

// Solver rebuilds a layout.Solver from the scene's inputs. Placement results
// are not restored; call Solve to recompute them.
func (sc *Scene) Solver(limits layout.Limits) (*layout.Solver, error) {
	s := layout.NewSolver(limits)
	for _, c := range sc.Components {
		if err := s.AddComponent(c.Name, c.Tile); err != nil {
			return nil, err
		}
	}
	for _, ct := range sc.Constraints {
		dir, ok := layout.ParseDirection(ct.Direction)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidConstraint, "unknown direction %q", ct.Direction)
		}
		if err := s.AddConstraint(ct.A, ct.B, dir); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// ToJSON serializes the scene with indentation for human consumption.
func (sc *Scene) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "marshal scene")
	}
	return data, nil
}

// FromJSON deserializes a scene document.
func FromJSON(data []byte) (*Scene, error) {
	var sc Scene
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal scene")
	}
	return &sc, nil
}

