// Package pkg provides the core libraries for Gridlock layout solving.
//
// # Overview
//
// Gridlock places named ASCII-art components on an unbounded grid so that every
// declared adjacency constraint is satisfied and no two components overlap. The
// pkg directory is organized into:
//
//  1. [layout] - The constraint solver (grid, components, search engine)
//  2. [layout/dsl] - Text reader for the layout specification format
//  3. [scene] - Serialization types for solved layouts
//  4. [render] - ASCII and Graphviz output
//  5. [cache], [store] - Infrastructure (solution cache, scene documents)
//  6. [pipeline] - Orchestration (parse → solve → render)
//  7. [integrations/llm] - Optional spec generation via an LLM service
//
// # Architecture
//
// The typical data flow through Gridlock:
//
//	DSL specification text
//	         ↓
//	    [layout/dsl] package (components + constraints)
//	         ↓
//	    [layout] package (depth-first placement search)
//	         ↓
//	    [scene] package (canonical solved layout)
//	         ↓
//	    [render] package (ASCII, DOT, SVG)
//
// # Quick Start
//
// Solve a small layout and print it:
//
//	import "github.com/gridlock-dev/gridlock/pkg/layout"
//
//	s := layout.NewSolver(layout.DefaultLimits())
//	_ = s.AddComponent("Keep", "XXXX\nX  X\nXXXX")
//	_ = s.AddComponent("Yard", "....\n....")
//	_ = s.AddConstraint("Yard", "Keep", layout.North)
//
//	solved, err := s.Solve(context.Background())
//	if err != nil {
//	    // capacity or resource violation
//	}
//	if solved {
//	    fmt.Println(s.Render())
//	}
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/layout/...   # Solver only
//	go test -run Example       # Examples only
//
// [layout]: https://pkg.go.dev/github.com/gridlock-dev/gridlock/pkg/layout
// [layout/dsl]: https://pkg.go.dev/github.com/gridlock-dev/gridlock/pkg/layout/dsl
// [scene]: https://pkg.go.dev/github.com/gridlock-dev/gridlock/pkg/scene
// [render]: https://pkg.go.dev/github.com/gridlock-dev/gridlock/pkg/render
// [cache]: https://pkg.go.dev/github.com/gridlock-dev/gridlock/pkg/cache
// [store]: https://pkg.go.dev/github.com/gridlock-dev/gridlock/pkg/store
// [pipeline]: https://pkg.go.dev/github.com/gridlock-dev/gridlock/pkg/pipeline
// [integrations/llm]: https://pkg.go.dev/github.com/gridlock-dev/gridlock/pkg/integrations/llm
package pkg
