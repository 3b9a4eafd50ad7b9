// Package layout implements a constraint-driven placement engine for named
// ASCII tiles on a dynamically growing character grid.
//
// Components are rectangular tiles whose blank cells are transparent;
// constraints declare directional adjacency between pairs of components. The
// solver anchors the most constrained component at the origin and expands one
// open constraint at a time, enumerating every flush candidate along the
// shared edge, scoring each for alignment quality, and backtracking through
// grid snapshots when a branch dead-ends. Overlapping candidates are not
// rejected outright: the resolver first tries to slide blockers a single hop
// out of the way, which lets dense layouts pack tighter than pure rejection
// would allow.
//
// All mutating entry points return structured errors from pkg/errors, and the
// search emits progress through pkg/observability hooks.
package layout
