// Package observability provides hooks for tracing solver and cache activity.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup to
// receive placement, conflict, and backtrack events from the layout engine;
// the engine itself performs no file I/O and no logging.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the solver dependency-free from logging frameworks
//   - Allows different backends (structured logs, trace files, metrics)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSolverHooks(&myTraceHooks{})
//	    // ... run application
//	}
//
// The engine calls hooks as the search progresses:
//
//	observability.Solver().OnPlace(name, x, y, depth)
//	observability.Solver().OnBacktrack(name, depth)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Solver Hooks
// =============================================================================

// SolverHooks receives events from the layout engine. All methods are called
// synchronously on the solving goroutine; implementations must be fast.
type SolverHooks interface {
	// OnSolveStart fires once when the engine begins, after root selection.
	OnSolveStart(root string, components, constraints int)

	// OnConstraint fires when the engine picks the next constraint to satisfy.
	OnConstraint(a, b string, dir byte, options int)

	// OnAttempt fires for each placement option tried.
	OnAttempt(name string, x, y, score int, conflict bool)

	// OnPlace fires when a component is committed to the grid.
	OnPlace(name string, x, y, depth int)

	// OnConflict fires when a candidate placement overlaps placed components.
	OnConflict(name string, blockers []string)

	// OnSlide fires when the sliding resolver relocates a blocker.
	OnSlide(name string, dx, dy int)

	// OnBacktrack fires when a subtree fails and a snapshot is restored.
	OnBacktrack(name string, depth int)

	// OnSolveEnd fires once with the final outcome and search statistics.
	OnSolveEnd(solved bool, iterations, nodes, backtracks int, elapsed time.Duration)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSolverHooks is a no-op implementation of SolverHooks.
type NoopSolverHooks struct{}

func (NoopSolverHooks) OnSolveStart(string, int, int)                      {}
func (NoopSolverHooks) OnConstraint(string, string, byte, int)             {}
func (NoopSolverHooks) OnAttempt(string, int, int, int, bool)              {}
func (NoopSolverHooks) OnPlace(string, int, int, int)                      {}
func (NoopSolverHooks) OnConflict(string, []string)                        {}
func (NoopSolverHooks) OnSlide(string, int, int)                           {}
func (NoopSolverHooks) OnBacktrack(string, int)                            {}
func (NoopSolverHooks) OnSolveEnd(bool, int, int, int, time.Duration)      {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	solverHooks SolverHooks = NoopSolverHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetSolverHooks registers custom solver hooks.
// This should be called once at application startup before solving.
func SetSolverHooks(h SolverHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		solverHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Solver returns the registered solver hooks.
func Solver() SolverHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return solverHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	solverHooks = NoopSolverHooks{}
	cacheHooks = NoopCacheHooks{}
}
