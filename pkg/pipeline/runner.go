package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gridlock-dev/gridlock/pkg/cache"
	"github.com/gridlock-dev/gridlock/pkg/layout"
	"github.com/gridlock-dev/gridlock/pkg/layout/dsl"
	"github.com/gridlock-dev/gridlock/pkg/observability"
	"github.com/gridlock-dev/gridlock/pkg/render"
	"github.com/gridlock-dev/gridlock/pkg/scene"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store run results. Multiple goroutines can safely use the same Runner
// with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a null cache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → solve → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		SpecHash:  cache.Hash([]byte(opts.SpecText)),
		Artifacts: make(map[string][]byte),
	}

	// Stage 1+2: Parse and solve. Parsing is local and cheap, so the two
	// stages share one cache entry keyed by the spec hash.
	solveStart := time.Now()
	sc, solveHit, err := r.SolveWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	result.Scene = sc
	result.Stats.SolveTime = time.Since(solveStart)
	result.Stats.Components = len(sc.Components)
	result.Stats.Constraints = len(sc.Constraints)
	result.CacheInfo.SolveHit = solveHit

	opts.Logger.Info("solved scene",
		"name", sc.Name,
		"solved", sc.Solved,
		"components", len(sc.Components),
		"iterations", sc.Stats.Iterations,
		"duration", result.Stats.SolveTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, sc, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// SolveWithCacheInfo parses and solves a spec with caching and reports
// whether the result came from the cache.
func (r *Runner) SolveWithCacheInfo(ctx context.Context, opts Options) (*scene.Scene, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	limits := opts.Limits
	cacheKey := r.Keyer.SolveKey(cache.Hash([]byte(opts.SpecText)), cache.SolveKeyOpts{
		MaxIterations:    limits.MaxIterations,
		MaxSlideDistance: limits.MaxSlideDistance,
		MaxGridExtent:    limits.MaxGridExtent,
	})

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := scene.FromJSON(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "solve")
				cached.Name = opts.Name
				return cached, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "solve")
	}

	spec, err := dsl.Parse(opts.SpecText)
	if err != nil {
		return nil, false, err
	}
	solver := layout.NewSolver(limits)
	if err := spec.Apply(solver); err != nil {
		return nil, false, err
	}
	if _, err := solver.Solve(ctx); err != nil {
		return nil, false, err
	}
	sc := scene.FromSolver(solver, opts.Name)

	// Unsolvable results are cached too; the search is deterministic.
	if data, err := sc.ToJSON(); err == nil {
		if r.Cache.Set(ctx, cacheKey, data, cache.TTLSolve) == nil {
			observability.Cache().OnCacheSet(ctx, "solve", len(data))
		}
	}

	return sc, false, nil
}

// Solve is a convenience wrapper that discards the cache hit info.
func (r *Runner) Solve(ctx context.Context, opts Options) (*scene.Scene, error) {
	sc, _, err := r.SolveWithCacheInfo(ctx, opts)
	return sc, err
}

// RenderWithCacheInfo renders a scene in every requested format with
// caching and reports whether all artifacts came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, sc *scene.Scene, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Artifacts depend on the whole scene, not just the grid: DOT output
	// includes unplaced components and satisfaction flags.
	sceneData, err := sc.ToJSON()
	if err != nil {
		return nil, false, fmt.Errorf("serialize scene for cache key: %w", err)
	}
	sceneHash := cache.Hash(sceneData)

	artifacts := make(map[string][]byte)
	allCached := !opts.Refresh
	if allCached {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(sceneHash, r.artifactOpts(format, opts))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}
	}
	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	artifacts = make(map[string][]byte)
	for _, format := range opts.Formats {
		data, err := r.renderFormat(ctx, sc, format, opts)
		if err != nil {
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(sceneHash, r.artifactOpts(format, opts))
		if r.Cache.Set(ctx, key, data, cache.TTLArtifact) == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return artifacts, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, sc *scene.Scene, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, sc, opts)
	return artifacts, err
}

func (r *Runner) renderFormat(ctx context.Context, sc *scene.Scene, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatText:
		text, err := render.Compose(sc)
		if err != nil {
			return nil, err
		}
		if opts.Legend {
			text += "\n\n" + render.Legend(sc)
		}
		return []byte(text), nil
	case FormatJSON:
		return sc.ToJSON()
	case FormatDOT:
		return []byte(render.ToDOT(sc, render.DOTOptions{Detailed: opts.Detailed})), nil
	case FormatSVG:
		dot := render.ToDOT(sc, render.DOTOptions{Detailed: opts.Detailed})
		return render.RenderSVG(ctx, dot)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func (r *Runner) artifactOpts(format string, opts Options) cache.ArtifactKeyOpts {
	key := format
	if opts.Legend && format == FormatText {
		key = "text+legend"
	}
	if opts.Detailed && (format == FormatDOT || format == FormatSVG) {
		key = format + "+detailed"
	}
	return cache.ArtifactKeyOpts{Format: key}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
