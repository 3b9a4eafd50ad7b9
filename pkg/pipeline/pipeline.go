// Package pipeline runs the complete spec → solve → render flow shared by
// the CLI and the HTTP server. Centralizing it keeps caching behavior
// identical across entry points.
//
// The pipeline has three stages:
//
//  1. Parse: read the DSL spec into components and constraints
//  2. Solve: search for a placement satisfying every constraint
//  3. Render: produce output in the requested formats
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    SpecText: spec,
//	    Formats:  []string{"text", "svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(string(result.Artifacts["text"]))
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/gridlock-dev/gridlock/pkg/errors"
	"github.com/gridlock-dev/gridlock/pkg/layout"
	"github.com/gridlock-dev/gridlock/pkg/scene"
)

// Output format constants.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatText: true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// Options configures a pipeline run. The struct supports JSON serialization
// for API requests.
type Options struct {
	// SpecText is the DSL spec to solve. Required.
	SpecText string `json:"spec_text"`

	// Name labels the resulting scene.
	Name string `json:"name,omitempty"`

	// Limits overrides solver limits. Zero fields use defaults.
	Limits layout.Limits `json:"limits,omitempty"`

	// Formats selects the outputs to render. Defaults to ["text"].
	Formats []string `json:"formats,omitempty"`

	// Legend appends a component legend to text output.
	Legend bool `json:"legend,omitempty"`

	// Detailed includes positions and sizes in DOT node labels.
	Detailed bool `json:"detailed,omitempty"`

	// Refresh bypasses the cache and recomputes everything.
	Refresh bool `json:"refresh,omitempty"`

	// Logger overrides the runner's logger for this run.
	Logger *log.Logger `json:"-"`

	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks the options and fills in defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.SpecText == "" {
		return errors.New(errors.ErrCodeInvalidInput, "spec text is required")
	}
	if o.Name == "" {
		o.Name = "scene"
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatText}
	}
	for _, f := range o.Formats {
		if !ValidFormats[f] {
			return errors.New(errors.ErrCodeInvalidInput, "unsupported format: %s", f)
		}
	}
	o.validated = true
	return nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Scene is the solved (or unsolvable) scene.
	Scene *scene.Scene

	// SpecHash is the content hash of the spec text.
	SpecHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Components  int
	Constraints int
	ParseTime   time.Duration
	SolveTime   time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	SolveHit  bool
	RenderHit bool
}
