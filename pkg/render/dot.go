package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/gridlock-dev/gridlock/pkg/errors"
	"github.com/gridlock-dev/gridlock/pkg/scene"
)

// DOTOptions configures constraint graph rendering.
type DOTOptions struct {
	// Detailed includes tile sizes and placements in node labels.
	Detailed bool
}

// ToDOT converts a scene's constraint graph to Graphviz DOT format. Each
// component is a node; each adjacency constraint is an edge labeled with its
// direction. Unsatisfied constraints render dashed red so a failed solve is
// easy to read.
func ToDOT(sc *scene.Scene, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for _, c := range sc.Components {
		attrs := []string{fmt.Sprintf("label=%q", nodeLabel(c, opts.Detailed))}
		if !c.Placed {
			attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", c.Name, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, ct := range sc.Constraints {
		attrs := []string{fmt.Sprintf("label=%q", ct.Direction)}
		if !ct.Satisfied {
			attrs = append(attrs, "style=dashed", "color=red")
		}
		fmt.Fprintf(&buf, "  %q -- %q [%s];\n", ct.A, ct.B, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(c scene.Component, detailed bool) string {
	if !detailed {
		return c.Name
	}
	if c.Placed {
		return fmt.Sprintf("%s\n%dx%d @ (%d,%d)", c.Name, c.Width, c.Height, c.X, c.Y)
	}
	return fmt.Sprintf("%s\n%dx%d", c.Name, c.Width, c.Height)
}

// RenderSVG renders a DOT graph to SVG using the embedded Graphviz engine.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render SVG")
	}
	return buf.Bytes(), nil
}
