package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gridlock-dev/gridlock/pkg/layout"
)

// TreeDOT converts a recorded search tree to Graphviz DOT format. Each node
// is one placement attempt; the surviving solution path renders filled green,
// rejected branches grey. Roots (Parent -1) attach to a synthetic start node
// so disconnected clusters stay in one drawing.
func TreeDOT(nodes []layout.TreeNode) string {
	var buf bytes.Buffer
	buf.WriteString("digraph search {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=10];\n")
	buf.WriteString("  start [label=\"start\", shape=circle, fillcolor=white];\n")
	buf.WriteString("\n")

	for i, n := range nodes {
		label := fmt.Sprintf("%s @ (%d,%d)\nscore %d", n.Component, n.X, n.Y, n.Score)
		attrs := []string{fmt.Sprintf("label=%q", label)}
		if n.Accepted {
			attrs = append(attrs, "fillcolor=palegreen")
		} else {
			attrs = append(attrs, "fillcolor=lightgrey", "color=grey")
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", i, strings.Join(attrs, ", "))

		if n.Parent < 0 {
			fmt.Fprintf(&buf, "  start -> n%d;\n", i)
		} else {
			fmt.Fprintf(&buf, "  n%d -> n%d;\n", n.Parent, i)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}
