// Package render turns solved scenes into presentable artifacts: the composed
// ASCII grid with an optional legend, a Graphviz DOT view of the constraint
// graph, and SVG via the embedded Graphviz engine.
package render
