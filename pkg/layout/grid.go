package layout

import (
	"strings"

	"github.com/gridlock-dev/gridlock/pkg/errors"
)

// grid is a dynamically sized character canvas. It tracks its own origin in
// world coordinates so placements at negative positions stay addressable; the
// backing matrix only ever grows, up to the configured extent.
type grid struct {
	cells     [][]byte
	minX      int
	minY      int
	width     int
	height    int
	maxExtent int
}

func newGrid(maxExtent int) *grid {
	return &grid{maxExtent: maxExtent}
}

// cell returns the character at a world coordinate, or a blank for any
// coordinate outside the current canvas.
func (g *grid) cell(x, y int) byte {
	cx, cy := x-g.minX, y-g.minY
	if cx < 0 || cx >= g.width || cy < 0 || cy >= g.height {
		return blank
	}
	return g.cells[cy][cx]
}

func (g *grid) set(x, y int, ch byte) {
	cx, cy := x-g.minX, y-g.minY
	if cx < 0 || cx >= g.width || cy < 0 || cy >= g.height {
		return
	}
	g.cells[cy][cx] = ch
}

// ensure grows the canvas so the rectangle [x, x+w) x [y, y+h) is
// addressable, translating existing content when the origin moves. Exceeding
// the maximum extent on either axis is a hard capacity failure.
func (g *grid) ensure(x, y, w, h int) error {
	if g.width == 0 {
		if w > g.maxExtent || h > g.maxExtent {
			return errors.New(errors.ErrCodeCapacity, "grid extent limit exceeded")
		}
		g.minX, g.minY = x, y
		g.width, g.height = w, h
		g.cells = blankRows(w, h)
		return nil
	}

	minX := min(g.minX, x)
	minY := min(g.minY, y)
	maxX := max(g.minX+g.width, x+w)
	maxY := max(g.minY+g.height, y+h)
	if minX == g.minX && minY == g.minY && maxX == g.minX+g.width && maxY == g.minY+g.height {
		return nil
	}
	newW, newH := maxX-minX, maxY-minY
	if newW > g.maxExtent || newH > g.maxExtent {
		return errors.New(errors.ErrCodeCapacity, "grid extent limit exceeded")
	}

	cells := blankRows(newW, newH)
	dx, dy := g.minX-minX, g.minY-minY
	for row := 0; row < g.height; row++ {
		copy(cells[row+dy][dx:], g.cells[row])
	}
	g.cells = cells
	g.minX, g.minY = minX, minY
	g.width, g.height = newW, newH
	return nil
}

// clone deep-copies the grid for snapshotting.
func (g *grid) clone() *grid {
	c := &grid{
		minX:      g.minX,
		minY:      g.minY,
		width:     g.width,
		height:    g.height,
		maxExtent: g.maxExtent,
	}
	c.cells = make([][]byte, len(g.cells))
	for i, row := range g.cells {
		c.cells[i] = append([]byte(nil), row...)
	}
	return c
}

// render flattens the canvas into newline-joined rows with trailing blanks
// trimmed. An empty grid renders as the empty string.
func (g *grid) render() string {
	rows := make([]string, g.height)
	for i, row := range g.cells {
		rows[i] = strings.TrimRight(string(row), " ")
	}
	return strings.Join(rows, "\n")
}

func blankRows(w, h int) [][]byte {
	cells := make([][]byte, h)
	for i := range cells {
		row := make([]byte, w)
		for j := range row {
			row[j] = blank
		}
		cells[i] = row
	}
	return cells
}
