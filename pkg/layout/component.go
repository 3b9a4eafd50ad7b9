package layout

import (
	"strings"

	"github.com/gridlock-dev/gridlock/pkg/errors"
)

const blank = ' '

// Component is a named ASCII tile plus its placement state. Width and Height
// describe the tile's bounding box; blank cells inside the box are transparent
// and never collide with other tiles.
type Component struct {
	Name   string
	Width  int
	Height int

	// Placed placement in world coordinates. X and Y are only meaningful
	// while Placed is true.
	Placed bool
	X      int
	Y      int

	// Degree counts constraints that reference this component. Mobility adds
	// the number of distinct constrained neighbors; a high value marks a hub
	// that is expensive to move late in the search.
	Degree   int
	Mobility int

	tile [][]byte
}

// parseTile turns a raw ASCII block into a rectangular byte matrix. Lines are
// right-padded with blanks to the widest line; trailing empty lines are
// dropped. A block with no visible characters is rejected.
func parseTile(block string) ([][]byte, int, int, error) {
	block = strings.ReplaceAll(block, "\r\n", "\n")
	lines := strings.Split(block, "\n")
	for len(lines) > 0 && strings.TrimRight(lines[len(lines)-1], " \t") == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return nil, 0, 0, errors.New(errors.ErrCodeInvalidComponent, "tile has no visible characters")
	}

	width := 0
	for _, line := range lines {
		if len(line) > width {
			width = len(line)
		}
	}
	if width == 0 {
		return nil, 0, 0, errors.New(errors.ErrCodeInvalidComponent, "tile has no visible characters")
	}

	tile := make([][]byte, len(lines))
	visible := false
	for i, line := range lines {
		row := make([]byte, width)
		for j := range row {
			row[j] = blank
		}
		copy(row, line)
		for j := range row {
			if row[j] == '\t' {
				row[j] = blank
			}
			if row[j] != blank {
				visible = true
			}
		}
		tile[i] = row
	}
	if !visible {
		return nil, 0, 0, errors.New(errors.ErrCodeInvalidComponent, "tile has no visible characters")
	}
	return tile, width, len(lines), nil
}

// At returns the tile cell at the given local column and row, or a blank for
// coordinates outside the tile.
func (c *Component) At(col, row int) byte {
	if row < 0 || row >= c.Height || col < 0 || col >= c.Width {
		return blank
	}
	return c.tile[row][col]
}

// Rows returns the tile as padded strings, one per row.
func (c *Component) Rows() []string {
	rows := make([]string, c.Height)
	for i, r := range c.tile {
		rows[i] = string(r)
	}
	return rows
}

// cellsOverlap reports whether two placed tiles share a cell where both have
// a visible character. Blank cells inside either bounding box never collide.
func cellsOverlap(a *Component, ax, ay int, b *Component, bx, by int) bool {
	if !spansOverlap(ax, a.Width, bx, b.Width) || !spansOverlap(ay, a.Height, by, b.Height) {
		return false
	}
	x0 := max(ax, bx)
	x1 := min(ax+a.Width, bx+b.Width)
	y0 := max(ay, by)
	y1 := min(ay+a.Height, by+b.Height)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if a.tile[y-ay][x-ax] != blank && b.tile[y-by][x-bx] != blank {
				return true
			}
		}
	}
	return false
}
