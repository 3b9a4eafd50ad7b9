package render

import (
	"fmt"
	"strings"

	"github.com/gridlock-dev/gridlock/pkg/errors"
	"github.com/gridlock-dev/gridlock/pkg/scene"
)

// Compose rebuilds the ASCII grid from a scene's component placements. The
// solver emits the same text after a solve; this path exists so stored scenes
// render without re-solving. Unplaced components are skipped.
func Compose(sc *scene.Scene) (string, error) {
	minX, minY := 0, 0
	maxX, maxY := 0, 0
	any := false
	for _, c := range sc.Components {
		if !c.Placed {
			continue
		}
		if !any {
			minX, minY = c.X, c.Y
			maxX, maxY = c.X+c.Width, c.Y+c.Height
			any = true
			continue
		}
		minX = min(minX, c.X)
		minY = min(minY, c.Y)
		maxX = max(maxX, c.X+c.Width)
		maxY = max(maxY, c.Y+c.Height)
	}
	if !any {
		return "", nil
	}

	w, h := maxX-minX, maxY-minY
	rows := make([][]byte, h)
	for i := range rows {
		rows[i] = []byte(strings.Repeat(" ", w))
	}
	for _, c := range sc.Components {
		if !c.Placed {
			continue
		}
		tile := strings.Split(c.Tile, "\n")
		if len(tile) != c.Height {
			return "", errors.New(errors.ErrCodeInvalidFormat,
				"component %s tile has %d rows, expected %d", c.Name, len(tile), c.Height)
		}
		for row, line := range tile {
			for col := 0; col < len(line) && col < c.Width; col++ {
				if line[col] == ' ' {
					continue
				}
				y := c.Y + row - minY
				x := c.X + col - minX
				rows[y][x] = line[col]
			}
		}
	}

	out := make([]string, h)
	for i, r := range rows {
		out[i] = strings.TrimRight(string(r), " ")
	}
	return strings.Join(out, "\n"), nil
}

// Legend lists each component with its placement, one line per component, for
// printing under the grid.
func Legend(sc *scene.Scene) string {
	var b strings.Builder
	for _, c := range sc.Components {
		if c.Placed {
			fmt.Fprintf(&b, "%-16s %dx%d at (%d,%d)\n", c.Name, c.Width, c.Height, c.X, c.Y)
		} else {
			fmt.Fprintf(&b, "%-16s %dx%d unplaced\n", c.Name, c.Width, c.Height)
		}
	}
	return b.String()
}
