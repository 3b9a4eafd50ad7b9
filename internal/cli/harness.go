package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/gridlock-dev/gridlock/pkg/layout"
)

// harnessDirections are cycled with the left/right keys.
var harnessDirections = []layout.Direction{
	layout.North, layout.South, layout.East, layout.West, layout.Any,
}

// harnessCommand creates the interactive constraint harness. Two rectangular
// test rooms and a single adjacency constraint; the ranked placement options
// for the second room are listed with their scores, with a live grid preview
// of the selected candidate.
func (c *CLI) harnessCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "harness [WxH] [WxH]",
		Short: "Interactively explore placement options for one constraint",
		Long: `Interactively explore placement options for one constraint.

Two rectangular rooms are created with the given sizes (default 7x5 and 4x3).
Room A sits fixed at the origin; every candidate position for room B under
ADJACENT(B, A, dir) is listed with its preference score. Arrow keys move
through candidates and directions; the grid preview updates live.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			aw, ah, bw, bh := 7, 5, 4, 3
			var err error
			if len(args) > 0 {
				if aw, ah, err = parseSize(args[0]); err != nil {
					return err
				}
			}
			if len(args) > 1 {
				if bw, bh, err = parseSize(args[1]); err != nil {
					return err
				}
			}
			m, err := NewHarnessModel(aw, ah, bw, bh)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(m).Run()
			return err
		},
	}
}

func parseSize(s string) (int, int, error) {
	var w, h int
	if _, err := fmt.Sscanf(s, "%dx%d", &w, &h); err != nil {
		return 0, 0, fmt.Errorf("invalid size %q, want WxH", s)
	}
	if w < 1 || h < 1 {
		return 0, 0, fmt.Errorf("invalid size %q, dimensions must be positive", s)
	}
	return w, h, nil
}

// boxTile builds a rectangular room tile with a border frame when the size
// allows one.
func boxTile(w, h int) string {
	if w < 2 || h < 2 {
		row := strings.Repeat("#", w)
		rows := make([]string, h)
		for i := range rows {
			rows[i] = row
		}
		return strings.Join(rows, "\n")
	}
	top := "+" + strings.Repeat("-", w-2) + "+"
	mid := "|" + strings.Repeat(" ", w-2) + "|"
	rows := make([]string, 0, h)
	rows = append(rows, top)
	for i := 0; i < h-2; i++ {
		rows = append(rows, mid)
	}
	rows = append(rows, top)
	return strings.Join(rows, "\n")
}

// HarnessModel is the bubbletea model for the constraint harness.
type HarnessModel struct {
	aw, ah, bw, bh int
	DirIndex       int
	Cursor         int
	Options        []layout.Option
	preview        string
	err            string
}

// NewHarnessModel creates a harness over two room sizes.
func NewHarnessModel(aw, ah, bw, bh int) (HarnessModel, error) {
	m := HarnessModel{aw: aw, ah: ah, bw: bw, bh: bh, DirIndex: 0}
	if err := m.regenerate(); err != nil {
		return m, err
	}
	return m, nil
}

// solver builds a fresh two-room solver with room A placed at the origin.
func (m *HarnessModel) solver() (*layout.Solver, layout.Constraint, error) {
	s := layout.NewSolver(layout.Limits{})
	ct := layout.Constraint{A: "b", B: "a", Dir: harnessDirections[m.DirIndex]}
	if err := s.AddComponent("a", boxTile(m.aw, m.ah)); err != nil {
		return nil, ct, err
	}
	if err := s.AddComponent("b", boxTile(m.bw, m.bh)); err != nil {
		return nil, ct, err
	}
	if err := s.AddConstraint(ct.A, ct.B, ct.Dir); err != nil {
		return nil, ct, err
	}
	if err := s.Place("a", 0, 0); err != nil {
		return nil, ct, err
	}
	return s, ct, nil
}

// regenerate recomputes the option list for the current direction.
func (m *HarnessModel) regenerate() error {
	s, ct, err := m.solver()
	if err != nil {
		return err
	}
	opts, err := s.PlacementOptions(ct)
	if err != nil {
		return err
	}
	m.Options = opts
	if m.Cursor >= len(opts) {
		m.Cursor = 0
	}
	m.refreshPreview()
	return nil
}

// refreshPreview renders the grid with room B at the selected candidate.
func (m *HarnessModel) refreshPreview() {
	m.preview, m.err = "", ""
	if len(m.Options) == 0 {
		return
	}
	s, _, err := m.solver()
	if err != nil {
		m.err = err.Error()
		return
	}
	opt := m.Options[m.Cursor]
	if err := s.Place("b", opt.X, opt.Y); err != nil {
		m.err = err.Error()
		return
	}
	m.preview = s.Render()
}

func (m HarnessModel) Init() tea.Cmd {
	return nil
}

func (m HarnessModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				m.refreshPreview()
			}
		case "down", "j":
			if m.Cursor < len(m.Options)-1 {
				m.Cursor++
				m.refreshPreview()
			}
		case "left", "h":
			m.DirIndex = (m.DirIndex + len(harnessDirections) - 1) % len(harnessDirections)
			m.Cursor = 0
			_ = m.regenerate()
		case "right", "l":
			m.DirIndex = (m.DirIndex + 1) % len(harnessDirections)
			m.Cursor = 0
			_ = m.regenerate()
		}
	}
	return m, nil
}

func (m HarnessModel) View() string {
	var b strings.Builder

	dir := harnessDirections[m.DirIndex]
	b.WriteString(StyleTitle.Render("Constraint Harness"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ option  ←/→ direction  q quit"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("ADJACENT(b, a, %s)  %dx%d vs %dx%d\n\n",
		dir.String(), m.aw, m.ah, m.bw, m.bh))

	if len(m.Options) == 0 {
		b.WriteString(StyleDim.Render("no placement options"))
		b.WriteString("\n")
		return b.String()
	}

	// Show a window of options around the cursor.
	start := m.Cursor - 4
	if start < 0 {
		start = 0
	}
	end := start + 9
	if end > len(m.Options) {
		end = len(m.Options)
	}
	for i := start; i < end; i++ {
		opt := m.Options[i]
		line := fmt.Sprintf("%3d. (%3d,%3d) score %3d", i+1, opt.X, opt.Y, opt.Score)
		if len(opt.Conflicts) > 0 {
			line += fmt.Sprintf("  %d conflicts", len(opt.Conflicts))
		}
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + line))
		} else {
			b.WriteString(listNormalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.err != "" {
		b.WriteString(StyleWarning.Render(m.err))
		b.WriteString("\n")
	} else if m.preview != "" {
		b.WriteString(StyleDim.Render(m.preview))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("[%d/%d]", m.Cursor+1, len(m.Options))))

	return b.String()
}
