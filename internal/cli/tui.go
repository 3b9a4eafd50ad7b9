package cli

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// StructureListModel is the bubbletea model for the structure type menu
// shown by 'generate' when no argument is given.
type StructureListModel struct {
	Structures []string
	Cursor     int
	Selected   string
}

// NewStructureListModel creates a menu over the given structure types.
func NewStructureListModel(structures []string) StructureListModel {
	return StructureListModel{Structures: structures}
}

func (m StructureListModel) Init() tea.Cmd {
	return nil
}

func (m StructureListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Structures)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = m.Structures[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m StructureListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Structure"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, s := range m.Structures {
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + s))
		} else {
			b.WriteString(listNormalStyle.Render("  " + s))
		}
		b.WriteString("\n")
	}

	return b.String()
}
