package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/nodeshapes/pkg/shapes"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	previewBoxStyle   = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

// =============================================================================
// ShapeListModel - Interactive shape browser
// =============================================================================

// ShapeListModel is the bubbletea model for browsing the registered shapes.
// Moving the cursor redraws the preview of the shape under it.
type ShapeListModel struct {
	Shapes   []shapes.Descriptor
	Cursor   int
	Selected string

	preview func(name string) string
}

// NewShapeListModel creates a shape list. preview renders the text preview
// of one shape; it may be nil.
func NewShapeListModel(descs []shapes.Descriptor, preview func(name string) string) ShapeListModel {
	return ShapeListModel{Shapes: descs, preview: preview}
}

func (m ShapeListModel) Init() tea.Cmd {
	return nil
}

func (m ShapeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Shapes)-1 {
				m.Cursor++
			}
		case "enter":
			if len(m.Shapes) > 0 {
				m.Selected = m.Shapes[m.Cursor].Name
			}
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ShapeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Shapes"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	var list strings.Builder
	for i, d := range m.Shapes {
		if i == m.Cursor {
			list.WriteString(listSelectedStyle.Render("▸ " + d.Name))
		} else {
			list.WriteString(listNormalStyle.Render("  " + d.Name))
		}
		list.WriteString("\n")
	}

	var preview string
	if m.preview != nil && len(m.Shapes) > 0 {
		d := m.Shapes[m.Cursor]
		preview = previewBoxStyle.Render(m.preview(d.Name) + "\n" + listDimStyle.Render(describeShape(d)))
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list.String(), "  ", preview))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Shapes))))

	return b.String()
}

// runShapePicker runs the interactive browser and returns the chosen name,
// or "" when the user quit without choosing.
func runShapePicker(descs []shapes.Descriptor, preview func(string) string) (string, error) {
	final, err := tea.NewProgram(NewShapeListModel(descs, preview)).Run()
	if err != nil {
		return "", err
	}
	return final.(ShapeListModel).Selected, nil
}
