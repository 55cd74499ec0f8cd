package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/textuml/pkg/extract"
	"github.com/matzehuels/textuml/pkg/summary"
)

// List styles
var (
	listDimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	listPreviewStyle = lipgloss.NewStyle().Foreground(colorGray).PaddingLeft(2)
)

// =============================================================================
// ExampleListModel - Interactive example selection
// =============================================================================

// ExampleListModel is the bubbletea model for picking a built-in example.
type ExampleListModel struct {
	Examples []extract.Example
	Cursor   int
	Selected int // 1-based; 0 when the user quit
}

// NewExampleListModel creates a model over the given examples.
func NewExampleListModel(examples []extract.Example) ExampleListModel {
	return ExampleListModel{Examples: examples}
}

func (m ExampleListModel) Init() tea.Cmd {
	return nil
}

func (m ExampleListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Examples)-1 {
				m.Cursor++
			}
		case "enter":
			if len(m.Examples) > 0 {
				m.Selected = m.Cursor + 1
			}
			return m, tea.Quit
		default:
			if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
				if n := int(s[0] - '0'); n <= len(m.Examples) {
					m.Cursor = n - 1
				}
			}
		}
	}
	return m, nil
}

func (m ExampleListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Example"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  1-9 jump  ⏎ generate  q quit"))
	b.WriteString("\n\n")

	rows := make([][]string, len(m.Examples))
	for i, ex := range m.Examples {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		lines := strings.Count(ex.Text, "\n") + 1
		rows[i] = []string{cursor, fmt.Sprintf("%d", i+1), ex.Name, summary.Count(lines, "sentence")}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Example", "Size").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
	b.WriteString(t.Render())
	b.WriteString("\n\n")

	if m.Cursor < len(m.Examples) {
		for _, line := range strings.Split(m.Examples[m.Cursor].Text, "\n") {
			b.WriteString(listPreviewStyle.Render(line))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// pickExample runs the example picker and returns the chosen 1-based index,
// or 0 if the user quit.
func pickExample() (int, error) {
	final, err := tea.NewProgram(NewExampleListModel(extract.Examples)).Run()
	if err != nil {
		return 0, fmt.Errorf("example picker: %w", err)
	}
	return final.(ExampleListModel).Selected, nil
}
