package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/badgeboard/pkg/fields"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorFaint)
	headerStyle  = lipgloss.NewStyle().Foreground(colorMuted).Bold(true)
)

// =============================================================================
// FieldPickerModel - Interactive field selection
// =============================================================================

// FieldPickerModel is the bubbletea model for choosing a field to bind.
type FieldPickerModel struct {
	Fields   []fields.Field
	Cursor   int
	Selected *fields.Field
}

// NewFieldPickerModel creates a picker over the field catalogue.
func NewFieldPickerModel(fs []fields.Field) FieldPickerModel {
	return FieldPickerModel{Fields: fs}
}

func (m FieldPickerModel) Init() tea.Cmd {
	return nil
}

func (m FieldPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Fields)-1 {
			m.Cursor++
		}
	case "enter":
		if len(m.Fields) == 0 {
			return m, tea.Quit
		}
		f := m.Fields[m.Cursor]
		m.Selected = &f
		return m, tea.Quit
	}
	return m, nil
}

func (m FieldPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Field"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ copy token  q quit"))
	b.WriteString("\n\n")

	rows := make([][]string, len(m.Fields))
	for i, f := range m.Fields {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows[i] = fieldRow(cursor, f)
	}

	t := fieldTable(rows).StyleFunc(func(row, col int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return headerStyle
		case row == m.Cursor:
			return lipgloss.NewStyle().Foreground(colorOK).Bold(true)
		case col == 3:
			return lipgloss.NewStyle().Foreground(colorFaint)
		}
		return lipgloss.NewStyle()
	})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Fields))))
	return b.String()
}

// renderFieldTable is the non-interactive listing.
func renderFieldTable(fs []fields.Field) string {
	rows := make([][]string, len(fs))
	for i, f := range fs {
		rows[i] = fieldRow("", f)[1:]
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("Token", "Label", "Binds as").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 0 {
				return StyleHighlight
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

func fieldTable(rows [][]string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("", "Token", "Label", "Binds as").
		Rows(rows...)
}

func fieldRow(cursor string, f fields.Field) []string {
	binds := "text"
	if f.Scannable {
		binds = "qr"
	}
	return []string{cursor, f.Token, f.Label, binds}
}
