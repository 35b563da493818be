package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/printforge/gangsheet/pkg/errors"
	"github.com/printforge/gangsheet/pkg/sheet"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// presetListModel is the bubbletea model for interactive sheet preset
// selection.
type presetListModel struct {
	presets  []sheet.Sheet
	cursor   int
	selected *sheet.Sheet
}

func newPresetListModel(presets []sheet.Sheet) presetListModel {
	return presetListModel{presets: presets}
}

func (m presetListModel) Init() tea.Cmd {
	return nil
}

func (m presetListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.presets)-1 {
				m.cursor++
			}
		case "enter":
			m.selected = &m.presets[m.cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m presetListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Sheet Preset"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	rows := [][]string{}
	for i, p := range m.presets {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		size := fmt.Sprintf("%g × %g %s", p.Width, p.Height, p.Unit)
		rows = append(rows, []string{
			cursor,
			p.Name,
			size,
			fmt.Sprintf("$%.2f", p.Price),
			fmt.Sprintf("%d", p.MaxItems),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Preset", "Size", "Price", "Max images").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row == m.cursor {
				return listSelectedStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.presets))))

	return b.String()
}

// pickPreset runs the interactive preset picker and returns the selection.
func pickPreset(presets []sheet.Sheet) (sheet.Sheet, error) {
	final, err := tea.NewProgram(newPresetListModel(presets)).Run()
	if err != nil {
		return sheet.Sheet{}, err
	}
	m, ok := final.(presetListModel)
	if !ok || m.selected == nil {
		return sheet.Sheet{}, errors.New(errors.ErrCodeInvalidInput, "no preset selected")
	}
	return *m.selected, nil
}
