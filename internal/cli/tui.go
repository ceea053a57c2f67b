package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/menupress/menupress/pkg/template"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// TemplateListModel - Interactive template selection
// =============================================================================

// TemplateEntry pairs a template file with its parsed contents. Template is
// nil when the file failed to parse; Err carries the reason.
type TemplateEntry struct {
	Path     string
	Template *template.Template
	Err      error
}

// TemplateSelection holds the result of the template selection.
type TemplateSelection struct {
	Entry *TemplateEntry
}

// TemplateListModel is the bubbletea model for interactive template selection.
type TemplateListModel struct {
	Entries  []TemplateEntry
	Cursor   int
	Selected *TemplateSelection
	Height   int
	Offset   int
}

// NewTemplateListModel creates a new template list model.
func NewTemplateListModel(entries []TemplateEntry) TemplateListModel {
	return TemplateListModel{
		Entries: entries,
		Cursor:  0,
		Height:  15,
		Offset:  0,
	}
}

func (m TemplateListModel) Init() tea.Cmd {
	return nil
}

func (m TemplateListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Entries)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			entry := m.Entries[m.Cursor]
			if entry.Template == nil {
				return m, nil
			}
			m.Selected = &TemplateSelection{Entry: &entry}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m TemplateListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Template"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Entries) {
		end = len(m.Entries)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		e := m.Entries[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		id, version, page, cols := "—", "—", "—", "—"
		if e.Template != nil {
			id = e.Template.ID
			version = e.Template.Version
			page = string(e.Template.Page.Size)
			cols = fmt.Sprintf("%d", e.Template.Body.Container.Cols)
		}

		rows = append(rows, []string{cursor, e.Path, id, version, page, cols})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "File", "Template", "Version", "Page", "Cols").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(m.Entries) {
				return lipgloss.NewStyle()
			}
			e := m.Entries[actualIdx]
			valid := e.Template != nil
			isCurrent := actualIdx == m.Cursor

			base := lipgloss.NewStyle()
			if col >= 3 {
				if isCurrent {
					base = base.Foreground(colorGray)
				} else {
					base = base.Foreground(colorDim)
				}
			}

			if isCurrent {
				if valid {
					if col < 3 {
						return base.Foreground(colorGreen).Bold(true)
					}
					return base.Bold(true)
				}
				return base.Foreground(colorDim).Bold(true)
			} else if valid {
				if col < 3 {
					return base.Foreground(colorGreen)
				}
				return base
			}
			return base.Foreground(colorDim)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Entries))))

	return b.String()
}
