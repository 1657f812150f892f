package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmaspons/shapviz/pkg/store"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ExplanationListModel - Interactive explanation selection
// =============================================================================

// ExplanationListModel is the bubbletea model for picking a stored
// explanation. Selected holds the chosen entry after the program exits,
// or nil when the user quit without choosing.
type ExplanationListModel struct {
	Entries  []store.Info
	Cursor   int
	Selected *store.Info
	Height   int
	Offset   int
}

// NewExplanationListModel creates a new explanation list model.
func NewExplanationListModel(entries []store.Info) ExplanationListModel {
	return ExplanationListModel{
		Entries: entries,
		Height:  15,
	}
}

func (m ExplanationListModel) Init() tea.Cmd {
	return nil
}

func (m ExplanationListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if len(m.Entries) > 0 {
				entry := m.Entries[m.Cursor]
				m.Selected = &entry
				return m, tea.Quit
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m ExplanationListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Explanation"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	if len(m.Entries) == 0 {
		b.WriteString(listDimStyle.Render("  (store is empty)"))
		b.WriteString("\n")
		return b.String()
	}

	end := m.Offset + m.Height
	if end > len(m.Entries) {
		end = len(m.Entries)
	}

	for i := m.Offset; i < end; i++ {
		e := m.Entries[i]

		cursor := "  "
		style := listNormalStyle
		if i == m.Cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}

		name := e.Name
		if name == "" {
			name = e.ID
		}
		dims := fmt.Sprintf("%d × %d", e.Rows, e.Columns)
		when := e.CreatedAt.Format("2006-01-02 15:04")

		b.WriteString(cursor)
		b.WriteString(style.Render(name))
		b.WriteString("  ")
		b.WriteString(listDimStyle.Render(dims + "  " + when))
		b.WriteString("\n")
	}

	if len(m.Entries) > m.Height {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d/%d", m.Cursor+1, len(m.Entries))))
		b.WriteString("\n")
	}

	return b.String()
}

// pickExplanation runs the interactive picker over the store's entries.
// It returns nil when the user quits without selecting.
func pickExplanation(entries []store.Info) (*store.Info, error) {
	p := tea.NewProgram(NewExplanationListModel(entries))
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	m, ok := final.(ExplanationListModel)
	if !ok {
		return nil, nil
	}
	return m.Selected, nil
}
