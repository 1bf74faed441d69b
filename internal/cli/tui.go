package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// RankEntry
// =============================================================================

// RankEntry is one ranked package as shown by the rank command.
type RankEntry struct {
	Rank  int
	Name  string
	Last  float64
	Color string // "#rrggbb" legend color
	Days  int    // days with data
}

// =============================================================================
// RankListModel - Interactive rank browser
// =============================================================================

// RankListModel is the bubbletea model for browsing the ranked packages.
type RankListModel struct {
	Entries []RankEntry
	Percent bool
	Total   int // loaded days
	Cursor  int
	Height  int
	Offset  int
}

// NewRankListModel creates a new rank list model.
func NewRankListModel(entries []RankEntry, percent bool, total int) RankListModel {
	return RankListModel{
		Entries: entries,
		Percent: percent,
		Total:   total,
		Height:  15,
	}
}

func (m RankListModel) Init() tea.Cmd {
	return nil
}

func (m RankListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc", "enter":
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
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			if n := len(m.Entries); n > 0 {
				m.Cursor = n - 1
				m.Offset = max(0, n-m.Height)
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(5, msg.Height-8)
	}
	return m, nil
}

func (m RankListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Package Ranking"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Entries))
	b.WriteString(rankTable(m.Entries[m.Offset:end], m.Percent, m.Offset, m.Cursor))
	b.WriteString("\n\n")

	if len(m.Entries) > 0 {
		e := m.Entries[m.Cursor]
		b.WriteString(listSelectedStyle.Render("  " + e.Name))
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  data on %d of %d days", e.Days, m.Total)))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Entries))))

	return b.String()
}

// =============================================================================
// Table
// =============================================================================

// rankTable renders entries as a table. offset is the index of the first
// entry and cursor the highlighted index, or -1 for none.
func rankTable(entries []RankEntry, percent bool, offset, cursor int) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			fmt.Sprintf("%d", e.Rank+1),
			"██",
			e.Name,
			formatValue(e.Last, percent),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "", "Package", "Latest").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < 0 || row >= len(entries) {
				return lipgloss.NewStyle()
			}
			e := entries[row]
			base := lipgloss.NewStyle().Padding(0, 1)
			switch col {
			case 0:
				base = base.Align(lipgloss.Right).Foreground(colorGray)
			case 1:
				return base.Foreground(lipgloss.Color(e.Color))
			case 3:
				base = base.Align(lipgloss.Right).Foreground(colorCyan)
			}
			if offset+row == cursor {
				return base.Bold(true).Foreground(colorGreen)
			}
			return base
		})

	return t.Render()
}

// formatValue formats a latest value for display.
func formatValue(v float64, percent bool) string {
	if percent {
		return fmt.Sprintf("%.2f%%", v)
	}
	return fmt.Sprintf("%.0f", v)
}
