package buildings

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/dgs-kpis/fmd-dashboard/internal/ui/styles"
)

// View renders the buildings tab.
func (m *Model) View() string {
	var sections []string

	sections = append(sections, m.renderTitle())

	if len(m.state.GetLocated()) == 0 {
		sections = append(sections, m.renderEmptyState())
	} else {
		m.updateTableData()
		sections = append(sections, m.renderTable())
	}

	sections = append(sections, m.renderFooter())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

// renderTitle renders the buildings tab title.
func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Buildings")

	located := m.state.GetLocated()
	subtitle := styles.HelpStyle.Render(fmt.Sprintf("%d work orders with coordinates", len(located)))

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

// renderTable renders the located orders table.
func (m *Model) renderTable() string {
	cardWidth := m.width - 6
	if cardWidth < 60 {
		cardWidth = 60
	}

	return styles.CardStyle.Width(cardWidth).Render(m.table.View())
}

// renderEmptyState renders the empty state when no joined orders exist.
func (m *Model) renderEmptyState() string {
	cardWidth := m.width - 6
	if cardWidth < 40 {
		cardWidth = 40
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		styles.SubTitleStyle.Render("No Located Work Orders"),
		"",
		styles.HelpStyle.Render("Orders appear here once their building IDs match"),
		styles.HelpStyle.Render("a row in the building reference workbook."),
		"",
	)

	return styles.CardStyle.Width(cardWidth).Render(content)
}

// renderFooter renders the footer with keyboard shortcuts.
func (m *Model) renderFooter() string {
	shortcuts := []string{
		styles.HelpKeyStyle.Render("j/k") + " move",
		styles.HelpKeyStyle.Render("Enter") + " select",
	}

	footer := ""
	for i, s := range shortcuts {
		if i > 0 {
			footer += styles.HelpStyle.Render(" | ")
		}
		footer += s
	}

	return lipgloss.NewStyle().
		MarginTop(1).
		Foreground(styles.TextMuted).
		Render(footer)
}
