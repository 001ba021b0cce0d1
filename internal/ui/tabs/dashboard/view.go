package dashboard

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/dgs-kpis/fmd-dashboard/internal/ui/components"
	"github.com/dgs-kpis/fmd-dashboard/internal/ui/styles"
)

// View renders the dashboard component.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return m.renderLoading()
	}

	var sections []string

	sections = append(sections, m.renderTitle())
	sections = append(sections, m.renderStatsCard())
	sections = append(sections, m.renderCategoryList())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

// renderLoading renders the loading state.
func (m *Model) renderLoading() string {
	return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
}

// renderTitle renders the dashboard title.
func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("FMD Work Orders")
	subtitle := styles.HelpStyle.Render("On-time completion by problem type")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

// renderStatsCard renders the headline counts.
func (m *Model) renderStatsCard() string {
	cardWidth := max(m.width-6, 40)

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Overview")), "")

	stats := m.state.GetStats()
	if stats == nil {
		rows = append(rows, styles.HelpStyle.Render("  No data fetched yet"))
	} else {
		open := styles.OpenOrderStyle.Render(fmt.Sprintf("%d", stats.OpenOrders))
		rows = append(rows, fmt.Sprintf("  Total orders   %d", stats.TotalOrders))
		rows = append(rows, fmt.Sprintf("  Open orders    %s", open))
		rows = append(rows, fmt.Sprintf("  Buildings      %d", stats.Buildings))
		rows = append(rows, fmt.Sprintf("  Categories     %d", stats.Categories))
	}

	if updated := m.state.GetLastUpdated(); !updated.IsZero() {
		rows = append(rows, "")
		rows = append(rows, styles.HelpStyle.Render(
			"  Updated "+updated.Format("Jan 2 15:04:05")))
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderCategoryList renders the per-category on-time bars.
func (m *Model) renderCategoryList() string {
	summary := m.state.GetSummary()

	cardWidth := max(m.width-6, 40)

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("On-Time by Category")))

	if summary == nil || len(summary.Categories) == 0 {
		rows = append(rows, "")
		emptyIcon := lipgloss.NewStyle().Foreground(styles.Subtle).Render("○")
		rows = append(rows, fmt.Sprintf("  %s %s", emptyIcon, styles.HelpStyle.Render("No completed work orders yet")))
		rows = append(rows, "")
		rows = append(rows, styles.InfoTextStyle.Render("  ╰─▶ Press r to fetch the latest export"))

		return styles.CardStyle.Width(cardWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left, rows...),
		)
	}

	rows = append(rows, "")

	contentWidth := max(cardWidth-8, 30)

	for i, cat := range summary.Categories {
		rows = append(rows, m.renderCategoryRow(cat.ProbType, cat.Count, cat.MeanDays, cat.PercentOnTime,
			i == m.selectedIndex, contentWidth)...)
		if i < len(summary.Categories)-1 {
			rows = append(rows, "")
		}
	}

	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderCategoryRow(probType string, count int, meanDays int64, percent float64, selected bool, width int) []string {
	var lines []string

	selectionPrefix := "  "
	if selected {
		selectionPrefix = lipgloss.NewStyle().Foreground(styles.Primary).Render("▸ ")
	}

	label := probType
	if len(label) > 24 {
		label = label[:21] + "..."
	}

	meta := styles.HelpStyle.Render(fmt.Sprintf("%d completed · mean %d days", count, meanDays))
	lines = append(lines, fmt.Sprintf("%s%s  %s",
		selectionPrefix,
		lipgloss.NewStyle().Bold(true).Render(label),
		meta,
	))

	bar := components.SimpleOnTimeBar(percent, "", width)
	lines = append(lines, "  "+bar)

	return lines
}
