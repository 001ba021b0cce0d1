package trends

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dgs-kpis/fmd-dashboard/internal/ui/components"
	"github.com/dgs-kpis/fmd-dashboard/internal/ui/styles"
)

// View renders the trends tab.
func (m *Model) View() string {
	var sections []string

	sections = append(sections,
		m.renderTitle(),
		m.renderVolumeChart(),
		m.renderFetchHistory(),
	)

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Trends")
	subtitle := styles.HelpStyle.Render("Request volume per fiscal year and fetch history")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderVolumeChart() string {
	cardWidth := max(m.width-6, 40)

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Requests per Fiscal Year")), "")

	summary := m.state.GetSummary()
	if summary == nil || len(summary.Volumes) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No volume data available"))
	} else {
		volumes := summary.Volumes
		data := make([]float64, len(volumes))
		labels := make([]string, len(volumes))
		for i, v := range volumes {
			data[i] = float64(v.Count)
			labels[i] = fmt.Sprintf("FY%d", v.FiscalYear)
		}

		chartWidth := max(cardWidth-12, 30)
		chartHeight := 8

		caption := fmt.Sprintf("FY%d → FY%d", volumes[0].FiscalYear, volumes[len(volumes)-1].FiscalYear)
		chart := components.RenderLineChart(data, chartWidth, chartHeight, caption)

		for _, line := range strings.Split(chart, "\n") {
			rows = append(rows, "  "+line)
		}

		rows = append(rows, "")
		barChart := components.RenderBarChart(data, labels, chartWidth)
		for _, line := range strings.Split(barChart, "\n") {
			rows = append(rows, "  "+line)
		}

		// Peak year
		peakIdx := 0
		for i, v := range volumes {
			if v.Count > volumes[peakIdx].Count {
				peakIdx = i
			}
		}
		rows = append(rows,
			"",
			fmt.Sprintf("  Peak: %s (%d requests)",
				lipgloss.NewStyle().Bold(true).Foreground(styles.Primary).Render(labels[peakIdx]),
				volumes[peakIdx].Count,
			),
		)
	}

	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderFetchHistory() string {
	cardWidth := max(m.width-6, 40)

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Fetch History")), "")

	history := m.state.GetHistory()
	if len(history) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No fetches recorded yet"))
	} else {
		header := lipgloss.NewStyle().Foreground(styles.TextMuted).Render(
			fmt.Sprintf("  %-20s %8s %8s", "Fetched", "Rows", "Open"))
		rows = append(rows, header)

		shown := history
		if len(shown) > 15 {
			shown = shown[:15]
		}
		for _, snap := range shown {
			openStr := fmt.Sprintf("%8d", snap.OpenCount)
			if snap.OpenCount > 0 {
				openStr = styles.OpenOrderStyle.Render(openStr)
			}
			rows = append(rows, fmt.Sprintf("  %-20s %8d %s",
				snap.FetchedAt.Format("Jan 2 15:04:05"),
				snap.RowCount,
				openStr,
			))
		}

		if len(history) > len(shown) {
			rows = append(rows, styles.HelpStyle.Render(
				fmt.Sprintf("  … %d older fetches", len(history)-len(shown))))
		}
	}

	rows = append(rows, "")
	rows = append(rows, styles.HelpStyle.Render("  Press R to reload history"))

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
