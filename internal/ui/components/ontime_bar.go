package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dgs-kpis/fmd-dashboard/internal/logger"
	"github.com/dgs-kpis/fmd-dashboard/internal/ui/styles"
)

// OnTimeBar renders an on-time completion bar with label and percentage.
type OnTimeBar struct {
	progress progress.Model
	label    string
	percent  float64
}

// NewOnTimeBar creates a new on-time bar with gradient colors.
func NewOnTimeBar() OnTimeBar {
	return NewOnTimeBarWithWidth(30)
}

// NewOnTimeBarWithWidth creates an on-time bar with a specific width.
func NewOnTimeBarWithWidth(width int) OnTimeBar {
	p := progress.New(
		progress.WithScaledGradient("#ff6b6b", "#51cf66"),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)

	return OnTimeBar{
		progress: p,
	}
}

// Init initializes the progress bar model.
func (b OnTimeBar) Init() tea.Cmd {
	return nil
}

// Update handles progress bar animation messages.
func (b OnTimeBar) Update(msg tea.Msg) (OnTimeBar, tea.Cmd) {
	model, cmd := b.progress.Update(msg)
	b.progress = model.(progress.Model)
	return b, cmd
}

// SetPercent sets the current percentage.
func (b *OnTimeBar) SetPercent(percent float64) tea.Cmd {
	b.percent = percent
	return b.progress.SetPercent(percent / 100)
}

// SetLabel sets the bar label.
func (b *OnTimeBar) SetLabel(label string) {
	b.label = label
}

// SetWidth sets the progress bar width.
func (b *OnTimeBar) SetWidth(width int) {
	b.progress.Width = width
}

// View renders the bar with percentage and label.
func (b OnTimeBar) View(percent float64, label string, width int) string {
	// Reserve space for label and percentage
	barWidth := width - 30
	if barWidth < 10 {
		barWidth = 10
	}
	b.progress.Width = barWidth

	bar := b.progress.ViewAs(percent / 100)

	percentStyle := styles.GetOnTimeStyle(percent)
	percentStr := percentStyle.Width(6).Align(lipgloss.Right).Render(fmt.Sprintf("%.0f%%", percent))

	labelStr := styles.ProgressLabelStyle.Render(label)

	return lipgloss.JoinHorizontal(
		lipgloss.Center,
		labelStr,
		bar,
		" ",
		percentStr,
	)
}

// ViewCompact renders a compact version without label.
func (b OnTimeBar) ViewCompact(percent float64, width int) string {
	barWidth := width - 8
	if barWidth < 5 {
		barWidth = 5
	}
	b.progress.Width = barWidth

	bar := b.progress.ViewAs(percent / 100)
	percentStyle := styles.GetOnTimeStyle(percent)
	percentStr := percentStyle.Render(fmt.Sprintf("%.0f%%", percent))

	return lipgloss.JoinHorizontal(lipgloss.Center, bar, " ", percentStr)
}

// RenderGradientBar renders just the bar part with gradient colors.
func RenderGradientBar(percent float64, width int) string {
	if width < 1 {
		return ""
	}

	filled := int(float64(width) * percent / 100)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	var barChars []string
	for i := 0; i < width; i++ {
		if i < filled {
			t := float64(i) / float64(max(1, width-1))
			color := interpolateColor("#ff6b6b", "#51cf66", t)
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
			barChars = append(barChars, style.Render("█"))
		} else {
			style := lipgloss.NewStyle().Foreground(styles.Subtle)
			barChars = append(barChars, style.Render("░"))
		}
	}

	return strings.Join(barChars, "")
}

// SimpleOnTimeBar renders a simple ASCII progress bar with gradient colors.
func SimpleOnTimeBar(percent float64, label string, width int) string {
	labelWidth := len(label) + 1
	percentWidth := 6
	barWidth := width - labelWidth - percentWidth - 4

	if barWidth < 5 {
		barWidth = 5
	}

	bar := RenderGradientBar(percent, barWidth)

	labelStr := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Render(label)

	percentStr := styles.GetOnTimeStyle(percent).
		Width(percentWidth).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%.0f%%", percent))

	return fmt.Sprintf("%s [%s] %s", labelStr, bar, percentStr)
}

func interpolateColor(fromHex, toHex string, t float64) string {
	from := hexToRGB(fromHex)
	to := hexToRGB(toHex)

	r := int(float64(from[0]) + t*(float64(to[0])-float64(from[0])))
	g := int(float64(from[1]) + t*(float64(to[1])-float64(from[1])))
	b := int(float64(from[2]) + t*(float64(to[2])-float64(from[2])))

	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func hexToRGB(hex string) [3]int {
	hex = strings.TrimPrefix(hex, "#")
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		logger.Error("failed to parse hex color", "hex", hex, "error", err)
		return [3]int{0, 0, 0}
	}
	return [3]int{r, g, b}
}
