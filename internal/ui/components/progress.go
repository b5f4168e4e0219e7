package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/prepdeck/prepdeck/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label   string
	Percent int // 0-100
	Caption string
	Width   int
}

// NewProgressBar creates a new progress bar. Percent is clamped to 0-100.
func NewProgressBar(label string, percent int, caption string, width int) ProgressBar {
	return ProgressBar{
		Label:   label,
		Percent: min(max(percent, 0), 100),
		Caption: caption,
		Width:   width,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var b strings.Builder

	if p.Label != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  ")
	}

	caption := p.Caption
	if caption == "" {
		caption = fmt.Sprintf("%d%%", p.Percent)
	}
	caption = "  " + caption

	barWidth := max(p.Width-lipgloss.Width(b.String())-lipgloss.Width(caption), 4)
	filled := barWidth * p.Percent / 100

	b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Render(strings.Repeat("█", filled)))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", barWidth-filled)))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(caption))

	return b.String()
}
