// ABOUTME: Restoration progress bar colored by how much power is back
// ABOUTME: Low restoration renders red, partial amber, near-complete green

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/grid-restore/internal/tui/icons"
)

// ProgressBarConfig holds configuration for the progress bar
type ProgressBarConfig struct {
	Width      int
	CritBelow  float64 // Percentage under which the bar is critical (default 50)
	WarnBelow  float64 // Percentage under which the bar is a warning (default 90)
	OKColor    lipgloss.Color
	WarnColor  lipgloss.Color
	CritColor  lipgloss.Color
	EmptyColor lipgloss.Color
}

// DefaultProgressBarConfig returns sensible defaults
func DefaultProgressBarConfig() ProgressBarConfig {
	return ProgressBarConfig{
		Width:      30,
		CritBelow:  50,
		WarnBelow:  90,
		OKColor:    lipgloss.Color("#10B981"), // Green
		WarnColor:  lipgloss.Color("#F59E0B"), // Amber
		CritColor:  lipgloss.Color("#EF4444"), // Red
		EmptyColor: lipgloss.Color("#374151"), // Dark gray
	}
}

func (c ProgressBarConfig) colorFor(percent float64) lipgloss.Color {
	switch {
	case percent < c.CritBelow:
		return c.CritColor
	case percent < c.WarnBelow:
		return c.WarnColor
	default:
		return c.OKColor
	}
}

// filledCells returns how many of width cells a percentage fills
func filledCells(percent float64, width int) int {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(percent / 100.0 * float64(width))
	if filled > width {
		filled = width
	}
	return filled
}

// ProgressBar renders the bar in a single color chosen by the percentage
func ProgressBar(percent float64, config ProgressBarConfig) string {
	if config.Width <= 0 {
		config.Width = 30
	}
	filled := filledCells(percent, config.Width)

	var bar strings.Builder
	bar.WriteString("[")
	bar.WriteString(lipgloss.NewStyle().Foreground(config.colorFor(percent)).Render(strings.Repeat("█", filled)))
	bar.WriteString(lipgloss.NewStyle().Foreground(config.EmptyColor).Render(strings.Repeat("░", config.Width-filled)))
	bar.WriteString("]")
	return bar.String()
}

// ProgressBarWithLabel renders the bar followed by the percentage and a status icon
func ProgressBarWithLabel(percent float64, config ProgressBarConfig) string {
	bar := ProgressBar(percent, config)

	var statusIcon string
	switch {
	case percent < config.CritBelow:
		statusIcon = icons.Critical.String()
	case percent < config.WarnBelow:
		statusIcon = icons.Warning.String()
	default:
		statusIcon = icons.CheckOK.String()
	}

	style := lipgloss.NewStyle().Foreground(config.colorFor(percent))
	return fmt.Sprintf("%s %s %s", bar, style.Render(fmt.Sprintf("%5.1f%%", percent)), style.Render(statusIcon))
}
