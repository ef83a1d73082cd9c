// ABOUTME: Sparkline widget renders restoration curves using block characters
// ABOUTME: Values are scaled against a fixed range so curves from different runs compare

package widgets

import (
	"github.com/charmbracelet/lipgloss"
)

// SparklineBlocks are the Unicode block characters for different heights
var SparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders values scaled between lo and hi.
// values: series to display in time order
// width: number of characters; long series are sampled and short ones stretched
// color: optional color for the sparkline
func Sparkline(values []float64, width int, lo, hi float64, color lipgloss.Color) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	sampled := resample(values, width)

	result := make([]rune, len(sampled))
	for i, v := range sampled {
		result[i] = valueToBlock(v, lo, hi)
	}

	style := lipgloss.NewStyle()
	if color != "" {
		style = style.Foreground(color)
	}

	return style.Render(string(result))
}

// resample maps every output column to the nearest input index
func resample(values []float64, width int) []float64 {
	if len(values) == width {
		return values
	}

	result := make([]float64, width)
	if width == 1 {
		result[0] = values[len(values)-1]
		return result
	}

	last := len(values) - 1
	for i := 0; i < width; i++ {
		idx := int(float64(i)*float64(last)/float64(width-1) + 0.5)
		if idx > last {
			idx = last
		}
		result[i] = values[idx]
	}
	return result
}

// valueToBlock converts a value to a block character based on its position in [lo,hi]
func valueToBlock(value, lo, hi float64) rune {
	if hi <= lo {
		return SparklineBlocks[len(SparklineBlocks)/2]
	}

	normalized := (value - lo) / (hi - lo)

	idx := int(normalized * float64(len(SparklineBlocks)-1))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(SparklineBlocks) {
		idx = len(SparklineBlocks) - 1
	}

	return SparklineBlocks[idx]
}
