package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/cgpo-terminal/internal/theme"
)

// Eighth-block runes give sub-cell vertical resolution.
var fillRunes = [9]rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// renderAreaChart plots a cumulative performance curve as a filled block
// chart. Columns above the curve's starting value render green, columns
// below render red. Output is always exactly height rows so the panel
// layout stays stable as data changes.
func renderAreaChart(series []float64, width, height int) string {
	if len(series) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	cols := resample(series, width)
	baseline := cols[0]

	lo, hi := cols[0], cols[0]
	for _, v := range cols {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	// Column heights in eighth-cells, floor of one so flat stretches stay
	// visible.
	levels := make([]int, len(cols))
	maxLevel := height * 8
	for i, v := range cols {
		l := int((v-lo)/span*float64(maxLevel-1)) + 1
		if l > maxLevel {
			l = maxLevel
		}
		levels[i] = l
	}

	up := lipgloss.NewStyle().Foreground(theme.Default.Success)
	down := lipgloss.NewStyle().Foreground(theme.Default.Danger)

	rows := make([]string, height)
	for row := 0; row < height; row++ {
		floor := (height - 1 - row) * 8
		var sb strings.Builder
		for i, l := range levels {
			fill := l - floor
			switch {
			case fill <= 0:
				sb.WriteRune(' ')
			default:
				if fill > 8 {
					fill = 8
				}
				st := up
				if cols[i] < baseline {
					st = down
				}
				sb.WriteString(st.Render(string(fillRunes[fill])))
			}
		}
		rows[row] = sb.String()
	}
	return strings.Join(rows, "\n")
}

// resample averages the series into n buckets so it fits the panel width.
func resample(series []float64, n int) []float64 {
	if len(series) <= n {
		out := make([]float64, len(series))
		copy(out, series)
		return out
	}
	out := make([]float64, n)
	step := float64(len(series)) / float64(n)
	for i := range out {
		from := int(float64(i) * step)
		to := int(float64(i+1) * step)
		if to > len(series) {
			to = len(series)
		}
		var sum float64
		for _, v := range series[from:to] {
			sum += v
		}
		out[i] = sum / float64(to-from)
	}
	return out
}
