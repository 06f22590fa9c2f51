package graph

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/aristath/cgpo-terminal/internal/theme"
)

// Pointer capture radius in cells. Markers are a single cell wide, so the
// capture box is enlarged to keep them clickable; horizontal reach is wider
// because terminal cells are roughly twice as tall as they are wide.
const (
	captureRadiusX = 3
	captureRadiusY = 1
)

// Render paints the network into a width x height cell canvas and returns it
// as styled lines. Nodes whose position is not yet resolved (or non-finite)
// are skipped for the pass. Render also records each painted node's cell so
// ClickAt can hit-test subsequent pointer events against this exact frame.
func (e *Engine) Render(width, height int) string {
	if width < 8 || height < 4 {
		return ""
	}

	runes := make([][]rune, height)
	colors := make([][]lipgloss.Color, height)
	for y := 0; y < height; y++ {
		runes[y] = make([]rune, width)
		colors[y] = make([]lipgloss.Color, width)
		for x := 0; x < width; x++ {
			runes[y][x] = ' '
		}
	}

	e.cells = make(map[string]cell, len(e.nodes))
	project := func(p r2.Vec) (int, int, bool) {
		if !isFinite(p.X) || !isFinite(p.Y) {
			return 0, 0, false
		}
		x := int(math.Round(p.X * float64(width-1)))
		y := int(math.Round(p.Y * float64(height-1)))
		if x < 0 || x >= width || y < 0 || y >= height {
			return 0, 0, false
		}
		return x, y, true
	}

	// Edges first so node glyphs and labels paint over them.
	for _, edge := range e.edges {
		a, okA := e.index[edge.Source]
		b, okB := e.index[edge.Target]
		if !okA || !okB {
			continue
		}
		ax, ay, okA := project(a.pos)
		bx, by, okB := project(b.pos)
		if !okA || !okB {
			continue
		}
		drawLine(runes, colors, ax, ay, bx, by, theme.EdgeColor)
	}

	for _, n := range e.nodes {
		if !n.placed {
			continue
		}
		x, y, ok := project(n.pos)
		if !ok {
			continue
		}
		e.cells[n.ID] = cell{x, y}

		color := e.nodeColor(n.ID, n.Return)
		runes[y][x] = '●'
		colors[y][x] = color

		// Ticker label to the right of the marker, truncated at the border.
		lx := x + 2
		for _, r := range n.ID {
			if lx >= width {
				break
			}
			runes[y][lx] = r
			colors[y][lx] = color
			lx++
		}
	}

	var sb strings.Builder
	for y := 0; y < height; y++ {
		var run strings.Builder
		var runColor lipgloss.Color
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runColor == "" {
				sb.WriteString(run.String())
			} else {
				sb.WriteString(lipgloss.NewStyle().Foreground(runColor).Render(run.String()))
			}
			run.Reset()
		}
		for x := 0; x < width; x++ {
			if x > 0 && colors[y][x] != runColor {
				flush()
			}
			runColor = colors[y][x]
			run.WriteRune(runes[y][x])
		}
		flush()
		if y < height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// nodeColor applies the display contract: selected hue wins, then at-risk,
// then the three-way return classification.
func (e *Engine) nodeColor(id string, ret float64) lipgloss.Color {
	if id == e.selected {
		return theme.NodeSelected
	}
	if _, atRisk := e.risk[id]; atRisk {
		return theme.NodeAtRisk
	}
	switch {
	case ret > PositiveThreshold:
		return theme.NodePositive
	case ret < NegativeThreshold:
		return theme.NodeNegative
	default:
		return theme.NodeNeutral
	}
}

// ClickAt resolves a pointer press in canvas coordinates against the last
// painted frame and applies selection semantics. Clicks on empty canvas are
// ignored; only re-clicking the selected node clears the selection.
func (e *Engine) ClickAt(x, y int) bool {
	id, ok := e.hitTest(x, y)
	if !ok {
		return false
	}
	e.Select(id)
	return true
}

// hitTest finds the nearest node within the enlarged capture box.
func (e *Engine) hitTest(x, y int) (string, bool) {
	bestID := ""
	bestDist := math.MaxFloat64
	for id, c := range e.cells {
		dx := c.x - x
		dy := c.y - y
		if abs(dx) > captureRadiusX || abs(dy) > captureRadiusY {
			continue
		}
		// Halve the horizontal term so distance is judged in visual space.
		d := float64(dx*dx)/4 + float64(dy*dy)
		if d < bestDist {
			bestDist = d
			bestID = id
		}
	}
	return bestID, bestID != ""
}

// drawLine plots a dotted Bresenham segment between two cells, leaving any
// previously painted non-space cells alone.
func drawLine(runes [][]rune, colors [][]lipgloss.Color, x0, y0, x1, y1 int, color lipgloss.Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		if runes[y0][x0] == ' ' {
			runes[y0][x0] = '·'
			colors[y0][x0] = color
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
