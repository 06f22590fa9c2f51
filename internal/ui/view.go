package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/cgpo-terminal/internal/theme"
)

var (
	heroStyle = lipgloss.NewStyle().Foreground(theme.Default.Primary).Bold(true)

	clockStyle  = lipgloss.NewStyle().Foreground(theme.Default.Dim)
	bannerStyle = lipgloss.NewStyle().Foreground(theme.Default.Danger).Bold(true)
	noticeStyle = lipgloss.NewStyle().Foreground(theme.Default.Secondary)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Default.Border)

	titleStyle = lipgloss.NewStyle().Foreground(theme.Default.Secondary).Bold(true)

	dimStyle     = lipgloss.NewStyle().Foreground(theme.Default.Dim)
	textStyle    = lipgloss.NewStyle().Foreground(theme.Default.Text)
	posStyle     = lipgloss.NewStyle().Foreground(theme.Default.Success)
	negStyle     = lipgloss.NewStyle().Foreground(theme.Default.Danger)
	neutralStyle = lipgloss.NewStyle().Foreground(theme.Default.Neutral)
	accentStyle  = lipgloss.NewStyle().Foreground(theme.Default.Primary)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(theme.Default.Dim).
			Background(theme.Default.Card)
)

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.inTickerModal {
		return m.viewTickerModal()
	}
	if m.confirmTraining {
		return m.viewTrainingConfirm()
	}

	l := m.panelLayout()

	var b strings.Builder
	b.WriteString(m.viewHeader(l))
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.viewSignals(l),
		m.viewGraph(l),
		m.viewLogs(l),
	))
	b.WriteString("\n")
	b.WriteString(m.viewInfoRow(l))
	b.WriteString("\n")
	b.WriteString(m.viewStatusBar(l))
	return b.String()
}

func (m Model) viewHeader(l panelLayout) string {
	hero := heroStyle.Render(m.hero)
	clock := clockStyle.Render(time.Now().Format("2006-01-02 15:04:05"))
	gap := m.width - lipgloss.Width(m.hero) - lipgloss.Width(clock) - 2
	if gap < 1 {
		gap = 1
	}
	heroLines := strings.Split(hero, "\n")
	if len(heroLines) > 0 {
		heroLines[0] = heroLines[0] + strings.Repeat(" ", gap) + clock
	}

	banner := " "
	if m.orch.Banner() != "" {
		banner = bannerStyle.Render("▲ " + m.orch.Banner())
	}
	notice := " "
	if m.notice != "" {
		notice = noticeStyle.Render("» " + m.notice)
	}
	return strings.Join(heroLines, "\n") + "\n" + banner + "\n" + notice
}

func (m Model) viewSignals(l panelLayout) string {
	innerW := l.feedW - 2
	rows := l.mainH - 3
	lines := make([]string, 0, rows)
	for _, s := range m.signals {
		if len(lines) >= rows {
			break
		}
		var sent lipgloss.Style
		switch s.Sent {
		case "POS":
			sent = posStyle
		case "NEG":
			sent = negStyle
		default:
			sent = neutralStyle
		}
		line := sent.Render("▪") + " " + dimStyle.Render(s.Src) + " " + textStyle.Render(truncate(s.Text(), innerW-len(s.Src)-3))
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		lines = append(lines, dimStyle.Render("no signals"))
	}
	body := titleStyle.Render("INTEL FEED") + "\n" + strings.Join(lines, "\n")
	return panelStyle.Width(innerW).Height(l.mainH - 2).Render(body)
}

func (m Model) viewGraph(l panelLayout) string {
	title := titleStyle.Render("CONTAGION RISK MAP")
	if sel := m.engine.SelectedID(); sel != "" {
		risk := make([]string, 0, len(m.engine.RiskSet()))
		for id := range m.engine.RiskSet() {
			risk = append(risk, id)
		}
		sort.Strings(risk)
		title += dimStyle.Render("  exposure: ") + accentStyle.Render(sel)
		if len(risk) > 0 {
			title += dimStyle.Render(" → " + strings.Join(risk, " "))
		}
	}
	canvas := m.engine.Render(l.graphInnerW, l.graphInnerH)
	body := title + "\n" + canvas
	return panelStyle.Width(l.graphW - 2).Height(l.mainH - 2).Render(body)
}

func (m Model) viewLogs(l panelLayout) string {
	innerW := l.logsW - 2
	rows := l.mainH - 3
	lines := make([]string, 0, rows)
	for _, e := range m.logEntries {
		if len(lines) >= rows {
			break
		}
		var lv lipgloss.Style
		switch e.Type {
		case "ERROR":
			lv = negStyle
		case "WARN":
			lv = accentStyle
		case "SUCCESS":
			lv = posStyle
		default:
			lv = dimStyle
		}
		line := lv.Render(fmt.Sprintf("%-7s", e.Type)) + textStyle.Render(truncate(e.Message, innerW-8))
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		lines = append(lines, dimStyle.Render("no agent activity"))
	}
	body := titleStyle.Render("AGENT STREAM") + "\n" + strings.Join(lines, "\n")
	return panelStyle.Width(innerW).Height(l.mainH - 2).Render(body)
}

func (m Model) viewInfoRow(l panelLayout) string {
	third := m.width / 3
	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.viewWeights(third, l.infoH),
		m.viewMetrics(third, l.infoH),
		m.viewBenchmark(m.width-2*third, l.infoH),
	)
}

func (m Model) viewWeights(w, h int) string {
	innerW := w - 2
	var lines []string
	if m.inference != nil {
		type wt struct {
			sym string
			val float64
		}
		weights := make([]wt, 0, len(m.inference.Weights))
		for sym, v := range m.inference.Weights {
			weights = append(weights, wt{sym, v})
		}
		sort.Slice(weights, func(i, j int) bool { return weights[i].val > weights[j].val })
		for _, w := range weights {
			if len(lines) >= h-3 {
				break
			}
			barW := int(w.val * float64(innerW-14))
			if barW < 0 {
				barW = 0
			}
			bar := accentStyle.Render(strings.Repeat("█", barW))
			lines = append(lines, fmt.Sprintf("%-6s %5.1f%% %s", w.sym, w.val*100, bar))
		}
	}
	if len(lines) == 0 {
		lines = append(lines, dimStyle.Render("awaiting inference"))
	}
	title := titleStyle.Render("ALLOCATION")
	if m.stale {
		title += dimStyle.Render("  (cached)")
	}
	body := title + "\n" + strings.Join(lines, "\n")
	return panelStyle.Width(innerW).Height(h - 2).Render(body)
}

func (m Model) viewMetrics(w, h int) string {
	innerW := w - 2
	var lines []string
	if m.inference != nil {
		mt := m.inference.Metrics
		lines = append(lines,
			metricLine("EXPECTED RETURN", fmt.Sprintf("%+.2f%%", mt.ExpectedReturn*100), signed(mt.ExpectedReturn)),
			metricLine("VOLATILITY", fmt.Sprintf("%.2f%%", mt.Volatility*100), neutralStyle),
			metricLine("SHARPE RATIO", fmt.Sprintf("%.2f", mt.SharpeRatio), signed(mt.SharpeRatio)),
		)
	} else {
		lines = append(lines, dimStyle.Render("awaiting inference"))
	}
	lines = append(lines, "")
	lines = append(lines, m.viewSession()...)
	body := titleStyle.Render("PORTFOLIO METRICS") + "\n" + strings.Join(lines, "\n")
	return panelStyle.Width(innerW).Height(h - 2).Render(body)
}

// viewSession renders the training session block under the metrics.
func (m Model) viewSession() []string {
	s := m.orch.Session()
	if s == nil {
		return []string{dimStyle.Render("training: idle  ·  press T to start")}
	}
	line := m.spin.View() + accentStyle.Render(" TRAINING "+s.Status.String())
	if s.Total > 0 {
		line += textStyle.Render(fmt.Sprintf("  ep %d/%d", s.Episode, s.Total))
	}
	reward := dimStyle.Render(fmt.Sprintf("last reward %.4f", s.LastReward))
	return []string{line, reward}
}

func (m Model) viewBenchmark(w, h int) string {
	innerW := w - 2
	title := titleStyle.Render("BENCHMARK")
	var body string
	if m.benchmark != nil && len(m.benchSyms) > 0 {
		sym := m.benchSyms[m.benchIdx]
		series := m.benchmark.Benchmarks[sym]
		title += dimStyle.Render("  " + sym + " · " + m.benchmark.Period)
		ret := fmt.Sprintf("%+.2f%%", series.TotalReturn*100)
		title += "  " + signed(series.TotalReturn).Render(ret)
		body = renderAreaChart(series.Cumulative, innerW, h-4)
	} else {
		body = dimStyle.Render("awaiting benchmark data")
	}
	return panelStyle.Width(innerW).Height(h - 2).Render(title + "\n" + body)
}

func (m Model) viewStatusBar(l panelLayout) string {
	age := "never"
	if !m.inferenceAt.IsZero() {
		age = time.Since(m.inferenceAt).Round(time.Second).String() + " ago"
	}
	left := fmt.Sprintf(" %s │ data %s │ CPU %.0f%% MEM %.0f%%", m.orch.State(), age, m.hostCPU, m.hostMem)
	right := "r refresh · t tickers · T train · b/p benchmark · q quit "
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return statusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func metricLine(label, value string, style lipgloss.Style) string {
	return dimStyle.Render(fmt.Sprintf("%-16s", label)) + style.Bold(true).Render(value)
}

func signed(v float64) lipgloss.Style {
	if v < 0 {
		return negStyle
	}
	return posStyle
}

func truncate(s string, max int) string {
	if max < 1 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}
