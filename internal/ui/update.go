package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aristath/cgpo-terminal/internal/graph"
	"github.com/aristath/cgpo-terminal/internal/store"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.cfg.MaxWidth > 0 && m.width > m.cfg.MaxWidth {
			m.width = m.cfg.MaxWidth
		}
		if m.cfg.MaxHeight > 0 && m.height > m.cfg.MaxHeight {
			m.height = m.cfg.MaxHeight
		}
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case refreshTickMsg:
		return m, tea.Batch(m.runEffects(m.orch.RefreshTick())...)

	case feedTickMsg:
		return m, tea.Batch(m.runEffects(m.orch.FeedTick())...)

	case pollTickMsg:
		return m, tea.Batch(m.runEffects(m.orch.PollTick(msg.token))...)

	case frameMsg:
		if m.engine.Tick() == graph.PhaseRunning {
			return m, frameCmd()
		}
		m.simRunning = false
		return m, nil

	case inferenceMsg:
		return m.handleInference(msg)

	case newsMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Msg("News fetch failed")
			return m, nil
		}
		m.signals = msg.signals
		m.putCache(store.KindNews, m.signals)
		return m, nil

	case logsMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Msg("Log fetch failed")
			return m, nil
		}
		m.logEntries = msg.entries
		m.putCache(store.KindLogs, m.logEntries)
		return m, nil

	case benchmarkMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Msg("Benchmark fetch failed")
			return m, nil
		}
		m.benchmark = &msg.res
		m.benchSyms = benchmarkSymbols(m.benchmark)
		if m.benchIdx >= len(m.benchSyms) {
			m.benchIdx = 0
		}
		return m, nil

	case trainStartMsg:
		return m, tea.Batch(m.runEffects(m.orch.TrainingStartDone(msg.err))...)

	case pollResultMsg:
		return m, tea.Batch(m.runEffects(m.orch.PollDone(msg.token, msg.status, msg.err))...)

	case tickersAppliedMsg:
		if msg.err == nil {
			m.cfg.Tickers = msg.tickers
		}
		return m, tea.Batch(m.runEffects(m.orch.TickersApplied(msg.err))...)

	case hostStatsMsg:
		if msg.err != nil {
			m.log.Debug().Err(msg.err).Msg("Host stats unavailable")
			return m, nil
		}
		m.hostCPU = msg.cpuPct
		m.hostMem = msg.memPct
		return m, nil

	case noticeExpireMsg:
		m.notice = ""
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Modal input swallows everything except its own controls.
	if m.inTickerModal {
		switch {
		case key.Matches(msg, keys.Back):
			m.inTickerModal = false
			m.tickerInput.Blur()
			return m, nil
		case msg.Type == tea.KeyEnter:
			tickers := parseTickers(m.tickerInput.Value())
			if len(tickers) == 0 {
				return m, nil
			}
			m.inTickerModal = false
			m.tickerInput.Blur()
			return m, m.applyTickers(tickers)
		default:
			if preset, ok := tickerPresets[msg.String()]; ok && m.tickerInput.Value() == "" {
				m.tickerInput.SetValue(strings.Join(preset, ", "))
				return m, nil
			}
			var cmd tea.Cmd
			m.tickerInput, cmd = m.tickerInput.Update(msg)
			return m, cmd
		}
	}

	if m.confirmTraining {
		switch msg.String() {
		case "y", "Y", "enter":
			m.confirmTraining = false
			return m, tea.Batch(m.runEffects(m.orch.ConfirmTraining(m.cfg.TrainingEpisodes))...)
		default:
			m.confirmTraining = false
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, keys.Quit):
		m.orch.Teardown()
		return m, tea.Quit
	case key.Matches(msg, keys.Refresh):
		return m, tea.Batch(m.runEffects(m.orch.ManualRefresh())...)
	case key.Matches(msg, keys.Tickers):
		m.inTickerModal = true
		m.tickerInput.SetValue(strings.Join(m.cfg.Tickers, ", "))
		m.tickerInput.Focus()
		return m, nil
	case key.Matches(msg, keys.Train):
		if m.orch.TrainingActive() {
			return m, nil
		}
		m.confirmTraining = true
		return m, nil
	case key.Matches(msg, keys.CycleBench):
		if len(m.benchSyms) > 0 {
			m.benchIdx = (m.benchIdx + 1) % len(m.benchSyms)
		}
		return m, nil
	case key.Matches(msg, keys.CyclePeriod):
		m.periodIdx = (m.periodIdx + 1) % len(benchmarkPeriods)
		return m, m.fetchBenchmark()
	case key.Matches(msg, keys.Back):
		if m.engine.SelectedID() != "" {
			m.engine.Select(m.engine.SelectedID())
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	if m.inTickerModal || m.confirmTraining || !m.ready {
		return m, nil
	}
	l := m.panelLayout()
	x := msg.X - l.graphInnerX
	y := msg.Y - l.graphInnerY
	if x < 0 || y < 0 || x >= l.graphInnerW || y >= l.graphInnerH {
		return m, nil
	}
	m.engine.ClickAt(x, y)
	return m, nil
}

func (m Model) handleInference(msg inferenceMsg) (tea.Model, tea.Cmd) {
	cmds := m.runEffects(m.orch.InferenceDone(msg.err))
	if msg.err != nil {
		m.log.Error().Err(msg.err).Msg("Inference fetch failed")
		return m, tea.Batch(cmds...)
	}
	res := msg.res
	m.inference = &res
	m.inferenceAt = time.Now()
	m.stale = false
	m.putCache(store.KindInference, res)
	m.engine.Ingest(toSnapshot(res.Graph))
	if m.engine.Phase() == graph.PhaseRunning && !m.simRunning {
		m.simRunning = true
		cmds = append(cmds, frameCmd())
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) putCache(kind string, v any) {
	if m.cache == nil {
		return
	}
	if err := m.cache.Put(kind, v); err != nil {
		m.log.Warn().Err(err).Str("kind", kind).Msg("Failed to cache payload")
	}
}

// parseTickers splits comma/space separated input into uppercase symbols.
func parseTickers(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	out := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		sym := strings.ToUpper(strings.TrimSpace(f))
		if sym == "" {
			continue
		}
		if _, ok := seen[sym]; ok {
			continue
		}
		seen[sym] = struct{}{}
		out = append(out, sym)
	}
	return out
}
