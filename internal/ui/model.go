package ui

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	figure "github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/cgpo-terminal/internal/api"
	"github.com/aristath/cgpo-terminal/internal/config"
	"github.com/aristath/cgpo-terminal/internal/graph"
	"github.com/aristath/cgpo-terminal/internal/orchestrator"
	"github.com/aristath/cgpo-terminal/internal/store"
	"github.com/aristath/cgpo-terminal/internal/theme"
)

// Frame pacing for the layout simulation (~30fps while it is running).
const frameInterval = 33 * time.Millisecond

// How long one-shot notices stay on screen.
const noticeTTL = 6 * time.Second

// Benchmark period options, cycled with "p". Mirrors the backend's accepted
// values.
var benchmarkPeriods = []string{"1mo", "3mo", "6mo", "1y"}

// Ticker presets offered in the universe modal.
var tickerPresets = map[string][]string{
	"1": config.DefaultTickers,
	"2": {"JPM", "BAC", "GS", "MS", "WFC", "C"},
	"3": {"XOM", "CVX", "COP", "SLB", "OXY"},
}

type Model struct {
	cfg    *config.Config
	client *api.Client
	cache  *store.Store
	orch   *orchestrator.Orchestrator
	engine *graph.Engine
	log    zerolog.Logger

	// Data
	inference   *api.InferenceResult
	inferenceAt time.Time
	stale       bool // inference currently shown came from the cache
	signals     []api.Signal
	logEntries  []api.LogEntry
	benchmark   *api.BenchmarkResult
	benchSyms   []string
	benchIdx    int
	periodIdx   int
	hostCPU     float64
	hostMem     float64
	notice      string

	// UI state
	width      int
	height     int
	ready      bool
	simRunning bool

	hero     string
	heroH int // cached hero height, keeps layout deterministic

	// Ticker modal
	inTickerModal bool
	tickerInput   textinput.Model

	// Training confirmation overlay
	confirmTraining bool

	spin spinner.Model
}

// Messages

type refreshTickMsg struct{}

type feedTickMsg struct{}

type frameMsg time.Time

type pollTickMsg struct{ token string }

type inferenceMsg struct {
	res api.InferenceResult
	err error
}

type newsMsg struct {
	signals []api.Signal
	err     error
}

type logsMsg struct {
	entries []api.LogEntry
	err     error
}

type benchmarkMsg struct {
	res api.BenchmarkResult
	err error
}

type trainStartMsg struct{ err error }

type pollResultMsg struct {
	token  string
	status api.TrainingStatus
	err    error
}

type tickersAppliedMsg struct {
	tickers []string
	err     error
}

type hostStatsMsg struct {
	cpuPct float64
	memPct float64
	err    error
}

type noticeExpireMsg struct{}

// NewModel wires the dashboard together. cache may be nil when the cache
// could not be opened; everything degrades gracefully without it.
func NewModel(cfg *config.Config, client *api.Client, cache *store.Store, log zerolog.Logger) Model {
	ti := textinput.New()
	ti.Placeholder = "AAPL, NVDA, MSFT, ..."
	ti.CharLimit = 256
	ti.Width = 48

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(theme.Default.Primary)

	hero := figure.NewFigure("CGPO", "small", false).String()

	m := Model{
		cfg:         cfg,
		client:      client,
		cache:       cache,
		orch:        orchestrator.New(cfg.RefreshInterval, cfg.FeedInterval, cfg.PollInterval, log),
		engine:      graph.NewEngine(log),
		log:         log.With().Str("component", "ui").Logger(),
		tickerInput: ti,
		spin:        sp,
		hero:        hero,
		heroH:    lipgloss.Height(hero),
	}
	m.restoreFromCache()
	if m.engine.Phase() == graph.PhaseRunning {
		m.simRunning = true
	}
	return m
}

// restoreFromCache pre-populates panels with last-known-good data so the
// terminal paints something before the first fetch resolves.
func (m *Model) restoreFromCache() {
	if m.cache == nil {
		return
	}
	var inf api.InferenceResult
	if at, err := m.cache.Get(store.KindInference, &inf); err == nil {
		m.inference = &inf
		m.inferenceAt = at
		m.stale = true
		m.engine.Ingest(toSnapshot(inf.Graph))
	} else if !errors.Is(err, store.ErrMiss) {
		m.log.Warn().Err(err).Msg("Failed to restore inference from cache")
	}
	if _, err := m.cache.Get(store.KindNews, &m.signals); err != nil && !errors.Is(err, store.ErrMiss) {
		m.log.Warn().Err(err).Msg("Failed to restore news from cache")
	}
	if _, err := m.cache.Get(store.KindLogs, &m.logEntries); err != nil && !errors.Is(err, store.ErrMiss) {
		m.log.Warn().Err(err).Msg("Failed to restore logs from cache")
	}
}

func (m Model) Init() tea.Cmd {
	cmds := m.runEffects(m.orch.Start())
	cmds = append(cmds, m.fetchBenchmark(), m.fetchHostStats(), m.spin.Tick)
	if m.simRunning {
		cmds = append(cmds, frameCmd())
	}
	return tea.Batch(cmds...)
}

// runEffects maps orchestrator effects onto bubbletea commands. Notify is
// applied inline since it only mutates view state.
func (m *Model) runEffects(effects []orchestrator.Effect) []tea.Cmd {
	var cmds []tea.Cmd
	for _, e := range effects {
		switch e := e.(type) {
		case orchestrator.FetchInference:
			cmds = append(cmds, m.fetchInference())
		case orchestrator.FetchFeed:
			cmds = append(cmds, m.fetchNews(), m.fetchLogs(), m.fetchBenchmark(), m.fetchHostStats())
		case orchestrator.ScheduleRefresh:
			cmds = append(cmds, tea.Tick(e.After, func(time.Time) tea.Msg { return refreshTickMsg{} }))
		case orchestrator.ScheduleFeed:
			cmds = append(cmds, tea.Tick(e.After, func(time.Time) tea.Msg { return feedTickMsg{} }))
		case orchestrator.StartTraining:
			cmds = append(cmds, m.startTraining(e.Episodes))
		case orchestrator.PollStatus:
			cmds = append(cmds, m.pollTrainingStatus(e.Token))
		case orchestrator.SchedulePoll:
			token := e.Token
			cmds = append(cmds, tea.Tick(e.After, func(time.Time) tea.Msg { return pollTickMsg{token: token} }))
		case orchestrator.Notify:
			m.notice = e.Text
			cmds = append(cmds, tea.Tick(noticeTTL, func(time.Time) tea.Msg { return noticeExpireMsg{} }))
		}
	}
	return cmds
}

// Commands

func (m *Model) fetchInference() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		res, err := client.Inference(context.Background())
		return inferenceMsg{res: res, err: err}
	}
}

func (m *Model) fetchNews() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		signals, err := client.News(context.Background())
		return newsMsg{signals: signals, err: err}
	}
}

func (m *Model) fetchLogs() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		entries, err := client.Logs(context.Background(), 25)
		return logsMsg{entries: entries, err: err}
	}
}

func (m *Model) fetchBenchmark() tea.Cmd {
	client := m.client
	period := benchmarkPeriods[m.periodIdx]
	return func() tea.Msg {
		res, err := client.Benchmark(context.Background(), period, "")
		return benchmarkMsg{res: res, err: err}
	}
}

func (m *Model) startTraining(episodes int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		err := client.StartTraining(context.Background(), episodes)
		return trainStartMsg{err: err}
	}
}

func (m *Model) pollTrainingStatus(token string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		status, err := client.TrainingStatus(context.Background())
		return pollResultMsg{token: token, status: status, err: err}
	}
}

func (m *Model) applyTickers(tickers []string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		err := client.SetTickers(context.Background(), tickers)
		return tickersAppliedMsg{tickers: tickers, err: err}
	}
}

func (m *Model) fetchHostStats() tea.Cmd {
	return func() tea.Msg {
		pcts, err := cpu.Percent(0, false)
		if err != nil || len(pcts) == 0 {
			return hostStatsMsg{err: err}
		}
		vm, err := mem.VirtualMemory()
		if err != nil {
			return hostStatsMsg{err: err}
		}
		return hostStatsMsg{cpuPct: pcts[0], memPct: vm.UsedPercent}
	}
}

func frameCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// toSnapshot converts the wire graph into the engine's snapshot type.
func toSnapshot(g api.Graph) graph.Snapshot {
	s := graph.Snapshot{
		Nodes: make([]graph.Node, 0, len(g.Nodes)),
		Edges: make([]graph.Edge, 0, len(g.Edges)),
	}
	for _, n := range g.Nodes {
		s.Nodes = append(s.Nodes, graph.Node{ID: n.ID, Return: n.Return})
	}
	for _, e := range g.Edges {
		s.Edges = append(s.Edges, graph.Edge{Source: e.Source, Target: e.Target})
	}
	return s
}

// benchmarkSymbols returns the response's symbols in stable order.
func benchmarkSymbols(res *api.BenchmarkResult) []string {
	if res == nil {
		return nil
	}
	syms := make([]string, 0, len(res.Benchmarks))
	for sym := range res.Benchmarks {
		syms = append(syms, sym)
	}
	sort.Strings(syms)
	return syms
}
