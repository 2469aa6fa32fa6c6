package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/natcalc/internal/config"
	apperrors "github.com/agbru/natcalc/internal/errors"
	"github.com/agbru/natcalc/internal/format"
	"github.com/agbru/natcalc/internal/orchestration"
	"github.com/agbru/natcalc/internal/sysmon"
)

const (
	tickInterval  = 500 * time.Millisecond
	historySize   = 40
	maxLogLines   = 200
	barWidth      = 24
	nameWidth     = 10
	minLogsHeight = 3
)

type rowStatus int

const (
	statusRunning rowStatus = iota
	statusPassed
	statusFailed
)

// checkerRow is the dashboard state of one checker.
type checkerRow struct {
	name     string
	limbs    int
	progress float64
	status   rowStatus
	passed   int
	duration time.Duration
}

// Model is the root bubbletea model of the verify dashboard.
type Model struct {
	rows     []checkerRow
	logs     []string
	keymap   KeyMap
	cpu, mem *History

	heapAlloc  uint64
	heapSys    uint64
	numGC      uint32
	goroutines int
	average    float64

	start, end    time.Time
	width, height int

	parentCtx context.Context
	ctx       context.Context
	cancel    context.CancelFunc
	checkers  []orchestration.Checker
	cfg       config.AppConfig
	observer  orchestration.Observer
	version   string
	ref       *programRef

	generation uint64
	done       bool
	paused     bool
	exitCode   int
}

// NewModel prepares a dashboard for checkers. The run starts with Init.
func NewModel(parentCtx context.Context, checkers []orchestration.Checker, cfg config.AppConfig, observer orchestration.Observer, version string) Model {
	ctx, cancel := context.WithCancel(parentCtx)
	m := Model{
		keymap:    DefaultKeyMap(),
		cpu:       NewHistory(historySize),
		mem:       NewHistory(historySize),
		parentCtx: parentCtx,
		ctx:       ctx,
		cancel:    cancel,
		checkers:  checkers,
		cfg:       cfg,
		observer:  observer,
		version:   version,
		ref:       &programRef{},
		exitCode:  apperrors.ExitSuccess,
	}
	m.resetRows()
	return m
}

func (m *Model) resetRows() {
	m.rows = make([]checkerRow, len(m.checkers))
	for i, c := range m.checkers {
		m.rows[i] = checkerRow{name: c.Name(), limbs: c.Limbs()}
	}
	m.average = 0
	m.start, m.end = time.Now(), time.Time{}
	m.logs = nil
	m.addLog(dimStyle.Render(fmt.Sprintf("%d×%d limbs, %d trials per checker, seed %d",
		m.cfg.N, m.cfg.M, m.cfg.Trials, m.cfg.Seed)))
}

func (m *Model) addLog(line string) {
	stamp := dimStyle.Render(time.Now().Format("15:04:05"))
	m.logs = append(m.logs, stamp+" "+line)
	if len(m.logs) > maxLogLines {
		m.logs = m.logs[len(m.logs)-maxLogLines:]
	}
}

// Init starts the first run.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.startRun())
}

func (m Model) startRun() tea.Cmd {
	return tea.Batch(
		verifyCmd(m.ref, m.ctx, m.checkers, m.cfg, m.observer, m.generation),
		watchContextCmd(m.ctx, m.generation),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case ProgressMsg:
		if msg.Generation != m.generation || m.paused {
			return m, nil
		}
		if msg.CheckerIndex >= 0 && msg.CheckerIndex < len(m.rows) {
			m.rows[msg.CheckerIndex].progress = msg.Value
		}
		m.average = msg.Average
		return m, nil

	case ResultsMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.applyResults(msg.Results)
		return m, nil

	case ErrorMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.addLog(errorStyle.Render(fmt.Sprintf("failure after %s: %v", format.FormatExecutionDuration(msg.Duration), msg.Err)))
		return m, nil

	case CompleteMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.finish(msg.ExitCode)
		if msg.ExitCode == apperrors.ExitSuccess {
			m.addLog(successStyle.Render("Global Status: Success. All results agree with their references."))
		} else {
			m.addLog(errorStyle.Render(fmt.Sprintf("Global Status: Failure (exit code %d).", msg.ExitCode)))
		}
		return m, nil

	case ContextCancelledMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		if !m.done {
			m.finish(apperrors.ExitCode(msg.Err))
		}
		return m, tea.Quit

	case TickMsg:
		if m.done {
			return m, nil
		}
		if m.paused {
			return m, tickCmd()
		}
		return m, tea.Batch(sampleMemStatsCmd(), sampleSysStatsCmd(), tickCmd())

	case MemStatsMsg:
		m.heapAlloc, m.heapSys = msg.Alloc, msg.HeapSys
		m.numGC, m.goroutines = msg.NumGC, msg.NumGoroutine
		return m, nil

	case SysStatsMsg:
		m.cpu.Add(msg.CPUPercent)
		m.mem.Add(msg.MemPercent)
		return m, nil
	}
	return m, nil
}

func (m *Model) finish(code int) {
	m.done = true
	m.exitCode = code
	m.end = time.Now()
}

func (m *Model) applyResults(results []orchestration.CheckResult) {
	byName := make(map[string]int, len(m.rows))
	for i, r := range m.rows {
		byName[r.name] = i
	}
	for _, res := range results {
		i, ok := byName[res.Name]
		if !ok {
			continue
		}
		row := &m.rows[i]
		row.passed = res.Passed
		row.duration = res.Duration
		if res.Err != nil {
			row.status = statusFailed
			var mismatch apperrors.MismatchError
			if errors.As(res.Err, &mismatch) {
				m.addLog(errorStyle.Render(fmt.Sprintf("%s: %v", res.Name, res.Err)))
			} else {
				m.addLog(warningStyle.Render(fmt.Sprintf("%s: %v", res.Name, res.Err)))
			}
			continue
		}
		row.status = statusPassed
		row.progress = 1
		m.addLog(fmt.Sprintf("%s %s", accentStyle.Render(res.Name),
			successStyle.Render(fmt.Sprintf("%d/%d passed in %s", res.Passed, res.Trials, format.FormatExecutionDuration(res.Duration)))))
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if !m.done {
			m.finish(apperrors.ExitErrorCanceled)
		}
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		return m, nil

	case key.Matches(msg, m.keymap.Rerun):
		// The checkers are not reentrant, so a rerun waits for the run to end.
		if !m.done {
			return m, nil
		}
		m.cancel()
		m.generation++
		m.ctx, m.cancel = context.WithCancel(m.parentCtx)
		m.cfg.Seed += int64(len(m.checkers))
		m.done, m.paused = false, false
		m.exitCode = apperrors.ExitSuccess
		m.cpu.Reset()
		m.mem.Reset()
		m.resetRows()
		return m, tea.Batch(tickCmd(), m.startRun())
	}
	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	header := m.viewHeader()
	table := panelStyle.Width(m.width - 2).Render(m.viewTable())
	system := m.viewSystem()
	footer := m.viewFooter()

	used := lipgloss.Height(header) + lipgloss.Height(table) + lipgloss.Height(footer) + 2
	logs := m.viewLogs(max(m.height-used, minLogsHeight), m.width-lipgloss.Width(system)-4)
	body := lipgloss.JoinHorizontal(lipgloss.Top, logs, system)
	return lipgloss.JoinVertical(lipgloss.Left, header, table, body, footer)
}

func (m Model) elapsed() time.Duration {
	if !m.end.IsZero() {
		return m.end.Sub(m.start)
	}
	return time.Since(m.start)
}

func (m Model) viewHeader() string {
	title := "natcalc verify"
	if m.version != "" && m.version != "dev" {
		title += " " + m.version
	}
	state := accentStyle.Render("running")
	switch {
	case m.done && m.exitCode == apperrors.ExitSuccess:
		state = successStyle.Render("passed")
	case m.done:
		state = errorStyle.Render("failed")
	case m.paused:
		state = warningStyle.Render("paused")
	}
	return headerStyle.Render(fmt.Sprintf("%s %s %s %s %.0f%%",
		titleStyle.Render(title),
		dimStyle.Render("|"),
		format.FormatExecutionDuration(m.elapsed()),
		state,
		m.average*100))
}

func (m Model) viewTable() string {
	var b strings.Builder
	b.WriteString(dimStyle.Render(fmt.Sprintf("%-*s %-*s %6s %9s %10s", nameWidth, "Checker", barWidth, "Progress", "%", "Passed", "Duration")))
	for _, r := range m.rows {
		status := infoStyle.Render("RUN")
		switch r.status {
		case statusPassed:
			status = successStyle.Render("OK")
		case statusFailed:
			status = errorStyle.Render("FAIL")
		}
		dur := "-"
		if r.status != statusRunning {
			dur = format.FormatExecutionDuration(r.duration)
		}
		fmt.Fprintf(&b, "\n%-*s %s %5.1f%% %9s %10s %s",
			nameWidth, r.name,
			progressBar(r.progress, barWidth),
			r.progress*100,
			fmt.Sprintf("%d/%d", r.passed, m.cfg.Trials),
			dur,
			status)
	}
	return b.String()
}

func progressBar(progress float64, width int) string {
	filled := min(max(int(progress*float64(width)), 0), width)
	return accentStyle.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", width-filled))
}

func (m Model) viewSystem() string {
	lines := []string{
		titleStyle.Render("System"),
		fmt.Sprintf("%s %s / %s", dimStyle.Render("Heap:"), format.FormatBytes(m.heapAlloc), format.FormatBytes(m.heapSys)),
		fmt.Sprintf("%s %d  %s %d", dimStyle.Render("GC:"), m.numGC, dimStyle.Render("Goroutines:"), m.goroutines),
		fmt.Sprintf("%s %5.1f%% %s", dimStyle.Render("CPU:"), m.cpu.Last(), accentStyle.Render(Sparkline(m.cpu.Values()))),
		fmt.Sprintf("%s %5.1f%% %s", dimStyle.Render("MEM:"), m.mem.Last(), warningStyle.Render(Sparkline(m.mem.Values()))),
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) viewLogs(height, width int) string {
	lines := m.logs
	if len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	return panelStyle.Width(max(width, 20)).Height(height).Render(strings.Join(lines, "\n"))
}

func (m Model) viewFooter() string {
	parts := make([]string, 0, len(m.keymap.ShortHelp()))
	for _, b := range m.keymap.ShortHelp() {
		h := b.Help()
		parts = append(parts, footerKeyStyle.Render(h.Key)+" "+dimStyle.Render(h.Desc))
	}
	return " " + strings.Join(parts, "  ")
}

// Run shows the dashboard until the user quits or ctx ends, and returns the
// exit code of the last run.
func Run(ctx context.Context, checkers []orchestration.Checker, cfg config.AppConfig, observer orchestration.Observer, version string) int {
	initStyles()

	model := NewModel(ctx, checkers, cfg, observer, version)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen())
	model.ref.SetProgram(p)

	final, err := p.Run()
	if err != nil {
		return apperrors.ExitErrorGeneric
	}
	if m, ok := final.(Model); ok {
		m.cancel()
		return m.exitCode
	}
	return apperrors.ExitSuccess
}

// verifyCmd runs the checkers and reports through ref.
func verifyCmd(ref *programRef, ctx context.Context, checkers []orchestration.Checker, cfg config.AppConfig, observer orchestration.Observer, gen uint64) tea.Cmd {
	return func() tea.Msg {
		reporter := &Reporter{ref: ref, generation: gen}
		presenter := &Presenter{ref: ref, generation: gen}

		results := orchestration.ExecuteChecks(ctx, checkers, cfg, observer, reporter, io.Discard)
		orchestration.MarkDeadlines(ctx, results, cfg.Timeout)
		code := orchestration.AnalyzeCheckResults(results, presenter, io.Discard)
		return CompleteMsg{ExitCode: code, Generation: gen}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func sampleMemStatsCmd() tea.Cmd {
	return func() tea.Msg {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		return MemStatsMsg{
			Alloc:        ms.HeapAlloc,
			HeapSys:      ms.HeapSys,
			NumGC:        ms.NumGC,
			PauseTotalNs: ms.PauseTotalNs,
			NumGoroutine: runtime.NumGoroutine(),
		}
	}
}

func sampleSysStatsCmd() tea.Cmd {
	return func() tea.Msg {
		s := sysmon.Sample()
		return SysStatsMsg{CPUPercent: s.CPUPercent, MemPercent: s.MemPercent}
	}
}

// watchContextCmd reports the end of ctx.
func watchContextCmd(ctx context.Context, gen uint64) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err(), Generation: gen}
	}
}
