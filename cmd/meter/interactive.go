package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	sessionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	totalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type tickMsg time.Time

type monitorModel struct {
	relay   *relay
	spin    spinner.Model
	stats   []sessionStat
	started time.Time
}

func newMonitorModel(r *relay) monitorModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return monitorModel{relay: r, spin: s, started: time.Now()}
}

func (m monitorModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, tick())
}

func tick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tickMsg:
		m.stats = m.relay.snapshot()
		sort.Slice(m.stats, func(i, j int) bool {
			return m.stats[i].name < m.stats[j].name
		})
		return m, tick()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m monitorModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("meter"))
	fmt.Fprintf(&b, "  %s %s -> %s\n\n",
		m.spin.View(), m.relay.addr(), m.relay.cfg.Upstream)

	b.WriteString(headerStyle.Render(fmt.Sprintf("%-24s %14s %14s", "session", "bytes in", "bytes out")))
	b.WriteByte('\n')

	var totalIn, totalOut uint64
	for _, s := range m.stats {
		b.WriteString(sessionStyle.Render(
			fmt.Sprintf("%-24s %14s %14s", s.name, formatBytes(s.read), formatBytes(s.written))))
		b.WriteByte('\n')
		totalIn += s.read
		totalOut += s.written
	}
	if len(m.stats) == 0 {
		b.WriteString(helpStyle.Render("no active sessions"))
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	b.WriteString(totalStyle.Render(
		fmt.Sprintf("%-24s %14s %14s", "total", formatBytes(totalIn), formatBytes(totalOut))))
	b.WriteByte('\n')
	b.WriteString(helpStyle.Render(fmt.Sprintf("up %s - press q to quit", time.Since(m.started).Round(time.Second))))
	b.WriteByte('\n')
	return b.String()
}

func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func runInteractive(r *relay) error {
	p := tea.NewProgram(newMonitorModel(r))
	_, err := p.Run()
	return err
}
