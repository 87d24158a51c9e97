// Package status renders the running transmitter's per-second diagnostics
// to the terminal: frame count, per-channel underrun counters, and, when
// requested, the conditional-access serial/ECM dump.
package status

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle = lipgloss.NewStyle().Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
)

// ChannelStat is one channel's per-second figures, pulled from the mux.
type ChannelStat struct {
	Name      string
	Underruns int
}

// Snapshot is one second's worth of status, pushed in from the running
// pipeline (main wires this from the mux, proc.Stack, and any CA engine).
type Snapshot struct {
	Frame    int64
	Channels []ChannelStat
	ECM      string // last logged ECM/EMM line, when ShowECM is set
	Serial   string // card serial, when ShowSerial is set
}

// tickMsg drives the redraw rate independent of Snapshot arrival, so the
// view still repaints (e.g. clears a stale ECM line) even between ticks.
type tickMsg time.Time

// model is the bubbletea model backing the status view.
type model struct {
	snapshots <-chan Snapshot
	last      Snapshot
	showECM   bool
	showSerial bool
}

// New builds a bubbletea program that renders Snapshots arriving on ch
// until the program is quit (Ctrl+C) or ch is closed.
func New(ch <-chan Snapshot, showECM, showSerial bool) *tea.Program {
	m := model{snapshots: ch, showECM: showECM, showSerial: showSerial}
	return tea.NewProgram(m)
}

func (m model) Init() tea.Cmd {
	return tea.Batch(waitForSnapshot(m.snapshots), tick())
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func waitForSnapshot(ch <-chan Snapshot) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return tea.Quit()
		}
		return s
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case Snapshot:
		m.last = msg
		return m, waitForSnapshot(m.snapshots)
	case tickMsg:
		return m, tick()
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("hacktv-go transmitter status") + "\n\n")
	b.WriteString(labelStyle.Render("frame") + valueStyle.Render(fmt.Sprintf("%d", m.last.Frame)) + "\n")

	for _, c := range m.last.Channels {
		style := valueStyle
		if c.Underruns > 0 {
			style = warnStyle
		}
		b.WriteString(labelStyle.Render(c.Name+" underruns") + style.Render(fmt.Sprintf("%d", c.Underruns)) + "\n")
	}

	if m.showECM && m.last.ECM != "" {
		b.WriteString("\n" + labelStyle.Render("ecm/emm") + m.last.ECM + "\n")
	}
	if m.showSerial && m.last.Serial != "" {
		b.WriteString(labelStyle.Render("card serial") + m.last.Serial + "\n")
	}

	b.WriteString("\n" + labelStyle.Render("") + lipgloss.NewStyle().Faint(true).Render("q to quit") + "\n")
	return b.String()
}
