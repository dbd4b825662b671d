//go:build linux

package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hostprint/hostprint/internal/analysis"
	"github.com/hostprint/hostprint/pkg/model"
)

type probeMsg struct {
	fp model.Fingerprint
	an analysis.Analysis
	at time.Time
}

type tickMsg time.Time

func waitTick(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		interval = time.Minute
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// probeIfIdle starts a capture unless one is already in flight. Probes
// run one at a time; callers keep their own timers.
func (m MainModel) probeIfIdle() (MainModel, tea.Cmd) {
	if m.refreshing {
		return m, nil
	}
	m.refreshing = true
	return m, probeCmd(m.cfg.Capture)
}

func (m MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		var cmd tea.Cmd
		if !m.quitting {
			m, cmd = m.probeIfIdle()
		}
		return m, tea.Batch(cmd, waitTick(m.cfg.Interval))

	case probeMsg:
		m.refreshing = false
		m.probed = true
		m.probedAt = msg.at
		m.fp = msg.fp
		m.an = msg.an
		if msg.an.Severity > m.worst {
			m.worst = msg.an.Severity
		}
		m.listenerTable.SetRows(listenerRows(msg.fp.Network))
		m.processTable.SetRows(processRows(msg.fp.Processes))
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		tableWidth := msg.Width - 6
		if tableWidth < 40 {
			tableWidth = 40
		}
		// Header, ribbon, issues panel, and footer take the rest.
		tableHeight := msg.Height - 15
		if tableHeight < 3 {
			tableHeight = 3
		}

		lcols := listenerColumns()
		procWidth := tableWidth - 56 - 12 // Proto(6)+Address(24)+Port(6)+State(12)+PID(8)
		if procWidth < 12 {
			procWidth = 12
		}
		lcols[len(lcols)-1].Width = procWidth
		m.listenerTable.SetColumns(lcols)
		m.listenerTable.SetWidth(tableWidth)
		m.listenerTable.SetHeight(tableHeight)

		pcols := processColumns()
		flagWidth := tableWidth - 61 - 14 // PID(8)+Command(22)+State(6)+Origin(10)+Age(9)+FDs(6)
		if flagWidth < 12 {
			flagWidth = 12
		}
		pcols[len(pcols)-1].Width = flagWidth
		m.processTable.SetColumns(pcols)
		m.processTable.SetWidth(tableWidth)
		m.processTable.SetHeight(tableHeight)

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "r":
			var cmd tea.Cmd
			m, cmd = m.probeIfIdle()
			return m, cmd
		case "tab":
			if m.activeTab == tabListeners {
				m.activeTab = tabProcesses
			} else {
				m.activeTab = tabListeners
			}
			return m, nil
		case "1":
			m.activeTab = tabListeners
			return m, nil
		case "2":
			m.activeTab = tabProcesses
			return m, nil
		}
	}

	// Everything else (arrow keys, paging) scrolls the visible table.
	var cmd tea.Cmd
	switch m.activeTab {
	case tabListeners:
		m.listenerTable, cmd = m.listenerTable.Update(msg)
	case tabProcesses:
		m.processTable, cmd = m.processTable.Update(msg)
	}
	return m, cmd
}
