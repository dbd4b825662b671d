//go:build linux

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"

	"github.com/hostprint/hostprint/internal/analysis"
	"github.com/hostprint/hostprint/internal/output"
)

func (m MainModel) View() string {
	if m.quitting {
		return ""
	}

	outerStyle := baseStyle.
		Width(m.width-2).
		Height(m.height-2).
		Padding(0, 1)

	var listenersTab, processesTab string
	if m.activeTab == tabListeners {
		listenersTab = activeTabStyle.Render("1. Listeners")
		processesTab = inactiveTabStyle.Render("2. Processes")
	} else {
		listenersTab = inactiveTabStyle.Render("1. Listeners")
		processesTab = activeTabStyle.Render("2. Processes")
	}

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render("hostprint"),
		listenersTab,
		processesTab,
	)

	var content string
	switch m.activeTab {
	case tabListeners:
		if !m.cfg.Capture.Network {
			content = labelStyle.Render("Network probe disabled (run with -n or -d).")
		} else {
			content = m.listenerTable.View()
		}
	case tabProcesses:
		content = m.processTable.View()
	}

	helpText := "q: Quit | r: Refresh | Tab: Switch | Up/Down: Scroll"
	footerContent := helpText
	if m.cfg.Version != "" {
		gap := m.width - 6 - lipgloss.Width(helpText) - lipgloss.Width(m.cfg.Version)
		if gap > 0 {
			footerContent = helpText + strings.Repeat(" ", gap) + m.cfg.Version
		}
	}

	return outerStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			lipgloss.NewStyle().Height(1).Render(""),
			lipgloss.NewStyle().PaddingLeft(1).Render(m.ribbonView()),
			lipgloss.NewStyle().Height(1).Render(""),
			content,
			lipgloss.NewStyle().Height(1).Render(""),
			lipgloss.NewStyle().PaddingLeft(1).Render(m.issuesView()),
			lipgloss.NewStyle().Height(1).Render(""),
			footerStyle.Width(m.width-4).Render(footerContent),
		),
	)
}

func (m MainModel) ribbonView() string {
	if !m.probed {
		return labelStyle.Render("Probing...")
	}

	badge := okBadgeStyle.Render("OK")
	switch m.an.Severity {
	case analysis.SeverityWarning:
		badge = warnBadgeStyle.Render("WARNINGS")
	case analysis.SeverityCritical:
		badge = critBadgeStyle.Render("CRITICAL")
	}

	stamp := m.probedAt.Format("15:04:05")
	if m.refreshing {
		stamp = "probing..."
	}

	sys := m.fp.System
	parts := []string{
		output.SanitizeTerminal(sys.Hostname),
		fmt.Sprintf("up %s", formatUptime(sys.UptimeSeconds)),
		fmt.Sprintf("load %.2f %.2f %.2f", sys.LoadAvg[0], sys.LoadAvg[1], sys.LoadAvg[2]),
		fmt.Sprintf("mem %.1f%% of %s", sys.UsedRAMPct, formatBytes(sys.TotalRAM)),
		fmt.Sprintf("%d procs", m.fp.ProcessCount),
	}
	line := strings.Join(parts, labelStyle.Render("  |  "))

	return lipgloss.JoinHorizontal(lipgloss.Center,
		line,
		"  ",
		badge,
		"  ",
		labelStyle.Render(stamp),
	)
}

func (m MainModel) issuesView() string {
	if !m.probed {
		return ""
	}

	width := m.width - 6
	if width < 20 {
		width = 20
	}

	lines := issueLines(m.fp, m.an)
	if len(lines) == 0 {
		return labelStyle.Render("No issues detected.")
	}
	text := "Potential issues: " + strings.Join(lines, "; ")
	return issueStyle.Render(wrap.String(text, width))
}
