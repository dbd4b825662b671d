//go:build linux

package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hostprint/hostprint/internal/analysis"
	"github.com/hostprint/hostprint/internal/output"
	"github.com/hostprint/hostprint/internal/pipeline"
	"github.com/hostprint/hostprint/pkg/model"
)

func probeCmd(cfg pipeline.CaptureConfig) tea.Cmd {
	return func() tea.Msg {
		fp := pipeline.Capture(cfg)
		return probeMsg{fp: fp, an: analysis.Analyze(fp), at: time.Now()}
	}
}

func listenerColumns() []table.Column {
	return []table.Column{
		{Title: "Proto", Width: 6},
		{Title: "Address", Width: 24},
		{Title: "Port", Width: 6},
		{Title: "State", Width: 12},
		{Title: "PID", Width: 8},
		{Title: "Process", Width: 24},
	}
}

func processColumns() []table.Column {
	return []table.Column{
		{Title: "PID", Width: 8},
		{Title: "Command", Width: 22},
		{Title: "State", Width: 6},
		{Title: "Origin", Width: 10},
		{Title: "Age", Width: 9},
		{Title: "FDs", Width: 6},
		{Title: "Flags", Width: 22},
	}
}

func listenerRows(n model.NetworkInfo) []table.Row {
	rows := make([]table.Row, 0, len(n.Listeners))
	for _, l := range n.Listeners {
		pid := "-"
		if l.PID > 0 {
			pid = strconv.Itoa(l.PID)
		}
		rows = append(rows, table.Row{
			l.Protocol,
			l.LocalAddr,
			strconv.Itoa(l.LocalPort),
			l.State,
			pid,
			output.SanitizeTerminal(l.Process),
		})
	}
	return rows
}

func processRows(procs []model.Process) []table.Row {
	rows := make([]table.Row, 0, len(procs))
	for _, p := range procs {
		fd := "-"
		if p.FDCount >= 0 {
			fd = strconv.Itoa(p.FDCount)
		}
		rows = append(rows, table.Row{
			strconv.Itoa(p.PID),
			output.SanitizeTerminal(p.Command),
			p.State,
			p.Origin,
			formatAge(p.AgeSeconds),
			fd,
			strings.Join(processFlags(p), ", "),
		})
	}
	return rows
}

func processFlags(p model.Process) []string {
	var flags []string
	if p.Zombie {
		flags = append(flags, "zombie")
	}
	if p.HighFD {
		flags = append(flags, "high-fd")
	}
	if p.LongRunning {
		flags = append(flags, "long-running")
	}
	return flags
}

// issueLines lists the findings the quick report would flag, plus
// probe-health notes only the dashboard surfaces.
func issueLines(fp model.Fingerprint, an analysis.Analysis) []string {
	var lines []string
	if an.ZombieProcesses > 0 {
		lines = append(lines, fmt.Sprintf("%d zombie process(es)", an.ZombieProcesses))
	}
	if an.HighFDProcesses > 5 {
		lines = append(lines, fmt.Sprintf("%d processes with high FD usage", an.HighFDProcesses))
	}
	if an.ConfigIssues > 0 {
		lines = append(lines, fmt.Sprintf("%d config file permission issue(s)", an.ConfigIssues))
	}
	if an.UnusualListeners > 0 {
		lines = append(lines, fmt.Sprintf("%d listener(s) on unusual ports", an.UnusualListeners))
	}
	if fp.Network.Truncated() {
		dropped := fp.Network.DroppedListeners + fp.Network.DroppedConnections
		lines = append(lines, fmt.Sprintf("socket list truncated (%d dropped)", dropped))
	}
	if fp.ProbeErrors > 0 {
		lines = append(lines, fmt.Sprintf("%d probe source(s) could not be read", fp.ProbeErrors))
	}
	return lines
}

func formatUptime(secs uint64) string {
	switch {
	case secs < 60:
		return fmt.Sprintf("%ds", secs)
	case secs < 3600:
		return fmt.Sprintf("%dm", secs/60)
	case secs < 86400:
		return fmt.Sprintf("%dh %dm", secs/3600, secs%3600/60)
	default:
		return fmt.Sprintf("%dd %dh", secs/86400, secs%86400/3600)
	}
}

func formatAge(secs int64) string {
	if secs < 0 {
		secs = 0
	}
	return formatUptime(uint64(secs))
}

func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit && exp < 4; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTP"[exp])
}
