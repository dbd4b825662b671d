//go:build linux

package tui

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hostprint/hostprint/internal/analysis"
	"github.com/hostprint/hostprint/internal/pipeline"
	"github.com/hostprint/hostprint/pkg/model"
)

var (
	baseStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#585858")) // Dark Gray

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")). // White
			Background(lipgloss.Color("#7D56F4")). // Purple
			Padding(0, 1)

	tableHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#5f5fd7")). // Purple/Blue
				Bold(true).
				Border(lipgloss.NormalBorder(), false, false, true, false).
				BorderForeground(lipgloss.Color("#585858")). // Dark Gray
				Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#767676")). // Dimmed Gray
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(lipgloss.Color("#585858")). // Dark Gray
			Padding(0, 1).
			Width(100)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")). // White
			Background(lipgloss.Color("#22aa22")). // Green
			Padding(0, 1).
			Bold(true)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#ffffff")). // White
				Background(lipgloss.Color("#767676")). // Dimmed Gray
				Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#767676")) // Dimmed Gray

	issueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffdf87")) // Amber

	okBadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")). // White
			Background(lipgloss.Color("#22aa22")). // Green
			Padding(0, 1).
			Bold(true)

	warnBadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")). // Black
			Background(lipgloss.Color("#ffaf5f")). // Orange-amber
			Padding(0, 1).
			Bold(true)

	critBadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")). // White
			Background(lipgloss.Color("#d70000")). // Red
			Padding(0, 1).
			Bold(true)
)

type tab int

const (
	tabListeners tab = iota
	tabProcesses
)

// Config carries everything the dashboard needs from the command line.
type Config struct {
	Capture  pipeline.CaptureConfig
	Interval time.Duration
	Version  string
}

type MainModel struct {
	cfg Config

	fp model.Fingerprint
	an analysis.Analysis

	listenerTable table.Model
	processTable  table.Model
	activeTab     tab

	// worst is the highest severity seen across all probes so far; it
	// becomes the process exit code when the dashboard quits.
	worst analysis.Severity

	probed     bool // at least one probe has completed
	refreshing bool // a probe command is in flight
	probedAt   time.Time

	width    int
	height   int
	quitting bool
}

func initialModel(cfg Config) MainModel {
	s := table.DefaultStyles()
	s.Header = tableHeaderStyle.BorderForeground(lipgloss.Color("#585858"))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#ffffaf")). // Light Yellow
		Background(lipgloss.Color("#5f00d7")). // Purple
		Bold(false)

	lt := table.New(
		table.WithColumns(listenerColumns()),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	lt.SetStyles(s)

	pt := table.New(
		table.WithColumns(processColumns()),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	pt.SetStyles(s)

	active := tabListeners
	if !cfg.Capture.Network {
		active = tabProcesses
	}

	return MainModel{
		cfg:           cfg,
		listenerTable: lt,
		processTable:  pt,
		activeTab:     active,
		refreshing:    true, // Init launches the first probe
	}
}

// Run blocks until the dashboard quits and returns the exit code of the
// worst severity observed across all probes.
func Run(cfg Config) (int, error) {
	if os.Getenv("COLORTERM") == "" {
		os.Setenv("COLORTERM", "truecolor") //nolint:errcheck
	}

	p := tea.NewProgram(initialModel(cfg), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return 0, fmt.Errorf("error running dashboard: %w", err)
	}
	m, ok := final.(MainModel)
	if !ok {
		return 0, nil
	}
	return m.worst.ExitCode(), nil
}

func (m MainModel) Init() tea.Cmd {
	return tea.Batch(
		probeCmd(m.cfg.Capture),
		waitTick(m.cfg.Interval),
	)
}
