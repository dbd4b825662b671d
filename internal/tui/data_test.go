//go:build linux

package tui

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hostprint/hostprint/internal/analysis"
	"github.com/hostprint/hostprint/internal/pipeline"
	"github.com/hostprint/hostprint/pkg/model"
)

func TestListenerRows(t *testing.T) {
	n := model.NetworkInfo{
		Listeners: []model.Listener{
			{Protocol: "tcp", LocalAddr: "127.0.0.1", LocalPort: 8443, State: "LISTEN", PID: 500, Process: "envoy"},
			{Protocol: "udp", LocalAddr: "0.0.0.0", LocalPort: 5353, State: "LISTEN", PID: 0, Process: "[kernel]"},
		},
	}

	rows := listenerRows(n)
	if len(rows) != 2 {
		t.Fatalf("listenerRows returned %d rows, want 2", len(rows))
	}

	want := table.Row{"tcp", "127.0.0.1", "8443", "LISTEN", "500", "envoy"}
	if !reflect.DeepEqual(rows[0], want) {
		t.Errorf("row 0 = %v, want %v", rows[0], want)
	}
	if rows[1][4] != "-" {
		t.Errorf("unowned listener PID column = %q, want -", rows[1][4])
	}
}

func TestListenerRowsSanitizesProcess(t *testing.T) {
	n := model.NetworkInfo{
		Listeners: []model.Listener{
			{Protocol: "tcp", LocalPort: 80, PID: 9, Process: "evil\x1b[2Jproc"},
		},
	}

	rows := listenerRows(n)
	got := rows[0][5]
	if strings.ContainsRune(got, 0x1b) {
		t.Errorf("process cell %q still contains a raw escape byte", got)
	}
	if !strings.Contains(got, `\x1b`) {
		t.Errorf("process cell %q should carry the escaped form", got)
	}
}

func TestProcessRows(t *testing.T) {
	procs := []model.Process{
		{PID: 50, Command: "leaky", State: "S", Origin: "shell", AgeSeconds: 3700, FDCount: 142, HighFD: true},
		{PID: 60, Command: "stuck", State: "Z", AgeSeconds: 10, FDCount: -1, Zombie: true, LongRunning: true},
	}

	rows := processRows(procs)
	if len(rows) != 2 {
		t.Fatalf("processRows returned %d rows, want 2", len(rows))
	}

	want0 := table.Row{"50", "leaky", "S", "shell", "1h 1m", "142", "high-fd"}
	if !reflect.DeepEqual(rows[0], want0) {
		t.Errorf("row 0 = %v, want %v", rows[0], want0)
	}
	want1 := table.Row{"60", "stuck", "Z", "", "10s", "-", "zombie, long-running"}
	if !reflect.DeepEqual(rows[1], want1) {
		t.Errorf("row 1 = %v, want %v", rows[1], want1)
	}
}

func TestIssueLines(t *testing.T) {
	tests := []struct {
		name string
		fp   model.Fingerprint
		an   analysis.Analysis
		want []string // substrings, one per expected line
	}{
		{
			name: "clean",
		},
		{
			name: "zombies",
			an:   analysis.Analysis{ZombieProcesses: 2},
			want: []string{"2 zombie"},
		},
		{
			name: "fd pressure at threshold stays quiet",
			an:   analysis.Analysis{HighFDProcesses: 5},
		},
		{
			name: "fd pressure above threshold",
			an:   analysis.Analysis{HighFDProcesses: 6},
			want: []string{"6 processes with high FD"},
		},
		{
			name: "config issue",
			an:   analysis.Analysis{ConfigIssues: 1},
			want: []string{"1 config file permission"},
		},
		{
			name: "unusual listeners",
			an:   analysis.Analysis{UnusualListeners: 3},
			want: []string{"3 listener(s) on unusual ports"},
		},
		{
			name: "truncation",
			fp: model.Fingerprint{Network: model.NetworkInfo{
				DroppedListeners:   4,
				DroppedConnections: 1,
			}},
			want: []string{"truncated (5 dropped)"},
		},
		{
			name: "probe errors",
			fp:   model.Fingerprint{ProbeErrors: 2},
			want: []string{"2 probe source(s)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := issueLines(tt.fp, tt.an)
			if len(lines) != len(tt.want) {
				t.Fatalf("issueLines = %v, want %d line(s)", lines, len(tt.want))
			}
			for i, sub := range tt.want {
				if !strings.Contains(lines[i], sub) {
					t.Errorf("line %d = %q, want substring %q", i, lines[i], sub)
				}
			}
		})
	}
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		secs uint64
		want string
	}{
		{0, "0s"},
		{45, "45s"},
		{60, "1m"},
		{3599, "59m"},
		{3700, "1h 1m"},
		{86400, "1d 0h"},
		{90000, "1d 1h"},
	}
	for _, tt := range tests {
		if got := formatUptime(tt.secs); got != tt.want {
			t.Errorf("formatUptime(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    uint64
		want string
	}{
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{5 * 1024 * 1024 * 1024, "5.0 GB"},
		{1 << 40, "1.0 TB"},
		{1 << 52, "4.0 PB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestInitialTabFollowsNetwork(t *testing.T) {
	on := initialModel(Config{Capture: pipeline.CaptureConfig{Network: true}})
	if on.activeTab != tabListeners {
		t.Errorf("network probing on: initial tab = %d, want listeners", on.activeTab)
	}
	off := initialModel(Config{})
	if off.activeTab != tabProcesses {
		t.Errorf("network probing off: initial tab = %d, want processes", off.activeTab)
	}
}

func TestUpdateProbeMsgFillsTables(t *testing.T) {
	fp := model.Fingerprint{
		Network: model.NetworkInfo{
			Listeners: []model.Listener{
				{Protocol: "tcp", LocalAddr: "0.0.0.0", LocalPort: 22, State: "LISTEN", PID: 1, Process: "sshd"},
			},
			TotalListening: 1,
		},
		Processes: []model.Process{
			{PID: 42, Command: "leaky", FDCount: 120, HighFD: true},
		},
	}

	m := initialModel(Config{})
	next, _ := m.Update(probeMsg{fp: fp, an: analysis.Analyze(fp), at: time.Now()})
	m = next.(MainModel)

	if !m.probed {
		t.Error("probed flag not set after first probe")
	}
	if m.refreshing {
		t.Error("refreshing flag still set after probe completed")
	}
	if got := len(m.listenerTable.Rows()); got != 1 {
		t.Errorf("listener table has %d rows, want 1", got)
	}
	if got := len(m.processTable.Rows()); got != 1 {
		t.Errorf("process table has %d rows, want 1", got)
	}
}

func TestUpdateTracksWorstSeverity(t *testing.T) {
	m := initialModel(Config{})

	next, _ := m.Update(probeMsg{
		fp: model.Fingerprint{Processes: []model.Process{{PID: 9, Zombie: true}}},
		an: analysis.Analysis{ZombieProcesses: 1, Severity: analysis.SeverityCritical},
		at: time.Now(),
	})
	m = next.(MainModel)
	if m.worst != analysis.SeverityCritical {
		t.Fatalf("worst = %v after critical probe, want critical", m.worst)
	}

	next, _ = m.Update(probeMsg{at: time.Now()})
	m = next.(MainModel)
	if m.an.Severity != analysis.SeverityOK {
		t.Errorf("current severity = %v, want ok", m.an.Severity)
	}
	if m.worst != analysis.SeverityCritical {
		t.Errorf("worst severity decayed to %v after a clean probe", m.worst)
	}
	if m.worst.ExitCode() != 2 {
		t.Errorf("exit code = %d, want 2", m.worst.ExitCode())
	}
}

func TestProbeOneAtATime(t *testing.T) {
	m := initialModel(Config{})
	if !m.refreshing {
		t.Fatal("initial model should mark the Init probe as in flight")
	}
	if _, cmd := m.probeIfIdle(); cmd != nil {
		t.Error("a second probe started while one is in flight")
	}

	next, _ := m.Update(probeMsg{at: time.Now()})
	m = next.(MainModel)
	m2, cmd := m.probeIfIdle()
	if cmd == nil {
		t.Error("idle model did not start a probe")
	}
	if !m2.refreshing {
		t.Error("starting a probe did not mark it in flight")
	}
}

func TestQuitKeys(t *testing.T) {
	keys := []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
	}
	for _, k := range keys {
		m := initialModel(Config{})
		next, cmd := m.Update(k)
		if cmd == nil {
			t.Fatalf("%s: no command returned, want quit", k.String())
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s did not quit", k.String())
		}
		if !next.(MainModel).quitting {
			t.Errorf("%s did not set quitting", k.String())
		}
	}
}

func TestTabSwitching(t *testing.T) {
	m := initialModel(Config{Capture: pipeline.CaptureConfig{Network: true}})

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(MainModel)
	if m.activeTab != tabProcesses {
		t.Errorf("tab key: active tab = %d, want processes", m.activeTab)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(MainModel)
	if m.activeTab != tabListeners {
		t.Errorf("tab key again: active tab = %d, want listeners", m.activeTab)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}})
	m = next.(MainModel)
	if m.activeTab != tabProcesses {
		t.Errorf("key 2: active tab = %d, want processes", m.activeTab)
	}
}
