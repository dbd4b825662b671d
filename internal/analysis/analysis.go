// Package analysis derives risk counters and a severity verdict from a
// captured fingerprint.
package analysis

import (
	"encoding/json"
	"fmt"

	"github.com/hostprint/hostprint/pkg/model"
)

// Severity ranks a fingerprint's worst finding.
type Severity int

const (
	SeverityOK Severity = iota
	SeverityWarning
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityWarning:
		return "warnings"
	default:
		return "ok"
	}
}

func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "ok":
		*s = SeverityOK
	case "warnings":
		*s = SeverityWarning
	case "critical":
		*s = SeverityCritical
	default:
		return fmt.Errorf("unknown severity %q", str)
	}
	return nil
}

// ExitCode maps severity onto the exit code contract: 0 ok, 1 warnings,
// 2 critical. 3 is reserved for run errors and never produced here.
func (s Severity) ExitCode() int {
	return int(s)
}

// Analysis counts the findings the severity policy considers.
type Analysis struct {
	ZombieProcesses  int      `json:"zombie_processes"`
	HighFDProcesses  int      `json:"high_fd_processes"`
	LongRunning      int      `json:"long_running"`
	ConfigIssues     int      `json:"config_issues"`
	UnusualListeners int      `json:"unusual_listeners"`
	Severity         Severity `json:"severity"`
}

// Analyze applies the fixed policy: critical when any zombie or config
// permission issue exists or more than three unusual listeners are up;
// warning when more than five processes hold too many fds or any
// unusual listener is up. Long-running processes are reported but never
// raise the severity.
func Analyze(fp model.Fingerprint) Analysis {
	var a Analysis

	for _, p := range fp.Processes {
		if p.Zombie {
			a.ZombieProcesses++
		}
		if p.HighFD {
			a.HighFDProcesses++
		}
		if p.LongRunning {
			a.LongRunning++
		}
	}
	for _, c := range fp.Configs {
		if c.Issue() {
			a.ConfigIssues++
		}
	}
	a.UnusualListeners = fp.Network.UnusualPorts

	switch {
	case a.ZombieProcesses > 0 || a.ConfigIssues > 0 || a.UnusualListeners > 3:
		a.Severity = SeverityCritical
	case a.HighFDProcesses > 5 || a.UnusualListeners > 0:
		a.Severity = SeverityWarning
	}

	return a
}
