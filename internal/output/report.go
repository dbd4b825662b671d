// Package output renders captured fingerprints: indented JSON for
// machines, a quick text summary for terminals.
package output

import (
	"fmt"
	"io"

	"github.com/hostprint/hostprint/internal/analysis"
	"github.com/hostprint/hostprint/pkg/model"
)

// listenerDisplayLimit caps the listener lines in the quick report; the
// overflow line carries the rest of the count.
const listenerDisplayLimit = 10

var (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorYellow = "\033[33m"
)

// RenderQuick writes the human-readable summary. Strings that came out
// of /proc pass through SanitizeTerminal so a hostile process name
// cannot inject control sequences into the terminal.
func RenderQuick(w io.Writer, fp model.Fingerprint, an analysis.Analysis, colorEnabled bool) {
	bold, yellow, reset := "", "", ""
	if colorEnabled {
		bold, yellow, reset = colorBold, colorYellow, colorReset
	}

	fmt.Fprintf(w, "%shostprint Quick Analysis%s\n", bold, reset)
	fmt.Fprintln(w, "========================")
	fmt.Fprintf(w, "Hostname: %s\n", SanitizeTerminal(fp.System.Hostname))
	fmt.Fprintf(w, "Uptime: %.1f days\n", float64(fp.System.UptimeSeconds)/86400.0)
	fmt.Fprintf(w, "Load: %.2f %.2f %.2f\n", fp.System.LoadAvg[0], fp.System.LoadAvg[1], fp.System.LoadAvg[2])
	fmt.Fprintf(w, "Memory: %.1f%% used\n", fp.System.UsedRAMPct)
	fmt.Fprintf(w, "Processes: %d total\n", fp.ProcessCount)

	fmt.Fprintf(w, "\nPotential Issues:\n")
	fmt.Fprintf(w, "  Zombie processes: %d%s\n", an.ZombieProcesses, mark(an.ZombieProcesses > 0, yellow, reset))
	fmt.Fprintf(w, "  High FD processes: %d%s\n", an.HighFDProcesses, mark(an.HighFDProcesses > 5, yellow, reset))
	fmt.Fprintf(w, "  Long-running (>7d): %d\n", an.LongRunning)
	fmt.Fprintf(w, "  Config permission issues: %d%s\n", an.ConfigIssues, mark(an.ConfigIssues > 0, yellow, reset))

	if !fp.NetworkProbed {
		return
	}

	fmt.Fprintf(w, "\nNetwork:\n")
	fmt.Fprintf(w, "  Listening ports: %d\n", fp.Network.TotalListening)
	fmt.Fprintf(w, "  Established connections: %d\n", fp.Network.TotalEstablished)
	fmt.Fprintf(w, "  Unusual ports: %d%s\n", an.UnusualListeners, mark(an.UnusualListeners > 0, yellow, reset))

	if len(fp.Network.Listeners) == 0 {
		return
	}
	fmt.Fprintf(w, "\n  Listeners:\n")
	shown := 0
	for _, l := range fp.Network.Listeners {
		if shown == listenerDisplayLimit {
			break
		}
		fmt.Fprintf(w, "    %s:%d (%s) - %s\n", l.LocalAddr, l.LocalPort, l.Protocol, SanitizeTerminal(l.Process))
		shown++
	}
	// TotalListening counts past both the display limit and the probe's
	// storage capacity, so the overflow line reflects every observed
	// listener, shown or not.
	if fp.Network.TotalListening > shown {
		fmt.Fprintf(w, "    ... and %d more\n", fp.Network.TotalListening-shown)
	}
}

func mark(on bool, color, reset string) string {
	if !on {
		return ""
	}
	return " " + color + "⚠" + reset
}
