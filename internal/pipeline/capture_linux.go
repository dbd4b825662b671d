//go:build linux

// Package pipeline assembles the individual probes into a fingerprint.
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/hostprint/hostprint/internal/checks"
	"github.com/hostprint/hostprint/internal/probe"
	"github.com/hostprint/hostprint/internal/sockets"
	"github.com/hostprint/hostprint/pkg/model"
)

// CaptureConfig selects what one capture gathers.
type CaptureConfig struct {
	ConfigFiles []string // empty means checks.DefaultConfigFiles
	Network     bool
	Verbose     bool

	// ProcRoot overrides the proc mount point; tests aim it at
	// synthetic trees. Empty means /proc.
	ProcRoot       string
	MaxListeners   int
	MaxConnections int
}

// Capture runs every probe once and assembles the result. Probes fail
// independently: failures accumulate in ProbeErrors and never abort the
// capture, so a degraded fingerprint still comes back whole.
func Capture(cfg CaptureConfig) model.Fingerprint {
	fp := model.Fingerprint{Timestamp: time.Now()}

	var failed int
	fp.System, failed = probe.System()
	fp.ProbeErrors += failed
	log.Debug("system probed", "failed_sources", failed)

	scan := probe.Scanner{Root: cfg.ProcRoot, Verbose: cfg.Verbose}.Scan()
	fp.ProcessCount = scan.Count
	fp.Processes = scan.Notable
	if cfg.Verbose {
		fp.Processes = scan.All
	}
	log.Debug("processes scanned", "count", scan.Count, "notable", len(scan.Notable))

	configs := cfg.ConfigFiles
	if len(configs) == 0 {
		configs = checks.DefaultConfigFiles
	}
	fp.Configs, failed = checks.Configs(configs)
	fp.ProbeErrors += failed
	log.Debug("configs checked", "count", len(configs), "failed", failed)

	if cfg.Network {
		fp.Network = sockets.Prober{
			Root:           cfg.ProcRoot,
			MaxListeners:   cfg.MaxListeners,
			MaxConnections: cfg.MaxConnections,
		}.Probe()
		fp.NetworkProbed = true
		fp.ProbeErrors += fp.Network.SourceErrors
		log.Debug("sockets probed",
			"listening", fp.Network.TotalListening,
			"established", fp.Network.TotalEstablished,
			"source_errors", fp.Network.SourceErrors)
	}

	if fp.ProbeErrors > 0 {
		log.Warn("some probes failed", "errors", fp.ProbeErrors)
	}

	return fp
}
