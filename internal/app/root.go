//go:build linux

// Package app wires the command line to the capture pipeline.
package app

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/hostprint/hostprint/internal/analysis"
	"github.com/hostprint/hostprint/internal/output"
	"github.com/hostprint/hostprint/internal/pipeline"
	"github.com/hostprint/hostprint/internal/tui"
)

// Exit codes. 0..2 come from the analysis severity; 3 means the run
// itself failed (bad usage, render error), not that the host is sick.
const (
	exitOK       = 0
	exitWarnings = 1
	exitCritical = 2
	exitError    = 3
)

const (
	minInterval = 1
	maxInterval = 86400
)

var (
	version   = "dev"
	commit    = ""
	buildDate = ""
)

// SetVersionBuildCommitString records ldflags-injected build info.
// Call it before Execute.
func SetVersionBuildCommitString(v, c, d string) {
	if v != "" {
		version = v
	}
	commit = c
	buildDate = d
}

func buildVersion() string {
	v := version
	if commit != "" {
		v += " (commit " + commit
		if buildDate != "" {
			v += ", built " + buildDate
		}
		v += ")"
	}
	return v
}

type options struct {
	quick     bool
	jsonOut   bool
	network   bool
	watch     bool
	interval  int
	verbose   bool
	dashboard bool
}

// Execute parses flags, runs the command and returns the process exit
// code.
func Execute() int {
	var opts options
	exitCode := exitOK

	root := &cobra.Command{
		Use:   "hostprint [flags] [config_files...]",
		Short: "Capture a diagnostic fingerprint of this host",
		Long: `hostprint captures a structured snapshot of host state: system
identity and load, the process table with zombie/fd/age flags, config
file permissions, and optionally the kernel socket tables with the
owning process of every listener.

Positional arguments name config files to check; without them a default
set of system configs is probed.

Exit codes: 0 no issues, 1 warnings, 2 critical findings, 3 run error.`,
		Version:       buildVersion(),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			exitCode = run(opts, args)
			return nil
		},
	}

	flags := root.Flags()
	flags.BoolVarP(&opts.quick, "quick", "q", false, "only show the quick analysis summary")
	flags.BoolVarP(&opts.jsonOut, "json", "j", false, "output JSON to stdout (even in quick mode)")
	flags.BoolVarP(&opts.network, "network", "n", false, "include the network probe (listeners, connections)")
	flags.BoolVarP(&opts.watch, "watch", "w", false, "continuous monitoring mode")
	flags.IntVarP(&opts.interval, "interval", "i", 60, "seconds between probes in watch mode")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "include all processes and enable debug logging")
	flags.BoolVarP(&opts.dashboard, "dashboard", "d", false, "interactive dashboard (implies --network)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return exitError
	}
	return exitCode
}

func run(opts options, configFiles []string) int {
	log.SetLevel(log.WarnLevel)
	if opts.verbose {
		log.SetLevel(log.DebugLevel)
	}
	opts.interval = clampInterval(opts.interval)

	cfg := pipeline.CaptureConfig{
		ConfigFiles: configFiles,
		Network:     opts.network || opts.dashboard,
		Verbose:     opts.verbose,
	}

	if opts.dashboard {
		code, err := tui.Run(tui.Config{
			Capture:  cfg,
			Interval: intervalDuration(opts.interval),
			Version:  buildVersion(),
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return exitError
		}
		return code
	}

	if opts.watch {
		// Watch always renders the quick summary unless JSON is forced.
		opts.quick = true
		return watch(cfg, opts, os.Stdout)
	}

	code, err := runOnce(cfg, opts, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return exitError
	}
	return code
}

// runOnce captures one fingerprint, renders it, and returns the
// severity exit code. JSON is the default shape; --quick switches to
// the text summary and --json forces JSON back on.
func runOnce(cfg pipeline.CaptureConfig, opts options, w io.Writer) (int, error) {
	fp := pipeline.Capture(cfg)
	an := analysis.Analyze(fp)

	if opts.jsonOut || !opts.quick {
		s, err := output.ToJSON(fp, an)
		if err != nil {
			return exitError, err
		}
		fmt.Fprintln(w, s)
	} else {
		output.RenderQuick(w, fp, an, colorEnabled(w))
	}

	return an.Severity.ExitCode(), nil
}

func clampInterval(sec int) int {
	if sec < minInterval {
		return minInterval
	}
	if sec > maxInterval {
		return maxInterval
	}
	return sec
}

// colorEnabled reports whether w is an interactive terminal worth
// coloring.
func colorEnabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0 && os.Getenv("TERM") != "dumb"
}
