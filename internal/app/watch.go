//go:build linux

package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/hostprint/hostprint/internal/pipeline"
)

// watch runs probes forever until SIGINT or SIGTERM, printing a
// timestamped quick report per iteration. Returns the worst exit code
// observed across iterations.
func watch(cfg pipeline.CaptureConfig, opts options, w io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "hostprint %s - watch mode (Ctrl+C to stop)\n", version)
	fmt.Fprintf(os.Stderr, "Interval: %d seconds\n\n", opts.interval)

	worst := runWatch(ctx, intervalDuration(opts.interval), func() int {
		fmt.Fprintf(w, "[%s] ", time.Now().Format("2006-01-02 15:04:05"))
		code, err := runOnce(cfg, opts, w)
		if err != nil {
			log.Error("iteration failed", "err", err)
			code = exitError
		}
		fmt.Fprintf(w, " [%s]\n", statusTag(code))
		return code
	})

	fmt.Fprintln(os.Stderr, "\nShutting down...")
	return worst
}

// runWatch is the watch loop itself. A probe that has started always
// runs to completion: cancellation is observed only in the wait between
// iterations, never mid-probe.
func runWatch(ctx context.Context, interval time.Duration, probeOnce func() int) int {
	worst := exitOK
	for {
		if code := probeOnce(); code > worst {
			worst = code
		}
		select {
		case <-ctx.Done():
			return worst
		case <-time.After(interval):
		}
	}
}

func statusTag(code int) string {
	switch code {
	case exitCritical:
		return "CRITICAL"
	case exitWarnings:
		return "WARNINGS"
	case exitError:
		return "ERROR"
	default:
		return "OK"
	}
}

func intervalDuration(sec int) time.Duration {
	return time.Duration(sec) * time.Second
}
