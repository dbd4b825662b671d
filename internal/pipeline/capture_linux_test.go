//go:build linux

package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hostprint/hostprint/internal/checks"
)

// fakeProcRoot builds a minimal proc tree: boot time, one process and
// all four socket tables, with a single listener on an unusual port.
func fakeProcRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	btime := fmt.Sprintf("cpu  1 2 3 4 5 6 7 0 0 0\nbtime %d\nprocesses 77\n", time.Now().Unix()-3600)
	if err := os.WriteFile(filepath.Join(root, "stat"), []byte(btime), 0o644); err != nil {
		t.Fatal(err)
	}

	pidDir := filepath.Join(root, "1")
	if err := os.MkdirAll(filepath.Join(pidDir, "fd"), 0o755); err != nil {
		t.Fatal(err)
	}
	stat := "1 (systemd) S 0 1 1 0 -1 4194304 0 0 0 0 0 0 0 0 20 0 1 0 0 4096000 100 18446744073709551615\n"
	if err := os.WriteFile(filepath.Join(pidDir, "stat"), []byte(stat), 0o644); err != nil {
		t.Fatal(err)
	}

	netDir := filepath.Join(root, "net")
	if err := os.MkdirAll(netDir, 0o755); err != nil {
		t.Fatal(err)
	}
	header := "  sl  local_address rem_address   st tx_queue rx_queue tr tm->when retrnsmt   uid  timeout inode\n"
	row := "   0: 0100007F:270F 00000000:0000 0A 00000000:00000000 00:00000000 00000000     0        0 42 1 0000000000000000 100 0 0 10 0\n"
	for _, name := range []string{"tcp", "tcp6", "udp", "udp6"} {
		content := header
		if name == "tcp" {
			content += row
		}
		if err := os.WriteFile(filepath.Join(netDir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	return root
}

func TestCapture(t *testing.T) {
	root := fakeProcRoot(t)
	conf := filepath.Join(t.TempDir(), "app.conf")
	if err := os.WriteFile(conf, []byte("key=value\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	fp := Capture(CaptureConfig{
		ConfigFiles: []string{conf},
		Network:     true,
		ProcRoot:    root,
	})

	if time.Since(fp.Timestamp) > time.Minute {
		t.Errorf("stale timestamp %v", fp.Timestamp)
	}
	if fp.ProcessCount != 1 {
		t.Errorf("ProcessCount = %d, want 1", fp.ProcessCount)
	}
	if len(fp.Configs) != 1 || !fp.Configs[0].Exists {
		t.Errorf("configs = %+v", fp.Configs)
	}
	if !fp.NetworkProbed {
		t.Error("NetworkProbed = false with network enabled")
	}
	if fp.Network.TotalListening != 1 {
		t.Errorf("TotalListening = %d, want 1", fp.Network.TotalListening)
	}
	if fp.Network.UnusualPorts != 1 {
		t.Errorf("UnusualPorts = %d, want 1 (port 9999)", fp.Network.UnusualPorts)
	}
}

func TestCaptureNetworkDisabled(t *testing.T) {
	root := fakeProcRoot(t)

	fp := Capture(CaptureConfig{
		ConfigFiles: []string{"/etc/hosts"},
		ProcRoot:    root,
	})

	if fp.NetworkProbed {
		t.Error("NetworkProbed = true with network disabled")
	}
	if fp.Network.TotalListening != 0 || len(fp.Network.Listeners) != 0 {
		t.Errorf("network block not empty: %+v", fp.Network)
	}
}

func TestCaptureVerboseKeepsAllProcesses(t *testing.T) {
	root := fakeProcRoot(t)

	fp := Capture(CaptureConfig{
		ConfigFiles: []string{"/etc/hosts"},
		Verbose:     true,
		ProcRoot:    root,
	})

	if len(fp.Processes) != fp.ProcessCount {
		t.Errorf("verbose processes = %d, want %d", len(fp.Processes), fp.ProcessCount)
	}
}

func TestCaptureAccumulatesProbeErrors(t *testing.T) {
	// Bare root: no proc stat, no socket tables.
	root := t.TempDir()
	missing := filepath.Join(root, "no-such.conf")

	fp := Capture(CaptureConfig{
		ConfigFiles: []string{missing},
		Network:     true,
		ProcRoot:    root,
	})

	// One unreadable config plus four unreadable socket tables.
	if fp.ProbeErrors < 5 {
		t.Errorf("ProbeErrors = %d, want at least 5", fp.ProbeErrors)
	}
	if !fp.NetworkProbed {
		t.Error("NetworkProbed should be true even when every source fails")
	}
	if len(fp.Configs) != 1 || fp.Configs[0].Exists {
		t.Errorf("configs = %+v", fp.Configs)
	}
}

func TestCaptureDefaultConfigs(t *testing.T) {
	root := fakeProcRoot(t)

	fp := Capture(CaptureConfig{ProcRoot: root})

	if len(fp.Configs) != len(checks.DefaultConfigFiles) {
		t.Fatalf("got %d configs, want %d defaults", len(fp.Configs), len(checks.DefaultConfigFiles))
	}
	for i, want := range checks.DefaultConfigFiles {
		if fp.Configs[i].Path != want {
			t.Errorf("config %d = %q, want %q", i, fp.Configs[i].Path, want)
		}
	}
}
