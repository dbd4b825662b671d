//go:build linux

package probe

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var shells = map[string]bool{
	"bash": true,
	"zsh":  true,
	"sh":   true,
	"fish": true,
	"csh":  true,
	"tcsh": true,
	"ksh":  true,
	"dash": true,
	"ash":  true,
}

// originOf classifies how a flagged process came to run: inside a
// container, out of cron, under a shell, as a systemd unit, or straight
// off init. The ancestry walk reuses the stats gathered by the scan, so
// the only extra proc read is one cgroup file.
func originOf(root string, pid int, stats map[int]procStat) string {
	if rt := containerRuntime(root, pid); rt != "" {
		return rt
	}

	chain := ancestry(pid, stats)
	for i := 1; i < len(chain); i++ {
		switch comm := stats[chain[i]].comm; {
		case comm == "cron" || comm == "crond" || comm == "atd":
			return "cron"
		case comm == "supervisord":
			return "supervisord"
		case shells[comm]:
			return "shell"
		}
	}

	if len(chain) > 0 {
		switch top := chain[len(chain)-1]; top {
		case 1:
			if stats[1].comm == "systemd" {
				return "systemd"
			}
			return "init"
		case 2:
			return "kernel"
		}
	}
	return "unknown"
}

// ancestry follows ppid links upward through the scanned process table,
// starting at pid itself. The hop cap guards against ppid cycles in a
// torn snapshot.
func ancestry(pid int, stats map[int]procStat) []int {
	var chain []int
	for hops := 0; hops < 32; hops++ {
		st, ok := stats[pid]
		if !ok {
			break
		}
		chain = append(chain, pid)
		if st.ppid == pid || st.ppid == 0 {
			break
		}
		pid = st.ppid
	}
	return chain
}

// containerRuntime inspects the process cgroup for container manager
// names. Kubernetes pods run a container runtime underneath, so
// kubepods must win over docker and containerd.
func containerRuntime(root string, pid int) string {
	data, err := os.ReadFile(filepath.Join(root, strconv.Itoa(pid), "cgroup"))
	if err != nil {
		return ""
	}
	content := string(data)

	switch {
	case strings.Contains(content, "kubepods"):
		return "kubernetes"
	case strings.Contains(content, "docker"):
		return "docker"
	case strings.Contains(content, "podman"), strings.Contains(content, "libpod"):
		return "podman"
	case strings.Contains(content, "colima"):
		return "colima"
	case strings.Contains(content, "containerd"):
		return "containerd"
	}
	return ""
}
