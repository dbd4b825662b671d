//go:build linux

package probe

import (
	"bufio"
	"errors"
	"os"
	"os/user"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/hostprint/hostprint/pkg/model"
)

const (
	highFDThreshold    = 100
	longRunningSeconds = 7 * 24 * 60 * 60

	// USER_HZ. The kernel reports stat times in these units on every
	// mainstream architecture regardless of the scheduler tick.
	clockTicks = 100
)

// Scanner walks a proc tree and summarizes every live process. Root is
// the proc mount point; the zero value reads the host's /proc. Tests
// point Root at a synthetic tree.
type Scanner struct {
	Root    string
	Verbose bool
}

// ProcessScan is the result of one pass over the process table. Notable
// holds the flagged processes; All is filled only on verbose scans.
type ProcessScan struct {
	Count   int
	Notable []model.Process
	All     []model.Process
}

func (s Scanner) root() string {
	if s.Root == "" {
		return "/proc"
	}
	return s.Root
}

// Scan reads every numeric proc entry once, in pid order. Processes
// that vanish or deny access mid-scan are skipped; the scan itself
// never fails.
func (s Scanner) Scan() ProcessScan {
	root := s.root()

	entries, err := os.ReadDir(root)
	if err != nil {
		return ProcessScan{}
	}

	stats := make(map[int]procStat, len(entries))
	pids := make([]int, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}
		st, err := readStat(root, pid)
		if err != nil {
			continue
		}
		stats[pid] = st
		pids = append(pids, pid)
	}
	sort.Ints(pids)

	boot := bootTime(root)
	now := time.Now()
	users := make(map[int]string)

	scan := ProcessScan{Count: len(pids)}
	if s.Verbose {
		scan.All = make([]model.Process, 0, len(pids))
	}

	for _, pid := range pids {
		st := stats[pid]
		p := model.Process{
			PID:     pid,
			PPID:    st.ppid,
			Command: st.comm,
			State:   st.state,
			User:    userName(ownerUID(root, pid), users),
			FDCount: fdCount(root, pid),
		}
		if !boot.IsZero() {
			p.StartedAt = boot.Add(time.Duration(st.startTicks) * time.Second / clockTicks)
			p.AgeSeconds = int64(now.Sub(p.StartedAt) / time.Second)
		}
		p.Zombie = p.State == "Z"
		p.HighFD = p.FDCount > highFDThreshold
		p.LongRunning = p.AgeSeconds > longRunningSeconds

		if p.Zombie || p.HighFD || p.LongRunning {
			p.Origin = originOf(root, pid, stats)
			scan.Notable = append(scan.Notable, p)
		}
		if s.Verbose {
			scan.All = append(scan.All, p)
		}
	}

	return scan
}

// procStat is the subset of /proc/PID/stat the scan needs. The command
// sits inside parens and may itself contain spaces or parens, so the
// split happens after the last closing paren: state is then fields[0],
// ppid fields[1], and the start tick count fields[19].
type procStat struct {
	comm       string
	state      string
	ppid       int
	startTicks int64
}

func readStat(root string, pid int) (procStat, error) {
	raw, err := os.ReadFile(filepath.Join(root, strconv.Itoa(pid), "stat"))
	if err != nil {
		return procStat{}, err
	}

	s := string(raw)
	open := strings.Index(s, "(")
	close := strings.LastIndex(s, ")")
	if open == -1 || close == -1 || close <= open || close+2 > len(s) {
		return procStat{}, errors.New("malformed stat")
	}

	fields := strings.Fields(s[close+2:])
	if len(fields) < 20 {
		return procStat{}, errors.New("short stat")
	}

	st := procStat{
		comm:  s[open+1 : close],
		state: fields[0][:1],
	}
	st.ppid, _ = strconv.Atoi(fields[1])
	st.startTicks, _ = strconv.ParseInt(fields[19], 10, 64)
	return st, nil
}

// bootTime reads the btime line of /proc/stat: the boot moment in
// seconds since the epoch. A zero time means ages cannot be derived.
func bootTime(root string) time.Time {
	f, err := os.Open(filepath.Join(root, "stat"))
	if err != nil {
		return time.Time{}
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		rest, ok := strings.CutPrefix(scanner.Text(), "btime ")
		if !ok {
			continue
		}
		sec, err := strconv.ParseInt(strings.TrimSpace(rest), 10, 64)
		if err != nil {
			return time.Time{}
		}
		return time.Unix(sec, 0)
	}
	return time.Time{}
}

// fdCount returns the number of open descriptors, or -1 when the fd
// directory cannot be read (typically another user's process).
func fdCount(root string, pid int) int {
	entries, err := os.ReadDir(filepath.Join(root, strconv.Itoa(pid), "fd"))
	if err != nil {
		return -1
	}
	return len(entries)
}

func ownerUID(root string, pid int) int {
	fi, err := os.Stat(filepath.Join(root, strconv.Itoa(pid)))
	if err != nil {
		return -1
	}
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return -1
	}
	return int(st.Uid)
}

// userName resolves a uid once per scan and caches it; uids with no
// passwd entry keep their numeric form.
func userName(uid int, cache map[int]string) string {
	if uid < 0 {
		return ""
	}
	if name, ok := cache[uid]; ok {
		return name
	}
	name := strconv.Itoa(uid)
	if u, err := user.LookupId(name); err == nil && u.Username != "" {
		name = u.Username
	}
	cache[uid] = name
	return name
}
