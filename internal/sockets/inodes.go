package sockets

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// resolver maps socket inodes to owning processes. The index is built in
// one pass over every process's fd table so lookups during aggregation
// never rescan the process tree. A process that exits between the table
// read and this pass, or whose fd directory is unreadable, never makes it
// into the index and its sockets resolve to no owner.
type resolver struct {
	root   string
	owners map[uint64]int
	names  map[int]string
}

func newResolver(root string) *resolver {
	r := &resolver{
		root:   root,
		owners: make(map[uint64]int),
		names:  make(map[int]string),
	}

	procs, err := os.ReadDir(root)
	if err != nil {
		return r
	}

	for _, p := range procs {
		if !p.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(p.Name())
		if err != nil {
			continue
		}

		fdDir := filepath.Join(root, p.Name(), "fd")
		fds, err := os.ReadDir(fdDir)
		if err != nil {
			continue
		}

		for _, fd := range fds {
			link, err := os.Readlink(filepath.Join(fdDir, fd.Name()))
			if err != nil {
				continue
			}
			inode, ok := socketInode(link)
			if !ok {
				continue
			}
			// First process seen keeps the socket, matching scan order.
			if _, taken := r.owners[inode]; !taken {
				r.owners[inode] = pid
			}
		}
	}

	return r
}

// socketInode extracts N from a "socket:[N]" fd link target.
func socketInode(link string) (uint64, bool) {
	if !strings.HasPrefix(link, "socket:[") || !strings.HasSuffix(link, "]") {
		return 0, false
	}
	inode, err := strconv.ParseUint(link[len("socket:[") : len(link)-1], 10, 64)
	if err != nil {
		return 0, false
	}
	return inode, true
}

// owner returns the pid holding the socket, or 0 when nothing does:
// kernel-owned, already exited, or unreadable.
func (r *resolver) owner(inode uint64) int {
	return r.owners[inode]
}

// processName resolves a short command name for a socket owner. A socket
// without an owner belongs to the kernel; an owner whose comm cannot be
// read renders as unknown rather than failing the probe.
func (r *resolver) processName(pid int) string {
	if pid <= 0 {
		return "[kernel]"
	}
	if name, ok := r.names[pid]; ok {
		return name
	}

	name := "[unknown]"
	if data, err := os.ReadFile(filepath.Join(r.root, strconv.Itoa(pid), "comm")); err == nil {
		if comm := strings.TrimSpace(string(data)); comm != "" {
			name = comm
		}
	}
	r.names[pid] = name
	return name
}
