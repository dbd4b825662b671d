//go:build linux

// Package checks stats watched config files for permission problems.
package checks

import (
	"fmt"
	"os"
	"syscall"

	"github.com/hostprint/hostprint/pkg/model"
)

// DefaultConfigFiles are probed when the command line names none.
var DefaultConfigFiles = []string{
	"/etc/hosts",
	"/etc/passwd",
	"/etc/ssh/sshd_config",
	"/etc/fstab",
	"/etc/resolv.conf",
}

// Configs stats each path and records mode, owner, size and mtime,
// preserving argument order. The second return value counts paths that
// could not be statted; a missing config is recorded as absent, not
// treated as a permission issue.
func Configs(paths []string) ([]model.ConfigCheck, int) {
	results := make([]model.ConfigCheck, 0, len(paths))
	failed := 0

	for _, path := range paths {
		check := model.ConfigCheck{Path: path}

		fi, err := os.Stat(path)
		if err != nil {
			failed++
			results = append(results, check)
			continue
		}

		check.Exists = true
		check.Mode = fmt.Sprintf("%04o", fi.Mode().Perm())
		check.SizeBytes = fi.Size()
		check.ModTime = fi.ModTime()
		check.WorldWritable = fi.Mode().Perm()&0o002 != 0
		if st, ok := fi.Sys().(*syscall.Stat_t); ok {
			check.OwnerUID = int(st.Uid)
			check.NonRootOwner = st.Uid != 0
		}

		results = append(results, check)
	}

	return results, failed
}
