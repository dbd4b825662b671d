package model

import "time"

// SystemInfo is the host-level snapshot: identity, uptime, load, memory.
type SystemInfo struct {
	Hostname      string     `json:"hostname"`
	KernelVersion string     `json:"kernel_version,omitempty"`
	UptimeSeconds uint64     `json:"uptime_seconds"`
	LoadAvg       [3]float64 `json:"load_avg"`
	TotalRAM      uint64     `json:"total_ram"`
	FreeRAM       uint64     `json:"free_ram"`
	UsedRAMPct    float64    `json:"used_ram_percent"`
}

// Process is one row of the process table. The three flag fields mark the
// conditions the analysis layer counts.
type Process struct {
	PID         int       `json:"pid"`
	PPID        int       `json:"ppid"`
	Command     string    `json:"command"`
	State       string    `json:"state"`
	User        string    `json:"user,omitempty"`
	Origin      string    `json:"origin,omitempty"` // systemd, container, shell, cron, init, ...
	StartedAt   time.Time `json:"started_at"`
	AgeSeconds  int64     `json:"age_seconds"`
	FDCount     int       `json:"fd_count"` // -1 = could not be read
	Zombie      bool      `json:"zombie,omitempty"`
	HighFD      bool      `json:"high_fd,omitempty"`
	LongRunning bool      `json:"long_running,omitempty"`
}

// ConfigCheck records the permission state of one watched config file.
type ConfigCheck struct {
	Path          string    `json:"path"`
	Exists        bool      `json:"exists"`
	Mode          string    `json:"mode,omitempty"`
	OwnerUID      int       `json:"owner_uid"`
	SizeBytes     int64     `json:"size_bytes"`
	ModTime       time.Time `json:"mtime,omitzero"`
	WorldWritable bool      `json:"world_writable,omitempty"`
	NonRootOwner  bool      `json:"non_root_owner,omitempty"`
}

// Issue reports whether this check found a permission problem.
func (c ConfigCheck) Issue() bool {
	return c.Exists && (c.WorldWritable || c.NonRootOwner)
}

// Fingerprint is the full structured snapshot of host state captured in
// one probe cycle. It is allocated fresh per probe, filled once, and
// read-only after capture returns.
type Fingerprint struct {
	Timestamp     time.Time     `json:"timestamp"`
	System        SystemInfo    `json:"system"`
	ProcessCount  int           `json:"process_count"`
	Processes     []Process     `json:"processes,omitempty"`
	Configs       []ConfigCheck `json:"configs"`
	Network       NetworkInfo   `json:"network"`
	NetworkProbed bool          `json:"network_probed"`
	ProbeErrors   int           `json:"probe_errors"`
}
