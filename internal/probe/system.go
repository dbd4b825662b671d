// Package probe captures the host-level half of a fingerprint: the
// system snapshot and the process table. The socket tables are read by
// internal/sockets.
package probe

import (
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/hostprint/hostprint/pkg/model"
)

// System collects hostname, kernel version, uptime, load averages and
// memory. Sources fail independently: each failure is counted and
// leaves zero values behind, so a partial snapshot still produces a
// usable fingerprint.
func System() (model.SystemInfo, int) {
	var info model.SystemInfo
	failed := 0

	if hi, err := host.Info(); err == nil {
		info.Hostname = hi.Hostname
		info.KernelVersion = hi.KernelVersion
		info.UptimeSeconds = hi.Uptime
	} else {
		failed++
	}

	if avg, err := load.Avg(); err == nil {
		info.LoadAvg = [3]float64{avg.Load1, avg.Load5, avg.Load15}
	} else {
		failed++
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		info.TotalRAM = vm.Total
		info.FreeRAM = vm.Available
		info.UsedRAMPct = vm.UsedPercent
	} else {
		failed++
	}

	return info, failed
}
