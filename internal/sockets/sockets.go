// Package sockets reads the kernel socket tables for TCP/UDP over IPv4
// and IPv6, correlates each socket to its owning process through the fd
// tables, and aggregates the result into the network slice of a host
// fingerprint.
package sockets

import (
	"path/filepath"

	"github.com/hostprint/hostprint/pkg/model"
)

// Default capacities for the stored listener and connection sequences.
// The running totals keep counting past these; only storage is bounded.
const (
	DefaultMaxListeners   = 128
	DefaultMaxConnections = 256
)

// Prober probes the socket tables under Root. The zero value probes /proc
// with the default capacities.
type Prober struct {
	Root           string
	MaxListeners   int
	MaxConnections int
}

type tableSource struct {
	file  string
	proto string
	ipv6  bool
	udp   bool
}

var tableSources = []tableSource{
	{file: "net/tcp", proto: "tcp"},
	{file: "net/tcp6", proto: "tcp6", ipv6: true},
	{file: "net/udp", proto: "udp", udp: true},
	{file: "net/udp6", proto: "udp6", ipv6: true, udp: true},
}

// Probe reads the four tables in a fixed order, so entry order in the
// result is discovery order. Every table is read regardless of whether
// the previous one succeeded; an unopenable table only bumps
// SourceErrors. A probe is one atomic unit of work: it runs to completion
// once started, and the returned structure is owned by the caller.
func (p Prober) Probe() model.NetworkInfo {
	root := p.Root
	if root == "" {
		root = "/proc"
	}
	maxListeners := p.MaxListeners
	if maxListeners <= 0 {
		maxListeners = DefaultMaxListeners
	}
	maxConnections := p.MaxConnections
	if maxConnections <= 0 {
		maxConnections = DefaultMaxConnections
	}

	agg := &aggregator{
		owners:         newResolver(root),
		maxListeners:   maxListeners,
		maxConnections: maxConnections,
	}

	for _, src := range tableSources {
		records, err := readTable(filepath.Join(root, src.file), src.proto, src.ipv6)
		if err != nil {
			agg.info.SourceErrors++
		}
		for _, rec := range records {
			if src.udp {
				agg.addUDP(rec)
			} else {
				agg.addTCP(rec)
			}
		}
	}

	return agg.info
}

// aggregator applies the classification and capacity rules while the
// tables are read.
type aggregator struct {
	info           model.NetworkInfo
	owners         *resolver
	maxListeners   int
	maxConnections int
}

// addTCP stores LISTEN sockets as listeners and ESTABLISHED sockets as
// connections. All other states are parsed but not aggregated.
func (a *aggregator) addTCP(rec socketRecord) {
	switch rec.state {
	case stateListen:
		a.addListener(rec, tcpStateName(rec.state))
	case stateEstablished:
		a.addConnection(rec)
	}
}

// addUDP treats any bound socket as a listener: UDP has no handshake, so
// the unconnected state or a non-zero local port both mean the socket can
// receive traffic.
func (a *aggregator) addUDP(rec socketRecord) {
	if rec.state == stateUnconnected || rec.localPort != 0 {
		a.addListener(rec, "LISTEN")
	}
}

func (a *aggregator) addListener(rec socketRecord, state string) {
	a.info.TotalListening++
	if !isCommonPort(rec.localPort) {
		a.info.UnusualPorts++
	}

	if len(a.info.Listeners) >= a.maxListeners {
		a.info.DroppedListeners++
		return
	}

	pid := a.owners.owner(rec.inode)
	a.info.Listeners = append(a.info.Listeners, model.Listener{
		Protocol:  rec.proto,
		LocalAddr: rec.localAddr,
		LocalPort: rec.localPort,
		State:     state,
		PID:       pid,
		Process:   a.owners.processName(pid),
	})
}

func (a *aggregator) addConnection(rec socketRecord) {
	a.info.TotalEstablished++

	if len(a.info.Connections) >= a.maxConnections {
		a.info.DroppedConnections++
		return
	}

	pid := a.owners.owner(rec.inode)
	a.info.Connections = append(a.info.Connections, model.Connection{
		Protocol:   rec.proto,
		LocalAddr:  rec.localAddr,
		LocalPort:  rec.localPort,
		RemoteAddr: rec.remoteAddr,
		RemotePort: rec.remotePort,
		State:      tcpStateName(rec.state),
		PID:        pid,
		Process:    a.owners.processName(pid),
	})
}
