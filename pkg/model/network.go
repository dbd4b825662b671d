package model

// Listener is a socket bound and waiting for traffic: a TCP socket in
// LISTEN state, or any bound UDP socket.
type Listener struct {
	Protocol  string `json:"protocol"` // tcp, tcp6, udp, udp6
	LocalAddr string `json:"local_addr"`
	LocalPort int    `json:"local_port"`
	State     string `json:"state"`
	PID       int    `json:"pid"` // 0 = no owning process found
	Process   string `json:"process"`
}

// Connection is a TCP socket in active bidirectional communication.
type Connection struct {
	Protocol   string `json:"protocol"`
	LocalAddr  string `json:"local_addr"`
	LocalPort  int    `json:"local_port"`
	RemoteAddr string `json:"remote_addr"`
	RemotePort int    `json:"remote_port"`
	State      string `json:"state"`
	PID        int    `json:"pid"`
	Process    string `json:"process"`
}

// NetworkInfo is the socket-state slice of a fingerprint. Listeners and
// Connections keep discovery order and are bounded by the probe's
// capacities; the totals count every observed entry, including the ones
// capacity forced the probe to drop.
type NetworkInfo struct {
	Listeners   []Listener   `json:"listeners"`
	Connections []Connection `json:"connections"`

	TotalListening   int `json:"total_listening"`
	TotalEstablished int `json:"total_established"`
	UnusualPorts     int `json:"unusual_ports"`

	DroppedListeners   int `json:"dropped_listeners,omitempty"`
	DroppedConnections int `json:"dropped_connections,omitempty"`
	SourceErrors       int `json:"source_errors,omitempty"`
}

// Truncated reports whether capacity forced any entry to be dropped.
func (n NetworkInfo) Truncated() bool {
	return n.DroppedListeners > 0 || n.DroppedConnections > 0
}
