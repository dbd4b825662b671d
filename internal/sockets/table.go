package sockets

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

// Socket states as the kernel reports them, from include/net/tcp_states.h.
// UDP reuses the same numbering; a bound but unconnected UDP socket shows
// TCP_CLOSE (0x07).
const (
	stateEstablished = 0x01
	stateUnconnected = 0x07
	stateListen      = 0x0A
)

var tcpStateNames = map[int]string{
	1:  "ESTABLISHED",
	2:  "SYN_SENT",
	3:  "SYN_RECV",
	4:  "FIN_WAIT1",
	5:  "FIN_WAIT2",
	6:  "TIME_WAIT",
	7:  "CLOSE",
	8:  "CLOSE_WAIT",
	9:  "LAST_ACK",
	10: "LISTEN",
	11: "CLOSING",
}

func tcpStateName(state int) string {
	if name, ok := tcpStateNames[state]; ok {
		return name
	}
	return "UNKNOWN"
}

// socketRecord is one parsed row of a kernel socket table.
type socketRecord struct {
	proto      string
	localAddr  string
	localPort  int
	remoteAddr string
	remotePort int
	state      int
	inode      uint64
}

// readTable parses one of the net/{tcp,tcp6,udp,udp6} tables. The first
// line is a header. Rows that do not decode into the expected fields are
// skipped so one malformed row never loses the rest of the table; only a
// table that cannot be opened at all is an error, and the caller keeps
// reading the sibling tables regardless.
func readTable(path, proto string, ipv6 bool) ([]socketRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []socketRecord

	scanner := bufio.NewScanner(f)
	scanner.Scan() // skip header

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 10 {
			continue
		}

		localAddr, localPort, ok := parseAddrPort(fields[1], ipv6)
		if !ok {
			continue
		}
		remoteAddr, remotePort, ok := parseAddrPort(fields[2], ipv6)
		if !ok {
			continue
		}
		state, err := strconv.ParseInt(fields[3], 16, 32)
		if err != nil {
			continue
		}
		inode, err := strconv.ParseUint(fields[9], 10, 64)
		if err != nil {
			continue
		}

		records = append(records, socketRecord{
			proto:      proto,
			localAddr:  localAddr,
			localPort:  localPort,
			remoteAddr: remoteAddr,
			remotePort: remotePort,
			state:      int(state),
			inode:      inode,
		})
	}

	// A read error mid-table still yields the rows parsed before it.
	return records, scanner.Err()
}
