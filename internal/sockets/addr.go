package sockets

import (
	"encoding/hex"
	"net"
	"strconv"
	"strings"
)

// parseAddrPort decodes one ADDR:PORT field of a kernel socket table. The
// address is hex: IPv4 a single little-endian 32-bit value, IPv6 four
// 32-bit groups, each little-endian. The port is 16-bit hex. A field that
// does not decode exactly reports ok=false so the caller can skip the row.
func parseAddrPort(raw string, ipv6 bool) (addr string, port int, ok bool) {
	parts := strings.Split(raw, ":")
	if len(parts) != 2 {
		return "", 0, false
	}

	p, err := strconv.ParseInt(parts[1], 16, 32)
	if err != nil {
		return "", 0, false
	}

	b, err := hex.DecodeString(parts[0])
	if err != nil {
		return "", 0, false
	}

	if ipv6 {
		if len(b) != 16 {
			return "", 0, false
		}
		// Reverse bytes within each 4-byte group.
		ip := make(net.IP, 16)
		for i := 0; i < 4; i++ {
			ip[i*4+0] = b[i*4+3]
			ip[i*4+1] = b[i*4+2]
			ip[i*4+2] = b[i*4+1]
			ip[i*4+3] = b[i*4+0]
		}
		return ip.String(), int(p), true
	}

	if len(b) != 4 {
		return "", 0, false
	}
	// Little-endian: the first printed octet is the last stored byte.
	ip := strconv.Itoa(int(b[3])) + "." +
		strconv.Itoa(int(b[2])) + "." +
		strconv.Itoa(int(b[1])) + "." +
		strconv.Itoa(int(b[0]))
	return ip, int(p), true
}
