package sockets

// Ports regularly bound by well-known services. A listener outside this
// set and below the ephemeral range is the primary signal of an unplanned
// or unauthorized service.
var commonPorts = map[int]bool{
	22:    true, // SSH
	25:    true, // SMTP
	53:    true, // DNS
	80:    true, // HTTP
	110:   true, // POP3
	143:   true, // IMAP
	443:   true, // HTTPS
	465:   true, // SMTPS
	587:   true, // Submission
	993:   true, // IMAPS
	995:   true, // POP3S
	3306:  true, // MySQL
	5432:  true, // PostgreSQL
	6379:  true, // Redis
	8080:  true, // HTTP Alt
	8443:  true, // HTTPS Alt
	27017: true, // MongoDB
}

// ephemeralStart is the bottom of the range auto-assigned for outbound
// connections; ports at or above it are expected.
const ephemeralStart = 32768

func isCommonPort(port int) bool {
	return commonPorts[port] || port >= ephemeralStart
}
