package port

import (
	"fmt"
	"net"
)

// Scanner checks whether specific ports are available on the host
// machine by asking the operating system's network stack directly
// (net.Listen / net.ListenPacket). This is more reliable than parsing
// /proc/net/* or shelling out to lsof/ss, which may require elevated
// permissions.
//
// Defined as a struct rather than bare functions so it can be injected
// as a dependency and extended (bind address, timeout) without breaking
// the API.
type Scanner struct{}

// NewScanner creates a new Scanner instance.
func NewScanner() *Scanner {
	return &Scanner{}
}

// IsPortAvailable checks whether a single port is free on the host.
//
// For TCP it attempts net.Listen, for UDP net.ListenPacket. A
// successful bind means the port is available; the probe listener is
// closed immediately.
//
// The probe binds all interfaces (":port") because Docker publishes
// ports on 0.0.0.0 by default, so the same address space must be
// checked to avoid false positives.
//
// Returns true if the port is free, false if it is in use or the
// arguments are invalid.
func (s *Scanner) IsPortAvailable(port int, protocol string) bool {
	if port < 1 || port > 65535 {
		return false
	}

	addr := fmt.Sprintf(":%d", port)

	switch protocol {
	case "tcp", "":
		listener, err := net.Listen("tcp", addr)
		if err != nil {
			return false
		}
		defer listener.Close()
		return true

	case "udp":
		conn, err := net.ListenPacket("udp", addr)
		if err != nil {
			return false
		}
		defer conn.Close()
		return true

	default:
		return false
	}
}
