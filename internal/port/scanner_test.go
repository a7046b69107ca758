package port

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// occupyTCPPort binds an ephemeral TCP port and returns its number.
// The listener stays open until test cleanup, keeping the port busy.
func occupyTCPPort(t *testing.T) int {
	t.Helper()

	listener, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = listener.Close() })

	return listener.Addr().(*net.TCPAddr).Port
}

func TestIsPortAvailable_FreePort(t *testing.T) {
	s := NewScanner()

	// Grab an ephemeral port and release it immediately — it is then
	// almost certainly still free when probed.
	listener, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	freePort := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	assert.True(t, s.IsPortAvailable(freePort, "tcp"))
}

func TestIsPortAvailable_BusyPort(t *testing.T) {
	s := NewScanner()
	busyPort := occupyTCPPort(t)

	assert.False(t, s.IsPortAvailable(busyPort, "tcp"))
}

func TestIsPortAvailable_UDP(t *testing.T) {
	s := NewScanner()

	conn, err := net.ListenPacket("udp", ":0")
	require.NoError(t, err)
	busyPort := conn.LocalAddr().(*net.UDPAddr).Port
	t.Cleanup(func() { _ = conn.Close() })

	assert.False(t, s.IsPortAvailable(busyPort, "udp"))
}

func TestIsPortAvailable_InvalidArguments(t *testing.T) {
	s := NewScanner()

	assert.False(t, s.IsPortAvailable(0, "tcp"))
	assert.False(t, s.IsPortAvailable(70000, "tcp"))
	assert.False(t, s.IsPortAvailable(8080, "sctp"))
}

func TestIsPortAvailable_DefaultProtocol(t *testing.T) {
	s := NewScanner()
	busyPort := occupyTCPPort(t)

	// An empty protocol is treated as TCP.
	assert.False(t, s.IsPortAvailable(busyPort, ""))
}
