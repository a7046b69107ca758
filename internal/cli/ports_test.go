package cli

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/devstack/internal/compose"
	"github.com/mmr-tortoise/devstack/internal/model"
	"github.com/mmr-tortoise/devstack/internal/port"
)

func TestBuildPortReports_States(t *testing.T) {
	// A held listener gives a deterministic "in use" port; closing one
	// immediately gives a port that is almost certainly still free.
	busyListener, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = busyListener.Close() })
	busyPort := busyListener.Addr().(*net.TCPAddr).Port

	freeListener, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	freePort := freeListener.Addr().(*net.TCPAddr).Port
	require.NoError(t, freeListener.Close())

	bindings := []model.PortBinding{
		{ServiceName: "api", ContainerPort: 8000, Protocol: "tcp"},
		{ServiceName: "admin", HostPort: freePort, ContainerPort: 8080, Protocol: "tcp"},
		{ServiceName: "server", HostPort: busyPort, ContainerPort: 80, Protocol: "tcp"},
		{ServiceName: "docs", HostPort: busyPort, ContainerPort: 8001, Protocol: "tcp"},
	}

	// The docs binding's port is exempted as project-owned, so the same
	// busy port classifies differently for server and docs.
	reports := buildPortReports(port.NewScanner(), bindings, map[int]bool{})
	require.Len(t, reports, 4)
	assert.Equal(t, portStateUnpublished, reports[0].State)
	assert.Equal(t, portStateAvailable, reports[1].State)
	assert.Equal(t, portStateInUse, reports[2].State)

	owned := buildPortReports(port.NewScanner(), bindings[3:], map[int]bool{busyPort: true})
	require.Len(t, owned, 1)
	assert.Equal(t, portStateOwned, owned[0].State)
}

func TestFormatServicePorts(t *testing.T) {
	svc := &compose.Service{
		Name: "admin",
		Ports: []model.PortBinding{
			{ServiceName: "admin", HostPort: 8080, ContainerPort: 8080, Protocol: "tcp"},
			{ServiceName: "admin", ContainerPort: 9000, Protocol: "tcp"},
		},
	}

	assert.Equal(t, "8080:8080,9000/tcp", formatServicePorts(svc))
	assert.Equal(t, "-", formatServicePorts(&compose.Service{Name: "server"}))
}

func TestServiceSource(t *testing.T) {
	assert.Equal(t, "adminer", serviceSource(&compose.Service{Image: "adminer"}))
	assert.Equal(t, "build:./Dockerfile", serviceSource(&compose.Service{
		Build: &compose.BuildConfig{Context: ".", Dockerfile: "Dockerfile"},
	}))
	assert.Equal(t, "-", serviceSource(&compose.Service{}))
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "0123456789ab", shortID("0123456789abcdef0123"))
	assert.Equal(t, "abc", shortID("abc"))
}
