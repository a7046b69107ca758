package port

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/devstack/internal/model"
)

func TestCheckBindings_NoConflicts(t *testing.T) {
	s := NewScanner()

	// Unpublished bindings never touch the host.
	bindings := []model.PortBinding{
		{ServiceName: "api", ContainerPort: 8000, Protocol: "tcp"},
		{ServiceName: "docs", ContainerPort: 8001, Protocol: "tcp"},
	}

	conflicts := CheckBindings(s, bindings, nil)
	assert.Empty(t, conflicts)
}

func TestCheckBindings_DuplicateDeclaration(t *testing.T) {
	s := NewScanner()
	freePort := occupyTCPPort(t) // any valid number works; duplicates are checked first

	bindings := []model.PortBinding{
		{ServiceName: "admin", HostPort: freePort, ContainerPort: 8080, Protocol: "tcp"},
		{ServiceName: "server", HostPort: freePort, ContainerPort: 80, Protocol: "tcp"},
	}

	// Mark the port as project-owned so only the duplicate is reported,
	// not the host conflict with the test's own listener.
	conflicts := CheckBindings(s, bindings, map[int]bool{freePort: true})
	require.Len(t, conflicts, 1)
	assert.Equal(t, "server", conflicts[0].Binding.ServiceName)
	assert.Contains(t, conflicts[0].Reason, `"admin"`)
}

func TestCheckBindings_HostConflict(t *testing.T) {
	s := NewScanner()
	busyPort := occupyTCPPort(t)

	bindings := []model.PortBinding{
		{ServiceName: "admin", HostPort: busyPort, ContainerPort: 8080, Protocol: "tcp"},
	}

	conflicts := CheckBindings(s, bindings, nil)
	require.Len(t, conflicts, 1)
	assert.Contains(t, conflicts[0].Reason, "already in use")
}

func TestCheckBindings_OwnPortsExempt(t *testing.T) {
	s := NewScanner()
	busyPort := occupyTCPPort(t)

	bindings := []model.PortBinding{
		{ServiceName: "admin", HostPort: busyPort, ContainerPort: 8080, Protocol: "tcp"},
	}

	// The busy port belongs to the project's own running container, so
	// a repeated `up` must not flag it.
	conflicts := CheckBindings(s, bindings, map[int]bool{busyPort: true})
	assert.Empty(t, conflicts)
}

func TestConflictString(t *testing.T) {
	c := Conflict{
		Binding: model.PortBinding{ServiceName: "admin", HostPort: 8080, ContainerPort: 8080, Protocol: "tcp"},
		Reason:  "host port 8080/tcp is already in use by another process",
	}
	assert.Equal(t, "admin: 8080 → 8080/tcp: host port 8080/tcp is already in use by another process", c.String())
}
