package docker

import (
	"testing"

	"github.com/docker/docker/api/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/devstack/internal/model"
)

// --- containerToInfo tests ---

func TestContainerToInfo(t *testing.T) {
	c := types.Container{
		ID:    "abc123",
		Names: []string{"/devstack-api-1"},
		State: "running",
		Labels: map[string]string{
			LabelComposeProject: "devstack",
			LabelComposeService: "api",
		},
	}

	info := containerToInfo(c)

	assert.Equal(t, "abc123", info.ContainerID)
	// The leading "/" from the Docker API is stripped.
	assert.Equal(t, "devstack-api-1", info.ContainerName)
	assert.Equal(t, "api", info.ServiceName)
	assert.Equal(t, "running", info.Status)
}

func TestContainerToInfo_NoNames(t *testing.T) {
	info := containerToInfo(types.Container{ID: "abc123"})
	assert.Empty(t, info.ContainerName)
	assert.Empty(t, info.ServiceName)
}

// --- StackStatusOf tests ---

func TestStackStatusOf(t *testing.T) {
	tests := []struct {
		name       string
		containers []model.ContainerInfo
		want       model.StackStatus
	}{
		{
			name:       "no containers",
			containers: nil,
			want:       model.StatusAbsent,
		},
		{
			name: "one running among stopped",
			containers: []model.ContainerInfo{
				{ServiceName: "api", Status: "exited"},
				{ServiceName: "admin", Status: "running"},
			},
			want: model.StatusRunning,
		},
		{
			name: "all stopped",
			containers: []model.ContainerInfo{
				{ServiceName: "api", Status: "exited"},
				{ServiceName: "docs", Status: "created"},
			},
			want: model.StatusStopped,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StackStatusOf(tt.containers))
		})
	}
}

// --- PublishedHostPorts tests ---

func TestPublishedHostPorts(t *testing.T) {
	containers := []types.Container{
		{Ports: []types.Port{{PrivatePort: 8080, PublicPort: 8080}}},
		{Ports: []types.Port{{PrivatePort: 8000}}}, // unpublished
	}

	ports := PublishedHostPorts(containers)
	assert.Equal(t, map[int]bool{8080: true}, ports)
}

// --- ComposeRunner tests ---

func TestComposeRunnerBaseArgs(t *testing.T) {
	r := NewComposeRunner("docker", "/proj", "devstack",
		[]string{"compose.yaml", "compose.override.yaml"})

	args := r.baseArgs()
	assert.Equal(t, []string{
		"compose",
		"-p", "devstack",
		"-f", "compose.yaml",
		"-f", "compose.override.yaml",
	}, args)
}

func TestComposeRunnerBaseArgs_NoProject(t *testing.T) {
	r := NewComposeRunner("", "/proj", "", []string{"compose.yaml"})

	// The binary defaults to docker when unset.
	require.Equal(t, "docker", r.Binary)
	assert.Equal(t, []string{"compose", "-f", "compose.yaml"}, r.baseArgs())
}
