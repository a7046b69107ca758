package docker

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"

	"github.com/mmr-tortoise/devstack/internal/model"
)

// Compose runtime label keys. The runtime stamps every container it
// creates with these labels; devstack reads them for discovery and
// never writes its own.
const (
	// LabelComposeProject holds the Compose project name.
	LabelComposeProject = "com.docker.compose.project"

	// LabelComposeService holds the service name the container was
	// created for.
	LabelComposeService = "com.docker.compose.service"
)

// ListProjectContainers queries the Docker daemon for all containers the
// Compose runtime created for the given project, including stopped ones.
//
// Filtering happens server-side via a label filter, which is cheaper
// than listing everything and filtering in Go. Results are sorted by
// service name, then container name, for deterministic output.
func ListProjectContainers(ctx context.Context, cli *Client, project string) ([]model.ContainerInfo, error) {
	filterArgs := filters.NewArgs(
		filters.Arg("label", LabelComposeProject+"="+project),
	)

	// All includes stopped/exited containers — a stopped stack still
	// needs to show up in `ps` and be startable again.
	containers, err := cli.Inner().ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filterArgs,
	})
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitDockerNotRunning,
			"failed to list Docker containers",
			err,
		)
	}

	result := make([]model.ContainerInfo, 0, len(containers))
	for _, c := range containers {
		result = append(result, containerToInfo(c))
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].ServiceName != result[j].ServiceName {
			return result[i].ServiceName < result[j].ServiceName
		}
		return result[i].ContainerName < result[j].ContainerName
	})

	return result, nil
}

// containerToInfo converts a Docker API Container struct to the domain
// model, decoupling the rest of the application from SDK types.
//
// The Docker API returns container names with a leading "/" prefix,
// which is stripped for display. The service name comes from the
// Compose runtime's own label.
func containerToInfo(c types.Container) model.ContainerInfo {
	name := ""
	if len(c.Names) > 0 {
		// The leading "/" is an API artifact, not meaningful to users.
		name = strings.TrimPrefix(c.Names[0], "/")
	}

	return model.ContainerInfo{
		ContainerID:   c.ID,
		ContainerName: name,
		ServiceName:   c.Labels[LabelComposeService],
		Status:        c.State,
		Labels:        c.Labels,
	}
}

// StackStatusOf derives the aggregate stack status from its containers:
//
//  1. No containers → absent (`up` never ran, or `down` removed them)
//  2. At least one container running → running
//  3. Containers exist but none running → stopped
func StackStatusOf(containers []model.ContainerInfo) model.StackStatus {
	if len(containers) == 0 {
		return model.StatusAbsent
	}

	for _, c := range containers {
		if c.Status == "running" {
			return model.StatusRunning
		}
	}

	return model.StatusStopped
}

// PublishedHostPorts extracts the host ports currently published by the
// given containers, from the Docker API port data. Used by the pre-up
// port probe to avoid flagging this project's own listeners as conflicts.
func PublishedHostPorts(containers []types.Container) map[int]bool {
	ports := make(map[int]bool)
	for _, c := range containers {
		for _, p := range c.Ports {
			if p.PublicPort > 0 {
				ports[int(p.PublicPort)] = true
			}
		}
	}
	return ports
}

// ProjectPublishedPorts returns the host ports currently published by
// the project's own containers. The pre-up port probe exempts these:
// a re-run of `up` against a running stack must not report the stack's
// own listeners as conflicts.
func ProjectPublishedPorts(ctx context.Context, cli *Client, project string) (map[int]bool, error) {
	filterArgs := filters.NewArgs(
		filters.Arg("label", LabelComposeProject+"="+project),
	)

	containers, err := cli.Inner().ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filterArgs,
	})
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitDockerNotRunning,
			"failed to list Docker containers",
			err,
		)
	}

	return PublishedHostPorts(containers), nil
}

// StartContainer starts a stopped container by its ID using the Docker
// SDK. Used for single-service operations outside a full `up`.
func StartContainer(ctx context.Context, cli *Client, containerID string) error {
	err := cli.Inner().ContainerStart(ctx, containerID, container.StartOptions{})
	if err != nil {
		return model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to start container %q", containerID),
			err,
		)
	}
	return nil
}

// StopContainer stops a running container by its ID using the Docker
// SDK. The daemon sends SIGTERM and escalates to SIGKILL after its
// default timeout.
func StopContainer(ctx context.Context, cli *Client, containerID string) error {
	// A nil Timeout in StopOptions uses Docker's default (10 seconds).
	err := cli.Inner().ContainerStop(ctx, containerID, container.StopOptions{})
	if err != nil {
		return model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to stop container %q", containerID),
			err,
		)
	}
	return nil
}
