// Package cli — ps.go implements the "devstack ps" command.
//
// The ps command shows the stack's containers and aggregate status by
// querying Docker for containers carrying the Compose runtime's
// project label. Stopped containers are included, so a stopped stack
// is distinguishable from one that was never started.
package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/devstack/internal/docker"
	"github.com/mmr-tortoise/devstack/internal/model"
)

// NewPsCommand creates the "ps" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewPsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ps",
		Short: "Show the stack's containers",
		Long: `List the containers belonging to this stack and the aggregate
stack status (running, stopped, or absent).

Containers are discovered via the labels the Compose runtime stamps on
everything it creates, so ps works regardless of how the stack was
started.

Examples:
  devstack ps
  devstack ps --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runPs(cmd.Context())
		},
	}

	return cmd
}

// runPs is the main logic function for the ps command.
func runPs(ctx context.Context) error {
	ref, err := resolveStack()
	if err != nil {
		return err
	}

	cli, err := docker.NewClient()
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	containers, err := docker.ListProjectContainers(ctx, cli, ref.Project)
	if err != nil {
		return err
	}

	printPsResult(ref.Project, containers)
	return nil
}

// psContainerJSON is the JSON output structure for a single container
// in the ps command.
type psContainerJSON struct {
	Service   string `json:"service"`
	Container string `json:"container"`
	ID        string `json:"id"`
	Status    string `json:"status"`
}

// printPsResult outputs the container list in text or JSON format,
// depending on the global --json flag.
func printPsResult(project string, containers []model.ContainerInfo) {
	status := docker.StackStatusOf(containers)

	if IsJSONOutput() {
		result := struct {
			Project    string            `json:"project"`
			Status     string            `json:"status"`
			Containers []psContainerJSON `json:"containers"`
		}{
			Project: project,
			Status:  status.String(),
			// Empty slice instead of nil so JSON shows [] rather than null.
			Containers: make([]psContainerJSON, 0, len(containers)),
		}

		for _, c := range containers {
			result.Containers = append(result.Containers, psContainerJSON{
				Service:   c.ServiceName,
				Container: c.ContainerName,
				ID:        shortID(c.ContainerID),
				Status:    c.Status,
			})
		}

		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		return
	}

	if len(containers) == 0 {
		fmt.Printf("Stack %q has no containers (status: %s)\n", project, status)
		return
	}

	fmt.Printf("Stack %q: %s\n\n", project, status)
	fmt.Printf("%-10s %-30s %-14s %s\n", "SERVICE", "CONTAINER", "ID", "STATUS")
	for _, c := range containers {
		fmt.Printf("%-10s %-30s %-14s %s\n",
			c.ServiceName, c.ContainerName, shortID(c.ContainerID), c.Status)
	}
}

// shortID truncates a container ID to the familiar 12-character form.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
