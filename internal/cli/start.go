// Package cli — start.go implements the "devstack start" command.
//
// The start command restarts a previously stopped stack's existing
// containers through the Docker SDK, without re-running the Compose
// runtime. Nothing is created or rebuilt — for that, use "up".
package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/devstack/internal/docker"
	"github.com/mmr-tortoise/devstack/internal/model"
)

// NewStartCommand creates the "start" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewStartCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start [service...]",
		Short: "Start the stack's existing containers",
		Long: `Start the stack's stopped containers via the Docker API.

Existing containers are started as-is; nothing is created, built, or
reconfigured. Use "up" when the stack definition changed. Service names
limit the start to those services.

Examples:
  devstack start
  devstack start api`,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runStart(cmd.Context(), args)
		},
	}

	return cmd
}

// runStart is the main logic function for the start command.
func runStart(ctx context.Context, services []string) error {
	// Step 1: Resolve the stack and find its containers.
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
	if len(containers) == 0 {
		return model.NewCLIError(model.ExitStackNotFound,
			fmt.Sprintf("no containers found for stack %q — run \"devstack up\" first", ref.Project))
	}

	// Step 2: Select the target containers.
	targets, err := selectServiceContainers(containers, services)
	if err != nil {
		return err
	}

	// Step 3: Start everything not already running.
	started := 0
	for _, c := range targets {
		if c.Status == "running" {
			log.Debug().Str("container", c.ContainerName).Msg("already running")
			continue
		}
		log.Debug().Str("container", c.ContainerName).Msg("starting container")
		if err := docker.StartContainer(ctx, cli, c.ContainerID); err != nil {
			return err
		}
		started++
	}

	printStartResult(ref.Project, started, len(targets))
	return nil
}

// selectServiceContainers filters containers down to the named
// services. An empty service list selects everything; a name that
// matches no container is an error rather than a silent no-op.
func selectServiceContainers(containers []model.ContainerInfo, services []string) ([]model.ContainerInfo, error) {
	if len(services) == 0 {
		return containers, nil
	}

	byService := make(map[string][]model.ContainerInfo, len(containers))
	for _, c := range containers {
		byService[c.ServiceName] = append(byService[c.ServiceName], c)
	}

	var selected []model.ContainerInfo
	for _, svc := range services {
		matches, ok := byService[svc]
		if !ok {
			return nil, model.NewCLIError(model.ExitGeneralError,
				fmt.Sprintf("service %q has no containers in this stack", svc))
		}
		selected = append(selected, matches...)
	}
	return selected, nil
}

// printStartResult outputs the start result in text or JSON format.
func printStartResult(project string, started, total int) {
	if IsJSONOutput() {
		result := map[string]interface{}{
			"project":        project,
			"action":         "started",
			"startedCount":   started,
			"containerCount": total,
		}
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		return
	}

	if started == 0 {
		fmt.Printf("Stack %q is already running (%d containers)\n", project, total)
		return
	}
	fmt.Printf("Started %d of %d container(s) in stack %q\n", started, total, project)
}
