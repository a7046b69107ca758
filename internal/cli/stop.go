// Package cli — stop.go implements the "devstack stop" command.
//
// The stop command gracefully stops the stack's containers without
// removing them, by delegating to `docker compose stop`. Container
// state, networks, and volumes survive, so a later up resumes quickly.
package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/devstack/internal/docker"
	"github.com/mmr-tortoise/devstack/internal/model"
)

// NewStopCommand creates the "stop" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewStopCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stop [service...]",
		Short: "Stop the stack without removing it",
		Long: `Stop the stack's containers with docker compose stop.

Containers are gracefully stopped but not removed; data and networks
are preserved and the stack can be started again with "start" or "up".
With service names, only those services' containers are stopped,
directly through the Docker API.

Examples:
  devstack stop
  devstack stop api`,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runStop(cmd.Context(), args)
		},
	}

	return cmd
}

// runStop is the main logic function for the stop command.
func runStop(ctx context.Context, services []string) error {
	// Step 1: Resolve the stack.
	ref, err := resolveStack()
	if err != nil {
		return err
	}

	// Step 2: Confirm there is something to stop. A stack whose up
	// never ran gets a not-found error rather than a silent no-op.
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
			fmt.Sprintf("no containers found for stack %q — was it started?", ref.Project))
	}

	// Step 3: Stop. A full-stack stop goes through docker compose for
	// dependency-ordered shutdown; named services are stopped directly
	// through the SDK, which needs no ordering for a partial stop.
	if len(services) == 0 {
		runner := docker.NewComposeRunner(cfg.Docker.Binary, ref.ProjectDir, ref.Project, ref.Files)
		log.Info().Str("project", ref.Project).Msg("stopping stack")

		if err := runner.Stop(ctx); err != nil {
			return err
		}

		printStopResult(ref.Project, len(containers))
		return nil
	}

	targets, err := selectServiceContainers(containers, services)
	if err != nil {
		return err
	}

	for _, c := range targets {
		if c.Status != "running" {
			log.Debug().Str("container", c.ContainerName).Msg("not running")
			continue
		}
		log.Debug().Str("container", c.ContainerName).Msg("stopping container")
		if err := docker.StopContainer(ctx, cli, c.ContainerID); err != nil {
			return err
		}
	}

	printStopResult(ref.Project, len(targets))
	return nil
}

// printStopResult outputs the stop result in text or JSON format.
func printStopResult(project string, containerCount int) {
	if IsJSONOutput() {
		result := map[string]interface{}{
			"project":        project,
			"action":         "stopped",
			"containerCount": containerCount,
		}
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Printf("Stopped stack %q (%d containers)\n", project, containerCount)
}
