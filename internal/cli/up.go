// Package cli — up.go implements the "devstack up" command.
//
// The up command validates the stack, preflights its published host
// ports, and then delegates to `docker compose up -d`. Validation
// errors and port conflicts abort before anything is started, so a
// failed up leaves the host untouched.
package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/devstack/internal/docker"
	"github.com/mmr-tortoise/devstack/internal/lint"
	"github.com/mmr-tortoise/devstack/internal/model"
	"github.com/mmr-tortoise/devstack/internal/port"
)

// upFlags holds the flag values for the up command.
type upFlags struct {
	// skipChecks bypasses validation and port preflight. Escape hatch
	// for stacks that devstack's checks misjudge.
	skipChecks bool
}

// NewUpCommand creates the "up" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewUpCommand() *cobra.Command {
	flags := &upFlags{}

	cmd := &cobra.Command{
		Use:   "up [service...]",
		Short: "Validate, preflight, and start the stack",
		Long: `Start the stack with docker compose up -d.

Before starting, the stack definition is validated and every published
host port is probed. Ports already held by this project's own running
containers are exempt, so a repeated up against a running stack
succeeds. Service names limit the start to those services.

Examples:
  devstack up
  devstack up api docs
  devstack up --skip-checks`,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runUp(cmd.Context(), flags, args)
		},
	}

	cmd.Flags().BoolVar(&flags.skipChecks, "skip-checks", false, "Skip validation and port preflight")

	return cmd
}

// runUp is the main logic function for the up command.
func runUp(ctx context.Context, flags *upFlags, services []string) error {
	// Step 1: Resolve and parse the stack.
	ref, stack, err := loadResolvedStack()
	if err != nil {
		return err
	}

	// Step 2: Reject unknown service arguments before doing any work.
	for _, svc := range services {
		if _, ok := stack.Services[svc]; !ok {
			return model.NewCLIError(model.ExitGeneralError,
				fmt.Sprintf("service %q is not defined in the stack", svc))
		}
	}

	if !flags.skipChecks {
		// Step 3: Validation gate. Errors abort; warnings are logged.
		findings := lint.Check(stack)
		for _, f := range findings {
			if f.Severity == lint.SeverityWarning {
				log.Warn().Str("field", f.Field).Msg(f.Message)
			}
		}
		if lint.HasErrors(findings) {
			printValidateResult([]fileFindings{{File: ref.Files[0], Findings: findings}})
			return model.NewCLIError(model.ExitValidationFailed,
				"stack definition has validation errors — fix them or pass --skip-checks")
		}
	}

	// Step 4: Connect to Docker and verify the daemon responds. Done
	// before the port probe so a stopped daemon reports as such rather
	// than as a port problem.
	cli, err := docker.NewClient()
	if err != nil {
		return err // NewClient already returns CLIError with ExitDockerNotRunning
	}
	defer func() { _ = cli.Close() }()

	if err := cli.Ping(ctx); err != nil {
		return err
	}
	log.Debug().Str("project", ref.Project).Msg("connected to Docker daemon")

	if !flags.skipChecks {
		// Step 5: Port preflight. Host ports held by this project's own
		// containers are exempt so a repeated up is idempotent.
		ownPorts, err := docker.ProjectPublishedPorts(ctx, cli, ref.Project)
		if err != nil {
			return err
		}

		conflicts := port.CheckBindings(port.NewScanner(), stack.PortBindings(), ownPorts)
		if len(conflicts) > 0 {
			printPortConflicts(conflicts)
			return model.NewCLIError(model.ExitPortConflict,
				fmt.Sprintf("%d host port(s) unavailable", len(conflicts)))
		}
	}

	// Step 6: Delegate to docker compose. The runtime handles builds,
	// dependency ordering, and network/volume creation.
	runner := docker.NewComposeRunner(cfg.Docker.Binary, ref.ProjectDir, ref.Project, ref.Files)
	log.Info().Str("project", ref.Project).Msg("starting stack")

	if err := runner.Up(ctx, services...); err != nil {
		return err
	}

	// Step 7: Report what is now running.
	containers, err := docker.ListProjectContainers(ctx, cli, ref.Project)
	if err != nil {
		return err
	}

	printUpResult(ref.Project, containers)
	return nil
}

// printPortConflicts lists the conflicting port bindings in text or
// JSON format.
func printPortConflicts(conflicts []port.Conflict) {
	if IsJSONOutput() {
		type conflictJSON struct {
			Service       string `json:"service"`
			HostPort      int    `json:"hostPort"`
			ContainerPort int    `json:"containerPort"`
			Protocol      string `json:"protocol"`
			Reason        string `json:"reason"`
		}

		result := struct {
			Conflicts []conflictJSON `json:"conflicts"`
		}{Conflicts: make([]conflictJSON, 0, len(conflicts))}

		for _, c := range conflicts {
			result.Conflicts = append(result.Conflicts, conflictJSON{
				Service:       c.Binding.ServiceName,
				HostPort:      c.Binding.HostPort,
				ContainerPort: c.Binding.ContainerPort,
				Protocol:      c.Binding.Protocol,
				Reason:        c.Reason,
			})
		}

		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Println("Port conflicts:")
	for _, c := range conflicts {
		fmt.Printf("  %s\n", c.String())
	}
}

// printUpResult outputs the up result in text or JSON format.
func printUpResult(project string, containers []model.ContainerInfo) {
	if IsJSONOutput() {
		result := map[string]interface{}{
			"project":        project,
			"action":         "started",
			"status":         docker.StackStatusOf(containers).String(),
			"containerCount": len(containers),
		}
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Printf("Stack %q is up (%d containers)\n", project, len(containers))
}
