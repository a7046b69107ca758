// Package cli — ports.go implements the "devstack ports" command.
//
// The ports command lists every port binding the stack declares and,
// for published ones, whether the host port is currently free. It is
// the dry-run counterpart of up's port preflight.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/devstack/internal/docker"
	"github.com/mmr-tortoise/devstack/internal/model"
	"github.com/mmr-tortoise/devstack/internal/port"
)

// NewPortsCommand creates the "ports" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewPortsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ports",
		Short: "Show declared port bindings and their availability",
		Long: `List the port bindings declared in the stack definition.

Published host ports are probed for availability. Ports held by this
stack's own running containers are reported as "owned" rather than
conflicting, mirroring the exemption up applies.

Examples:
  devstack ports
  devstack ports --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runPorts(cmd.Context())
		},
	}

	return cmd
}

// portReport is the availability report for one declared binding.
type portReport struct {
	Binding model.PortBinding
	State   string
}

// Port availability states reported by the ports command.
const (
	portStateAvailable   = "available"
	portStateOwned       = "owned"
	portStateInUse       = "in use"
	portStateUnpublished = "unpublished"
)

// runPorts is the main logic function for the ports command. Docker
// being unavailable is not fatal here — the declared bindings are
// still useful, just without the own-container exemption.
func runPorts(ctx context.Context) error {
	_, stack, err := loadResolvedStack()
	if err != nil {
		return err
	}

	ownPorts := map[int]bool{}
	if cli, err := docker.NewClient(); err == nil {
		defer func() { _ = cli.Close() }()
		if ports, err := docker.ProjectPublishedPorts(ctx, cli, stack.Name); err == nil {
			ownPorts = ports
		}
	} else {
		log.Debug().Msg("Docker unavailable; skipping own-container port exemption")
	}

	reports := buildPortReports(port.NewScanner(), stack.PortBindings(), ownPorts)
	printPortsResult(stack.Name, reports)
	return nil
}

// buildPortReports classifies each declared binding: unpublished ports
// never touch the host, owned ports belong to this stack's running
// containers, and the rest are probed with a bind attempt.
func buildPortReports(scanner *port.Scanner, bindings []model.PortBinding, ownPorts map[int]bool) []portReport {
	reports := make([]portReport, 0, len(bindings))

	for _, b := range bindings {
		state := portStateUnpublished
		switch {
		case !b.Published():
			// keep unpublished
		case ownPorts[b.HostPort]:
			state = portStateOwned
		case scanner.IsPortAvailable(b.HostPort, b.Protocol):
			state = portStateAvailable
		default:
			state = portStateInUse
		}

		reports = append(reports, portReport{Binding: b, State: state})
	}

	return reports
}

// printPortsResult outputs the port reports in text or JSON format,
// depending on the global --json flag.
func printPortsResult(project string, reports []portReport) {
	if IsJSONOutput() {
		type reportJSON struct {
			Service       string `json:"service"`
			HostPort      int    `json:"hostPort,omitempty"`
			ContainerPort int    `json:"containerPort"`
			Protocol      string `json:"protocol"`
			State         string `json:"state"`
		}

		result := struct {
			Project string       `json:"project"`
			Ports   []reportJSON `json:"ports"`
		}{
			Project: project,
			Ports:   make([]reportJSON, 0, len(reports)),
		}

		for _, r := range reports {
			result.Ports = append(result.Ports, reportJSON{
				Service:       r.Binding.ServiceName,
				HostPort:      r.Binding.HostPort,
				ContainerPort: r.Binding.ContainerPort,
				Protocol:      r.Binding.Protocol,
				State:         r.State,
			})
		}

		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		return
	}

	if len(reports) == 0 {
		fmt.Printf("Stack %q declares no ports\n", project)
		return
	}

	fmt.Printf("%-10s %-12s %-16s %s\n", "SERVICE", "HOST", "CONTAINER", "STATE")
	for _, r := range reports {
		host := "-"
		if r.Binding.Published() {
			host = strconv.Itoa(r.Binding.HostPort)
		}
		fmt.Printf("%-10s %-12s %-16s %s\n",
			r.Binding.ServiceName,
			host,
			strconv.Itoa(r.Binding.ContainerPort)+"/"+r.Binding.Protocol,
			r.State,
		)
	}
}
