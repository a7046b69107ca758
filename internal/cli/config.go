// Package cli — config.go implements the "devstack config" command.
//
// The config command prints the stack as devstack understands it after
// parsing and normalization: services with their resolved image/build
// source, commands, ports, mounts, and networks. It answers "what will
// up actually run" without touching Docker.
package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/devstack/internal/compose"
)

// NewConfigCommand creates the "config" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the parsed and normalized stack",
		Long: `Parse the stack's compose file(s) and print the normalized view.

List-form commands are joined, environment maps are normalized, and
multi-file stacks are shown merged. With --json the full normalized
structure is printed; without it, a per-service summary table.

Examples:
  devstack config
  devstack config --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfig()
		},
	}

	return cmd
}

// runConfig is the main logic function for the config command.
func runConfig() error {
	_, stack, err := loadResolvedStack()
	if err != nil {
		return err
	}

	printConfigResult(stack)
	return nil
}

// printConfigResult outputs the normalized stack in text or JSON
// format, depending on the global --json flag.
func printConfigResult(stack *compose.Stack) {
	if IsJSONOutput() {
		// The Stack struct carries JSON tags precisely for this dump.
		data, _ := json.MarshalIndent(stack, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Printf("Project: %s\n", stack.Name)
	if stack.Version != "" {
		fmt.Printf("Version: %s (obsolete in Compose v2)\n", stack.Version)
	}
	fmt.Printf("Networks: %s\n\n", strings.Join(stack.NetworkNames(), ", "))

	fmt.Printf("%-10s %-30s %-22s %s\n", "SERVICE", "IMAGE/BUILD", "PORTS", "NETWORKS")
	for _, name := range stack.ServiceNames() {
		svc := stack.Services[name]

		fmt.Printf("%-10s %-30s %-22s %s\n",
			name,
			serviceSource(svc),
			formatServicePorts(svc),
			strings.Join(svc.Networks, ","),
		)
	}
}

// serviceSource renders the image or build source of a service for the
// summary table.
func serviceSource(svc *compose.Service) string {
	if svc.Image != "" {
		return svc.Image
	}
	if svc.Build != nil {
		source := "build:" + svc.Build.Context
		if svc.Build.Dockerfile != "" {
			source += "/" + svc.Build.Dockerfile
		}
		return source
	}
	return "-"
}

// formatServicePorts renders a service's port mappings as a compact
// comma-separated list ("8080:8080", "8001/tcp" for unpublished).
// Returns "-" when the service declares no ports.
func formatServicePorts(svc *compose.Service) string {
	if len(svc.Ports) == 0 {
		return "-"
	}

	parts := make([]string, 0, len(svc.Ports))
	for _, p := range svc.Ports {
		if p.Published() {
			parts = append(parts, strconv.Itoa(p.HostPort)+":"+strconv.Itoa(p.ContainerPort))
		} else {
			parts = append(parts, strconv.Itoa(p.ContainerPort)+"/"+p.Protocol)
		}
	}
	return strings.Join(parts, ",")
}
