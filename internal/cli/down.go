// Package cli — down.go implements the "devstack down" command.
//
// The down command tears the stack down via `docker compose down`:
// containers and project networks are removed. Volumes survive unless
// --volumes is given, so a plain down never destroys data.
package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/devstack/internal/docker"
)

// downFlags holds the flag values for the down command.
type downFlags struct {
	// removeVolumes also removes named and anonymous volumes.
	removeVolumes bool
}

// NewDownCommand creates the "down" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewDownCommand() *cobra.Command {
	flags := &downFlags{}

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Remove the stack's containers and networks",
		Long: `Tear the stack down with docker compose down.

Containers and project networks are removed. Named volumes are kept
unless --volumes is given, so database data survives a plain down.

Examples:
  devstack down
  devstack down --volumes`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runDown(cmd.Context(), flags)
		},
	}

	cmd.Flags().BoolVar(&flags.removeVolumes, "volumes", false, "Also remove named and anonymous volumes")

	return cmd
}

// runDown is the main logic function for the down command. Unlike
// stop, down on an absent stack is a no-op success — compose itself
// treats it that way, and "make it gone" is already satisfied.
func runDown(ctx context.Context, flags *downFlags) error {
	ref, err := resolveStack()
	if err != nil {
		return err
	}

	runner := docker.NewComposeRunner(cfg.Docker.Binary, ref.ProjectDir, ref.Project, ref.Files)
	log.Info().Str("project", ref.Project).Bool("volumes", flags.removeVolumes).Msg("tearing down stack")

	if err := runner.Down(ctx, flags.removeVolumes); err != nil {
		return err
	}

	printDownResult(ref.Project, flags.removeVolumes)
	return nil
}

// printDownResult outputs the down result in text or JSON format.
func printDownResult(project string, volumesRemoved bool) {
	if IsJSONOutput() {
		result := map[string]interface{}{
			"project":        project,
			"action":         "removed",
			"volumesRemoved": volumesRemoved,
		}
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		return
	}

	if volumesRemoved {
		fmt.Printf("Removed stack %q including volumes\n", project)
	} else {
		fmt.Printf("Removed stack %q (volumes kept)\n", project)
	}
}
