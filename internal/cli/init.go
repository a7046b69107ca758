// Package cli — init.go implements the "devstack init" command.
//
// The init command writes the default four-service development stack
// (api, docs, server, admin) as a compose file into the current
// directory. The generated file is plain Compose YAML and is meant to
// be edited; "devstack validate" checks the result.
package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/devstack/internal/model"
	"github.com/mmr-tortoise/devstack/internal/scaffold"
)

// initFlags holds the flag values for the init command.
type initFlags struct {
	// force allows overwriting an existing compose file.
	force bool
}

// NewInitCommand creates the "init" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold the default development stack",
		Long: `Write the default four-service development stack as a compose file.

The generated stack contains:
  api     application server built from the project Dockerfile (uvicorn)
  docs    documentation server (mkdocs)
  server  nginx front on the public network
  admin   adminer database UI on the db network

An existing compose file is never overwritten unless --force is given.

Examples:
  devstack init
  devstack init --force
  devstack init -f stacks/compose.yaml`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(flags)
		},
	}

	cmd.Flags().BoolVar(&flags.force, "force", false, "Overwrite an existing compose file")

	return cmd
}

// runInit is the main logic function for the init command. The target
// path honors --file so the scaffold can land somewhere other than
// ./compose.yaml.
func runInit(flags *initFlags) error {
	target := stackFilePath
	if target == "" {
		target = scaffold.DefaultFileName
	}

	absTarget, err := filepath.Abs(target)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("invalid target path %q", target), err)
	}

	log.Debug().Str("path", absTarget).Bool("force", flags.force).Msg("scaffolding stack")

	if err := scaffold.Write(absTarget, flags.force); err != nil {
		return model.WrapCLIError(model.ExitGeneralError,
			"failed to scaffold stack", err)
	}

	printInitResult(absTarget)
	return nil
}

// printInitResult outputs the init result in text or JSON format.
func printInitResult(path string) {
	if IsJSONOutput() {
		result := map[string]interface{}{
			"action": "initialized",
			"file":   path,
		}
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Printf("Wrote %s\n", path)
	fmt.Println("Edit the stack to taste, then run: devstack up")
}
