// Package cli implements the cobra-based CLI commands for devstack.
//
// Each subcommand (init, validate, config, up, start, stop, down, ps,
// ports) is defined in its own file within this package. This file defines the
// root command that serves as the parent for all subcommands and
// handles global flags, configuration loading, and logger setup.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/devstack/internal/config"
	"github.com/mmr-tortoise/devstack/internal/logger"
	"github.com/mmr-tortoise/devstack/internal/model"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// jsonOutput controls whether command output is formatted as JSON.
	// When true, all output uses structured JSON format for machine
	// consumption. When false (default), output uses human-readable text.
	jsonOutput bool

	// verbose enables debug-level logging on stderr.
	verbose bool

	// stackFilePath is the explicit compose file path given via --file.
	// When empty, the stack is resolved from the project manifest or the
	// standard compose file names in the current directory.
	stackFilePath string
)

// cfg and log are populated by the root command's PersistentPreRunE
// before any subcommand runs.
var (
	cfg *config.Config
	log zerolog.Logger
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
// This is the entry point for the entire CLI application.
//
// The root command itself does not perform any action — it only
// provides help text and global flags. Actual functionality is provided
// by the subcommands.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "devstack",
		Short: "Compose-based development stack manager",
		Long: `devstack scaffolds, validates, and runs a local development stack
described by a Compose file (api, docs, server, admin and friends).

Stack definitions stay plain Compose YAML — devstack adds scaffolding,
well-formedness checks, port preflight, and convenience lifecycle verbs
on top, delegating the actual orchestration to docker compose.`,

		// SilenceUsage prevents cobra from printing usage on every error.
		// We handle error output ourselves for cleaner UX.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// We format errors ourselves (text or JSON based on --json flag).
		SilenceErrors: true,

		// Version is displayed when --version flag is used.
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		// PersistentPreRunE runs before every subcommand: load the tool
		// configuration (defaults, devstack.yaml, DEVSTACK_ env vars) and
		// set up the logger from it. --verbose overrides the configured
		// log level.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.InitConfig(); err != nil {
				return err
			}

			loaded, err := config.Load()
			if err != nil {
				return err
			}
			cfg = loaded

			if verbose {
				cfg.Logging.Level = "debug"
			}
			log = logger.SetupLogger(&cfg.Logging)

			return nil
		},
	}

	// PersistentFlags are inherited by all subcommands. This is the cobra
	// mechanism for global flags — any flag defined here is automatically
	// available in every subcommand without re-declaration.
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&stackFilePath, "file", "f", "", "Compose file to use (default: manifest or compose.yaml)")

	// Register subcommands. Each subcommand is defined in its own file
	// (init.go, validate.go, etc.) and returns a *cobra.Command.
	rootCmd.AddCommand(NewInitCommand())
	rootCmd.AddCommand(NewValidateCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewUpCommand())
	rootCmd.AddCommand(NewStartCommand())
	rootCmd.AddCommand(NewStopCommand())
	rootCmd.AddCommand(NewDownCommand())
	rootCmd.AddCommand(NewPsCommand())
	rootCmd.AddCommand(NewPortsCommand())

	return rootCmd
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// It inspects errors returned by cobra commands and translates them
// into appropriate OS exit codes. CLIError types carry their own exit
// codes; other errors default to exit code 1.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		// errors.As unwraps wrapped errors, so a CLIError surfaced
		// through fmt.Errorf("%w") chains still maps to its exit code.
		var cliErr *model.CLIError
		if errors.As(err, &cliErr) {
			printError(cliErr.Message, cliErr.Err)
			os.Exit(int(cliErr.Code))
		}

		// Generic error — exit with code 1.
		printError(err.Error(), nil)
		os.Exit(int(model.ExitGeneralError))
	}
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		// Errors go to stderr even in JSON mode, because stdout is
		// reserved for successful command output.
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		if underlying != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", message)
		}
	}
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}
