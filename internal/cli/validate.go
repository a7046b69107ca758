// Package cli — validate.go implements the "devstack validate" command.
//
// The validate command checks the stack's compose file(s) for
// well-formedness: valid YAML, declared networks for every reference,
// existing bind-mount sources, sane port and environment declarations.
// Errors cause a validation-failed exit code; warnings are reported but
// do not fail the command.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/devstack/internal/lint"
	"github.com/mmr-tortoise/devstack/internal/model"
)

// NewValidateCommand creates the "validate" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the stack definition for problems",
		Long: `Validate the stack's compose file(s).

Checks include YAML well-formedness, that every network a service
references is declared top-level, that bind-mount source paths exist,
and that port mappings and environment variable names parse.

Findings are reported per file. Errors exit with a non-zero code;
warnings do not.

Examples:
  devstack validate
  devstack validate -f compose.yaml --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate()
		},
	}

	return cmd
}

// fileFindings pairs a compose file with its lint findings for output.
type fileFindings struct {
	File     string         `json:"file"`
	Findings []lint.Finding `json:"findings"`
}

// runValidate is the main logic function for the validate command.
// Each file in a multi-file stack is linted independently, since an
// overlay file must be well-formed on its own before the runtime will
// merge it.
func runValidate() error {
	ref, err := resolveStack()
	if err != nil {
		return err
	}

	results := make([]fileFindings, 0, len(ref.Files))
	failed := false

	for _, file := range ref.Files {
		log.Debug().Str("file", file).Msg("linting compose file")

		_, findings, err := lint.CheckFile(file)
		if err != nil {
			return err // CheckFile already returns CLIError for IO failures
		}

		if lint.HasErrors(findings) {
			failed = true
		}
		results = append(results, fileFindings{File: file, Findings: findings})
	}

	printValidateResult(results)

	if failed {
		return model.NewCLIError(model.ExitValidationFailed,
			"stack definition has validation errors")
	}
	return nil
}

// printValidateResult outputs the validation findings in text or JSON
// format, depending on the global --json flag.
func printValidateResult(results []fileFindings) {
	if IsJSONOutput() {
		printValidateResultJSON(results)
	} else {
		printValidateResultText(results)
	}
}

// printValidateResultJSON outputs the findings as structured JSON.
func printValidateResultJSON(results []fileFindings) {
	type resultJSON struct {
		Valid bool           `json:"valid"`
		Files []fileFindings `json:"files"`
	}

	valid := true
	for i := range results {
		// Empty slices instead of nil so JSON shows [] rather than null.
		if results[i].Findings == nil {
			results[i].Findings = []lint.Finding{}
		}
		if lint.HasErrors(results[i].Findings) {
			valid = false
		}
	}

	data, _ := json.MarshalIndent(resultJSON{Valid: valid, Files: results}, "", "  ")
	fmt.Println(string(data))
}

// printValidateResultText outputs the findings as human-readable text,
// one line per finding, grouped by file.
func printValidateResultText(results []fileFindings) {
	total := 0
	for _, r := range results {
		if len(r.Findings) == 0 {
			fmt.Printf("%s: OK\n", r.File)
			continue
		}

		fmt.Printf("%s:\n", r.File)
		for _, f := range r.Findings {
			fmt.Printf("  %s\n", f.String())
			total++
		}
	}

	if total > 0 {
		fmt.Printf("%d finding(s)\n", total)
	}
}
