package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/viltkit/viltkit/internal/validate"
)

var validateStrict bool

var validateCmd = &cobra.Command{
	Use:     "validate",
	GroupID: "project",
	Short:   "Check that the AI assistant setup is complete",
	Long: `Runs every setup check against the current project and reports each one:
instruction files, agent personas, MCP config well-formedness, and the
Laravel Boost wiring.

Checks are independent; a failing check never stops the rest. Errors make
the command exit non-zero, warnings do not unless --strict is set.`,
	Example: `  viltkit validate            # Report all checks
  viltkit validate --strict   # Treat warnings as failures`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Treat warnings as failures")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	return runValidateWithOutput(os.Stdout)
}

func runValidateWithOutput(output io.Writer) error {
	p, err := currentProject()
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "Validating %s...\n", p.Name)
	fmt.Fprintln(output)

	report := validate.Run(p.Root, validate.DefaultChecks())

	for _, outcome := range report.Outcomes {
		mark := okMark
		if !outcome.Passed {
			if outcome.Check.Severity == validate.SeverityError {
				mark = failMark
			} else {
				mark = warnMark
			}
		}
		fmt.Fprintf(output, "  %s %s\n", mark, outcome.Check.Name)
		if !outcome.Passed {
			if outcome.Detail != "" {
				fmt.Fprintf(output, "      %s\n", outcome.Detail)
			}
			if outcome.Check.Hint != "" {
				fmt.Fprintf(output, "      hint: %s\n", outcome.Check.Hint)
			}
		}
	}

	fmt.Fprintln(output)
	fmt.Fprintf(output, "%d error(s), %d warning(s)\n", report.Errors, report.Warnings)

	if report.Failed(validateStrict) {
		return fmt.Errorf("validation failed")
	}
	fmt.Fprintf(output, "%s Setup looks good\n", okMark)
	return nil
}
