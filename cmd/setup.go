package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/viltkit/viltkit/internal/config"
	"github.com/viltkit/viltkit/internal/prereq"
)

var setupCmd = &cobra.Command{
	Use:     "setup",
	GroupID: "setup",
	Short:   "Interactive setup wizard for viltkit",
	Long: `Walks you through configuring viltkit for the current project:

  - Checks required tools (php, composer, git) and shows install instructions
  - Asks which assistants you use (Claude Code, GitHub Copilot, or both)
  - Writes your choices to .viltkit.yaml for future installs`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	return runSetupWithIO(os.Stdin, os.Stdout, prereq.CheckAll)
}

// prereqCheckerFn is the type for the prerequisite check function.
type prereqCheckerFn func([]prereq.Prerequisite) []prereq.CheckResult

func runSetupWithIO(input io.Reader, output io.Writer, checker prereqCheckerFn) error {
	fmt.Fprintln(output, "=== viltkit setup ===")
	fmt.Fprintln(output)
	fmt.Fprintln(output, "Checking prerequisites...")
	fmt.Fprintln(output)

	results := checker(prereq.DefaultPrerequisites())

	for _, r := range results {
		var status string
		switch {
		case r.Found && !r.TooOld:
			status = okMark
		case r.Prerequisite.Required:
			status = failMark
		default:
			status = skipMark
		}

		line := fmt.Sprintf("  %s %s", status, r.Prerequisite.Name)
		switch {
		case r.TooOld:
			line += fmt.Sprintf(" (%s, need >= %s)", r.Version, r.Prerequisite.MinVersion)
		case r.Found && r.Version != "":
			line += fmt.Sprintf(" (%s)", r.Version)
		case !r.Found:
			line += " [not found]"
		}
		fmt.Fprintln(output, line)
	}

	fmt.Fprintln(output)

	if prereq.AnyRequiredMissing(results) {
		fmt.Fprintln(output, "Some required tools are missing or too old. Install them to continue:")
		fmt.Fprintln(output)
		for _, r := range results {
			if r.Prerequisite.Required && (!r.Found || r.TooOld) {
				fmt.Fprintf(output, "  %s — %s\n", r.Prerequisite.Name, r.Prerequisite.Description)
				fmt.Fprintf(output, "    Install: %s\n", r.Prerequisite.InstallURL)
				fmt.Fprintln(output)
			}
		}
		fmt.Fprintln(output, "After installing, run `viltkit setup` again.")
		return nil
	}

	fmt.Fprintln(output, "All prerequisites installed!")
	fmt.Fprintln(output)

	p, err := currentProject()
	if err != nil {
		fmt.Fprintln(output, "No Laravel project found here, so nothing was saved.")
		fmt.Fprintln(output, "Run `viltkit setup` again from inside a Laravel project to write .viltkit.yaml.")
		return nil
	}

	scanner := bufio.NewScanner(input)
	cfg := config.Default()

	fmt.Fprintln(output, "Which AI assistants do you use?")
	fmt.Fprintln(output)
	fmt.Fprintln(output, "  1. Claude Code")
	fmt.Fprintln(output, "  2. GitHub Copilot")
	fmt.Fprintln(output, "  3. Both")
	fmt.Fprintln(output)
	fmt.Fprint(output, "Enter choice [1-3] (default 3): ")

	switch readLine(scanner, "3") {
	case "1":
		cfg.Assistants = []config.Assistant{config.AssistantClaude}
	case "2":
		cfg.Assistants = []config.Assistant{config.AssistantCopilot}
	default:
		cfg.Assistants = []config.Assistant{config.AssistantClaude, config.AssistantCopilot}
	}

	fmt.Fprintln(output)
	fmt.Fprint(output, "Install the docs/ai companion guides? [Y/n]: ")
	switch readLine(scanner, "y") {
	case "n", "no", "N":
		cfg.InstallDocs = false
	default:
		cfg.InstallDocs = true
	}

	fmt.Fprintln(output)
	fmt.Fprintln(output, "Laravel Boost provides the MCP server the bundle is wired to.")
	fmt.Fprintln(output, "How should install handle it when missing?")
	fmt.Fprintln(output)
	fmt.Fprintln(output, "  1. Ask each time (default)")
	fmt.Fprintln(output, "  2. Install automatically")
	fmt.Fprintln(output, "  3. Never install")
	fmt.Fprintln(output)
	fmt.Fprint(output, "Enter choice [1-3] (default 1): ")

	switch readLine(scanner, "1") {
	case "2":
		cfg.Boost = config.BoostAuto
	case "3":
		cfg.Boost = config.BoostSkip
	default:
		cfg.Boost = config.BoostPrompt
	}

	if err := cfg.Save(p.Root); err != nil {
		return err
	}

	fmt.Fprintln(output)
	fmt.Fprintf(output, "%s Wrote %s\n", okMark, config.FileName)
	fmt.Fprintln(output)
	fmt.Fprintln(output, "Next: run `viltkit install` to install the bundle.")
	return nil
}
