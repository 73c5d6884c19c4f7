package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/viltkit/viltkit/internal/agents"
)

var agentsCmd = &cobra.Command{
	Use:     "agents",
	GroupID: "project",
	Short:   "Inspect installed agent personas",
	Long: `Lists and shows the specialist agent personas installed under
.claude/agents/. Claude Code delegates to these for backend, Vue,
Inertia, and Tailwind work.`,
}

var agentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List agent personas",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAgentsList(os.Stdout)
	},
}

var agentsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show one agent persona in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAgentsShow(os.Stdout, args[0])
	},
}

func init() {
	agentsCmd.AddCommand(agentsListCmd, agentsShowCmd)
	rootCmd.AddCommand(agentsCmd)
}

func runAgentsList(output io.Writer) error {
	p, err := currentProject()
	if err != nil {
		return err
	}

	list, problems := agents.List(p.Root)
	if len(list) == 0 && len(problems) == 0 {
		fmt.Fprintln(output, "No agent personas installed. Run `viltkit install` to add them.")
		return nil
	}

	w := tabwriter.NewWriter(output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMODEL\tDESCRIPTION")
	for _, a := range list {
		model := a.Model
		if model == "" {
			model = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", a.Name, model, a.Description)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, problem := range problems {
		fmt.Fprintf(output, "%s %v\n", warnMark, problem)
	}
	return nil
}

func runAgentsShow(output io.Writer, name string) error {
	p, err := currentProject()
	if err != nil {
		return err
	}

	a, err := agents.Get(p.Root, name)
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "Name:        %s\n", a.Name)
	if a.Description != "" {
		fmt.Fprintf(output, "Description: %s\n", a.Description)
	}
	if a.Model != "" {
		fmt.Fprintf(output, "Model:       %s\n", a.Model)
	}
	if len(a.Tools) > 0 {
		fmt.Fprintf(output, "Tools:       %s\n", strings.Join(a.Tools, ", "))
	}
	fmt.Fprintln(output)
	fmt.Fprintln(output, strings.TrimRight(a.Body, "\n"))
	return nil
}
