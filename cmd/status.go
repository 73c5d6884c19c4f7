package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/viltkit/viltkit/internal/agents"
	"github.com/viltkit/viltkit/internal/config"
	"github.com/viltkit/viltkit/internal/install"
	"github.com/viltkit/viltkit/internal/mcpcfg"
)

var statusCmd = &cobra.Command{
	Use:     "status",
	GroupID: "project",
	Short:   "Show what is installed in the current project",
	Long: `Shows a one-shot summary of the project's assistant setup: the detected
stack, the installed bundle (from the .viltkit/ manifest), configured MCP
servers, and agent personas.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	return runStatusWithOutput(os.Stdout)
}

func runStatusWithOutput(output io.Writer) error {
	p, err := currentProject()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(output, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Project:\t%s\n", p.Name)
	fmt.Fprintf(w, "Stack:\t%s\n", p.Stack)
	if p.Laravel != "" {
		fmt.Fprintf(w, "Laravel:\t%s\n", p.Laravel)
	}
	if p.HasBoost() {
		fmt.Fprintf(w, "Laravel Boost:\tinstalled\n")
	} else {
		fmt.Fprintf(w, "Laravel Boost:\tnot installed\n")
	}

	if m, err := install.LoadManifest(p.Root); err == nil {
		fmt.Fprintf(w, "Bundle:\t%s %s\n", m.BundleName, m.BundleVersion)
		fmt.Fprintf(w, "Installed:\t%s (%d files, sets: %s)\n",
			m.InstalledAt.Format("2006-01-02 15:04"), len(m.Files), strings.Join(m.Sets, ", "))
		if len(m.Backups) > 0 {
			fmt.Fprintf(w, "Backups held:\t%d\n", len(m.Backups))
		}
	} else {
		fmt.Fprintf(w, "Bundle:\tnot installed\n")
	}

	if cfg, err := config.Load(p.Root); err == nil && len(cfg.Assistants) > 0 {
		names := make([]string, len(cfg.Assistants))
		for i, a := range cfg.Assistants {
			names[i] = string(a)
		}
		fmt.Fprintf(w, "Assistants:\t%s\n", strings.Join(names, ", "))
	}

	if f, err := mcpcfg.LoadProject(mcpcfg.FlavorClaude, p.Root); err == nil && len(f.Names()) > 0 {
		fmt.Fprintf(w, "MCP servers:\t%s\n", strings.Join(f.Names(), ", "))
	}

	personas, _ := agents.List(p.Root)
	fmt.Fprintf(w, "Agent personas:\t%d\n", len(personas))

	return w.Flush()
}
