package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/viltkit/viltkit/internal/mcpcfg"
)

var (
	mcpVSCode         bool
	mcpAddEnv         []string
	mcpAddDescription string
	mcpAddForce       bool
	mcpDoctorTimeout  time.Duration
)

var mcpCmd = &cobra.Command{
	Use:     "mcp",
	GroupID: "project",
	Short:   "Manage MCP server configuration",
	Long: `Inspect and edit the project's MCP (Model Context Protocol) server
config. Claude Code reads .mcp.json, VS Code reads .vscode/mcp.json;
commands target the Claude file unless --vscode is set.`,
}

var mcpListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured MCP servers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCPList(os.Stdout)
	},
}

var mcpAddCmd = &cobra.Command{
	Use:   "add <name> <command> [args...]",
	Short: "Add an MCP server",
	Example: `  viltkit mcp add laravel-boost php artisan boost:mcp
  viltkit mcp add context7 npx -- -y @upstash/context7-mcp --api-key '${CONTEXT7_API_KEY}'`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCPAdd(os.Stdout, args[0], args[1], args[2:])
	},
}

var mcpRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove an MCP server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCPRemove(os.Stdout, args[0])
	},
}

var mcpDoctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Probe each configured MCP server",
	Long: `Starts every configured MCP server, performs the initialize handshake,
and lists the tools it advertises. Environment placeholders like
${CONTEXT7_API_KEY} are expanded from the project's .env and the process
environment before probing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCPDoctor(cmd.Context(), os.Stdout)
	},
}

func init() {
	mcpCmd.PersistentFlags().BoolVar(&mcpVSCode, "vscode", false, "Target .vscode/mcp.json instead of .mcp.json")
	mcpAddCmd.Flags().StringArrayVar(&mcpAddEnv, "env", nil, "Environment variable for the server (KEY=value, repeatable)")
	mcpAddCmd.Flags().StringVar(&mcpAddDescription, "description", "", "Human-readable server description")
	mcpAddCmd.Flags().BoolVar(&mcpAddForce, "force", false, "Overwrite an existing entry with the same name")
	mcpDoctorCmd.Flags().DurationVar(&mcpDoctorTimeout, "timeout", 15*time.Second, "Per-server probe timeout")

	mcpCmd.AddCommand(mcpListCmd, mcpAddCmd, mcpRemoveCmd, mcpDoctorCmd)
	rootCmd.AddCommand(mcpCmd)
}

func mcpFlavor() mcpcfg.Flavor {
	if mcpVSCode {
		return mcpcfg.FlavorVSCode
	}
	return mcpcfg.FlavorClaude
}

func runMCPList(output io.Writer) error {
	p, err := currentProject()
	if err != nil {
		return err
	}
	f, err := mcpcfg.LoadProject(mcpFlavor(), p.Root)
	if err != nil {
		return err
	}
	if len(f.Servers) == 0 {
		fmt.Fprintf(output, "No MCP servers configured in %s.\n", mcpFlavor().FileName())
		return nil
	}

	w := tabwriter.NewWriter(output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCOMMAND\tDESCRIPTION")
	for _, name := range f.Names() {
		s := f.Servers[name]
		command := s.Command
		if s.IsHTTP() {
			command = s.URL
		} else if len(s.Args) > 0 {
			command += " " + strings.Join(s.Args, " ")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, command, s.Description)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, problem := range f.Validate() {
		fmt.Fprintf(output, "%s %s\n", warnMark, problem)
	}
	return nil
}

func runMCPAdd(output io.Writer, name, command string, args []string) error {
	p, err := currentProject()
	if err != nil {
		return err
	}
	f, err := mcpcfg.LoadProject(mcpFlavor(), p.Root)
	if err != nil {
		return err
	}

	server := &mcpcfg.ServerConfig{
		Command:     command,
		Args:        args,
		Description: mcpAddDescription,
	}
	if mcpFlavor() == mcpcfg.FlavorVSCode {
		server.Type = "stdio"
	}
	if len(mcpAddEnv) > 0 {
		server.Env = map[string]string{}
		for _, kv := range mcpAddEnv {
			key, value, ok := strings.Cut(kv, "=")
			if !ok {
				return fmt.Errorf("invalid --env %q, expected KEY=value", kv)
			}
			server.Env[key] = value
		}
	}

	if err := f.Add(name, server, mcpAddForce); err != nil {
		return err
	}
	if err := f.Save(); err != nil {
		return err
	}
	fmt.Fprintf(output, "%s Added %s to %s\n", okMark, name, mcpFlavor().FileName())
	return nil
}

func runMCPRemove(output io.Writer, name string) error {
	p, err := currentProject()
	if err != nil {
		return err
	}
	f, err := mcpcfg.LoadProject(mcpFlavor(), p.Root)
	if err != nil {
		return err
	}
	if !f.Remove(name) {
		return fmt.Errorf("no MCP server named %q in %s", name, mcpFlavor().FileName())
	}
	if err := f.Save(); err != nil {
		return err
	}
	fmt.Fprintf(output, "%s Removed %s from %s\n", okMark, name, mcpFlavor().FileName())
	return nil
}

func runMCPDoctor(ctx context.Context, output io.Writer) error {
	p, err := currentProject()
	if err != nil {
		return err
	}
	f, err := mcpcfg.LoadProject(mcpFlavor(), p.Root)
	if err != nil {
		return err
	}
	if len(f.Servers) == 0 {
		fmt.Fprintf(output, "No MCP servers configured in %s.\n", mcpFlavor().FileName())
		return nil
	}

	vars, err := mcpcfg.ProjectEnv(p.Root)
	if err != nil {
		return err
	}

	failed := 0
	for _, result := range mcpcfg.ProbeAll(ctx, f, vars, mcpDoctorTimeout) {
		if result.OK() {
			detail := result.ServerName
			if result.ServerVersion != "" {
				detail += " " + result.ServerVersion
			}
			fmt.Fprintf(output, "  %s %s (%s, %d tool(s))\n", okMark, result.Name, detail, len(result.Tools))
			for _, tool := range result.Tools {
				fmt.Fprintf(output, "      %s\n", tool)
			}
		} else {
			failed++
			fmt.Fprintf(output, "  %s %s: %v\n", failMark, result.Name, result.Err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d MCP server(s) failed the probe", failed, len(f.Servers))
	}
	return nil
}
