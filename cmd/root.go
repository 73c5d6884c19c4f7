package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/viltkit/viltkit/internal/logger"
)

var (
	quietMode             bool
	noColor               bool
	version, commit, date string
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "viltkit",
	Short: "AI assistant configuration for Laravel VILT projects",
	Long: `viltkit installs and maintains the configuration that makes AI coding
assistants (Claude Code, GitHub Copilot) productive in Laravel projects
built on the VILT stack: Vue, Inertia, Laravel, and Tailwind.

It ships project instructions (CLAUDE.md, copilot-instructions.md),
specialist agent personas, and MCP server config wired to Laravel Boost,
and can verify an existing setup with a single command.`,
	Example: `  viltkit setup                  # Interactive setup wizard
  viltkit install                # Install the assistant bundle
  viltkit install --dry-run      # Preview what would be installed
  viltkit validate               # Check the current setup
  viltkit mcp doctor             # Probe configured MCP servers`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Reduce logging to info level only")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	// Command groups
	rootCmd.AddGroup(
		&cobra.Group{ID: "setup", Title: "Setup Commands:"},
		&cobra.Group{ID: "project", Title: "Project Commands:"},
	)

	// Hide the auto-generated completion command
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
}

func initConfig() {
	logger.Init(!quietMode)
	if noColor {
		color.NoColor = true
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("viltkit %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("viltkit %s\n", version)
}
