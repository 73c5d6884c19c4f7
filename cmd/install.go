package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/viltkit/viltkit/internal/bundle"
	"github.com/viltkit/viltkit/internal/config"
	"github.com/viltkit/viltkit/internal/execx"
	"github.com/viltkit/viltkit/internal/install"
)

var (
	installSource    string
	installYes       bool
	installSkipBoost bool
	installNoDocs    bool
	installDryRun    bool
	installForce     bool
)

var installCmd = &cobra.Command{
	Use:     "install",
	GroupID: "setup",
	Short:   "Install the AI assistant bundle into the current project",
	Long: `Installs assistant configuration into the Laravel project containing the
current directory:

  - CLAUDE.md project instructions (existing file is backed up)
  - .claude/agents/ specialist personas
  - .github/copilot-instructions.md
  - MCP server config (.mcp.json and .vscode/mcp.json, merged with yours)
  - docs/ai/ companion guides

Laravel Boost provides the MCP server the bundle points at; if it is not
in composer.json yet, install offers to add it first.

Which pieces are installed follows .viltkit.yaml (run "viltkit setup" to
create one); flags override it for a single run. A manifest is written to
.viltkit/ so the install can be reverted with "viltkit uninstall", and a
failed install rolls itself back.`,
	Example: `  viltkit install                          # Install per .viltkit.yaml
  viltkit install --dry-run                # Preview without writing
  viltkit install --skip-boost             # Never touch composer
  viltkit install --source github.com/acme/ai-bundle   # Alternate bundle`,
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringVar(&installSource, "source", "", "Bundle source URL (default: built-in bundle)")
	installCmd.Flags().BoolVarP(&installYes, "yes", "y", false, "Skip confirmation prompts")
	installCmd.Flags().BoolVar(&installSkipBoost, "skip-boost", false, "Do not install Laravel Boost")
	installCmd.Flags().BoolVar(&installNoDocs, "no-docs", false, "Skip the docs/ai guides")
	installCmd.Flags().BoolVar(&installDryRun, "dry-run", false, "Show what would be installed without writing")
	installCmd.Flags().BoolVar(&installForce, "force", false, "Overwrite conflicting MCP server entries")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	return runInstallWithIO(cmd.Context(), os.Stdin, os.Stdout, execx.RealRunner{})
}

func runInstallWithIO(ctx context.Context, input io.Reader, output io.Writer, runner execx.Runner) error {
	p, err := currentProject()
	if err != nil {
		return err
	}

	cfg, err := config.Load(p.Root)
	if err != nil {
		return err
	}
	hasConfigFile := fileExists(config.Path(p.Root))

	source := installSource
	if source == "" {
		source = cfg.BundleSource
	}

	fmt.Fprintf(output, "Project: %s (%s stack)\n", p.Name, p.Stack)
	fmt.Fprintln(output)

	scanner := bufio.NewScanner(input)
	installBoost := decideBoost(p.HasBoost(), cfg.Boost, scanner, output)

	switch {
	case installNoDocs:
		cfg.InstallDocs = false
	case hasConfigFile || installYes || installDryRun:
		// keep the configured choice
	default:
		cfg.InstallDocs = readYesNo(scanner, output, "Install the docs/ai companion guides?")
		fmt.Fprintln(output)
	}

	inst := install.New(p, install.Options{
		Source:       source,
		Sets:         bundle.SetsFor(cfg),
		InstallBoost: installBoost,
		Force:        installForce,
		DryRun:       installDryRun,
		Runner:       runner,
		Output:       output,
	})

	manifest, err := inst.Run(ctx)
	if err != nil {
		return err
	}
	if installDryRun {
		return nil
	}

	fmt.Fprintln(output)
	fmt.Fprintf(output, "%s Installed %s %s (%d files)\n",
		okMark, manifest.BundleName, manifest.BundleVersion, len(manifest.Files))
	fmt.Fprintln(output)
	fmt.Fprintln(output, "Next steps:")
	fmt.Fprintln(output, "  viltkit validate       # verify the setup")
	fmt.Fprintln(output, "  viltkit mcp doctor     # probe the MCP servers")
	return nil
}

// decideBoost resolves whether this run should install Laravel Boost,
// combining flags, the configured policy, and the interactive prompt.
func decideBoost(hasBoost bool, policy config.BoostPolicy, scanner *bufio.Scanner, output io.Writer) bool {
	if hasBoost || installSkipBoost {
		return false
	}
	switch policy {
	case config.BoostAuto:
		return true
	case config.BoostSkip:
		return false
	}

	fmt.Fprintln(output, "Laravel Boost is not installed. The bundle's MCP config expects it")
	fmt.Fprintln(output, "(it provides the laravel-boost MCP server via `php artisan boost:mcp`).")
	if installYes || installDryRun {
		return !installDryRun
	}
	ok := readYesNo(scanner, output, "Install Laravel Boost now?")
	if !ok {
		fmt.Fprintln(output, "Skipping Laravel Boost. You can add it later with:")
		fmt.Fprintln(output, "  composer require --dev laravel/boost && php artisan boost:install")
	}
	fmt.Fprintln(output)
	return ok
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
