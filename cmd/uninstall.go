package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/viltkit/viltkit/internal/install"
)

var uninstallSkipConfirm bool

var uninstallCmd = &cobra.Command{
	Use:     "uninstall",
	GroupID: "setup",
	Short:   "Remove installed assistant files and restore backups",
	Long: `Removes every file the last install wrote, restores the backups install
made of your original files, and deletes the .viltkit/ manifest.

It will prompt for confirmation before proceeding unless the --yes flag is used.`,
	RunE: runUninstall,
}

func init() {
	uninstallCmd.Flags().BoolVarP(&uninstallSkipConfirm, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(uninstallCmd)
}

func runUninstall(cmd *cobra.Command, args []string) error {
	return runUninstallWithIO(os.Stdin, os.Stdout)
}

func runUninstallWithIO(input io.Reader, output io.Writer) error {
	p, err := currentProject()
	if err != nil {
		return err
	}

	if !install.HasManifest(p.Root) {
		fmt.Fprintln(output, "Nothing to uninstall (no install manifest found).")
		return nil
	}

	m, err := install.LoadManifest(p.Root)
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "This will remove %s %s from %s:\n", m.BundleName, m.BundleVersion, p.Name)
	fmt.Fprintf(output, "  - %d installed file(s)\n", len(m.Files))
	if len(m.Backups) > 0 {
		fmt.Fprintf(output, "  - %d backed-up original(s) will be restored\n", len(m.Backups))
	}
	fmt.Fprintln(output)

	if !uninstallSkipConfirm {
		if !confirm(input, output, "Continue?") {
			fmt.Fprintln(output, "Aborted.")
			return nil
		}
	}

	if err := install.Uninstall(p.Root, output); err != nil {
		return err
	}

	fmt.Fprintln(output)
	fmt.Fprintf(output, "%s Uninstalled\n", okMark)
	return nil
}
