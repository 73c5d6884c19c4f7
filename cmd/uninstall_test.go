package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunUninstall_NothingInstalled(t *testing.T) {
	newProjectDir(t)

	var out bytes.Buffer
	err := runUninstallWithIO(strings.NewReader(""), &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "Nothing to uninstall") {
		t.Errorf("expected nothing-to-do message, got:\n%s", out.String())
	}
}

func TestRunUninstall_AbortOnNo(t *testing.T) {
	dir := newProjectDir(t)
	installBundle(t)

	uninstallSkipConfirm = false
	var out bytes.Buffer
	err := runUninstallWithIO(strings.NewReader("n\n"), &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "Aborted.") {
		t.Errorf("expected abort message, got:\n%s", out.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "CLAUDE.md")); err != nil {
		t.Error("aborted uninstall must leave files in place")
	}
}

func TestRunUninstall_RemovesInstalledFiles(t *testing.T) {
	dir := newProjectDir(t)
	installBundle(t)

	uninstallSkipConfirm = true
	defer func() { uninstallSkipConfirm = false }()

	var out bytes.Buffer
	err := runUninstallWithIO(strings.NewReader(""), &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, rel := range []string{"CLAUDE.md", ".mcp.json", ".claude"} {
		if _, err := os.Stat(filepath.Join(dir, rel)); !os.IsNotExist(err) {
			t.Errorf("expected %s to be removed", rel)
		}
	}
	// the project itself survives
	if _, err := os.Stat(filepath.Join(dir, "artisan")); err != nil {
		t.Error("uninstall must not touch project files")
	}
}
