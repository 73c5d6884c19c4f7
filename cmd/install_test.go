package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/viltkit/viltkit/internal/execx"
)

func resetInstallFlags() {
	installSource = ""
	installYes = false
	installSkipBoost = false
	installNoDocs = false
	installDryRun = false
	installForce = false
}

func TestRunInstall_InstallsBundle(t *testing.T) {
	dir := newProjectDir(t)
	resetInstallFlags()
	installYes = true
	defer resetInstallFlags()

	runner := &execx.FakeRunner{}
	var out bytes.Buffer
	err := runInstallWithIO(context.Background(), strings.NewReader(""), &out, runner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, rel := range []string{"CLAUDE.md", ".mcp.json", ".github/copilot-instructions.md"} {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(rel))); err != nil {
			t.Errorf("expected %s to be installed: %v", rel, err)
		}
	}

	// --yes installs Laravel Boost without prompting
	if len(runner.Calls) != 2 {
		t.Fatalf("expected 2 boost commands, got %d: %v", len(runner.Calls), runner.Calls)
	}
	if !strings.Contains(runner.Calls[0], "composer require") {
		t.Errorf("expected composer call, got %q", runner.Calls[0])
	}

	if !strings.Contains(out.String(), "Next steps:") {
		t.Errorf("expected next steps in output, got:\n%s", out.String())
	}
}

func TestRunInstall_DecliningBoostSkipsComposer(t *testing.T) {
	dir := newProjectDir(t)
	resetInstallFlags()
	defer resetInstallFlags()

	runner := &execx.FakeRunner{}
	var out bytes.Buffer
	// decline boost, accept docs
	err := runInstallWithIO(context.Background(), strings.NewReader("n\ny\n"), &out, runner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(runner.Calls) != 0 {
		t.Errorf("expected no composer calls, got %v", runner.Calls)
	}
	if !strings.Contains(out.String(), "composer require --dev laravel/boost") {
		t.Errorf("expected manual boost hint, got:\n%s", out.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "CLAUDE.md")); err != nil {
		t.Errorf("bundle should still install when boost is declined: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "docs/ai/setup-guide.md")); err != nil {
		t.Errorf("expected docs set after accepting prompt: %v", err)
	}
}

func TestRunInstall_DryRun(t *testing.T) {
	dir := newProjectDir(t)
	resetInstallFlags()
	installDryRun = true
	defer resetInstallFlags()

	var out bytes.Buffer
	err := runInstallWithIO(context.Background(), strings.NewReader(""), &out, &execx.FakeRunner{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(out.String(), "Would install:") {
		t.Errorf("expected plan output, got:\n%s", out.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "CLAUDE.md")); !os.IsNotExist(err) {
		t.Error("dry run must not write files")
	}
}

func TestRunInstall_NoDocs(t *testing.T) {
	dir := newProjectDir(t)
	resetInstallFlags()
	installYes = true
	installSkipBoost = true
	installNoDocs = true
	defer resetInstallFlags()

	var out bytes.Buffer
	err := runInstallWithIO(context.Background(), strings.NewReader(""), &out, &execx.FakeRunner{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "docs")); !os.IsNotExist(err) {
		t.Error("expected docs/ to be skipped with --no-docs")
	}
	if _, err := os.Stat(filepath.Join(dir, "CLAUDE.md")); err != nil {
		t.Errorf("expected CLAUDE.md to be installed: %v", err)
	}
}

func TestRunInstall_OutsideProject(t *testing.T) {
	dir := t.TempDir()
	oldGetwd := getwd
	getwd = func() (string, error) { return dir, nil }
	defer func() { getwd = oldGetwd }()
	resetInstallFlags()
	defer resetInstallFlags()

	err := runInstallWithIO(context.Background(), strings.NewReader(""), &bytes.Buffer{}, &execx.FakeRunner{})
	if err == nil {
		t.Fatal("expected error outside a Laravel project")
	}
	if !strings.Contains(err.Error(), "artisan") {
		t.Errorf("expected artisan marker error, got: %v", err)
	}
}
