// Package testutil holds fixture helpers shared by tests across packages.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/viltkit/viltkit/internal/logger"
)

// WriteFile writes content to a path under root, creating parent directories.
func WriteFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

// ScaffoldLaravel writes a minimal VILT-stack Laravel project into dir:
// the artisan marker plus composer.json and package.json with the
// dependencies stack detection looks for.
func ScaffoldLaravel(t *testing.T, dir string) {
	t.Helper()
	WriteFile(t, dir, "artisan", "#!/usr/bin/env php\n")
	WriteFile(t, dir, "composer.json", `{
  "name": "acme/shop",
  "require": {"laravel/framework": "^11.0", "inertiajs/inertia-laravel": "^1.0"}
}
`)
	WriteFile(t, dir, "package.json",
		`{"dependencies": {"vue": "^3.4", "@inertiajs/vue3": "^1.0", "tailwindcss": "^3.4"}}
`)
}

// SilenceLogger swaps in a nop logger for the duration of the test.
func SilenceLogger(t *testing.T) {
	t.Helper()
	restore := logger.Replace(zap.NewNop())
	t.Cleanup(restore)
}
