package cmd

import (
	"testing"

	"github.com/viltkit/viltkit/internal/testutil"
)

// newProjectDir creates a minimal Laravel project in a temp dir and points
// the command layer's working-directory lookup at it.
func newProjectDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	testutil.ScaffoldLaravel(t, dir)
	testutil.SilenceLogger(t)

	oldGetwd := getwd
	getwd = func() (string, error) { return dir, nil }
	t.Cleanup(func() { getwd = oldGetwd })

	return dir
}
