package install

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
)

// Uninstall removes everything the manifest tracks and restores backups.
// It holds the same lock as an install, so the two cannot interleave.
// Individual failures don't stop the sweep; they are aggregated and
// returned at the end.
func Uninstall(root string, out io.Writer) error {
	release, createdStateDir, err := acquireLock(root)
	if err != nil {
		return err
	}
	defer release()

	m, err := LoadManifest(root)
	if err != nil {
		if createdStateDir {
			os.RemoveAll(filepath.Join(root, StateDir))
		}
		return err
	}

	var result *multierror.Error

	for i := len(m.Files) - 1; i >= 0; i-- {
		rel := m.Files[i]
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.Remove(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			result = multierror.Append(result, fmt.Errorf("remove %s: %w", rel, err))
			continue
		}
		fmt.Fprintf(out, "  removed %s\n", rel)
		pruneEmptyParents(root, filepath.Dir(path))
	}

	for i := len(m.Backups) - 1; i >= 0; i-- {
		rec := m.Backups[i]
		backupPath := filepath.Join(root, filepath.FromSlash(rec.Backup))
		origPath := filepath.Join(root, filepath.FromSlash(rec.Original))
		if err := os.Rename(backupPath, origPath); err != nil {
			result = multierror.Append(result, fmt.Errorf("restore %s: %w", rec.Original, err))
			continue
		}
		fmt.Fprintf(out, "  restored %s\n", rec.Original)
	}

	// Drop the manifest and the lock dir with it. The lock file is still
	// open; unlinking it does not break the flock we hold.
	if err := os.RemoveAll(filepath.Join(root, StateDir)); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// pruneEmptyParents removes directories left empty by an uninstall, walking
// up until it reaches the project root or a non-empty directory.
func pruneEmptyParents(root, dir string) {
	for dir != root && len(dir) > len(root) {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return
		}
		if os.Remove(dir) != nil {
			return
		}
		dir = filepath.Dir(dir)
	}
}
