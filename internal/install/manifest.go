package install

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// StateDir is the directory viltkit keeps its own records in, relative to
// the project root.
const StateDir = ".viltkit"

// manifestName is the install manifest file inside StateDir.
const manifestName = "manifest.json"

const manifestVersion = 1

// Manifest records one completed install: what was written, what was backed
// up, and which bundle it came from. Uninstall and status read it.
type Manifest struct {
	Version       int       `json:"version"`
	InstallID     string    `json:"install_id"`
	BundleName    string    `json:"bundle_name"`
	BundleVersion string    `json:"bundle_version"`
	InstalledAt   time.Time `json:"installed_at"`
	Sets          []string  `json:"sets"`

	// Files are project-relative paths written by the install, in write
	// order.
	Files []string `json:"files"`

	// Backups map overwritten originals to their preserved copies, both
	// project-relative.
	Backups []BackupRecord `json:"backups,omitempty"`
}

// BackupRecord preserves one overwritten file.
type BackupRecord struct {
	Original string `json:"original"`
	Backup   string `json:"backup"`
}

// ManifestPath returns the manifest location for a project root.
func ManifestPath(root string) string {
	return filepath.Join(root, StateDir, manifestName)
}

// LoadManifest reads the manifest for a project. Returns os.ErrNotExist
// (wrapped) when the project has no recorded install.
func LoadManifest(root string) (*Manifest, error) {
	data, err := os.ReadFile(ManifestPath(root))
	if err != nil {
		return nil, fmt.Errorf("read install manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse install manifest: %w", err)
	}
	return &m, nil
}

// Save writes the manifest atomically (temp file, then rename).
func (m *Manifest) Save(root string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal install manifest: %w", err)
	}

	dir := filepath.Join(root, StateDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", StateDir, err)
	}

	fp := ManifestPath(root)
	tmp := fp + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write manifest temp file: %w", err)
	}
	if err := os.Rename(tmp, fp); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename manifest into place: %w", err)
	}
	return nil
}

// HasManifest reports whether the project has a recorded install.
func HasManifest(root string) bool {
	_, err := os.Stat(ManifestPath(root))
	return err == nil
}
