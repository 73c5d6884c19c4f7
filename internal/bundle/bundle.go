// Package bundle provides the installable content set: instruction files,
// agent personas, MCP configuration templates, and reference docs. The
// default bundle is embedded in the binary so installs work offline; an
// alternate bundle can be fetched from any go-getter source (git repos,
// archives, local directories).
package bundle

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	getter "github.com/hashicorp/go-getter"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/viltkit/viltkit/internal/logger"
)

//go:embed all:templates
var embedded embed.FS

// MetaFileName is the bundle metadata file at the bundle root.
const MetaFileName = "bundle.yaml"

// Info is the bundle.yaml document.
type Info struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Description string `yaml:"description,omitempty"`
}

// Bundle is a bundle staged on disk, ready to be copied into a project.
// Close removes the staging directory.
type Bundle struct {
	Info Info

	root    string
	cleanup func() error
}

// Root returns the staging directory holding the bundle files.
func (b *Bundle) Root() string { return b.root }

// Path resolves a bundle-relative slash path to the staged file.
func (b *Bundle) Path(rel string) string {
	return filepath.Join(b.root, filepath.FromSlash(rel))
}

// Close removes the staging directory. Safe to call more than once.
func (b *Bundle) Close() error {
	if b.cleanup == nil {
		return nil
	}
	fn := b.cleanup
	b.cleanup = nil
	return fn()
}

// Open stages a bundle for installation. An empty source stages the embedded
// default bundle; anything else is handed to go-getter (git::https URLs,
// archives, plain directories) and downloaded into a temp dir.
func Open(ctx context.Context, source string) (*Bundle, error) {
	if source == "" {
		return openEmbedded()
	}
	return fetch(ctx, source)
}

func openEmbedded() (*Bundle, error) {
	dir, err := os.MkdirTemp("", "viltkit-bundle-")
	if err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}
	b := &Bundle{
		root:    dir,
		cleanup: func() error { return os.RemoveAll(dir) },
	}

	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		b.Close()
		return nil, err
	}
	if err := stageFS(sub, dir); err != nil {
		b.Close()
		return nil, fmt.Errorf("stage embedded bundle: %w", err)
	}
	if err := b.readMeta(); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

// fetch downloads an alternate bundle into a temp dir via go-getter.
func fetch(ctx context.Context, source string) (*Bundle, error) {
	parent, err := os.MkdirTemp("", "viltkit-fetch-")
	if err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}
	// go-getter requires a destination that doesn't exist yet in dir mode.
	dst := filepath.Join(parent, "bundle")

	logger.L().Debug("fetching bundle", zap.String("source", source))
	client := &getter.Client{
		Ctx:  ctx,
		Src:  source,
		Dst:  dst,
		Mode: getter.ClientModeDir,
	}
	if err := client.Get(); err != nil {
		os.RemoveAll(parent)
		return nil, fmt.Errorf("fetch bundle from %s: %w", source, err)
	}

	b := &Bundle{
		root:    dst,
		cleanup: func() error { return os.RemoveAll(parent) },
	}
	if err := b.readMeta(); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

// readMeta loads bundle.yaml. A fetched bundle without one is rejected:
// arbitrary repositories should not be installable by accident.
func (b *Bundle) readMeta() error {
	data, err := os.ReadFile(filepath.Join(b.root, MetaFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("bundle has no %s: not a viltkit bundle", MetaFileName)
		}
		return err
	}
	if err := yaml.Unmarshal(data, &b.Info); err != nil {
		return fmt.Errorf("parse %s: %w", MetaFileName, err)
	}
	if b.Info.Name == "" || b.Info.Version == "" {
		return fmt.Errorf("%s must declare name and version", MetaFileName)
	}
	return nil
}

// stageFS copies an fs.FS tree to a directory on disk.
func stageFS(src fs.FS, dst string) error {
	return fs.WalkDir(src, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		target := filepath.Join(dst, filepath.FromSlash(path))
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := fs.ReadFile(src, path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
}
