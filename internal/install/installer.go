// Package install applies a bundle to a Laravel project. Installs are
// transactional at the file level: every write is recorded, pre-existing
// files are backed up before being overwritten, and a failed step rolls the
// project back to where it started.
package install

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/otiai10/copy"
	"go.uber.org/zap"

	"github.com/viltkit/viltkit/internal/bundle"
	"github.com/viltkit/viltkit/internal/execx"
	"github.com/viltkit/viltkit/internal/logger"
	"github.com/viltkit/viltkit/internal/mcpcfg"
	"github.com/viltkit/viltkit/internal/project"
)

// lockName is the advisory lock file inside StateDir guarding concurrent
// installs of the same project.
const lockName = "install.lock"

// ErrLocked is returned when another viltkit process holds the install lock.
var ErrLocked = fmt.Errorf("another viltkit install is in progress for this project")

// Options configures one install run.
type Options struct {
	// Source is a go-getter bundle URL; empty means the embedded bundle.
	Source string
	// Sets are the file sets to install, from bundle.SetsFor.
	Sets []bundle.FileSet
	// InstallBoost runs composer/artisan to add Laravel Boost first.
	InstallBoost bool
	// Force overwrites conflicting MCP server entries.
	Force bool
	// DryRun prints the plan without touching the project.
	DryRun bool

	Runner execx.Runner
	Output io.Writer
}

// Installer applies a bundle to one project.
type Installer struct {
	project *project.Project
	opts    Options

	// files and backups the previous install tracked, by project-relative path
	priorFiles    map[string]bool
	priorBackedUp map[string]bool

	// rollback state, in apply order
	created     []string
	backups     []BackupRecord
	ownStateDir bool
}

// New builds an installer for a detected project.
func New(p *project.Project, opts Options) *Installer {
	if opts.Runner == nil {
		opts.Runner = execx.RealRunner{}
	}
	if opts.Output == nil {
		opts.Output = io.Discard
	}
	return &Installer{
		project:       p,
		opts:          opts,
		priorFiles:    map[string]bool{},
		priorBackedUp: map[string]bool{},
	}
}

// Run performs the install and returns the written manifest.
// On failure the project is rolled back and the error returned; rollback
// problems are attached to the original error.
func (in *Installer) Run(ctx context.Context) (*Manifest, error) {
	root := in.project.Root

	var prior *Manifest
	if !in.opts.DryRun {
		release, created, err := acquireLock(root)
		if err != nil {
			return nil, err
		}
		defer release()
		in.ownStateDir = created

		// A reinstall keeps tracking the files the previous install wrote,
		// so uninstall still removes everything.
		if HasManifest(root) {
			prior, err = LoadManifest(root)
			if err != nil {
				return nil, err
			}
			for _, rel := range prior.Files {
				in.priorFiles[rel] = true
			}
			for _, rec := range prior.Backups {
				in.priorBackedUp[rec.Original] = true
			}
		}
	}

	if in.opts.InstallBoost && !in.project.HasBoost() {
		if err := in.installBoost(ctx); err != nil {
			return nil, in.rollback(err)
		}
	}

	b, err := bundle.Open(ctx, in.opts.Source)
	if err != nil {
		if in.opts.DryRun {
			return nil, err
		}
		return nil, in.rollback(err)
	}
	defer func() {
		if err := b.Close(); err != nil {
			logger.L().Debug("bundle cleanup", zap.Error(err))
		}
	}()

	plan, err := in.plan(b)
	if err != nil {
		if in.opts.DryRun {
			return nil, err
		}
		return nil, in.rollback(err)
	}

	if in.opts.DryRun {
		in.printPlan(b, plan)
		return nil, nil
	}

	manifest := &Manifest{
		Version:       manifestVersion,
		InstallID:     uuid.NewString(),
		BundleName:    b.Info.Name,
		BundleVersion: b.Info.Version,
		InstalledAt:   nowFunc(),
	}
	for _, set := range in.opts.Sets {
		manifest.Sets = append(manifest.Sets, set.Name)
	}

	for _, action := range plan {
		if err := in.apply(b, action); err != nil {
			return nil, in.rollback(fmt.Errorf("install %s: %w", action.Dest, err))
		}
	}

	manifest.Files = in.created
	manifest.Backups = in.backups
	if prior != nil {
		for _, rel := range prior.Files {
			if !slices.Contains(manifest.Files, rel) {
				manifest.Files = append(manifest.Files, rel)
			}
		}
		manifest.Backups = append(prior.Backups, in.backups...)
	}
	sort.Strings(manifest.Files)
	if err := manifest.Save(root); err != nil {
		return nil, in.rollback(err)
	}

	logger.L().Info("install complete",
		zap.String("bundle", b.Info.Name),
		zap.String("version", b.Info.Version),
		zap.Int("files", len(manifest.Files)))
	return manifest, nil
}

// acquireLock takes the advisory lock guarding installs and uninstalls of
// one project. It reports whether this call created the state dir, so a
// failed run can remove it again.
func acquireLock(root string) (release func(), createdStateDir bool, err error) {
	dir := filepath.Join(root, StateDir)
	created := false
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		created = true
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, false, fmt.Errorf("create %s: %w", StateDir, err)
	}
	fl := flock.New(filepath.Join(dir, lockName))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, false, fmt.Errorf("acquire install lock: %w", err)
	}
	if !locked {
		return nil, false, ErrLocked
	}
	return func() {
		if err := fl.Unlock(); err != nil {
			logger.L().Debug("release install lock", zap.Error(err))
		}
	}, created, nil
}

// action is one planned file operation, a file-level expansion of the
// configured file sets.
type action struct {
	Source   string // bundle-relative
	Dest     string // project-relative
	Backup   bool
	MergeMCP bool
}

// plan expands directory entries into per-file actions so rollback and the
// manifest track individual files.
func (in *Installer) plan(b *bundle.Bundle) ([]action, error) {
	var actions []action
	for _, set := range in.opts.Sets {
		for _, entry := range set.Entries {
			if !entry.Dir {
				actions = append(actions, action{
					Source:   entry.Source,
					Dest:     entry.Dest,
					Backup:   entry.Backup,
					MergeMCP: entry.MergeMCP,
				})
				continue
			}

			srcDir := b.Path(entry.Source)
			err := filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if info.IsDir() {
					return nil
				}
				rel, err := filepath.Rel(srcDir, path)
				if err != nil {
					return err
				}
				rel = filepath.ToSlash(rel)
				actions = append(actions, action{
					Source: entry.Source + "/" + rel,
					Dest:   entry.Dest + "/" + rel,
				})
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("bundle is missing %s: %w", entry.Source, err)
			}
		}
	}
	sort.SliceStable(actions, func(i, j int) bool { return actions[i].Dest < actions[j].Dest })
	return actions, nil
}

func (in *Installer) printPlan(b *bundle.Bundle, plan []action) {
	fmt.Fprintf(in.opts.Output, "Bundle: %s %s\n", b.Info.Name, b.Info.Version)
	fmt.Fprintln(in.opts.Output, "Would install:")
	for _, a := range plan {
		suffix := ""
		if a.MergeMCP {
			suffix = " (merge)"
		} else if a.Backup {
			if _, err := os.Stat(filepath.Join(in.project.Root, filepath.FromSlash(a.Dest))); err == nil {
				suffix = " (backing up existing)"
			}
		}
		fmt.Fprintf(in.opts.Output, "  %s%s\n", a.Dest, suffix)
	}
}

// apply executes one action, recording rollback state as it goes.
func (in *Installer) apply(b *bundle.Bundle, a action) error {
	dest := filepath.Join(in.project.Root, filepath.FromSlash(a.Dest))

	if a.MergeMCP {
		return in.mergeMCP(b, a, dest)
	}

	existed := fileExists(dest)
	if existed && in.wantsBackup(a) {
		if err := in.backupFile(a.Dest, dest); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	if err := copy.Copy(b.Path(a.Source), dest); err != nil {
		return err
	}
	if !existed {
		in.created = append(in.created, a.Dest)
	}
	fmt.Fprintf(in.opts.Output, "  installed %s\n", a.Dest)
	return nil
}

// mergeMCP merges the bundle's MCP template into the project's config,
// creating it when absent. User entries win unless Force is set.
func (in *Installer) mergeMCP(b *bundle.Bundle, a action, dest string) error {
	flavor := mcpcfg.FlavorClaude
	if filepath.ToSlash(a.Dest) == mcpcfg.VSCodeFileName {
		flavor = mcpcfg.FlavorVSCode
	}

	template, err := mcpcfg.Load(flavor, b.Path(a.Source))
	if err != nil {
		return fmt.Errorf("bundle mcp template: %w", err)
	}

	existed := fileExists(dest)
	current, err := mcpcfg.Load(flavor, dest)
	if err != nil {
		return err
	}
	if existed && in.wantsBackup(a) {
		if err := in.backupFile(a.Dest, dest); err != nil {
			return err
		}
	}

	changed := current.Merge(template, in.opts.Force)
	if err := current.Save(); err != nil {
		return err
	}
	if !existed {
		in.created = append(in.created, a.Dest)
	}
	fmt.Fprintf(in.opts.Output, "  merged %s (%d server(s) added)\n", a.Dest, len(changed))
	return nil
}

// wantsBackup reports whether an existing dest should be backed up first.
// Files the previous install wrote or already backed up are ours, not the
// user's, so overwriting them needs no new backup.
func (in *Installer) wantsBackup(a action) bool {
	return a.Backup && !in.priorFiles[a.Dest] && !in.priorBackedUp[a.Dest]
}

// backupFile copies dest to the next free <name>.backup.<n> beside it.
func (in *Installer) backupFile(rel, dest string) error {
	var backupPath, backupRel string
	for n := 1; ; n++ {
		backupRel = fmt.Sprintf("%s.backup.%d", rel, n)
		backupPath = fmt.Sprintf("%s.backup.%d", dest, n)
		if !fileExists(backupPath) {
			break
		}
	}
	if err := copy.Copy(dest, backupPath); err != nil {
		return fmt.Errorf("back up %s: %w", rel, err)
	}
	in.backups = append(in.backups, BackupRecord{Original: rel, Backup: backupRel})
	fmt.Fprintf(in.opts.Output, "  backed up %s -> %s\n", rel, backupRel)
	return nil
}

// rollback undoes everything applied so far: created files are deleted and
// backed-up originals restored. Cleanup failures are attached to cause.
func (in *Installer) rollback(cause error) error {
	result := multierror.Append(nil, cause)
	root := in.project.Root

	for i := len(in.created) - 1; i >= 0; i-- {
		path := filepath.Join(root, filepath.FromSlash(in.created[i]))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			result = multierror.Append(result, fmt.Errorf("rollback %s: %w", in.created[i], err))
		}
	}
	for i := len(in.backups) - 1; i >= 0; i-- {
		rec := in.backups[i]
		backupPath := filepath.Join(root, filepath.FromSlash(rec.Backup))
		origPath := filepath.Join(root, filepath.FromSlash(rec.Original))
		if err := os.Rename(backupPath, origPath); err != nil {
			result = multierror.Append(result, fmt.Errorf("restore %s: %w", rec.Original, err))
		}
	}

	// The lock dir is this run's only trace when the project had no prior
	// install; leave nothing behind.
	if in.ownStateDir {
		if err := os.RemoveAll(filepath.Join(root, StateDir)); err != nil {
			result = multierror.Append(result, fmt.Errorf("remove %s: %w", StateDir, err))
		}
	}

	logger.L().Warn("install rolled back", zap.Error(cause))
	return result.ErrorOrNil()
}

// installBoost shells out to composer and artisan, the same two commands the
// manual setup documents.
func (in *Installer) installBoost(ctx context.Context) error {
	fmt.Fprintln(in.opts.Output, "Installing Laravel Boost...")

	if _, err := in.opts.Runner.Run(ctx, in.project.Root,
		"composer", "require", "--dev", "laravel/boost"); err != nil {
		return fmt.Errorf("composer require laravel/boost: %w", err)
	}
	if _, err := in.opts.Runner.Run(ctx, in.project.Root,
		"php", "artisan", "boost:install", "--no-interaction"); err != nil {
		return fmt.Errorf("php artisan boost:install: %w", err)
	}

	fmt.Fprintln(in.opts.Output, "  Laravel Boost installed")
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// nowFunc is stubbed in tests.
var nowFunc = time.Now
