// Package project detects and describes the Laravel project viltkit operates on.
// A directory is considered a Laravel project when it contains the artisan
// script; composer.json and package.json refine the picture (stack, Boost).
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// MarkerFile is the file whose presence identifies a Laravel project root.
const MarkerFile = "artisan"

// ErrNotLaravelProject is returned when no artisan marker can be found.
var ErrNotLaravelProject = errors.New("not a Laravel project (no artisan file found)")

// Stack identifies the frontend stack the project uses.
type Stack string

const (
	StackVILT    Stack = "vilt" // Vue + Inertia + Laravel + Tailwind
	StackTALL    Stack = "tall" // Tailwind + Alpine + Laravel + Livewire
	StackUnknown Stack = "unknown"
)

// Project describes a detected Laravel project.
type Project struct {
	Root    string
	Name    string
	Stack   Stack
	Laravel string // laravel/framework constraint from composer.json, if any

	// Dependency maps from composer.json. Keys are package names, values the
	// declared version constraints.
	Require    map[string]string
	RequireDev map[string]string

	// NPM dependencies from package.json (dependencies + devDependencies).
	NodeDeps map[string]string
}

// composerFile is the subset of composer.json we care about.
type composerFile struct {
	Name       string            `json:"name"`
	Require    map[string]string `json:"require"`
	RequireDev map[string]string `json:"require-dev"`
}

// packageFile is the subset of package.json we care about.
type packageFile struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// IsProjectRoot reports whether dir contains the artisan marker file.
func IsProjectRoot(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, MarkerFile))
	return err == nil && !info.IsDir()
}

// FindRoot walks upward from start looking for the artisan marker.
// Returns ErrNotLaravelProject if no ancestor qualifies.
func FindRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		if IsProjectRoot(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotLaravelProject
		}
		dir = parent
	}
}

// Detect inspects root and returns a populated Project.
// The artisan marker is required; composer.json and package.json are optional
// refinements and their absence is not an error.
func Detect(root string) (*Project, error) {
	if !IsProjectRoot(root) {
		return nil, ErrNotLaravelProject
	}

	p := &Project{
		Root:       root,
		Stack:      StackUnknown,
		Require:    map[string]string{},
		RequireDev: map[string]string{},
		NodeDeps:   map[string]string{},
	}

	if data, err := os.ReadFile(filepath.Join(root, "composer.json")); err == nil {
		var cf composerFile
		if err := json.Unmarshal(data, &cf); err != nil {
			return nil, fmt.Errorf("parse composer.json: %w", err)
		}
		p.Name = cf.Name
		if cf.Require != nil {
			p.Require = cf.Require
		}
		if cf.RequireDev != nil {
			p.RequireDev = cf.RequireDev
		}
		p.Laravel = p.Require["laravel/framework"]
	}

	if data, err := os.ReadFile(filepath.Join(root, "package.json")); err == nil {
		var pf packageFile
		if err := json.Unmarshal(data, &pf); err != nil {
			return nil, fmt.Errorf("parse package.json: %w", err)
		}
		for k, v := range pf.Dependencies {
			p.NodeDeps[k] = v
		}
		for k, v := range pf.DevDependencies {
			p.NodeDeps[k] = v
		}
	}

	p.Stack = detectStack(p)
	return p, nil
}

// detectStack classifies the frontend stack from dependency names.
// Livewire wins over Inertia when both are present, matching how hybrid
// projects are documented in the bundle.
func detectStack(p *Project) Stack {
	if _, ok := p.Require["livewire/livewire"]; ok {
		return StackTALL
	}
	_, hasInertia := p.Require["inertiajs/inertia-laravel"]
	_, hasVue := p.NodeDeps["vue"]
	if hasInertia && hasVue {
		return StackVILT
	}
	if _, ok := p.NodeDeps["alpinejs"]; ok {
		return StackTALL
	}
	if hasInertia || hasVue {
		return StackVILT
	}
	return StackUnknown
}

// HasComposerPackage reports whether the package appears in require or
// require-dev.
func (p *Project) HasComposerPackage(name string) bool {
	if _, ok := p.Require[name]; ok {
		return true
	}
	_, ok := p.RequireDev[name]
	return ok
}

// HasBoost reports whether Laravel Boost is already a dependency.
func (p *Project) HasBoost() bool {
	return p.HasComposerPackage("laravel/boost")
}
