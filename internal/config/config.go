// Package config reads and writes .viltkit.yaml, the per-project preferences
// file produced by `viltkit setup` and consumed by install/validate.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the preferences file name at the project root.
const FileName = ".viltkit.yaml"

// Assistant identifies an AI coding assistant target.
type Assistant string

const (
	AssistantClaude  Assistant = "claude"
	AssistantCopilot Assistant = "copilot"
)

// BoostPolicy controls how install treats Laravel Boost.
type BoostPolicy string

const (
	BoostPrompt BoostPolicy = "prompt" // ask before installing
	BoostAuto   BoostPolicy = "auto"   // install without asking
	BoostSkip   BoostPolicy = "skip"   // never install
)

// Config is the .viltkit.yaml document.
type Config struct {
	// Assistants selects which instruction sets to install.
	Assistants []Assistant `yaml:"assistants"`
	// InstallDocs installs the reference documentation set.
	InstallDocs bool `yaml:"install_docs"`
	// Boost controls Laravel Boost installation.
	Boost BoostPolicy `yaml:"boost,omitempty"`
	// BundleSource overrides the embedded bundle with a go-getter URL
	// (git::https://..., a local directory, or an archive).
	BundleSource string `yaml:"bundle_source,omitempty"`
}

// Default returns the configuration used when no .viltkit.yaml exists.
func Default() *Config {
	return &Config{
		Assistants:  []Assistant{AssistantClaude, AssistantCopilot},
		InstallDocs: true,
		Boost:       BoostPrompt,
	}
}

// Path returns the preferences file path for a project root.
func Path(root string) string {
	return filepath.Join(root, FileName)
}

// Load reads the preferences file from the project root. A missing file
// returns Default() with no error.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(Path(root))
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read %s: %w", FileName, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", FileName, err)
	}
	if errs := Validate(cfg); len(errs) > 0 {
		return nil, fmt.Errorf("invalid %s: %s", FileName, errs[0].Message)
	}
	return cfg, nil
}

// Save writes the preferences file to the project root.
func (c *Config) Save(root string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", FileName, err)
	}
	if err := os.WriteFile(Path(root), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", FileName, err)
	}
	return nil
}

// ValidationError describes a single validation problem.
type ValidationError struct {
	Field   string
	Message string
}

// Validate checks a Config and returns all problems found.
func Validate(cfg *Config) []ValidationError {
	var errs []ValidationError

	if len(cfg.Assistants) == 0 {
		errs = append(errs, ValidationError{
			Field:   "assistants",
			Message: "at least one assistant is required (claude, copilot)",
		})
	}
	for _, a := range cfg.Assistants {
		if a != AssistantClaude && a != AssistantCopilot {
			errs = append(errs, ValidationError{
				Field:   "assistants",
				Message: fmt.Sprintf("unknown assistant %q (must be claude or copilot)", a),
			})
		}
	}

	switch cfg.Boost {
	case "", BoostPrompt, BoostAuto, BoostSkip:
	default:
		errs = append(errs, ValidationError{
			Field:   "boost",
			Message: fmt.Sprintf("unknown boost policy %q (must be prompt, auto, or skip)", cfg.Boost),
		})
	}

	return errs
}

// WantsAssistant reports whether the assistant is selected.
func (c *Config) WantsAssistant(a Assistant) bool {
	for _, sel := range c.Assistants {
		if sel == a {
			return true
		}
	}
	return false
}
