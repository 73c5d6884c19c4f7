package validate

import (
	"fmt"

	"github.com/viltkit/viltkit/internal/agents"
	"github.com/viltkit/viltkit/internal/config"
	"github.com/viltkit/viltkit/internal/mcpcfg"
	"github.com/viltkit/viltkit/internal/project"
)

// DefaultChecks is the standard assertion list for an installed project.
// It mirrors the install surface: marker file, instruction files, personas,
// and MCP configuration for both assistants.
func DefaultChecks() []Check {
	return []Check{
		{
			Name:     "laravel project marker",
			Severity: SeverityError,
			Hint:     "run viltkit from a Laravel project root (artisan must exist)",
			Fn:       FileExists("artisan"),
		},
		{
			Name:     "claude instructions",
			Severity: SeverityError,
			Hint:     "run `viltkit install` to install CLAUDE.md",
			Fn:       FileExists("CLAUDE.md"),
		},
		{
			Name:     "claude instructions mention the stack",
			Severity: SeverityWarning,
			Hint:     "CLAUDE.md should describe the VILT stack (Inertia) so the assistant stays on it",
			Fn:       ContentMatches("CLAUDE.md", `(?i)inertia`),
		},
		{
			Name:     "agent personas installed",
			Severity: SeverityError,
			Hint:     "run `viltkit install` to install .claude/agents/",
			Fn:       GlobAny(".claude/agents/*.md"),
		},
		{
			Name:     "agent personas parse",
			Severity: SeverityWarning,
			Hint:     "fix the frontmatter in the listed persona files",
			Fn:       personasParse,
		},
		{
			Name:     "claude mcp config",
			Severity: SeverityError,
			Hint:     "run `viltkit install` to install .mcp.json",
			Fn:       All(FileExists(".mcp.json"), mcpWellFormed(mcpcfg.FlavorClaude)),
		},
		{
			Name:     "laravel boost mcp server declared",
			Severity: SeverityError,
			Hint:     "add the laravel-boost server with `viltkit mcp add`",
			Fn:       mcpDeclares(mcpcfg.FlavorClaude, "laravel-boost"),
		},
		{
			Name:     "laravel boost installed",
			Severity: SeverityWarning,
			Hint:     "composer require --dev laravel/boost && php artisan boost:install",
			Fn:       boostInstalled,
		},
		{
			Name:     "copilot instructions",
			Severity: SeverityError,
			Hint:     "run `viltkit install` to install .github/copilot-instructions.md",
			Fn:       FileExists(".github/copilot-instructions.md"),
		},
		{
			Name:     "vscode mcp config",
			Severity: SeverityWarning,
			Hint:     "run `viltkit install` to install .vscode/mcp.json for Copilot agent mode",
			Fn:       All(FileExists(".vscode/mcp.json"), mcpWellFormed(mcpcfg.FlavorVSCode)),
		},
		{
			Name:     "viltkit preferences",
			Severity: SeverityWarning,
			Hint:     "run `viltkit setup` to record preferences in .viltkit.yaml",
			Fn:       FileExists(config.FileName),
		},
		{
			Name:     "reference docs",
			Severity: SeverityWarning,
			Hint:     "reinstall with docs enabled to get docs/ai/",
			Fn:       GlobAny("docs/ai/*.md"),
		},
	}
}

// mcpWellFormed parses the config of the given flavor and runs its schema
// validation.
func mcpWellFormed(flavor mcpcfg.Flavor) func(string) error {
	return func(root string) error {
		f, err := mcpcfg.LoadProject(flavor, root)
		if err != nil {
			return err
		}
		if problems := f.Validate(); len(problems) > 0 {
			return fmt.Errorf("%s", problems[0])
		}
		return nil
	}
}

// mcpDeclares asserts that a named server is configured.
func mcpDeclares(flavor mcpcfg.Flavor, name string) func(string) error {
	return func(root string) error {
		f, err := mcpcfg.LoadProject(flavor, root)
		if err != nil {
			return err
		}
		if _, ok := f.Servers[name]; !ok {
			return fmt.Errorf("%s does not declare server %q", flavor.FileName(), name)
		}
		return nil
	}
}

func personasParse(root string) error {
	_, problems := agents.List(root)
	if len(problems) > 0 {
		return fmt.Errorf("%d persona file(s) failed to parse: %v", len(problems), problems[0])
	}
	return nil
}

func boostInstalled(root string) error {
	p, err := project.Detect(root)
	if err != nil {
		return err
	}
	if !p.HasBoost() {
		return fmt.Errorf("laravel/boost is not in composer.json")
	}
	return nil
}
