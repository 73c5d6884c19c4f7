package bundle

import "github.com/viltkit/viltkit/internal/config"

// Entry maps one bundle path to its destination in the project. Paths are
// slash-separated and relative on both sides.
type Entry struct {
	Source string
	Dest   string
	// Dir marks a whole-directory copy.
	Dir bool
	// Backup preserves a pre-existing destination before overwriting.
	Backup bool
	// MergeMCP merges the entry into an existing MCP config instead of
	// copying over it. The Dest flavor is inferred from its path.
	MergeMCP bool
}

// FileSet is a named group of entries installed together.
type FileSet struct {
	Name        string
	Description string
	Entries     []Entry
}

// claudeSet carries the Claude Code surface.
var claudeSet = FileSet{
	Name:        "claude",
	Description: "Claude Code instructions and agent personas",
	Entries: []Entry{
		{Source: "CLAUDE.md", Dest: "CLAUDE.md", Backup: true},
		{Source: ".claude/agents", Dest: ".claude/agents", Dir: true},
		{Source: ".mcp.json", Dest: ".mcp.json", Backup: true, MergeMCP: true},
	},
}

// copilotSet carries the GitHub Copilot surface.
var copilotSet = FileSet{
	Name:        "copilot",
	Description: "GitHub Copilot instructions and VS Code MCP servers",
	Entries: []Entry{
		{Source: ".github/copilot-instructions.md", Dest: ".github/copilot-instructions.md"},
		{Source: ".vscode/mcp.json", Dest: ".vscode/mcp.json", Backup: true, MergeMCP: true},
	},
}

// docsSet carries the optional reference documentation.
var docsSet = FileSet{
	Name:        "docs",
	Description: "Reference documentation (setup guide, stack migration notes)",
	Entries: []Entry{
		{Source: "docs/ai", Dest: "docs/ai", Dir: true},
	},
}

// SetsFor selects the file sets matching the project preferences.
func SetsFor(cfg *config.Config) []FileSet {
	var sets []FileSet
	if cfg.WantsAssistant(config.AssistantClaude) {
		sets = append(sets, claudeSet)
	}
	if cfg.WantsAssistant(config.AssistantCopilot) {
		sets = append(sets, copilotSet)
	}
	if cfg.InstallDocs {
		sets = append(sets, docsSet)
	}
	return sets
}

// AllSets returns every defined file set, used by validate to know what a
// complete install looks like.
func AllSets() []FileSet {
	return []FileSet{claudeSet, copilotSet, docsSet}
}
