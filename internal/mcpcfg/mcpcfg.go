// Package mcpcfg reads, edits, and probes MCP (Model Context Protocol) server
// configuration files. Two flavors are supported: Claude Code's .mcp.json
// (servers under "mcpServers") and VS Code's .vscode/mcp.json (servers under
// "servers", each entry carrying a "type").
package mcpcfg

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Well-known config file locations relative to a project root.
const (
	ClaudeFileName = ".mcp.json"
	VSCodeFileName = ".vscode/mcp.json"
)

// Flavor selects the on-disk schema.
type Flavor string

const (
	FlavorClaude Flavor = "claude"
	FlavorVSCode Flavor = "vscode"
)

// serversKey returns the top-level key holding the server map.
func (f Flavor) serversKey() string {
	if f == FlavorVSCode {
		return "servers"
	}
	return "mcpServers"
}

// FileName returns the config path for this flavor relative to a project root.
func (f Flavor) FileName() string {
	if f == FlavorVSCode {
		return filepath.FromSlash(VSCodeFileName)
	}
	return ClaudeFileName
}

// ServerConfig describes one MCP server entry. Stdio servers set Command/Args;
// HTTP servers set URL. Env values may reference environment variables with
// ${VAR} placeholders, resolved at probe time.
type ServerConfig struct {
	Type        string            `json:"type,omitempty"`
	Command     string            `json:"command,omitempty"`
	Args        []string          `json:"args,omitempty"`
	Env         map[string]string `json:"env,omitempty"`
	URL         string            `json:"url,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
	Description string            `json:"description,omitempty"`
}

// IsHTTP reports whether the server is reached over HTTP rather than stdio.
func (s *ServerConfig) IsHTTP() bool {
	return s.URL != "" || s.Type == "http" || s.Type == "sse"
}

// File is a parsed MCP configuration file. Unknown top-level keys are
// preserved across load/save so viltkit never destroys user settings it
// does not understand.
type File struct {
	Flavor  Flavor
	Path    string
	Servers map[string]*ServerConfig

	extra map[string]json.RawMessage
}

// New returns an empty config file of the given flavor rooted at path.
func New(flavor Flavor, path string) *File {
	return &File{
		Flavor:  flavor,
		Path:    path,
		Servers: map[string]*ServerConfig{},
		extra:   map[string]json.RawMessage{},
	}
}

// Load parses the config file at path. A missing file yields an empty File
// with no error, so callers can add servers and Save.
func Load(flavor Flavor, path string) (*File, error) {
	f := New(flavor, path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	key := flavor.serversKey()
	if serverJSON, ok := raw[key]; ok {
		if err := json.Unmarshal(serverJSON, &f.Servers); err != nil {
			return nil, fmt.Errorf("parse %s entries in %s: %w", key, path, err)
		}
		delete(raw, key)
	}
	f.extra = raw
	return f, nil
}

// LoadProject loads the config of the given flavor from a project root.
func LoadProject(flavor Flavor, root string) (*File, error) {
	return Load(flavor, filepath.Join(root, flavor.FileName()))
}

// Save writes the file back to its path, creating parent directories.
// Preserved unknown keys are emitted alongside the server map.
func (f *File) Save() error {
	doc := map[string]any{}
	for k, v := range f.extra {
		doc[k] = v
	}
	doc[f.Flavor.serversKey()] = f.Servers

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", f.Path, err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", f.Path, err)
	}
	if err := os.WriteFile(f.Path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", f.Path, err)
	}
	return nil
}

// Names returns the configured server names, sorted.
func (f *File) Names() []string {
	names := make([]string, 0, len(f.Servers))
	for name := range f.Servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Add inserts a server entry. Existing entries are only replaced when force
// is set; otherwise Add reports a conflict.
func (f *File) Add(name string, server *ServerConfig, force bool) error {
	if _, exists := f.Servers[name]; exists && !force {
		return fmt.Errorf("server %q already configured in %s (use --force to replace)", name, f.Path)
	}
	f.Servers[name] = server
	return nil
}

// Remove deletes a server entry, reporting whether it existed.
func (f *File) Remove(name string) bool {
	if _, ok := f.Servers[name]; !ok {
		return false
	}
	delete(f.Servers, name)
	return true
}

// Merge copies entries from src that the file does not already have.
// With force set, src entries replace existing ones. Returns the names added
// or replaced.
func (f *File) Merge(src *File, force bool) []string {
	var changed []string
	for _, name := range src.Names() {
		if _, exists := f.Servers[name]; exists && !force {
			continue
		}
		f.Servers[name] = src.Servers[name]
		changed = append(changed, name)
	}
	return changed
}

// Validate checks every entry for schema problems and returns all of them.
func (f *File) Validate() []string {
	var problems []string
	for _, name := range f.Names() {
		s := f.Servers[name]
		if s.Command == "" && s.URL == "" {
			problems = append(problems, fmt.Sprintf("server %q: one of command or url is required", name))
		}
		if s.Command != "" && s.URL != "" {
			problems = append(problems, fmt.Sprintf("server %q: command and url are mutually exclusive", name))
		}
		if f.Flavor == FlavorVSCode && s.Type == "" {
			problems = append(problems, fmt.Sprintf("server %q: vscode entries require a type (stdio, http, or sse)", name))
		}
	}
	return problems
}
