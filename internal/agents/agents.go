// Package agents discovers installed agent persona files. A persona is a
// markdown file under .claude/agents/ with YAML frontmatter carrying its
// metadata, followed by the prose instructions the assistant loads.
package agents

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Dir is the persona directory relative to a project root.
var Dir = filepath.Join(".claude", "agents")

// Agent is one parsed persona file.
type Agent struct {
	Name        string
	Description string
	Model       string
	Tools       []string
	Path        string
	Body        string
}

// metadata is the YAML frontmatter in a persona file.
type metadata struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Model       string   `yaml:"model"`
	Tools       []string `yaml:"tools"`
}

// List parses every persona under root's agents directory, sorted by name.
// A missing directory yields an empty list, not an error. Files that fail to
// parse are skipped and reported in the second return value.
func List(root string) ([]Agent, []error) {
	dir := filepath.Join(root, Dir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, []error{err}
	}

	var agents []Agent
	var problems []error
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		agent, err := ParseFile(path)
		if err != nil {
			problems = append(problems, fmt.Errorf("%s: %w", entry.Name(), err))
			continue
		}
		agents = append(agents, agent)
	}

	sort.Slice(agents, func(i, j int) bool { return agents[i].Name < agents[j].Name })
	return agents, problems
}

// Get returns the persona with the given frontmatter name.
func Get(root, name string) (Agent, error) {
	agents, _ := List(root)
	for _, a := range agents {
		if a.Name == name {
			return a, nil
		}
	}
	return Agent{}, fmt.Errorf("agent %q not found under %s", name, Dir)
}

// ParseFile reads and parses one persona file.
func ParseFile(path string) (Agent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Agent{}, err
	}
	agent, err := Parse(string(data))
	if err != nil {
		return Agent{}, err
	}
	agent.Path = path
	return agent, nil
}

// Parse splits frontmatter from body and decodes the metadata. The file must
// open with a "---" line; the frontmatter ends at the next "---" line.
func Parse(content string) (Agent, error) {
	rest, found := strings.CutPrefix(content, "---\n")
	if !found {
		return Agent{}, fmt.Errorf("missing frontmatter delimiter")
	}
	front, body, found := strings.Cut(rest, "\n---")
	if !found {
		return Agent{}, fmt.Errorf("unterminated frontmatter")
	}

	var meta metadata
	if err := yaml.Unmarshal([]byte(front), &meta); err != nil {
		return Agent{}, fmt.Errorf("parse frontmatter: %w", err)
	}
	if meta.Name == "" {
		return Agent{}, fmt.Errorf("frontmatter missing name")
	}

	return Agent{
		Name:        meta.Name,
		Description: meta.Description,
		Model:       meta.Model,
		Tools:       meta.Tools,
		Body:        strings.TrimPrefix(body, "\n"),
	}, nil
}
