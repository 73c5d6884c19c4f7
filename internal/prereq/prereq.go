// Package prereq checks the command-line tools viltkit depends on.
package prereq

import (
	"context"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

// Prerequisite describes one external tool viltkit needs or can use.
type Prerequisite struct {
	Name        string
	Description string
	InstallURL  string
	Required    bool

	// MinVersion, when set, is the lowest acceptable version. Tools that
	// cannot report a parseable version are treated as version-unknown, not
	// as failing the minimum.
	MinVersion string

	// VersionArgs invokes the tool's version output; defaults to --version.
	VersionArgs []string
}

// CheckResult is the outcome of probing one prerequisite.
type CheckResult struct {
	Prerequisite Prerequisite
	Found        bool
	Version      string
	TooOld       bool
}

// lookPathFunc and runVersionFunc are swapped in tests.
var (
	lookPathFunc   = exec.LookPath
	runVersionFunc = runVersion
)

// DefaultPrerequisites returns the tool set for a Laravel AI-assistant setup.
func DefaultPrerequisites() []Prerequisite {
	return []Prerequisite{
		{
			Name:        "php",
			Description: "PHP runtime used by artisan and Laravel Boost",
			InstallURL:  "https://www.php.net/downloads",
			Required:    true,
			MinVersion:  "8.2.0",
		},
		{
			Name:        "composer",
			Description: "PHP dependency manager, needed to install Laravel Boost",
			InstallURL:  "https://getcomposer.org/download/",
			Required:    true,
			MinVersion:  "2.0.0",
		},
		{
			Name:        "git",
			Description: "Version control, needed to fetch remote bundles",
			InstallURL:  "https://git-scm.com/downloads",
			Required:    true,
		},
		{
			Name:        "node",
			Description: "Node.js runtime, used by npx-based MCP servers",
			InstallURL:  "https://nodejs.org/",
			Required:    false,
		},
		{
			Name:        "claude",
			Description: "Claude Code CLI",
			InstallURL:  "https://claude.ai/code",
			Required:    false,
		},
		{
			Name:        "gh",
			Description: "GitHub CLI, used alongside Copilot instructions",
			InstallURL:  "https://cli.github.com/",
			Required:    false,
		},
	}
}

// CheckAll probes every prerequisite and returns one result per entry,
// preserving order.
func CheckAll(prereqs []Prerequisite) []CheckResult {
	results := make([]CheckResult, len(prereqs))
	for i, p := range prereqs {
		results[i] = check(p)
	}
	return results
}

func check(p Prerequisite) CheckResult {
	result := CheckResult{Prerequisite: p}

	if _, err := lookPathFunc(p.Name); err != nil {
		return result
	}
	result.Found = true

	out, err := runVersionFunc(p)
	if err != nil {
		return result
	}
	result.Version = firstLine(out)

	if p.MinVersion == "" {
		return result
	}
	found := extractVersion(out)
	if found == nil {
		return result
	}
	min, err := semver.NewVersion(p.MinVersion)
	if err != nil {
		return result
	}
	if found.LessThan(min) {
		result.TooOld = true
	}
	return result
}

func runVersion(p Prerequisite) (string, error) {
	args := p.VersionArgs
	if len(args) == 0 {
		args = []string{"--version"}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	out, err := exec.CommandContext(ctx, p.Name, args...).Output()
	return string(out), err
}

var versionRe = regexp.MustCompile(`\d+\.\d+(\.\d+)?`)

// extractVersion pulls the first x.y[.z] token out of version output.
// PHP prints "PHP 8.3.6 (cli)...", composer "Composer version 2.7.1 ...".
func extractVersion(out string) *semver.Version {
	m := versionRe.FindString(out)
	if m == "" {
		return nil
	}
	v, err := semver.NewVersion(m)
	if err != nil {
		return nil
	}
	return v
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// AnyRequiredMissing reports whether any required tool is absent or too old.
func AnyRequiredMissing(results []CheckResult) bool {
	for _, r := range results {
		if r.Prerequisite.Required && (!r.Found || r.TooOld) {
			return true
		}
	}
	return false
}
