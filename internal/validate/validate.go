// Package validate checks that a project's AI assistant setup is complete
// and well-formed. Checks are independent assertions: every check runs, each
// failure increments the error or warning count, and nothing aborts early.
package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/bmatcuk/doublestar/v4"
)

// Severity classifies a failed check.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Check is a single assertion against the project tree.
type Check struct {
	Name     string
	Severity Severity
	// Hint is shown when the check fails.
	Hint string
	// Fn returns nil on pass, otherwise the failure detail.
	Fn func(root string) error
}

// Outcome is one executed check.
type Outcome struct {
	Check  Check
	Passed bool
	Detail string
}

// Report aggregates a full run.
type Report struct {
	Outcomes []Outcome
	Errors   int
	Warnings int
}

// Failed reports whether the run should exit non-zero. Strict mode promotes
// warnings to failures.
func (r *Report) Failed(strict bool) bool {
	if strict {
		return r.Errors > 0 || r.Warnings > 0
	}
	return r.Errors > 0
}

// Run executes every check against root. Checks never see each other's
// results.
func Run(root string, checks []Check) *Report {
	report := &Report{}
	for _, check := range checks {
		outcome := Outcome{Check: check, Passed: true}
		if err := check.Fn(root); err != nil {
			outcome.Passed = false
			outcome.Detail = err.Error()
			switch check.Severity {
			case SeverityWarning:
				report.Warnings++
			default:
				report.Errors++
			}
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}
	return report
}

// FileExists asserts a regular file at rel.
func FileExists(rel string) func(string) error {
	return func(root string) error {
		info, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return fmt.Errorf("%s is missing", rel)
		}
		if info.IsDir() {
			return fmt.Errorf("%s is a directory, expected a file", rel)
		}
		return nil
	}
}

// DirExists asserts a directory at rel.
func DirExists(rel string) func(string) error {
	return func(root string) error {
		info, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil || !info.IsDir() {
			return fmt.Errorf("%s directory is missing", rel)
		}
		return nil
	}
}

// GlobAny asserts that at least one file matches the doublestar pattern.
func GlobAny(pattern string) func(string) error {
	return func(root string) error {
		matches, err := doublestar.Glob(os.DirFS(root), pattern)
		if err != nil {
			return fmt.Errorf("bad pattern %s: %v", pattern, err)
		}
		if len(matches) == 0 {
			return fmt.Errorf("nothing matches %s", pattern)
		}
		return nil
	}
}

// ContentMatches asserts that the file at rel matches the pattern.
// A missing file fails the check with a distinct message.
func ContentMatches(rel, pattern string) func(string) error {
	re := regexp.MustCompile(pattern)
	return func(root string) error {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return fmt.Errorf("%s is missing", rel)
		}
		if !re.Match(data) {
			return fmt.Errorf("%s does not mention %s", rel, pattern)
		}
		return nil
	}
}

// All composes several assertion funcs; the first failure wins.
func All(fns ...func(string) error) func(string) error {
	return func(root string) error {
		for _, fn := range fns {
			if err := fn(root); err != nil {
				return err
			}
		}
		return nil
	}
}
