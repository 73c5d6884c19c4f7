// Package execx wraps external command execution behind a small interface so
// commands that shell out (composer, php artisan, git) can be faked in tests.
package execx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Result captures one command invocation's output.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes external commands.
type Runner interface {
	// Run executes name with args in dir, returning captured output.
	// A non-zero exit returns both the Result and an error.
	Run(ctx context.Context, dir, name string, args ...string) (Result, error)
}

// RealRunner executes commands with os/exec.
type RealRunner struct{}

// Run implements Runner.
func (RealRunner) Run(ctx context.Context, dir, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, fmt.Errorf("%s %s: exit %d: %s",
				name, strings.Join(args, " "), result.ExitCode, firstLine(result.Stderr))
		}
		return result, fmt.Errorf("%s: %w", name, err)
	}
	return result, nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}

// FakeRunner records invocations and replays scripted results. Test helper.
type FakeRunner struct {
	// Calls records each invocation as "name arg1 arg2".
	Calls []string
	// Results maps a command prefix to its scripted outcome. The longest
	// matching prefix wins; unmatched commands succeed with empty output.
	Results map[string]FakeResult
}

// FakeResult scripts one command outcome.
type FakeResult struct {
	Result Result
	Err    error
}

// Run implements Runner.
func (f *FakeRunner) Run(_ context.Context, _ string, name string, args ...string) (Result, error) {
	call := strings.TrimSpace(name + " " + strings.Join(args, " "))
	f.Calls = append(f.Calls, call)

	var bestKey string
	for key := range f.Results {
		if strings.HasPrefix(call, key) && len(key) > len(bestKey) {
			bestKey = key
		}
	}
	if bestKey == "" {
		return Result{}, nil
	}
	scripted := f.Results[bestKey]
	return scripted.Result, scripted.Err
}
