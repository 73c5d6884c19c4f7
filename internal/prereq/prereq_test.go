package prereq

import (
	"errors"
	"testing"
)

// withStubs swaps the lookup and version functions for the test's duration.
func withStubs(t *testing.T, look func(string) (string, error), run func(Prerequisite) (string, error)) {
	t.Helper()
	prevLook, prevRun := lookPathFunc, runVersionFunc
	lookPathFunc = look
	runVersionFunc = run
	t.Cleanup(func() {
		lookPathFunc = prevLook
		runVersionFunc = prevRun
	})
}

func TestCheckAll_NotFound(t *testing.T) {
	withStubs(t,
		func(string) (string, error) { return "", errors.New("not found") },
		func(Prerequisite) (string, error) { return "", errors.New("unreachable") })

	results := CheckAll([]Prerequisite{{Name: "php", Required: true}})
	if results[0].Found {
		t.Error("expected php not found")
	}
	if !AnyRequiredMissing(results) {
		t.Error("expected required-missing to be true")
	}
}

func TestCheckAll_VersionParsing(t *testing.T) {
	withStubs(t,
		func(string) (string, error) { return "/usr/bin/php", nil },
		func(Prerequisite) (string, error) {
			return "PHP 8.3.6 (cli) (built: Apr 11 2024)\nCopyright (c)\n", nil
		})

	results := CheckAll([]Prerequisite{{Name: "php", Required: true, MinVersion: "8.2.0"}})
	r := results[0]
	if !r.Found {
		t.Fatal("expected php found")
	}
	if r.TooOld {
		t.Error("8.3.6 should satisfy 8.2.0 minimum")
	}
	if r.Version != "PHP 8.3.6 (cli) (built: Apr 11 2024)" {
		t.Errorf("unexpected version line: %q", r.Version)
	}
}

func TestCheckAll_TooOld(t *testing.T) {
	withStubs(t,
		func(string) (string, error) { return "/usr/bin/composer", nil },
		func(Prerequisite) (string, error) { return "Composer version 1.10.26 2021-04-08", nil })

	results := CheckAll([]Prerequisite{{Name: "composer", Required: true, MinVersion: "2.0.0"}})
	if !results[0].TooOld {
		t.Error("composer 1.10.26 should fail the 2.0.0 minimum")
	}
	if !AnyRequiredMissing(results) {
		t.Error("too-old required tool should count as missing")
	}
}

func TestCheckAll_UnparseableVersionIsNotTooOld(t *testing.T) {
	withStubs(t,
		func(string) (string, error) { return "/usr/bin/php", nil },
		func(Prerequisite) (string, error) { return "weird output", nil })

	results := CheckAll([]Prerequisite{{Name: "php", Required: true, MinVersion: "8.2.0"}})
	if results[0].TooOld {
		t.Error("version-unknown must not be treated as too old")
	}
}

func TestCheckAll_OptionalMissingIsFine(t *testing.T) {
	withStubs(t,
		func(name string) (string, error) {
			if name == "claude" {
				return "", errors.New("not found")
			}
			return "/usr/bin/" + name, nil
		},
		func(Prerequisite) (string, error) { return "git version 2.44.0", nil })

	results := CheckAll([]Prerequisite{
		{Name: "git", Required: true},
		{Name: "claude", Required: false},
	})
	if AnyRequiredMissing(results) {
		t.Error("missing optional tool must not trip required-missing")
	}
}

func TestDefaultPrerequisites_Shape(t *testing.T) {
	prereqs := DefaultPrerequisites()
	byName := map[string]Prerequisite{}
	for _, p := range prereqs {
		if p.InstallURL == "" {
			t.Errorf("%s missing install URL", p.Name)
		}
		byName[p.Name] = p
	}
	for _, name := range []string{"php", "composer", "git"} {
		if !byName[name].Required {
			t.Errorf("%s should be required", name)
		}
	}
	for _, name := range []string{"node", "claude", "gh"} {
		if byName[name].Required {
			t.Errorf("%s should be optional", name)
		}
	}
}
