package bundle

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/viltkit/viltkit/internal/config"
)

func TestOpen_Embedded(t *testing.T) {
	b, err := Open(context.Background(), "")
	if err != nil {
		t.Fatalf("open embedded bundle: %v", err)
	}
	defer b.Close()

	if b.Info.Name != "viltkit-default" {
		t.Errorf("unexpected bundle name %q", b.Info.Name)
	}
	if b.Info.Version == "" {
		t.Error("embedded bundle must declare a version")
	}

	// Every entry in every file set must exist in the staged bundle.
	for _, set := range AllSets() {
		for _, entry := range set.Entries {
			if _, err := os.Stat(b.Path(entry.Source)); err != nil {
				t.Errorf("set %s: staged bundle missing %s: %v", set.Name, entry.Source, err)
			}
		}
	}
}

func TestOpen_Embedded_CloseRemovesStaging(t *testing.T) {
	b, err := Open(context.Background(), "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	root := b.Root()
	if err := b.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := os.Stat(root); !os.IsNotExist(err) {
		t.Errorf("staging dir should be removed, stat err = %v", err)
	}
	// Second close is a no-op.
	if err := b.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
}

func TestOpen_LocalDirectorySource(t *testing.T) {
	src := t.TempDir()
	meta := "name: custom\nversion: 0.2.0\n"
	if err := os.WriteFile(filepath.Join(src, MetaFileName), []byte(meta), 0o644); err != nil {
		t.Fatalf("write meta: %v", err)
	}
	if err := os.WriteFile(filepath.Join(src, "CLAUDE.md"), []byte("# Custom\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	b, err := Open(context.Background(), src)
	if err != nil {
		t.Fatalf("open local source: %v", err)
	}
	defer b.Close()

	if b.Info.Name != "custom" || b.Info.Version != "0.2.0" {
		t.Errorf("unexpected meta: %+v", b.Info)
	}
	if _, err := os.Stat(b.Path("CLAUDE.md")); err != nil {
		t.Errorf("fetched bundle missing CLAUDE.md: %v", err)
	}
}

func TestOpen_SourceWithoutMetaRejected(t *testing.T) {
	src := t.TempDir()
	if err := os.WriteFile(filepath.Join(src, "CLAUDE.md"), []byte("# X\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Open(context.Background(), src); err == nil {
		t.Fatal("expected rejection of bundle without bundle.yaml")
	}
}

func TestSetsFor(t *testing.T) {
	cfg := &config.Config{Assistants: []config.Assistant{config.AssistantClaude}}
	sets := SetsFor(cfg)
	if len(sets) != 1 || sets[0].Name != "claude" {
		t.Errorf("expected claude set only, got %v", names(sets))
	}

	cfg = &config.Config{
		Assistants:  []config.Assistant{config.AssistantClaude, config.AssistantCopilot},
		InstallDocs: true,
	}
	sets = SetsFor(cfg)
	if got := names(sets); len(got) != 3 {
		t.Errorf("expected all three sets, got %v", got)
	}
}

func names(sets []FileSet) []string {
	out := make([]string, len(sets))
	for i, s := range sets {
		out[i] = s.Name
	}
	return out
}
