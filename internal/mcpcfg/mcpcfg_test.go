package mcpcfg

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	f, err := Load(FlavorClaude, filepath.Join(t.TempDir(), ".mcp.json"))
	require.NoError(t, err)
	assert.Empty(t, f.Servers)
}

func TestLoadSave_PreservesUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".mcp.json")
	content := `{
  "mcpServers": {
    "laravel-boost": {
      "command": "php",
      "args": ["artisan", "boost:mcp"],
      "description": "Laravel Boost MCP server"
    }
  },
  "customSetting": {"nested": true}
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	f, err := Load(FlavorClaude, path)
	require.NoError(t, err)
	require.Contains(t, f.Servers, "laravel-boost")
	assert.Equal(t, "php", f.Servers["laravel-boost"].Command)

	require.NoError(t, f.Add("context7", &ServerConfig{
		Command: "npx",
		Args:    []string{"-y", "@upstash/context7-mcp"},
	}, false))
	require.NoError(t, f.Save())

	reloaded, err := Load(FlavorClaude, path)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"context7", "laravel-boost"}, reloaded.Names())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "customSetting", "unknown top-level keys must survive a save")
}

func TestLoad_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".mcp.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err := Load(FlavorClaude, path)
	assert.Error(t, err)
}

func TestAdd_ConflictRequiresForce(t *testing.T) {
	f := New(FlavorClaude, "unused")
	require.NoError(t, f.Add("s", &ServerConfig{Command: "a"}, false))

	err := f.Add("s", &ServerConfig{Command: "b"}, false)
	require.Error(t, err)
	assert.Equal(t, "a", f.Servers["s"].Command)

	require.NoError(t, f.Add("s", &ServerConfig{Command: "b"}, true))
	assert.Equal(t, "b", f.Servers["s"].Command)
}

func TestRemove(t *testing.T) {
	f := New(FlavorClaude, "unused")
	require.NoError(t, f.Add("s", &ServerConfig{Command: "a"}, false))
	assert.True(t, f.Remove("s"))
	assert.False(t, f.Remove("s"))
}

func TestMerge_KeepsUserEntriesWithoutForce(t *testing.T) {
	dst := New(FlavorClaude, "dst")
	require.NoError(t, dst.Add("laravel-boost", &ServerConfig{Command: "php", Args: []string{"artisan", "boost:mcp", "--verbose"}}, false))

	src := New(FlavorClaude, "src")
	require.NoError(t, src.Add("laravel-boost", &ServerConfig{Command: "php", Args: []string{"artisan", "boost:mcp"}}, false))
	require.NoError(t, src.Add("context7", &ServerConfig{Command: "npx"}, false))

	changed := dst.Merge(src, false)
	assert.Equal(t, []string{"context7"}, changed)
	assert.Equal(t, []string{"artisan", "boost:mcp", "--verbose"}, dst.Servers["laravel-boost"].Args)

	changed = dst.Merge(src, true)
	assert.ElementsMatch(t, []string{"context7", "laravel-boost"}, changed)
	assert.Equal(t, []string{"artisan", "boost:mcp"}, dst.Servers["laravel-boost"].Args)
}

func TestValidate(t *testing.T) {
	f := New(FlavorVSCode, "unused")
	f.Servers["empty"] = &ServerConfig{}
	f.Servers["both"] = &ServerConfig{Type: "stdio", Command: "npx", URL: "http://localhost"}
	f.Servers["ok"] = &ServerConfig{Type: "stdio", Command: "npx"}
	f.Servers["untyped"] = &ServerConfig{Command: "npx"}

	problems := f.Validate()
	assert.Len(t, problems, 4) // empty has 2 problems, both 1, untyped 1
}

func TestExpanded(t *testing.T) {
	s := &ServerConfig{
		Command: "npx",
		Args:    []string{"-y", "server", "--key", "${API_KEY}"},
		Env:     map[string]string{"API_KEY": "${API_KEY}", "MODE": "prod"},
		Headers: map[string]string{"Authorization": "Bearer ${API_KEY}"},
	}
	got := s.Expanded(map[string]string{"API_KEY": "secret123"})

	want := &ServerConfig{
		Command: "npx",
		Args:    []string{"-y", "server", "--key", "secret123"},
		Env:     map[string]string{"API_KEY": "secret123", "MODE": "prod"},
		Headers: map[string]string{"Authorization": "Bearer secret123"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("expanded config mismatch (-want +got):\n%s", diff)
	}
	// Original untouched
	assert.Equal(t, "${API_KEY}", s.Env["API_KEY"])
}

func TestExpanded_UnknownVarBecomesEmpty(t *testing.T) {
	s := &ServerConfig{Args: []string{"${MISSING}"}}
	got := s.Expanded(map[string]string{})
	assert.Equal(t, []string{""}, got.Args)
}

func TestProjectEnv_DotenvOverlaidByProcess(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"),
		[]byte("APP_NAME=shop\nVILTKIT_TEST_ONLY=fromfile\n"), 0o644))
	t.Setenv("VILTKIT_TEST_ONLY", "fromproc")

	env, err := ProjectEnv(root)
	require.NoError(t, err)
	assert.Equal(t, "shop", env["APP_NAME"])
	assert.Equal(t, "fromproc", env["VILTKIT_TEST_ONLY"], "process env wins over .env")
}

func TestProbe_NoLaunchSpec(t *testing.T) {
	result := Probe(context.Background(), "bad", &ServerConfig{})
	assert.False(t, result.OK())
}
