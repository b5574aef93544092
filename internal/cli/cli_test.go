package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/erdviz/pkg/cache"
	"github.com/matzehuels/erdviz/pkg/config"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "dot", []string{"dot"}},
		{"multiple formats", "dot,svg,png", []string{"dot", "svg", "png"}},
		{"spaces and empties", " dot, ,svg ", []string{"dot", "svg"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		input   string
		diagram string
		want    string
	}{
		{"from input", "", "docs/schema.json", "", "docs/schema"},
		{"explicit base", "out/erd", "schema.json", "", "out/erd"},
		{"explicit with format ext", "out/erd.svg", "schema.json", "", "out/erd"},
		{"explicit with other ext", "out/erd.v2", "schema.json", "", "out/erd.v2"},
		{"database name", "", "", "app", "app"},
		{"fallback", "", "", "", "erd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input, tt.diagram); got != tt.want {
				t.Errorf("basePath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewCache(t *testing.T) {
	ctx := context.Background()

	cfg := config.Default()
	c, err := newCache(ctx, cfg, true)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(cache.NullCache); !ok {
		t.Errorf("--no-cache should give NullCache, got %T", c)
	}

	cfg.Cache.Dir = t.TempDir()
	c, err = newCache(ctx, cfg, false)
	if err != nil {
		t.Fatal(err)
	}
	fc, ok := c.(*cache.FileCache)
	if !ok {
		t.Fatalf("configured dir should give FileCache, got %T", c)
	}
	if fc.Dir() != cfg.Cache.Dir {
		t.Errorf("Dir() = %q, want %q", fc.Dir(), cfg.Cache.Dir)
	}
}

func TestWriteArtifacts(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "erd")
	artifacts := map[string][]byte{"dot": []byte("digraph {}"), "svg": []byte("<svg/>")}

	paths, err := writeArtifacts(artifacts, []string{"svg", "dot"}, base)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 || paths[0] != base+".svg" || paths[1] != base+".dot" {
		t.Errorf("paths = %v", paths)
	}
	data, err := os.ReadFile(base + ".dot")
	if err != nil || string(data) != "digraph {}" {
		t.Errorf("dot file = %q, %v", data, err)
	}
}

func TestRelevant(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "schema.json")
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write", fsnotify.Event{Name: abs, Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: abs, Op: fsnotify.Create}, true},
		{"chmod", fsnotify.Event{Name: abs, Op: fsnotify.Chmod}, false},
		{"other file", fsnotify.Event{Name: abs + ".swp", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := relevant(tt.event, abs); got != tt.want {
				t.Errorf("relevant() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRootCommandSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	want := []string{"render", "classify", "colors", "serve", "cache", "version", "completion"}
	for _, name := range want {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("missing --config flag")
	}
}

// writeProject creates a config file and schema document in a temp dir.
func writeProject(t *testing.T) (cfgPath, schemaPath string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(config.EnvProjectRoot, "")
	t.Setenv(config.EnvRedisURL, "")
	t.Setenv("ERDVIZ_COLORS", `[{"name_in": ["email"], "table_color": "#FFCCCC", "row_color": "#FF0000"}]`)

	cfgPath = filepath.Join(dir, "erdviz.toml")
	cfg := "project_root = \"" + filepath.ToSlash(dir) + "\"\npack_roots = []\ngem_roots = []\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	schemaPath = filepath.Join(dir, "shop.json")
	doc := `{
  "name": "shop",
  "entities": [
    {"name": "Account", "attributes": [{"name": "id", "primary_key": true}, {"name": "email"}]},
    {"name": "Order", "attributes": [{"name": "id"}, {"name": "account_id"}]}
  ],
  "relationships": [{"from": "Order", "to": "Account", "label": "account_id"}]
}`
	if err := os.WriteFile(schemaPath, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	return cfgPath, schemaPath
}

func TestRenderCommandWritesDOT(t *testing.T) {
	cfgPath, schemaPath := writeProject(t)

	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"render", schemaPath, "-f", "dot", "--no-cache", "--config", cfgPath})

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("render: %v", err)
	}

	data, err := os.ReadFile(strings.TrimSuffix(schemaPath, ".json") + ".dot")
	if err != nil {
		t.Fatal(err)
	}
	dot := string(data)
	for _, want := range []string{`"Order" -> "Account"`, "#FFCCCC", "#FF0000", `label="unknown";`} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}
}

func TestRenderCommandErrors(t *testing.T) {
	cfgPath, schemaPath := writeProject(t)

	tests := []struct {
		name string
		args []string
	}{
		{"bad format", []string{"render", schemaPath, "-f", "pdf"}},
		{"watch without file", []string{"render", "--db", "sqlite", "--dsn", ":memory:", "--watch"}},
		{"missing schema", []string{"render", filepath.Join(filepath.Dir(schemaPath), "nope.json"), "-f", "dot", "--no-cache"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := New(io.Discard, LogInfo).RootCommand()
			root.SetOut(io.Discard)
			root.SetErr(io.Discard)
			root.SetArgs(append(tt.args, "--config", cfgPath))
			if err := root.ExecuteContext(context.Background()); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	var out strings.Builder
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "version: ") {
		t.Errorf("version output = %q", out.String())
	}
}

func TestCachePathUsesConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "erdviz.toml")
	if err := os.WriteFile(cfgPath, []byte("[cache]\ndir = \""+filepath.ToSlash(dir)+"\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	root := New(io.Discard, LogInfo).RootCommand()
	var out strings.Builder
	root.SetOut(&out)
	root.SetArgs([]string{"cache", "path", "--config", cfgPath})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out.String()) != filepath.ToSlash(dir) {
		t.Errorf("cache path = %q, want %q", out.String(), dir)
	}
}
