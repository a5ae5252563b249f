package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/linkdrift/pkg/config"
	"github.com/matzehuels/linkdrift/pkg/geometry"
	"github.com/matzehuels/linkdrift/pkg/mode"
	"github.com/matzehuels/linkdrift/pkg/scene"
	"github.com/matzehuels/linkdrift/pkg/session"
)

const testScene = `{
	"viewport": {"width": 1440, "height": 900},
	"column": {"left": 360, "top": 0, "width": 720, "height": 900},
	"links": [
		{"label": "Home", "href": "/"},
		{"label": "Writing", "href": "/writing"}
	]
}`

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		want    geometry.Size
		wantErr bool
	}{
		{"1280x800", geometry.Size{Width: 1280, Height: 800}, false},
		{" 390X844 ", geometry.Size{Width: 390, Height: 844}, false},
		{"12.5x40", geometry.Size{Width: 12.5, Height: 40}, false},
		{"1280", geometry.Size{}, true},
		{"axb", geometry.Size{}, true},
		{"100x", geometry.Size{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseSize(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseSize(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseSize(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"json", []string{"json"}},
		{"svg, json,,text", []string{"svg", "json", "text"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "pages/home.json", "pages/home"},
		{"", "home.toml", "home"},
		{"out/page.svg", "home.json", "out/page"},
		{"out/page.tree.svg", "home.json", "out/page"},
		{"out/page.layout.json", "home.json", "out/page"},
		{"out/page", "home.json", "out/page"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestSceneFlagsOverrideConfig(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	cmd := c.layoutCommand()
	if err := cmd.ParseFlags([]string{"--policy", "random", "--resize", "800x600,400x800"}); err != nil {
		t.Fatal(err)
	}

	var flags sceneFlags
	flags.policy = "random"
	flags.resizes = []string{"800x600", "400x800"}

	cfg := config.Default()
	cfg.Seed.Salt = 7
	opts, err := flags.options(cmd, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Policy != "random" {
		t.Errorf("policy = %q, want random", opts.Policy)
	}
	if opts.Salt != 7 {
		t.Errorf("salt = %d, want config value 7", opts.Salt)
	}
	if len(opts.Resizes) != 2 || opts.Resizes[1] != (geometry.Size{Width: 400, Height: 800}) {
		t.Errorf("resizes = %v", opts.Resizes)
	}
}

func TestRootCommand(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	want := []string{"layout", "render", "preview", "serve", "seeds", "session", "config", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
}

// isolate points every per-user directory at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("HOME", dir)
	return dir
}

func writeScene(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "home.json")
	if err := os.WriteFile(path, []byte(testScene), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	c := New(&bytes.Buffer{}, log.ErrorLevel)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	return root.ExecuteContext(context.Background())
}

func TestLayoutCommand(t *testing.T) {
	dir := isolate(t)
	input := writeScene(t, dir)

	if err := execute(t, "layout", input, "--no-session"); err != nil {
		t.Fatalf("layout: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "home.layout.json"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	l, err := scene.ReadJSON(f)
	if err != nil {
		t.Fatal(err)
	}
	if l.Mode != mode.Wander {
		t.Errorf("mode = %v, want wander", l.Mode)
	}
	if len(l.Links) != 2 {
		t.Errorf("links = %d, want 2", len(l.Links))
	}
	if l.SessionID != "" {
		t.Errorf("session id = %q with --no-session", l.SessionID)
	}
}

func TestLayoutCommandSession(t *testing.T) {
	dir := isolate(t)
	input := writeScene(t, dir)
	cfgPath := filepath.Join(dir, "linkdrift.toml")
	cfg := "[seed]\npolicy = \"random\"\n[store]\nbackend = \"file\"\ndir = \"" + filepath.ToSlash(filepath.Join(dir, "seeds")) + "\"\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	read := func(out string) *scene.Layout {
		t.Helper()
		f, err := os.Open(out)
		if err != nil {
			t.Fatal(err)
		}
		defer f.Close()
		l, err := scene.ReadJSON(f)
		if err != nil {
			t.Fatal(err)
		}
		return l
	}

	first := filepath.Join(dir, "first.json")
	second := filepath.Join(dir, "second.json")
	if err := execute(t, "--config", cfgPath, "layout", input, "-o", first); err != nil {
		t.Fatalf("first layout: %v", err)
	}
	if err := execute(t, "--config", cfgPath, "layout", input, "-o", second); err != nil {
		t.Fatalf("second layout: %v", err)
	}

	a, b := read(first), read(second)
	if _, err := session.ParseID(a.SessionID); err != nil {
		t.Fatalf("layout carries no session: %q", a.SessionID)
	}
	if a.SessionID != b.SessionID {
		t.Errorf("session changed between runs: %q -> %q", a.SessionID, b.SessionID)
	}
	for i := range a.Links {
		if a.Links[i].Seed != b.Links[i].Seed {
			t.Errorf("link %s seed changed within session", a.Links[i].Key)
		}
	}
}

func TestRenderCommand(t *testing.T) {
	dir := isolate(t)
	input := writeScene(t, dir)

	if err := execute(t, "render", input, "--no-session", "-f", "svg,json,dot,text"); err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, name := range []string{"home.svg", "home.layout.json", "home.dot", "home.txt"} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("missing %s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}

func TestRenderCommandBadFormat(t *testing.T) {
	dir := isolate(t)
	input := writeScene(t, dir)
	if err := execute(t, "render", input, "--no-session", "-f", "png"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
