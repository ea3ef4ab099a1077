package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/scratchc/block"
)

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	tomlContent := `
[project]
name = "Pong"
agent = "pong-build"

[stage]
tempo = 90
video-state = "off"
tts-language = "en"

[sprites]
start-x = -200
spacing = 150
rotation-style = "left-right"

[ids]
style = "uuid"
`
	if err := os.WriteFile(filepath.Join(dir, TOMLFile), []byte(tomlContent), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if c.Project.Name != "Pong" {
		t.Errorf("project name = %q, want Pong", c.Project.Name)
	}
	if c.Project.Agent != "pong-build" {
		t.Errorf("agent = %q, want pong-build", c.Project.Agent)
	}
	if c.Stage.Tempo != 90 {
		t.Errorf("tempo = %v, want 90", c.Stage.Tempo)
	}
	if c.Stage.VideoState != "off" {
		t.Errorf("video state = %q, want off", c.Stage.VideoState)
	}
	if tts := c.TextToSpeech(); tts == nil || *tts != "en" {
		t.Errorf("tts language = %v, want en", tts)
	}
	if c.SpriteX(2) != 100 {
		t.Errorf("SpriteX(2) = %v, want 100", c.SpriteX(2))
	}
	if c.IDStyle() != block.StyleUUID {
		t.Errorf("id style = %q, want uuid", c.IDStyle())
	}
	// Keys left out keep their defaults.
	if c.Stage.VideoTransparency != 50 {
		t.Errorf("video transparency = %v, want default 50", c.Stage.VideoTransparency)
	}
	if !c.Sprites.Visible {
		t.Error("sprites.visible should default to true")
	}
	if c.Dir == "" || !filepath.IsAbs(c.Dir) {
		t.Errorf("Dir should be absolute, got %q", c.Dir)
	}
}

func TestLoadYAMLMatchesTOML(t *testing.T) {
	tomlDir := t.TempDir()
	yamlDir := t.TempDir()
	tomlContent := `
[project]
name = "Maze"

[stage]
tempo = 120
backdrop = "night"

[sprites]
size = 50
direction = 180

[warnings]
quiet = true
`
	yamlContent := `
project:
  name: Maze
stage:
  tempo: 120
  backdrop: night
sprites:
  size: 50
  direction: 180
warnings:
  quiet: true
`
	if err := os.WriteFile(filepath.Join(tomlDir, TOMLFile), []byte(tomlContent), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(yamlDir, YAMLFile), []byte(yamlContent), 0644); err != nil {
		t.Fatal(err)
	}

	a, err := Load(tomlDir)
	if err != nil {
		t.Fatalf("Load toml: %v", err)
	}
	b, err := Load(yamlDir)
	if err != nil {
		t.Fatalf("Load yaml: %v", err)
	}
	a.Dir, a.Path, b.Dir, b.Path = "", "", "", ""
	if *a != *b {
		t.Errorf("toml and yaml configs differ:\n%+v\n%+v", a, b)
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, TOMLFile), []byte("[project]\nname = \"x\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	d := Default()
	if c.Stage != d.Stage {
		t.Errorf("stage = %+v, want %+v", c.Stage, d.Stage)
	}
	if c.Sprites != d.Sprites {
		t.Errorf("sprites = %+v, want %+v", c.Sprites, d.Sprites)
	}
	if c.IDStyle() != block.StyleCounter {
		t.Errorf("id style = %q, want counter", c.IDStyle())
	}
	if c.TextToSpeech() != nil {
		t.Error("tts language should default to nil")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"id style", "[ids]\nstyle = \"random\"\n", "ids.style"},
		{"rotation", "[sprites]\nrotation-style = \"spin\"\n", "rotation-style"},
		{"video", "[stage]\nvideo-state = \"maybe\"\n", "video-state"},
		{"unknown key", "[stage]\ncolour = 3\n", "unknown key"},
		{"syntax", "[stage\n", "parse error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, TOMLFile), []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(dir)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Error("expected error for a directory without a config file")
	}
}

func TestFindAndLoad(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, YAMLFile), []byte("project:\n  name: found\n"), 0644); err != nil {
		t.Fatal(err)
	}

	subdir := filepath.Join(root, "sprites", "cat")
	if err := os.MkdirAll(subdir, 0755); err != nil {
		t.Fatal(err)
	}

	c, err := FindAndLoad(subdir)
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if c == nil {
		t.Fatal("expected to find config")
	}
	if c.Project.Name != "found" {
		t.Errorf("project name = %q, want found", c.Project.Name)
	}
}

func TestFindAndLoadNoConfig(t *testing.T) {
	c, err := FindAndLoad(t.TempDir())
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if c != nil {
		t.Errorf("expected nil config, got %+v", c)
	}
}

func TestLibraryPathRelativeToConfig(t *testing.T) {
	dir := t.TempDir()
	content := "[library]\ndir = \"assets\"\ndatabase = \"/var/lib/scratchc/catalog.db\"\n"
	if err := os.WriteFile(filepath.Join(dir, TOMLFile), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got, want := c.LibraryPath(c.Library.Dir), filepath.Join(c.Dir, "assets"); got != want {
		t.Errorf("library dir = %q, want %q", got, want)
	}
	if got := c.LibraryPath(c.Library.Database); got != "/var/lib/scratchc/catalog.db" {
		t.Errorf("absolute database path changed to %q", got)
	}
	if Default().LibraryPath("") != "" {
		t.Error("empty path should stay empty")
	}
}

func TestLoggingLevels(t *testing.T) {
	tests := []struct {
		verbosity, want int
	}{
		{-1, -5},
		{0, -2},
		{1, -1},
		{2, 0},
		{3, 1},
	}
	for _, tt := range tests {
		if got := level(tt.verbosity); got != tt.want {
			t.Errorf("level(%d) = %d, want %d", tt.verbosity, got, tt.want)
		}
	}
	ConfigureLogging(-1)
}
