// Package manifest handles scratchc.toml (or scratchc.yaml) compiler
// configuration.
package manifest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/chazu/scratchc/block"
)

// File names searched for, in order of preference.
const (
	TOMLFile = "scratchc.toml"
	YAMLFile = "scratchc.yaml"
	YMLFile  = "scratchc.yml"
)

var fileNames = []string{TOMLFile, YAMLFile, YMLFile}

// Config represents a scratchc project configuration.
type Config struct {
	Project  Project  `toml:"project" yaml:"project"`
	Stage    Stage    `toml:"stage" yaml:"stage"`
	Sprites  Sprites  `toml:"sprites" yaml:"sprites"`
	IDs      IDs      `toml:"ids" yaml:"ids"`
	Warnings Warnings `toml:"warnings" yaml:"warnings"`
	Library  Library  `toml:"library" yaml:"library"`

	// Dir is the directory containing the configuration file (set at load
	// time). Empty for Default().
	Dir string `toml:"-" yaml:"-"`
	// Path is the file the configuration was read from.
	Path string `toml:"-" yaml:"-"`
}

// Project contains project metadata.
type Project struct {
	Name  string `toml:"name" yaml:"name"`
	Agent string `toml:"agent" yaml:"agent"`
}

// Stage configures the stage target.
type Stage struct {
	Tempo                float64 `toml:"tempo" yaml:"tempo"`
	VideoTransparency    float64 `toml:"video-transparency" yaml:"video-transparency"`
	VideoState           string  `toml:"video-state" yaml:"video-state"`
	TextToSpeechLanguage string  `toml:"tts-language" yaml:"tts-language"`
	Backdrop             string  `toml:"backdrop" yaml:"backdrop"`
}

// Sprites configures sprite layout. Sprite i is placed at
// (StartX + i*Spacing, Y).
type Sprites struct {
	StartX        float64 `toml:"start-x" yaml:"start-x"`
	Spacing       float64 `toml:"spacing" yaml:"spacing"`
	Y             float64 `toml:"y" yaml:"y"`
	Size          float64 `toml:"size" yaml:"size"`
	Direction     float64 `toml:"direction" yaml:"direction"`
	RotationStyle string  `toml:"rotation-style" yaml:"rotation-style"`
	Draggable     bool    `toml:"draggable" yaml:"draggable"`
	Visible       bool    `toml:"visible" yaml:"visible"`
}

// IDs selects how block ids are rendered.
type IDs struct {
	Style string `toml:"style" yaml:"style"`
}

// Warnings configures diagnostic reporting.
type Warnings struct {
	// Quiet keeps diagnostics on the result but stops logging them.
	Quiet bool `toml:"quiet" yaml:"quiet"`
}

// Library locates the local asset catalog. Relative paths are resolved
// against the configuration file's directory.
type Library struct {
	// Dir holds sprites_library.json and sounds_library.json.
	Dir string `toml:"dir" yaml:"dir"`
	// Database is a SQLite catalog, used instead of Dir when set.
	Database string `toml:"database" yaml:"database"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Project: Project{Name: "Project", Agent: "scratchc"},
		Stage: Stage{
			Tempo:             60,
			VideoTransparency: 50,
			VideoState:        "on",
			Backdrop:          "backdrop1",
		},
		Sprites: Sprites{
			StartX:        -100,
			Spacing:       100,
			Size:          100,
			Direction:     90,
			RotationStyle: "all around",
			Visible:       true,
		},
		IDs: IDs{Style: string(block.StyleCounter)},
	}
}

// IDStyle returns the configured token style.
func (c *Config) IDStyle() block.IDStyle {
	if c == nil || c.IDs.Style == "" {
		return block.StyleCounter
	}
	return block.IDStyle(c.IDs.Style)
}

// SpriteX returns the x position of the i-th sprite.
func (c *Config) SpriteX(i int) float64 {
	return c.Sprites.StartX + float64(i)*c.Sprites.Spacing
}

// TextToSpeech returns the stage's language, nil when unset.
func (c *Config) TextToSpeech() *string {
	if c.Stage.TextToSpeechLanguage == "" {
		return nil
	}
	lang := c.Stage.TextToSpeechLanguage
	return &lang
}

// LibraryPath resolves a library path against the configuration's
// directory. Empty stays empty.
func (c *Config) LibraryPath(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Dir == "" {
		return p
	}
	return filepath.Join(c.Dir, p)
}

// Load parses the configuration file in the given directory. scratchc.toml
// wins over scratchc.yaml when both exist.
func Load(dir string) (*Config, error) {
	for _, name := range fileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, fmt.Errorf("manifest: no %s in %s", TOMLFile, dir)
}

// LoadFile parses one configuration file, choosing the decoder by
// extension. Keys the file leaves out keep their Default() values.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: cannot read %s: %w", path, err)
	}

	c := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(strings.NewReader(string(data)))
		dec.KnownFields(true)
		if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: parse error in %s: %w", path, err)
		}
	default:
		md, err := toml.Decode(string(data), c)
		if err != nil {
			return nil, fmt.Errorf("manifest: parse error in %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("manifest: unknown key %s in %s", undecoded[0], path)
		}
	}

	c.Path = path
	c.Dir, err = filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("manifest: cannot resolve path %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("manifest: %s: %w", path, err)
	}
	return c, nil
}

// FindAndLoad walks up from startDir to find a configuration file, then
// loads and returns it. Returns nil if none is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		for _, name := range fileNames {
			if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
				return Load(dir)
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch block.IDStyle(c.IDs.Style) {
	case block.StyleCounter, block.StyleUUID, "":
	default:
		return fmt.Errorf("ids.style %q: want %q or %q", c.IDs.Style, block.StyleCounter, block.StyleUUID)
	}
	switch c.Sprites.RotationStyle {
	case "all around", "left-right", "don't rotate":
	default:
		return fmt.Errorf("sprites.rotation-style %q is not a Scratch rotation style", c.Sprites.RotationStyle)
	}
	switch c.Stage.VideoState {
	case "on", "off", "on-flipped":
	default:
		return fmt.Errorf("stage.video-state %q: want on, off or on-flipped", c.Stage.VideoState)
	}
	if c.Stage.VideoTransparency < 0 || c.Stage.VideoTransparency > 100 {
		return fmt.Errorf("stage.video-transparency %v out of range 0..100", c.Stage.VideoTransparency)
	}
	return nil
}
