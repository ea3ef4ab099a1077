// Package library resolves sprite and sound names against the Scratch
// asset library: the sprites_library.json and sounds_library.json
// catalogs, held in memory or imported into SQLite. Nothing here
// downloads assets; it only describes them.
package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/chazu/scratchc/block"
)

var log = commonlog.GetLogger("scratchc.library")

// ErrNotFound reports a name that matches no catalog entry.
var ErrNotFound = errors.New("library: not found")

// Catalog file names inside a library directory.
const (
	SpritesFile = "sprites_library.json"
	SoundsFile  = "sounds_library.json"
)

const (
	defaultRate        = 44100
	defaultSoundFormat = "wav"
)

// CostumeEntry is one costume of a library sprite.
type CostumeEntry struct {
	Name             string  `json:"name"`
	AssetID          string  `json:"assetId"`
	DataFormat       string  `json:"dataFormat"`
	MD5Ext           string  `json:"md5ext,omitempty"`
	RotationCenterX  float64 `json:"rotationCenterX"`
	RotationCenterY  float64 `json:"rotationCenterY"`
	BitmapResolution int     `json:"bitmapResolution,omitempty"`
}

// SoundEntry is a library sound, standalone or owned by a sprite.
type SoundEntry struct {
	Name        string `json:"name"`
	AssetID     string `json:"assetId"`
	DataFormat  string `json:"dataFormat"`
	MD5Ext      string `json:"md5ext,omitempty"`
	Rate        int    `json:"rate,omitempty"`
	SampleCount int    `json:"sampleCount,omitempty"`
}

// SpriteEntry is a library sprite.
type SpriteEntry struct {
	Name     string         `json:"name"`
	Tags     []string       `json:"tags,omitempty"`
	Costumes []CostumeEntry `json:"costumes"`
	Sounds   []SoundEntry   `json:"sounds"`
}

// Catalog is an in-memory library. Entries keep catalog file order, which
// decides between several fuzzy matches.
type Catalog struct {
	Sprites []*SpriteEntry
	Sounds  []*SoundEntry
}

// Load reads a catalog from the two library documents. Either reader may
// be nil.
func Load(sprites, sounds io.Reader) (*Catalog, error) {
	c := &Catalog{}
	if sprites != nil {
		if err := json.NewDecoder(sprites).Decode(&c.Sprites); err != nil {
			return nil, fmt.Errorf("library: parse sprites: %w", err)
		}
	}
	if sounds != nil {
		if err := json.NewDecoder(sounds).Decode(&c.Sounds); err != nil {
			return nil, fmt.Errorf("library: parse sounds: %w", err)
		}
	}
	log.Debugf("loaded %d sprite(s), %d sound(s)", len(c.Sprites), len(c.Sounds))
	return c, nil
}

// LoadDir reads SpritesFile and SoundsFile from dir. A missing file leaves
// that half of the catalog empty.
func LoadDir(dir string) (*Catalog, error) {
	var readers [2]io.Reader
	for i, name := range []string{SpritesFile, SoundsFile} {
		f, err := os.Open(filepath.Join(dir, name))
		if errors.Is(err, os.ErrNotExist) {
			log.Infof("no %s in %s", name, dir)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("library: %w", err)
		}
		defer f.Close()
		readers[i] = f
	}
	return Load(readers[0], readers[1])
}

// ---------------------------------------------------------------------------
// Lookup
// ---------------------------------------------------------------------------

// match returns the index of the best match for name among names: an exact
// match, then a case-insensitive one, then the first name starting with
// it, then the first containing it. -1 when nothing matches.
func match(name string, names []string) int {
	if name == "" {
		return -1
	}
	for i, n := range names {
		if n == name {
			return i
		}
	}
	lower := strings.ToLower(name)
	tests := []func(string) bool{
		func(n string) bool { return n == lower },
		func(n string) bool { return strings.HasPrefix(n, lower) },
		func(n string) bool { return strings.Contains(n, lower) },
	}
	for _, test := range tests {
		for i, n := range names {
			if test(strings.ToLower(n)) {
				return i
			}
		}
	}
	return -1
}

// FindSprite returns the sprite best matching name.
func (c *Catalog) FindSprite(name string) (*SpriteEntry, error) {
	names := make([]string, len(c.Sprites))
	for i, s := range c.Sprites {
		names[i] = s.Name
	}
	i := match(name, names)
	if i < 0 {
		return nil, fmt.Errorf("%w: sprite %q", ErrNotFound, name)
	}
	return c.Sprites[i], nil
}

// FindSound returns the standalone sound best matching name.
func (c *Catalog) FindSound(name string) (*SoundEntry, error) {
	names := make([]string, len(c.Sounds))
	for i, s := range c.Sounds {
		names[i] = s.Name
	}
	i := match(name, names)
	if i < 0 {
		return nil, fmt.Errorf("%w: sound %q", ErrNotFound, name)
	}
	return c.Sounds[i], nil
}

// SpriteNames returns every sprite name, sorted.
func (c *Catalog) SpriteNames() []string {
	names := make([]string, len(c.Sprites))
	for i, s := range c.Sprites {
		names[i] = s.Name
	}
	sort.Strings(names)
	return names
}

// SoundNames returns every standalone sound name, sorted.
func (c *Catalog) SoundNames() []string {
	names := make([]string, len(c.Sounds))
	for i, s := range c.Sounds {
		names[i] = s.Name
	}
	sort.Strings(names)
	return names
}

// ResolveSpriteAssets returns the looks and sounds of the sprite matching
// name, ready for a project target.
func (c *Catalog) ResolveSpriteAssets(name string) ([]block.Costume, []block.Sound, bool) {
	s, err := c.FindSprite(name)
	if err != nil {
		log.Debug(err.Error())
		return nil, nil, false
	}
	if s.Name != name {
		log.Infof("sprite %s matched library sprite %s", name, s.Name)
	}
	costumes, sounds := s.Assets()
	return costumes, sounds, true
}

// ResolveSound returns the standalone sound matching name.
func (c *Catalog) ResolveSound(name string) (block.Sound, bool) {
	s, err := c.FindSound(name)
	if err != nil {
		log.Debug(err.Error())
		return block.Sound{}, false
	}
	return s.Sound(), true
}

// ---------------------------------------------------------------------------
// Project entries
// ---------------------------------------------------------------------------

// Assets converts the sprite's entries into project metadata.
func (s *SpriteEntry) Assets() ([]block.Costume, []block.Sound) {
	costumes := make([]block.Costume, len(s.Costumes))
	for i, e := range s.Costumes {
		costumes[i] = e.Costume()
	}
	sounds := make([]block.Sound, len(s.Sounds))
	for i, e := range s.Sounds {
		sounds[i] = e.Sound()
	}
	return costumes, sounds
}

// Costume fills in the defaults Scratch expects: bitmap resolution 1 and
// an md5ext built from the asset id.
func (e CostumeEntry) Costume() block.Costume {
	res := e.BitmapResolution
	if res == 0 {
		res = 1
	}
	md5ext := e.MD5Ext
	if md5ext == "" {
		md5ext = e.AssetID + "." + e.DataFormat
	}
	return block.Costume{
		Name:             e.Name,
		BitmapResolution: res,
		DataFormat:       e.DataFormat,
		AssetID:          e.AssetID,
		MD5Ext:           md5ext,
		RotationCenterX:  e.RotationCenterX,
		RotationCenterY:  e.RotationCenterY,
	}
}

// Sound fills in the defaults Scratch expects. The data format falls back
// to the md5ext extension, then to wav.
func (e SoundEntry) Sound() block.Sound {
	format := e.DataFormat
	if format == "" {
		if ext := filepath.Ext(e.MD5Ext); ext != "" {
			format = ext[1:]
		} else {
			format = defaultSoundFormat
		}
	}
	md5ext := e.MD5Ext
	if md5ext == "" {
		md5ext = e.AssetID + "." + format
	}
	rate := e.Rate
	if rate == 0 {
		rate = defaultRate
	}
	return block.Sound{
		Name:        e.Name,
		AssetID:     e.AssetID,
		DataFormat:  format,
		Rate:        rate,
		SampleCount: e.SampleCount,
		MD5Ext:      md5ext,
	}
}
