// Package project assembles compiled targets into a complete Scratch 3.0
// project: the stage first, sprites in declaration order, costumes and
// sounds resolved through an AssetResolver.
package project

import (
	"crypto/md5"
	_ "embed"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/chazu/scratchc/block"
	"github.com/chazu/scratchc/compiler"
	"github.com/chazu/scratchc/manifest"
)

var log = commonlog.GetLogger("scratchc.project")

const (
	Semver = "3.0.0"
	VM     = "0.2.0"
)

//go:embed assets/backdrop1.svg
var backdropSVG []byte

//go:embed assets/cat-a.svg
var catASVG []byte

//go:embed assets/cat-b.svg
var catBSVG []byte

// AssetResolver supplies costume and sound metadata by name. Matching is
// up to the implementation; library.Catalog matches fuzzily.
type AssetResolver interface {
	// ResolveSpriteAssets returns the looks and sounds of the library
	// sprite that best matches name.
	ResolveSpriteAssets(name string) ([]block.Costume, []block.Sound, bool)
	// ResolveSound returns a standalone library sound.
	ResolveSound(name string) (block.Sound, bool)
}

// Assembly is an assembled project plus what the archive packer needs.
type Assembly struct {
	Project *block.Project
	// Assets lists every md5ext file the project references, in first-use
	// order, without duplicates.
	Assets []string
	// Embedded holds the bytes of placeholder assets keyed by md5ext. Other
	// assets must be fetched by the packer.
	Embedded map[string][]byte
	// Diagnostics carries the compiler's warnings followed by asset
	// resolution failures.
	Diagnostics []compiler.Diagnostic

	quiet bool
}

// Assemble builds the project for a compilation result. A nil cfg means
// manifest.Default(); a nil resolver gives every sprite the placeholder
// looks.
func Assemble(res *compiler.Result, cfg *manifest.Config, resolver AssetResolver) *Assembly {
	if cfg == nil {
		cfg = manifest.Default()
	}
	a := &Assembly{
		Project:     &block.Project{Extensions: res.Extensions},
		Embedded:    make(map[string][]byte),
		Diagnostics: append([]compiler.Diagnostic(nil), res.Diagnostics...),
		quiet:       cfg.Warnings.Quiet,
	}
	a.Project.Meta = block.Meta{Semver: Semver, VM: VM, Agent: cfg.Project.Agent}

	stage := a.stage(res, cfg)
	a.Project.Targets = append(a.Project.Targets, stage)
	for i, t := range res.Targets {
		a.sprite(t, i, cfg, resolver)
		a.Project.Targets = append(a.Project.Targets, t)
	}
	log.Infof("assembled %d sprite(s), %d asset(s)", len(res.Targets), len(a.Assets))
	return a
}

// stage fills in the stage target. Every broadcast lives on the stage;
// sprites reference them by id.
func (a *Assembly) stage(res *compiler.Result, cfg *manifest.Config) *block.Target {
	st := res.Stage
	st.Name = compiler.StageClass
	st.IsStage = true
	st.LayerOrder = 0
	st.CurrentCostume = 0
	st.Broadcasts = append([]*block.Broadcast(nil), res.Broadcasts...)
	st.Stage = &block.StageState{
		Tempo:                cfg.Stage.Tempo,
		VideoTransparency:    cfg.Stage.VideoTransparency,
		VideoState:           cfg.Stage.VideoState,
		TextToSpeechLanguage: cfg.TextToSpeech(),
	}
	backdrop := a.embed(cfg.Stage.Backdrop, backdropSVG, 240, 180)
	backdrop.BitmapResolution = 0
	st.Costumes = []block.Costume{backdrop}
	a.use(backdrop.MD5Ext)
	return st
}

func (a *Assembly) sprite(t *block.Target, i int, cfg *manifest.Config, resolver AssetResolver) {
	t.IsStage = false
	t.LayerOrder = i + 1
	t.CurrentCostume = 0
	t.Broadcasts = nil
	s := cfg.Sprites
	t.Sprite = &block.SpriteState{
		Visible:       s.Visible,
		X:             cfg.SpriteX(i),
		Y:             s.Y,
		Size:          s.Size,
		Direction:     s.Direction,
		Draggable:     s.Draggable,
		RotationStyle: s.RotationStyle,
	}

	var found bool
	if resolver != nil {
		t.Costumes, t.Sounds, found = resolver.ResolveSpriteAssets(t.Name)
	}
	if !found || len(t.Costumes) == 0 {
		if resolver != nil {
			a.warn(t.Name, "no library sprite matches %s; using placeholder costumes", t.Name)
		}
		t.Costumes = a.placeholderCostumes()
	}

	have := make(map[string]bool, len(t.Sounds))
	for _, snd := range t.Sounds {
		have[strings.ToLower(snd.Name)] = true
	}
	for _, name := range t.SoundRefs {
		if have[strings.ToLower(name)] {
			continue
		}
		var snd block.Sound
		ok := false
		if resolver != nil {
			snd, ok = resolver.ResolveSound(name)
		}
		if !ok {
			a.warn(t.Name, "sound %q not found", name)
			continue
		}
		t.Sounds = append(t.Sounds, snd)
		have[strings.ToLower(name)] = true
	}

	for _, c := range t.Costumes {
		a.use(c.MD5Ext)
	}
	for _, snd := range t.Sounds {
		a.use(snd.MD5Ext)
	}
}

func (a *Assembly) placeholderCostumes() []block.Costume {
	return []block.Costume{
		a.embed("cat-a", catASVG, 48, 50),
		a.embed("cat-b", catBSVG, 46, 53),
	}
}

// embed registers an embedded SVG and returns its costume entry.
func (a *Assembly) embed(name string, svg []byte, cx, cy float64) block.Costume {
	c := SVGCostume(name, svg, cx, cy)
	a.Embedded[c.MD5Ext] = svg
	return c
}

func (a *Assembly) use(md5ext string) {
	if md5ext == "" {
		return
	}
	for _, have := range a.Assets {
		if have == md5ext {
			return
		}
	}
	a.Assets = append(a.Assets, md5ext)
}

func (a *Assembly) warn(sprite, format string, args ...any) {
	d := compiler.Diagnostic{Code: compiler.CodeAsset, Sprite: sprite}
	d.Message = fmt.Sprintf(format, args...)
	a.Diagnostics = append(a.Diagnostics, d)
	if !a.quiet {
		log.Warning(d.String())
	}
}

// AssetID returns the md5 hex digest Scratch uses to name asset files.
func AssetID(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// SVGCostume describes an SVG costume stored under its content hash.
func SVGCostume(name string, svg []byte, cx, cy float64) block.Costume {
	id := AssetID(svg)
	return block.Costume{
		Name:             name,
		BitmapResolution: 1,
		DataFormat:       "svg",
		AssetID:          id,
		MD5Ext:           id + ".svg",
		RotationCenterX:  cx,
		RotationCenterY:  cy,
	}
}
