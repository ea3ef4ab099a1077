package block

import "encoding/json"

// Variable is a scalar variable owned by a target.
type Variable struct {
	ID    ID
	Name  string
	Value Value
	Cloud bool
}

// List is a list variable owned by a target.
type List struct {
	ID     ID
	Name   string
	Values []Value
}

// Broadcast is a message name shared by every target of a project.
type Broadcast struct {
	ID   ID
	Name string
}

// Procedure is a custom block signature, scoped to one sprite.
type Procedure struct {
	Name        string
	ProcCode    string
	ArgIDs      []ID
	ArgNames    []string
	ArgDefaults []string
	Definition  ID
	Prototype   ID
	Warp        bool
}

// Costume is one entry of a target's costumes array.
type Costume struct {
	Name             string  `json:"name"`
	BitmapResolution int     `json:"bitmapResolution,omitempty"`
	DataFormat       string  `json:"dataFormat"`
	AssetID          string  `json:"assetId"`
	MD5Ext           string  `json:"md5ext"`
	RotationCenterX  float64 `json:"rotationCenterX"`
	RotationCenterY  float64 `json:"rotationCenterY"`
}

// Sound is one entry of a target's sounds array.
type Sound struct {
	Name        string `json:"name"`
	AssetID     string `json:"assetId"`
	DataFormat  string `json:"dataFormat"`
	Format      string `json:"format"`
	Rate        int    `json:"rate"`
	SampleCount int    `json:"sampleCount"`
	MD5Ext      string `json:"md5ext"`
}

// SpriteState holds the fields only sprites carry.
type SpriteState struct {
	Visible       bool
	X, Y          float64
	Size          float64
	Direction     float64
	Draggable     bool
	RotationStyle string
}

// StageState holds the fields only the stage carries.
type StageState struct {
	Tempo                float64
	VideoTransparency    float64
	VideoState           string
	TextToSpeechLanguage *string
}

// Target is the stage or a sprite.
type Target struct {
	Name    string
	IsStage bool

	Blocks     *Graph
	Variables  []*Variable
	Lists      []*List
	Broadcasts []*Broadcast
	Procedures []*Procedure

	// SoundRefs lists sound names referenced by sound blocks, in first-use
	// order, so the assembler can resolve them.
	SoundRefs []string

	Costumes       []Costume
	Sounds         []Sound
	CurrentCostume int
	Volume         float64
	LayerOrder     int

	Sprite *SpriteState
	Stage  *StageState

	// Comments is kept verbatim from decoded documents.
	Comments json.RawMessage

	Naming *Naming
}

// NewTarget returns an empty sprite target.
func NewTarget(name string) *Target {
	return &Target{
		Name:   name,
		Blocks: NewGraph(),
		Volume: 100,
		Naming: &Naming{Style: StyleCounter, Target: name},
	}
}

// Variable looks up a variable by name.
func (t *Target) Variable(name string) *Variable {
	for _, v := range t.Variables {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// List looks up a list by name.
func (t *Target) List(name string) *List {
	for _, l := range t.Lists {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// Procedure looks up a procedure by name.
func (t *Target) Procedure(name string) *Procedure {
	for _, p := range t.Procedures {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Meta is the project's meta object.
type Meta struct {
	Semver string `json:"semver"`
	VM     string `json:"vm"`
	Agent  string `json:"agent"`
}

// Project is the stage plus ordered sprites.
type Project struct {
	Targets    []*Target
	Monitors   []json.RawMessage
	Extensions []string
	Meta       Meta
}

// Stage returns the stage target, or nil.
func (p *Project) Stage() *Target {
	for _, t := range p.Targets {
		if t.IsStage {
			return t
		}
	}
	return nil
}

// Sprites returns the non-stage targets in order.
func (p *Project) Sprites() []*Target {
	var out []*Target
	for _, t := range p.Targets {
		if !t.IsStage {
			out = append(out, t)
		}
	}
	return out
}
