package block

import (
	"encoding/json"
	"fmt"
)

// ---------------------------------------------------------------------------
// project.json encoding
// ---------------------------------------------------------------------------

type projectDoc struct {
	Targets    []*targetDoc      `json:"targets"`
	Monitors   []json.RawMessage `json:"monitors"`
	Extensions []string          `json:"extensions"`
	Meta       Meta              `json:"meta"`
}

type targetDoc struct {
	IsStage        bool                       `json:"isStage"`
	Name           string                     `json:"name"`
	Variables      map[string]json.RawMessage `json:"variables"`
	Lists          map[string]json.RawMessage `json:"lists"`
	Broadcasts     map[string]string          `json:"broadcasts"`
	Blocks         map[string]json.RawMessage `json:"blocks"`
	Comments       json.RawMessage            `json:"comments"`
	CurrentCostume int                        `json:"currentCostume"`
	Costumes       []Costume                  `json:"costumes"`
	Sounds         []Sound                    `json:"sounds"`
	Volume         float64                    `json:"volume"`
	LayerOrder     int                        `json:"layerOrder"`

	// Stage only.
	Tempo                *float64        `json:"tempo,omitempty"`
	VideoTransparency    *float64        `json:"videoTransparency,omitempty"`
	VideoState           *string         `json:"videoState,omitempty"`
	TextToSpeechLanguage json.RawMessage `json:"textToSpeechLanguage,omitempty"`

	// Sprite only.
	Visible       *bool    `json:"visible,omitempty"`
	X             *float64 `json:"x,omitempty"`
	Y             *float64 `json:"y,omitempty"`
	Size          *float64 `json:"size,omitempty"`
	Direction     *float64 `json:"direction,omitempty"`
	Draggable     *bool    `json:"draggable,omitempty"`
	RotationStyle *string  `json:"rotationStyle,omitempty"`
}

type blockDoc struct {
	Opcode   string                     `json:"opcode"`
	Next     *string                    `json:"next"`
	Parent   *string                    `json:"parent"`
	Inputs   map[string]json.RawMessage `json:"inputs"`
	Fields   map[string]json.RawMessage `json:"fields"`
	Shadow   bool                       `json:"shadow"`
	TopLevel bool                       `json:"topLevel"`
	X        *float64                   `json:"x,omitempty"`
	Y        *float64                   `json:"y,omitempty"`
	Mutation json.RawMessage            `json:"mutation,omitempty"`
}

type mutationDoc struct {
	TagName          string   `json:"tagName"`
	Children         []string `json:"children"`
	ProcCode         string   `json:"proccode"`
	ArgumentIDs      string   `json:"argumentids"`
	ArgumentNames    *string  `json:"argumentnames,omitempty"`
	ArgumentDefaults *string  `json:"argumentdefaults,omitempty"`
	Warp             string   `json:"warp"`
}

// MarshalJSON encodes the project as a project.json document.
func (p *Project) MarshalJSON() ([]byte, error) {
	doc := projectDoc{
		Monitors:   p.Monitors,
		Extensions: p.Extensions,
		Meta:       p.Meta,
	}
	if doc.Monitors == nil {
		doc.Monitors = []json.RawMessage{}
	}
	if doc.Extensions == nil {
		doc.Extensions = []string{}
	}
	for _, t := range p.Targets {
		td, err := encodeTarget(t)
		if err != nil {
			return nil, err
		}
		doc.Targets = append(doc.Targets, td)
	}
	if doc.Targets == nil {
		doc.Targets = []*targetDoc{}
	}
	return json.Marshal(doc)
}

func naming(t *Target) *Naming {
	if t.Naming == nil {
		t.Naming = &Naming{Style: StyleCounter, Target: t.Name}
	}
	return t.Naming
}

func encodeTarget(t *Target) (*targetDoc, error) {
	n := naming(t)
	td := &targetDoc{
		IsStage:        t.IsStage,
		Name:           t.Name,
		Variables:      make(map[string]json.RawMessage),
		Lists:          make(map[string]json.RawMessage),
		Broadcasts:     make(map[string]string),
		Blocks:         make(map[string]json.RawMessage),
		Comments:       t.Comments,
		CurrentCostume: t.CurrentCostume,
		Costumes:       t.Costumes,
		Sounds:         t.Sounds,
		Volume:         t.Volume,
		LayerOrder:     t.LayerOrder,
	}
	if len(td.Comments) == 0 {
		td.Comments = json.RawMessage("{}")
	}
	if td.Costumes == nil {
		td.Costumes = []Costume{}
	}
	if td.Sounds == nil {
		td.Sounds = []Sound{}
	}

	for _, v := range t.Variables {
		entry := []any{v.Name, v.Value}
		if v.Cloud {
			entry = append(entry, true)
		}
		raw, err := json.Marshal(entry)
		if err != nil {
			return nil, fmt.Errorf("block: encode variable %q: %w", v.Name, err)
		}
		td.Variables[n.Token(v.ID)] = raw
	}
	for _, l := range t.Lists {
		values := l.Values
		if values == nil {
			values = []Value{}
		}
		raw, err := json.Marshal([]any{l.Name, values})
		if err != nil {
			return nil, fmt.Errorf("block: encode list %q: %w", l.Name, err)
		}
		td.Lists[n.Token(l.ID)] = raw
	}
	for _, b := range t.Broadcasts {
		td.Broadcasts[n.Token(b.ID)] = b.Name
	}
	for _, b := range t.Blocks.Blocks() {
		raw, err := encodeBlock(n, b)
		if err != nil {
			return nil, fmt.Errorf("block: target %q: %w", t.Name, err)
		}
		td.Blocks[n.Token(b.ID)] = raw
	}

	if s := t.Stage; s != nil {
		td.Tempo = &s.Tempo
		td.VideoTransparency = &s.VideoTransparency
		td.VideoState = &s.VideoState
		if s.TextToSpeechLanguage == nil {
			td.TextToSpeechLanguage = json.RawMessage("null")
		} else {
			raw, _ := json.Marshal(*s.TextToSpeechLanguage)
			td.TextToSpeechLanguage = raw
		}
	}
	if s := t.Sprite; s != nil {
		td.Visible = &s.Visible
		td.X = &s.X
		td.Y = &s.Y
		td.Size = &s.Size
		td.Direction = &s.Direction
		td.Draggable = &s.Draggable
		td.RotationStyle = &s.RotationStyle
	}
	return td, nil
}

func tokenPtr(n *Naming, id ID) *string {
	if id.IsZero() {
		return nil
	}
	tok := n.Token(id)
	return &tok
}

func encodeBlock(n *Naming, b *Block) (json.RawMessage, error) {
	bd := blockDoc{
		Opcode:   b.Opcode,
		Next:     tokenPtr(n, b.Next),
		Parent:   tokenPtr(n, b.Parent),
		Inputs:   make(map[string]json.RawMessage, len(b.Inputs)),
		Fields:   make(map[string]json.RawMessage, len(b.Fields)),
		Shadow:   b.Shadow(),
		TopLevel: b.TopLevel,
	}
	if b.TopLevel {
		x, y := b.X, b.Y
		bd.X, bd.Y = &x, &y
	}
	for key, in := range b.Inputs {
		name := key.Name
		if !key.Arg.IsZero() {
			name = n.Token(key.Arg)
		}
		raw, err := json.Marshal(encodeInput(n, in))
		if err != nil {
			return nil, fmt.Errorf("block %s input %s: %w", n.Token(b.ID), name, err)
		}
		bd.Inputs[name] = raw
	}
	for name, f := range b.Fields {
		var ref any
		if !f.Ref.IsZero() {
			ref = n.Token(f.Ref)
		}
		raw, err := json.Marshal([]any{f.Value, ref})
		if err != nil {
			return nil, fmt.Errorf("block %s field %s: %w", n.Token(b.ID), name, err)
		}
		bd.Fields[name] = raw
	}
	if m := b.Mutation; m != nil {
		raw, err := encodeMutation(n, m)
		if err != nil {
			return nil, fmt.Errorf("block %s mutation: %w", n.Token(b.ID), err)
		}
		bd.Mutation = raw
	}
	return json.Marshal(bd)
}

func encodeLiteral(n *Naming, lit *Literal) []any {
	switch lit.Type {
	case BroadcastLit, VariableLit, ListLit:
		return []any{int(lit.Type), lit.Value, n.Token(lit.Ref)}
	}
	return []any{int(lit.Type), lit.Value}
}

func encodeInput(n *Naming, in Input) []any {
	arr := []any{int(in.State)}
	switch {
	case !in.Block.IsZero():
		arr = append(arr, n.Token(in.Block))
		if in.State == DiffBlockShadow {
			switch {
			case !in.ShadowBlock.IsZero():
				arr = append(arr, n.Token(in.ShadowBlock))
			case in.Literal != nil:
				arr = append(arr, encodeLiteral(n, in.Literal))
			default:
				arr = append(arr, nil)
			}
		}
	case in.Literal != nil:
		arr = append(arr, encodeLiteral(n, in.Literal))
	default:
		arr = append(arr, nil)
	}
	return arr
}

func jsonString(v any) (string, error) {
	raw, err := json.Marshal(v)
	return string(raw), err
}

func encodeMutation(n *Naming, m *Mutation) (json.RawMessage, error) {
	if m.ProcCode == "" && len(m.Raw) > 0 {
		return m.Raw, nil
	}
	ids := make([]string, len(m.ArgumentIDs))
	for i, id := range m.ArgumentIDs {
		ids[i] = n.Token(id)
	}
	md := mutationDoc{
		TagName:  "mutation",
		Children: []string{},
		ProcCode: m.ProcCode,
		Warp:     "false",
	}
	if m.Warp {
		md.Warp = "true"
	}
	var err error
	if md.ArgumentIDs, err = jsonString(ids); err != nil {
		return nil, err
	}
	if m.Prototype {
		names, defaults := m.ArgumentNames, m.ArgumentDefaults
		if names == nil {
			names = []string{}
		}
		if defaults == nil {
			defaults = []string{}
		}
		ns, err := jsonString(names)
		if err != nil {
			return nil, err
		}
		ds, err := jsonString(defaults)
		if err != nil {
			return nil, err
		}
		md.ArgumentNames, md.ArgumentDefaults = &ns, &ds
	}
	return json.Marshal(md)
}
