package block

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// project.json decoding
//
// Every target decodes into its own arena. Tokens are mapped to IDs in
// sorted order so decoding is deterministic, and remembered on the
// target's Naming so re-encoding reproduces the original ids. Inline
// variable and list primitives ([12, name, id]) are expanded into
// data_variable / data_listcontents reporter blocks.
// ---------------------------------------------------------------------------

type projectRaw struct {
	Targets    []json.RawMessage `json:"targets"`
	Monitors   []json.RawMessage `json:"monitors"`
	Extensions []string          `json:"extensions"`
	Meta       Meta              `json:"meta"`
}

type targetRaw struct {
	IsStage        bool                       `json:"isStage"`
	Name           *string                    `json:"name"`
	Variables      map[string]json.RawMessage `json:"variables"`
	Lists          map[string]json.RawMessage `json:"lists"`
	Broadcasts     map[string]string          `json:"broadcasts"`
	Blocks         map[string]json.RawMessage `json:"blocks"`
	Comments       json.RawMessage            `json:"comments"`
	CurrentCostume int                        `json:"currentCostume"`
	Costumes       []Costume                  `json:"costumes"`
	Sounds         []Sound                    `json:"sounds"`
	Volume         *float64                   `json:"volume"`
	LayerOrder     int                        `json:"layerOrder"`

	Tempo                *float64 `json:"tempo"`
	VideoTransparency    *float64 `json:"videoTransparency"`
	VideoState           *string  `json:"videoState"`
	TextToSpeechLanguage *string  `json:"textToSpeechLanguage"`

	Visible       *bool    `json:"visible"`
	X             *float64 `json:"x"`
	Y             *float64 `json:"y"`
	Size          *float64 `json:"size"`
	Direction     *float64 `json:"direction"`
	Draggable     *bool    `json:"draggable"`
	RotationStyle *string  `json:"rotationStyle"`
}

type blockRaw struct {
	Opcode   *string                    `json:"opcode"`
	Next     *string                    `json:"next"`
	Parent   *string                    `json:"parent"`
	Inputs   map[string]json.RawMessage `json:"inputs"`
	Fields   map[string]json.RawMessage `json:"fields"`
	Shadow   bool                       `json:"shadow"`
	TopLevel bool                       `json:"topLevel"`
	X        float64                    `json:"x"`
	Y        float64                    `json:"y"`
	Mutation json.RawMessage            `json:"mutation"`
}

// UnmarshalProject decodes a project.json document. Structural problems
// (missing required members, malformed inputs) fail with ErrInvalidProject;
// reference integrity is checked separately by Validate.
func UnmarshalProject(data []byte) (*Project, error) {
	var pr projectRaw
	if err := json.Unmarshal(data, &pr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProject, err)
	}
	if pr.Targets == nil {
		return nil, fmt.Errorf("%w: missing targets", ErrInvalidProject)
	}
	p := &Project{Monitors: pr.Monitors, Extensions: pr.Extensions, Meta: pr.Meta}
	for i, raw := range pr.Targets {
		t, err := decodeTarget(raw)
		if err != nil {
			return nil, fmt.Errorf("target %d: %w", i, err)
		}
		p.Targets = append(p.Targets, t)
	}
	return p, nil
}

type targetDecoder struct {
	arena  *Arena
	naming *Naming
	ids    map[string]ID
	graph  *Graph
}

func (d *targetDecoder) id(tok string) ID {
	if id, ok := d.ids[tok]; ok {
		return id
	}
	id := d.arena.Alloc()
	d.ids[tok] = id
	d.naming.remember(id, tok)
	return id
}

func (d *targetDecoder) optID(tok *string) ID {
	if tok == nil || *tok == "" {
		return NoID
	}
	return d.id(*tok)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func decodeTarget(data json.RawMessage) (*Target, error) {
	var tr targetRaw
	if err := json.Unmarshal(data, &tr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProject, err)
	}
	if tr.Name == nil {
		return nil, fmt.Errorf("%w: target without name", ErrInvalidProject)
	}
	t := &Target{
		Name:           *tr.Name,
		IsStage:        tr.IsStage,
		Blocks:         NewGraph(),
		Comments:       tr.Comments,
		CurrentCostume: tr.CurrentCostume,
		Costumes:       tr.Costumes,
		Sounds:         tr.Sounds,
		Volume:         100,
		LayerOrder:     tr.LayerOrder,
		Naming:         &Naming{Style: StyleCounter, Target: *tr.Name},
	}
	if tr.Volume != nil {
		t.Volume = *tr.Volume
	}
	d := &targetDecoder{
		arena:  NewArena(ScopeTarget),
		naming: t.Naming,
		ids:    make(map[string]ID),
		graph:  t.Blocks,
	}

	blockKeys := sortedKeys(tr.Blocks)
	for _, tok := range blockKeys {
		d.id(tok)
	}
	for _, tok := range sortedKeys(tr.Variables) {
		var entry []json.RawMessage
		if err := json.Unmarshal(tr.Variables[tok], &entry); err != nil || len(entry) < 2 {
			return nil, fmt.Errorf("%w: target %q: variable %s", ErrInvalidProject, t.Name, tok)
		}
		v := &Variable{ID: d.id(tok), Name: rawText(entry[0])}
		if err := json.Unmarshal(entry[1], &v.Value); err != nil {
			return nil, fmt.Errorf("%w: target %q: variable %s: %v", ErrInvalidProject, t.Name, tok, err)
		}
		if len(entry) > 2 {
			_ = json.Unmarshal(entry[2], &v.Cloud)
		}
		t.Variables = append(t.Variables, v)
	}
	for _, tok := range sortedKeys(tr.Lists) {
		var entry []json.RawMessage
		if err := json.Unmarshal(tr.Lists[tok], &entry); err != nil || len(entry) < 2 {
			return nil, fmt.Errorf("%w: target %q: list %s", ErrInvalidProject, t.Name, tok)
		}
		l := &List{ID: d.id(tok), Name: rawText(entry[0])}
		if err := json.Unmarshal(entry[1], &l.Values); err != nil {
			return nil, fmt.Errorf("%w: target %q: list %s: %v", ErrInvalidProject, t.Name, tok, err)
		}
		t.Lists = append(t.Lists, l)
	}
	for _, tok := range sortedKeys(tr.Broadcasts) {
		t.Broadcasts = append(t.Broadcasts, &Broadcast{ID: d.id(tok), Name: tr.Broadcasts[tok]})
	}

	for _, tok := range blockKeys {
		if err := d.decodeBlock(tok, tr.Blocks[tok]); err != nil {
			return nil, fmt.Errorf("%w: target %q: block %s: %v", ErrInvalidProject, t.Name, tok, err)
		}
	}
	t.Procedures = collectProcedures(t.Blocks)

	if tr.IsStage {
		t.Stage = &StageState{Tempo: 60, VideoTransparency: 50, VideoState: "on"}
		if tr.Tempo != nil {
			t.Stage.Tempo = *tr.Tempo
		}
		if tr.VideoTransparency != nil {
			t.Stage.VideoTransparency = *tr.VideoTransparency
		}
		if tr.VideoState != nil {
			t.Stage.VideoState = *tr.VideoState
		}
		t.Stage.TextToSpeechLanguage = tr.TextToSpeechLanguage
	} else {
		s := &SpriteState{Visible: true, Size: 100, Direction: 90, RotationStyle: "all around"}
		if tr.Visible != nil {
			s.Visible = *tr.Visible
		}
		if tr.X != nil {
			s.X = *tr.X
		}
		if tr.Y != nil {
			s.Y = *tr.Y
		}
		if tr.Size != nil {
			s.Size = *tr.Size
		}
		if tr.Direction != nil {
			s.Direction = *tr.Direction
		}
		if tr.Draggable != nil {
			s.Draggable = *tr.Draggable
		}
		if tr.RotationStyle != nil {
			s.RotationStyle = *tr.RotationStyle
		}
		t.Sprite = s
	}
	return t, nil
}

// rawText renders a JSON scalar as text: strings unquoted, numbers as
// written, null as "".
func rawText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func (d *targetDecoder) decodeBlock(tok string, data json.RawMessage) error {
	id := d.id(tok)
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return d.decodeLoosePrimitive(id, trimmed)
	}

	var br blockRaw
	if err := json.Unmarshal(data, &br); err != nil {
		return err
	}
	if br.Opcode == nil || *br.Opcode == "" {
		return fmt.Errorf("missing opcode")
	}
	b := New(id, *br.Opcode, KindOf(*br.Opcode, br.Shadow))
	b.Parent = d.optID(br.Parent)
	b.Next = d.optID(br.Next)
	b.TopLevel = br.TopLevel
	b.X, b.Y = br.X, br.Y

	var err error
	if len(br.Mutation) > 0 && string(br.Mutation) != "null" {
		if b.Mutation, err = d.decodeMutation(br.Mutation); err != nil {
			return fmt.Errorf("mutation: %v", err)
		}
	}
	argIDs := make(map[string]bool)
	if b.Mutation != nil {
		for _, a := range b.Mutation.ArgumentIDs {
			argIDs[d.naming.Token(a)] = true
		}
	}
	for _, name := range sortedKeys(br.Inputs) {
		in, err := d.decodeInput(id, br.Inputs[name])
		if err != nil {
			return fmt.Errorf("input %s: %v", name, err)
		}
		key := Slot(name)
		if argIDs[name] {
			key = ArgSlot(d.id(name))
		}
		b.Inputs[key] = in
	}
	for _, name := range sortedKeys(br.Fields) {
		var entry []json.RawMessage
		if err := json.Unmarshal(br.Fields[name], &entry); err != nil || len(entry) == 0 {
			return fmt.Errorf("field %s: malformed", name)
		}
		f := Field{Value: rawText(entry[0])}
		if len(entry) > 1 {
			if ref := rawText(entry[1]); ref != "" {
				f.Ref = d.id(ref)
			}
		}
		b.Fields[name] = f
	}
	d.graph.Add(b)
	return nil
}

// decodeLoosePrimitive handles a top-level [12|13, name, id, x, y] entry.
func (d *targetDecoder) decodeLoosePrimitive(id ID, data json.RawMessage) error {
	var entry []json.RawMessage
	if err := json.Unmarshal(data, &entry); err != nil || len(entry) < 3 {
		return fmt.Errorf("malformed primitive")
	}
	lit, err := d.decodeLiteral(entry)
	if err != nil {
		return err
	}
	b := d.expandPrimitive(id, lit, NoID)
	if b == nil {
		return nil
	}
	b.TopLevel = true
	if len(entry) >= 5 {
		_ = json.Unmarshal(entry[3], &b.X)
		_ = json.Unmarshal(entry[4], &b.Y)
	}
	return nil
}

// expandPrimitive turns a variable or list literal into its reporter block.
func (d *targetDecoder) expandPrimitive(id ID, lit *Literal, parent ID) *Block {
	var b *Block
	switch lit.Type {
	case VariableLit:
		b = New(id, "data_variable", Reporter)
		b.Fields["VARIABLE"] = Field{Value: lit.Value, Ref: lit.Ref}
	case ListLit:
		b = New(id, "data_listcontents", Reporter)
		b.Fields["LIST"] = Field{Value: lit.Value, Ref: lit.Ref}
	default:
		return nil
	}
	b.Parent = parent
	d.graph.Add(b)
	return b
}

func (d *targetDecoder) decodeLiteral(entry []json.RawMessage) (*Literal, error) {
	if len(entry) < 2 {
		return nil, fmt.Errorf("short literal")
	}
	code, err := strconv.Atoi(rawText(entry[0]))
	if err != nil {
		return nil, fmt.Errorf("literal type %s", entry[0])
	}
	lit := &Literal{Type: LiteralType(code), Value: rawText(entry[1])}
	switch lit.Type {
	case BroadcastLit, VariableLit, ListLit:
		if len(entry) < 3 {
			return nil, fmt.Errorf("literal %d without id", code)
		}
		lit.Ref = d.id(rawText(entry[2]))
	}
	return lit, nil
}

// decodeInputPart decodes the second or third element of an input: a
// token, a literal array, or null.
func (d *targetDecoder) decodeInputPart(consumer ID, raw json.RawMessage) (ID, *Literal, error) {
	raw = bytes.TrimSpace(raw)
	switch {
	case len(raw) == 0 || string(raw) == "null":
		return NoID, nil, nil
	case raw[0] == '"':
		return d.id(rawText(raw)), nil, nil
	case raw[0] == '[':
		var entry []json.RawMessage
		if err := json.Unmarshal(raw, &entry); err != nil {
			return NoID, nil, err
		}
		lit, err := d.decodeLiteral(entry)
		if err != nil {
			return NoID, nil, err
		}
		if lit.Type == VariableLit || lit.Type == ListLit {
			b := d.expandPrimitive(d.arena.Alloc(), lit, consumer)
			return b.ID, nil, nil
		}
		return NoID, lit, nil
	}
	return NoID, nil, fmt.Errorf("unexpected %s", raw)
}

func (d *targetDecoder) decodeInput(consumer ID, data json.RawMessage) (Input, error) {
	var entry []json.RawMessage
	if err := json.Unmarshal(data, &entry); err != nil || len(entry) < 2 {
		return Input{}, fmt.Errorf("malformed")
	}
	state, err := strconv.Atoi(rawText(entry[0]))
	if err != nil || state < 1 || state > 3 {
		return Input{}, fmt.Errorf("shadow state %s", entry[0])
	}
	in := Input{State: ShadowState(state)}
	first, lit, err := d.decodeInputPart(consumer, entry[1])
	if err != nil {
		return Input{}, err
	}
	in.Block, in.Literal = first, lit
	if len(entry) > 2 && in.State == DiffBlockShadow {
		shadow, slit, err := d.decodeInputPart(consumer, entry[2])
		if err != nil {
			return Input{}, err
		}
		in.ShadowBlock = shadow
		if in.Literal == nil {
			in.Literal = slit
		}
	}
	return in, nil
}

type mutationRaw struct {
	ProcCode         *string         `json:"proccode"`
	ArgumentIDs      string          `json:"argumentids"`
	ArgumentNames    *string         `json:"argumentnames"`
	ArgumentDefaults *string         `json:"argumentdefaults"`
	Warp             json.RawMessage `json:"warp"`
}

func (d *targetDecoder) decodeMutation(data json.RawMessage) (*Mutation, error) {
	var mr mutationRaw
	if err := json.Unmarshal(data, &mr); err != nil {
		return nil, err
	}
	if mr.ProcCode == nil {
		return &Mutation{Raw: data}, nil
	}
	m := &Mutation{ProcCode: *mr.ProcCode}
	if mr.ArgumentIDs != "" {
		var toks []string
		if err := json.Unmarshal([]byte(mr.ArgumentIDs), &toks); err != nil {
			return nil, fmt.Errorf("argumentids: %v", err)
		}
		for _, tok := range toks {
			m.ArgumentIDs = append(m.ArgumentIDs, d.id(tok))
		}
	}
	if mr.ArgumentNames != nil {
		m.Prototype = true
		if err := json.Unmarshal([]byte(*mr.ArgumentNames), &m.ArgumentNames); err != nil {
			return nil, fmt.Errorf("argumentnames: %v", err)
		}
	}
	if mr.ArgumentDefaults != nil && *mr.ArgumentDefaults != "" {
		var defaults []any
		if err := json.Unmarshal([]byte(*mr.ArgumentDefaults), &defaults); err != nil {
			return nil, fmt.Errorf("argumentdefaults: %v", err)
		}
		for _, v := range defaults {
			m.ArgumentDefaults = append(m.ArgumentDefaults, fmt.Sprint(v))
		}
	}
	warp := strings.Trim(string(mr.Warp), `"`)
	m.Warp = warp == "true"
	return m, nil
}

// collectProcedures rebuilds the procedure table from definition blocks.
func collectProcedures(g *Graph) []*Procedure {
	var procs []*Procedure
	for _, def := range g.Blocks() {
		if def.Opcode != "procedures_definition" {
			continue
		}
		in, ok := def.Input("custom_block")
		if !ok {
			continue
		}
		proto := g.Get(in.Block)
		if proto == nil || proto.Mutation == nil {
			continue
		}
		m := proto.Mutation
		procs = append(procs, &Procedure{
			Name:        ProcName(m.ProcCode),
			ProcCode:    m.ProcCode,
			ArgIDs:      m.ArgumentIDs,
			ArgNames:    m.ArgumentNames,
			ArgDefaults: m.ArgumentDefaults,
			Definition:  def.ID,
			Prototype:   proto.ID,
			Warp:        m.Warp,
		})
	}
	return procs
}

// ProcName returns the first word of a proc-code ("jump %s" → "jump").
func ProcName(procCode string) string {
	if i := strings.IndexByte(procCode, ' '); i >= 0 {
		return procCode[:i]
	}
	return procCode
}
