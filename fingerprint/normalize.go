package fingerprint

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/chazu/scratchc/block"
)

// ---------------------------------------------------------------------------
// Normalization: block graph → id-free tree
//
// Every input holds its blocks inline and every next link becomes a
// position in a list, so the tree names no block id at all. Field and
// literal references are dropped in favor of the names they carry, and
// procedure argument ids become their position in the call's mutation.
// ---------------------------------------------------------------------------

type hScript struct {
	_      struct{} `cbor:",toarray"`
	Tag    byte
	Blocks []*hBlock
}

type hBlock struct {
	_        struct{} `cbor:",toarray"`
	Tag      byte
	Opcode   string
	Fields   []hField
	Inputs   []hInput
	Mutation *hMutation
}

type hField struct {
	_     struct{} `cbor:",toarray"`
	Name  string
	Value string
}

type hInput struct {
	_       struct{} `cbor:",toarray"`
	Key     string
	Tag     byte
	State   uint8
	Literal *hLiteral
	Chain   []*hBlock
	Shadow  []*hBlock
}

type hLiteral struct {
	_     struct{} `cbor:",toarray"`
	Type  uint8
	Value string
}

type hMutation struct {
	_         struct{} `cbor:",toarray"`
	ProcCode  string
	Arity     int
	Names     []string
	Defaults  []string
	Warp      bool
	Prototype bool
	Raw       string
}

type hData struct {
	_      struct{} `cbor:",toarray"`
	Tag    byte
	Name   string
	Values []string
}

type hTarget struct {
	_       struct{} `cbor:",toarray"`
	Version byte
	Tag     byte
	Stage   bool
	Data    []hData
	Scripts [][]byte
}

// normalizer walks one target's graph.
type normalizer struct {
	graph *block.Graph
	seen  map[block.ID]bool
	// args maps argument ids to their position, per enclosing mutation.
	args map[block.ID]int
}

func newNormalizer(g *block.Graph) *normalizer {
	return &normalizer{graph: g, seen: make(map[block.ID]bool), args: make(map[block.ID]int)}
}

// script normalizes the chain starting at a top-level block.
func (n *normalizer) script(top *block.Block) (*hScript, error) {
	blocks, err := n.chain(top.ID)
	if err != nil {
		return nil, err
	}
	return &hScript{Tag: TagScript, Blocks: blocks}, nil
}

func (n *normalizer) chain(start block.ID) ([]*hBlock, error) {
	var out []*hBlock
	for id := start; !id.IsZero(); {
		b := n.graph.Get(id)
		if b == nil {
			return nil, fmt.Errorf("%w: block %s does not resolve", block.ErrInvalidProject, id)
		}
		hb, err := n.block(b)
		if err != nil {
			return nil, err
		}
		out = append(out, hb)
		id = b.Next
	}
	return out, nil
}

func (n *normalizer) block(b *block.Block) (*hBlock, error) {
	if n.seen[b.ID] {
		return nil, fmt.Errorf("%w: block %s (%s) is reachable twice", block.ErrInvalidProject, b.ID, b.Opcode)
	}
	n.seen[b.ID] = true

	tag := TagBlock
	if b.Shadow() {
		tag = TagShadow
	}
	hb := &hBlock{Tag: tag, Opcode: b.Opcode}

	if m := b.Mutation; m != nil {
		hb.Mutation = &hMutation{
			ProcCode:  m.ProcCode,
			Arity:     len(m.ArgumentIDs),
			Names:     strs(m.ArgumentNames),
			Defaults:  strs(m.ArgumentDefaults),
			Warp:      m.Warp,
			Prototype: m.Prototype,
			Raw:       string(m.Raw),
		}
		for i, arg := range m.ArgumentIDs {
			n.args[arg] = i
		}
	}

	names := make([]string, 0, len(b.Fields))
	for name := range b.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		hb.Fields = append(hb.Fields, hField{Name: name, Value: b.Fields[name].Value})
	}

	for key, in := range b.Inputs {
		hi, err := n.input(n.keyName(key), in)
		if err != nil {
			return nil, err
		}
		hb.Inputs = append(hb.Inputs, hi)
	}
	sort.Slice(hb.Inputs, func(i, j int) bool { return hb.Inputs[i].Key < hb.Inputs[j].Key })
	return hb, nil
}

// strs maps empty to nil, so an absent list and an empty one encode alike.
func strs(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

// keyName renders an input key without ids: procedure argument slots are
// named by position.
func (n *normalizer) keyName(key block.InputKey) string {
	if key.Name != "" {
		return key.Name
	}
	if i, ok := n.args[key.Arg]; ok {
		return "@" + strconv.Itoa(i)
	}
	return "@?"
}

func (n *normalizer) input(key string, in block.Input) (hInput, error) {
	hi := hInput{Key: key, Tag: TagEmpty, State: uint8(in.State)}
	if in.Literal != nil {
		hi.Tag = TagLiteral
		hi.Literal = &hLiteral{Type: uint8(in.Literal.Type), Value: in.Literal.Value}
	}
	if !in.Block.IsZero() {
		chain, err := n.chain(in.Block)
		if err != nil {
			return hi, err
		}
		hi.Chain = chain
		if hi.Tag == TagLiteral {
			hi.Tag = TagObscured
		} else {
			hi.Tag = TagChain
		}
	}
	if !in.ShadowBlock.IsZero() {
		shadow, err := n.chain(in.ShadowBlock)
		if err != nil {
			return hi, err
		}
		hi.Shadow = shadow
		hi.Tag = TagObscured
	}
	return hi, nil
}

// data normalizes variables and lists, sorted by name.
func data(t *block.Target) []hData {
	var out []hData
	for _, v := range t.Variables {
		out = append(out, hData{Tag: TagVariable, Name: v.Name, Values: []string{v.Value.Text()}})
	}
	for _, l := range t.Lists {
		values := make([]string, len(l.Values))
		for i, v := range l.Values {
			values[i] = v.Text()
		}
		out = append(out, hData{Tag: TagList, Name: l.Name, Values: values})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Tag != out[j].Tag {
			return out[i].Tag < out[j].Tag
		}
		return out[i].Name < out[j].Name
	})
	return out
}
