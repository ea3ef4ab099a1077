// Package block is the in-memory model of a Scratch 3.0 project: targets,
// their block graphs, and the project.json encoding of both.
package block

import "encoding/json"

// Kind is the structural role of a block.
type Kind uint8

const (
	Stack Kind = iota
	Hat
	Reporter
	BooleanReporter
	ShadowMenu
)

var kindNames = [...]string{"stack", "hat", "reporter", "boolean", "shadow"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "?"
}

// Chains reports whether blocks of this kind may carry a next link.
func (k Kind) Chains() bool { return k == Stack || k == Hat }

// ---------------------------------------------------------------------------
// Inputs
// ---------------------------------------------------------------------------

// LiteralType is the primitive type code of a literal inside an input.
type LiteralType uint8

const (
	MathNumber     LiteralType = 4
	PositiveNumber LiteralType = 5
	WholeNumber    LiteralType = 6
	Integer        LiteralType = 7
	Angle          LiteralType = 8
	ColorLit       LiteralType = 9
	TextLit        LiteralType = 10
	BroadcastLit   LiteralType = 11
	VariableLit    LiteralType = 12
	ListLit        LiteralType = 13
)

// IsNumeric reports whether t is one of the number codes (4..8).
func (t LiteralType) IsNumeric() bool { return t >= MathNumber && t <= Angle }

// Literal is an inline primitive: [type, value] or [type, name, id] for
// broadcasts, variables and lists.
type Literal struct {
	Type  LiteralType
	Value string
	Ref   ID
}

// ShadowState is the first element of a serialized input.
type ShadowState uint8

const (
	// SameBlockShadow: the input holds only its shadow (a literal or a menu).
	SameBlockShadow ShadowState = 1
	// NoShadow: the input holds a block with nothing behind it.
	NoShadow ShadowState = 2
	// DiffBlockShadow: a block obscures a shadow that stays behind it.
	DiffBlockShadow ShadowState = 3
)

// Input is one entry of a block's inputs map.
//
//	[1, [4, "10"]]        Literal
//	[1, "menu"]           Block (a shadow menu)
//	[2, "block"]          Block
//	[3, "block", [4,"0"]] Block obscuring Literal
//	[3, "block", "menu"]  Block obscuring ShadowBlock
type Input struct {
	State       ShadowState
	Block       ID
	Literal     *Literal
	ShadowBlock ID
}

// LiteralInput returns [1, [type, value]].
func LiteralInput(t LiteralType, value string) Input {
	return Input{State: SameBlockShadow, Literal: &Literal{Type: t, Value: value}}
}

// NumberInput returns [1, [4, value]].
func NumberInput(value string) Input { return LiteralInput(MathNumber, value) }

// TextInput returns [1, [10, value]].
func TextInput(value string) Input { return LiteralInput(TextLit, value) }

// ColorInput returns [1, [9, hex]].
func ColorInput(hex string) Input { return LiteralInput(ColorLit, hex) }

// BroadcastInput returns [1, [11, name, id]].
func BroadcastInput(name string, id ID) Input {
	return Input{State: SameBlockShadow, Literal: &Literal{Type: BroadcastLit, Value: name, Ref: id}}
}

// MenuInput returns [1, menuID].
func MenuInput(menu ID) Input { return Input{State: SameBlockShadow, Block: menu} }

// BlockInput returns [2, id], used for conditions and substacks.
func BlockInput(id ID) Input { return Input{State: NoShadow, Block: id} }

// ObscuredInput returns [3, id, [4, def]]: a reporter dropped over a
// numeric shadow.
func ObscuredInput(id ID, def string) Input {
	return Input{State: DiffBlockShadow, Block: id, Literal: &Literal{Type: MathNumber, Value: def}}
}

// Refs returns the block ids this input references.
func (in Input) Refs() []ID {
	var ids []ID
	if !in.Block.IsZero() {
		ids = append(ids, in.Block)
	}
	if !in.ShadowBlock.IsZero() {
		ids = append(ids, in.ShadowBlock)
	}
	return ids
}

// InputKey names an input slot. Procedure calls and prototypes key their
// inputs by argument id rather than by name.
type InputKey struct {
	Name string
	Arg  ID
}

// Slot returns the key for a named input.
func Slot(name string) InputKey { return InputKey{Name: name} }

// ArgSlot returns the key for a procedure argument input.
func ArgSlot(arg ID) InputKey { return InputKey{Arg: arg} }

// ---------------------------------------------------------------------------
// Fields and mutations
// ---------------------------------------------------------------------------

// Field is [value, id]. Ref is set for variable, list and broadcast fields.
type Field struct {
	Value string
	Ref   ID
}

// Mutation carries a custom procedure's signature on definitions'
// prototypes and on calls. Names and defaults are only present on
// prototypes.
type Mutation struct {
	ProcCode         string
	ArgumentIDs      []ID
	ArgumentNames    []string
	ArgumentDefaults []string
	Warp             bool
	Prototype        bool

	// Raw holds non-procedure mutations (control_stop's hasnext) from
	// decoded documents, written back unchanged.
	Raw json.RawMessage
}

// ---------------------------------------------------------------------------
// Block
// ---------------------------------------------------------------------------

// Block is one node of a target's block graph.
type Block struct {
	ID       ID
	Opcode   string
	Kind     Kind
	Parent   ID
	Next     ID
	Inputs   map[InputKey]Input
	Fields   map[string]Field
	TopLevel bool
	X, Y     float64
	Mutation *Mutation
}

// New returns a block with empty input and field maps.
func New(id ID, opcode string, kind Kind) *Block {
	return &Block{
		ID:     id,
		Opcode: opcode,
		Kind:   kind,
		Inputs: make(map[InputKey]Input),
		Fields: make(map[string]Field),
	}
}

// Shadow reports whether the block serializes with "shadow": true.
func (b *Block) Shadow() bool { return b.Kind == ShadowMenu }

// Input returns the named input.
func (b *Block) Input(name string) (Input, bool) {
	in, ok := b.Inputs[Slot(name)]
	return in, ok
}

// SetInput stores a named input.
func (b *Block) SetInput(name string, in Input) { b.Inputs[Slot(name)] = in }

// Field returns the named field's value, or "".
func (b *Block) Field(name string) string { return b.Fields[name].Value }

// SetField stores a field without an id.
func (b *Block) SetField(name, value string) { b.Fields[name] = Field{Value: value} }
