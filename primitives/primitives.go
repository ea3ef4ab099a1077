// Package primitives is the vocabulary shared by the compiler and the
// decompiler: which call names exist, which opcode each produces, and how
// its arguments land in inputs, fields and menus.
package primitives

// Shape says how a call's arguments are laid out on its block.
type Shape int

const (
	// Reporter: no arguments, reports a value (x_position()).
	Reporter Shape = iota
	// FieldReporter: no arguments, one fixed field (costume_name()).
	FieldReporter
	// InputReporter: positional inputs (join(a, b)).
	InputReporter
	// MathOp: operator_mathop with a fixed OPERATOR field (sqrt(x)).
	MathOp
	// MenuReporter: one argument through a shadow menu (touching("edge")).
	MenuReporter
	// ColorReporter: color literals (touching_color("#ff0000")).
	ColorReporter
	// Random: pick_random(a, b); a single argument means 1..a.
	Random
	// NoArg: statement without arguments (show()).
	NoArg
	// SingleArg: statement with one input (move(10)).
	SingleArg
	// MultiArg: statement with several inputs (go_to_xy(x, y)).
	MultiArg
	// FieldInput: a field then an input (change_effect("color", 25)).
	FieldInput
	// Menu: leading inputs then one argument through a shadow menu
	// (glide_to(1, "mouse")).
	Menu
	// FieldOnly: a single field (stop("all")).
	FieldOnly
	// BroadcastCall: a broadcast literal input (broadcast("go")).
	BroadcastCall
	// ListOp: inputs plus a list-name argument (add_to_list(x, "items")).
	ListOp
	// VariableField: a variable-name argument (show_variable("score")).
	VariableField
	// PropertyOf: sensing_of with a PROPERTY field and an OBJECT menu.
	PropertyOf
	// WaitUntil: a condition input.
	WaitUntil
)

// ListParam marks the list-name argument position in a ListOp's Inputs.
const ListParam = "@list"

// MenuSpec describes a shadow menu block feeding one input.
type MenuSpec struct {
	Opcode  string
	Slot    string // input name on the parent, also the menu's field name
	Default string // menu value used behind a non-literal argument
	Targets bool   // translate mouse/random/edge/myself to sentinels
	Keys    bool   // translate key names (up → "up arrow")
}

// Spec describes one call name.
type Spec struct {
	Name       string
	Opcode     string
	Shape      Shape
	Boolean    bool     // reports a boolean (usable as a condition)
	Inputs     []string // positional input slots, in argument order
	Field      string
	FieldValue string // fixed field value for FieldReporter and MathOp
	Upper      bool   // uppercase the field argument (effect names)
	Menu       *MenuSpec
	Extension  string // extension id the opcode needs, if any
}

// IsReporter reports whether calls of this spec produce a value.
func (s *Spec) IsReporter() bool {
	switch s.Shape {
	case Reporter, FieldReporter, InputReporter, MathOp, MenuReporter, ColorReporter, Random, PropertyOf:
		return true
	case ListOp:
		return s.Boolean || isListReporter(s.Opcode)
	}
	return false
}

func isListReporter(opcode string) bool {
	switch opcode {
	case "data_itemoflist", "data_itemnumoflist", "data_lengthoflist", "data_listcontainsitem":
		return true
	}
	return false
}

var (
	byName   = make(map[string]*Spec)
	byOpcode = make(map[string][]*Spec)
)

func init() {
	for _, s := range table {
		if _, dup := byName[s.Name]; dup {
			panic("primitives: duplicate call name " + s.Name)
		}
		byName[s.Name] = s
		byOpcode[s.Opcode] = append(byOpcode[s.Opcode], s)
	}
}

// Lookup returns the spec for a call name.
func Lookup(name string) (*Spec, bool) {
	s, ok := byName[name]
	return s, ok
}

// ByOpcode returns the specs producing opcode, canonical name first.
func ByOpcode(opcode string) []*Spec {
	return byOpcode[opcode]
}

// Names returns every call name in table order.
func Names() []string {
	names := make([]string, len(table))
	for i, s := range table {
		names[i] = s.Name
	}
	return names
}
