package decompiler

import (
	"strings"

	"github.com/chazu/scratchc/block"
	"github.com/chazu/scratchc/primitives"
)

// Converter renders the scripts of one target. It holds no state besides
// the target, so the same converter can render any of its blocks.
type Converter struct {
	target *block.Target
	graph  *block.Graph
}

// NewConverter returns a converter for t.
func NewConverter(t *block.Target) *Converter {
	return &Converter{target: t, graph: t.Blocks}
}

// ---------------------------------------------------------------------------
// Scripts
// ---------------------------------------------------------------------------

// ConvertScript renders a hat and the chain below it as a method.
func (c *Converter) ConvertScript(hat *block.Block) []string {
	name, params := c.signature(hat)
	args := "self"
	if len(params) > 0 {
		args += ", " + strings.Join(params, ", ")
	}
	lines := []string{indentUnit + "def " + name + "(" + args + "):"}
	return append(lines, c.body(hat.Next, 2)...)
}

// signature derives the method name and parameters of a script root.
func (c *Converter) signature(hat *block.Block) (string, []string) {
	if hat.Opcode == "procedures_definition" {
		proto := c.prototype(hat)
		if proto == nil || proto.Mutation == nil {
			return "custom", nil
		}
		name := primitives.Identifier(block.ProcName(proto.Mutation.ProcCode), "custom")
		params := make([]string, len(proto.Mutation.ArgumentNames))
		for i, a := range proto.Mutation.ArgumentNames {
			params[i] = primitives.Identifier(a, "arg")
		}
		return name, params
	}
	h, ok := primitives.HatOf(hat, literalValue)
	if !ok {
		return primitives.Identifier(hat.Opcode, "script"), nil
	}
	return h.Method(), nil
}

func (c *Converter) prototype(def *block.Block) *block.Block {
	in, ok := def.Input("custom_block")
	if !ok {
		return nil
	}
	return c.graph.Get(in.Block)
}

// body renders a substack. A body with no statement, empty or holding
// only unknown-opcode comments, gets a pass.
func (c *Converter) body(start block.ID, indent int) []string {
	lines := c.ConvertBlockChain(start, indent)
	for _, l := range lines {
		if !strings.HasPrefix(strings.TrimSpace(l), "#") {
			return lines
		}
	}
	return append(lines, pad(indent)+"pass")
}

// ConvertBlockChain renders start and every block after it.
func (c *Converter) ConvertBlockChain(start block.ID, indent int) []string {
	var lines []string
	for _, b := range c.graph.Chain(start) {
		lines = append(lines, c.ConvertBlock(b, indent)...)
	}
	return lines
}

func pad(indent int) string { return strings.Repeat(indentUnit, indent) }

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

// ConvertBlock renders one statement block. Control blocks recurse into
// their substacks one level deeper.
func (c *Converter) ConvertBlock(b *block.Block, indent int) []string {
	p := pad(indent)
	switch b.Opcode {
	case "control_forever":
		return append([]string{p + "while True:"}, c.substack(b, "SUBSTACK", indent+1)...)
	case "control_repeat":
		head := p + "for i in range(" + c.input(b, "TIMES") + "):"
		return append([]string{head}, c.substack(b, "SUBSTACK", indent+1)...)
	case "control_repeat_until":
		head := p + "while not (" + c.condition(b, "CONDITION") + "):"
		return append([]string{head}, c.substack(b, "SUBSTACK", indent+1)...)
	case "control_if":
		head := p + "if " + c.condition(b, "CONDITION") + ":"
		return append([]string{head}, c.substack(b, "SUBSTACK", indent+1)...)
	case "control_if_else":
		lines := []string{p + "if " + c.condition(b, "CONDITION") + ":"}
		lines = append(lines, c.substack(b, "SUBSTACK", indent+1)...)
		lines = append(lines, p+"else:")
		return append(lines, c.substack(b, "SUBSTACK2", indent+1)...)
	case "data_setvariableto":
		return []string{p + c.variableName(b) + " = " + c.input(b, "VALUE")}
	case "data_changevariableby":
		return []string{p + c.variableName(b) + " += " + c.input(b, "VALUE")}
	case "procedures_call":
		return []string{p + c.procCall(b)}
	}
	if expr, ok := c.call(b); ok {
		return []string{p + expr}
	}
	return []string{p + "# Unknown: " + b.Opcode}
}

func (c *Converter) substack(b *block.Block, name string, indent int) []string {
	in, ok := b.Input(name)
	if !ok {
		return c.body(block.NoID, indent)
	}
	return c.body(in.Block, indent)
}

func (c *Converter) variableName(b *block.Block) string {
	return primitives.Identifier(b.Field("VARIABLE"), "var")
}

// procCall renders a custom block call as a method call, arguments in
// the mutation's order.
func (c *Converter) procCall(b *block.Block) string {
	m := b.Mutation
	if m == nil {
		return "# Unknown: procedures_call"
	}
	args := make([]string, 0, len(m.ArgumentIDs))
	for _, arg := range m.ArgumentIDs {
		in, ok := b.Inputs[block.ArgSlot(arg)]
		if !ok {
			args = append(args, `""`)
			continue
		}
		args = append(args, c.render(in))
	}
	name := primitives.Identifier(block.ProcName(m.ProcCode), "custom")
	return "self." + name + "(" + strings.Join(args, ", ") + ")"
}

// ---------------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------------

var infix = map[string]string{
	"operator_add":      "+",
	"operator_subtract": "-",
	"operator_multiply": "*",
	"operator_divide":   "/",
	"operator_mod":      "%",
}

var comparisons = map[string]string{
	"operator_gt":     ">",
	"operator_lt":     "<",
	"operator_equals": "==",
}

// ConvertReporter renders a reporter and everything nested in its inputs
// as one expression.
func (c *Converter) ConvertReporter(id block.ID) string {
	b := c.graph.Get(id)
	if b == nil {
		return "0"
	}
	if b.Shadow() {
		return c.menu(b)
	}
	switch b.Opcode {
	case "data_variable":
		return primitives.Identifier(b.Field("VARIABLE"), "var")
	case "data_listcontents":
		return primitives.Identifier(b.Field("LIST"), "items")
	case "argument_reporter_string_number", "argument_reporter_boolean":
		return primitives.Identifier(b.Field("VALUE"), "arg")
	case "operator_and", "operator_or":
		op := strings.TrimPrefix(b.Opcode, "operator_")
		return "(" + c.condition(b, "OPERAND1") + " " + op + " " + c.condition(b, "OPERAND2") + ")"
	}
	if op, ok := infix[b.Opcode]; ok {
		return "(" + c.input(b, "NUM1") + " " + op + " " + c.input(b, "NUM2") + ")"
	}
	if expr, ok := c.predicate(b); ok {
		return "(" + expr + ")"
	}
	if expr, ok := c.call(b); ok {
		return expr
	}
	return "unknown(" + quote(b.Opcode) + ")"
}

// input renders the value in a named slot; an empty slot reads as 0.
func (c *Converter) input(b *block.Block, name string) string {
	in, ok := b.Input(name)
	if !ok {
		return "0"
	}
	return c.render(in)
}

func (c *Converter) render(in block.Input) string {
	if !in.Block.IsZero() {
		return c.ConvertReporter(in.Block)
	}
	if in.Literal != nil {
		return formatLiteral(in.Literal)
	}
	if !in.ShadowBlock.IsZero() {
		return c.ConvertReporter(in.ShadowBlock)
	}
	return "0"
}

// condition renders a boolean slot. Scratch treats an empty slot as
// false. A comparison or not standing alone in the slot needs no
// parentheses; anywhere else ConvertReporter adds them.
func (c *Converter) condition(b *block.Block, name string) string {
	in, ok := b.Input(name)
	if !ok || in.Block.IsZero() {
		return "False"
	}
	if r := c.graph.Get(in.Block); r != nil {
		if expr, ok := c.predicate(r); ok {
			return expr
		}
	}
	return c.ConvertReporter(in.Block)
}

// predicate renders comparisons and not without enclosing parentheses.
func (c *Converter) predicate(b *block.Block) (string, bool) {
	if b.Opcode == "operator_not" {
		return "not " + c.condition(b, "OPERAND"), true
	}
	if op, ok := comparisons[b.Opcode]; ok {
		return c.input(b, "OPERAND1") + " " + op + " " + c.input(b, "OPERAND2"), true
	}
	return "", false
}

// menu renders a shadow menu block as the argument that selects it.
func (c *Converter) menu(b *block.Block) string {
	if m := primitives.MenuByOpcode(b.Opcode); m != nil {
		return quote(m.ArgValue(b.Field(m.Slot)))
	}
	for _, f := range b.Fields {
		return quote(primitives.FromSentinel(f.Value))
	}
	return `""`
}

func literalValue(in block.Input) string {
	if in.Literal == nil {
		return ""
	}
	return in.Literal.Value
}
