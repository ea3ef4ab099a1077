package decompiler

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/chazu/scratchc/block"
	"github.com/chazu/scratchc/primitives"
)

// ---------------------------------------------------------------------------
// Primitive calls
// ---------------------------------------------------------------------------

// call renders b as a call to the primitive that produces its opcode. It
// reports false when no call name produces the opcode.
func (c *Converter) call(b *block.Block) (string, bool) {
	spec := c.specFor(b)
	if spec == nil {
		return "", false
	}
	var args []string
	switch spec.Shape {
	case primitives.Reporter, primitives.NoArg, primitives.FieldReporter:

	case primitives.SingleArg, primitives.MultiArg, primitives.InputReporter,
		primitives.MathOp, primitives.Random, primitives.ColorReporter:
		args = c.inputs(b, spec.Inputs)

	case primitives.FieldInput:
		field := b.Field(spec.Field)
		if spec.Upper {
			field = strings.ToLower(field)
		}
		args = append([]string{quote(field)}, c.inputs(b, spec.Inputs)...)

	case primitives.FieldOnly, primitives.VariableField:
		args = []string{quote(b.Field(spec.Field))}

	case primitives.Menu, primitives.MenuReporter:
		args = append(c.inputs(b, spec.Inputs), c.input(b, spec.Menu.Slot))

	case primitives.PropertyOf:
		args = []string{quote(b.Field(spec.Field)), c.input(b, spec.Menu.Slot)}

	case primitives.BroadcastCall:
		args = c.inputs(b, spec.Inputs)

	case primitives.ListOp:
		for _, slot := range spec.Inputs {
			if slot == primitives.ListParam {
				args = append(args, quote(b.Field("LIST")))
				continue
			}
			args = append(args, c.input(b, slot))
		}

	case primitives.WaitUntil:
		args = []string{c.condition(b, spec.Inputs[0])}
	}
	return spec.Name + "(" + strings.Join(args, ", ") + ")", true
}

// specFor picks the call name for b. Opcodes shared by several names
// (costume_number, costume_name) are told apart by their fixed field.
func (c *Converter) specFor(b *block.Block) *primitives.Spec {
	specs := primitives.ByOpcode(b.Opcode)
	if len(specs) == 0 {
		return nil
	}
	for _, s := range specs {
		if s.FieldValue != "" && strings.EqualFold(b.Field(s.Field), s.FieldValue) {
			return s
		}
	}
	return specs[0]
}

func (c *Converter) inputs(b *block.Block, slots []string) []string {
	args := make([]string, len(slots))
	for i, slot := range slots {
		args[i] = c.input(b, slot)
	}
	return args
}

// ---------------------------------------------------------------------------
// Literals
// ---------------------------------------------------------------------------

var numeric = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?$`)

func formatLiteral(lit *block.Literal) string {
	switch {
	case lit.Type.IsNumeric():
		return formatNumber(lit.Value)
	case lit.Type == block.VariableLit, lit.Type == block.ListLit:
		return primitives.Identifier(lit.Value, "var")
	}
	return quote(lit.Value)
}

// formatNumber renders number text as a number literal. Text that does not
// parse stays a string, since Scratch lets any text into a number slot.
func formatNumber(s string) string {
	s = strings.TrimSpace(s)
	if !numeric.MatchString(s) {
		return quote(s)
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return strconv.FormatInt(n, 10)
	}
	return s
}

func formatValue(v block.Value) string {
	switch v.Kind {
	case block.IntValue:
		return strconv.FormatInt(v.Int, 10)
	case block.FloatValue:
		return block.FormatFloat(v.Float)
	case block.BoolValue:
		if v.Bool {
			return "True"
		}
		return "False"
	}
	if numeric.MatchString(v.Str) {
		return formatNumber(v.Str)
	}
	return quote(v.Str)
}

func formatList(values []block.Value) string {
	items := make([]string, len(values))
	for i, v := range values {
		items[i] = formatValue(v)
	}
	return "[" + strings.Join(items, ", ") + "]"
}

func quote(s string) string { return strconv.Quote(s) }
