package compiler

import (
	"strings"

	"github.com/chazu/scratchc/ast"
	"github.com/chazu/scratchc/block"
	"github.com/chazu/scratchc/primitives"
)

// ---------------------------------------------------------------------------
// Dispatch
// ---------------------------------------------------------------------------

// callStmt compiles a call used as a statement: a custom procedure first,
// then the primitive vocabulary.
func (u *unit) callStmt(ch chain, c *ast.Call) chain {
	name := methodName(ast.CallName(c))
	if p, ok := u.procs[name]; ok {
		return u.procCall(ch, c, p)
	}
	spec, ok := primitives.Lookup(name)
	if !ok {
		u.unknownCall(c, name)
		return ch
	}
	if spec.IsReporter() {
		u.warn(CodeStmtCall, c, "%s reports a value and cannot stand alone", name)
		return ch
	}
	u.needs(spec)
	var b *block.Block
	b, ch = u.stack(ch, spec.Opcode)
	u.fill(b, spec, c)
	return ch
}

// callValue compiles a call used as a value.
func (u *unit) callValue(c *ast.Call) operand {
	name := methodName(ast.CallName(c))
	if _, ok := u.args[name]; ok && len(c.Args) == 0 {
		// An argument written as a call: name().
		return u.reference(name)
	}
	if _, ok := u.procs[name]; ok {
		u.warn(CodeExprCall, c, "procedure %s does not report a value; using 0", name)
		return number("0")
	}
	spec, ok := primitives.Lookup(name)
	if !ok {
		u.unknownCall(c, name)
		return number("0")
	}
	if !spec.IsReporter() {
		u.warn(CodeExprCall, c, "%s is a statement and reports no value; using 0", name)
		return number("0")
	}
	return u.reporterCall(c, spec)
}

// booleanCall reports whether c names a boolean reporter.
func (u *unit) booleanCall(c *ast.Call) (*primitives.Spec, bool) {
	spec, ok := primitives.Lookup(methodName(ast.CallName(c)))
	if !ok || !spec.Boolean || !spec.IsReporter() {
		return nil, false
	}
	return spec, true
}

func (u *unit) unknownCall(c *ast.Call, name string) {
	if _, self := c.Func.(*ast.Attribute); self {
		u.warn(CodeUnknownProc, c, "no method %s in %s", name, u.target.Name)
		return
	}
	if name == "unknown" {
		u.warn(CodeUnknownCall, c, "placeholder for an unrecognized block is dropped")
		return
	}
	u.warn(CodeUnknownCall, c, "unknown block %s", name)
}

func (u *unit) needs(spec *primitives.Spec) {
	if spec.Extension != "" {
		u.c.useExtension(spec.Extension)
	}
}

// reporterCall emits a reporter for a value-producing primitive.
func (u *unit) reporterCall(c *ast.Call, spec *primitives.Spec) operand {
	u.needs(spec)
	r := u.reporter(spec.Opcode, spec.Boolean)
	u.fill(r, spec, c)
	return reported(r.ID)
}

// ---------------------------------------------------------------------------
// Argument layout
// ---------------------------------------------------------------------------

// fill lays c's arguments out on b according to the spec's shape.
// Missing arguments leave their slots empty; extra ones are ignored.
func (u *unit) fill(b *block.Block, spec *primitives.Spec, c *ast.Call) {
	args := c.Args
	arg := func(i int) ast.Expr {
		if i < len(args) {
			return args[i]
		}
		return nil
	}

	switch spec.Shape {
	case primitives.Reporter, primitives.NoArg:

	case primitives.FieldReporter:
		b.SetField(spec.Field, spec.FieldValue)

	case primitives.SingleArg, primitives.MultiArg, primitives.InputReporter:
		u.inputs(b, spec.Inputs, args)

	case primitives.MathOp:
		b.SetField(spec.Field, spec.FieldValue)
		u.inputs(b, spec.Inputs, args)

	case primitives.Random:
		switch len(args) {
		case 0:
			u.attach(b, block.Slot("FROM"), number("1"))
			u.attach(b, block.Slot("TO"), number("10"))
		case 1:
			u.attach(b, block.Slot("FROM"), number("1"))
			u.attach(b, block.Slot("TO"), u.value(args[0]))
		default:
			u.inputs(b, spec.Inputs, args)
		}

	case primitives.ColorReporter:
		for i, slot := range spec.Inputs {
			if e := arg(i); e != nil {
				u.color(b, slot, e)
			}
		}

	case primitives.FieldInput:
		if e := arg(0); e != nil {
			value := u.stringArg(spec.Name, e)
			if spec.Upper {
				value = strings.ToUpper(value)
			}
			b.SetField(spec.Field, value)
		}
		u.inputs(b, spec.Inputs, tail(args, 1))

	case primitives.FieldOnly:
		value := ""
		if e := arg(0); e != nil {
			value = u.stringArg(spec.Name, e)
		} else if spec.Opcode == "control_stop" {
			value = "all"
		}
		b.SetField(spec.Field, value)
		if spec.Opcode == "control_stop" {
			b.Mutation = stopMutation(value)
		}

	case primitives.Menu, primitives.MenuReporter:
		u.inputs(b, spec.Inputs, args)
		u.menuInput(b, spec.Menu, arg(len(spec.Inputs)))

	case primitives.PropertyOf:
		if e := arg(0); e != nil {
			b.SetField(spec.Field, u.stringArg(spec.Name, e))
		}
		u.menuInput(b, spec.Menu, arg(1))

	case primitives.BroadcastCall:
		u.broadcastInput(b, c, spec.Inputs[0], arg(0))

	case primitives.ListOp:
		for i, slot := range spec.Inputs {
			e := arg(i)
			if e == nil {
				continue
			}
			if slot == primitives.ListParam {
				l := u.list(u.stringArg(spec.Name, e))
				b.Fields["LIST"] = block.Field{Value: l.Name, Ref: l.ID}
				continue
			}
			u.attach(b, block.Slot(slot), u.value(e))
		}

	case primitives.VariableField:
		if e := arg(0); e != nil {
			v := u.variable(u.stringArg(spec.Name, e), block.Int(0))
			b.Fields[spec.Field] = block.Field{Value: v.Name, Ref: v.ID}
		}

	case primitives.WaitUntil:
		if e := arg(0); e != nil {
			u.attachBlock(b, spec.Inputs[0], u.condition(e))
		}
	}
}

// inputs attaches positional arguments to named slots.
func (u *unit) inputs(b *block.Block, slots []string, args []ast.Expr) {
	for i, slot := range slots {
		if i >= len(args) {
			return
		}
		u.attach(b, block.Slot(slot), u.value(args[i]))
	}
}

func tail(args []ast.Expr, from int) []ast.Expr {
	if from >= len(args) {
		return nil
	}
	return args[from:]
}

// stringArg reads an argument that must be a string literal (field values,
// list and variable names). Anything else yields its best text form.
func (u *unit) stringArg(call string, e ast.Expr) string {
	if c, ok := e.(*ast.Constant); ok {
		if c.Kind == ast.ConstString {
			return c.Str
		}
		return constOperand(c).lit.Value
	}
	if n, ok := e.(*ast.Name); ok {
		u.warn(CodeArgument, e, "%s: argument should be a string literal; using %q", call, n.ID)
		return n.ID
	}
	u.warn(CodeArgument, e, "%s: argument should be a string literal", call)
	return ""
}

// color fills a color slot: a string literal becomes [9, "#rrggbb"].
func (u *unit) color(b *block.Block, slot string, e ast.Expr) {
	if c, ok := e.(*ast.Constant); ok && c.Kind == ast.ConstString {
		b.SetInput(slot, block.ColorInput(c.Str))
		return
	}
	u.attach(b, block.Slot(slot), u.value(e))
}

// menuInput feeds a menu slot. A string literal selects the menu value
// directly; any other expression is dropped over a menu holding the
// default.
func (u *unit) menuInput(b *block.Block, m *primitives.MenuSpec, e ast.Expr) {
	lit, isConst := e.(*ast.Constant)
	if e == nil || isConst && lit.Kind == ast.ConstString {
		value := m.Default
		if e != nil {
			value = m.MenuValue(lit.Str)
		}
		if m.Opcode == "sound_sounds_menu" {
			u.useSound(value)
		}
		menu := u.menu(b, m.Opcode, m.Slot, value)
		b.SetInput(m.Slot, block.MenuInput(menu.ID))
		return
	}
	r := u.value(e)
	menu := u.menu(b, m.Opcode, m.Slot, m.Default)
	if r.lit != nil {
		// A non-string literal (play_sound(1)): select it as text.
		menu.SetField(m.Slot, m.MenuValue(r.lit.Value))
		b.SetInput(m.Slot, block.MenuInput(menu.ID))
		return
	}
	u.graph.Get(r.id).Parent = b.ID
	b.SetInput(m.Slot, block.Input{State: block.DiffBlockShadow, Block: r.id, ShadowBlock: menu.ID})
}

const defaultMessage = "message1"

// broadcastInput feeds BROADCAST_INPUT with [11, name, id], or a reporter
// over a default message.
func (u *unit) broadcastInput(b *block.Block, call *ast.Call, slot string, e ast.Expr) {
	if c, ok := e.(*ast.Constant); ok && c.Kind == ast.ConstString {
		msg := u.useBroadcast(c.Str)
		b.SetInput(slot, block.BroadcastInput(msg.Name, msg.ID))
		return
	}
	if e == nil {
		u.warn(CodeArgument, call, "%s without a message", ast.CallName(call))
		msg := u.useBroadcast(defaultMessage)
		b.SetInput(slot, block.BroadcastInput(msg.Name, msg.ID))
		return
	}
	r := u.value(e)
	msg := u.useBroadcast(defaultMessage)
	in := block.BroadcastInput(msg.Name, msg.ID)
	if !r.id.IsZero() {
		u.graph.Get(r.id).Parent = b.ID
		in.State, in.Block = block.DiffBlockShadow, r.id
	}
	b.SetInput(slot, in)
}

// stopMutation marks whether blocks may follow a stop block: only
// "other scripts in sprite" lets the script continue.
func stopMutation(option string) *block.Mutation {
	hasNext := "false"
	if strings.HasPrefix(option, "other scripts") {
		hasNext = "true"
	}
	return &block.Mutation{Raw: []byte(`{"tagName":"mutation","children":[],"hasnext":"` + hasNext + `"}`)}
}
