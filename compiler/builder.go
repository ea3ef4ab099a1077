package compiler

import (
	"strconv"

	"github.com/chazu/scratchc/ast"
	"github.com/chazu/scratchc/block"
)

// ---------------------------------------------------------------------------
// Compilation unit
// ---------------------------------------------------------------------------

// unit is the isolated state of one class: its own graph, id arena and
// data tables. Nothing in a unit is visible to sibling classes except the
// stage's globals and the project's broadcasts.
type unit struct {
	c      *Compiler
	target *block.Target
	arena  *block.Arena
	graph  *block.Graph
	stage  bool

	procs  procTable           // fixed after phase 1
	args   map[string]block.ID // parameters of the procedure being compiled
	method string

	sounds  map[string]bool
	msgs    map[block.ID]bool
	scripts int
}

func (c *Compiler) newUnit(name string, stage bool) *unit {
	t := block.NewTarget(name)
	t.IsStage = stage
	t.Naming = &block.Naming{Style: c.cfg.IDStyle(), Project: c.cfg.Project.Name, Target: name}
	return &unit{
		c:      c,
		target: t,
		arena:  block.NewArena(block.ScopeTarget),
		graph:  t.Blocks,
		stage:  stage,
		sounds: make(map[string]bool),
		msgs:   make(map[block.ID]bool),
	}
}

// finish hands the target over. The unit must not be used afterwards.
func (u *unit) finish() *block.Target {
	return u.target
}

func (u *unit) warn(code Code, at ast.Node, format string, args ...any) {
	u.c.warn(code, u.target.Name, u.method, at, format, args...)
}

// ---------------------------------------------------------------------------
// Chains
// ---------------------------------------------------------------------------

// chain is the open end of a script under construction. Bodies thread it
// through statement compilation and get the advanced chain back.
type chain struct {
	owner  block.ID // container whose substack this chain fills
	head   block.ID
	tail   block.ID
	closed bool // ends in a forever loop
}

// script starts a chain below a hat.
func script(hat *block.Block) chain {
	return chain{head: hat.ID, tail: hat.ID}
}

// substack starts an empty chain inside a container block.
func substack(owner block.ID) chain {
	return chain{owner: owner}
}

// link appends a stack block to ch.
func (u *unit) link(ch chain, b *block.Block) chain {
	if ch.tail.IsZero() {
		b.Parent = ch.owner
		ch.head = b.ID
	} else {
		u.graph.Get(ch.tail).Next = b.ID
		b.Parent = ch.tail
	}
	ch.tail = b.ID
	return ch
}

// ---------------------------------------------------------------------------
// Block creation
// ---------------------------------------------------------------------------

func (u *unit) newBlock(opcode string, kind block.Kind) *block.Block {
	b := block.New(u.arena.Alloc(), opcode, kind)
	u.graph.Add(b)
	return b
}

// stack creates a statement block and links it after ch.
func (u *unit) stack(ch chain, opcode string) (*block.Block, chain) {
	b := u.newBlock(opcode, block.Stack)
	return b, u.link(ch, b)
}

// reporter creates an unattached value block.
func (u *unit) reporter(opcode string, boolean bool) *block.Block {
	kind := block.Reporter
	if boolean {
		kind = block.BooleanReporter
	}
	return u.newBlock(opcode, kind)
}

// hat creates a script root.
func (u *unit) hat(opcode string) *block.Block {
	b := u.newBlock(opcode, block.Hat)
	b.TopLevel = true
	u.place(b)
	return b
}

// place positions the next script root; scripts are stacked 200 units
// apart.
func (u *unit) place(b *block.Block) {
	b.X = 0
	b.Y = float64(u.scripts * 200)
	u.scripts++
}

// menu creates a shadow menu block holding value in its field.
func (u *unit) menu(consumer *block.Block, opcode, field, value string) *block.Block {
	m := u.newBlock(opcode, block.ShadowMenu)
	m.Parent = consumer.ID
	m.SetField(field, value)
	return m
}

// ---------------------------------------------------------------------------
// Operands
// ---------------------------------------------------------------------------

// operand is a compiled expression: an inline literal, or a reporter block
// waiting to be attached to its consumer.
type operand struct {
	lit *block.Literal
	id  block.ID
}

func number(text string) operand {
	return operand{lit: &block.Literal{Type: block.MathNumber, Value: text}}
}

func text(s string) operand {
	return operand{lit: &block.Literal{Type: block.TextLit, Value: s}}
}

func reported(id block.ID) operand { return operand{id: id} }

// literalText returns the literal's text and whether o is a literal.
func (o operand) literalText() (string, bool) {
	if o.lit == nil {
		return "", false
	}
	return o.lit.Value, true
}

// input renders o for a consumer: [1, literal] or [3, reporter, [4, "0"]].
func (o operand) input() block.Input {
	if o.lit != nil {
		return block.LiteralInput(o.lit.Type, o.lit.Value)
	}
	return block.ObscuredInput(o.id, "0")
}

// attach stores o as the consumer's input, reparenting a reporter.
func (u *unit) attach(consumer *block.Block, key block.InputKey, o operand) {
	if !o.id.IsZero() {
		u.graph.Get(o.id).Parent = consumer.ID
	}
	consumer.Inputs[key] = o.input()
}

// attachBlock stores a condition or substack as [2, id]. A zero id leaves
// the slot empty.
func (u *unit) attachBlock(consumer *block.Block, name string, id block.ID) {
	if id.IsZero() {
		return
	}
	u.graph.Get(id).Parent = consumer.ID
	consumer.SetInput(name, block.BlockInput(id))
}

// ---------------------------------------------------------------------------
// Variables, lists and references
// ---------------------------------------------------------------------------

// dataID allocates a variable or list id. Stage data is referenced from
// every sprite, so it takes project-scoped ids.
func (u *unit) dataID() block.ID {
	if u.stage {
		return u.c.ids.Alloc()
	}
	return u.arena.Alloc()
}

func (u *unit) lookupVariable(name string) *block.Variable {
	if v := u.target.Variable(name); v != nil {
		return v
	}
	if !u.stage {
		return u.c.stage.target.Variable(name)
	}
	return nil
}

// variable returns the variable called name, sprite first then stage,
// creating a sprite variable with init on first reference.
func (u *unit) variable(name string, init block.Value) *block.Variable {
	if v := u.lookupVariable(name); v != nil {
		return v
	}
	v := &block.Variable{ID: u.dataID(), Name: name, Value: init}
	u.target.Variables = append(u.target.Variables, v)
	return v
}

// list is variable for lists.
func (u *unit) list(name string) *block.List {
	if l := u.target.List(name); l != nil {
		return l
	}
	if !u.stage {
		if l := u.c.stage.target.List(name); l != nil {
			return l
		}
	}
	l := &block.List{ID: u.dataID(), Name: name}
	u.target.Lists = append(u.target.Lists, l)
	return l
}

// useBroadcast returns the project broadcast and records that this target
// references it.
func (u *unit) useBroadcast(message string) *block.Broadcast {
	b := u.c.broadcast(message)
	if !u.msgs[b.ID] {
		u.msgs[b.ID] = true
		u.target.Broadcasts = append(u.target.Broadcasts, b)
	}
	return b
}

func (u *unit) useSound(name string) {
	if name == "" || u.sounds[name] {
		return
	}
	u.sounds[name] = true
	u.target.SoundRefs = append(u.target.SoundRefs, name)
}

// reference compiles a bare name: a fresh argument reporter inside a
// procedure whose parameter it names, otherwise a fresh variable reporter.
func (u *unit) reference(name string) operand {
	if _, ok := u.args[name]; ok {
		r := u.reporter("argument_reporter_string_number", false)
		r.SetField("VALUE", name)
		return reported(r.ID)
	}
	v := u.variable(name, block.Int(0))
	r := u.reporter("data_variable", false)
	r.Fields["VARIABLE"] = block.Field{Value: v.Name, Ref: v.ID}
	return reported(r.ID)
}

// ---------------------------------------------------------------------------
// Declarations
// ---------------------------------------------------------------------------

// constValue evaluates a literal initializer.
func constValue(e ast.Expr) (block.Value, bool) {
	switch e := e.(type) {
	case *ast.Constant:
		switch e.Kind {
		case ast.ConstInt:
			return block.Int(e.Int), true
		case ast.ConstFloat:
			return block.Float(e.Float), true
		case ast.ConstString:
			return block.String(e.Str), true
		case ast.ConstBool:
			return block.Bool(e.Bool), true
		}
	case *ast.UnaryOp:
		if e.Op != ast.USub {
			break
		}
		if c, ok := e.Operand.(*ast.Constant); ok {
			switch c.Kind {
			case ast.ConstInt:
				return block.Int(-c.Int), true
			case ast.ConstFloat:
				return block.Float(-c.Float), true
			}
		}
	}
	return block.Value{}, false
}

// assignedName returns the variable an assignment target names: x or
// self.x.
func assignedName(e ast.Expr) (string, bool) {
	switch e := e.(type) {
	case *ast.Name:
		return e.ID, true
	case *ast.Attribute:
		if self, ok := e.Value.(*ast.Name); ok && self.ID == "self" {
			return e.Attr, true
		}
	}
	return "", false
}

// declare handles a class- or module-level assignment: a literal declares
// a variable with that initial value, a list display declares a list.
func (u *unit) declare(s *ast.Assign) {
	for _, target := range s.Targets {
		name, ok := assignedName(target)
		if !ok {
			u.warn(CodeUnsupported, s, "cannot declare a variable from this assignment target")
			continue
		}
		if items, ok := s.Value.(*ast.List); ok {
			l := u.list(name)
			l.Values = l.Values[:0]
			for _, e := range items.Elts {
				v, ok := constValue(e)
				if !ok {
					u.warn(CodeUnsupported, e, "list %s: only literal items can be declared", name)
					continue
				}
				l.Values = append(l.Values, v)
			}
			continue
		}
		init, ok := constValue(s.Value)
		if !ok {
			u.warn(CodeUnsupported, s, "variable %s: initial value must be a literal; using 0", name)
			init = block.Int(0)
		}
		if v := u.target.Variable(name); v != nil {
			v.Value = init
			continue
		}
		u.target.Variables = append(u.target.Variables, &block.Variable{ID: u.dataID(), Name: name, Value: init})
	}
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
