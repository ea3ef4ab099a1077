package compiler

import (
	"strings"

	"github.com/chazu/scratchc/ast"
	"github.com/chazu/scratchc/block"
)

// procTable maps a procedure name to its signature. It is complete before
// any method body is compiled and never modified afterwards, so a call
// may precede the definition it names.
type procTable map[string]*block.Procedure

// signatures is the result of phase 1.
type signatures struct {
	table procTable
	order []*block.Procedure
	defs  map[*ast.FunctionDef]*block.Procedure
}

// procCode returns the signature template: the name followed by one %s
// per parameter.
func procCode(name string, params int) string {
	return name + strings.Repeat(" %s", params)
}

// isProcedure reports whether a method becomes a custom block rather than
// a hat script.
func isProcedure(name string) bool {
	return !strings.HasPrefix(name, "when_") && !isDunder(name)
}

// register is phase 1: every eligible method gets its proc-code, argument
// ids and definition and prototype ids before any body is compiled.
func (u *unit) register(methods []*ast.FunctionDef) signatures {
	sigs := signatures{
		table: make(procTable),
		defs:  make(map[*ast.FunctionDef]*block.Procedure),
	}
	for _, m := range methods {
		if !isProcedure(m.Name) {
			continue
		}
		name := methodName(m.Name)
		if _, dup := sigs.table[name]; dup {
			u.c.warn(CodeUnsupported, u.target.Name, m.Name, m, "procedure %s is already defined; this definition is ignored", name)
			continue
		}
		p := &block.Procedure{
			Name:       name,
			ProcCode:   procCode(name, len(m.Params)),
			ArgNames:   append([]string(nil), m.Params...),
			Definition: u.arena.Alloc(),
			Prototype:  u.arena.Alloc(),
		}
		for range m.Params {
			p.ArgIDs = append(p.ArgIDs, u.arena.Alloc())
			p.ArgDefaults = append(p.ArgDefaults, "")
		}
		sigs.table[name] = p
		sigs.order = append(sigs.order, p)
		sigs.defs[m] = p
	}
	return sigs
}

// define is phase 2 for one procedure: emit the definition hat, its
// prototype and argument reporters under the phase-1 ids, then compile
// the body with the parameters bound.
func (u *unit) define(m *ast.FunctionDef, p *block.Procedure) {
	def := block.New(p.Definition, "procedures_definition", block.Hat)
	def.TopLevel = true
	u.place(def)
	u.graph.Add(def)

	proto := block.New(p.Prototype, "procedures_prototype", block.ShadowMenu)
	proto.Parent = def.ID
	u.graph.Add(proto)
	def.SetInput("custom_block", block.MenuInput(proto.ID))

	for i, arg := range p.ArgIDs {
		r := u.newBlock("argument_reporter_string_number", block.ShadowMenu)
		r.Parent = proto.ID
		r.SetField("VALUE", p.ArgNames[i])
		proto.Inputs[block.ArgSlot(arg)] = block.MenuInput(r.ID)
	}
	proto.Mutation = &block.Mutation{
		ProcCode:         p.ProcCode,
		ArgumentIDs:      p.ArgIDs,
		ArgumentNames:    p.ArgNames,
		ArgumentDefaults: p.ArgDefaults,
		Warp:             p.Warp,
		Prototype:        true,
	}

	u.args = make(map[string]block.ID, len(p.ArgIDs))
	for i, arg := range p.ArgIDs {
		u.args[p.ArgNames[i]] = arg
	}
	u.body(script(def), m.Body)
	u.args = nil
}

// procCall emits procedures_call with one input per argument id.
func (u *unit) procCall(ch chain, c *ast.Call, p *block.Procedure) chain {
	var b *block.Block
	b, ch = u.stack(ch, "procedures_call")
	b.Mutation = &block.Mutation{ProcCode: p.ProcCode, ArgumentIDs: p.ArgIDs, Warp: p.Warp}
	for i, arg := range p.ArgIDs {
		if i >= len(c.Args) {
			break
		}
		u.attach(b, block.ArgSlot(arg), u.value(c.Args[i]))
	}
	if len(c.Args) != len(p.ArgIDs) {
		u.warn(CodeArgument, c, "%s takes %d argument(s), got %d", p.Name, len(p.ArgIDs), len(c.Args))
	}
	return ch
}
