package compiler

import (
	"strconv"
	"strings"

	"github.com/chazu/scratchc/ast"
	"github.com/chazu/scratchc/block"
)

// defaultRepeat is the trip count of a for loop whose count cannot be
// determined.
const defaultRepeat = "10"

// body compiles stmts onto ch. Once the chain is closed by a forever loop
// the remaining statements are dropped with a diagnostic.
func (u *unit) body(ch chain, stmts []ast.Stmt) chain {
	for i, s := range stmts {
		if ch.closed {
			u.warn(CodeUnreachable, s, "%d statement(s) after a forever loop are not linked", len(stmts)-i)
			break
		}
		ch = u.stmt(ch, s)
	}
	return ch
}

// nested compiles stmts as the substack of owner and returns its first
// block, or NoID for an empty body.
func (u *unit) nested(owner *block.Block, stmts []ast.Stmt) block.ID {
	return u.body(substack(owner.ID), stmts).head
}

func (u *unit) stmt(ch chain, s ast.Stmt) chain {
	switch s := s.(type) {
	case *ast.Assign:
		return u.assign(ch, s)
	case *ast.AugAssign:
		return u.augAssign(ch, s)
	case *ast.For:
		return u.forRange(ch, s)
	case *ast.While:
		return u.while(ch, s)
	case *ast.If:
		return u.ifElse(ch, s)
	case *ast.ExprStmt:
		switch v := s.Value.(type) {
		case *ast.Call:
			return u.callStmt(ch, v)
		case *ast.Constant:
			// docstring
			return ch
		}
		u.warn(CodeUnsupported, s, "%s has no effect", kindOf(s.Value))
		return ch
	case *ast.Pass:
		return ch
	case *ast.FunctionDef:
		u.warn(CodeUnsupported, s, "nested function %s is ignored", s.Name)
		return ch
	case *ast.ClassDef:
		u.warn(CodeUnsupported, s, "nested class %s is ignored", s.Name)
		return ch
	case *ast.Unsupported:
		u.warn(CodeUnsupported, s, "%s statement is ignored", s.Kind)
		return ch
	}
	u.warn(CodeUnsupported, s, "unsupported statement")
	return ch
}

// ---------------------------------------------------------------------------
// Assignment
// ---------------------------------------------------------------------------

func (u *unit) assign(ch chain, s *ast.Assign) chain {
	for _, target := range s.Targets {
		name, ok := assignedName(target)
		if !ok {
			u.warn(CodeUnsupported, s, "cannot assign to %s", kindOf(target))
			continue
		}
		if items, ok := s.Value.(*ast.List); ok {
			ch = u.fillList(ch, name, items)
			continue
		}
		init, ok := constValue(s.Value)
		if !ok {
			init = block.Int(0)
		}
		v := u.variable(name, init)
		var b *block.Block
		b, ch = u.stack(ch, "data_setvariableto")
		b.Fields["VARIABLE"] = block.Field{Value: v.Name, Ref: v.ID}
		u.attach(b, block.Slot("VALUE"), u.value(s.Value))
	}
	return ch
}

// fillList compiles name = [a, b] inside a script: empty the list, then
// add each item.
func (u *unit) fillList(ch chain, name string, items *ast.List) chain {
	l := u.list(name)
	field := block.Field{Value: l.Name, Ref: l.ID}
	var b *block.Block
	b, ch = u.stack(ch, "data_deletealloflist")
	b.Fields["LIST"] = field
	for _, e := range items.Elts {
		b, ch = u.stack(ch, "data_addtolist")
		b.Fields["LIST"] = field
		u.attach(b, block.Slot("ITEM"), u.value(e))
	}
	return ch
}

// augAssign compiles += and -=. x -= v changes x by -v: a literal is
// negated in place, anything else is wrapped in 0 - v.
func (u *unit) augAssign(ch chain, s *ast.AugAssign) chain {
	if s.Op != ast.Add && s.Op != ast.Sub {
		u.warn(CodeAugOp, s, "augmented operator %s= has no block and is ignored", s.Op)
		return ch
	}
	name, ok := assignedName(s.Target)
	if !ok {
		u.warn(CodeUnsupported, s, "cannot assign to %s", kindOf(s.Target))
		return ch
	}
	v := u.variable(name, block.Int(0))
	var b *block.Block
	b, ch = u.stack(ch, "data_changevariableby")
	b.Fields["VARIABLE"] = block.Field{Value: v.Name, Ref: v.ID}

	delta := u.value(s.Value)
	if s.Op == ast.Sub {
		if lit, ok := delta.literalText(); ok && delta.lit.Type.IsNumeric() {
			delta = number(negate(lit))
		} else {
			delta = u.binary("operator_subtract", number("0"), delta)
		}
	}
	u.attach(b, block.Slot("VALUE"), delta)
	return ch
}

// negate flips the sign of a numeric literal. Zero has no sign.
func negate(lit string) string {
	if f, err := strconv.ParseFloat(lit, 64); err == nil && f == 0 {
		return "0"
	}
	if rest, ok := strings.CutPrefix(lit, "-"); ok {
		return rest
	}
	return "-" + lit
}

// ---------------------------------------------------------------------------
// Control flow
// ---------------------------------------------------------------------------

// forRange compiles for i in range(n) into a fixed repeat of n. The loop
// variable has no block equivalent and is not bound.
func (u *unit) forRange(ch chain, s *ast.For) chain {
	var b *block.Block
	b, ch = u.stack(ch, "control_repeat")

	times := number(defaultRepeat)
	if call, ok := s.Iter.(*ast.Call); ok && ast.CallName(call) == "range" {
		if len(call.Args) > 0 {
			times = u.value(call.Args[0])
		}
	} else {
		u.warn(CodeIterable, s, "for loop over %s repeats %s times", kindOf(s.Iter), defaultRepeat)
	}
	u.attach(b, block.Slot("TIMES"), times)
	u.attachBlock(b, "SUBSTACK", u.nested(b, s.Body))
	return ch
}

// while compiles while True into a forever loop, which closes the chain,
// and while cond into repeat-until cond. The condition is not negated.
// Only the literal True makes a forever loop; while 1 is a condition.
func (u *unit) while(ch chain, s *ast.While) chain {
	if c, ok := s.Test.(*ast.Constant); ok && c.Kind == ast.ConstBool && c.Bool {
		var b *block.Block
		b, ch = u.stack(ch, "control_forever")
		u.attachBlock(b, "SUBSTACK", u.nested(b, s.Body))
		ch.closed = true
		return ch
	}
	var b *block.Block
	b, ch = u.stack(ch, "control_repeat_until")
	u.attachBlock(b, "CONDITION", u.condition(s.Test))
	u.attachBlock(b, "SUBSTACK", u.nested(b, s.Body))
	return ch
}

// ifElse compiles if and if/else; an elif arrives as an If in Orelse and
// nests naturally.
func (u *unit) ifElse(ch chain, s *ast.If) chain {
	opcode := "control_if"
	if len(s.Orelse) > 0 {
		opcode = "control_if_else"
	}
	var b *block.Block
	b, ch = u.stack(ch, opcode)
	u.attachBlock(b, "CONDITION", u.condition(s.Test))
	u.attachBlock(b, "SUBSTACK", u.nested(b, s.Body))
	if len(s.Orelse) > 0 {
		u.attachBlock(b, "SUBSTACK2", u.nested(b, s.Orelse))
	}
	return ch
}
