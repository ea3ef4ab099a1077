package compiler

import (
	"strings"

	"github.com/chazu/scratchc/ast"
	"github.com/chazu/scratchc/block"
	"github.com/chazu/scratchc/primitives"
)

// compileClass fills the unit's target from one class body.
func (u *unit) compileClass(cls *ast.ClassDef) {
	var methods []*ast.FunctionDef
	for _, s := range cls.Body {
		switch s := s.(type) {
		case *ast.FunctionDef:
			methods = append(methods, s)
		case *ast.Assign:
			u.declare(s)
		case *ast.Pass:
		case *ast.ExprStmt:
			if _, doc := s.Value.(*ast.Constant); !doc {
				u.warn(CodeUnsupported, s, "class-level expression is ignored")
			}
		default:
			u.warn(CodeUnsupported, s, "class-level %s is ignored", kindOf(s))
		}
	}

	sigs := u.register(methods)
	u.procs = sigs.table

	for _, m := range methods {
		u.method = m.Name
		switch {
		case m.Name == "__init__":
			u.initializer(m)
		case isDunder(m.Name):
			u.warn(CodeUnsupported, m, "method %s is ignored", m.Name)
		case strings.HasPrefix(m.Name, "when_"):
			h, ok := primitives.ParseHat(m.Name)
			if !ok {
				u.warn(CodeUnknownHat, m, "%s names no event; method is ignored", m.Name)
				continue
			}
			u.compileHat(m, h)
		default:
			if p, ok := sigs.defs[m]; ok {
				u.define(m, p)
			}
		}
	}
	u.method = ""
	u.target.Procedures = sigs.order
}

// initializer treats self.x = literal in __init__ as declarations.
func (u *unit) initializer(m *ast.FunctionDef) {
	for _, s := range m.Body {
		switch s := s.(type) {
		case *ast.Assign:
			u.declare(s)
		case *ast.Pass:
		case *ast.ExprStmt:
			if _, doc := s.Value.(*ast.Constant); doc {
				continue
			}
			u.warn(CodeUnsupported, s, "__init__ may only declare variables")
		default:
			u.warn(CodeUnsupported, s, "__init__ may only declare variables")
		}
	}
}

// compileHat emits the event block for h and compiles the method body
// below it.
func (u *unit) compileHat(m *ast.FunctionDef, h primitives.Hat) {
	if len(m.Params) > 0 {
		u.warn(CodeUnsupported, m, "event method parameters are ignored")
	}
	b := u.hat(h.Opcode(u.stage))
	switch h.Kind {
	case primitives.HatKey:
		b.SetField("KEY_OPTION", h.Arg)
	case primitives.HatBackdrop:
		b.SetField("BACKDROP", h.Arg)
	case primitives.HatBroadcast:
		msg := u.useBroadcast(h.Arg)
		b.Fields["BROADCAST_OPTION"] = block.Field{Value: msg.Name, Ref: msg.ID}
	case primitives.HatLoudness:
		b.SetField("WHENGREATERTHANMENU", "LOUDNESS")
		b.SetInput("VALUE", block.NumberInput(h.Value))
	case primitives.HatTimer:
		b.SetField("WHENGREATERTHANMENU", "TIMER")
		b.SetInput("VALUE", block.NumberInput(h.Value))
	case primitives.HatClone:
		if u.stage {
			u.warn(CodeUnsupported, m, "the stage cannot be cloned; script never runs")
		}
	}
	u.body(script(b), m.Body)
}
