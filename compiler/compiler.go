// Package compiler turns a module of sprite classes into Scratch block
// graphs, one target per class.
//
// Compilation is total: constructs outside the supported subset degrade to
// a no-op or a default literal and are reported as diagnostics instead of
// errors, so a partial program still yields a loadable project.
package compiler

import (
	"fmt"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/chazu/scratchc/ast"
	"github.com/chazu/scratchc/block"
	"github.com/chazu/scratchc/manifest"
)

var log = commonlog.GetLogger("scratchc.compiler")

// DefaultSprite receives hat functions written at module level.
const DefaultSprite = "Sprite1"

// StageClass is the class name whose scripts and variables belong to the
// stage rather than to a new sprite.
const StageClass = "Stage"

// Result is the output of one compilation.
type Result struct {
	// Stage holds global variables and lists, plus the scripts of a
	// class named Stage.
	Stage *block.Target
	// Targets are the sprites in declaration order.
	Targets []*block.Target
	// Broadcasts is every message used anywhere, in first-use order.
	Broadcasts []*block.Broadcast
	// Extensions lists the extension ids the emitted opcodes need.
	Extensions  []string
	Diagnostics []Diagnostic
}

// Compiler holds the state shared by every class of one module: the
// configuration, project-scoped ids (broadcasts and globals) and the
// diagnostics. Per-class state lives in a unit.
type Compiler struct {
	cfg *manifest.Config

	ids        *block.Arena // project scope
	broadcasts []*block.Broadcast
	byMessage  map[string]*block.Broadcast
	extensions []string
	diags      []Diagnostic

	stage *unit
}

// New creates a compiler. A nil cfg means manifest.Default().
func New(cfg *manifest.Config) *Compiler {
	if cfg == nil {
		cfg = manifest.Default()
	}
	c := &Compiler{
		cfg:       cfg,
		ids:       block.NewArena(block.ScopeProject),
		byMessage: make(map[string]*block.Broadcast),
	}
	c.stage = c.newUnit(StageClass, true)
	return c
}

// Compile compiles mod with a fresh Compiler.
func Compile(mod *ast.Module, cfg *manifest.Config) *Result {
	return New(cfg).Compile(mod)
}

// Compile compiles every class of mod into a target.
//
// Module-level assignments declare stage globals before any class is
// compiled. Functions written at module level are gathered into a
// DefaultSprite class placed first.
func (c *Compiler) Compile(mod *ast.Module) *Result {
	var (
		classes   []*ast.ClassDef
		loose     []ast.Stmt
		stageBody []ast.Stmt
	)
	for _, s := range mod.Body {
		switch s := s.(type) {
		case *ast.ClassDef:
			if s.Name == StageClass {
				stageBody = append(stageBody, s.Body...)
				continue
			}
			classes = append(classes, s)
		case *ast.FunctionDef:
			loose = append(loose, s)
		case *ast.Assign:
			c.stage.declare(s)
		case *ast.Pass:
		case *ast.ExprStmt:
			if _, doc := s.Value.(*ast.Constant); !doc {
				c.warn(CodeTopLevel, "", "", s, "module-level expression is ignored")
			}
		case *ast.Unsupported:
			if s.Kind != "Import" && s.Kind != "ImportFrom" {
				c.warn(CodeTopLevel, "", "", s, "module-level %s is ignored", s.Kind)
			}
		default:
			c.warn(CodeTopLevel, "", "", s, "module-level statement is ignored")
		}
	}
	if len(loose) > 0 {
		classes = append([]*ast.ClassDef{{Name: DefaultSprite, Body: loose}}, classes...)
	}

	if len(stageBody) > 0 {
		c.stage.compileClass(&ast.ClassDef{Name: StageClass, Body: stageBody})
	}

	res := &Result{Stage: c.stage.finish()}
	for _, cls := range classes {
		u := c.newUnit(cls.Name, false)
		u.compileClass(cls)
		res.Targets = append(res.Targets, u.finish())
		log.Debugf("compiled %s: %d blocks", cls.Name, u.graph.Len())
	}
	res.Broadcasts = c.broadcasts
	res.Extensions = c.extensions
	res.Diagnostics = c.diags
	return res
}

// warn records a diagnostic and logs it unless warnings are quiet.
func (c *Compiler) warn(code Code, sprite, method string, at ast.Node, format string, args ...any) {
	d := Diagnostic{Code: code, Sprite: sprite, Method: method, Message: fmt.Sprintf(format, args...)}
	if at != nil {
		d.Span = at.Span()
	}
	c.diags = append(c.diags, d)
	if !c.cfg.Warnings.Quiet {
		log.Warning(d.String())
	}
}

// broadcast returns the project-wide broadcast for message, creating it on
// first use.
func (c *Compiler) broadcast(message string) *block.Broadcast {
	if b, ok := c.byMessage[message]; ok {
		return b
	}
	b := &block.Broadcast{ID: c.ids.Alloc(), Name: message}
	c.byMessage[message] = b
	c.broadcasts = append(c.broadcasts, b)
	return b
}

func (c *Compiler) useExtension(id string) {
	for _, e := range c.extensions {
		if e == id {
			return
		}
	}
	c.extensions = append(c.extensions, id)
}

// methodName strips the define_ prefix procedures may be written with.
func methodName(name string) string {
	if rest, ok := strings.CutPrefix(name, "define_"); ok && rest != "" {
		return rest
	}
	return name
}

func isDunder(name string) bool {
	return len(name) > 4 && strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__")
}
