package decompiler

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/chazu/scratchc/ast"
	"github.com/chazu/scratchc/block"
	"github.com/chazu/scratchc/compiler"
	"github.com/chazu/scratchc/manifest"
	"github.com/chazu/scratchc/project"
)

func quiet() *manifest.Config {
	c := manifest.Default()
	c.Warnings.Quiet = true
	return c
}

func assemble(body ...ast.Stmt) *block.Project {
	res := compiler.Compile(ast.Mod(body...), quiet())
	return project.Assemble(res, quiet(), nil).Project
}

func decompile(t *testing.T, p *block.Project) string {
	t.Helper()
	src, err := Decompile(p)
	if err != nil {
		t.Fatal(err)
	}
	return src
}

func flag(stmts ...ast.Stmt) *ast.ClassDef {
	return ast.Class("Cat", ast.Def("when_flag_clicked", nil, stmts...))
}

func wantLines(t *testing.T, src string, lines ...string) {
	t.Helper()
	have := make(map[string]bool)
	for _, l := range strings.Split(src, "\n") {
		have[l] = true
	}
	for _, l := range lines {
		if !have[l] {
			t.Errorf("missing line %q in:\n%s", l, src)
		}
	}
}

// ---------------------------------------------------------------------------
// Projects
// ---------------------------------------------------------------------------

func TestDecompileCat(t *testing.T) {
	p := assemble(flag(
		ast.Do(ast.Fn("say", ast.Str("Hi"))),
		ast.Do(ast.Fn("move", ast.Int(10))),
	))
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := block.UnmarshalProject(data)
	if err != nil {
		t.Fatal(err)
	}

	want := `"""
Scratch project converted to Python
"""

from scratch.dsl import *

class Cat:
    def when_flag_clicked(self):
        say("Hi")
        move(10)
`
	if got := decompile(t, decoded); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRejectsInvalidProject(t *testing.T) {
	if _, err := Decompile(nil); !errors.Is(err, block.ErrInvalidProject) {
		t.Errorf("nil project: err = %v", err)
	}

	const hat = `"h": {"opcode": "event_whenflagclicked", "next": "s", "parent": null, "topLevel": true},`
	tests := []struct {
		name   string
		blocks string
	}{
		{"dangling next", `"h": {"opcode": "event_whenflagclicked", "next": "ghost", "parent": null, "topLevel": true}`},
		{"dangling parent", `"m": {"opcode": "motion_movesteps", "next": null, "parent": "ghost", "topLevel": false}`},
		{"dangling input", hat + `
			"s": {"opcode": "looks_say", "next": null, "parent": "h", "topLevel": false,
			      "inputs": {"MESSAGE": [3, "ghost", [10, "hi"]]}}`},
		{"reporter feeds itself", hat + `
			"s": {"opcode": "looks_say", "next": null, "parent": "h", "topLevel": false,
			      "inputs": {"MESSAGE": [3, "r", [10, ""]]}},
			"r": {"opcode": "operator_add", "next": null, "parent": "s", "topLevel": false,
			      "inputs": {"NUM1": [3, "r", [4, "0"]], "NUM2": [1, [4, "1"]]}}`},
		{"substack holds its own loop", hat + `
			"s": {"opcode": "control_forever", "next": null, "parent": "h", "topLevel": false,
			      "inputs": {"SUBSTACK": [2, "s"]}}`},
		{"substack holds the hat", hat + `
			"s": {"opcode": "control_forever", "next": null, "parent": "h", "topLevel": false,
			      "inputs": {"SUBSTACK": [2, "h"]}}`},
		{"input parent disagrees", hat + `
			"s": {"opcode": "looks_say", "next": null, "parent": "h", "topLevel": false,
			      "inputs": {"MESSAGE": [3, "r", [10, ""]]}},
			"r": {"opcode": "motion_xposition", "next": null, "parent": "h", "topLevel": false}`},
		{"parents loop", `
			"a": {"opcode": "motion_movesteps", "next": "b", "parent": "b", "topLevel": false},
			"b": {"opcode": "motion_movesteps", "next": null, "parent": "a", "topLevel": false}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := `{"targets": [{"isStage": true, "name": "Stage", "blocks": {` + tt.blocks + `}}]}`
			p, err := block.UnmarshalProject([]byte(src))
			if err != nil {
				t.Fatalf("UnmarshalProject failed: %v", err)
			}
			if _, err := Decompile(p); !errors.Is(err, block.ErrInvalidProject) {
				t.Errorf("Decompile = %v, want ErrInvalidProject", err)
			}
		})
	}
}

func TestControlFlow(t *testing.T) {
	src := decompile(t, assemble(flag(
		ast.Range(ast.Int(3), ast.Do(ast.Fn("turn_right", ast.Int(15)))),
		&ast.If{
			Test:   ast.Fn("mouse_down"),
			Body:   []ast.Stmt{ast.Do(ast.Fn("show"))},
			Orelse: []ast.Stmt{ast.Do(ast.Fn("hide"))},
		},
		ast.Loop(ast.Bool(true), ast.Do(ast.Fn("next_costume"))),
	)))
	wantLines(t, src,
		"        for i in range(3):",
		"            turn_right(15)",
		"        if mouse_down():",
		"            show()",
		"        else:",
		"            hide()",
		"        while True:",
		"            next_costume()",
	)
}

func TestConditions(t *testing.T) {
	src := decompile(t, assemble(
		ast.Class("Cat",
			ast.Set("x", ast.Int(0)),
			ast.Def("when_flag_clicked", nil,
				ast.When(ast.AndOf(ast.Fn("mouse_down"), ast.Fn("touching", ast.Str("edge"))),
					ast.Do(ast.Fn("show"))),
				ast.When(ast.NotOf(ast.Cmp(ast.Ident("x"), ast.Eq, ast.Int(5))),
					ast.Do(ast.Fn("hide"))),
				ast.Loop(ast.Cmp(ast.Ident("x"), ast.Gt, ast.Int(3)),
					ast.Inc("x", ast.Sub, ast.Int(1))),
			),
		),
	))
	wantLines(t, src,
		`        if (mouse_down() and touching("edge")):`,
		"        if not x == 5:",
		"        while not (x > 3):",
		"            x += -1",
	)
}

func TestPredicatesInValues(t *testing.T) {
	src := decompile(t, assemble(flag(
		ast.Set("x", ast.Bin(ast.Cmp(ast.Ident("a"), ast.Eq, ast.Ident("b")), ast.Add, ast.Int(1))),
		ast.Set("y", ast.NotOf(ast.Cmp(ast.Ident("a"), ast.Lt, ast.Int(2)))),
		ast.Do(ast.Fn("say", ast.Cmp(ast.Ident("a"), ast.Gt, ast.Int(0)))),
		ast.When(ast.Cmp(ast.Bin(ast.Ident("a"), ast.Add, ast.Int(1)), ast.Eq, ast.Ident("b")),
			ast.Do(ast.Fn("show"))),
	)))
	wantLines(t, src,
		"        x = ((a == b) + 1)",
		"        y = (not a < 2)",
		"        say((a > 0))",
		"        if (a + 1) == b:",
	)
}

func TestVariablesAndLists(t *testing.T) {
	src := decompile(t, assemble(
		ast.Set("level", ast.Int(1)),
		ast.Class("Player",
			ast.Set("score", ast.Int(0)),
			ast.Set("name", ast.Str("hero")),
			&ast.Assign{Targets: []ast.Expr{ast.Ident("items")}, Value: ast.Items(ast.Str("a"), ast.Int(2))},
			ast.Def("when_flag_clicked", nil,
				ast.Set("score", ast.Bin(ast.Ident("score"), ast.Mult, ast.Ident("level"))),
				ast.Inc("score", ast.Add, ast.Int(2)),
				ast.Do(ast.Fn("add_to_list", ast.Ident("score"), ast.Str("items"))),
				ast.Do(ast.Fn("say", ast.Fn("item_of_list", ast.Int(1), ast.Str("items")))),
			),
		),
	))
	if !strings.Contains(src, "\n# Global variables\nlevel = 1\n") {
		t.Errorf("globals missing:\n%s", src)
	}
	wantLines(t, src,
		"class Player:",
		"    score = 0",
		`    name = "hero"`,
		`    items = ["a", 2]`,
		"        score = (score * level)",
		"        score += 2",
		`        add_to_list(score, "items")`,
		`        say(item_of_list(1, "items"))`,
	)
	if strings.Contains(src, "class Stage") {
		t.Error("a stage without scripts is not rendered as a class")
	}
}

func TestPrimitiveShapes(t *testing.T) {
	src := decompile(t, assemble(flag(
		ast.Do(ast.Fn("go_to", ast.Str("mouse"))),
		ast.Do(ast.Fn("glide_to", ast.Int(1), ast.Str("random"))),
		ast.Do(ast.Fn("change_effect", ast.Str("color"), ast.Int(25))),
		ast.Do(ast.Fn("say", ast.Fn("costume_name"))),
		ast.Do(ast.Fn("think", ast.Fn("sqrt", ast.Int(16)))),
		ast.Do(ast.Fn("set_rotation_style", ast.Str("left-right"))),
		ast.Do(ast.Fn("broadcast", ast.Str("go"))),
		ast.Do(ast.Fn("play_sound", ast.Str("Meow"))),
		ast.Do(ast.Fn("wait_until", ast.Fn("key_pressed", ast.Str("up")))),
		ast.Do(ast.Fn("say", ast.Fn("property_of", ast.Str("x position"), ast.Str("Dog")))),
		ast.Do(ast.Fn("say", ast.Fn("join", ast.Str("a"), ast.Fn("pick_random", ast.Int(1), ast.Int(6))))),
	)))
	wantLines(t, src,
		`        go_to("mouse")`,
		`        glide_to(1, "random")`,
		`        change_effect("color", 25)`,
		"        say(costume_name())",
		"        think(sqrt(16))",
		`        set_rotation_style("left-right")`,
		`        broadcast("go")`,
		`        play_sound("Meow")`,
		`        wait_until(key_pressed("up"))`,
		`        say(property_of("x position", "Dog"))`,
		`        say(join("a", pick_random(1, 6)))`,
	)
}

func TestHatMethods(t *testing.T) {
	src := decompile(t, assemble(ast.Class("Cat",
		ast.Def("when_key_space", nil, ast.Do(ast.Fn("show"))),
		ast.Def("when_broadcast_start", nil, ast.Do(ast.Fn("hide"))),
		ast.Def("when_timer_gt_2_5", nil, ast.Do(ast.Fn("show"))),
	)))
	wantLines(t, src,
		"    def when_key_space(self):",
		"    def when_broadcast_start(self):",
		"    def when_timer_gt_2_5(self):",
	)
}

func TestProcedures(t *testing.T) {
	src := decompile(t, assemble(ast.Class("Cat",
		ast.Def("when_flag_clicked", nil, ast.Do(ast.SelfCall("jump", ast.Int(10)))),
		ast.Def("jump", []string{"height"}, ast.Do(ast.Fn("change_y", ast.Ident("height")))),
	)))
	wantLines(t, src,
		"        self.jump(10)",
		"    def jump(self, height):",
		"        change_y(height)",
	)
}

func TestStageScripts(t *testing.T) {
	src := decompile(t, assemble(ast.Class("Stage",
		ast.Def("when_flag_clicked", nil, ast.Do(ast.Fn("next_backdrop"))),
	)))
	wantLines(t, src,
		"class Stage:",
		"    def when_flag_clicked(self):",
		"        next_backdrop()",
	)
}

// ---------------------------------------------------------------------------
// Hand-built graphs
// ---------------------------------------------------------------------------

type graphBuilder struct {
	t     *block.Target
	arena *block.Arena
}

func newGraph(name string) *graphBuilder {
	return &graphBuilder{t: block.NewTarget(name), arena: block.NewArena(block.ScopeTarget)}
}

func (g *graphBuilder) add(opcode string, kind block.Kind, parent *block.Block) *block.Block {
	b := block.New(g.arena.Alloc(), opcode, kind)
	if parent != nil {
		b.Parent = parent.ID
	} else {
		b.TopLevel = true
	}
	g.t.Blocks.Add(b)
	return b
}

func TestUnknownOpcodesStayVisible(t *testing.T) {
	g := newGraph("Pen")
	hat := g.add("event_whenflagclicked", block.Hat, nil)
	pen := g.add("pen_penDown", block.Stack, hat)
	hat.Next = pen.ID
	say := g.add("looks_say", block.Stack, pen)
	pen.Next = say.ID
	rep := g.add("videoSensing_videoOn", block.Reporter, say)
	say.SetInput("MESSAGE", block.ObscuredInput(rep.ID, "0"))

	src := DecompileTarget(g.t)
	wantLines(t, src,
		"        # Unknown: pen_penDown",
		`        say(unknown("videoSensing_videoOn"))`,
	)
}

func TestUnknownOnlyBodyKeepsPass(t *testing.T) {
	g := newGraph("Pen")
	hat := g.add("event_whenflagclicked", block.Hat, nil)
	cond := g.add("control_if", block.Stack, hat)
	hat.Next = cond.ID
	down := g.add("pen_penDown", block.Stack, cond)
	cond.SetInput("SUBSTACK", block.BlockInput(down.ID))
	clicked := g.add("event_whenthisspriteclicked", block.Hat, nil)
	up := g.add("pen_penUp", block.Stack, clicked)
	clicked.Next = up.ID

	src := DecompileTarget(g.t)
	want := `class Pen:
    def when_flag_clicked(self):
        if False:
            # Unknown: pen_penDown
            pass

    def when_clicked(self):
        # Unknown: pen_penUp
        pass
`
	if src != want {
		t.Errorf("got:\n%s\nwant:\n%s", src, want)
	}
}

func TestEmptySlots(t *testing.T) {
	g := newGraph("Cat")
	hat := g.add("event_whenflagclicked", block.Hat, nil)
	cond := g.add("control_if", block.Stack, hat)
	hat.Next = cond.ID
	move := g.add("motion_movesteps", block.Stack, cond)
	cond.Next = move.ID
	g.add("event_whenthisspriteclicked", block.Hat, nil)

	src := DecompileTarget(g.t)
	want := `class Cat:
    def when_flag_clicked(self):
        if False:
            pass
        move(0)

    def when_clicked(self):
        pass
`
	if src != want {
		t.Errorf("got:\n%s\nwant:\n%s", src, want)
	}
}

func TestEmptyTarget(t *testing.T) {
	if got := DecompileTarget(block.NewTarget("Ghost")); got != "class Ghost:\n    pass\n" {
		t.Errorf("got %q", got)
	}
}

func TestFormatting(t *testing.T) {
	tests := []struct {
		in   block.Value
		want string
	}{
		{block.Int(7), "7"},
		{block.Float(2.5), "2.5"},
		{block.String("007"), "7"},
		{block.String("1.50"), "1.50"},
		{block.String("hello"), `"hello"`},
		{block.String(`say "hi"`), `"say \"hi\""`},
		{block.Bool(true), "True"},
	}
	for _, tt := range tests {
		if got := formatValue(tt.in); got != tt.want {
			t.Errorf("formatValue(%+v) = %s, want %s", tt.in, got, tt.want)
		}
	}
	if got := formatList([]block.Value{block.Int(1), block.String("b")}); got != `[1, "b"]` {
		t.Errorf("formatList = %s", got)
	}
	lit := &block.Literal{Type: block.MathNumber, Value: "abc"}
	if got := formatLiteral(lit); got != `"abc"` {
		t.Errorf("non-numeric number literal = %s", got)
	}
}
