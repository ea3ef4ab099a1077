package fingerprint

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/chazu/scratchc/ast"
	"github.com/chazu/scratchc/block"
	"github.com/chazu/scratchc/compiler"
	"github.com/chazu/scratchc/manifest"
	"github.com/chazu/scratchc/project"
)

func TestTagUniqueness(t *testing.T) {
	seen := make(map[byte]bool, len(allTags))
	for _, tag := range allTags {
		if seen[tag] {
			t.Errorf("duplicate tag: 0x%02X", tag)
		}
		seen[tag] = true
	}
}

func TestVersionNonZero(t *testing.T) {
	if Version == 0 {
		t.Error("Version must be non-zero")
	}
}

func quiet() *manifest.Config {
	c := manifest.Default()
	c.Warnings.Quiet = true
	return c
}

// game builds a sprite with a loop, a condition, a procedure and data.
func game(steps int64) *ast.Module {
	return ast.Mod(
		ast.Set("score", ast.Int(0)),
		ast.Class("Cat",
			ast.Set("lives", ast.Int(3)),
			ast.Def("when_flag_clicked", nil,
				ast.Range(ast.Int(10),
					ast.Do(ast.Fn("move", ast.Int(steps))),
					ast.When(ast.Fn("touching", ast.Str("edge")),
						ast.Do(ast.SelfCall("bounce", ast.Int(2)))),
				),
				ast.Inc("score", ast.Add, ast.Int(1)),
			),
			ast.Def("bounce", []string{"times"},
				ast.Do(ast.Fn("turn_right", ast.Bin(ast.Ident("times"), ast.Mult, ast.Int(90)))),
				ast.Do(ast.Fn("stop", ast.Str("this script"))),
			),
			ast.Def("when_key_space", nil, ast.Do(ast.Fn("say", ast.Str("jump")))),
		),
	)
}

func compileTarget(t *testing.T, mod *ast.Module, cfg *manifest.Config) *block.Target {
	t.Helper()
	res := compiler.Compile(mod, cfg)
	if len(res.Targets) != 1 {
		t.Fatalf("got %d targets, want 1", len(res.Targets))
	}
	return res.Targets[0]
}

func sum(t *testing.T, tg *block.Target) Sum {
	t.Helper()
	s, err := Target(tg)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSameSourceSameFingerprint(t *testing.T) {
	a := sum(t, compileTarget(t, game(10), quiet()))
	b := sum(t, compileTarget(t, game(10), quiet()))
	if a != b {
		t.Errorf("two compilations differ: %s vs %s", a, b)
	}
	var zero Sum
	if a == zero {
		t.Error("fingerprint should be non-zero")
	}
}

func TestOneLiteralChangesFingerprint(t *testing.T) {
	a := sum(t, compileTarget(t, game(10), quiet()))
	b := sum(t, compileTarget(t, game(11), quiet()))
	if a == b {
		t.Error("changing move(10) to move(11) should change the fingerprint")
	}
}

func TestIndependentOfIDStyle(t *testing.T) {
	cfg := quiet()
	cfg.IDs.Style = string(block.StyleUUID)
	res := compiler.Compile(game(10), cfg)
	p := project.Assemble(res, cfg, nil).Project
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := block.UnmarshalProject(data)
	if err != nil {
		t.Fatal(err)
	}
	want := sum(t, compileTarget(t, game(10), quiet()))
	if got := sum(t, decoded.Sprites()[0]); got != want {
		t.Errorf("decoded uuid-style project fingerprints %s, want %s", got.Short(), want.Short())
	}
}

func TestScriptOrderIgnored(t *testing.T) {
	first := ast.Def("when_flag_clicked", nil, ast.Do(ast.Fn("show")))
	second := ast.Def("when_clicked", nil, ast.Do(ast.Fn("hide")))
	a := sum(t, compileTarget(t, ast.Mod(ast.Class("Cat", first, second)), quiet()))
	b := sum(t, compileTarget(t, ast.Mod(ast.Class("Cat", second, first)), quiet()))
	if a != b {
		t.Error("reordering methods should not change the fingerprint")
	}
}

func TestDataIsCovered(t *testing.T) {
	script := ast.Def("when_flag_clicked", nil, ast.Do(ast.Fn("show")))
	a := sum(t, compileTarget(t, ast.Mod(ast.Class("Cat", ast.Set("hp", ast.Int(3)), script)), quiet()))
	b := sum(t, compileTarget(t, ast.Mod(ast.Class("Cat", ast.Set("hp", ast.Int(4)), script)), quiet()))
	if a == b {
		t.Error("a different initial value should change the fingerprint")
	}
}

func TestScriptFingerprint(t *testing.T) {
	tg := compileTarget(t, game(10), quiet())
	tops := tg.Blocks.TopLevel()
	if len(tops) != 3 {
		t.Fatalf("got %d scripts, want 3", len(tops))
	}
	seen := make(map[Sum]bool)
	for _, top := range tops {
		s, err := Script(tg, top)
		if err != nil {
			t.Fatal(err)
		}
		if seen[s] {
			t.Errorf("scripts share fingerprint %s", s.Short())
		}
		seen[s] = true
	}
}

func TestChanged(t *testing.T) {
	build := func(steps int64) *block.Project {
		res := compiler.Compile(ast.Mod(
			ast.Class("Cat", ast.Def("when_flag_clicked", nil, ast.Do(ast.Fn("move", ast.Int(steps))))),
			ast.Class("Dog", ast.Def("when_flag_clicked", nil, ast.Do(ast.Fn("show")))),
		), quiet())
		return project.Assemble(res, quiet(), nil).Project
	}
	changed, err := Changed(build(10), build(20))
	if err != nil {
		t.Fatal(err)
	}
	if len(changed) != 1 || changed[0] != "Cat" {
		t.Errorf("changed = %v, want [Cat]", changed)
	}
}

func TestRejectsSharedBlocks(t *testing.T) {
	tg := block.NewTarget("Cat")
	a := block.NewArena(block.ScopeTarget)
	hat := block.New(a.Alloc(), "event_whenflagclicked", block.Hat)
	hat.TopLevel = true
	say := block.New(a.Alloc(), "looks_say", block.Stack)
	say.Parent = hat.ID
	hat.Next = say.ID
	r := block.New(a.Alloc(), "motion_xposition", block.Reporter)
	r.Parent = say.ID
	say.SetInput("MESSAGE", block.BlockInput(r.ID))
	say.SetInput("OTHER", block.BlockInput(r.ID))
	for _, b := range []*block.Block{hat, say, r} {
		tg.Blocks.Add(b)
	}
	if _, err := Target(tg); !errors.Is(err, block.ErrInvalidProject) {
		t.Errorf("err = %v, want ErrInvalidProject", err)
	}
}
