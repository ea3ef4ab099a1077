package ast

import "testing"

const catJSON = `{
  "_type": "Module",
  "body": [
    {"_type": "ImportFrom", "module": "scratch.dsl", "lineno": 1},
    {"_type": "ClassDef", "name": "Cat", "bases": [], "lineno": 3, "col_offset": 0,
     "body": [
      {"_type": "FunctionDef", "name": "when_flag_clicked", "lineno": 4,
       "args": {"_type": "arguments", "args": [{"_type": "arg", "arg": "self"}]},
       "body": [
        {"_type": "Expr", "value": {"_type": "Call",
          "func": {"_type": "Name", "id": "say"},
          "args": [{"_type": "Constant", "value": "Hi"}]}},
        {"_type": "For", "target": {"_type": "Name", "id": "i"},
         "iter": {"_type": "Call", "func": {"_type": "Name", "id": "range"},
                  "args": [{"_type": "Constant", "value": 5}]},
         "body": [{"_type": "Expr", "value": {"_type": "Call",
           "func": {"_type": "Name", "id": "move"},
           "args": [{"_type": "Constant", "value": 2.5}]}}]},
        {"_type": "If", "test": {"_type": "Compare",
           "left": {"_type": "Name", "id": "x"},
           "ops": [{"_type": "GtE"}],
           "comparators": [{"_type": "Constant", "value": 3}]},
         "body": [{"_type": "Pass"}], "orelse": []}
       ]},
      {"_type": "FunctionDef", "name": "jump", "lineno": 12,
       "args": {"_type": "arguments", "args": [{"_type": "arg", "arg": "self"}, {"_type": "arg", "arg": "height"}]},
       "body": [{"_type": "Pass"}]}
     ]}
  ]
}`

func TestDecodeModule(t *testing.T) {
	mod, err := Decode([]byte(catJSON))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(mod.Body) != 2 {
		t.Fatalf("module body = %d statements, want 2", len(mod.Body))
	}
	if u, ok := mod.Body[0].(*Unsupported); !ok || u.Kind != "ImportFrom" {
		t.Errorf("first statement = %#v, want Unsupported ImportFrom", mod.Body[0])
	}

	cls, ok := mod.Body[1].(*ClassDef)
	if !ok {
		t.Fatalf("second statement = %T, want *ClassDef", mod.Body[1])
	}
	if cls.Name != "Cat" || cls.Span().Start.Line != 3 {
		t.Errorf("class = %q at line %d", cls.Name, cls.Span().Start.Line)
	}

	hat := cls.Body[0].(*FunctionDef)
	if len(hat.Params) != 0 {
		t.Errorf("hat params = %v, want none (self stripped)", hat.Params)
	}
	say := hat.Body[0].(*ExprStmt).Value.(*Call)
	if CallName(say) != "say" {
		t.Errorf("call name = %q, want say", CallName(say))
	}
	if c := say.Args[0].(*Constant); c.Kind != ConstString || c.Str != "Hi" {
		t.Errorf("say arg = %#v", c)
	}

	loop := hat.Body[1].(*For)
	if n := loop.Iter.(*Call).Args[0].(*Constant); n.Kind != ConstInt || n.Int != 5 {
		t.Errorf("range arg = %#v, want int 5", n)
	}
	if f := loop.Body[0].(*ExprStmt).Value.(*Call).Args[0].(*Constant); f.Kind != ConstFloat || f.Float != 2.5 {
		t.Errorf("move arg = %#v, want float 2.5", f)
	}

	cond := hat.Body[2].(*If).Test.(*Compare)
	if cond.Ops[0] != GtE {
		t.Errorf("compare op = %v, want >=", cond.Ops[0])
	}

	jump := cls.Body[1].(*FunctionDef)
	if len(jump.Params) != 1 || jump.Params[0] != "height" {
		t.Errorf("jump params = %v, want [height]", jump.Params)
	}
}

func TestDecodeRejectsNonModule(t *testing.T) {
	if _, err := Decode([]byte(`{"_type": "Expr"}`)); err == nil {
		t.Error("expected error for non-Module root")
	}
	if _, err := Decode([]byte(`not json`)); err == nil {
		t.Error("expected error for malformed input")
	}
}

func TestDecodeUnknownComparisonIsUnsupported(t *testing.T) {
	src := `{"_type": "Module", "body": [{"_type": "Expr", "value": {"_type": "Compare",
	  "left": {"_type": "Name", "id": "a"}, "ops": [{"_type": "In"}],
	  "comparators": [{"_type": "Name", "id": "b"}]}}]}`
	mod, err := Decode([]byte(src))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if _, ok := mod.Body[0].(*ExprStmt).Value.(*Unsupported); !ok {
		t.Errorf("`a in b` = %T, want *Unsupported", mod.Body[0].(*ExprStmt).Value)
	}
}
