package ast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// JSON front-end adapter
//
// The expected input is Python's ast module dumped as JSON, one object per
// node with a "_type" discriminator and the grammar's field names:
//
//	{"_type": "Module", "body": [{"_type": "ClassDef", "name": "Cat", ...}]}
//
// Positions come from lineno/col_offset/end_lineno/end_col_offset.
// ---------------------------------------------------------------------------

// Decode parses a JSON-encoded Python AST into a Module.
func Decode(data []byte) (*Module, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("ast: decode: %w", err)
	}
	obj, ok := root.(map[string]any)
	if !ok || typeOf(obj) != "Module" {
		return nil, fmt.Errorf("ast: decode: root is not a Module")
	}
	d := &decoder{}
	mod := &Module{SpanVal: spanOf(obj), Body: d.stmts(obj["body"])}
	if d.err != nil {
		return nil, d.err
	}
	return mod, nil
}

type decoder struct {
	err error
}

func (d *decoder) fail(format string, args ...any) {
	if d.err == nil {
		d.err = fmt.Errorf("ast: decode: "+format, args...)
	}
}

func typeOf(obj map[string]any) string {
	s, _ := obj["_type"].(string)
	return s
}

func spanOf(obj map[string]any) Span {
	num := func(key string) int {
		if n, ok := obj[key].(json.Number); ok {
			v, _ := n.Int64()
			return int(v)
		}
		return 0
	}
	return Span{
		Start: Position{Line: num("lineno"), Column: num("col_offset")},
		End:   Position{Line: num("end_lineno"), Column: num("end_col_offset")},
	}
}

func str(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

func (d *decoder) stmts(v any) []Stmt {
	list, _ := v.([]any)
	out := make([]Stmt, 0, len(list))
	for _, item := range list {
		if s := d.stmt(item); s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (d *decoder) exprs(v any) []Expr {
	list, _ := v.([]any)
	out := make([]Expr, 0, len(list))
	for _, item := range list {
		out = append(out, d.expr(item))
	}
	return out
}

func (d *decoder) stmt(v any) Stmt {
	obj, ok := v.(map[string]any)
	if !ok {
		d.fail("statement is not an object")
		return nil
	}
	sp := spanOf(obj)
	switch typeOf(obj) {
	case "ClassDef":
		return &ClassDef{SpanVal: sp, Name: str(obj, "name"), Bases: d.exprs(obj["bases"]), Body: d.stmts(obj["body"])}
	case "FunctionDef":
		return &FunctionDef{SpanVal: sp, Name: str(obj, "name"), Params: params(obj["args"]), Body: d.stmts(obj["body"])}
	case "Assign":
		return &Assign{SpanVal: sp, Targets: d.exprs(obj["targets"]), Value: d.expr(obj["value"])}
	case "AugAssign":
		return &AugAssign{SpanVal: sp, Target: d.expr(obj["target"]), Op: d.operator(obj["op"]), Value: d.expr(obj["value"])}
	case "For":
		return &For{SpanVal: sp, Target: d.expr(obj["target"]), Iter: d.expr(obj["iter"]), Body: d.stmts(obj["body"])}
	case "While":
		return &While{SpanVal: sp, Test: d.expr(obj["test"]), Body: d.stmts(obj["body"])}
	case "If":
		return &If{SpanVal: sp, Test: d.expr(obj["test"]), Body: d.stmts(obj["body"]), Orelse: d.stmts(obj["orelse"])}
	case "Expr":
		return &ExprStmt{SpanVal: sp, Value: d.expr(obj["value"])}
	case "Pass":
		return &Pass{SpanVal: sp}
	case "":
		d.fail("statement without _type")
		return nil
	}
	return &Unsupported{SpanVal: sp, Kind: typeOf(obj)}
}

// params returns positional parameter names with a leading self removed.
func params(v any) []string {
	args, _ := v.(map[string]any)
	list, _ := args["args"].([]any)
	var names []string
	for i, item := range list {
		a, _ := item.(map[string]any)
		name := str(a, "arg")
		if i == 0 && name == "self" {
			continue
		}
		names = append(names, name)
	}
	return names
}

func (d *decoder) expr(v any) Expr {
	obj, ok := v.(map[string]any)
	if !ok {
		d.fail("expression is not an object")
		return &Unsupported{}
	}
	sp := spanOf(obj)
	switch typeOf(obj) {
	case "Constant":
		c := constant(obj["value"])
		c.SpanVal = sp
		return c
	case "Name":
		return &Name{SpanVal: sp, ID: str(obj, "id")}
	case "Attribute":
		return &Attribute{SpanVal: sp, Value: d.expr(obj["value"]), Attr: str(obj, "attr")}
	case "Call":
		return &Call{SpanVal: sp, Func: d.expr(obj["func"]), Args: d.exprs(obj["args"])}
	case "List":
		return &List{SpanVal: sp, Elts: d.exprs(obj["elts"])}
	case "BinOp":
		return &BinOp{SpanVal: sp, Left: d.expr(obj["left"]), Op: d.operator(obj["op"]), Right: d.expr(obj["right"])}
	case "BoolOp":
		op := And
		if o, _ := obj["op"].(map[string]any); typeOf(o) == "Or" {
			op = Or
		}
		return &BoolOp{SpanVal: sp, Op: op, Values: d.exprs(obj["values"])}
	case "Compare":
		var ops []CmpOp
		list, _ := obj["ops"].([]any)
		for _, item := range list {
			o, _ := item.(map[string]any)
			op, ok := cmpOp(typeOf(o))
			if !ok {
				return &Unsupported{SpanVal: sp, Kind: "Compare." + typeOf(o)}
			}
			ops = append(ops, op)
		}
		return &Compare{SpanVal: sp, Left: d.expr(obj["left"]), Ops: ops, Comparators: d.exprs(obj["comparators"])}
	case "UnaryOp":
		o, _ := obj["op"].(map[string]any)
		var op UnaryOperator
		switch typeOf(o) {
		case "USub":
			op = USub
		case "UAdd":
			op = UAdd
		case "Not":
			op = Not
		case "Invert":
			op = Invert
		default:
			d.fail("unknown unary operator %q", typeOf(o))
		}
		return &UnaryOp{SpanVal: sp, Op: op, Operand: d.expr(obj["operand"])}
	}
	return &Unsupported{SpanVal: sp, Kind: typeOf(obj)}
}

func constant(v any) *Constant {
	switch x := v.(type) {
	case nil:
		return None()
	case bool:
		return Bool(x)
	case string:
		return Str(x)
	case json.Number:
		s := x.String()
		if !strings.ContainsAny(s, ".eE") {
			if i, err := x.Int64(); err == nil {
				return Int(i)
			}
		}
		f, _ := x.Float64()
		return Float(f)
	}
	return None()
}

func (d *decoder) operator(v any) Operator {
	o, _ := v.(map[string]any)
	switch typeOf(o) {
	case "Add":
		return Add
	case "Sub":
		return Sub
	case "Mult":
		return Mult
	case "Div":
		return Div
	case "FloorDiv":
		return FloorDiv
	case "Mod":
		return Modulo
	case "Pow":
		return Pow
	}
	return OtherOp
}

func cmpOp(kind string) (CmpOp, bool) {
	switch kind {
	case "Eq":
		return Eq, true
	case "NotEq":
		return NotEq, true
	case "Lt":
		return Lt, true
	case "LtE":
		return LtE, true
	case "Gt":
		return Gt, true
	case "GtE":
		return GtE, true
	}
	return 0, false
}
