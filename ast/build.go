package ast

// Constructors for hand-built trees. Tools and tests use them in place of a
// front-end; all spans are zero.

// Int returns an integer constant.
func Int(v int64) *Constant { return &Constant{Kind: ConstInt, Int: v} }

// Float returns a float constant.
func Float(v float64) *Constant { return &Constant{Kind: ConstFloat, Float: v} }

// Str returns a string constant.
func Str(s string) *Constant { return &Constant{Kind: ConstString, Str: s} }

// Bool returns True or False.
func Bool(b bool) *Constant { return &Constant{Kind: ConstBool, Bool: b} }

// None returns the None constant.
func None() *Constant { return &Constant{Kind: ConstNone} }

// Items returns a list display.
func Items(elts ...Expr) *List { return &List{Elts: elts} }

// Ident returns a name reference.
func Ident(id string) *Name { return &Name{ID: id} }

// Fn returns a call to a bare function name.
func Fn(name string, args ...Expr) *Call {
	return &Call{Func: &Name{ID: name}, Args: args}
}

// SelfCall returns self.name(args...).
func SelfCall(name string, args ...Expr) *Call {
	return &Call{Func: &Attribute{Value: &Name{ID: "self"}, Attr: name}, Args: args}
}

// Do wraps a call (or any expression) as a statement.
func Do(e Expr) *ExprStmt { return &ExprStmt{Value: e} }

// Bin returns left op right.
func Bin(left Expr, op Operator, right Expr) *BinOp {
	return &BinOp{Left: left, Op: op, Right: right}
}

// Cmp returns left op right as a single comparison.
func Cmp(left Expr, op CmpOp, right Expr) *Compare {
	return &Compare{Left: left, Ops: []CmpOp{op}, Comparators: []Expr{right}}
}

// AndOf folds values with `and`.
func AndOf(values ...Expr) *BoolOp { return &BoolOp{Op: And, Values: values} }

// OrOf folds values with `or`.
func OrOf(values ...Expr) *BoolOp { return &BoolOp{Op: Or, Values: values} }

// NotOf returns `not operand`.
func NotOf(operand Expr) *UnaryOp { return &UnaryOp{Op: Not, Operand: operand} }

// Neg returns `-operand`.
func Neg(operand Expr) *UnaryOp { return &UnaryOp{Op: USub, Operand: operand} }

// Set returns name = value.
func Set(name string, value Expr) *Assign {
	return &Assign{Targets: []Expr{&Name{ID: name}}, Value: value}
}

// Inc returns name op= value.
func Inc(name string, op Operator, value Expr) *AugAssign {
	return &AugAssign{Target: &Name{ID: name}, Op: op, Value: value}
}

// Range returns `for i in range(n): body`.
func Range(n Expr, body ...Stmt) *For {
	return &For{Target: &Name{ID: "i"}, Iter: Fn("range", n), Body: body}
}

// Loop returns `while test: body`.
func Loop(test Expr, body ...Stmt) *While { return &While{Test: test, Body: body} }

// When returns `if test: body`.
func When(test Expr, body ...Stmt) *If { return &If{Test: test, Body: body} }

// Def returns a method with the given parameters (excluding self).
func Def(name string, params []string, body ...Stmt) *FunctionDef {
	return &FunctionDef{Name: name, Params: params, Body: body}
}

// Class returns a class definition.
func Class(name string, body ...Stmt) *ClassDef {
	return &ClassDef{Name: name, Body: body}
}

// Mod returns a module.
func Mod(body ...Stmt) *Module { return &Module{Body: body} }
