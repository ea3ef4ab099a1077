// Package ast defines the node vocabulary the compiler consumes.
//
// Nodes are produced by an external front-end (a Python parser) and mirror
// the subset of Python's abstract grammar that maps onto Scratch blocks.
package ast

// ---------------------------------------------------------------------------
// Positions
// ---------------------------------------------------------------------------

// Position represents a source location.
type Position struct {
	Line   int // 1-based line number
	Column int // 0-based column offset, as the front-end reports it
}

// Span represents a range in source code.
type Span struct {
	Start Position
	End   Position
}

// Node is the interface implemented by all AST nodes.
type Node interface {
	Span() Span
	node() // marker method
}

// ---------------------------------------------------------------------------
// Expression nodes
// ---------------------------------------------------------------------------

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	expr() // marker method
}

// ConstKind discriminates the payload of a Constant.
type ConstKind int

const (
	ConstNone ConstKind = iota
	ConstInt
	ConstFloat
	ConstString
	ConstBool
)

// Constant represents a literal: int, float, str, bool or None.
type Constant struct {
	SpanVal Span
	Kind    ConstKind
	Int     int64
	Float   float64
	Str     string
	Bool    bool
}

func (n *Constant) Span() Span { return n.SpanVal }
func (n *Constant) node()      {}
func (n *Constant) expr()      {}

// Name represents a bare identifier reference.
type Name struct {
	SpanVal Span
	ID      string
}

func (n *Name) Span() Span { return n.SpanVal }
func (n *Name) node()      {}
func (n *Name) expr()      {}

// Attribute represents value.attr, used for self.method() calls.
type Attribute struct {
	SpanVal Span
	Value   Expr
	Attr    string
}

func (n *Attribute) Span() Span { return n.SpanVal }
func (n *Attribute) node()      {}
func (n *Attribute) expr()      {}

// Call represents func(args...). Keyword arguments are not part of the subset.
type Call struct {
	SpanVal Span
	Func    Expr
	Args    []Expr
}

func (n *Call) Span() Span { return n.SpanVal }
func (n *Call) node()      {}
func (n *Call) expr()      {}

// Operator is a binary arithmetic operator.
type Operator int

const (
	Add Operator = iota
	Sub
	Mult
	Div
	FloorDiv
	Modulo
	Pow
	OtherOp // bitwise and matrix operators, kept so AugAssign stays total
)

var operatorNames = [...]string{"+", "-", "*", "/", "//", "%", "**", "?"}

func (o Operator) String() string {
	if int(o) < len(operatorNames) {
		return operatorNames[o]
	}
	return "?"
}

// BinOp represents left op right.
type BinOp struct {
	SpanVal Span
	Left    Expr
	Op      Operator
	Right   Expr
}

func (n *BinOp) Span() Span { return n.SpanVal }
func (n *BinOp) node()      {}
func (n *BinOp) expr()      {}

// BoolOperator is `and` or `or`.
type BoolOperator int

const (
	And BoolOperator = iota
	Or
)

func (o BoolOperator) String() string {
	if o == Or {
		return "or"
	}
	return "and"
}

// BoolOp represents a chain of `and`/`or` over two or more values.
type BoolOp struct {
	SpanVal Span
	Op      BoolOperator
	Values  []Expr
}

func (n *BoolOp) Span() Span { return n.SpanVal }
func (n *BoolOp) node()      {}
func (n *BoolOp) expr()      {}

// CmpOp is a comparison operator.
type CmpOp int

const (
	Eq CmpOp = iota
	NotEq
	Lt
	LtE
	Gt
	GtE
)

var cmpOpNames = [...]string{"==", "!=", "<", "<=", ">", ">="}

func (o CmpOp) String() string {
	if int(o) < len(cmpOpNames) {
		return cmpOpNames[o]
	}
	return "?"
}

// Compare represents left op1 c1 op2 c2 ... Only the first pair is compiled.
type Compare struct {
	SpanVal     Span
	Left        Expr
	Ops         []CmpOp
	Comparators []Expr
}

func (n *Compare) Span() Span { return n.SpanVal }
func (n *Compare) node()      {}
func (n *Compare) expr()      {}

// UnaryOperator is a prefix operator.
type UnaryOperator int

const (
	USub UnaryOperator = iota
	UAdd
	Not
	Invert
)

// UnaryOp represents op operand.
type UnaryOp struct {
	SpanVal Span
	Op      UnaryOperator
	Operand Expr
}

func (n *UnaryOp) Span() Span { return n.SpanVal }
func (n *UnaryOp) node()      {}
func (n *UnaryOp) expr()      {}

// List represents a list display. It only appears as the value of a list
// declaration (items = [1, 2]).
type List struct {
	SpanVal Span
	Elts    []Expr
}

func (n *List) Span() Span { return n.SpanVal }
func (n *List) node()      {}
func (n *List) expr()      {}

// ---------------------------------------------------------------------------
// Statement nodes
// ---------------------------------------------------------------------------

// Stmt is the interface for statement nodes.
type Stmt interface {
	Node
	stmt() // marker method
}

// Assign represents targets = value.
type Assign struct {
	SpanVal Span
	Targets []Expr
	Value   Expr
}

func (n *Assign) Span() Span { return n.SpanVal }
func (n *Assign) node()      {}
func (n *Assign) stmt()      {}

// AugAssign represents target op= value.
type AugAssign struct {
	SpanVal Span
	Target  Expr
	Op      Operator
	Value   Expr
}

func (n *AugAssign) Span() Span { return n.SpanVal }
func (n *AugAssign) node()      {}
func (n *AugAssign) stmt()      {}

// For represents `for target in iter: body`.
type For struct {
	SpanVal Span
	Target  Expr
	Iter    Expr
	Body    []Stmt
}

func (n *For) Span() Span { return n.SpanVal }
func (n *For) node()      {}
func (n *For) stmt()      {}

// While represents `while test: body`.
type While struct {
	SpanVal Span
	Test    Expr
	Body    []Stmt
}

func (n *While) Span() Span { return n.SpanVal }
func (n *While) node()      {}
func (n *While) stmt()      {}

// If represents `if test: body else: orelse`. An elif is an If in Orelse.
type If struct {
	SpanVal Span
	Test    Expr
	Body    []Stmt
	Orelse  []Stmt
}

func (n *If) Span() Span { return n.SpanVal }
func (n *If) node()      {}
func (n *If) stmt()      {}

// ExprStmt is an expression evaluated for effect, usually a call.
type ExprStmt struct {
	SpanVal Span
	Value   Expr
}

func (n *ExprStmt) Span() Span { return n.SpanVal }
func (n *ExprStmt) node()      {}
func (n *ExprStmt) stmt()      {}

// Pass is the empty statement.
type Pass struct {
	SpanVal Span
}

func (n *Pass) Span() Span { return n.SpanVal }
func (n *Pass) node()      {}
func (n *Pass) stmt()      {}

// FunctionDef represents a method definition. Params exclude `self`.
type FunctionDef struct {
	SpanVal Span
	Name    string
	Params  []string
	Body    []Stmt
}

func (n *FunctionDef) Span() Span { return n.SpanVal }
func (n *FunctionDef) node()      {}
func (n *FunctionDef) stmt()      {}

// ClassDef represents a class; each class becomes one sprite.
type ClassDef struct {
	SpanVal Span
	Name    string
	Bases   []Expr
	Body    []Stmt
}

func (n *ClassDef) Span() Span { return n.SpanVal }
func (n *ClassDef) node()      {}
func (n *ClassDef) stmt()      {}

// Module is the root of a compilation unit.
type Module struct {
	SpanVal Span
	Body    []Stmt
}

func (n *Module) Span() Span { return n.SpanVal }
func (n *Module) node()      {}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// CallName returns the called name for f(...) and self.f(...), or "" for
// anything else.
func CallName(c *Call) string {
	switch fn := c.Func.(type) {
	case *Name:
		return fn.ID
	case *Attribute:
		return fn.Attr
	}
	return ""
}
