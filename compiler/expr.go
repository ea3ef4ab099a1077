package compiler

import (
	"github.com/chazu/scratchc/ast"
	"github.com/chazu/scratchc/block"
)

// ---------------------------------------------------------------------------
// Values
// ---------------------------------------------------------------------------

var arithmetic = map[ast.Operator]string{
	ast.Add:      "operator_add",
	ast.Sub:      "operator_subtract",
	ast.Mult:     "operator_multiply",
	ast.Div:      "operator_divide",
	ast.FloorDiv: "operator_divide",
	ast.Modulo:   "operator_mod",
}

// constOperand renders a constant the way it appears in a literal input.
// Booleans keep their source spelling; None becomes 0.
func constOperand(c *ast.Constant) operand {
	switch c.Kind {
	case ast.ConstInt:
		return number(itoa(c.Int))
	case ast.ConstFloat:
		return number(block.FormatFloat(c.Float))
	case ast.ConstString:
		return text(c.Str)
	case ast.ConstBool:
		return number(block.Bool(c.Bool).Text())
	}
	return number("0")
}

// value compiles an expression used as an input value.
func (u *unit) value(e ast.Expr) operand {
	switch e := e.(type) {
	case *ast.Constant:
		return constOperand(e)
	case *ast.Name:
		return u.reference(e.ID)
	case *ast.Attribute:
		if name, ok := assignedName(e); ok {
			return u.reference(name)
		}
	case *ast.UnaryOp:
		switch e.Op {
		case ast.USub:
			if v, ok := constValue(e); ok {
				return number(v.Text())
			}
			return u.binary("operator_subtract", number("0"), u.value(e.Operand))
		case ast.UAdd:
			return u.value(e.Operand)
		case ast.Not:
			return u.conditionValue(e)
		}
	case *ast.BinOp:
		opcode, ok := arithmetic[e.Op]
		if !ok {
			u.warn(CodeUnsupported, e, "operator %s has no block; using 0", e.Op)
			return number("0")
		}
		return u.binary(opcode, u.value(e.Left), u.value(e.Right))
	case *ast.Compare, *ast.BoolOp:
		return u.conditionValue(e)
	case *ast.Call:
		return u.callValue(e)
	}
	u.warn(CodeUnsupported, e, "%s cannot be used as a value; using 0", kindOf(e))
	return number("0")
}

// binary emits a two-operand arithmetic reporter.
func (u *unit) binary(opcode string, left, right operand) operand {
	r := u.reporter(opcode, false)
	u.attach(r, block.Slot("NUM1"), left)
	u.attach(r, block.Slot("NUM2"), right)
	return reported(r.ID)
}

// conditionValue drops a boolean reporter into a value slot.
func (u *unit) conditionValue(e ast.Expr) operand {
	if id := u.condition(e); !id.IsZero() {
		return reported(id)
	}
	return number("0")
}

// ---------------------------------------------------------------------------
// Conditions
// ---------------------------------------------------------------------------

// condition compiles an expression wherever a boolean is required (if,
// while, wait_until, and/or/not operands). It returns the boolean
// reporter, or NoID with a diagnostic when the expression has no boolean
// form; the caller then leaves its CONDITION slot empty.
func (u *unit) condition(e ast.Expr) block.ID {
	switch e := e.(type) {
	case *ast.Compare:
		return u.compare(e)
	case *ast.BoolOp:
		return u.boolChain(e)
	case *ast.UnaryOp:
		if e.Op == ast.Not {
			return u.not(u.condition(e.Operand))
		}
	case *ast.Constant:
		// The block language has no boolean literal.
		if truthy(e) {
			return u.equals(text("1"), text("1"))
		}
		return u.equals(text("1"), text("0"))
	case *ast.Call:
		if spec, ok := u.booleanCall(e); ok {
			return u.reporterCall(e, spec).id
		}
	}
	u.warn(CodeCondition, e, "%s is not a condition; the slot stays empty", kindOf(e))
	return block.NoID
}

// compare compiles the first pair of a comparison. Only ==, < and > have
// blocks; the others are negations of them.
func (u *unit) compare(e *ast.Compare) block.ID {
	if len(e.Ops) == 0 || len(e.Comparators) == 0 {
		u.warn(CodeCondition, e, "empty comparison")
		return block.NoID
	}
	if len(e.Ops) > 1 {
		u.warn(CodeUnsupported, e, "chained comparison: only the first pair is compiled")
	}
	left, right := u.value(e.Left), u.value(e.Comparators[0])
	switch e.Ops[0] {
	case ast.Eq:
		return u.equals(left, right)
	case ast.NotEq:
		return u.not(u.equals(left, right))
	case ast.Lt:
		return u.operands("operator_lt", left, right)
	case ast.GtE:
		return u.not(u.operands("operator_lt", left, right))
	case ast.Gt:
		return u.operands("operator_gt", left, right)
	case ast.LtE:
		return u.not(u.operands("operator_gt", left, right))
	}
	return block.NoID
}

func (u *unit) equals(left, right operand) block.ID {
	return u.operands("operator_equals", left, right)
}

// operands emits a boolean reporter over OPERAND1 and OPERAND2.
func (u *unit) operands(opcode string, left, right operand) block.ID {
	r := u.reporter(opcode, true)
	u.attach(r, block.Slot("OPERAND1"), left)
	u.attach(r, block.Slot("OPERAND2"), right)
	return r.ID
}

func (u *unit) not(operand block.ID) block.ID {
	r := u.reporter("operator_not", true)
	u.attachBlock(r, "OPERAND", operand)
	return r.ID
}

// boolChain folds and/or right to left: a and b and c becomes
// AND(a, AND(b, c)). Operands are compiled left to right.
func (u *unit) boolChain(e *ast.BoolOp) block.ID {
	if len(e.Values) == 0 {
		u.warn(CodeCondition, e, "empty %s", e.Op)
		return block.NoID
	}
	opcode := "operator_and"
	if e.Op == ast.Or {
		opcode = "operator_or"
	}
	ids := make([]block.ID, len(e.Values))
	for i, v := range e.Values {
		ids[i] = u.condition(v)
	}
	acc := ids[len(ids)-1]
	for i := len(ids) - 2; i >= 0; i-- {
		r := u.reporter(opcode, true)
		u.attachBlock(r, "OPERAND1", ids[i])
		u.attachBlock(r, "OPERAND2", acc)
		acc = r.ID
	}
	return acc
}

func truthy(c *ast.Constant) bool {
	switch c.Kind {
	case ast.ConstBool:
		return c.Bool
	case ast.ConstInt:
		return c.Int != 0
	case ast.ConstFloat:
		return c.Float != 0
	case ast.ConstString:
		return c.Str != ""
	}
	return false
}
