package compiler

import (
	"fmt"
	"strings"

	"github.com/chazu/scratchc/ast"
)

// Code classifies a diagnostic.
type Code string

const (
	CodeAugOp       Code = "W-AUGOP"        // augmented operator other than += and -=
	CodeUnreachable Code = "W-UNREACHABLE"  // statements after a forever loop
	CodeUnknownCall Code = "W-UNKNOWN-CALL" // name is neither a block nor a procedure
	CodeUnknownProc Code = "W-UNKNOWN-PROC" // self.name() without a matching method
	CodeUnknownHat  Code = "W-UNKNOWN-HAT"  // when_* method that names no event
	CodeCondition   Code = "W-CONDITION"    // expression cannot be a condition
	CodeExprCall    Code = "W-EXPR-CALL"    // statement block used as a value
	CodeStmtCall    Code = "W-STMT-CALL"    // reporter used as a statement
	CodeTopLevel    Code = "W-TOPLEVEL"     // module-level statement ignored
	CodeIterable    Code = "W-ITERABLE"     // for loop over something other than range()
	CodeArgument    Code = "W-ARGUMENT"     // argument must be a string literal
	CodeUnsupported Code = "W-UNSUPPORTED"  // construct outside the language subset
	CodeAsset       Code = "W-ASSET"        // costume or sound could not be resolved
)

// Diagnostic is a warning raised while compiling or assembling. The
// compiler never fails; everything it cannot translate ends up here.
type Diagnostic struct {
	Code    Code
	Sprite  string
	Method  string
	Message string
	Span    ast.Span
}

func (d Diagnostic) String() string {
	var sb strings.Builder
	sb.WriteString(string(d.Code))
	sb.WriteString(": ")
	if d.Sprite != "" {
		sb.WriteString(d.Sprite)
		if d.Method != "" {
			sb.WriteByte('.')
			sb.WriteString(d.Method)
		}
		sb.WriteString(": ")
	}
	if pos := d.Span.Start; pos.Line > 0 {
		fmt.Fprintf(&sb, "line %d, column %d: ", pos.Line, pos.Column)
	}
	sb.WriteString(d.Message)
	return sb.String()
}

// Count returns how many diagnostics carry the given code.
func Count(diags []Diagnostic, code Code) int {
	n := 0
	for _, d := range diags {
		if d.Code == code {
			n++
		}
	}
	return n
}

// kindOf names a node for messages.
func kindOf(n ast.Node) string {
	switch n := n.(type) {
	case *ast.Constant:
		return "literal"
	case *ast.Name:
		return "name " + n.ID
	case *ast.Attribute:
		return "attribute " + n.Attr
	case *ast.Call:
		return "call to " + ast.CallName(n)
	case *ast.BinOp:
		return "operator " + n.Op.String()
	case *ast.BoolOp:
		return n.Op.String() + " expression"
	case *ast.Compare:
		return "comparison"
	case *ast.UnaryOp:
		return "unary expression"
	case *ast.List:
		return "list"
	case *ast.Unsupported:
		return n.Kind
	}
	return "statement"
}
