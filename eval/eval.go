// Package eval walks a parsed formula and produces a value.Value,
// looking up other cells through the narrow EvalContext interface
// The evaluator never mutates anything; it is a pure function of
// the AST and whatever EvalContext.GetValue currently returns.
package eval

import (
	"strings"

	"github.com/broyeztony/sheets/ast"
	"github.com/broyeztony/sheets/value"
)

// EvalContext is the read-only view of the workbook the evaluator
// needs. It never exposes mutation, matching spec's "workbook_view"
// GetValue returns Empty for unknown addresses within a known
// sheet, Error(BadRef) for an unknown sheet or an out-of-range
// address.
type EvalContext interface {
	GetValue(sheetName *string, addr string) value.Value
	OwningSheetName() string
	EngineVersion() string
}

// Evaluate walks expr and returns its value under ctx. A nil expr
// (parse failure upstream) is the caller's responsibility to surface
// as Error(Parse) before ever reaching here.
func Evaluate(expr ast.Expression, ctx EvalContext) value.Value {
	switch n := expr.(type) {
	case *ast.NumberLiteral:
		d, ok := value.ParseDecimalLiteral(n.Text)
		if !ok {
			return value.Err(value.Parse, "malformed number literal "+n.Text)
		}
		return value.Number(d)

	case *ast.StringLiteral:
		return value.Text(n.Value)

	case *ast.BoolLiteral:
		return value.Bool(n.Value)

	case *ast.ErrorLiteral:
		kind, ok := value.ErrorKindFromLiteral(n.Text)
		if !ok {
			return value.Err(value.Parse, "unknown error literal "+n.Text)
		}
		return value.Err(kind, "")

	case *ast.CellRef:
		return ctx.GetValue(n.Sheet, n.Addr)

	case *ast.PrefixExpression:
		return evalPrefix(n, ctx)

	case *ast.InfixExpression:
		return evalInfix(n, ctx)

	case *ast.CallExpression:
		return evalCall(n, ctx)
	}
	return value.Err(value.Parse, "unrecognized expression")
}

func evalPrefix(n *ast.PrefixExpression, ctx EvalContext) value.Value {
	operand := Evaluate(n.Right, ctx)
	d, errVal, ok := value.CoerceNumber(operand)
	if !ok {
		return errVal
	}
	switch n.Operator {
	case "+":
		return value.Number(d)
	case "-":
		return value.Number(value.Neg(d))
	}
	return value.Err(value.Parse, "unknown unary operator "+n.Operator)
}

func evalInfix(n *ast.InfixExpression, ctx EvalContext) value.Value {
	left := Evaluate(n.Left, ctx)
	right := Evaluate(n.Right, ctx)

	switch n.Operator {
	case "+", "-", "*", "/":
		return evalArith(n.Operator, left, right)
	case "&":
		return evalConcat(left, right)
	case "=", "==", "<>", "!=", "<", ">", "<=", ">=":
		return evalComparison(n.Operator, left, right)
	}
	return value.Err(value.Parse, "unknown operator "+n.Operator)
}

func evalArith(op string, left, right value.Value) value.Value {
	if errVal, found := value.FirstError(left, right); found {
		return errVal
	}
	a, errVal, ok := value.CoerceNumber(left)
	if !ok {
		return errVal
	}
	b, errVal, ok := value.CoerceNumber(right)
	if !ok {
		return errVal
	}
	switch op {
	case "+":
		r, ok := value.Add(a, b)
		if !ok {
			return value.Err(value.DivZero, "")
		}
		return value.Number(r)
	case "-":
		r, ok := value.Sub(a, b)
		if !ok {
			return value.Err(value.DivZero, "")
		}
		return value.Number(r)
	case "*":
		r, ok := value.Mul(a, b)
		if !ok {
			return value.Err(value.DivZero, "")
		}
		return value.Number(r)
	case "/":
		r, ok := value.Div(a, b)
		if !ok {
			return value.Err(value.DivZero, "")
		}
		return value.Number(r)
	}
	return value.Err(value.Parse, "unknown arithmetic operator "+op)
}

func evalConcat(left, right value.Value) value.Value {
	if errVal, found := value.FirstError(left, right); found {
		return errVal
	}
	a, errVal, ok := value.CoerceText(left)
	if !ok {
		return errVal
	}
	b, errVal, ok := value.CoerceText(right)
	if !ok {
		return errVal
	}
	return value.Text(a + b)
}

func evalComparison(op string, left, right value.Value) value.Value {
	if errVal, found := value.FirstError(left, right); found {
		return errVal
	}
	cmp := value.Compare(left, right)
	var result bool
	switch op {
	case "=", "==":
		result = cmp == 0
	case "<>", "!=":
		result = cmp != 0
	case "<":
		result = cmp < 0
	case ">":
		result = cmp > 0
	case "<=":
		result = cmp <= 0
	case ">=":
		result = cmp >= 0
	default:
		return value.Err(value.Parse, "unknown comparison operator "+op)
	}
	return value.Bool(result)
}

func evalCall(n *ast.CallExpression, ctx EvalContext) value.Value {
	name := strings.ToUpper(n.Function)
	b, ok := builtins[name]
	if !ok {
		return value.Err(value.BadName, "unknown function "+n.Function)
	}
	if len(n.Arguments) < b.MinArgs || (b.MaxArgs >= 0 && len(n.Arguments) > b.MaxArgs) {
		return value.Err(value.Type, "wrong argument count for "+name)
	}
	return b.Fn(ctx, n.Arguments)
}
