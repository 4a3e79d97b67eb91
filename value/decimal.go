package value

import (
	"regexp"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// calcCtx bounds all decimal arithmetic to 34 significant digits
// (decimal128-equivalent precision), comfortably above anything a
// 9999x9999 sheet can accumulate through repeated +,-,*,/.
var calcCtx = apd.BaseContext.WithPrecision(34)

// numberLiteralPattern matches the formula grammar's number literal: an
// integer or decimal with no exponent form. Used both to validate
// ast.NumberLiteral text and to decide whether arbitrary cell text
// coerces to a number.
var numberLiteralPattern = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]+)?$`)

// ParseDecimalLiteral parses formula-literal number text (as produced by
// the lexer: digits, optional single '.', digits; never signed, never
// exponential).
func ParseDecimalLiteral(text string) (apd.Decimal, bool) {
	if !numberLiteralPattern.MatchString(text) {
		return apd.Decimal{}, false
	}
	return parseDecimalText(text)
}

// ParseDecimalText parses arbitrary cell/text content as a number under
// the same pattern (which admits a leading sign), after trimming
// surrounding whitespace.
func ParseDecimalText(text string) (apd.Decimal, bool) {
	text = strings.TrimSpace(text)
	if !numberLiteralPattern.MatchString(text) {
		return apd.Decimal{}, false
	}
	return parseDecimalText(text)
}

func parseDecimalText(text string) (apd.Decimal, bool) {
	d, _, err := apd.NewFromString(text)
	if err != nil {
		return apd.Decimal{}, false
	}
	return *d, true
}

func canonicalDecimalText(d apd.Decimal) string {
	reduced := d
	_, _ = calcCtx.Reduce(&reduced, &reduced)
	return reduced.Text('f')
}

// Add, Sub, Mul never fail for finite operands at this precision; they
// report an error only on the pathological case of an apd.Context
// computation error, which callers treat as DivZero.
func Add(a, b apd.Decimal) (apd.Decimal, bool) { return binOp(calcCtx.Add, a, b) }
func Sub(a, b apd.Decimal) (apd.Decimal, bool) { return binOp(calcCtx.Sub, a, b) }
func Mul(a, b apd.Decimal) (apd.Decimal, bool) { return binOp(calcCtx.Mul, a, b) }

func Div(a, b apd.Decimal) (apd.Decimal, bool) {
	if b.Sign() == 0 {
		return apd.Decimal{}, false
	}
	return binOp(calcCtx.Quo, a, b)
}

func Neg(a apd.Decimal) apd.Decimal {
	var res apd.Decimal
	res.Neg(&a)
	return res
}

func binOp(op func(d, x, y *apd.Decimal) (apd.Condition, error), a, b apd.Decimal) (apd.Decimal, bool) {
	var res apd.Decimal
	if _, err := op(&res, &a, &b); err != nil {
		return apd.Decimal{}, false
	}
	_, _ = calcCtx.Reduce(&res, &res)
	return res, true
}

// DecimalCompare orders two decimals; natural numeric order.
func DecimalCompare(a, b apd.Decimal) int { return a.Cmp(&b) }

// IsZero reports whether d is numerically zero.
func IsZero(d apd.Decimal) bool { return d.Sign() == 0 }

// Zero and One are convenience constructors used by boolean->number
// coercion.
func Zero() apd.Decimal { return apd.Decimal{} }
func One() apd.Decimal {
	return *apd.New(1, 0)
}
