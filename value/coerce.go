package value

import (
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// CoerceNumber implements arithmetic-operand coercion. ok is
// false when v is (or coerces to) an error; errVal then holds the value
// to propagate.
func CoerceNumber(v Value) (d apd.Decimal, errVal Value, ok bool) {
	switch v.kind {
	case ErrorValueKind:
		return apd.Decimal{}, v, false
	case EmptyKind:
		return Zero(), Value{}, true
	case BoolKind:
		if v.boolean {
			return One(), Value{}, true
		}
		return Zero(), Value{}, true
	case NumberKind:
		return v.num, Value{}, true
	case TextKind:
		if d, ok := ParseDecimalText(v.text); ok {
			return d, Value{}, true
		}
		return apd.Decimal{}, Err(Type, "cannot coerce text to number: "+v.text), false
	}
	return apd.Decimal{}, Err(Type, "unexpected value kind"), false
}

// CoerceText implements concatenation-operand coercion.
func CoerceText(v Value) (text string, errVal Value, ok bool) {
	switch v.kind {
	case ErrorValueKind:
		return "", v, false
	case EmptyKind:
		return "", Value{}, true
	case BoolKind:
		if v.boolean {
			return "TRUE", Value{}, true
		}
		return "FALSE", Value{}, true
	case NumberKind:
		return canonicalDecimalText(v.num), Value{}, true
	case TextKind:
		return v.text, Value{}, true
	}
	return "", Err(Type, "unexpected value kind"), false
}

// CoerceBool implements boolean-operand coercion (used by
// AND/OR/XOR/NOT/IF's condition argument).
func CoerceBool(v Value) (b bool, errVal Value, ok bool) {
	switch v.kind {
	case ErrorValueKind:
		return false, v, false
	case EmptyKind:
		return false, Value{}, true
	case BoolKind:
		return v.boolean, Value{}, true
	case NumberKind:
		return !IsZero(v.num), Value{}, true
	case TextKind:
		switch strings.ToUpper(v.text) {
		case "TRUE":
			return true, Value{}, true
		case "FALSE":
			return false, Value{}, true
		}
		return false, Err(Type, "cannot coerce text to boolean: "+v.text), false
	}
	return false, Err(Type, "unexpected value kind"), false
}
