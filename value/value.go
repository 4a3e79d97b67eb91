// Package value implements the tagged value/error algebra: Empty,
// Number (arbitrary-precision decimal), Text, Bool, Error, with their
// coercion, comparison, and error-propagation rules.
package value

import (
	"github.com/cockroachdb/apd/v3"
)

type Kind int

const (
	EmptyKind Kind = iota
	NumberKind
	TextKind
	BoolKind
	ErrorValueKind
)

// Value is an immutable tagged union. The zero Value is Empty.
type Value struct {
	kind      Kind
	num       apd.Decimal
	text      string
	boolean   bool
	errKind   ErrorKind
	errDetail string
}

func Empty() Value { return Value{kind: EmptyKind} }

func Number(d apd.Decimal) Value {
	reduced := d
	_, _ = calcCtx.Reduce(&reduced, &reduced)
	return Value{kind: NumberKind, num: reduced}
}

func Text(s string) Value { return Value{kind: TextKind, text: s} }

func Bool(b bool) Value { return Value{kind: BoolKind, boolean: b} }

func Err(kind ErrorKind, detail string) Value {
	return Value{kind: ErrorValueKind, errKind: kind, errDetail: detail}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsEmpty() bool { return v.kind == EmptyKind }
func (v Value) IsError() bool { return v.kind == ErrorValueKind }

func (v Value) AsNumber() apd.Decimal { return v.num }
func (v Value) AsText() string        { return v.text }
func (v Value) AsBool() bool          { return v.boolean }

// ErrorInfo returns the error kind and detail string; ok is false if v is
// not an error.
func (v Value) ErrorInfo() (kind ErrorKind, detail string, ok bool) {
	if v.kind != ErrorValueKind {
		return 0, "", false
	}
	return v.errKind, v.errDetail, true
}

// Display renders the value the way a cell would show it: canonical
// decimal text for numbers, TRUE/FALSE for booleans, the error's display
// string for errors, empty string for Empty, and the text itself
// otherwise.
func (v Value) Display() string {
	switch v.kind {
	case EmptyKind:
		return ""
	case NumberKind:
		return canonicalDecimalText(v.num)
	case BoolKind:
		if v.boolean {
			return "TRUE"
		}
		return "FALSE"
	case ErrorValueKind:
		return v.errKind.Display()
	default:
		return v.text
	}
}

// Equal reports whether two values are identical in kind and content,
// used by the recompute pipeline to detect cells whose value changed;
// it is not the spreadsheet "=" comparator (see Compare).
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case EmptyKind:
		return true
	case NumberKind:
		return v.num.Cmp(&other.num) == 0
	case TextKind:
		return v.text == other.text
	case BoolKind:
		return v.boolean == other.boolean
	case ErrorValueKind:
		return v.errKind == other.errKind
	}
	return false
}
