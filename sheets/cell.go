package sheets

import (
	"strings"

	"github.com/broyeztony/sheets/ast"
	"github.com/broyeztony/sheets/eval"
	"github.com/broyeztony/sheets/parser"
	"github.com/broyeztony/sheets/value"
)

// cell holds one non-empty cell's raw contents alongside whatever was
// derived from it at parse time. raw always includes the leading '='
// or '\'' marker, if any, exactly as trimmed from the user's input
// (raw contents are the user text with outer whitespace trimmed).
type cell struct {
	raw string

	isFormula   bool
	expr        ast.Expression // non-nil only when isFormula && parse succeeded
	parseFailed bool           // isFormula && expr == nil

	literal value.Value // valid only when !isFormula: the cell's fixed, content-derived value
	value   value.Value // last value delivered by Recompute; what CellValue returns
}

// parseContents classifies trimmed, non-empty raw cell text following
// the original engine's set_contents order: a leading quote makes a
// literal string, a leading '=' makes a formula, an exact (case-
// insensitive) match against a known error display string becomes that
// error directly, and otherwise the text is attempted as a number
// literal, falling back to plain text (original_source/sheets/cell.py's
// set_contents: quote -> formula -> known error string -> Decimal ->
// fallback to the literal text).
func parseContents(raw string) *cell {
	switch {
	case strings.HasPrefix(raw, "'"):
		return &cell{raw: raw, literal: value.Text(raw[1:])}

	case strings.HasPrefix(raw, "="):
		expr, errs := parser.Parse(raw[1:])
		if len(errs) > 0 {
			return &cell{raw: raw, isFormula: true, parseFailed: true}
		}
		return &cell{raw: raw, isFormula: true, expr: expr}

	default:
		if kind, ok := value.ErrorKindFromLiteral(strings.ToUpper(raw)); ok {
			return &cell{raw: raw, literal: value.Err(kind, "")}
		}
		if d, ok := value.ParseDecimalText(raw); ok {
			return &cell{raw: raw, literal: value.Number(d)}
		}
		return &cell{raw: raw, literal: value.Text(raw)}
	}
}

// computeValue derives the value a cell should hold given ctx: the
// fixed literal for non-formula cells, Error(Parse) for a formula that
// never parsed, or the evaluated expression otherwise.
func computeValue(c *cell, ctx *evalView) value.Value {
	if !c.isFormula {
		return c.literal
	}
	if c.parseFailed {
		return value.Err(value.Parse, "unable to parse formula")
	}
	return eval.Evaluate(c.expr, ctx)
}
