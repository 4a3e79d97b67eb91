package rewrite

import (
	"strings"

	"github.com/broyeztony/sheets/address"
	"github.com/broyeztony/sheets/token"
)

// Shift rewrites every cell reference token in formulaSrc by (dCol,
// dRow), leaving an axis untouched where the reference carries an
// absolute ($) marker on it, and replacing a reference that would move
// out of [1, address.MaxCoord] with "#REF!". formulaSrc excludes
// the leading "="; non-formula contents are the caller's business, not
// this package's (it is only ever invoked on formula text).
func Shift(formulaSrc string, dCol, dRow int) string {
	toks := tokenize(formulaSrc)
	var out strings.Builder
	prevEnd := 0
	for _, st := range toks {
		out.WriteString(formulaSrc[prevEnd:st.tok.Offset])
		if st.tok.Type == token.REF {
			out.WriteString(shiftRefText(st.raw, dCol, dRow))
		} else {
			out.WriteString(st.raw)
		}
		prevEnd = st.tok.Offset + len(st.raw)
	}
	out.WriteString(formulaSrc[prevEnd:])
	return out.String()
}

func shiftRefText(raw string, dCol, dRow int) string {
	addr, err := address.Parse(raw)
	if err != nil {
		// not a well-formed address (e.g. a bare "$A" with no row);
		// nothing meaningful to shift, leave as the parser/evaluator
		// will surface its own error for it.
		return raw
	}
	shifted, err := address.Shift(addr, dCol, dRow)
	if err != nil {
		return "#REF!"
	}
	return shifted.Display()
}
