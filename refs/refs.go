// Package refs walks a parsed formula and yields the set of cell
// references it touches syntactically. This is purely static: it
// never evaluates anything and never looks inside INDIRECT's argument,
// so a cell reached only dynamically through INDIRECT gets no graph
// edge.
package refs

import (
	"strings"

	"github.com/broyeztony/sheets/ast"
)

// Ref identifies one syntactic reference: the sheet it targets (as
// written, casefolded for comparison) and the address text (also
// casefolded). For an unqualified reference, Sheet carries the owning
// sheet's key instead of text from the formula.
type Ref struct {
	Sheet string
	Addr  string
}

// Extract walks expr and returns the deduplicated set of references it
// contains, with unqualified references resolved against owningSheetKey.
// Both Sheet and Addr are casefolded so callers can use Ref directly as
// a graph key.
func Extract(expr ast.Expression, owningSheetKey string, casefold func(string) string) []Ref {
	seen := make(map[Ref]bool)
	var out []Ref
	walk(expr, owningSheetKey, casefold, func(r Ref) {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	})
	return out
}

func walk(expr ast.Expression, owningSheetKey string, casefold func(string) string, emit func(Ref)) {
	if expr == nil {
		return
	}
	switch n := expr.(type) {
	case *ast.NumberLiteral, *ast.StringLiteral, *ast.BoolLiteral, *ast.ErrorLiteral:
		// leaves, no references

	case *ast.CellRef:
		sheetKey := owningSheetKey
		if n.Sheet != nil {
			sheetKey = casefold(*n.Sheet)
		}
		emit(Ref{Sheet: sheetKey, Addr: casefold(n.Addr)})

	case *ast.PrefixExpression:
		walk(n.Right, owningSheetKey, casefold, emit)

	case *ast.InfixExpression:
		walk(n.Left, owningSheetKey, casefold, emit)
		walk(n.Right, owningSheetKey, casefold, emit)

	case *ast.CallExpression:
		// INDIRECT's argument is text-coerced at evaluation time, not
		// a syntactic reference; do not recurse into it.
		if strings.EqualFold(n.Function, "INDIRECT") {
			return
		}
		// Every other function's arguments are visited unconditionally,
		// including both branches of IF/IFERROR/CHOOSE: the extractor
		// is conservative and records what is syntactically reachable
		// regardless of which branch would actually run.
		for _, arg := range n.Arguments {
			walk(arg, owningSheetKey, casefold, emit)
		}
	}
}
