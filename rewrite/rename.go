package rewrite

import (
	"strings"

	"github.com/broyeztony/sheets/token"
)

// Rename replaces every syntactic sheet qualifier in formulaSrc that
// case-insensitively matches oldName with newName (quoted or
// unquoted as newName's characters require), leaving everything else
// untouched. A qualifier is recognized as a QUOTED, IDENT or REF
// token (a name ending in digits, such as Sheet1, lexes as REF)
// immediately followed by '!'.
func Rename(formulaSrc, oldName, newName string) string {
	toks := tokenize(formulaSrc)
	replacement := newName
	if needsQuoting(newName) {
		replacement = "'" + strings.ReplaceAll(newName, "'", "''") + "'"
	}

	var out strings.Builder
	prevEnd := 0
	for i, st := range toks {
		out.WriteString(formulaSrc[prevEnd:st.tok.Offset])
		if isSheetQualifier(toks, i) && strings.EqualFold(st.tok.Literal, oldName) {
			out.WriteString(replacement)
		} else {
			out.WriteString(st.raw)
		}
		prevEnd = st.tok.Offset + len(st.raw)
	}
	out.WriteString(formulaSrc[prevEnd:])
	return out.String()
}

func isSheetQualifier(toks []spannedToken, i int) bool {
	if toks[i].tok.Type != token.IDENT && toks[i].tok.Type != token.QUOTED && toks[i].tok.Type != token.REF {
		return false
	}
	return i+1 < len(toks) && toks[i+1].tok.Type == token.BANG
}

// needsQuoting reports whether name must be single-quote wrapped to
// appear as a sheet qualifier: anything outside [A-Za-z0-9_].
func needsQuoting(name string) bool {
	if name == "" {
		return true
	}
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return true
		}
	}
	return false
}
