// Package rewrite transforms formula text under cell relocation and
// sheet rename, operating on tokens rather than the parsed AST so that
// whitespace and user formatting survive wherever the rewrite left a
// token untouched.
package rewrite

import (
	"github.com/broyeztony/sheets/lexer"
	"github.com/broyeztony/sheets/token"
)

type spannedToken struct {
	tok token.Token
	raw string // verbatim source bytes this token occupied
}

func tokenize(formulaSrc string) []spannedToken {
	l := lexer.New(formulaSrc)
	var toks []spannedToken
	for {
		t := l.NextToken()
		if t.Type == token.EOF {
			break
		}
		end := l.Offset()
		toks = append(toks, spannedToken{tok: t, raw: formulaSrc[t.Offset:end]})
	}
	return toks
}
