// Package lexer tokenizes formula text (the part of a cell's contents
// after a leading "="). It never sees the leading "=" or a leading "'"
// quote marker — those are stripped by the caller before lexing.
package lexer

import (
	"strings"

	"github.com/broyeztony/sheets/token"
)

type Lexer struct {
	input        string
	position     int
	readPosition int
	ch           byte
	line         int
	column       int
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

// Offset returns the byte offset just past the most recently returned
// token (i.e. before any whitespace preceding the next one). The
// rewrite package uses this to copy untouched source verbatim between
// tokens it does not rewrite.
func (l *Lexer) Offset() int { return l.position }

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	startLine, startCol, startOffset := l.line, l.column, l.position
	finish := func(t token.TokenType, lit string) token.Token {
		l.readChar()
		return token.Token{Type: t, Literal: lit, Line: startLine, Column: startCol, Offset: startOffset}
	}
	pos := func(t token.Token) token.Token {
		t.Line, t.Column, t.Offset = startLine, startCol, startOffset
		return t
	}

	switch l.ch {
	case 0:
		return token.Token{Type: token.EOF, Line: startLine, Column: startCol, Offset: startOffset}
	case '+':
		return finish(token.PLUS, "+")
	case '-':
		return finish(token.MINUS, "-")
	case '*':
		return finish(token.ASTERISK, "*")
	case '/':
		return finish(token.SLASH, "/")
	case '&':
		return finish(token.AMP, "&")
	case '(':
		return finish(token.LPAREN, "(")
	case ')':
		return finish(token.RPAREN, ")")
	case ',':
		return finish(token.COMMA, ",")
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			return finish(token.BANGEQ, "!=")
		}
		return finish(token.BANG, "!")
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			return finish(token.EQ, "==")
		}
		return finish(token.ASSIGN, "=")
	case '<':
		switch l.peekChar() {
		case '=':
			l.readChar()
			return finish(token.LE, "<=")
		case '>':
			l.readChar()
			return finish(token.NEQ, "<>")
		default:
			return finish(token.LT, "<")
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			return finish(token.GE, ">=")
		}
		return finish(token.GT, ">")
	case '"':
		lit, ok := l.readString()
		if !ok {
			return pos(token.Token{Type: token.ILLEGAL, Literal: lit})
		}
		return pos(token.Token{Type: token.STRING, Literal: lit})
	case '\'':
		lit, ok := l.readQuotedSheetName()
		if !ok {
			return pos(token.Token{Type: token.ILLEGAL, Literal: lit})
		}
		return pos(token.Token{Type: token.QUOTED, Literal: lit})
	case '#':
		lit, ok := l.readErrorLiteral()
		if !ok {
			return pos(token.Token{Type: token.ILLEGAL, Literal: lit})
		}
		return pos(token.Token{Type: token.ERRORLIT, Literal: lit})
	}

	if isDigit(l.ch) {
		return pos(token.Token{Type: token.NUMBER, Literal: l.readNumber()})
	}
	if l.ch == '$' || isLetter(l.ch) {
		typ, lit := l.readRefOrIdent()
		return pos(token.Token{Type: typ, Literal: lit})
	}

	return finish(token.ILLEGAL, string(l.ch))
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) readNumber() string {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[start:l.position]
}

// readRefOrIdent consumes $?[A-Za-z]+$?[0-9]* and classifies the result:
// a trailing digit run makes it a REF (cell address candidate, validated
// later by the address package); otherwise, absent any '$', it is a bare
// IDENT (function name, boolean literal, or unquoted sheet qualifier —
// disambiguated by the parser via a following '!').
func (l *Lexer) readRefOrIdent() (token.TokenType, string) {
	start := l.position
	if l.ch == '$' {
		l.readChar()
	}
	lettersStart := l.position
	for isLetter(l.ch) {
		l.readChar()
	}
	hadLetters := l.position > lettersStart
	sawSecondDollar := false
	if l.ch == '$' {
		sawSecondDollar = true
		l.readChar()
	}
	digitsStart := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	hadDigits := l.position > digitsStart
	literal := l.input[start:l.position]
	if !hadLetters {
		return token.ILLEGAL, literal
	}
	if hadDigits || sawSecondDollar || literal[0] == '$' {
		return token.REF, literal
	}
	return token.IDENT, literal
}

func (l *Lexer) readString() (string, bool) {
	l.readChar() // consume opening quote
	var out strings.Builder
	for {
		if l.ch == 0 {
			return out.String(), false
		}
		if l.ch == '"' {
			l.readChar()
			return out.String(), true
		}
		out.WriteByte(l.ch)
		l.readChar()
	}
}

// readQuotedSheetName reads 'Quoted Sheet Name', treating '' as an escaped
// single quote inside the name (the common spreadsheet convention).
func (l *Lexer) readQuotedSheetName() (string, bool) {
	l.readChar() // consume opening quote
	var out strings.Builder
	for {
		if l.ch == 0 {
			return out.String(), false
		}
		if l.ch == '\'' {
			if l.peekChar() == '\'' {
				out.WriteByte('\'')
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar()
			return out.String(), true
		}
		out.WriteByte(l.ch)
		l.readChar()
	}
}

// readErrorLiteral reads a "#..." token through its terminating '!' or
// '?'. It does not validate against the known error-kind set; that is
// the parser's job (so an unrecognized "#FOO!" is a normal parse error).
func (l *Lexer) readErrorLiteral() (string, bool) {
	start := l.position
	l.readChar() // consume '#'
	for {
		if l.ch == 0 {
			return l.input[start:l.position], false
		}
		if l.ch == '!' || l.ch == '?' {
			l.readChar()
			return l.input[start:l.position], true
		}
		l.readChar()
	}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
