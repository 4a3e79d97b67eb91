// Package parser turns formula text into an ast.Expression via a
// Pratt (precedence-climbing) recursive descent parser, in the same
// prefix/infix-function-table style used elsewhere in this codebase.
//
// Grammar (low to high precedence): comparison < concat < add/sub <
// mul/div < unary < atom. AND/OR/NOT are ordinary builtin functions,
// not operators, so they parse as plain call expressions and do not
// need their own precedence levels.
package parser

import (
	"fmt"
	"strings"

	"github.com/broyeztony/sheets/ast"
	"github.com/broyeztony/sheets/lexer"
	"github.com/broyeztony/sheets/token"
)

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

type Parser struct {
	l *lexer.Lexer

	curToken  token.Token
	peekToken token.Token

	errs []ParseError

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

const (
	_ int = iota
	LOWEST
	COMPARISON
	CONCAT
	SUM
	PRODUCT
	PREFIX
)

var precedences = map[token.TokenType]int{
	token.ASSIGN: COMPARISON,
	token.EQ:     COMPARISON,
	token.NEQ:    COMPARISON,
	token.BANGEQ: COMPARISON,
	token.LT:     COMPARISON,
	token.GT:     COMPARISON,
	token.LE:     COMPARISON,
	token.GE:     COMPARISON,
	token.AMP:    CONCAT,
	token.PLUS:   SUM,
	token.MINUS:  SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.prefixParseFns = map[token.TokenType]prefixParseFn{
		token.NUMBER:   p.parseNumber,
		token.STRING:   p.parseString,
		token.ERRORLIT: p.parseErrorLiteral,
		token.LPAREN:   p.parseGrouped,
		token.PLUS:     p.parsePrefix,
		token.MINUS:    p.parsePrefix,
		token.REF:      p.parseRefOrQualified,
		token.IDENT:    p.parseIdentOrCallOrQualified,
		token.QUOTED:   p.parseQuotedQualified,
	}
	p.infixParseFns = map[token.TokenType]infixParseFn{
		token.ASSIGN:   p.parseInfix,
		token.EQ:       p.parseInfix,
		token.NEQ:      p.parseInfix,
		token.BANGEQ:   p.parseInfix,
		token.LT:       p.parseInfix,
		token.GT:       p.parseInfix,
		token.LE:       p.parseInfix,
		token.GE:       p.parseInfix,
		token.AMP:      p.parseInfix,
		token.PLUS:     p.parseInfix,
		token.MINUS:    p.parseInfix,
		token.ASTERISK: p.parseInfix,
		token.SLASH:    p.parseInfix,
	}

	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses formula source (without the leading "=") into a single
// expression. A non-empty Errors() result means the formula is invalid;
// the caller must not inspect the returned expression.
func Parse(src string) (ast.Expression, []ParseError) {
	p := New(lexer.New(src))
	expr := p.parseExpression(LOWEST)
	if p.curToken.Type != token.EOF {
		p.errorf("unexpected trailing input %q", p.curToken.Literal)
	}
	return expr, p.errs
}

func (p *Parser) Errors() []ParseError { return p.errs }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.errs = append(p.errs, ParseError{Message: fmt.Sprintf(format, args...), Token: p.curToken})
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekToken.Type != t {
		p.errorf("expected %s, got %s %q", t, p.peekToken.Type, p.peekToken.Literal)
		return false
	}
	p.nextToken()
	return true
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.errorf("unexpected token %s %q", p.curToken.Type, p.curToken.Literal)
		return nil
	}
	left := prefix()

	for p.peekToken.Type != token.EOF && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseNumber() ast.Expression {
	return &ast.NumberLiteral{Token: p.curToken, Text: p.curToken.Literal}
}

func (p *Parser) parseString() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

var errorKinds = map[string]bool{
	"#ERROR!":   true,
	"#CIRCREF!": true,
	"#REF!":     true,
	"#NAME?":    true,
	"#VALUE!":   true,
	"#DIV/0!":   true,
}

func (p *Parser) parseErrorLiteral() ast.Expression {
	if !errorKinds[strings.ToUpper(p.curToken.Literal)] {
		p.errorf("unknown error literal %q", p.curToken.Literal)
		return nil
	}
	return &ast.ErrorLiteral{Token: p.curToken, Text: strings.ToUpper(p.curToken.Literal)}
}

func (p *Parser) parseGrouped() ast.Expression {
	p.nextToken()
	exp := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return exp
}

func (p *Parser) parsePrefix() ast.Expression {
	tok := p.curToken
	p.nextToken()
	right := p.parseExpression(PREFIX)
	return &ast.PrefixExpression{Token: tok, Operator: tok.Literal, Right: right}
}

func (p *Parser) parseInfix(left ast.Expression) ast.Expression {
	tok := p.curToken
	op := tok.Literal
	switch tok.Type {
	case token.ASSIGN:
		op = "="
	case token.BANGEQ:
		op = "<>"
	}
	precedence := p.peekPrecedence()
	if pr, ok := precedences[tok.Type]; ok {
		precedence = pr
	}
	p.nextToken()
	right := p.parseExpression(precedence)
	return &ast.InfixExpression{Token: tok, Left: left, Operator: op, Right: right}
}

// parseRefOrQualified parses a REF-lexed token that is either a plain
// same-sheet cell reference, or (if followed by '!') an unquoted sheet
// qualifier whose address follows.
func (p *Parser) parseRefOrQualified() ast.Expression {
	tok := p.curToken
	if p.peekToken.Type == token.BANG {
		sheet := tok.Literal
		p.nextToken() // consume BANG
		if !p.expectPeek(token.REF) {
			return nil
		}
		return &ast.CellRef{Token: tok, Sheet: &sheet, Addr: p.curToken.Literal}
	}
	return &ast.CellRef{Token: tok, Addr: tok.Literal}
}

func (p *Parser) parseQuotedQualified() ast.Expression {
	tok := p.curToken
	sheet := tok.Literal
	if !p.expectPeek(token.BANG) {
		return nil
	}
	if !p.expectPeek(token.REF) {
		return nil
	}
	return &ast.CellRef{Token: tok, Sheet: &sheet, SheetWasQuoted: true, Addr: p.curToken.Literal}
}

// parseIdentOrCallOrQualified resolves a bare IDENT atom: TRUE/FALSE
// literal, unquoted sheet qualifier, or function call.
func (p *Parser) parseIdentOrCallOrQualified() ast.Expression {
	tok := p.curToken
	lit := tok.Literal

	if p.peekToken.Type == token.BANG {
		sheet := lit
		p.nextToken()
		if !p.expectPeek(token.REF) {
			return nil
		}
		return &ast.CellRef{Token: tok, Sheet: &sheet, Addr: p.curToken.Literal}
	}

	if p.peekToken.Type == token.LPAREN {
		p.nextToken() // on LPAREN
		args := p.parseCallArguments()
		return &ast.CallExpression{Token: tok, Function: strings.ToUpper(lit), Arguments: args}
	}

	switch strings.ToUpper(lit) {
	case "TRUE":
		return &ast.BoolLiteral{Token: tok, Value: true}
	case "FALSE":
		return &ast.BoolLiteral{Token: tok, Value: false}
	}

	p.errorf("unexpected identifier %q", lit)
	return nil
}

func (p *Parser) parseCallArguments() []ast.Expression {
	var args []ast.Expression
	if p.peekToken.Type == token.RPAREN {
		p.nextToken()
		return args
	}
	p.nextToken()
	args = append(args, p.parseExpression(LOWEST))
	for p.peekToken.Type == token.COMMA {
		p.nextToken()
		p.nextToken()
		args = append(args, p.parseExpression(LOWEST))
	}
	if !p.expectPeek(token.RPAREN) {
		return args
	}
	return args
}
