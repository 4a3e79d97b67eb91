// Package ast defines the formula grammar's syntax tree: literals,
// unary/binary operators, cell references, and function calls.
package ast

import "github.com/broyeztony/sheets/token"

type Node interface {
	TokenLiteral() string
}

type Expression interface {
	Node
	expressionNode()
}

// NumberLiteral is a decimal literal with no exponent form, e.g. "12.50".
type NumberLiteral struct {
	Token token.Token
	Text  string // verbatim source text, parsed into a Decimal by the value package
}

func (n *NumberLiteral) expressionNode()      {}
func (n *NumberLiteral) TokenLiteral() string { return n.Token.Literal }

type StringLiteral struct {
	Token token.Token
	Value string
}

func (s *StringLiteral) expressionNode()      {}
func (s *StringLiteral) TokenLiteral() string { return s.Token.Literal }

type BoolLiteral struct {
	Token token.Token
	Value bool
}

func (b *BoolLiteral) expressionNode()      {}
func (b *BoolLiteral) TokenLiteral() string { return b.Token.Literal }

// ErrorLiteral is a literal like #VALUE! or #DIV/0! appearing directly in
// formula text. Kind is resolved by the parser against the known set.
type ErrorLiteral struct {
	Token token.Token
	Text  string // e.g. "#DIV/0!"
}

func (e *ErrorLiteral) expressionNode()      {}
func (e *ErrorLiteral) TokenLiteral() string { return e.Token.Literal }

// CellRef is a single-cell reference, optionally sheet-qualified.
// Sheet is nil for an unqualified reference (resolved to the owning
// cell's sheet at evaluation time).
type CellRef struct {
	Token     token.Token
	Sheet     *string // display text as written, nil if unqualified
	SheetWasQuoted bool
	Addr      string // e.g. "$A$1", case preserved as written
}

func (c *CellRef) expressionNode()      {}
func (c *CellRef) TokenLiteral() string { return c.Token.Literal }

// PrefixExpression is a unary "+x" or "-x".
type PrefixExpression struct {
	Token    token.Token
	Operator string
	Right    Expression
}

func (p *PrefixExpression) expressionNode()      {}
func (p *PrefixExpression) TokenLiteral() string { return p.Token.Literal }

// InfixExpression covers arithmetic, concatenation, and comparison.
type InfixExpression struct {
	Token    token.Token
	Left     Expression
	Operator string
	Right    Expression
}

func (i *InfixExpression) expressionNode()      {}
func (i *InfixExpression) TokenLiteral() string { return i.Token.Literal }

// CallExpression is NAME(arg, arg, ...).
type CallExpression struct {
	Token     token.Token
	Function  string
	Arguments []Expression
}

func (c *CallExpression) expressionNode()      {}
func (c *CallExpression) TokenLiteral() string { return c.Token.Literal }
