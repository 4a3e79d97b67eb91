package parser

import "github.com/broyeztony/sheets/token"

// ParseError is an opaque marker: the caller (the evaluator, via the
// workbook orchestrator) turns any non-empty error list into a single
// Error(Parse) value and skips dependency extraction for that cell.
type ParseError struct {
	Message string
	Token   token.Token
}

func (e ParseError) Error() string {
	return e.Message
}
