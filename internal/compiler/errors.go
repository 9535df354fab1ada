package compiler

import (
	"errors"
	"fmt"

	"github.com/xirelogy/go-exprvm/internal/token"
)

// Error kinds. Every *Error unwraps to exactly one of these.
var (
	ErrSyntax         = errors.New("syntax error")
	ErrUnbalanced     = errors.New("unbalanced brackets")
	ErrMissingOperand = errors.New("missing operand")
	ErrUndefined      = errors.New("undefined identifier")
	ErrCount          = errors.New("wrong number of expressions")
	ErrNumber         = errors.New("malformed number")
	ErrArity          = errors.New("wrong number of builtin arguments")
	ErrLimit          = errors.New("compiler limit exceeded")
	ErrTableUse       = errors.New("invalid table use")
)

// Error is a compile failure positioned at the offending token.
type Error struct {
	Kind    error
	Token   token.Token
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s: %s", e.Token.Pos.Line, e.Token.Pos.Column, e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, tok token.Token, format string, args ...any) *Error {
	return &Error{Kind: kind, Token: tok, Message: fmt.Sprintf(format, args...)}
}

// describe renders a token for messages.
func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.Newline:
		return "newline"
	}
	if tok.Literal == "" {
		return string(tok.Type)
	}
	return fmt.Sprintf("'%s'", tok.Literal)
}
