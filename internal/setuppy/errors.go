package setuppy

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Extract.
var (
	ErrNoSetupCall           = errors.New("no setup() call found")
	ErrUnsupportedExpression = errors.New("unsupported expression")
	ErrParse                 = errors.New("parse error")
)

// Position is a location in a setup.py source file.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// ParseError is returned when setup.py cannot be parsed.
type ParseError struct {
	File    string
	Pos     Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: parse error at %s: %s", e.File, e.Pos, e.Message)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// ExprError reports a keyword argument whose value is not a constant, a list
// of constants or a call wrapping one.
type ExprError struct {
	Pos     Position
	Keyword string
	// Kind describes the rejected node, e.g. "dict" or "binary +".
	Kind string
}

func (e *ExprError) Error() string {
	return fmt.Sprintf("%s: %s %s for keyword %q", e.Pos, ErrUnsupportedExpression, e.Kind, e.Keyword)
}

func (e *ExprError) Unwrap() error { return ErrUnsupportedExpression }
