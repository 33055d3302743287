package diagnostics

import (
	"fmt"

	"github.com/pyscribe/pyscribe/internal/token"
)

// Phase represents the processing phase where an error occurred
type Phase string

const (
	PhaseLexer  Phase = "lexer"
	PhaseParser Phase = "parser"
)

type ErrorCode string

const (
	// Lexer Errors
	ErrL001 ErrorCode = "L001" // Stray character
	ErrL002 ErrorCode = "L002" // Unterminated string literal
	ErrL003 ErrorCode = "L003" // Invalid numeric literal
	ErrL004 ErrorCode = "L004" // Inconsistent dedent
	ErrL005 ErrorCode = "L005" // Ambiguous tab/space indentation
	ErrL006 ErrorCode = "L006" // Invalid escape sequence
	ErrL007 ErrorCode = "L007" // Malformed f-string

	// Parser Errors
	ErrP001 ErrorCode = "P001" // Expected token, got other
	ErrP002 ErrorCode = "P002" // Expected token in context
	ErrP003 ErrorCode = "P003" // Expected a name
	ErrP004 ErrorCode = "P004" // Unexpected token
	ErrP005 ErrorCode = "P005" // Structural syntax error
)

// Kind is the coarse classification exposed to external tools
// (IDE adapters key off it).
type Kind string

const (
	KindExpectedToken   Kind = "expected_token"
	KindExpected        Kind = "expected"
	KindExpectedName    Kind = "expected_name"
	KindUnexpectedToken Kind = "unexpected_token"
	KindSyntaxError     Kind = "syntax_error"
)

var errorTemplates = map[ErrorCode]string{
	ErrL001: "stray character: %q",
	ErrL002: "unterminated %s literal",
	ErrL003: "invalid numeric literal: %s",
	ErrL004: "unindent does not match any outer indentation level",
	ErrL005: "inconsistent use of tabs and spaces in indentation",
	ErrL006: "invalid escape sequence '\\%s'",
	ErrL007: "f-string: %s",
	ErrP001: "expected '%s', but got '%s'",
	ErrP002: "expected '%s' %s, but got '%s'",
	ErrP003: "expected a name, but got '%s'",
	ErrP004: "unexpected token '%s'",
	ErrP005: "%s",
}

var errorKinds = map[ErrorCode]Kind{
	ErrL001: KindSyntaxError,
	ErrL002: KindSyntaxError,
	ErrL003: KindSyntaxError,
	ErrL004: KindSyntaxError,
	ErrL005: KindSyntaxError,
	ErrL006: KindSyntaxError,
	ErrL007: KindSyntaxError,
	ErrP001: KindExpectedToken,
	ErrP002: KindExpected,
	ErrP003: KindExpectedName,
	ErrP004: KindUnexpectedToken,
	ErrP005: KindSyntaxError,
}

type DiagnosticError struct {
	Code  ErrorCode
	Phase Phase
	Args  []interface{}
	Token token.Token
	File  string
}

func (e *DiagnosticError) Error() string {
	template, ok := errorTemplates[e.Code]
	if !ok {
		return fmt.Sprintf("unknown error code: %s", e.Code)
	}

	message := fmt.Sprintf(template, e.Args...)

	prefix := ""
	if e.File != "" {
		prefix = fmt.Sprintf("%s: ", e.File)
	}

	phaseStr := ""
	if e.Phase != "" {
		phaseStr = fmt.Sprintf("[%s] ", e.Phase)
	}

	if e.Token.Line > 0 {
		return fmt.Sprintf("%s%serror at %d:%d [%s]: %s", prefix, phaseStr, e.Token.Line, e.Token.Column, e.Code, message)
	}
	return fmt.Sprintf("%s%serror [%s]: %s", prefix, phaseStr, e.Code, message)
}

// Kind returns the coarse error classification for this code.
func (e *DiagnosticError) Kind() Kind {
	if k, ok := errorKinds[e.Code]; ok {
		return k
	}
	return KindSyntaxError
}

// Line returns the 1-based source line of the offending token.
func (e *DiagnosticError) Line() int { return e.Token.Line }

// Column returns the 1-based source column of the offending token.
func (e *DiagnosticError) Column() int { return e.Token.Column }

// NewError creates an error with just code and token
func NewError(code ErrorCode, tok token.Token, args ...interface{}) *DiagnosticError {
	return &DiagnosticError{
		Code:  code,
		Token: tok,
		Args:  args,
	}
}

// NewPhaseError creates an error with phase information
func NewPhaseError(phase Phase, code ErrorCode, tok token.Token, args ...interface{}) *DiagnosticError {
	return &DiagnosticError{
		Code:  code,
		Phase: phase,
		Token: tok,
		Args:  args,
	}
}

// NewLexerError creates a lexer phase error
func NewLexerError(code ErrorCode, tok token.Token, args ...interface{}) *DiagnosticError {
	return NewPhaseError(PhaseLexer, code, tok, args...)
}

// NewParserError creates a parser phase error
func NewParserError(code ErrorCode, tok token.Token, args ...interface{}) *DiagnosticError {
	return NewPhaseError(PhaseParser, code, tok, args...)
}
