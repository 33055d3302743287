package pyscribe

import (
	"github.com/pyscribe/pyscribe/internal/ast"
	"github.com/pyscribe/pyscribe/internal/diagnostics"
	"github.com/pyscribe/pyscribe/internal/lexer"
	"github.com/pyscribe/pyscribe/internal/parser"
	"github.com/pyscribe/pyscribe/internal/prettyprinter"
	"github.com/pyscribe/pyscribe/internal/token"
)

// Token is a lexical token with positions.
type Token = token.Token

// TokenType identifies a token's kind.
type TokenType = token.TokenType

// Node is any AST node.
type Node = ast.Node

// Module is the AST root.
type Module = ast.Module

// Statement is any statement node.
type Statement = ast.Statement

// Expression is any expression node.
type Expression = ast.Expression

// Pattern is any match-statement pattern node.
type Pattern = ast.Pattern

// Error is a positioned lexer or parser error.
type Error = diagnostics.DiagnosticError

// PrintConfig is the unparser's formatting context.
type PrintConfig = prettyprinter.Config

// Tokenize scans src into its full token sequence, ending with
// ENDMARKER, or returns the first lexical error.
func Tokenize(src []byte) ([]Token, error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

// Parse scans and parses src into a Module, or returns the first
// error.
func Parse(src []byte) (*Module, error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	return ParseTokens(tokens)
}

// ParseTokens parses an already-scanned token sequence.
func ParseTokens(tokens []Token) (*Module, error) {
	p := parser.New(tokens)
	module := p.ParseModule()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, errs[0]
	}
	return module, nil
}

// ParseExpr parses src as a single expression (the expression form of
// the module root).
func ParseExpr(src []byte) (Expression, error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := parser.New(tokens)
	expr := p.ParseExpressionSource()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, errs[0]
	}
	return expr, nil
}

// Unparse regenerates Python source from an AST node using the default
// formatting context.
func Unparse(node Node) string {
	return prettyprinter.NewCodePrinter().PrintNode(node)
}

// UnparseWith regenerates Python source using an explicit formatting
// context.
func UnparseWith(node Node, cfg PrintConfig) string {
	return prettyprinter.NewCodePrinterWithConfig(cfg).PrintNode(node)
}
