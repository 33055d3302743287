package parser

import (
	"github.com/pyscribe/pyscribe/internal/ast"
	"github.com/pyscribe/pyscribe/internal/diagnostics"
	"github.com/pyscribe/pyscribe/internal/token"
)

// Parser holds the state of our parser. It walks a fully-scanned token
// slice with one token of committed lookahead; a few statement forms
// scan further ahead to disambiguate soft keywords.
type Parser struct {
	tokens    []token.Token
	pos       int // index of the token after peekToken within tokens
	curToken  token.Token
	peekToken token.Token

	errors []*diagnostics.DiagnosticError

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Precedence constants, lowest to highest.
const (
	LOWEST      = iota
	TERNARY     // lambda, x if c else y, walrus
	LOGIC_OR    // or
	LOGIC_AND   // and
	LOGIC_NOT   // not x
	COMPARISON  // < <= > >= == != in, not in, is, is not (non-associative)
	BITWISE_OR  // |
	BITWISE_XOR // ^
	BITWISE_AND // &
	SHIFT       // << >>
	SUM         // + -
	PRODUCT     // * / // % @
	PREFIX      // unary + - ~
	POWER       // ** (right-associative)
	AWAIT_PREC  // await x
	CALL        // trailers: .attr [index] (args)
)

var precedences = map[token.TokenType]int{
	token.IF:     TERNARY,
	token.WALRUS: TERNARY,
	token.OR:     LOGIC_OR,
	token.AND:    LOGIC_AND,

	token.LT:     COMPARISON,
	token.GT:     COMPARISON,
	token.LTE:    COMPARISON,
	token.GTE:    COMPARISON,
	token.EQ:     COMPARISON,
	token.NOT_EQ: COMPARISON,
	token.IN:     COMPARISON,
	token.IS:     COMPARISON,
	token.NOT:    COMPARISON, // "not in" in infix position

	token.PIPE:        BITWISE_OR,
	token.CARET:       BITWISE_XOR,
	token.AMPERSAND:   BITWISE_AND,
	token.LSHIFT:      SHIFT,
	token.RSHIFT:      SHIFT,
	token.PLUS:        SUM,
	token.MINUS:       SUM,
	token.STAR:        PRODUCT,
	token.SLASH:       PRODUCT,
	token.DOUBLESLASH: PRODUCT,
	token.PERCENT:     PRODUCT,
	token.AT:          PRODUCT,
	token.POWER:       POWER,

	token.DOT:      CALL,
	token.LBRACKET: CALL,
	token.LPAREN:   CALL,
}

// New builds a parser over a complete token sequence (as produced by
// lexer.Tokenize).
func New(tokens []token.Token) *Parser {
	p := &Parser{tokens: tokens}

	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.registerPrefix(token.NAME, p.parseIdentifier)
	p.registerPrefix(token.NUMBER, p.parseNumberLiteral)
	p.registerPrefix(token.STRING, p.parseStrings)
	p.registerPrefix(token.BYTES, p.parseStrings)
	p.registerPrefix(token.FSTRING_START, p.parseStrings)
	p.registerPrefix(token.TRUE, p.parseBooleanLiteral)
	p.registerPrefix(token.FALSE, p.parseBooleanLiteral)
	p.registerPrefix(token.NONE, p.parseNoneLiteral)
	p.registerPrefix(token.ELLIPSIS, p.parseEllipsisLiteral)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.LBRACKET, p.parseListLiteral)
	p.registerPrefix(token.LBRACE, p.parseBraceDisplay)
	p.registerPrefix(token.MINUS, p.parsePrefixExpression)
	p.registerPrefix(token.PLUS, p.parsePrefixExpression)
	p.registerPrefix(token.TILDE, p.parsePrefixExpression)
	p.registerPrefix(token.NOT, p.parseNotExpression)
	p.registerPrefix(token.LAMBDA, p.parseLambda)
	p.registerPrefix(token.AWAIT, p.parseAwait)
	p.registerPrefix(token.YIELD, p.parseYield)

	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	for _, tt := range []token.TokenType{
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.DOUBLESLASH,
		token.PERCENT, token.AT, token.AMPERSAND, token.PIPE, token.CARET,
		token.LSHIFT, token.RSHIFT,
	} {
		p.registerInfix(tt, p.parseInfixExpression)
	}
	p.registerInfix(token.POWER, p.parsePowerExpression)
	for _, tt := range []token.TokenType{
		token.LT, token.GT, token.LTE, token.GTE, token.EQ, token.NOT_EQ,
		token.IN, token.IS, token.NOT,
	} {
		p.registerInfix(tt, p.parseComparison)
	}
	p.registerInfix(token.AND, p.parseBoolOp)
	p.registerInfix(token.OR, p.parseBoolOp)
	p.registerInfix(token.IF, p.parseIfExpression)
	p.registerInfix(token.WALRUS, p.parseNamedExpr)
	p.registerInfix(token.DOT, p.parseAttribute)
	p.registerInfix(token.LBRACKET, p.parseSubscript)
	p.registerInfix(token.LPAREN, p.parseCall)

	p.nextToken()
	p.nextToken()

	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	if p.pos < len(p.tokens) {
		p.peekToken = p.tokens[p.pos]
		p.pos++
	} else {
		p.peekToken = token.Token{Type: token.ENDMARKER}
	}
}

// peekAhead returns the token n positions past peekToken (peekAhead(0)
// is peekToken itself) without consuming anything.
func (p *Parser) peekAhead(n int) token.Token {
	if n == 0 {
		return p.peekToken
	}
	idx := p.pos + n - 1
	if idx < len(p.tokens) {
		return p.tokens[idx]
	}
	return token.Token{Type: token.ENDMARKER}
}

// ParseModule parses a whole module. The first error aborts; no
// partial AST is returned.
func (p *Parser) ParseModule() *ast.Module {
	module := &ast.Module{}

	for !p.curTokenIs(token.ENDMARKER) {
		if p.curTokenIs(token.NEWLINE) {
			p.nextToken()
			continue
		}
		stmts := p.parseStatement()
		if len(p.errors) > 0 {
			return nil
		}
		module.Body = append(module.Body, stmts...)
		p.nextToken()
	}
	return module
}

// ParseExpressionSource parses a single expression (the expression form
// of the module root). Trailing NEWLINE tokens are permitted.
func (p *Parser) ParseExpressionSource() ast.Expression {
	expr := p.parseTestListStarExpr(false)
	if len(p.errors) > 0 {
		return nil
	}
	p.nextToken()
	for p.curTokenIs(token.NEWLINE) {
		p.nextToken()
	}
	if !p.curTokenIs(token.ENDMARKER) {
		p.addError(diagnostics.ErrP004, p.curToken, p.curToken.Lexeme)
		return nil
	}
	return expr
}

// Errors returns the accumulated parse errors (at most one under the
// first-error-aborts contract).
func (p *Parser) Errors() []*diagnostics.DiagnosticError {
	return p.errors
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

// curIsName reports whether the current token is the given soft
// keyword (match, case, type, _ lex as NAME).
func (p *Parser) curIsName(name string) bool {
	return p.curToken.Type == token.NAME && p.curToken.Lexeme == name
}

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t token.TokenType) {
	p.addError(diagnostics.ErrP001, p.peekToken, t, p.peekToken.Type)
}

func (p *Parser) addError(code diagnostics.ErrorCode, tok token.Token, args ...interface{}) {
	if len(p.errors) > 0 {
		return
	}
	p.errors = append(p.errors, diagnostics.NewParserError(code, tok, args...))
}

func (p *Parser) noPrefixParseFnError(tok token.Token) {
	p.addError(diagnostics.ErrP004, tok, tok.Lexeme)
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

// startsExpression reports whether a token can begin an expression.
func (p *Parser) startsExpression(tok token.Token) bool {
	if _, ok := p.prefixParseFns[tok.Type]; ok {
		return true
	}
	return tok.Type == token.STAR
}

// lineHasColon scans forward on the current logical line for a ':' at
// bracket depth zero. This is the bounded lookahead used to recognize
// the soft keywords match and case in statement position.
func (p *Parser) lineHasColon() bool {
	depth := 0
	for i := p.pos - 1; i < len(p.tokens); i++ {
		switch p.tokens[i].Type {
		case token.LPAREN, token.LBRACKET, token.LBRACE:
			depth++
		case token.RPAREN, token.RBRACKET, token.RBRACE:
			depth--
		case token.COLON:
			if depth == 0 {
				return true
			}
		case token.ASSIGN, token.SEMI:
			if depth == 0 {
				return false
			}
		case token.LAMBDA:
			// a lambda's ':' is its own; skip to balance by ignoring
			// the next depth-0 colon
			for i++; i < len(p.tokens); i++ {
				t := p.tokens[i].Type
				if t == token.LPAREN || t == token.LBRACKET || t == token.LBRACE {
					depth++
				} else if t == token.RPAREN || t == token.RBRACKET || t == token.RBRACE {
					depth--
				} else if t == token.COLON && depth == 0 {
					break
				} else if t == token.NEWLINE || t == token.ENDMARKER {
					return false
				}
			}
		case token.NEWLINE, token.ENDMARKER:
			return false
		}
	}
	return false
}
