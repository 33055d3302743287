package parser

import (
	"github.com/pyscribe/pyscribe/internal/ast"
	"github.com/pyscribe/pyscribe/internal/diagnostics"
	"github.com/pyscribe/pyscribe/internal/token"
)

// patternStart reports whether a token can begin a pattern.
func patternStart(tok token.Token) bool {
	switch tok.Type {
	case token.NAME, token.NUMBER, token.STRING, token.BYTES, token.MINUS,
		token.LPAREN, token.LBRACKET, token.LBRACE, token.STAR,
		token.TRUE, token.FALSE, token.NONE:
		return true
	}
	return false
}

// parseOpenSequencePattern parses the comma form allowed directly
// after `case`: a bare `a, b` is a sequence pattern without brackets.
func (p *Parser) parseOpenSequencePattern() ast.Pattern {
	first := p.parsePattern()
	if first == nil {
		return nil
	}
	if !p.peekTokenIs(token.COMMA) {
		return first
	}
	seq := &ast.MatchSequence{Token: first.GetToken(), Patterns: []ast.Pattern{first}}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if !patternStart(p.peekToken) {
			break
		}
		p.nextToken()
		el := p.parsePattern()
		if el == nil {
			return nil
		}
		seq.Patterns = append(seq.Patterns, el)
	}
	if !p.checkSingleStar(seq) {
		return nil
	}
	return seq
}

// parsePattern parses an or-pattern with an optional trailing
// as-capture.
func (p *Parser) parsePattern() ast.Pattern {
	pat := p.parseOrPattern()
	if pat == nil {
		return nil
	}
	if p.peekTokenIs(token.AS) {
		asTok := p.peekToken
		p.nextToken()
		if !p.expectPeek(token.NAME) {
			return nil
		}
		if p.curToken.Lexeme == "_" {
			p.addError(diagnostics.ErrP005, p.curToken, "cannot use '_' as a target")
			return nil
		}
		return &ast.MatchAs{Token: asTok, Pattern: pat, Name: p.curToken.Lexeme}
	}
	return pat
}

func (p *Parser) parseOrPattern() ast.Pattern {
	first := p.parseClosedPattern()
	if first == nil {
		return nil
	}
	if !p.peekTokenIs(token.PIPE) {
		return first
	}
	or := &ast.MatchOr{Token: first.GetToken(), Patterns: []ast.Pattern{first}}
	for p.peekTokenIs(token.PIPE) {
		p.nextToken()
		p.nextToken()
		alt := p.parseClosedPattern()
		if alt == nil {
			return nil
		}
		or.Patterns = append(or.Patterns, alt)
	}
	return or
}

func (p *Parser) parseClosedPattern() ast.Pattern {
	switch p.curToken.Type {
	case token.NUMBER, token.MINUS:
		return p.parseNumberPattern()
	case token.STRING, token.BYTES:
		return p.parseStringPattern()
	case token.FSTRING_START:
		p.addError(diagnostics.ErrP005, p.curToken, "patterns may not contain f-strings")
		return nil
	case token.TRUE, token.FALSE:
		return &ast.MatchSingleton{Token: p.curToken, Value: &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}}
	case token.NONE:
		return &ast.MatchSingleton{Token: p.curToken, Value: &ast.NoneLiteral{Token: p.curToken}}
	case token.NAME:
		return p.parseNamePattern()
	case token.STAR:
		return p.parseStarPattern()
	case token.LPAREN:
		return p.parseGroupOrSequencePattern()
	case token.LBRACKET:
		return p.parseBracketSequencePattern()
	case token.LBRACE:
		return p.parseMappingPattern()
	default:
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
}

// parseNumberPattern handles signed numbers and the complex literal
// forms 1 + 2j and -1 - 2j.
func (p *Parser) parseNumberPattern() ast.Pattern {
	tok := p.curToken
	expr := p.parseSignedNumber()
	if expr == nil {
		return nil
	}
	if p.peekTokenIs(token.PLUS) || p.peekTokenIs(token.MINUS) {
		if p.peekAhead(1).Type == token.NUMBER {
			p.nextToken()
			opTok := p.curToken
			p.nextToken()
			imag := p.parseNumberLiteral().(*ast.NumberLiteral)
			if imag.Kind != token.NumberComplex {
				p.addError(diagnostics.ErrP005, imag.Token, "imaginary number required in complex literal")
				return nil
			}
			expr = &ast.InfixExpression{Token: opTok, Left: expr, Operator: opTok.Lexeme, Right: imag}
		}
	}
	return &ast.MatchValue{Token: tok, Value: expr}
}

func (p *Parser) parseSignedNumber() ast.Expression {
	if p.curTokenIs(token.MINUS) {
		pe := &ast.PrefixExpression{Token: p.curToken, Operator: "-"}
		if !p.expectPeek(token.NUMBER) {
			return nil
		}
		pe.Right = p.parseNumberLiteral()
		return pe
	}
	return p.parseNumberLiteral()
}

// parseStringPattern allows implicit concatenation of plain string or
// bytes literals as one value pattern.
func (p *Parser) parseStringPattern() ast.Pattern {
	tok := p.curToken
	value := p.parseStrings()
	if value == nil {
		return nil
	}
	if _, ok := value.(*ast.JoinedStr); ok {
		p.addError(diagnostics.ErrP005, tok, "patterns may not contain f-strings")
		return nil
	}
	return &ast.MatchValue{Token: tok, Value: value}
}

// parseNamePattern distinguishes the wildcard, captures, dotted value
// patterns, and class patterns.
func (p *Parser) parseNamePattern() ast.Pattern {
	tok := p.curToken
	if tok.Lexeme == "_" && !p.peekTokenIs(token.DOT) && !p.peekTokenIs(token.LPAREN) {
		return &ast.MatchAs{Token: tok}
	}

	if !p.peekTokenIs(token.DOT) && !p.peekTokenIs(token.LPAREN) {
		return &ast.MatchAs{Token: tok, Name: tok.Lexeme}
	}

	var value ast.Expression = &ast.Identifier{Token: tok, Value: tok.Lexeme}
	for p.peekTokenIs(token.DOT) {
		p.nextToken()
		dotTok := p.curToken
		if !p.expectPeek(token.NAME) {
			return nil
		}
		value = &ast.Attribute{Token: dotTok, Value: value, Attr: p.curToken.Lexeme}
	}

	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		return p.parseClassPattern(value)
	}
	return &ast.MatchValue{Token: tok, Value: value}
}

func (p *Parser) parseStarPattern() ast.Pattern {
	st := &ast.MatchStar{Token: p.curToken}
	if !p.expectPeek(token.NAME) {
		return nil
	}
	if p.curToken.Lexeme != "_" {
		st.Name = p.curToken.Lexeme
	}
	return st
}

// parseClassPattern parses Cls(p1, p2, kw=pat); curToken is the '('.
func (p *Parser) parseClassPattern(cls ast.Expression) ast.Pattern {
	mc := &ast.MatchClass{Token: cls.GetToken(), Cls: cls}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return mc
	}
	p.nextToken()
	for {
		if p.curTokenIs(token.NAME) && p.peekTokenIs(token.ASSIGN) {
			name := p.curToken.Lexeme
			p.nextToken()
			p.nextToken()
			pat := p.parsePattern()
			if pat == nil {
				return nil
			}
			mc.KwdNames = append(mc.KwdNames, name)
			mc.KwdPatterns = append(mc.KwdPatterns, pat)
		} else {
			if len(mc.KwdNames) > 0 {
				p.addError(diagnostics.ErrP005, p.curToken,
					"positional patterns follow keyword patterns")
				return nil
			}
			pat := p.parsePattern()
			if pat == nil {
				return nil
			}
			mc.Patterns = append(mc.Patterns, pat)
		}
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			if p.peekTokenIs(token.RPAREN) {
				break
			}
			p.nextToken()
			continue
		}
		break
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return mc
}

// parseGroupOrSequencePattern handles both (pattern) grouping and
// parenthesized sequence patterns; curToken is the '('.
func (p *Parser) parseGroupOrSequencePattern() ast.Pattern {
	tok := p.curToken
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return &ast.MatchSequence{Token: tok}
	}
	p.nextToken()
	first := p.parsePattern()
	if first == nil {
		return nil
	}
	if !p.peekTokenIs(token.COMMA) {
		// A lone starred pattern still forms a sequence.
		if _, isStar := first.(*ast.MatchStar); !isStar {
			if !p.expectPeek(token.RPAREN) {
				return nil
			}
			return first
		}
	}
	seq := &ast.MatchSequence{Token: tok, Patterns: []ast.Pattern{first}}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if p.peekTokenIs(token.RPAREN) {
			break
		}
		p.nextToken()
		el := p.parsePattern()
		if el == nil {
			return nil
		}
		seq.Patterns = append(seq.Patterns, el)
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.checkSingleStar(seq) {
		return nil
	}
	return seq
}

func (p *Parser) parseBracketSequencePattern() ast.Pattern {
	seq := &ast.MatchSequence{Token: p.curToken}
	if p.peekTokenIs(token.RBRACKET) {
		p.nextToken()
		return seq
	}
	for {
		p.nextToken()
		el := p.parsePattern()
		if el == nil {
			return nil
		}
		seq.Patterns = append(seq.Patterns, el)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			if p.peekTokenIs(token.RBRACKET) {
				break
			}
			continue
		}
		break
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	if !p.checkSingleStar(seq) {
		return nil
	}
	return seq
}

// parseMappingPattern parses {key: pat, **rest}; curToken is the '{'.
func (p *Parser) parseMappingPattern() ast.Pattern {
	mm := &ast.MatchMapping{Token: p.curToken}
	if p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		return mm
	}
	for {
		p.nextToken()
		if p.curTokenIs(token.POWER) {
			if mm.Rest != "" {
				p.addError(diagnostics.ErrP005, p.curToken, "only one double star pattern is accepted")
				return nil
			}
			if !p.expectPeek(token.NAME) {
				return nil
			}
			if p.curToken.Lexeme == "_" {
				p.addError(diagnostics.ErrP005, p.curToken, "cannot use '_' as a target")
				return nil
			}
			mm.Rest = p.curToken.Lexeme
		} else {
			if mm.Rest != "" {
				p.addError(diagnostics.ErrP005, p.curToken,
					"double star pattern must be the last in a mapping pattern")
				return nil
			}
			key := p.parseMappingKey()
			if key == nil {
				return nil
			}
			if !p.expectPeek(token.COLON) {
				return nil
			}
			p.nextToken()
			val := p.parsePattern()
			if val == nil {
				return nil
			}
			mm.Keys = append(mm.Keys, key)
			mm.Patterns = append(mm.Patterns, val)
		}
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			if p.peekTokenIs(token.RBRACE) {
				break
			}
			continue
		}
		break
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return mm
}

// parseMappingKey accepts the literal and dotted-value key forms.
func (p *Parser) parseMappingKey() ast.Expression {
	switch p.curToken.Type {
	case token.NUMBER, token.MINUS:
		return p.parseSignedNumber()
	case token.STRING, token.BYTES:
		value := p.parseStrings()
		if value == nil {
			return nil
		}
		if _, ok := value.(*ast.JoinedStr); ok {
			p.addError(diagnostics.ErrP005, p.curToken, "patterns may not contain f-strings")
			return nil
		}
		return value
	case token.TRUE, token.FALSE:
		return &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
	case token.NONE:
		return &ast.NoneLiteral{Token: p.curToken}
	case token.NAME:
		var value ast.Expression = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
		if !p.peekTokenIs(token.DOT) {
			p.addError(diagnostics.ErrP005, p.curToken, "mapping pattern keys may only match literals and attribute lookups")
			return nil
		}
		for p.peekTokenIs(token.DOT) {
			p.nextToken()
			dotTok := p.curToken
			if !p.expectPeek(token.NAME) {
				return nil
			}
			value = &ast.Attribute{Token: dotTok, Value: value, Attr: p.curToken.Lexeme}
		}
		return value
	default:
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
}

// checkSingleStar enforces the at-most-one-star invariant of sequence
// patterns.
func (p *Parser) checkSingleStar(seq *ast.MatchSequence) bool {
	stars := 0
	for _, pat := range seq.Patterns {
		if _, ok := pat.(*ast.MatchStar); ok {
			stars++
		}
	}
	if stars > 1 {
		p.addError(diagnostics.ErrP005, seq.Token, "multiple starred names in sequence pattern")
		return false
	}
	return true
}
