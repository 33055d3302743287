package parser

import (
	"math/big"
	"strings"

	"github.com/pyscribe/pyscribe/internal/ast"
	"github.com/pyscribe/pyscribe/internal/diagnostics"
	"github.com/pyscribe/pyscribe/internal/token"
)

// parseExpression is the precedence-climbing core. Every parse
// function is entered with curToken on its first token and returns
// with curToken on its last.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	leftExp := prefix()
	if leftExp == nil {
		return nil
	}

	for precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
		if leftExp == nil {
			return nil
		}
	}
	return leftExp
}

// parseStarOrTest parses one element of an expression list, allowing a
// leading * unpack where the grammar permits it.
func (p *Parser) parseStarOrTest(allowStar bool) ast.Expression {
	if p.curTokenIs(token.STAR) {
		if !allowStar {
			p.addError(diagnostics.ErrP005, p.curToken, "cannot use starred expression here")
			return nil
		}
		st := &ast.Starred{Token: p.curToken}
		p.nextToken()
		st.Value = p.parseExpression(BITWISE_OR)
		if st.Value == nil {
			return nil
		}
		return st
	}
	return p.parseExpression(LOWEST)
}

// parseTestListStarExpr parses a comma-separated expression list,
// producing a TupleLiteral when at least one comma appears (including a
// trailing one).
func (p *Parser) parseTestListStarExpr(allowStar bool) ast.Expression {
	first := p.parseStarOrTest(allowStar)
	if first == nil {
		return nil
	}
	if !p.peekTokenIs(token.COMMA) {
		return first
	}
	tup := &ast.TupleLiteral{Token: first.GetToken(), Elements: []ast.Expression{first}}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if !p.startsExpression(p.peekToken) {
			break
		}
		p.nextToken()
		el := p.parseStarOrTest(allowStar)
		if el == nil {
			return nil
		}
		tup.Elements = append(tup.Elements, el)
	}
	return tup
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	kind := token.NumberInt
	switch p.curToken.Literal.(type) {
	case float64:
		kind = token.NumberFloat
	case complex128:
		kind = token.NumberComplex
	case int64, *big.Int:
		kind = token.NumberInt
	}
	return &ast.NumberLiteral{Token: p.curToken, Kind: kind, Value: p.curToken.Literal}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseNoneLiteral() ast.Expression {
	return &ast.NoneLiteral{Token: p.curToken}
}

func (p *Parser) parseEllipsisLiteral() ast.Expression {
	return &ast.EllipsisLiteral{Token: p.curToken}
}

// stringFlags inspects a literal's lexeme for the raw prefix and
// triple quoting.
func stringFlags(lexeme string) (raw bool, triple bool) {
	i := 0
	for i < len(lexeme) && lexeme[i] != '"' && lexeme[i] != '\'' {
		if lexeme[i] == 'r' || lexeme[i] == 'R' {
			raw = true
		}
		i++
	}
	if i+2 < len(lexeme) && lexeme[i+1] == lexeme[i] && lexeme[i+2] == lexeme[i] {
		triple = true
	}
	return raw, triple
}

// parseStrings parses a run of adjacent string, bytes, and f-string
// literals, applying implicit concatenation.
func (p *Parser) parseStrings() ast.Expression {
	first := p.curToken
	var strParts []ast.Expression // StringLiteral | JoinedStr pieces in order
	var bytesBuf []byte
	hasStr, hasBytes, hasF := false, false, false

	for {
		switch p.curToken.Type {
		case token.STRING:
			hasStr = true
			raw, triple := stringFlags(p.curToken.Lexeme)
			strParts = append(strParts, &ast.StringLiteral{
				Token:  p.curToken,
				Value:  p.curToken.Literal.(string),
				Raw:    raw,
				Triple: triple,
			})
		case token.BYTES:
			hasBytes = true
			bytesBuf = append(bytesBuf, p.curToken.Literal.([]byte)...)
		case token.FSTRING_START:
			hasF = true
			js := p.parseFString()
			if js == nil {
				return nil
			}
			strParts = append(strParts, js)
		}
		if p.peekTokenIs(token.STRING) || p.peekTokenIs(token.BYTES) || p.peekTokenIs(token.FSTRING_START) {
			p.nextToken()
			continue
		}
		break
	}

	if hasBytes && (hasStr || hasF) {
		p.addError(diagnostics.ErrP005, first, "cannot mix bytes and nonbytes literals")
		return nil
	}
	if hasBytes {
		raw, triple := stringFlags(first.Lexeme)
		return &ast.BytesLiteral{Token: first, Value: bytesBuf, Raw: raw, Triple: triple}
	}

	if !hasF {
		if len(strParts) == 1 {
			return strParts[0]
		}
		var sb strings.Builder
		for _, part := range strParts {
			sb.WriteString(part.(*ast.StringLiteral).Value)
		}
		firstLit := strParts[0].(*ast.StringLiteral)
		return &ast.StringLiteral{Token: first, Value: sb.String(), Raw: false, Triple: firstLit.Triple}
	}

	// At least one f-string: the whole run becomes a JoinedStr with
	// adjacent constant parts merged.
	js := &ast.JoinedStr{Token: first}
	for _, part := range strParts {
		switch pt := part.(type) {
		case *ast.StringLiteral:
			js.Parts = appendStrPart(js.Parts, pt)
		case *ast.JoinedStr:
			for _, inner := range pt.Parts {
				if sl, ok := inner.(*ast.StringLiteral); ok {
					js.Parts = appendStrPart(js.Parts, sl)
				} else {
					js.Parts = append(js.Parts, inner)
				}
			}
		}
	}
	return js
}

func appendStrPart(parts []ast.Expression, sl *ast.StringLiteral) []ast.Expression {
	if len(parts) > 0 {
		if prev, ok := parts[len(parts)-1].(*ast.StringLiteral); ok {
			prev.Value += sl.Value
			return parts
		}
	}
	return append(parts, sl)
}

// parseFString parses one f-string from FSTRING_START through
// FSTRING_END.
func (p *Parser) parseFString() *ast.JoinedStr {
	js := &ast.JoinedStr{Token: p.curToken}
	for {
		switch p.peekToken.Type {
		case token.FSTRING_MIDDLE:
			p.nextToken()
			js.Parts = append(js.Parts, &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal.(string)})
		case token.LBRACE:
			p.nextToken()
			fv := p.parseFormattedValue()
			if fv == nil {
				return nil
			}
			js.Parts = append(js.Parts, fv)
		case token.FSTRING_END:
			p.nextToken()
			return js
		default:
			p.peekError(token.FSTRING_END)
			return nil
		}
	}
}

// parseFormattedValue parses one {expr[!conv][:spec]} replacement
// field; curToken is the '{'.
func (p *Parser) parseFormattedValue() ast.Expression {
	fv := &ast.FormattedValue{Token: p.curToken}
	p.nextToken()
	fv.Value = p.parseTestListStarExpr(true)
	if fv.Value == nil {
		return nil
	}
	if p.peekTokenIs(token.BANG) {
		p.nextToken()
		if !p.peekTokenIs(token.NAME) {
			p.addError(diagnostics.ErrP003, p.peekToken, p.peekToken.Type)
			return nil
		}
		p.nextToken()
		conv := p.curToken.Lexeme
		if conv != "s" && conv != "r" && conv != "a" {
			p.addError(diagnostics.ErrP005, p.curToken, "f-string: invalid conversion character, expected 's', 'r', or 'a'")
			return nil
		}
		fv.Conversion = conv[0]
	}
	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		spec := p.parseFormatSpec()
		if spec == nil {
			return nil
		}
		fv.FormatSpec = spec
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return fv
}

// parseFormatSpec parses the text and nested fields after the ':' of a
// replacement field, up to (not including) the closing '}'.
func (p *Parser) parseFormatSpec() *ast.JoinedStr {
	spec := &ast.JoinedStr{Token: p.curToken}
	for {
		switch p.peekToken.Type {
		case token.FSTRING_MIDDLE:
			p.nextToken()
			spec.Parts = append(spec.Parts, &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal.(string)})
		case token.LBRACE:
			p.nextToken()
			fv := p.parseFormattedValue()
			if fv == nil {
				return nil
			}
			spec.Parts = append(spec.Parts, fv)
		case token.RBRACE:
			return spec
		default:
			p.peekError(token.RBRACE)
			return nil
		}
	}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expression := &ast.PrefixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Lexeme,
	}
	p.nextToken()
	expression.Right = p.parseExpression(PREFIX)
	if expression.Right == nil {
		return nil
	}
	return expression
}

func (p *Parser) parseNotExpression() ast.Expression {
	expression := &ast.PrefixExpression{
		Token:    p.curToken,
		Operator: "not",
	}
	p.nextToken()
	expression.Right = p.parseExpression(LOGIC_NOT)
	if expression.Right == nil {
		return nil
	}
	return expression
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expression := &ast.InfixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Lexeme,
		Left:     left,
	}
	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	if expression.Right == nil {
		return nil
	}
	return expression
}

// parsePowerExpression handles the right-associative ** operator.
func (p *Parser) parsePowerExpression(left ast.Expression) ast.Expression {
	expression := &ast.InfixExpression{
		Token:    p.curToken,
		Operator: "**",
		Left:     left,
	}
	p.nextToken()
	expression.Right = p.parseExpression(POWER - 1)
	if expression.Right == nil {
		return nil
	}
	return expression
}

// parseComparison builds a whole comparison chain in one call so that
// a < b < c yields a single Compare with two operators.
func (p *Parser) parseComparison(left ast.Expression) ast.Expression {
	expr := &ast.Compare{Token: p.curToken, Left: left}
	for {
		op := p.curToken.Lexeme
		switch p.curToken.Type {
		case token.NOT:
			if !p.expectPeek(token.IN) {
				return nil
			}
			op = "not in"
		case token.IS:
			if p.peekTokenIs(token.NOT) {
				p.nextToken()
				op = "is not"
			}
		}
		p.nextToken()
		right := p.parseExpression(COMPARISON)
		if right == nil {
			return nil
		}
		expr.Ops = append(expr.Ops, op)
		expr.Comparators = append(expr.Comparators, right)

		if p.peekPrecedence() == COMPARISON {
			p.nextToken()
			continue
		}
		return expr
	}
}

// parseBoolOp collects an and/or chain into a single BoolOp node.
func (p *Parser) parseBoolOp(left ast.Expression) ast.Expression {
	opType := p.curToken.Type
	prec := p.curPrecedence()
	bo := &ast.BoolOp{Token: p.curToken, Op: p.curToken.Lexeme, Values: []ast.Expression{left}}
	for {
		p.nextToken()
		right := p.parseExpression(prec)
		if right == nil {
			return nil
		}
		bo.Values = append(bo.Values, right)
		if !p.peekTokenIs(opType) {
			return bo
		}
		p.nextToken()
	}
}

// parseIfExpression handles the ternary: body if test else orelse.
func (p *Parser) parseIfExpression(left ast.Expression) ast.Expression {
	ie := &ast.IfExpression{Token: p.curToken, Body: left}
	p.nextToken()
	ie.Test = p.parseExpression(TERNARY)
	if ie.Test == nil {
		return nil
	}
	if !p.expectPeek(token.ELSE) {
		return nil
	}
	p.nextToken()
	ie.OrElse = p.parseExpression(LOWEST)
	if ie.OrElse == nil {
		return nil
	}
	return ie
}

func (p *Parser) parseNamedExpr(left ast.Expression) ast.Expression {
	if _, ok := left.(*ast.Identifier); !ok {
		p.addError(diagnostics.ErrP005, p.curToken, "cannot use assignment expression with "+nodeDescription(left))
		return nil
	}
	ne := &ast.NamedExpr{Token: p.curToken, Target: left}
	p.nextToken()
	ne.Value = p.parseExpression(LOWEST)
	if ne.Value == nil {
		return nil
	}
	return ne
}

func (p *Parser) parseAwait() ast.Expression {
	aw := &ast.Await{Token: p.curToken}
	p.nextToken()
	aw.Value = p.parseExpression(AWAIT_PREC)
	if aw.Value == nil {
		return nil
	}
	return aw
}

// parseYield parses yield and yield-from; the value of a plain yield
// may be a comma tuple.
func (p *Parser) parseYield() ast.Expression {
	tok := p.curToken
	if p.peekTokenIs(token.FROM) {
		p.nextToken()
		p.nextToken()
		yf := &ast.YieldFrom{Token: tok}
		yf.Value = p.parseExpression(LOWEST)
		if yf.Value == nil {
			return nil
		}
		return yf
	}
	y := &ast.Yield{Token: tok}
	if p.startsExpression(p.peekToken) {
		p.nextToken()
		y.Value = p.parseTestListStarExpr(true)
		if y.Value == nil {
			return nil
		}
	}
	return y
}

func (p *Parser) parseLambda() ast.Expression {
	lam := &ast.Lambda{Token: p.curToken}
	args := p.parseParamList(token.COLON, false)
	if args == nil {
		return nil
	}
	lam.Args = args
	if !p.expectPeek(token.COLON) {
		return nil
	}
	p.nextToken()
	lam.Body = p.parseExpression(LOWEST)
	if lam.Body == nil {
		return nil
	}
	return lam
}

func (p *Parser) parseAttribute(left ast.Expression) ast.Expression {
	at := &ast.Attribute{Token: p.curToken, Value: left}
	if !p.peekTokenIs(token.NAME) {
		p.addError(diagnostics.ErrP003, p.peekToken, p.peekToken.Type)
		return nil
	}
	p.nextToken()
	at.Attr = p.curToken.Lexeme
	return at
}

// parseGroupedExpression handles (expr), tuples, the empty tuple,
// parenthesized yields, and generator expressions.
func (p *Parser) parseGroupedExpression() ast.Expression {
	tok := p.curToken
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return &ast.TupleLiteral{Token: tok}
	}
	p.nextToken()

	if p.curTokenIs(token.YIELD) {
		y := p.parseYield()
		if y == nil {
			return nil
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return y
	}

	first := p.parseStarOrTest(true)
	if first == nil {
		return nil
	}

	if p.peekTokenIs(token.FOR) || (p.peekTokenIs(token.ASYNC) && p.peekAhead(1).Type == token.FOR) {
		gens := p.parseComprehensions()
		if gens == nil {
			return nil
		}
		ge := &ast.GeneratorExp{Token: tok, Element: first, Generators: gens}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return ge
	}

	if !p.peekTokenIs(token.COMMA) {
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return first
	}

	tup := &ast.TupleLiteral{Token: tok, Elements: []ast.Expression{first}}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if p.peekTokenIs(token.RPAREN) {
			break
		}
		p.nextToken()
		el := p.parseStarOrTest(true)
		if el == nil {
			return nil
		}
		tup.Elements = append(tup.Elements, el)
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return tup
}

func (p *Parser) parseListLiteral() ast.Expression {
	tok := p.curToken
	if p.peekTokenIs(token.RBRACKET) {
		p.nextToken()
		return &ast.ListLiteral{Token: tok}
	}
	p.nextToken()
	first := p.parseStarOrTest(true)
	if first == nil {
		return nil
	}

	if p.peekTokenIs(token.FOR) || (p.peekTokenIs(token.ASYNC) && p.peekAhead(1).Type == token.FOR) {
		if _, ok := first.(*ast.Starred); ok {
			p.addError(diagnostics.ErrP005, first.GetToken(), "iterable unpacking cannot be used in comprehension")
			return nil
		}
		gens := p.parseComprehensions()
		if gens == nil {
			return nil
		}
		lc := &ast.ListComp{Token: tok, Element: first, Generators: gens}
		if !p.expectPeek(token.RBRACKET) {
			return nil
		}
		return lc
	}

	ll := &ast.ListLiteral{Token: tok, Elements: []ast.Expression{first}}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if p.peekTokenIs(token.RBRACKET) {
			break
		}
		p.nextToken()
		el := p.parseStarOrTest(true)
		if el == nil {
			return nil
		}
		ll.Elements = append(ll.Elements, el)
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return ll
}

// parseBraceDisplay disambiguates dict and set displays and their
// comprehensions.
func (p *Parser) parseBraceDisplay() ast.Expression {
	tok := p.curToken
	if p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		return &ast.DictLiteral{Token: tok}
	}
	p.nextToken()

	if p.curTokenIs(token.POWER) {
		dict := &ast.DictLiteral{Token: tok}
		p.nextToken()
		val := p.parseExpression(BITWISE_OR)
		if val == nil {
			return nil
		}
		dict.Keys = append(dict.Keys, nil)
		dict.Values = append(dict.Values, val)
		return p.parseDictRest(dict)
	}

	first := p.parseStarOrTest(true)
	if first == nil {
		return nil
	}

	if _, isStar := first.(*ast.Starred); !isStar && p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		val := p.parseExpression(LOWEST)
		if val == nil {
			return nil
		}
		if p.peekTokenIs(token.FOR) || (p.peekTokenIs(token.ASYNC) && p.peekAhead(1).Type == token.FOR) {
			gens := p.parseComprehensions()
			if gens == nil {
				return nil
			}
			dc := &ast.DictComp{Token: tok, Key: first, Value: val, Generators: gens}
			if !p.expectPeek(token.RBRACE) {
				return nil
			}
			return dc
		}
		dict := &ast.DictLiteral{Token: tok, Keys: []ast.Expression{first}, Values: []ast.Expression{val}}
		return p.parseDictRest(dict)
	}

	if p.peekTokenIs(token.FOR) || (p.peekTokenIs(token.ASYNC) && p.peekAhead(1).Type == token.FOR) {
		gens := p.parseComprehensions()
		if gens == nil {
			return nil
		}
		sc := &ast.SetComp{Token: tok, Element: first, Generators: gens}
		if !p.expectPeek(token.RBRACE) {
			return nil
		}
		return sc
	}

	set := &ast.SetLiteral{Token: tok, Elements: []ast.Expression{first}}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if p.peekTokenIs(token.RBRACE) {
			break
		}
		p.nextToken()
		el := p.parseStarOrTest(true)
		if el == nil {
			return nil
		}
		set.Elements = append(set.Elements, el)
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return set
}

// parseDictRest consumes the remaining `, key: value` and `, **unpack`
// entries of a dict display, including the closing brace.
func (p *Parser) parseDictRest(dict *ast.DictLiteral) ast.Expression {
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if p.peekTokenIs(token.RBRACE) {
			break
		}
		p.nextToken()
		if p.curTokenIs(token.POWER) {
			p.nextToken()
			val := p.parseExpression(BITWISE_OR)
			if val == nil {
				return nil
			}
			dict.Keys = append(dict.Keys, nil)
			dict.Values = append(dict.Values, val)
			continue
		}
		key := p.parseExpression(LOWEST)
		if key == nil {
			return nil
		}
		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()
		val := p.parseExpression(LOWEST)
		if val == nil {
			return nil
		}
		dict.Keys = append(dict.Keys, key)
		dict.Values = append(dict.Values, val)
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return dict
}

// parseComprehensions parses the trailing for/if clause chain of a
// comprehension. The iterables and guards sit at or_test level; a
// ternary or walrus there needs parentheses.
func (p *Parser) parseComprehensions() []*ast.Comprehension {
	var gens []*ast.Comprehension
	for p.peekTokenIs(token.FOR) || (p.peekTokenIs(token.ASYNC) && p.peekAhead(1).Type == token.FOR) {
		isAsync := false
		if p.peekTokenIs(token.ASYNC) {
			p.nextToken()
			isAsync = true
		}
		p.nextToken() // 'for'
		p.nextToken()
		target := p.parseTargetList()
		if target == nil {
			return nil
		}
		if !p.expectPeek(token.IN) {
			return nil
		}
		p.nextToken()
		iter := p.parseExpression(TERNARY)
		if iter == nil {
			return nil
		}
		comp := &ast.Comprehension{Target: target, Iter: iter, IsAsync: isAsync}
		for p.peekTokenIs(token.IF) {
			p.nextToken()
			p.nextToken()
			cond := p.parseExpression(TERNARY)
			if cond == nil {
				return nil
			}
			comp.Ifs = append(comp.Ifs, cond)
		}
		gens = append(gens, comp)
	}
	return gens
}

// parseTargetList parses an assignment target list (as in for
// statements and comprehensions), stopping before `in`.
func (p *Parser) parseTargetList() ast.Expression {
	first := p.parseTarget()
	if first == nil {
		return nil
	}
	var result ast.Expression = first
	if p.peekTokenIs(token.COMMA) {
		tup := &ast.TupleLiteral{Token: first.GetToken(), Elements: []ast.Expression{first}}
		for p.peekTokenIs(token.COMMA) {
			p.nextToken()
			if !p.startsExpression(p.peekToken) {
				break
			}
			p.nextToken()
			el := p.parseTarget()
			if el == nil {
				return nil
			}
			tup.Elements = append(tup.Elements, el)
		}
		result = tup
	}
	if !p.validateAssignTarget(result) {
		return nil
	}
	return result
}

// parseTarget parses a single target at comparison precedence so that
// the `in` of a for clause is left alone.
func (p *Parser) parseTarget() ast.Expression {
	if p.curTokenIs(token.STAR) {
		st := &ast.Starred{Token: p.curToken}
		p.nextToken()
		st.Value = p.parseExpression(COMPARISON)
		if st.Value == nil {
			return nil
		}
		return st
	}
	return p.parseExpression(COMPARISON)
}

// parseSubscript parses one or more slice items; several items build a
// tuple index.
func (p *Parser) parseSubscript(left ast.Expression) ast.Expression {
	tok := p.curToken
	if p.peekTokenIs(token.RBRACKET) {
		p.addError(diagnostics.ErrP005, p.peekToken, "subscript requires an index")
		return nil
	}
	p.nextToken()

	var items []ast.Expression
	trailingComma := false
	for {
		item := p.parseSliceItem()
		if item == nil {
			return nil
		}
		items = append(items, item)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			if p.peekTokenIs(token.RBRACKET) {
				trailingComma = true
				break
			}
			p.nextToken()
			continue
		}
		break
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}

	var index ast.Expression
	if len(items) == 1 && !trailingComma {
		index = items[0]
	} else {
		index = &ast.TupleLiteral{Token: items[0].GetToken(), Elements: items}
	}
	return &ast.Subscript{Token: tok, Value: left, Index: index}
}

// parseSliceItem parses expr, expr:expr, :, ::, and friends.
func (p *Parser) parseSliceItem() ast.Expression {
	var lower ast.Expression
	if !p.curTokenIs(token.COLON) {
		lower = p.parseStarOrTest(true)
		if lower == nil {
			return nil
		}
		if !p.peekTokenIs(token.COLON) {
			return lower
		}
		p.nextToken()
	}

	sl := &ast.Slice{Token: p.curToken, Lower: lower}
	if p.startsExpression(p.peekToken) {
		p.nextToken()
		sl.Upper = p.parseExpression(LOWEST)
		if sl.Upper == nil {
			return nil
		}
	}
	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		if p.startsExpression(p.peekToken) {
			p.nextToken()
			sl.Step = p.parseExpression(LOWEST)
			if sl.Step == nil {
				return nil
			}
		}
	}
	return sl
}

// parseCall parses a call's argument list, enforcing the ordering
// rules and recognizing a sole bare generator argument.
func (p *Parser) parseCall(left ast.Expression) ast.Expression {
	call := &ast.Call{Token: p.curToken, Func: left}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return call
	}
	p.nextToken()

	seenKeyword := false
	for {
		switch {
		case p.curTokenIs(token.STAR):
			st := &ast.Starred{Token: p.curToken}
			p.nextToken()
			st.Value = p.parseExpression(LOWEST)
			if st.Value == nil {
				return nil
			}
			call.Args = append(call.Args, st)
		case p.curTokenIs(token.POWER):
			kw := &ast.Keyword{Token: p.curToken}
			p.nextToken()
			kw.Value = p.parseExpression(LOWEST)
			if kw.Value == nil {
				return nil
			}
			call.Keywords = append(call.Keywords, kw)
			seenKeyword = true
		case p.curTokenIs(token.NAME) && p.peekTokenIs(token.ASSIGN):
			name := p.curToken.Lexeme
			for _, existing := range call.Keywords {
				if existing.Name == name {
					p.addError(diagnostics.ErrP005, p.curToken, "keyword argument repeated: "+name)
					return nil
				}
			}
			kw := &ast.Keyword{Token: p.curToken, Name: name}
			p.nextToken()
			p.nextToken()
			kw.Value = p.parseExpression(LOWEST)
			if kw.Value == nil {
				return nil
			}
			call.Keywords = append(call.Keywords, kw)
			seenKeyword = true
		default:
			arg := p.parseExpression(LOWEST)
			if arg == nil {
				return nil
			}
			if len(call.Args) == 0 && len(call.Keywords) == 0 &&
				(p.peekTokenIs(token.FOR) || (p.peekTokenIs(token.ASYNC) && p.peekAhead(1).Type == token.FOR)) {
				gens := p.parseComprehensions()
				if gens == nil {
					return nil
				}
				arg = &ast.GeneratorExp{Token: arg.GetToken(), Element: arg, Generators: gens}
			}
			if seenKeyword {
				p.addError(diagnostics.ErrP005, arg.GetToken(), "positional argument follows keyword argument")
				return nil
			}
			call.Args = append(call.Args, arg)
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
	return call
}

// validateAssignTarget rejects non-assignable expressions at parse
// time, the way CPython reports "cannot assign to ...".
func (p *Parser) validateAssignTarget(expr ast.Expression) bool {
	switch e := expr.(type) {
	case *ast.Identifier, *ast.Attribute, *ast.Subscript:
		return true
	case *ast.Starred:
		return p.validateAssignTarget(e.Value)
	case *ast.TupleLiteral:
		for _, el := range e.Elements {
			if !p.validateAssignTarget(el) {
				return false
			}
		}
		return true
	case *ast.ListLiteral:
		for _, el := range e.Elements {
			if !p.validateAssignTarget(el) {
				return false
			}
		}
		return true
	default:
		p.addError(diagnostics.ErrP005, expr.GetToken(), "cannot assign to "+nodeDescription(expr))
		return false
	}
}

// nodeDescription names an expression kind for error messages.
func nodeDescription(expr ast.Expression) string {
	switch expr.(type) {
	case *ast.NumberLiteral, *ast.StringLiteral, *ast.BytesLiteral,
		*ast.BooleanLiteral, *ast.NoneLiteral, *ast.EllipsisLiteral:
		return "literal"
	case *ast.Call:
		return "function call"
	case *ast.Compare:
		return "comparison"
	case *ast.InfixExpression, *ast.PrefixExpression, *ast.BoolOp:
		return "operator"
	case *ast.IfExpression:
		return "conditional expression"
	case *ast.Lambda:
		return "lambda"
	case *ast.JoinedStr:
		return "f-string expression"
	case *ast.GeneratorExp:
		return "generator expression"
	case *ast.ListComp, *ast.SetComp, *ast.DictComp:
		return "comprehension"
	case *ast.DictLiteral:
		return "dict display"
	case *ast.SetLiteral:
		return "set display"
	case *ast.NamedExpr:
		return "named expression"
	case *ast.Yield, *ast.YieldFrom:
		return "yield expression"
	case *ast.Await:
		return "await expression"
	default:
		return "expression"
	}
}
