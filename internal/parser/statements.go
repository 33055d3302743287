package parser

import (
	"github.com/pyscribe/pyscribe/internal/ast"
	"github.com/pyscribe/pyscribe/internal/diagnostics"
	"github.com/pyscribe/pyscribe/internal/token"
)

var augAssignOps = map[token.TokenType]string{
	token.PLUS_ASSIGN:        "+",
	token.MINUS_ASSIGN:       "-",
	token.STAR_ASSIGN:        "*",
	token.SLASH_ASSIGN:       "/",
	token.DOUBLESLASH_ASSIGN: "//",
	token.PERCENT_ASSIGN:     "%",
	token.AT_ASSIGN:          "@",
	token.POWER_ASSIGN:       "**",
	token.AMPERSAND_ASSIGN:   "&",
	token.PIPE_ASSIGN:        "|",
	token.CARET_ASSIGN:       "^",
	token.LSHIFT_ASSIGN:      "<<",
	token.RSHIFT_ASSIGN:      ">>",
}

// parseStatement dispatches on the statement's leading token. Simple
// statement lines may carry several ;-separated statements, so a slice
// comes back.
func (p *Parser) parseStatement() []ast.Statement {
	switch p.curToken.Type {
	case token.IF:
		return compound(p.parseIf())
	case token.WHILE:
		return compound(p.parseWhile())
	case token.FOR:
		return compound(p.parseFor(false))
	case token.TRY:
		return compound(p.parseTry())
	case token.WITH:
		return compound(p.parseWith(false))
	case token.DEF:
		return compound(p.parseFunctionDef(nil, false))
	case token.CLASS:
		return compound(p.parseClassDef(nil))
	case token.AT:
		return compound(p.parseDecorated())
	case token.ASYNC:
		return compound(p.parseAsyncStatement())
	default:
		if p.curIsName("match") && p.startsExpression(p.peekToken) && p.lineHasColon() {
			return compound(p.parseMatch())
		}
		if p.curIsName("type") && p.peekTokenIs(token.NAME) &&
			(p.peekAhead(1).Type == token.ASSIGN || p.peekAhead(1).Type == token.LBRACKET) {
			return p.parseSimpleLineStartingWith(p.parseTypeAlias())
		}
		return p.parseSimpleStatementLine()
	}
}

func compound(stmt ast.Statement) []ast.Statement {
	if stmt == nil {
		return nil
	}
	return []ast.Statement{stmt}
}

// parseSimpleLineStartingWith finishes a simple-statement line whose
// first statement was already parsed.
func (p *Parser) parseSimpleLineStartingWith(first ast.Statement) []ast.Statement {
	if first == nil {
		return nil
	}
	stmts := []ast.Statement{first}
	for p.peekTokenIs(token.SEMI) {
		p.nextToken()
		if p.peekTokenIs(token.NEWLINE) || p.peekTokenIs(token.ENDMARKER) {
			break
		}
		p.nextToken()
		stmt := p.parseSimpleStatement()
		if stmt == nil {
			return nil
		}
		stmts = append(stmts, stmt)
	}
	if p.peekTokenIs(token.NEWLINE) {
		p.nextToken()
	} else if !p.peekTokenIs(token.ENDMARKER) {
		p.peekError(token.NEWLINE)
		return nil
	}
	return stmts
}

func (p *Parser) parseSimpleStatementLine() []ast.Statement {
	return p.parseSimpleLineStartingWith(p.parseSimpleStatement())
}

func (p *Parser) parseSimpleStatement() ast.Statement {
	switch p.curToken.Type {
	case token.RETURN:
		return p.parseReturn()
	case token.PASS:
		return &ast.Pass{Token: p.curToken}
	case token.BREAK:
		return &ast.Break{Token: p.curToken}
	case token.CONTINUE:
		return &ast.Continue{Token: p.curToken}
	case token.DEL:
		return p.parseDelete()
	case token.RAISE:
		return p.parseRaise()
	case token.ASSERT:
		return p.parseAssert()
	case token.IMPORT:
		return p.parseImport()
	case token.FROM:
		return p.parseImportFrom()
	case token.GLOBAL:
		return p.parseGlobal()
	case token.NONLOCAL:
		return p.parseNonlocal()
	default:
		return p.parseExprOrAssign()
	}
}

// parseExprOrAssign parses an expression statement and then looks for
// '=', an augmented operator, or ':' (annotated assignment).
func (p *Parser) parseExprOrAssign() ast.Statement {
	first := p.parseTestListStarExpr(true)
	if first == nil {
		return nil
	}

	if p.peekTokenIs(token.COLON) {
		return p.parseAnnAssign(first)
	}

	if op, ok := augAssignOps[p.peekToken.Type]; ok {
		switch first.(type) {
		case *ast.Identifier, *ast.Attribute, *ast.Subscript:
		default:
			p.addError(diagnostics.ErrP005, first.GetToken(),
				"illegal target for augmented assignment")
			return nil
		}
		aa := &ast.AugAssign{Token: first.GetToken(), Target: first, Op: op}
		p.nextToken()
		p.nextToken()
		aa.Value = p.parseAssignValue()
		if aa.Value == nil {
			return nil
		}
		return aa
	}

	if p.peekTokenIs(token.ASSIGN) {
		exprs := []ast.Expression{first}
		for p.peekTokenIs(token.ASSIGN) {
			p.nextToken()
			p.nextToken()
			next := p.parseAssignValue()
			if next == nil {
				return nil
			}
			exprs = append(exprs, next)
		}
		value := exprs[len(exprs)-1]
		targets := exprs[:len(exprs)-1]
		for _, target := range targets {
			if !p.validateAssignTarget(target) {
				return nil
			}
		}
		return &ast.Assign{Token: first.GetToken(), Targets: targets, Value: value}
	}

	return &ast.ExpressionStatement{Token: first.GetToken(), Expression: first}
}

// parseAssignValue parses the right-hand side of an assignment: a
// yield expression or a (possibly star-carrying) expression list.
func (p *Parser) parseAssignValue() ast.Expression {
	if p.curTokenIs(token.YIELD) {
		return p.parseYield()
	}
	return p.parseTestListStarExpr(true)
}

func (p *Parser) parseAnnAssign(target ast.Expression) ast.Statement {
	simple := false
	switch target.(type) {
	case *ast.Identifier:
		simple = true
	case *ast.Attribute, *ast.Subscript:
	default:
		p.addError(diagnostics.ErrP005, target.GetToken(),
			"only single target (not "+nodeDescription(target)+") can be annotated")
		return nil
	}

	aa := &ast.AnnAssign{Token: target.GetToken(), Target: target, Simple: simple}
	p.nextToken() // ':'
	p.nextToken()
	aa.Annotation = p.parseExpression(LOWEST)
	if aa.Annotation == nil {
		return nil
	}
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		aa.Value = p.parseAssignValue()
		if aa.Value == nil {
			return nil
		}
	}
	return aa
}

func (p *Parser) parseReturn() ast.Statement {
	r := &ast.Return{Token: p.curToken}
	if p.startsExpression(p.peekToken) {
		p.nextToken()
		r.Value = p.parseTestListStarExpr(true)
		if r.Value == nil {
			return nil
		}
	}
	return r
}

func (p *Parser) parseDelete() ast.Statement {
	d := &ast.Delete{Token: p.curToken}
	p.nextToken()
	targets := p.parseTestListStarExpr(false)
	if targets == nil {
		return nil
	}
	if tup, ok := targets.(*ast.TupleLiteral); ok {
		d.Targets = tup.Elements
	} else {
		d.Targets = []ast.Expression{targets}
	}
	for _, target := range d.Targets {
		if !p.validateAssignTarget(target) {
			return nil
		}
	}
	return d
}

func (p *Parser) parseRaise() ast.Statement {
	r := &ast.Raise{Token: p.curToken}
	if !p.startsExpression(p.peekToken) {
		return r
	}
	p.nextToken()
	r.Exc = p.parseExpression(LOWEST)
	if r.Exc == nil {
		return nil
	}
	if p.peekTokenIs(token.FROM) {
		p.nextToken()
		p.nextToken()
		r.Cause = p.parseExpression(LOWEST)
		if r.Cause == nil {
			return nil
		}
	}
	return r
}

func (p *Parser) parseAssert() ast.Statement {
	a := &ast.Assert{Token: p.curToken}
	p.nextToken()
	a.Test = p.parseExpression(LOWEST)
	if a.Test == nil {
		return nil
	}
	if p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		a.Msg = p.parseExpression(LOWEST)
		if a.Msg == nil {
			return nil
		}
	}
	return a
}

func (p *Parser) parseGlobal() ast.Statement {
	g := &ast.Global{Token: p.curToken}
	for {
		if !p.expectPeek(token.NAME) {
			return nil
		}
		g.Names = append(g.Names, p.curToken.Lexeme)
		if !p.peekTokenIs(token.COMMA) {
			return g
		}
		p.nextToken()
	}
}

func (p *Parser) parseNonlocal() ast.Statement {
	n := &ast.Nonlocal{Token: p.curToken}
	for {
		if !p.expectPeek(token.NAME) {
			return nil
		}
		n.Names = append(n.Names, p.curToken.Lexeme)
		if !p.peekTokenIs(token.COMMA) {
			return n
		}
		p.nextToken()
	}
}

// parseDottedNameString reads a dotted module path; curToken is the
// first NAME.
func (p *Parser) parseDottedNameString() string {
	name := p.curToken.Lexeme
	for p.peekTokenIs(token.DOT) && p.peekAhead(1).Type == token.NAME {
		p.nextToken()
		p.nextToken()
		name += "." + p.curToken.Lexeme
	}
	return name
}

func (p *Parser) parseImport() ast.Statement {
	imp := &ast.Import{Token: p.curToken}
	for {
		if !p.expectPeek(token.NAME) {
			return nil
		}
		al := &ast.Alias{Token: p.curToken, Name: p.parseDottedNameString()}
		if p.peekTokenIs(token.AS) {
			p.nextToken()
			if !p.expectPeek(token.NAME) {
				return nil
			}
			al.AsName = p.curToken.Lexeme
		}
		imp.Names = append(imp.Names, al)
		if !p.peekTokenIs(token.COMMA) {
			return imp
		}
		p.nextToken()
	}
}

func (p *Parser) parseImportFrom() ast.Statement {
	imf := &ast.ImportFrom{Token: p.curToken}
	for p.peekTokenIs(token.DOT) || p.peekTokenIs(token.ELLIPSIS) {
		if p.peekTokenIs(token.ELLIPSIS) {
			imf.Level += 3
		} else {
			imf.Level++
		}
		p.nextToken()
	}
	if p.peekTokenIs(token.NAME) {
		p.nextToken()
		imf.Module = p.parseDottedNameString()
	} else if imf.Level == 0 {
		p.addError(diagnostics.ErrP003, p.peekToken, p.peekToken.Type)
		return nil
	}
	if !p.expectPeek(token.IMPORT) {
		return nil
	}

	if p.peekTokenIs(token.STAR) {
		p.nextToken()
		imf.Names = []*ast.Alias{{Token: p.curToken, Name: "*"}}
		return imf
	}

	paren := false
	if p.peekTokenIs(token.LPAREN) {
		paren = true
		p.nextToken()
	}
	for {
		if !p.expectPeek(token.NAME) {
			return nil
		}
		al := &ast.Alias{Token: p.curToken, Name: p.curToken.Lexeme}
		if p.peekTokenIs(token.AS) {
			p.nextToken()
			if !p.expectPeek(token.NAME) {
				return nil
			}
			al.AsName = p.curToken.Lexeme
		}
		imf.Names = append(imf.Names, al)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			if paren && p.peekTokenIs(token.RPAREN) {
				break
			}
			continue
		}
		break
	}
	if paren && !p.expectPeek(token.RPAREN) {
		return nil
	}
	return imf
}

// parseBlock parses a suite: either simple statements on the header's
// line, or NEWLINE INDENT statements DEDENT. curToken is the ':'.
func (p *Parser) parseBlock() []ast.Statement {
	if !p.peekTokenIs(token.NEWLINE) {
		p.nextToken()
		return p.parseSimpleStatementLine()
	}
	p.nextToken()
	if !p.expectPeek(token.INDENT) {
		return nil
	}
	p.nextToken()
	var stmts []ast.Statement
	for !p.curTokenIs(token.DEDENT) && !p.curTokenIs(token.ENDMARKER) {
		if p.curTokenIs(token.NEWLINE) {
			p.nextToken()
			continue
		}
		sub := p.parseStatement()
		if sub == nil || len(p.errors) > 0 {
			return nil
		}
		stmts = append(stmts, sub...)
		p.nextToken()
	}
	return stmts
}

func (p *Parser) parseIf() ast.Statement {
	stmt := &ast.If{Token: p.curToken}
	p.nextToken()
	stmt.Test = p.parseExpression(LOWEST)
	if stmt.Test == nil {
		return nil
	}
	if !p.expectPeek(token.COLON) {
		return nil
	}
	stmt.Body = p.parseBlock()
	if stmt.Body == nil {
		return nil
	}

	if p.peekTokenIs(token.ELIF) {
		p.nextToken()
		nested := p.parseIf()
		if nested == nil {
			return nil
		}
		stmt.OrElse = []ast.Statement{nested}
	} else if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		if !p.expectPeek(token.COLON) {
			return nil
		}
		stmt.OrElse = p.parseBlock()
		if stmt.OrElse == nil {
			return nil
		}
	}
	return stmt
}

func (p *Parser) parseWhile() ast.Statement {
	stmt := &ast.While{Token: p.curToken}
	p.nextToken()
	stmt.Test = p.parseExpression(LOWEST)
	if stmt.Test == nil {
		return nil
	}
	if !p.expectPeek(token.COLON) {
		return nil
	}
	stmt.Body = p.parseBlock()
	if stmt.Body == nil {
		return nil
	}
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		if !p.expectPeek(token.COLON) {
			return nil
		}
		stmt.OrElse = p.parseBlock()
		if stmt.OrElse == nil {
			return nil
		}
	}
	return stmt
}

func (p *Parser) parseFor(isAsync bool) ast.Statement {
	stmt := &ast.For{Token: p.curToken, IsAsync: isAsync}
	p.nextToken()
	stmt.Target = p.parseTargetList()
	if stmt.Target == nil {
		return nil
	}
	if !p.expectPeek(token.IN) {
		return nil
	}
	p.nextToken()
	stmt.Iter = p.parseTestListStarExpr(true)
	if stmt.Iter == nil {
		return nil
	}
	if !p.expectPeek(token.COLON) {
		return nil
	}
	stmt.Body = p.parseBlock()
	if stmt.Body == nil {
		return nil
	}
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		if !p.expectPeek(token.COLON) {
			return nil
		}
		stmt.OrElse = p.parseBlock()
		if stmt.OrElse == nil {
			return nil
		}
	}
	return stmt
}

// withParensAreItemList looks ahead from a '(' after `with` for an
// `as` at depth one, which marks the parenthesized with-item list form
// rather than a parenthesized expression.
func (p *Parser) withParensAreItemList() bool {
	depth := 0
	for i := p.pos - 1; i < len(p.tokens); i++ {
		switch p.tokens[i].Type {
		case token.LPAREN, token.LBRACKET, token.LBRACE:
			depth++
		case token.RPAREN, token.RBRACKET, token.RBRACE:
			depth--
			if depth == 0 {
				return false
			}
		case token.AS:
			if depth == 1 {
				return true
			}
		case token.NEWLINE:
		case token.COLON:
			if depth == 0 {
				return false
			}
		case token.ENDMARKER:
			return false
		}
	}
	return false
}

func (p *Parser) parseWith(isAsync bool) ast.Statement {
	stmt := &ast.With{Token: p.curToken, IsAsync: isAsync}

	paren := false
	if p.peekTokenIs(token.LPAREN) && p.withParensAreItemList() {
		paren = true
		p.nextToken()
	}

	for {
		p.nextToken()
		item := &ast.WithItem{}
		item.ContextExpr = p.parseExpression(LOWEST)
		if item.ContextExpr == nil {
			return nil
		}
		if p.peekTokenIs(token.AS) {
			p.nextToken()
			p.nextToken()
			target := p.parseTarget()
			if target == nil || !p.validateAssignTarget(target) {
				return nil
			}
			item.OptionalVars = target
		}
		stmt.Items = append(stmt.Items, item)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			if paren && p.peekTokenIs(token.RPAREN) {
				break
			}
			continue
		}
		break
	}
	if paren && !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.COLON) {
		return nil
	}
	stmt.Body = p.parseBlock()
	if stmt.Body == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseTry() ast.Statement {
	stmt := &ast.Try{Token: p.curToken}
	if !p.expectPeek(token.COLON) {
		return nil
	}
	stmt.Body = p.parseBlock()
	if stmt.Body == nil {
		return nil
	}

	for p.peekTokenIs(token.EXCEPT) {
		p.nextToken()
		h := &ast.ExceptHandler{Token: p.curToken}
		isStar := false
		if p.peekTokenIs(token.STAR) {
			p.nextToken()
			isStar = true
		}
		if len(stmt.Handlers) == 0 {
			stmt.IsStar = isStar
		} else if stmt.IsStar != isStar {
			p.addError(diagnostics.ErrP005, h.Token,
				"cannot have both 'except' and 'except*' on the same 'try'")
			return nil
		}
		if !p.peekTokenIs(token.COLON) {
			p.nextToken()
			h.Type = p.parseExpression(LOWEST)
			if h.Type == nil {
				return nil
			}
			if p.peekTokenIs(token.AS) {
				p.nextToken()
				if !p.expectPeek(token.NAME) {
					return nil
				}
				h.Name = p.curToken.Lexeme
			}
		} else if isStar {
			p.addError(diagnostics.ErrP005, h.Token, "expected one or more exception types")
			return nil
		}
		if !p.expectPeek(token.COLON) {
			return nil
		}
		h.Body = p.parseBlock()
		if h.Body == nil {
			return nil
		}
		stmt.Handlers = append(stmt.Handlers, h)
	}

	if p.peekTokenIs(token.ELSE) {
		if len(stmt.Handlers) == 0 {
			p.addError(diagnostics.ErrP005, p.peekToken, "'else' block requires an 'except' block")
			return nil
		}
		p.nextToken()
		if !p.expectPeek(token.COLON) {
			return nil
		}
		stmt.OrElse = p.parseBlock()
		if stmt.OrElse == nil {
			return nil
		}
	}
	if p.peekTokenIs(token.FINALLY) {
		p.nextToken()
		if !p.expectPeek(token.COLON) {
			return nil
		}
		stmt.FinalBody = p.parseBlock()
		if stmt.FinalBody == nil {
			return nil
		}
	}
	if len(stmt.Handlers) == 0 && len(stmt.FinalBody) == 0 {
		p.addError(diagnostics.ErrP005, stmt.Token, "expected 'except' or 'finally' block")
		return nil
	}
	return stmt
}

func (p *Parser) parseAsyncStatement() ast.Statement {
	switch p.peekToken.Type {
	case token.DEF:
		p.nextToken()
		return p.parseFunctionDef(nil, true)
	case token.FOR:
		p.nextToken()
		return p.parseFor(true)
	case token.WITH:
		p.nextToken()
		return p.parseWith(true)
	default:
		p.addError(diagnostics.ErrP004, p.peekToken, p.peekToken.Lexeme)
		return nil
	}
}

func (p *Parser) parseDecorated() ast.Statement {
	var decorators []ast.Expression
	for p.curTokenIs(token.AT) {
		p.nextToken()
		d := p.parseExpression(LOWEST)
		if d == nil {
			return nil
		}
		decorators = append(decorators, d)
		if !p.expectPeek(token.NEWLINE) {
			return nil
		}
		p.nextToken()
		for p.curTokenIs(token.NEWLINE) {
			p.nextToken()
		}
	}
	switch p.curToken.Type {
	case token.DEF:
		return p.parseFunctionDef(decorators, false)
	case token.CLASS:
		return p.parseClassDef(decorators)
	case token.ASYNC:
		if !p.expectPeek(token.DEF) {
			return nil
		}
		return p.parseFunctionDef(decorators, true)
	default:
		p.addError(diagnostics.ErrP005, p.curToken,
			"expected function or class definition after decorators")
		return nil
	}
}

func (p *Parser) parseFunctionDef(decorators []ast.Expression, isAsync bool) ast.Statement {
	fd := &ast.FunctionDef{Token: p.curToken, Decorators: decorators, IsAsync: isAsync}
	if !p.expectPeek(token.NAME) {
		return nil
	}
	fd.Name = p.curToken.Lexeme
	if p.peekTokenIs(token.LBRACKET) {
		p.nextToken()
		fd.TypeParams = p.parseTypeParams()
		if fd.TypeParams == nil {
			return nil
		}
	}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	fd.Args = p.parseParamList(token.RPAREN, true)
	if fd.Args == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if p.peekTokenIs(token.ARROW) {
		p.nextToken()
		p.nextToken()
		fd.Returns = p.parseExpression(LOWEST)
		if fd.Returns == nil {
			return nil
		}
	}
	if !p.expectPeek(token.COLON) {
		return nil
	}
	fd.Body = p.parseBlock()
	if fd.Body == nil {
		return nil
	}
	return fd
}

func (p *Parser) parseClassDef(decorators []ast.Expression) ast.Statement {
	cd := &ast.ClassDef{Token: p.curToken, Decorators: decorators}
	if !p.expectPeek(token.NAME) {
		return nil
	}
	cd.Name = p.curToken.Lexeme
	if p.peekTokenIs(token.LBRACKET) {
		p.nextToken()
		cd.TypeParams = p.parseTypeParams()
		if cd.TypeParams == nil {
			return nil
		}
	}
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		if !p.parseClassArgs(cd) {
			return nil
		}
	}
	if !p.expectPeek(token.COLON) {
		return nil
	}
	cd.Body = p.parseBlock()
	if cd.Body == nil {
		return nil
	}
	return cd
}

// parseClassArgs parses the base list of a class header, which follows
// call-argument rules. curToken is the '('.
func (p *Parser) parseClassArgs(cd *ast.ClassDef) bool {
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return true
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
				return false
			}
			cd.Bases = append(cd.Bases, st)
		case p.curTokenIs(token.POWER):
			kw := &ast.Keyword{Token: p.curToken}
			p.nextToken()
			kw.Value = p.parseExpression(LOWEST)
			if kw.Value == nil {
				return false
			}
			cd.Keywords = append(cd.Keywords, kw)
			seenKeyword = true
		case p.curTokenIs(token.NAME) && p.peekTokenIs(token.ASSIGN):
			kw := &ast.Keyword{Token: p.curToken, Name: p.curToken.Lexeme}
			p.nextToken()
			p.nextToken()
			kw.Value = p.parseExpression(LOWEST)
			if kw.Value == nil {
				return false
			}
			cd.Keywords = append(cd.Keywords, kw)
			seenKeyword = true
		default:
			base := p.parseExpression(LOWEST)
			if base == nil {
				return false
			}
			if seenKeyword {
				p.addError(diagnostics.ErrP005, base.GetToken(),
					"positional argument follows keyword argument")
				return false
			}
			cd.Bases = append(cd.Bases, base)
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
	return p.expectPeek(token.RPAREN)
}

// parseTypeParams parses a PEP 695 type-parameter list; curToken is
// the '['.
func (p *Parser) parseTypeParams() []ast.TypeParam {
	var tps []ast.TypeParam
	for {
		p.nextToken()
		switch p.curToken.Type {
		case token.STAR:
			tvt := &ast.TypeVarTuple{Token: p.curToken}
			if !p.expectPeek(token.NAME) {
				return nil
			}
			tvt.Name = p.curToken.Lexeme
			tps = append(tps, tvt)
		case token.POWER:
			ps := &ast.ParamSpec{Token: p.curToken}
			if !p.expectPeek(token.NAME) {
				return nil
			}
			ps.Name = p.curToken.Lexeme
			tps = append(tps, ps)
		case token.NAME:
			tv := &ast.TypeVar{Token: p.curToken, Name: p.curToken.Lexeme}
			if p.peekTokenIs(token.COLON) {
				p.nextToken()
				p.nextToken()
				tv.Bound = p.parseExpression(LOWEST)
				if tv.Bound == nil {
					return nil
				}
			}
			tps = append(tps, tv)
		default:
			p.addError(diagnostics.ErrP003, p.curToken, p.curToken.Type)
			return nil
		}
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
	return tps
}

// parseParamList parses a def or lambda parameter list. curToken is
// the token before the first parameter; on return peekToken is `end`.
func (p *Parser) parseParamList(end token.TokenType, allowAnnotations bool) *ast.Arguments {
	args := &ast.Arguments{}
	seenStar := false
	seenSlash := false
	seenDefault := false
	bareStar := false

	for !p.peekTokenIs(end) {
		switch {
		case p.peekTokenIs(token.SLASH):
			p.nextToken()
			if seenSlash || seenStar || (len(args.Args) == 0 && len(args.PosOnlyArgs) == 0) {
				p.addError(diagnostics.ErrP005, p.curToken, "invalid parameter syntax at '/'")
				return nil
			}
			seenSlash = true
			args.PosOnlyArgs = args.Args
			args.Args = nil
		case p.peekTokenIs(token.STAR):
			p.nextToken()
			if seenStar {
				p.addError(diagnostics.ErrP005, p.curToken, "* argument may appear only once")
				return nil
			}
			seenStar = true
			if p.peekTokenIs(token.NAME) {
				p.nextToken()
				args.VarArg = p.parseParam(allowAnnotations)
				if args.VarArg == nil {
					return nil
				}
			} else {
				bareStar = true
			}
		case p.peekTokenIs(token.POWER):
			p.nextToken()
			if args.Kwarg != nil {
				p.addError(diagnostics.ErrP005, p.curToken, "** argument may appear only once")
				return nil
			}
			if !p.expectPeek(token.NAME) {
				return nil
			}
			args.Kwarg = p.parseParam(allowAnnotations)
			if args.Kwarg == nil {
				return nil
			}
		case p.peekTokenIs(token.NAME):
			if args.Kwarg != nil {
				p.addError(diagnostics.ErrP005, p.peekToken,
					"arguments cannot follow var-keyword argument")
				return nil
			}
			p.nextToken()
			arg := p.parseParam(allowAnnotations)
			if arg == nil {
				return nil
			}
			var def ast.Expression
			if p.peekTokenIs(token.ASSIGN) {
				p.nextToken()
				p.nextToken()
				def = p.parseExpression(LOWEST)
				if def == nil {
					return nil
				}
			}
			if seenStar {
				args.KwOnlyArgs = append(args.KwOnlyArgs, arg)
				args.KwDefaults = append(args.KwDefaults, def)
			} else {
				if def == nil && seenDefault {
					p.addError(diagnostics.ErrP005, arg.Token,
						"parameter without a default follows parameter with a default")
					return nil
				}
				if def != nil {
					seenDefault = true
					args.Defaults = append(args.Defaults, def)
				}
				args.Args = append(args.Args, arg)
			}
		default:
			p.addError(diagnostics.ErrP004, p.peekToken, p.peekToken.Lexeme)
			return nil
		}
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}

	if bareStar && len(args.KwOnlyArgs) == 0 && args.Kwarg == nil {
		p.addError(diagnostics.ErrP005, p.curToken, "named arguments must follow bare *")
		return nil
	}
	return args
}

// parseParam parses one parameter name with optional annotation;
// curToken is the NAME.
func (p *Parser) parseParam(allowAnnotations bool) *ast.Arg {
	arg := &ast.Arg{Token: p.curToken, Name: p.curToken.Lexeme}
	if allowAnnotations && p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		arg.Annotation = p.parseExpression(LOWEST)
		if arg.Annotation == nil {
			return nil
		}
	}
	return arg
}

func (p *Parser) parseTypeAlias() ast.Statement {
	ta := &ast.TypeAlias{Token: p.curToken}
	if !p.expectPeek(token.NAME) {
		return nil
	}
	ta.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	if p.peekTokenIs(token.LBRACKET) {
		p.nextToken()
		ta.TypeParams = p.parseTypeParams()
		if ta.TypeParams == nil {
			return nil
		}
	}
	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	ta.Value = p.parseExpression(LOWEST)
	if ta.Value == nil {
		return nil
	}
	return ta
}

func (p *Parser) parseMatch() ast.Statement {
	m := &ast.Match{Token: p.curToken}
	p.nextToken()
	m.Subject = p.parseTestListStarExpr(true)
	if m.Subject == nil {
		return nil
	}
	if !p.expectPeek(token.COLON) {
		return nil
	}
	if !p.expectPeek(token.NEWLINE) {
		return nil
	}
	if !p.expectPeek(token.INDENT) {
		return nil
	}
	p.nextToken()
	for !p.curTokenIs(token.DEDENT) && !p.curTokenIs(token.ENDMARKER) {
		if p.curTokenIs(token.NEWLINE) {
			p.nextToken()
			continue
		}
		if !p.curIsName("case") {
			p.addError(diagnostics.ErrP002, p.curToken, "case", "in match block", p.curToken.Lexeme)
			return nil
		}
		mc := p.parseMatchCase()
		if mc == nil {
			return nil
		}
		m.Cases = append(m.Cases, mc)
		p.nextToken()
	}
	if len(m.Cases) == 0 {
		p.addError(diagnostics.ErrP005, m.Token, "match statement must have at least one case")
		return nil
	}
	return m
}

func (p *Parser) parseMatchCase() *ast.MatchCase {
	mc := &ast.MatchCase{}
	p.nextToken()
	mc.Pattern = p.parseOpenSequencePattern()
	if mc.Pattern == nil {
		return nil
	}
	if p.peekTokenIs(token.IF) {
		p.nextToken()
		p.nextToken()
		mc.Guard = p.parseExpression(LOWEST)
		if mc.Guard == nil {
			return nil
		}
	}
	if !p.expectPeek(token.COLON) {
		return nil
	}
	mc.Body = p.parseBlock()
	if mc.Body == nil {
		return nil
	}
	return mc
}
